package api

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCodec_DecimalsTravelAsStrings(t *testing.T) {
	var c Codec
	data, err := c.Marshal(&Transfer{FromMemberId: "b", ToMemberId: "a", Amount: decimal.RequireFromString("33.33")})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"amount":"33.33"`) {
		t.Errorf("amount not encoded as a string: %s", data)
	}

	var got Transfer
	if err := c.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !got.Amount.Equal(decimal.RequireFromString("33.33")) || got.FromMemberId != "b" {
		t.Errorf("got %+v", got)
	}
}

func TestCodec_AcceptsNumericAmounts(t *testing.T) {
	var in ExpenseInput
	if err := (Codec{}).Unmarshal([]byte(`{"amount": 120.5, "splitWith": ["a"]}`), &in); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !in.Amount.Equal(decimal.RequireFromString("120.5")) {
		t.Errorf("Amount = %s, want 120.5", in.Amount)
	}
}

func TestCodec_EmptyAndInvalid(t *testing.T) {
	var c Codec
	if c.Name() != "json" {
		t.Errorf("Name = %q, want json", c.Name())
	}

	var req ListGroupsRequest
	if err := c.Unmarshal(nil, &req); err != nil {
		t.Errorf("empty body rejected: %v", err)
	}
	if err := c.Unmarshal([]byte(`{"groupId":`), &GetGroupRequest{}); err == nil {
		t.Error("expected error for truncated JSON")
	}
}
