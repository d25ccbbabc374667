package service

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/goingdutch/internal/calculator"
	"github.com/mmynk/goingdutch/internal/models"
)

func TestCalculatorExpenses_SplitSelection(t *testing.T) {
	group := &models.Group{Members: []models.Member{{ID: "a"}, {ID: "b"}, {ID: "c"}}}
	everyone := []string{"a", "b", "c"}

	tests := []struct {
		name    string
		expense *models.Expense
		want    map[string]string
	}{
		{
			name:    "equal",
			expense: &models.Expense{ID: "e1", Amount: dec("120"), PaidBy: "a", SplitWith: everyone, SplitMode: models.SplitEqual},
			want:    map[string]string{"a": "80", "b": "-40", "c": "-40"},
		},
		{
			name:    "ratio settles as equal",
			expense: &models.Expense{ID: "e2", Amount: dec("120"), PaidBy: "a", SplitWith: everyone, SplitMode: models.SplitRatio},
			want:    map[string]string{"a": "80", "b": "-40", "c": "-40"},
		},
		{
			name:    "custom without shares settles as equal",
			expense: &models.Expense{ID: "e3", Amount: dec("120"), PaidBy: "a", SplitWith: everyone, SplitMode: models.SplitCustom},
			want:    map[string]string{"a": "80", "b": "-40", "c": "-40"},
		},
		{
			name: "custom with empty shares settles as equal",
			expense: &models.Expense{ID: "e4", Amount: dec("120"), PaidBy: "a", SplitWith: everyone, SplitMode: models.SplitCustom,
				CustomSplit: map[string]decimal.Decimal{}},
			want: map[string]string{"a": "80", "b": "-40", "c": "-40"},
		},
		{
			name: "custom",
			expense: &models.Expense{ID: "e5", Amount: dec("120"), PaidBy: "a", SplitWith: everyone, SplitMode: models.SplitCustom,
				CustomSplit: map[string]decimal.Decimal{"a": dec("20"), "b": dec("100")}},
			want: map[string]string{"a": "100", "b": "-100", "c": "0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			balances, err := calculator.ComputeBalances(calculatorMembers(group), calculatorExpenses([]*models.Expense{tt.expense}))
			if err != nil {
				t.Fatalf("ComputeBalances failed: %v", err)
			}
			for id, want := range tt.want {
				if !balances[id].Equal(dec(want)) {
					t.Errorf("balance of %s: expected %s, got %s", id, want, balances[id])
				}
			}
		})
	}
}
