package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/goingdutch/pkg/api"
)

func TestAddExpense(t *testing.T) {
	env := setupTestServer(t)
	tr := setupTrio(t, env)

	expense := tr.bob.addExpense(t, tr.group.Id, &api.ExpenseInput{
		Amount:      dec("120.50"),
		Description: "  Ramen dinner ",
		Category:    "food",
		PaidBy:      tr.aliceID,
		SplitWith:   []string{tr.aliceID, tr.bobID, tr.carolID},
		Date:        1700000000,
	})

	if expense.Id == "" {
		t.Error("expected non-empty expense ID")
	}
	if !expense.Amount.Equal(dec("120.50")) {
		t.Errorf("amount: expected 120.50, got %s", expense.Amount)
	}
	if expense.Description != "Ramen dinner" {
		t.Errorf("description: expected 'Ramen dinner', got %q", expense.Description)
	}
	if expense.SplitMode != "equal" {
		t.Errorf("split mode: expected default 'equal', got %q", expense.SplitMode)
	}
	if expense.CreatedBy != tr.bobID {
		t.Errorf("CreatedBy = %s, want %s", expense.CreatedBy, tr.bobID)
	}
	if expense.Date != 1700000000 {
		t.Errorf("date: expected 1700000000, got %d", expense.Date)
	}
}

func TestAddExpense_DefaultsCategoryAndDate(t *testing.T) {
	env := setupTestServer(t)
	tr := setupTrio(t, env)

	expense := tr.alice.addExpense(t, tr.group.Id, &api.ExpenseInput{
		Amount:    dec("10"),
		PaidBy:    tr.aliceID,
		SplitWith: []string{tr.aliceID},
	})

	if expense.Category != "other" {
		t.Errorf("category: expected 'other', got %q", expense.Category)
	}
	if expense.Date == 0 {
		t.Error("expected date to default to now")
	}
}

func TestAddExpense_Validation(t *testing.T) {
	env := setupTestServer(t)
	tr := setupTrio(t, env)
	everyone := []string{tr.aliceID, tr.bobID, tr.carolID}

	tests := []struct {
		name  string
		input *api.ExpenseInput
	}{
		{"missing expense", nil},
		{"zero amount", &api.ExpenseInput{Amount: decimal.Zero, PaidBy: tr.aliceID, SplitWith: everyone}},
		{"negative amount", &api.ExpenseInput{Amount: dec("-5"), PaidBy: tr.aliceID, SplitWith: everyone}},
		{"three decimals", &api.ExpenseInput{Amount: dec("1.005"), PaidBy: tr.aliceID, SplitWith: everyone}},
		{"huge amount", &api.ExpenseInput{Amount: dec("1000000000001"), PaidBy: tr.aliceID, SplitWith: everyone}},
		{"unknown payer", &api.ExpenseInput{Amount: dec("10"), PaidBy: "stranger", SplitWith: everyone}},
		{"empty split", &api.ExpenseInput{Amount: dec("10"), PaidBy: tr.aliceID}},
		{"unknown split member", &api.ExpenseInput{Amount: dec("10"), PaidBy: tr.aliceID, SplitWith: []string{tr.aliceID, "stranger"}}},
		{"duplicate split member", &api.ExpenseInput{Amount: dec("10"), PaidBy: tr.aliceID, SplitWith: []string{tr.bobID, tr.bobID}}},
		{"unknown category", &api.ExpenseInput{Amount: dec("10"), Category: "gambling", PaidBy: tr.aliceID, SplitWith: everyone}},
		{"unknown split mode", &api.ExpenseInput{Amount: dec("10"), SplitMode: "weighted", PaidBy: tr.aliceID, SplitWith: everyone}},
		{"custom without shares", &api.ExpenseInput{Amount: dec("10"), SplitMode: "custom", PaidBy: tr.aliceID, SplitWith: everyone}},
		{"custom sum mismatch", &api.ExpenseInput{
			Amount: dec("10"), SplitMode: "custom", PaidBy: tr.aliceID, SplitWith: everyone,
			CustomSplit: map[string]decimal.Decimal{tr.aliceID: dec("3"), tr.bobID: dec("3"), tr.carolID: dec("3")},
		}},
		{"custom share outside split", &api.ExpenseInput{
			Amount: dec("10"), SplitMode: "custom", PaidBy: tr.aliceID, SplitWith: []string{tr.aliceID, tr.bobID},
			CustomSplit: map[string]decimal.Decimal{tr.aliceID: dec("5"), tr.carolID: dec("5")},
		}},
		{"negative custom share", &api.ExpenseInput{
			Amount: dec("10"), SplitMode: "custom", PaidBy: tr.aliceID, SplitWith: []string{tr.aliceID, tr.bobID},
			CustomSplit: map[string]decimal.Decimal{tr.aliceID: dec("15"), tr.bobID: dec("-5")},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tr.alice.expenses.AddExpense(context.Background(), connect.NewRequest(&api.AddExpenseRequest{
				GroupId: tr.group.Id,
				Expense: tt.input,
			}))
			assertCode(t, err, connect.CodeInvalidArgument)
		})
	}
}

func TestAddExpense_NonMember(t *testing.T) {
	env := setupTestServer(t)
	tr := setupTrio(t, env)
	mallory := env.signIn()

	_, err := mallory.expenses.AddExpense(context.Background(), connect.NewRequest(&api.AddExpenseRequest{
		GroupId: tr.group.Id,
		Expense: &api.ExpenseInput{Amount: dec("10"), PaidBy: tr.aliceID, SplitWith: []string{tr.aliceID}},
	}))
	assertCode(t, err, connect.CodePermissionDenied)
}

func TestListExpenses(t *testing.T) {
	env := setupTestServer(t)
	tr := setupTrio(t, env)

	older := tr.alice.addExpense(t, tr.group.Id, &api.ExpenseInput{
		Amount: dec("30"), PaidBy: tr.aliceID, SplitWith: []string{tr.aliceID, tr.bobID}, Date: 1700000000,
	})
	newer := tr.bob.addExpense(t, tr.group.Id, &api.ExpenseInput{
		Amount: dec("60"), PaidBy: tr.bobID, SplitWith: []string{tr.bobID, tr.carolID}, Date: 1700086400,
	})

	resp, err := tr.carol.expenses.ListExpenses(context.Background(), connect.NewRequest(&api.ListExpensesRequest{GroupId: tr.group.Id}))
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(resp.Msg.Expenses) != 2 {
		t.Fatalf("expected 2 expenses, got %d", len(resp.Msg.Expenses))
	}
	if resp.Msg.Expenses[0].Id != newer.Id || resp.Msg.Expenses[1].Id != older.Id {
		t.Errorf("expected most recent first, got %s then %s", resp.Msg.Expenses[0].Id, resp.Msg.Expenses[1].Id)
	}
}

func TestUpdateExpense(t *testing.T) {
	env := setupTestServer(t)
	tr := setupTrio(t, env)

	created := tr.alice.addExpense(t, tr.group.Id, &api.ExpenseInput{
		Amount:    dec("90"),
		PaidBy:    tr.aliceID,
		SplitWith: []string{tr.aliceID, tr.bobID, tr.carolID},
	})

	resp, err := tr.carol.expenses.UpdateExpense(context.Background(), connect.NewRequest(&api.UpdateExpenseRequest{
		ExpenseId: created.Id,
		Expense: &api.ExpenseInput{
			Amount:      dec("100"),
			Description: "Taxi",
			Category:    "transport",
			PaidBy:      tr.bobID,
			SplitWith:   []string{tr.bobID, tr.carolID},
			SplitMode:   "custom",
			CustomSplit: map[string]decimal.Decimal{tr.bobID: dec("25"), tr.carolID: dec("75")},
		},
	}))
	if err != nil {
		t.Fatalf("UpdateExpense failed: %v", err)
	}

	updated := resp.Msg.Expense
	if updated.Id != created.Id {
		t.Errorf("ID changed: %s -> %s", created.Id, updated.Id)
	}
	if updated.CreatedBy != tr.aliceID {
		t.Errorf("CreatedBy = %s, want original creator %s", updated.CreatedBy, tr.aliceID)
	}
	if updated.UpdatedBy != tr.carolID {
		t.Errorf("UpdatedBy = %s, want %s", updated.UpdatedBy, tr.carolID)
	}

	list, err := tr.alice.expenses.ListExpenses(context.Background(), connect.NewRequest(&api.ListExpensesRequest{GroupId: tr.group.Id}))
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(list.Msg.Expenses) != 1 {
		t.Fatalf("expected 1 expense, got %d", len(list.Msg.Expenses))
	}
	stored := list.Msg.Expenses[0]
	if !stored.Amount.Equal(dec("100")) || stored.PaidBy != tr.bobID || stored.SplitMode != "custom" {
		t.Errorf("update not persisted: %+v", stored)
	}
	if !stored.CustomSplit[tr.carolID].Equal(dec("75")) {
		t.Errorf("custom share for carol: expected 75, got %s", stored.CustomSplit[tr.carolID])
	}
}

func TestUpdateExpense_Errors(t *testing.T) {
	env := setupTestServer(t)
	tr := setupTrio(t, env)
	mallory := env.signIn()

	created := tr.alice.addExpense(t, tr.group.Id, &api.ExpenseInput{
		Amount: dec("10"), PaidBy: tr.aliceID, SplitWith: []string{tr.aliceID},
	})
	valid := &api.ExpenseInput{Amount: dec("20"), PaidBy: tr.aliceID, SplitWith: []string{tr.aliceID}}

	_, err := tr.alice.expenses.UpdateExpense(context.Background(), connect.NewRequest(&api.UpdateExpenseRequest{Expense: valid}))
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = tr.alice.expenses.UpdateExpense(context.Background(), connect.NewRequest(&api.UpdateExpenseRequest{ExpenseId: "missing", Expense: valid}))
	assertCode(t, err, connect.CodeNotFound)

	_, err = mallory.expenses.UpdateExpense(context.Background(), connect.NewRequest(&api.UpdateExpenseRequest{ExpenseId: created.Id, Expense: valid}))
	assertCode(t, err, connect.CodePermissionDenied)

	_, err = tr.alice.expenses.UpdateExpense(context.Background(), connect.NewRequest(&api.UpdateExpenseRequest{
		ExpenseId: created.Id,
		Expense:   &api.ExpenseInput{Amount: dec("20"), PaidBy: tr.aliceID},
	}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestDeleteExpense(t *testing.T) {
	env := setupTestServer(t)
	tr := setupTrio(t, env)
	mallory := env.signIn()

	created := tr.alice.addExpense(t, tr.group.Id, &api.ExpenseInput{
		Amount: dec("10"), PaidBy: tr.aliceID, SplitWith: []string{tr.aliceID, tr.bobID},
	})

	_, err := mallory.expenses.DeleteExpense(context.Background(), connect.NewRequest(&api.DeleteExpenseRequest{ExpenseId: created.Id}))
	assertCode(t, err, connect.CodePermissionDenied)

	if _, err := tr.bob.expenses.DeleteExpense(context.Background(), connect.NewRequest(&api.DeleteExpenseRequest{ExpenseId: created.Id})); err != nil {
		t.Fatalf("DeleteExpense failed: %v", err)
	}

	_, err = tr.bob.expenses.DeleteExpense(context.Background(), connect.NewRequest(&api.DeleteExpenseRequest{ExpenseId: created.Id}))
	assertCode(t, err, connect.CodeNotFound)

	list, err := tr.alice.expenses.ListExpenses(context.Background(), connect.NewRequest(&api.ListExpensesRequest{GroupId: tr.group.Id}))
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(list.Msg.Expenses) != 0 {
		t.Errorf("expected no expenses after delete, got %d", len(list.Msg.Expenses))
	}
}
