package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/goingdutch/internal/models"
	"github.com/mmynk/goingdutch/internal/storage"
	"github.com/mmynk/goingdutch/pkg/api"
)

const (
	maxDescriptionLength = 100
	maxNoteLength        = 500
)

// maxAmount rejects amounts that are certainly typos.
var maxAmount = decimal.New(1, 12)

// ExpenseService implements the Connect ExpenseService.
type ExpenseService struct {
	store storage.Store
}

// NewExpenseService creates a new ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store) *ExpenseService {
	return &ExpenseService{store: store}
}

func invalid(format string, args ...any) error {
	return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf(format, args...))
}

// buildExpense validates input against the group and returns the expense fields it describes.
//
// Rules:
// - amount is positive and at most two decimal places
// - payer and every split member belong to the group
// - the split is not empty and has no duplicates
// - a custom split names only split members and sums exactly to the amount
func buildExpense(group *models.Group, in *api.ExpenseInput) (*models.Expense, error) {
	if in == nil {
		return nil, invalid("expense required")
	}

	if !in.Amount.IsPositive() {
		return nil, invalid("amount must be positive")
	}
	if in.Amount.GreaterThan(maxAmount) {
		return nil, invalid("amount too large")
	}
	if !in.Amount.Equal(in.Amount.Round(2)) {
		return nil, invalid("amount has more than two decimal places")
	}

	description := strings.TrimSpace(in.Description)
	if utf8.RuneCountInString(description) > maxDescriptionLength {
		return nil, invalid("description longer than %d characters", maxDescriptionLength)
	}
	note := strings.TrimSpace(in.Note)
	if utf8.RuneCountInString(note) > maxNoteLength {
		return nil, invalid("note longer than %d characters", maxNoteLength)
	}

	category := models.Category(in.Category)
	if category == "" {
		category = models.CategoryOther
	}
	if !category.Valid() {
		return nil, invalid("unknown category %q", in.Category)
	}

	mode := models.SplitMode(in.SplitMode)
	if mode == "" {
		mode = models.SplitEqual
	}
	if !mode.Valid() {
		return nil, invalid("unknown split mode %q", in.SplitMode)
	}

	if !group.HasMember(in.PaidBy) {
		return nil, invalid("payer %q is not a group member", in.PaidBy)
	}

	if len(in.SplitWith) == 0 {
		return nil, invalid("split_with must name at least one member")
	}
	inSplit := make(map[string]bool, len(in.SplitWith))
	for _, memberID := range in.SplitWith {
		if !group.HasMember(memberID) {
			return nil, invalid("split member %q is not a group member", memberID)
		}
		if inSplit[memberID] {
			return nil, invalid("split member %q listed twice", memberID)
		}
		inSplit[memberID] = true
	}

	var custom map[string]decimal.Decimal
	if mode == models.SplitCustom {
		if len(in.CustomSplit) == 0 {
			return nil, invalid("custom split requires custom_split amounts")
		}
		total := decimal.Zero
		custom = make(map[string]decimal.Decimal, len(in.CustomSplit))
		for memberID, amount := range in.CustomSplit {
			if !inSplit[memberID] {
				return nil, invalid("custom share for %q who is not in split_with", memberID)
			}
			if amount.IsNegative() {
				return nil, invalid("custom share for %q is negative", memberID)
			}
			custom[memberID] = amount
			total = total.Add(amount)
		}
		if !total.Equal(in.Amount) {
			return nil, invalid("custom shares sum to %s, amount is %s", total, in.Amount)
		}
	}

	date := in.Date
	if date == 0 {
		date = time.Now().Unix()
	}

	return &models.Expense{
		GroupID:     group.ID,
		Amount:      in.Amount,
		Description: description,
		Category:    category,
		PaidBy:      in.PaidBy,
		SplitWith:   append([]string(nil), in.SplitWith...),
		SplitMode:   mode,
		CustomSplit: custom,
		Date:        date,
		Note:        note,
	}, nil
}

// AddExpense records a new expense in a group.
func (s *ExpenseService) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	slog.Info("AddExpense request received", "group_id", req.Msg.GroupId)

	group, memberID, err := memberOf(ctx, s.store, req.Msg.GroupId)
	if err != nil {
		return nil, err
	}

	expense, err := buildExpense(group, req.Msg.Expense)
	if err != nil {
		slog.Warn("AddExpense rejected", "group_id", group.ID, "error", err)
		return nil, err
	}
	expense.CreatedBy = memberID

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("AddExpense failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense added",
		"group_id", group.ID,
		"expense_id", expense.ID,
		"amount", expense.Amount.String(),
		"split_mode", expense.SplitMode,
	)

	return connect.NewResponse(&api.AddExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// loadExpense fetches an expense and checks the caller belongs to its group.
func (s *ExpenseService) loadExpense(ctx context.Context, expenseID string) (*models.Expense, *models.Group, string, error) {
	if expenseID == "" {
		return nil, nil, "", connect.NewError(connect.CodeInvalidArgument, errors.New("expense_id required"))
	}
	if _, err := requireUser(ctx); err != nil {
		return nil, nil, "", err
	}

	existing, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, nil, "", toConnectError(err)
	}
	group, memberID, err := memberOf(ctx, s.store, existing.GroupID)
	if err != nil {
		return nil, nil, "", err
	}
	return existing, group, memberID, nil
}

// UpdateExpense replaces the editable fields of an expense. Any group member may edit.
func (s *ExpenseService) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	slog.Info("UpdateExpense request received", "expense_id", req.Msg.ExpenseId)

	existing, group, memberID, err := s.loadExpense(ctx, req.Msg.ExpenseId)
	if err != nil {
		return nil, err
	}

	expense, err := buildExpense(group, req.Msg.Expense)
	if err != nil {
		slog.Warn("UpdateExpense rejected", "expense_id", existing.ID, "error", err)
		return nil, err
	}
	expense.ID = existing.ID
	expense.CreatedAt = existing.CreatedAt
	expense.CreatedBy = existing.CreatedBy
	expense.UpdatedBy = memberID

	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		slog.Error("UpdateExpense failed", "expense_id", expense.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense updated", "group_id", group.ID, "expense_id", expense.ID)

	return connect.NewResponse(&api.UpdateExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// DeleteExpense removes an expense. Any group member may delete.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	slog.Info("DeleteExpense request received", "expense_id", req.Msg.ExpenseId)

	existing, group, _, err := s.loadExpense(ctx, req.Msg.ExpenseId)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteExpense(ctx, existing.ID); err != nil {
		slog.Error("DeleteExpense failed", "expense_id", existing.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense deleted", "group_id", group.ID, "expense_id", existing.ID)

	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}

// ListExpenses returns a group's expenses, most recent first.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	group, _, err := memberOf(ctx, s.store, req.Msg.GroupId)
	if err != nil {
		return nil, err
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, group.ID)
	if err != nil {
		slog.Error("ListExpenses failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = toAPIExpense(e)
	}

	slog.Info("ListExpenses successful", "group_id", group.ID, "count", len(out))

	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}
