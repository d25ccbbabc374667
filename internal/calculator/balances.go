package calculator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrUnknownMember is returned when an expense references a member that is not in the group.
var ErrUnknownMember = errors.New("unknown member")

// Member represents a group member with the minimal information needed for settlement.
type Member struct {
	ID   string
	Name string
}

// Expense represents an expense with the minimal information needed for balance calculations.
type Expense struct {
	ID        string
	Amount    decimal.Decimal
	PaidBy    string
	SplitWith []string
	Split     Split // nil means EqualSplit
}

// ExpenseError identifies the expense that made a computation fail.
type ExpenseError struct {
	ExpenseID string
	MemberID  string
	Err       error
}

func (e *ExpenseError) Error() string {
	return fmt.Sprintf("expense %s: %v %q", e.ExpenseID, e.Err, e.MemberID)
}

func (e *ExpenseError) Unwrap() error {
	return e.Err
}

// ComputeBalances returns each member's net balance across all expenses.
// Positive means the member is owed money, negative means the member owes money.
//
// Algorithm:
// - Every member starts at zero
// - For each expense: the payer is credited the full amount, each sharer is debited their share
// - Expenses with nobody to split with are skipped entirely
//
// The result is exact: shares are never rounded. Rounding happens in MinimizeDebts.
func ComputeBalances(members []Member, expenses []Expense) (map[string]decimal.Decimal, error) {
	balances := make(map[string]decimal.Decimal, len(members))
	for _, m := range members {
		balances[m.ID] = decimal.Zero
	}

	for _, expense := range expenses {
		if err := checkReferences(balances, expense); err != nil {
			return nil, err
		}

		owed := shares(expense)
		if len(owed) == 0 {
			// The payer is not credited either, otherwise balances would
			// no longer sum to zero. Audit reports the expense as empty_split.
			continue
		}

		balances[expense.PaidBy] = balances[expense.PaidBy].Add(expense.Amount)
		for memberID, amount := range owed {
			balances[memberID] = balances[memberID].Sub(amount)
		}
	}

	return balances, nil
}

// checkReferences verifies that the payer and every sharer of the expense are known members.
func checkReferences(known map[string]decimal.Decimal, e Expense) error {
	if _, ok := known[e.PaidBy]; !ok {
		return &ExpenseError{ExpenseID: e.ID, MemberID: e.PaidBy, Err: ErrUnknownMember}
	}
	for _, memberID := range e.SplitWith {
		if _, ok := known[memberID]; !ok {
			return &ExpenseError{ExpenseID: e.ID, MemberID: memberID, Err: ErrUnknownMember}
		}
	}
	if custom, ok := e.Split.(CustomSplit); ok {
		for memberID := range custom {
			if _, ok := known[memberID]; !ok {
				return &ExpenseError{ExpenseID: e.ID, MemberID: memberID, Err: ErrUnknownMember}
			}
		}
	}
	return nil
}
