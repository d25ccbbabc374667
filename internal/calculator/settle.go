package calculator

import (
	"slices"

	"github.com/shopspring/decimal"
)

// DefaultUnit is the settlement granularity: balances are settled in whole currency units.
var DefaultUnit = decimal.NewFromInt(1)

// Transaction is an instruction for one member to pay another.
type Transaction struct {
	From   string // Member who owes
	To     string // Member who is owed
	Amount decimal.Decimal
}

// party is a creditor or debtor with the amount still to be settled.
type party struct {
	memberID  string
	remaining decimal.Decimal
}

// ComputeSettlement computes balances and reduces them to settling transactions,
// rounding to DefaultUnit.
func ComputeSettlement(members []Member, expenses []Expense) ([]Transaction, error) {
	return ComputeSettlementWithUnit(members, expenses, DefaultUnit)
}

// ComputeSettlementWithUnit is ComputeSettlement with an explicit rounding unit.
func ComputeSettlementWithUnit(members []Member, expenses []Expense, unit decimal.Decimal) ([]Transaction, error) {
	balances, err := ComputeBalances(members, expenses)
	if err != nil {
		return nil, err
	}
	return MinimizeDebts(members, balances, unit), nil
}

// MinimizeDebts turns net balances into payments using greedy matching:
// the largest debtor pays the largest creditor until one of them is settled,
// then the sweep moves on to the next.
//
// Balances are rounded to unit first; members whose balance rounds to zero take no part.
// Transactions come out ordered by descending debtor, then descending creditor.
func MinimizeDebts(members []Member, balances map[string]decimal.Decimal, unit decimal.Decimal) []Transaction {
	var creditors, debtors []party
	for _, m := range members {
		balance := RoundToUnit(balances[m.ID], unit)
		switch balance.Sign() {
		case 1:
			creditors = append(creditors, party{memberID: m.ID, remaining: balance})
		case -1:
			debtors = append(debtors, party{memberID: m.ID, remaining: balance.Neg()})
		}
	}

	byAmountDesc := func(a, b party) int {
		return b.remaining.Cmp(a.remaining)
	}
	slices.SortStableFunc(creditors, byAmountDesc)
	slices.SortStableFunc(debtors, byAmountDesc)

	var transactions []Transaction
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor := &debtors[i]
		creditor := &creditors[j]

		settle := decimal.Min(debtor.remaining, creditor.remaining)
		if settle.IsPositive() {
			transactions = append(transactions, Transaction{
				From:   debtor.memberID,
				To:     creditor.memberID,
				Amount: settle,
			})
		}

		debtor.remaining = debtor.remaining.Sub(settle)
		creditor.remaining = creditor.remaining.Sub(settle)

		if debtor.remaining.Sign() <= 0 {
			i++
		}
		if creditor.remaining.Sign() <= 0 {
			j++
		}
	}

	return transactions
}

// RoundToUnit rounds v to the nearest multiple of unit. Exact halves round up (toward +Inf),
// so 0.5 becomes 1 and -0.5 becomes 0. A non-positive unit leaves v unchanged.
func RoundToUnit(v, unit decimal.Decimal) decimal.Decimal {
	if !unit.IsPositive() {
		return v
	}
	return v.Div(unit).Add(decimal.NewFromFloat(0.5)).Floor().Mul(unit)
}
