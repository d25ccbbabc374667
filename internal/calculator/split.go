package calculator

import (
	"github.com/shopspring/decimal"
)

// Split describes how an expense's amount is divided among the members who share it.
// It is either EqualSplit or CustomSplit.
type Split interface {
	isSplit()
}

// EqualSplit divides the amount evenly among every member in the expense's SplitWith list.
type EqualSplit struct{}

// CustomSplit assigns an exact owed amount to each member.
// Members listed in SplitWith but missing here owe nothing for the expense.
type CustomSplit map[string]decimal.Decimal

func (EqualSplit) isSplit()  {}
func (CustomSplit) isSplit() {}

// Total returns the sum of all custom shares.
func (c CustomSplit) Total() decimal.Decimal {
	total := decimal.Zero
	for _, amount := range c {
		total = total.Add(amount)
	}
	return total
}

// shares returns what each member owes for the expense.
// An expense with nobody to split with yields no shares.
func shares(e Expense) map[string]decimal.Decimal {
	owed := make(map[string]decimal.Decimal)

	switch s := e.Split.(type) {
	case CustomSplit:
		for memberID, amount := range s {
			owed[memberID] = owed[memberID].Add(amount)
		}
	default:
		if len(e.SplitWith) == 0 {
			return owed
		}
		// Divided once and never rounded per share.
		share := e.Amount.Div(decimal.NewFromInt(int64(len(e.SplitWith))))
		for _, memberID := range e.SplitWith {
			owed[memberID] = owed[memberID].Add(share)
		}
	}

	return owed
}
