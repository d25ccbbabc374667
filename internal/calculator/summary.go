package calculator

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Counterparty is one payment a member makes or receives.
type Counterparty struct {
	MemberID string
	Amount   decimal.Decimal
	IsPaid   bool
}

// MemberSummary is the per-member view of a settlement.
type MemberSummary struct {
	MemberID       string
	NetBalance     decimal.Decimal // Rounded to the settlement unit
	TotalToPay     decimal.Decimal
	TotalToReceive decimal.Decimal
	PaysTo         []Counterparty
	ReceivesFrom   []Counterparty
}

// PaidLookup reports whether the payment from one member to another has been marked as paid.
// It only annotates the summary and never changes amounts.
type PaidLookup func(fromID, toID string) bool

// SummarizeMembers groups transactions by member. Members whose balance rounds to zero are left out.
// The result is sorted by net balance ascending: largest debtors first, largest creditors last.
func SummarizeMembers(members []Member, balances map[string]decimal.Decimal, transactions []Transaction, unit decimal.Decimal, isPaid PaidLookup) []MemberSummary {
	if isPaid == nil {
		isPaid = func(string, string) bool { return false }
	}

	var summaries []MemberSummary
	for _, m := range members {
		net := RoundToUnit(balances[m.ID], unit)
		if net.IsZero() {
			continue
		}

		summary := MemberSummary{
			MemberID:       m.ID,
			NetBalance:     net,
			TotalToPay:     decimal.Zero,
			TotalToReceive: decimal.Zero,
		}
		for _, tx := range transactions {
			switch m.ID {
			case tx.From:
				summary.TotalToPay = summary.TotalToPay.Add(tx.Amount)
				summary.PaysTo = append(summary.PaysTo, Counterparty{
					MemberID: tx.To,
					Amount:   tx.Amount,
					IsPaid:   isPaid(tx.From, tx.To),
				})
			case tx.To:
				summary.TotalToReceive = summary.TotalToReceive.Add(tx.Amount)
				summary.ReceivesFrom = append(summary.ReceivesFrom, Counterparty{
					MemberID: tx.From,
					Amount:   tx.Amount,
					IsPaid:   isPaid(tx.From, tx.To),
				})
			}
		}
		summaries = append(summaries, summary)
	}

	slices.SortStableFunc(summaries, func(a, b MemberSummary) int {
		return a.NetBalance.Cmp(b.NetBalance)
	})

	return summaries
}
