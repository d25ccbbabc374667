package calculator

import "fmt"

// IssueKind classifies a data-integrity problem in an expense record.
type IssueKind string

const (
	IssueEmptySplit         IssueKind = "empty_split"
	IssueMissingCustomShare IssueKind = "missing_custom_share"
	IssueCustomTotal        IssueKind = "custom_total_mismatch"
	IssueUnknownMember      IssueKind = "unknown_member"
)

// Issue describes an inconsistent expense. Issues do not stop ComputeBalances,
// except for IssueUnknownMember which it rejects.
type Issue struct {
	ExpenseID string
	Kind      IssueKind
	MemberID  string
	Detail    string
}

func (i Issue) String() string {
	if i.MemberID != "" {
		return fmt.Sprintf("expense %s: %s (member %s): %s", i.ExpenseID, i.Kind, i.MemberID, i.Detail)
	}
	return fmt.Sprintf("expense %s: %s: %s", i.ExpenseID, i.Kind, i.Detail)
}

// Audit lists integrity problems in the expenses without computing anything.
func Audit(members []Member, expenses []Expense) []Issue {
	known := make(map[string]bool, len(members))
	for _, m := range members {
		known[m.ID] = true
	}

	var issues []Issue
	for _, e := range expenses {
		if !known[e.PaidBy] {
			issues = append(issues, Issue{ExpenseID: e.ID, Kind: IssueUnknownMember, MemberID: e.PaidBy, Detail: "payer is not a group member"})
		}
		for _, memberID := range e.SplitWith {
			if !known[memberID] {
				issues = append(issues, Issue{ExpenseID: e.ID, Kind: IssueUnknownMember, MemberID: memberID, Detail: "split member is not a group member"})
			}
		}

		custom, isCustom := e.Split.(CustomSplit)
		if !isCustom {
			if len(e.SplitWith) == 0 {
				issues = append(issues, Issue{ExpenseID: e.ID, Kind: IssueEmptySplit, Detail: "nobody to split with, expense ignored"})
			}
			continue
		}

		if len(custom) == 0 {
			issues = append(issues, Issue{ExpenseID: e.ID, Kind: IssueEmptySplit, Detail: "custom split has no shares, expense ignored"})
			continue
		}
		for _, memberID := range e.SplitWith {
			if _, ok := custom[memberID]; !ok {
				issues = append(issues, Issue{ExpenseID: e.ID, Kind: IssueMissingCustomShare, MemberID: memberID, Detail: "no custom share, counted as zero"})
			}
		}
		for memberID := range custom {
			if !known[memberID] {
				issues = append(issues, Issue{ExpenseID: e.ID, Kind: IssueUnknownMember, MemberID: memberID, Detail: "custom share for unknown member"})
			}
		}
		if total := custom.Total(); !total.Equal(e.Amount) {
			issues = append(issues, Issue{
				ExpenseID: e.ID,
				Kind:      IssueCustomTotal,
				Detail:    fmt.Sprintf("custom shares sum to %s, amount is %s", total, e.Amount),
			})
		}
	}

	return issues
}
