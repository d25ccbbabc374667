package models

// SettlementStatus records whether the computed payment between two members was made.
// It is keyed by the pair (FromMemberID, ToMemberID) and has no effect on balances:
// the next settlement is still computed from expenses alone.
type SettlementStatus struct {
	// GroupID is the group this status belongs to.
	GroupID string

	// FromMemberID is the member who owes.
	FromMemberID string

	// ToMemberID is the member who is owed.
	ToMemberID string

	// IsPaid is true once either party marked the payment as done.
	IsPaid bool

	// PaidAt is the Unix timestamp when the payment was marked paid, zero otherwise.
	PaidAt int64

	// UpdatedBy is the member ID who last changed the status.
	UpdatedBy string
}

// StatusKey identifies a settlement status within a group.
type StatusKey struct {
	From string
	To   string
}
