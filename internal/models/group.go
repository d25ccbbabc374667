package models

import (
	"crypto/rand"
	"math/big"
	"time"
)

// DefaultCurrency is the currency of new groups. Amounts are never converted.
const DefaultCurrency = "TWD"

// DefaultGroupTTL is how long a group lives after creation.
const DefaultGroupTTL = 14 * 24 * time.Hour

// inviteAlphabet leaves out characters that are easy to confuse (0/O, 1/I/L).
const inviteAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// InviteCodeLength is the number of characters in an invite code.
const InviteCodeLength = 8

// MemberColors is the palette new members are colored from.
var MemberColors = []string{
	"#ef4444", // red
	"#f97316", // orange
	"#eab308", // yellow
	"#22c55e", // green
	"#14b8a6", // teal
	"#3b82f6", // blue
	"#8b5cf6", // violet
	"#ec4899", // pink
}

// Group represents a set of members sharing expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Tokyo Trip").
	Name string

	// InviteCode is the short code other people use to join.
	InviteCode string

	// Currency is the single currency all amounts are recorded in.
	Currency string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64

	// CreatedBy is the member ID of the creator.
	CreatedBy string

	// ExpiresAt is the Unix timestamp after which the group is deleted.
	ExpiresAt int64

	// Members is the list of members in join order.
	Members []Member
}

// Member is one person within a group.
type Member struct {
	// ID is the unique identifier for the member (UUID format).
	ID string

	// GroupID is the group this member belongs to.
	GroupID string

	// Name is the nickname chosen when creating or joining the group.
	Name string

	// Color is a display color from MemberColors. Purely decorative.
	Color string

	// JoinedAt is the Unix timestamp when the member joined.
	JoinedAt int64
}

// HasMember reports whether memberID belongs to the group.
func (g *Group) HasMember(memberID string) bool {
	for _, m := range g.Members {
		if m.ID == memberID {
			return true
		}
	}
	return false
}

// MemberIDs returns the member IDs in join order.
func (g *Group) MemberIDs() []string {
	ids := make([]string, len(g.Members))
	for i, m := range g.Members {
		ids[i] = m.ID
	}
	return ids
}

// Expired reports whether the group has passed its expiry time.
func (g *Group) Expired(now time.Time) bool {
	return g.ExpiresAt != 0 && now.Unix() >= g.ExpiresAt
}

// NextColor picks a palette color not used by existing members,
// or any palette color once all are taken.
func NextColor(existing []Member) string {
	used := make(map[string]bool, len(existing))
	for _, m := range existing {
		used[m.Color] = true
	}
	var available []string
	for _, c := range MemberColors {
		if !used[c] {
			available = append(available, c)
		}
	}
	if len(available) == 0 {
		available = MemberColors
	}
	return available[randomIndex(len(available))]
}

// NewInviteCode generates a random invite code.
func NewInviteCode() (string, error) {
	code := make([]byte, InviteCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(inviteAlphabet))))
		if err != nil {
			return "", err
		}
		code[i] = inviteAlphabet[n.Int64()]
	}
	return string(code), nil
}

func randomIndex(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}
