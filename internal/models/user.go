package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents an anonymous session identity.
// Users have no credentials: holding the signed session token is the identity.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// CreatedAt is the Unix timestamp when the user first signed in.
	CreatedAt int64
}

// NewUser creates a new anonymous user.
func NewUser() *User {
	return &User{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().Unix(),
	}
}

// Membership links a user to the member they are in one group.
type Membership struct {
	UserID   string
	GroupID  string
	MemberID string
}
