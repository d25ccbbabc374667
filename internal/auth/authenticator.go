package auth

import (
	"context"
	"fmt"

	"github.com/mmynk/goingdutch/internal/models"
)

// Authenticator establishes the identity behind a session.
// Implementations can be swapped (anonymous today, accounts later)
// without changing the service layer.
type Authenticator interface {
	// SignIn creates or resolves a user and returns it.
	SignIn(ctx context.Context) (*models.User, error)
}

// UserStorage defines the user persistence the authenticator needs.
type UserStorage interface {
	CreateUser(ctx context.Context, user *models.User) error
}

// AnonymousAuthenticator gives every caller a fresh user with no credentials.
type AnonymousAuthenticator struct {
	storage UserStorage
}

// NewAnonymousAuthenticator creates an authenticator backed by storage.
func NewAnonymousAuthenticator(storage UserStorage) *AnonymousAuthenticator {
	return &AnonymousAuthenticator{storage: storage}
}

// SignIn creates and persists a new anonymous user.
func (a *AnonymousAuthenticator) SignIn(ctx context.Context) (*models.User, error) {
	user := models.NewUser()
	if err := a.storage.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}
