// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/goingdutch/internal/models"
)

// ErrNotFound is returned when the requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for group, expense and settlement-status storage.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, MySQL)
// without changing the service layer.
type Store interface {
	// CreateUser persists a new anonymous user.
	CreateUser(ctx context.Context, user *models.User) error

	// CreateGroup persists a new group together with its first member,
	// and records that userID is that member.
	// group.ID, creator.ID and timestamps are populated by the store when empty.
	CreateGroup(ctx context.Context, group *models.Group, creator *models.Member, userID string) error

	// GetGroup retrieves a group and its members. Returns ErrNotFound if missing.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// GetGroupByInviteCode retrieves a group by its invite code. Returns ErrNotFound if missing.
	GetGroupByInviteCode(ctx context.Context, code string) (*models.Group, error)

	// ListGroupsForUser retrieves every group the user is a member of.
	ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error)

	// AddMember adds a member to an existing group and records that userID is that member.
	AddMember(ctx context.Context, member *models.Member, userID string) error

	// GetMembership returns which member the user is in the group. Returns ErrNotFound if none.
	GetMembership(ctx context.Context, userID, groupID string) (*models.Membership, error)

	// DeleteExpiredGroups removes groups that expired at or before now (Unix seconds),
	// with everything they own. Returns the number of groups removed.
	DeleteExpiredGroups(ctx context.Context, now int64) (int64, error)

	// CreateExpense persists a new expense. expense.ID and CreatedAt are populated when empty.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense by ID. Returns ErrNotFound if missing.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// UpdateExpense replaces an existing expense. Returns ErrNotFound if missing.
	UpdateExpense(ctx context.Context, expense *models.Expense) error

	// DeleteExpense removes an expense. Returns ErrNotFound if missing.
	DeleteExpense(ctx context.Context, expenseID string) error

	// ListExpensesByGroup retrieves all expenses of a group, most recent date first.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	// SetSettlementStatus creates or replaces the paid flag for a (from, to) pair.
	SetSettlementStatus(ctx context.Context, status *models.SettlementStatus) error

	// ListSettlementStatuses retrieves every recorded status of a group.
	ListSettlementStatuses(ctx context.Context, groupID string) ([]*models.SettlementStatus, error)

	// Close releases any resources held by the store.
	Close() error
}
