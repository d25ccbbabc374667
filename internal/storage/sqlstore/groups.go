package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/goingdutch/internal/models"
	"github.com/mmynk/goingdutch/internal/storage"
)

const groupColumns = "g.id, g.name, g.invite_code, g.currency, g.created_at, g.created_by, g.expires_at"

// CreateGroup persists a new group, its creator as first member, and the creator's membership.
func (s *Store) CreateGroup(ctx context.Context, group *models.Group, creator *models.Member, userID string) error {
	now := time.Now().Unix()
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = now
	}
	if group.Currency == "" {
		group.Currency = models.DefaultCurrency
	}
	if creator.ID == "" {
		creator.ID = uuid.New().String()
	}
	if creator.JoinedAt == 0 {
		creator.JoinedAt = now
	}
	creator.GroupID = group.ID
	group.CreatedBy = creator.ID

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		s.q(`INSERT INTO expense_groups (id, name, invite_code, currency, created_at, created_by, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`),
		group.ID, group.Name, group.InviteCode, group.Currency, group.CreatedAt, group.CreatedBy, group.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	if err := s.insertMember(ctx, tx, creator, userID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	group.Members = []models.Member{*creator}
	return nil
}

// AddMember adds a member to an existing group and records the user's membership.
func (s *Store) AddMember(ctx context.Context, member *models.Member, userID string) error {
	if member.ID == "" {
		member.ID = uuid.New().String()
	}
	if member.JoinedAt == 0 {
		member.JoinedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, s.q("SELECT 1 FROM expense_groups WHERE id = ?"), member.GroupID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("group %s: %w", member.GroupID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check group existence: %w", err)
	}

	if err := s.insertMember(ctx, tx, member, userID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Store) insertMember(ctx context.Context, tx *sql.Tx, member *models.Member, userID string) error {
	_, err := tx.ExecContext(ctx,
		s.q("INSERT INTO members (id, group_id, name, color, joined_at) VALUES (?, ?, ?, ?, ?)"),
		member.ID, member.GroupID, member.Name, member.Color, member.JoinedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}

	if userID == "" {
		return nil
	}
	_, err = tx.ExecContext(ctx,
		s.q("INSERT INTO memberships (user_id, group_id, member_id) VALUES (?, ?, ?)"),
		userID, member.GroupID, member.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert membership: %w", err)
	}
	return nil
}

// GetGroup retrieves a group by ID, including its members.
func (s *Store) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	return s.getGroupWhere(ctx, "g.id = ?", groupID)
}

// GetGroupByInviteCode retrieves a group by invite code, including its members.
func (s *Store) GetGroupByInviteCode(ctx context.Context, code string) (*models.Group, error) {
	return s.getGroupWhere(ctx, "g.invite_code = ?", code)
}

func (s *Store) getGroupWhere(ctx context.Context, where string, arg any) (*models.Group, error) {
	group := &models.Group{}
	err := s.db.QueryRowContext(ctx,
		s.q("SELECT "+groupColumns+" FROM expense_groups g WHERE "+where),
		arg,
	).Scan(&group.ID, &group.Name, &group.InviteCode, &group.Currency, &group.CreatedAt, &group.CreatedBy, &group.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group %v: %w", arg, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	members, err := s.listMembers(ctx, group.ID)
	if err != nil {
		return nil, err
	}
	group.Members = members

	return group, nil
}

// ListGroupsForUser retrieves all groups the user belongs to, newest first.
func (s *Store) ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		s.q(`SELECT `+groupColumns+` FROM expense_groups g
		 JOIN memberships ms ON ms.group_id = g.id
		 WHERE ms.user_id = ?
		 ORDER BY g.created_at DESC, g.id`),
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	var groups []*models.Group
	for rows.Next() {
		group := &models.Group{}
		if err := rows.Scan(&group.ID, &group.Name, &group.InviteCode, &group.Currency,
			&group.CreatedAt, &group.CreatedBy, &group.ExpiresAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}
	rows.Close()

	for _, group := range groups {
		members, err := s.listMembers(ctx, group.ID)
		if err != nil {
			return nil, err
		}
		group.Members = members
	}

	return groups, nil
}

func (s *Store) listMembers(ctx context.Context, groupID string) ([]models.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		s.q("SELECT id, group_id, name, color, joined_at FROM members WHERE group_id = ? ORDER BY joined_at, id"),
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.ID, &m.GroupID, &m.Name, &m.Color, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	return members, nil
}

// GetMembership returns which member the user is in the group.
func (s *Store) GetMembership(ctx context.Context, userID, groupID string) (*models.Membership, error) {
	ms := &models.Membership{}
	err := s.db.QueryRowContext(ctx,
		s.q("SELECT user_id, group_id, member_id FROM memberships WHERE user_id = ? AND group_id = ?"),
		userID, groupID,
	).Scan(&ms.UserID, &ms.GroupID, &ms.MemberID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("membership of %s in %s: %w", userID, groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	return ms, nil
}

// DeleteExpiredGroups removes expired groups; foreign keys cascade to everything they own.
func (s *Store) DeleteExpiredGroups(ctx context.Context, now int64) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		s.q("DELETE FROM expense_groups WHERE expires_at > 0 AND expires_at <= ?"),
		now,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired groups: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted groups: %w", err)
	}
	return n, nil
}
