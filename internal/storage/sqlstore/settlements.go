package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/mmynk/goingdutch/internal/models"
)

// SetSettlementStatus creates or replaces the paid flag for a (from, to) pair.
func (s *Store) SetSettlementStatus(ctx context.Context, status *models.SettlementStatus) error {
	if status.IsPaid && status.PaidAt == 0 {
		status.PaidAt = time.Now().Unix()
	}
	if !status.IsPaid {
		status.PaidAt = 0
	}

	_, err := s.db.ExecContext(ctx,
		s.q(s.dialect.UpsertSettlementStatusQuery()),
		status.GroupID, status.FromMemberID, status.ToMemberID,
		boolToInt(status.IsPaid), status.PaidAt, status.UpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to set settlement status: %w", err)
	}

	return nil
}

// ListSettlementStatuses retrieves all settlement statuses recorded for a group.
func (s *Store) ListSettlementStatuses(ctx context.Context, groupID string) ([]*models.SettlementStatus, error) {
	rows, err := s.db.QueryContext(ctx,
		s.q(`SELECT group_id, from_member_id, to_member_id, is_paid, paid_at, updated_by
		 FROM settlement_statuses WHERE group_id = ? ORDER BY from_member_id, to_member_id`),
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlement statuses: %w", err)
	}
	defer rows.Close()

	var statuses []*models.SettlementStatus
	for rows.Next() {
		status := &models.SettlementStatus{}
		var isPaid int
		if err := rows.Scan(&status.GroupID, &status.FromMemberID, &status.ToMemberID,
			&isPaid, &status.PaidAt, &status.UpdatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan settlement status: %w", err)
		}
		status.IsPaid = isPaid != 0
		statuses = append(statuses, status)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlement statuses: %w", err)
	}

	return statuses, nil
}
