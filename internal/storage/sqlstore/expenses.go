package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/goingdutch/internal/models"
	"github.com/mmynk/goingdutch/internal/storage"
)

const expenseColumns = `id, group_id, amount, description, category, paid_by, split_mode,
	expense_date, note, created_at, created_by, updated_at, updated_by`

// CreateExpense persists a new expense with its split rows.
func (s *Store) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	if expense.Date == 0 {
		expense.Date = expense.CreatedAt
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		s.q(`INSERT INTO expenses (`+expenseColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		expense.ID, expense.GroupID, expense.Amount, expense.Description, string(expense.Category),
		expense.PaidBy, string(expense.SplitMode), expense.Date, nullString(expense.Note),
		expense.CreatedAt, expense.CreatedBy, expense.UpdatedAt, expense.UpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	if err := s.insertSplits(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateExpense replaces an expense and its split rows.
func (s *Store) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.UpdatedAt == 0 {
		expense.UpdatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Check existence explicitly: MySQL reports zero affected rows for no-op updates.
	var exists int
	err = tx.QueryRowContext(ctx, s.q("SELECT 1 FROM expenses WHERE id = ?"), expense.ID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("expense %s: %w", expense.ID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check expense existence: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		s.q(`UPDATE expenses SET amount = ?, description = ?, category = ?, paid_by = ?, split_mode = ?,
		 expense_date = ?, note = ?, updated_at = ?, updated_by = ?
		 WHERE id = ?`),
		expense.Amount, expense.Description, string(expense.Category), expense.PaidBy, string(expense.SplitMode),
		expense.Date, nullString(expense.Note), expense.UpdatedAt, expense.UpdatedBy,
		expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}

	if _, err := tx.ExecContext(ctx, s.q("DELETE FROM expense_splits WHERE expense_id = ?"), expense.ID); err != nil {
		return fmt.Errorf("failed to clear expense splits: %w", err)
	}
	if err := s.insertSplits(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// insertSplits writes one row per member in SplitWith, plus rows for custom shares of
// members outside SplitWith so that a stored expense reads back unchanged.
func (s *Store) insertSplits(ctx context.Context, tx *sql.Tx, expense *models.Expense) error {
	stmt := s.q(`INSERT INTO expense_splits (expense_id, member_id, position, in_split, custom_amount)
		 VALUES (?, ?, ?, ?, ?)`)

	written := make(map[string]bool, len(expense.SplitWith))
	position := 0
	insert := func(memberID string, inSplit bool) error {
		var custom any
		if amount, ok := expense.CustomSplit[memberID]; ok {
			custom = amount
		}
		if _, err := tx.ExecContext(ctx, stmt, expense.ID, memberID, position, boolToInt(inSplit), custom); err != nil {
			return fmt.Errorf("failed to insert expense split: %w", err)
		}
		written[memberID] = true
		position++
		return nil
	}

	for _, memberID := range expense.SplitWith {
		if written[memberID] {
			continue
		}
		if err := insert(memberID, true); err != nil {
			return err
		}
	}
	for memberID := range expense.CustomSplit {
		if written[memberID] {
			continue
		}
		if err := insert(memberID, false); err != nil {
			return err
		}
	}
	return nil
}

// GetExpense retrieves an expense by ID, including its split.
func (s *Store) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	row := s.db.QueryRowContext(ctx, s.q("SELECT "+expenseColumns+" FROM expenses WHERE id = ?"), expenseID)
	expense, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		s.q(`SELECT expense_id, member_id, in_split, custom_amount FROM expense_splits
		 WHERE expense_id = ? ORDER BY position`),
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense splits: %w", err)
	}
	defer rows.Close()

	if err := scanSplits(rows, map[string]*models.Expense{expense.ID: expense}); err != nil {
		return nil, err
	}
	return expense, nil
}

// ListExpensesByGroup retrieves all expenses of a group, most recent date first.
func (s *Store) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		s.q("SELECT "+expenseColumns+" FROM expenses WHERE group_id = ? ORDER BY expense_date DESC, created_at DESC, id"),
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	var expenses []*models.Expense
	byID := make(map[string]*models.Expense)
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
		byID[expense.ID] = expense
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	rows.Close()

	if len(expenses) == 0 {
		return expenses, nil
	}

	splitRows, err := s.db.QueryContext(ctx,
		s.q(`SELECT es.expense_id, es.member_id, es.in_split, es.custom_amount
		 FROM expense_splits es JOIN expenses e ON e.id = es.expense_id
		 WHERE e.group_id = ?
		 ORDER BY es.expense_id, es.position`),
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expense splits: %w", err)
	}
	defer splitRows.Close()

	if err := scanSplits(splitRows, byID); err != nil {
		return nil, err
	}
	return expenses, nil
}

// DeleteExpense removes an expense by ID. Split rows cascade.
func (s *Store) DeleteExpense(ctx context.Context, expenseID string) error {
	var exists int
	err := s.db.QueryRowContext(ctx, s.q("SELECT 1 FROM expenses WHERE id = ?"), expenseID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check expense existence: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, s.q("DELETE FROM expenses WHERE id = ?"), expenseID); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*models.Expense, error) {
	expense := &models.Expense{}
	var category, splitMode string
	var note sql.NullString

	err := row.Scan(&expense.ID, &expense.GroupID, &expense.Amount, &expense.Description, &category,
		&expense.PaidBy, &splitMode, &expense.Date, &note,
		&expense.CreatedAt, &expense.CreatedBy, &expense.UpdatedAt, &expense.UpdatedBy)
	if err != nil {
		return nil, err
	}

	expense.Category = models.Category(category)
	expense.SplitMode = models.SplitMode(splitMode)
	if note.Valid {
		expense.Note = note.String
	}
	return expense, nil
}

func scanSplits(rows *sql.Rows, byID map[string]*models.Expense) error {
	for rows.Next() {
		var expenseID, memberID string
		var inSplit int
		var custom decimal.NullDecimal
		if err := rows.Scan(&expenseID, &memberID, &inSplit, &custom); err != nil {
			return fmt.Errorf("failed to scan expense split: %w", err)
		}

		expense, ok := byID[expenseID]
		if !ok {
			continue
		}
		if inSplit != 0 {
			expense.SplitWith = append(expense.SplitWith, memberID)
		}
		if custom.Valid {
			if expense.CustomSplit == nil {
				expense.CustomSplit = make(map[string]decimal.Decimal)
			}
			expense.CustomSplit[memberID] = custom.Decimal
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate expense splits: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
