package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// migration is a numbered list of statements applied once, in order.
// Statements are executed one by one because not every driver accepts multi-statement execs.
type migration struct {
	version    int
	statements []string
}

// migrations must only be appended to.
// Column types are limited to ones shared by SQLite, PostgreSQL and MySQL.
// Amounts are decimal strings. "groups" is a reserved word in MySQL, hence expense_groups.
var migrations = []migration{
	{
		version: 1,
		statements: []string{
			`CREATE TABLE users (
				id VARCHAR(64) PRIMARY KEY,
				created_at BIGINT NOT NULL
			)`,
			`CREATE TABLE expense_groups (
				id VARCHAR(64) PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				invite_code VARCHAR(16) NOT NULL UNIQUE,
				currency VARCHAR(8) NOT NULL,
				created_at BIGINT NOT NULL,
				created_by VARCHAR(64) NOT NULL,
				expires_at BIGINT NOT NULL
			)`,
			`CREATE TABLE members (
				id VARCHAR(64) PRIMARY KEY,
				group_id VARCHAR(64) NOT NULL,
				name VARCHAR(255) NOT NULL,
				color VARCHAR(16) NOT NULL,
				joined_at BIGINT NOT NULL,
				FOREIGN KEY (group_id) REFERENCES expense_groups(id) ON DELETE CASCADE
			)`,
			`CREATE TABLE memberships (
				user_id VARCHAR(64) NOT NULL,
				group_id VARCHAR(64) NOT NULL,
				member_id VARCHAR(64) NOT NULL,
				PRIMARY KEY (user_id, group_id),
				FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
				FOREIGN KEY (group_id) REFERENCES expense_groups(id) ON DELETE CASCADE,
				FOREIGN KEY (member_id) REFERENCES members(id) ON DELETE CASCADE
			)`,
			`CREATE TABLE expenses (
				id VARCHAR(64) PRIMARY KEY,
				group_id VARCHAR(64) NOT NULL,
				amount VARCHAR(40) NOT NULL,
				description VARCHAR(255) NOT NULL,
				category VARCHAR(16) NOT NULL,
				paid_by VARCHAR(64) NOT NULL,
				split_mode VARCHAR(16) NOT NULL,
				expense_date BIGINT NOT NULL,
				note TEXT,
				created_at BIGINT NOT NULL,
				created_by VARCHAR(64) NOT NULL,
				updated_at BIGINT NOT NULL,
				updated_by VARCHAR(64) NOT NULL,
				FOREIGN KEY (group_id) REFERENCES expense_groups(id) ON DELETE CASCADE
			)`,
			`CREATE TABLE expense_splits (
				expense_id VARCHAR(64) NOT NULL,
				member_id VARCHAR(64) NOT NULL,
				position INTEGER NOT NULL,
				in_split SMALLINT NOT NULL,
				custom_amount VARCHAR(40),
				PRIMARY KEY (expense_id, member_id),
				FOREIGN KEY (expense_id) REFERENCES expenses(id) ON DELETE CASCADE
			)`,
			`CREATE TABLE settlement_statuses (
				group_id VARCHAR(64) NOT NULL,
				from_member_id VARCHAR(64) NOT NULL,
				to_member_id VARCHAR(64) NOT NULL,
				is_paid SMALLINT NOT NULL,
				paid_at BIGINT NOT NULL,
				updated_by VARCHAR(64) NOT NULL,
				PRIMARY KEY (group_id, from_member_id, to_member_id),
				FOREIGN KEY (group_id) REFERENCES expense_groups(id) ON DELETE CASCADE
			)`,
		},
	},
	{
		version: 2,
		statements: []string{
			`CREATE INDEX idx_members_group_id ON members(group_id)`,
			`CREATE INDEX idx_memberships_group_id ON memberships(group_id)`,
			`CREATE INDEX idx_expenses_group_date ON expenses(group_id, expense_date)`,
			`CREATE INDEX idx_expense_groups_expires_at ON expense_groups(expires_at)`,
		},
	},
}

// runMigrations applies every migration not yet recorded in schema_migrations.
func runMigrations(ctx context.Context, db *sql.DB, dialect Dialect) error {
	if _, err := db.ExecContext(ctx, dialect.CreateMigrationsTableQuery()); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, m := range migrations {
		var exists int
		err := db.QueryRowContext(ctx,
			dialect.RewriteQuery("SELECT 1 FROM schema_migrations WHERE version = ?"),
			m.version,
		).Scan(&exists)
		if err == nil {
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("failed to check migration %d: %w", m.version, err)
		}

		if err := applyMigration(ctx, db, dialect, m); err != nil {
			return err
		}
	}
	return nil
}

func applyMigration(ctx context.Context, db *sql.DB, dialect Dialect, m migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration %d: %w", m.version, err)
	}
	defer tx.Rollback()

	for i, stmt := range m.statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d statement %d failed: %w", m.version, i+1, err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		dialect.RewriteQuery("INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)"),
		m.version, time.Now().Unix(),
	); err != nil {
		return fmt.Errorf("failed to record migration %d: %w", m.version, err)
	}

	return tx.Commit()
}
