package sqlstore

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)
)

// SQLiteDialect implements Dialect for SQLite.
type SQLiteDialect struct{}

// NewSQLiteDialect creates a new SQLite dialect.
func NewSQLiteDialect() *SQLiteDialect {
	return &SQLiteDialect{}
}

func (d *SQLiteDialect) Name() string {
	return "sqlite"
}

func (d *SQLiteDialect) DriverName() string {
	return "sqlite"
}

// DSN sets pragmas through the connection string so that every pooled connection gets them.
func (d *SQLiteDialect) DSN(config Config) string {
	return "file:" + config.Path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

func (d *SQLiteDialect) RewriteQuery(query string) string {
	return query
}

func (d *SQLiteDialect) ConfigureConnection(db *sql.DB) error {
	db.SetMaxIdleConns(2)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return nil
}

func (d *SQLiteDialect) CreateMigrationsTableQuery() string {
	return `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at INTEGER NOT NULL
		)`
}

func (d *SQLiteDialect) UpsertSettlementStatusQuery() string {
	return `
		INSERT INTO settlement_statuses (group_id, from_member_id, to_member_id, is_paid, paid_at, updated_by)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (group_id, from_member_id, to_member_id) DO UPDATE SET
			is_paid = excluded.is_paid,
			paid_at = excluded.paid_at,
			updated_by = excluded.updated_by`
}
