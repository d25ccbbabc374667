package sqlstore

import (
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
)

// PostgresDialect implements Dialect for PostgreSQL through pgx.
type PostgresDialect struct{}

// NewPostgresDialect creates a new PostgreSQL dialect.
func NewPostgresDialect() *PostgresDialect {
	return &PostgresDialect{}
}

func (d *PostgresDialect) Name() string {
	return "postgres"
}

func (d *PostgresDialect) DriverName() string {
	return "pgx"
}

func (d *PostgresDialect) DSN(config Config) string {
	return config.URL
}

func (d *PostgresDialect) RewriteQuery(query string) string {
	// PostgreSQL uses $1, $2, etc. instead of ?
	return rewritePlaceholdersToNumbered(query)
}

func (d *PostgresDialect) ConfigureConnection(db *sql.DB) error {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)
	return nil
}

func (d *PostgresDialect) CreateMigrationsTableQuery() string {
	return `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at BIGINT NOT NULL
		)`
}

func (d *PostgresDialect) UpsertSettlementStatusQuery() string {
	return `
		INSERT INTO settlement_statuses (group_id, from_member_id, to_member_id, is_paid, paid_at, updated_by)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (group_id, from_member_id, to_member_id) DO UPDATE SET
			is_paid = EXCLUDED.is_paid,
			paid_at = EXCLUDED.paid_at,
			updated_by = EXCLUDED.updated_by`
}
