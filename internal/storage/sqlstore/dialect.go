package sqlstore

import (
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Dialect defines the database-specific parts of the store.
type Dialect interface {
	// Name returns the dialect name used in configuration ("sqlite", "postgres", "mysql").
	Name() string

	// DriverName returns the driver name for sql.Open.
	DriverName() string

	// DSN returns the data source name for the connection.
	DSN(config Config) string

	// RewriteQuery converts placeholder syntax if needed (e.g., ? to $1 for postgres).
	RewriteQuery(query string) string

	// ConfigureConnection applies any database-specific connection settings.
	ConfigureConnection(db *sql.DB) error

	// CreateMigrationsTableQuery returns the SQL to create the migrations tracking table.
	CreateMigrationsTableQuery() string

	// UpsertSettlementStatusQuery returns an insert-or-update statement for settlement_statuses.
	UpsertSettlementStatusQuery() string
}

// Config holds the connection settings for a store.
type Config struct {
	// Type selects the dialect: "sqlite" (default), "postgres" or "mysql".
	Type string

	// Path is the database file for SQLite.
	Path string

	// URL is the connection string for PostgreSQL and MySQL.
	URL string
}

// DialectFor returns the dialect for a configured database type.
func DialectFor(dbType string) (Dialect, error) {
	switch strings.ToLower(dbType) {
	case "sqlite", "sqlite3", "":
		return NewSQLiteDialect(), nil
	case "postgres", "postgresql":
		return NewPostgresDialect(), nil
	case "mysql":
		return NewMySQLDialect(), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", dbType)
	}
}

var placeholderRegexp = regexp.MustCompile(`\?`)

// rewritePlaceholdersToNumbered converts ? placeholders to $1, $2, etc.
func rewritePlaceholdersToNumbered(query string) string {
	counter := 0
	return placeholderRegexp.ReplaceAllStringFunc(query, func(string) string {
		counter++
		return "$" + strconv.Itoa(counter)
	})
}

// boolToInt stores booleans as 0/1 so every dialect shares one column type.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
