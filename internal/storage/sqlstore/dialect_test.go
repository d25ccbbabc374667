package sqlstore

import (
	"strings"
	"testing"
)

func TestDialectFor(t *testing.T) {
	tests := []struct {
		dbType     string
		wantName   string
		wantDriver string
		wantErr    bool
	}{
		{"", "sqlite", "sqlite", false},
		{"sqlite3", "sqlite", "sqlite", false},
		{"PostgreSQL", "postgres", "pgx", false},
		{"mysql", "mysql", "mysql", false},
		{"oracle", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.dbType, func(t *testing.T) {
			dialect, err := DialectFor(tt.dbType)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DialectFor(%q) error = %v, wantErr %v", tt.dbType, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if dialect.Name() != tt.wantName {
				t.Errorf("Name() = %s, want %s", dialect.Name(), tt.wantName)
			}
			if dialect.DriverName() != tt.wantDriver {
				t.Errorf("DriverName() = %s, want %s", dialect.DriverName(), tt.wantDriver)
			}
		})
	}
}

func TestRewriteQuery(t *testing.T) {
	query := "SELECT 1 FROM expenses WHERE group_id = ? AND paid_by = ?"

	if got := NewSQLiteDialect().RewriteQuery(query); got != query {
		t.Errorf("sqlite rewrote query: %s", got)
	}
	if got := NewMySQLDialect().RewriteQuery(query); got != query {
		t.Errorf("mysql rewrote query: %s", got)
	}

	want := "SELECT 1 FROM expenses WHERE group_id = $1 AND paid_by = $2"
	if got := NewPostgresDialect().RewriteQuery(query); got != want {
		t.Errorf("postgres RewriteQuery() = %s, want %s", got, want)
	}
}

func TestUpsertSettlementStatusQuery(t *testing.T) {
	tests := []struct {
		dialect Dialect
		want    string
	}{
		{NewSQLiteDialect(), "ON CONFLICT"},
		{NewPostgresDialect(), "ON CONFLICT"},
		{NewMySQLDialect(), "ON DUPLICATE KEY UPDATE"},
	}

	for _, tt := range tests {
		t.Run(tt.dialect.Name(), func(t *testing.T) {
			query := tt.dialect.UpsertSettlementStatusQuery()
			if !strings.Contains(query, tt.want) {
				t.Errorf("upsert query for %s missing %q", tt.dialect.Name(), tt.want)
			}
			if n := strings.Count(query, "?"); n != 6 {
				t.Errorf("upsert query has %d placeholders, want 6", n)
			}
		})
	}
}

func TestSQLiteDSN(t *testing.T) {
	dsn := NewSQLiteDialect().DSN(Config{Path: "/tmp/x.db"})
	if !strings.HasPrefix(dsn, "file:/tmp/x.db?") {
		t.Errorf("DSN = %s", dsn)
	}
	if !strings.Contains(dsn, "foreign_keys(1)") {
		t.Errorf("DSN %s does not enable foreign keys", dsn)
	}
}
