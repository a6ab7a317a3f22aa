package testutil

import (
	"database/sql"
	"os"
	"testing"

	"github.com/shareview/shareview/internal/config"
	"github.com/shareview/shareview/internal/db"
)

// OpenTestDB connects to the postgres instance named by TEST_DB_HOST,
// applies migrations and clears the subsystem tables. Tests that need a
// database skip when the variable is unset.
func OpenTestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()
	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		t.Skip("TEST_DB_HOST not set, skipping postgres test")
	}
	conn, err := db.Open(config.DatabaseConfig{
		Host:     host,
		Port:     5432,
		User:     "shareview",
		Password: "shareview_pass",
		DBName:   "shareview_test",
		SSLMode:  "disable",
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(conn); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	for _, table := range []string{"share_links", "otp_challenges", "records"} {
		if _, err := conn.Exec("TRUNCATE TABLE " + table); err != nil {
			t.Fatalf("truncate %s: %v", table, err)
		}
	}
	return conn, func() {
		_ = conn.Close()
	}
}
