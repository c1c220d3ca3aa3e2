package testutil

import (
	"database/sql"
	"testing"

	_ "github.com/mutecomm/go-sqlcipher/v4"

	"github.com/sharmalakshay/listky/internal/database"
)

// OpenTestDB creates a fresh in-memory SQLite database with the full
// schema. A single connection keeps the in-memory database alive for the
// whole test.
func OpenTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", "file::memory:?_foreign_keys=ON")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	return db
}
