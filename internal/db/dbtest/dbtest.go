// Package dbtest opens throwaway migrated sqlite databases for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/templui/tasbih/internal/db"
)

// New returns a migrated sqlite database in a temp dir, closed on cleanup.
func New(t testing.TB) *sqlx.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tasbih.db")
	database, err := db.Init(db.DriverSQLite, path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(database) })

	err = db.RunMigrations(context.Background(), database.DB, db.DriverSQLite)
	if err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return database
}
