package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"

	"tableside/internal/infrastructure/mysql"
)

// SetupTestDB opens the integration database. It expects a MySQL instance
// reachable through TABLESIDE_TEST_DSN (default: local root, database
// tableside_test) and skips the test otherwise.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TABLESIDE_TEST_DSN")
	if dsn == "" {
		dsn = "root:@tcp(localhost:3306)/tableside_test?parseTime=true&loc=UTC"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// SetupTestTables creates the service schema.
func SetupTestTables(t *testing.T, db *sql.DB) {
	t.Helper()
	if err := mysql.EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// CleanupTestDB empties every table and closes the connection.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	t.Helper()
	if db == nil {
		return
	}

	for _, table := range mysql.Tables() {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}
