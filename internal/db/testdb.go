package db

import (
	"database/sql"
	"testing"
)

// NewTestDB opens an in-memory database with the full portal schema
// applied, closed automatically when the test ends. Handler and store
// tests share it so they exercise the real CHECK constraints and
// foreign keys instead of mocks.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	if err := EnsureSchema(conn); err != nil {
		conn.Close()
		t.Fatalf("applying test schema: %v", err)
	}

	t.Cleanup(func() { conn.Close() })
	return conn
}
