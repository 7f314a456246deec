// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open sqlite: %v", err)
	}
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestCreateSchema_SQLite(t *testing.T) {
	conn := openSQLite(t)

	// Running twice must not fail
	for i := 0; i < 2; i++ {
		if err := CreateSchema(conn, DialectSQLite); err != nil {
			t.Fatalf("CreateSchema() run %d error = %v", i+1, err)
		}
	}

	for _, table := range []string{"vote_tally", "subscription_list", "subscription"} {
		var name string
		err := conn.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Errorf("Expected table %s to exist: %v", table, err)
		}
	}
}

func TestCreateSchema_UniqueEmailPerKey(t *testing.T) {
	conn := openSQLite(t)
	if err := CreateSchema(conn, DialectSQLite); err != nil {
		t.Fatal(err)
	}

	if _, err := conn.Exec(`INSERT INTO subscription_list (subscription_key) VALUES ('platform-ios')`); err != nil {
		t.Fatalf("Failed to insert list: %v", err)
	}
	insert := `INSERT INTO subscription (subscription_key, email) VALUES ('platform-ios', 'a@example.com')`
	if _, err := conn.Exec(insert); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}
	if _, err := conn.Exec(insert); err == nil {
		t.Error("Expected duplicate email under the same key to be rejected")
	}
}

func TestCreateSchema_UnknownDialect(t *testing.T) {
	conn := openSQLite(t)
	if err := CreateSchema(conn, "mysql"); err == nil {
		t.Error("Expected error for unknown dialect")
	}
}
