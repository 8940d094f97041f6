// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"os"
	"testing"

	"storyboarder/internal/database"
)

// testDB returns a migrated connection to the test database. Store tests
// are integration tests and skip when PostgreSQL is unreachable.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	env := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		env("POSTGRES_USER", "storyboarder"), env("POSTGRES_PASSWORD", "changeme"),
		env("POSTGRES_HOST", "localhost"), env("POSTGRES_PORT", "5432"),
		env("POSTGRES_DB", "storyboarder"))

	db, err := database.Connect(dsn)
	if err != nil {
		t.Skipf("skipping integration test: PostgreSQL not reachable: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

// cleanRows deletes the given ids from table once the test ends.
func cleanRows(t *testing.T, db *sql.DB, table string, ids ...any) {
	t.Helper()
	t.Cleanup(func() {
		for _, id := range ids {
			db.Exec("DELETE FROM "+table+" WHERE id = $1", id)
		}
	})
}

func strPtr(s string) *string { return &s }
