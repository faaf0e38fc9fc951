// Package testing provides testing utilities and helpers for the finwell project.
package testing

import (
	"strings"
	"testing"

	"github.com/aristath/finwell/internal/database"
)

// NewTestDB creates an in-memory SQLite database with the named schema
// applied. The database is private to the test and closed on cleanup.
//
// Supported schema names:
//   - "marketdata" - applies marketdata_schema.sql
//   - "reports" - applies reports_schema.sql
//   - Unknown names - creates empty database (no schema applied)
func NewTestDB(t *testing.T, name string) *database.DB {
	t.Helper()

	db, err := database.New(database.Config{
		Path:    "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "_" + name + "?mode=memory",
		Profile: database.ProfileStandard,
		Name:    name,
	})
	if err != nil {
		t.Fatalf("Failed to create test database %s: %v", name, err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: Failed to close test database %s: %v", name, err)
		}
	})

	if err := db.Migrate(); err != nil {
		t.Fatalf("Failed to migrate test database %s: %v", name, err)
	}

	return db
}
