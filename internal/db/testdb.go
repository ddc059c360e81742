package db

import (
	"context"
	"database/sql"
	"testing"

	"github.com/erazemk/survivors/internal/model"
)

// NewTestDB creates a fresh in-memory SQLite database with the schema applied
// and the default item catalogue seeded.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	if _, err := Bootstrap(context.Background(), db, model.DefaultCatalogue()); err != nil {
		db.Close()
		t.Fatalf("bootstrapping test database: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	return db
}
