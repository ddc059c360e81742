package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/erazemk/survivors/internal/model"
)

// Bootstrap ensures the schema exists and seeds the item catalogue.
// Seeding is skipped when the catalogue already has rows, so calling
// Bootstrap on every start is safe. Reports whether items were inserted.
func Bootstrap(ctx context.Context, db *sql.DB, catalogue []model.Item) (bool, error) {
	if err := EnsureSchema(db); err != nil {
		return false, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&count); err != nil {
		return false, fmt.Errorf("counting items: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	for _, item := range catalogue {
		id := item.ID
		if id == "" {
			id = uuid.New().String()
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO items (id, label, worth) VALUES (?, ?, ?)`,
			id, item.Label, item.Worth,
		)
		if err != nil {
			return false, fmt.Errorf("seeding item %q: %w", item.Label, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing seed: %w", err)
	}
	return true, nil
}
