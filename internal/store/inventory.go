package store

import (
	"context"
	"fmt"

	"github.com/erazemk/survivors/internal/model"
)

// GetInventory returns a survivor's holdings.
func GetInventory(ctx context.Context, q Querier, survivorID string) (model.Inventory, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT item_id, quantity FROM inventory WHERE survivor_id = ?`, survivorID,
	)
	if err != nil {
		return nil, fmt.Errorf("getting inventory: %w", err)
	}
	defer rows.Close()

	inv := model.Inventory{}
	for rows.Next() {
		var itemID string
		var qty int
		if err := rows.Scan(&itemID, &qty); err != nil {
			return nil, fmt.Errorf("scanning inventory: %w", err)
		}
		inv[itemID] = qty
	}
	return inv, rows.Err()
}

// ReplaceInventory overwrites a survivor's holdings with inv. Entries with a
// quantity of zero or less are dropped. Pass a *sql.Tx for atomicity.
func ReplaceInventory(ctx context.Context, q Querier, survivorID string, inv model.Inventory) error {
	_, err := q.ExecContext(ctx,
		`DELETE FROM inventory WHERE survivor_id = ?`, survivorID,
	)
	if err != nil {
		return fmt.Errorf("clearing inventory: %w", err)
	}

	positive := inv.Positive()
	for _, itemID := range positive.ItemIDs() {
		_, err := q.ExecContext(ctx,
			`INSERT INTO inventory (survivor_id, item_id, quantity) VALUES (?, ?, ?)`,
			survivorID, itemID, positive[itemID],
		)
		if err != nil {
			return fmt.Errorf("inserting inventory for item %s: %w", itemID, err)
		}
	}
	return nil
}
