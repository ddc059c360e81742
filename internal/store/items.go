package store

import (
	"context"
	"fmt"

	"github.com/erazemk/survivors/internal/model"
)

// ListItems returns the item catalogue, most valuable first.
func ListItems(ctx context.Context, q Querier) ([]model.Item, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, label, worth FROM items ORDER BY worth DESC, label`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		if err := rows.Scan(&item.ID, &item.Label, &item.Worth); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetCatalogue returns the item catalogue indexed by ID.
func GetCatalogue(ctx context.Context, q Querier) (model.Catalogue, error) {
	items, err := ListItems(ctx, q)
	if err != nil {
		return nil, err
	}
	return model.NewCatalogue(items), nil
}
