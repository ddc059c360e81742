package model

import (
	"fmt"
	"math"
)

// Item is a kind of scarce resource a survivor can carry.
type Item struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Worth int    `json:"worth"`
}

// DefaultCatalogue returns the items seeded into an empty database.
func DefaultCatalogue() []Item {
	return []Item{
		{Label: "water", Worth: 4},
		{Label: "food", Worth: 3},
		{Label: "medication", Worth: 2},
		{Label: "ammunition", Worth: 1},
	}
}

// Catalogue maps item IDs to items.
type Catalogue map[string]Item

// NewCatalogue indexes items by ID.
func NewCatalogue(items []Item) Catalogue {
	c := make(Catalogue, len(items))
	for _, item := range items {
		c[item.ID] = item
	}
	return c
}

// Worth returns the worth of an item, or 0 for unknown IDs.
func (c Catalogue) Worth(itemID string) int {
	return c[itemID].Worth
}

// Value is the total worth of the given quantities. Quantities and worths
// must not be negative. Returns ErrOverflow instead of wrapping around.
func (c Catalogue) Value(inv Inventory) (int, error) {
	total := 0
	for _, itemID := range inv.ItemIDs() {
		qty, worth := inv[itemID], c.Worth(itemID)
		if qty == 0 || worth == 0 {
			continue
		}
		if qty > math.MaxInt/worth || qty*worth > math.MaxInt-total {
			return 0, fmt.Errorf("worth of item %s: %w", itemID, ErrOverflow)
		}
		total += qty * worth
	}
	return total, nil
}
