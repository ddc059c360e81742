package model

import "sort"

// MaxQuantity bounds a single quantity in a registration or trade offer.
const MaxQuantity = 1_000_000

// ValidQuantity reports whether qty may appear in a registration or offer.
func ValidQuantity(qty int) bool {
	return qty >= 0 && qty <= MaxQuantity
}

// Inventory maps item IDs to quantities held (or offered).
type Inventory map[string]int

// Clone returns a copy of the inventory.
func (inv Inventory) Clone() Inventory {
	out := make(Inventory, len(inv))
	for k, v := range inv {
		out[k] = v
	}
	return out
}

// ItemIDs returns the item IDs in sorted order.
func (inv Inventory) ItemIDs() []string {
	ids := make([]string, 0, len(inv))
	for id := range inv {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Positive returns the entries with a quantity above zero.
func (inv Inventory) Positive() Inventory {
	out := make(Inventory, len(inv))
	for k, v := range inv {
		if v > 0 {
			out[k] = v
		}
	}
	return out
}
