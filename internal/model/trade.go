package model

import "time"

// TradeOffer is what one participant puts on the table.
type TradeOffer struct {
	SurvivorID string    `json:"survivor_id"`
	Items      Inventory `json:"items"`
}

// Trade is a settled exchange between two survivors.
type Trade struct {
	ID        string     `json:"id"`
	A         TradeOffer `json:"survivor_a_items"`
	B         TradeOffer `json:"survivor_b_items"`
	Worth     int        `json:"worth"`
	SettledAt time.Time  `json:"settled_at"`
}
