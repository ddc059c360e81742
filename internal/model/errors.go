package model

import (
	"errors"
	"fmt"
)

// ErrInvalidQuantity is returned for quantities outside 0..MaxQuantity.
var ErrInvalidQuantity = fmt.Errorf("quantities must be between 0 and %d", MaxQuantity)

// ErrOverflow is returned when a worth total or a holding would not fit in an int.
var ErrOverflow = errors.New("quantity or worth out of range")

// NotFoundError reports a missing entity.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %s not found", e.Entity, e.ID)
}

// SelfActionError is returned when a survivor targets themselves.
type SelfActionError struct {
	Action string
}

func (e *SelfActionError) Error() string {
	return fmt.Sprintf("a survivor cannot %s themselves", e.Action)
}

// InsufficientItemsError is returned when an offer exceeds a holding.
type InsufficientItemsError struct {
	SurvivorID string
	ItemID     string
	Held       int
	Requested  int
}

func (e *InsufficientItemsError) Error() string {
	return fmt.Sprintf("insufficient items: survivor %s has %d of item %s, but tried to trade %d",
		e.SurvivorID, e.Held, e.ItemID, e.Requested)
}

// UnbalancedTradeError is returned when both sides' worth differ.
type UnbalancedTradeError struct {
	OfferedA int
	OfferedB int
}

func (e *UnbalancedTradeError) Error() string {
	return fmt.Sprintf("trade is not balanced: survivor A offers %d, survivor B offers %d", e.OfferedA, e.OfferedB)
}

// InfectedError hides an infected survivor from direct lookup.
type InfectedError struct {
	ID string
}

func (e *InfectedError) Error() string {
	return fmt.Sprintf("survivor %s is infected", e.ID)
}
