package model

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfectedThreshold(t *testing.T) {
	tests := []struct {
		reports  int
		expected bool
	}{
		{0, false},
		{2, false},
		{3, true},
		{7, true},
	}

	for _, tt := range tests {
		s := &Survivor{InfectionReports: make([]InfectionReport, tt.reports)}
		assert.Equal(t, tt.expected, s.Infected(), "reports=%d", tt.reports)
	}
}

func TestCatalogueValue(t *testing.T) {
	c := NewCatalogue([]Item{
		{ID: "water", Worth: 4},
		{ID: "ammo", Worth: 1},
	})

	tests := []struct {
		name string
		inv  Inventory
		want int
	}{
		{"single item", Inventory{"water": 2}, 8},
		{"several items", Inventory{"water": 2, "ammo": 4}, 12},
		{"unknown items are worthless", Inventory{"unknown": 50}, 0},
		{"zero quantity", Inventory{"water": 0}, 0},
		{"nil inventory", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Value(tt.inv)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCatalogueValueOverflow(t *testing.T) {
	c := NewCatalogue([]Item{
		{ID: "water", Worth: 4},
		{ID: "ammo", Worth: 1},
	})

	// 2^62 * 4 wraps to 0 in plain int arithmetic.
	_, err := c.Value(Inventory{"water": 1 << 62})
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = c.Value(Inventory{"water": math.MaxInt / 4, "ammo": math.MaxInt / 2})
	assert.ErrorIs(t, err, ErrOverflow)

	got, err := c.Value(Inventory{"ammo": math.MaxInt})
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, got)
}

func TestValidQuantity(t *testing.T) {
	assert.True(t, ValidQuantity(0))
	assert.True(t, ValidQuantity(MaxQuantity))
	assert.False(t, ValidQuantity(-1))
	assert.False(t, ValidQuantity(MaxQuantity+1))
}

func TestInventoryHelpers(t *testing.T) {
	inv := Inventory{"b": 2, "a": 0, "c": -1}

	assert.Equal(t, []string{"a", "b", "c"}, inv.ItemIDs())
	assert.Equal(t, Inventory{"b": 2}, inv.Positive())

	clone := inv.Clone()
	clone["b"] = 10
	assert.Equal(t, 2, inv["b"])
}

func TestErrorsUnwrapThroughWrapping(t *testing.T) {
	err := fmt.Errorf("trading: %w", &UnbalancedTradeError{OfferedA: 8, OfferedB: 4})

	var unbalanced *UnbalancedTradeError
	assert.True(t, errors.As(err, &unbalanced))
	assert.Contains(t, err.Error(), "offers 8")
	assert.Contains(t, err.Error(), "offers 4")
}
