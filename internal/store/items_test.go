package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/survivors/internal/db"
)

func TestListItemsSeeded(t *testing.T) {
	database := db.NewTestDB(t)

	items, err := ListItems(context.Background(), database)
	require.NoError(t, err)
	require.Len(t, items, 4)

	// Most valuable first.
	assert.Equal(t, "water", items[0].Label)
	assert.Equal(t, 4, items[0].Worth)
	assert.Equal(t, "ammunition", items[3].Label)
	assert.Equal(t, 1, items[3].Worth)
}

func TestGetCatalogue(t *testing.T) {
	database := db.NewTestDB(t)
	ids := itemIDs(t, database)

	catalogue, err := GetCatalogue(context.Background(), database)
	require.NoError(t, err)

	assert.Equal(t, 3, catalogue.Worth(ids["food"]))
	assert.Equal(t, 2, catalogue.Worth(ids["medication"]))
	assert.Equal(t, 0, catalogue.Worth("no-such-item"))
}
