package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erazemk/survivors/internal/model"
)

// itemIDs returns the seeded catalogue keyed by label.
func itemIDs(t *testing.T, database *sql.DB) map[string]string {
	t.Helper()
	items, err := ListItems(context.Background(), database)
	require.NoError(t, err)

	ids := make(map[string]string, len(items))
	for _, item := range items {
		ids[item.Label] = item.ID
	}
	return ids
}

func createSurvivor(t *testing.T, database *sql.DB, name string, loc model.Location, inv model.Inventory) *model.Survivor {
	t.Helper()
	s, err := CreateSurvivor(context.Background(), database, NewSurvivor{
		Name:      name,
		Age:       30,
		Gender:    "f",
		Location:  loc,
		Inventory: inv,
	})
	require.NoError(t, err)
	require.NotNil(t, s)
	return s
}
