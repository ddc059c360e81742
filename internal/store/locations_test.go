package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/survivors/internal/db"
	"github.com/erazemk/survivors/internal/model"
)

func TestUpdateLocationReplacesInPlace(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := createSurvivor(t, database, "Alice", model.Location{Latitude: 1, Longitude: 1}, nil)

	updated, err := UpdateLocation(ctx, database, alice.ID, model.Location{Latitude: 45.123456, Longitude: 75.654321})
	require.NoError(t, err)
	require.NotNil(t, updated.LastLocation)
	assert.Equal(t, 45.123456, updated.LastLocation.Latitude)
	assert.Equal(t, 75.654321, updated.LastLocation.Longitude)

	var rows int
	require.NoError(t, database.QueryRow(
		`SELECT COUNT(*) FROM locations WHERE survivor_id = ?`, alice.ID,
	).Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestUpdateLocationCreatesMissing(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := createSurvivor(t, database, "Alice", model.Location{}, nil)
	_, err := database.Exec(`DELETE FROM locations WHERE survivor_id = ?`, alice.ID)
	require.NoError(t, err)

	s, err := GetSurvivor(ctx, database, alice.ID)
	require.NoError(t, err)
	require.Nil(t, s.LastLocation)

	_, err = UpdateLocation(ctx, database, alice.ID, model.Location{Latitude: 3, Longitude: 4})
	require.NoError(t, err)

	s, err = GetSurvivor(ctx, database, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, s.LastLocation)
	assert.Equal(t, 3.0, s.LastLocation.Latitude)
}

func TestUpdateLocationUnknownSurvivor(t *testing.T) {
	database := db.NewTestDB(t)

	_, err := UpdateLocation(context.Background(), database, "missing", model.Location{})

	var notFound *model.NotFoundError
	assert.True(t, errors.As(err, &notFound))
}
