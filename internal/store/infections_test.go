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

func TestReportInfection(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := createSurvivor(t, database, "Alice", model.Location{}, nil)
	bob := createSurvivor(t, database, "Bob", model.Location{}, nil)

	report, err := ReportInfection(ctx, database, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, report.ID)
	assert.Equal(t, alice.ID, report.ReporterID)
	assert.Equal(t, bob.ID, report.ReportedID)
	assert.False(t, report.CreatedAt.IsZero())

	got, err := GetSurvivor(ctx, database, bob.ID)
	require.NoError(t, err)
	require.Len(t, got.InfectionReports, 1)
	assert.Equal(t, report.ID, got.InfectionReports[0].ID)
}

func TestReportInfectionAllowsDuplicates(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := createSurvivor(t, database, "Alice", model.Location{}, nil)
	bob := createSurvivor(t, database, "Bob", model.Location{}, nil)

	for range 3 {
		_, err := ReportInfection(ctx, database, alice.ID, bob.ID)
		require.NoError(t, err)
	}

	count, err := CountReports(ctx, database, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	got, err := GetSurvivor(ctx, database, bob.ID)
	require.NoError(t, err)
	assert.True(t, got.Infected())
}

func TestReportInfectionSelfRejected(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := createSurvivor(t, database, "Alice", model.Location{}, nil)

	_, err := ReportInfection(ctx, database, alice.ID, alice.ID)

	var self *model.SelfActionError
	require.True(t, errors.As(err, &self))

	count, err := CountReports(ctx, database, alice.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestReportInfectionUnknownSurvivors(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := createSurvivor(t, database, "Alice", model.Location{}, nil)

	tests := []struct {
		name     string
		reporter string
		reported string
		missing  string
	}{
		{"unknown reporter", "ghost", alice.ID, "ghost"},
		{"unknown reported", alice.ID, "ghost", "ghost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReportInfection(ctx, database, tt.reporter, tt.reported)

			var notFound *model.NotFoundError
			require.True(t, errors.As(err, &notFound))
			assert.Equal(t, tt.missing, notFound.ID)
		})
	}
}
