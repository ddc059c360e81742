package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/survivors/internal/model"
)

func TestDistanceMissingLocation(t *testing.T) {
	loc := &model.Location{Latitude: 1, Longitude: 1}

	assert.Nil(t, Distance(nil, loc))
	assert.Nil(t, Distance(loc, nil))
	assert.Nil(t, Distance(nil, nil))
}

func TestDistance(t *testing.T) {
	tests := []struct {
		name     string
		ref      model.Location
		target   model.Location
		expected float64
	}{
		{"same point", model.Location{Latitude: 55, Longitude: 12}, model.Location{Latitude: 55, Longitude: 12}, 0},
		{"one degree north", model.Location{}, model.Location{Latitude: 1}, 111000},
		{"one degree east at equator", model.Location{}, model.Location{Longitude: 1}, 111320},
		{"one degree east at 60N", model.Location{Latitude: 60}, model.Location{Latitude: 60, Longitude: 1}, 55660},
		{"diagonal at equator", model.Location{}, model.Location{Latitude: 0.001, Longitude: 0.001}, 157.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Distance(&tt.ref, &tt.target)
			require.NotNil(t, d)
			assert.InDelta(t, tt.expected, *d, 0.01)
		})
	}
}

func TestDistanceRoundsToCentimeters(t *testing.T) {
	d := Distance(&model.Location{}, &model.Location{Latitude: 0.0000123})
	require.NotNil(t, d)
	assert.Equal(t, 1.37, *d)
}

func TestDistanceUsesReferenceLatitude(t *testing.T) {
	north := &model.Location{Latitude: 60, Longitude: 0}
	south := &model.Location{Latitude: 0, Longitude: 1}

	fromNorth := Distance(north, south)
	fromSouth := Distance(south, north)
	require.NotNil(t, fromNorth)
	require.NotNil(t, fromSouth)

	assert.NotEqual(t, *fromNorth, *fromSouth)
}
