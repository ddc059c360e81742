// Package geo converts pairs of coordinates into ground distances.
package geo

import (
	"math"

	"github.com/erazemk/survivors/internal/model"
)

const (
	// MetersPerDegreeLat is the length of one degree of latitude.
	MetersPerDegreeLat = 111000.0
	// MetersPerDegreeLonEquator is the length of one degree of longitude at
	// the equator; it shrinks with the cosine of the latitude.
	MetersPerDegreeLonEquator = 111320.0
)

// Distance returns the separation in meters between ref and target using an
// equirectangular projection, rounded to two decimals. The longitude scale is
// taken at the reference latitude, so Distance(a, b) and Distance(b, a) may
// differ. Returns nil if either location is unknown.
func Distance(ref, target *model.Location) *float64 {
	if ref == nil || target == nil {
		return nil
	}

	lonScale := MetersPerDegreeLonEquator * math.Cos(ref.Latitude*math.Pi/180)

	dy := (target.Latitude - ref.Latitude) * MetersPerDegreeLat
	dx := (target.Longitude - ref.Longitude) * lonScale

	d := math.Round(math.Hypot(dx, dy)*100) / 100
	return &d
}
