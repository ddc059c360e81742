// Package directory answers roster queries: who is visible, how far away they
// are from the requester, and lookups by name or ID. Survivors that reached
// the infection threshold are quarantined from every result.
package directory

import (
	"context"
	"database/sql"
	"sort"

	"github.com/erazemk/survivors/internal/geo"
	"github.com/erazemk/survivors/internal/model"
	"github.com/erazemk/survivors/internal/store"
)

// ListOptions narrows a roster listing.
type ListOptions struct {
	// RequesterID ranks results by distance from this survivor and excludes
	// them from the result.
	RequesterID string
	// MaxDistance drops survivors farther than this many meters, or with an
	// unknown distance. Only applies when RequesterID is set.
	MaxDistance *float64
}

// Directory serves roster reads from the database.
type Directory struct {
	DB *sql.DB
}

// New returns a Directory backed by db.
func New(db *sql.DB) *Directory {
	return &Directory{DB: db}
}

// List returns the visible survivors.
func (d *Directory) List(ctx context.Context, opts ListOptions) ([]model.Survivor, error) {
	all, err := store.ListSurvivors(ctx, d.DB)
	if err != nil {
		return nil, err
	}
	return Rank(all, opts), nil
}

// Lookup finds a survivor by ID or case-insensitive name.
func (d *Directory) Lookup(ctx context.Context, key string) (*model.Survivor, error) {
	s, err := store.FindSurvivorByNameOrID(ctx, d.DB, key)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, &model.NotFoundError{Entity: "survivor", ID: key}
	}
	if s.Infected() {
		return nil, &model.InfectedError{ID: s.ID}
	}
	return s, nil
}

// Rank applies the quarantine rule, removes the requester, annotates
// distances from the requester and sorts nearest first. Survivors with an
// unknown distance sort after all others.
func Rank(survivors []model.Survivor, opts ListOptions) []model.Survivor {
	visible := make([]model.Survivor, 0, len(survivors))
	for _, s := range survivors {
		if !s.Infected() {
			visible = append(visible, s)
		}
	}

	if opts.RequesterID == "" {
		for i := range visible {
			visible[i].LastLocation = withDistance(visible[i].LastLocation, nil)
		}
		return visible
	}

	var ref *model.Location
	others := visible[:0]
	for _, s := range visible {
		if s.ID == opts.RequesterID {
			ref = s.LastLocation
			continue
		}
		others = append(others, s)
	}

	for i := range others {
		others[i].LastLocation = withDistance(others[i].LastLocation, geo.Distance(ref, others[i].LastLocation))
	}

	sort.SliceStable(others, func(i, j int) bool {
		return less(distanceOf(others[i]), distanceOf(others[j]))
	})

	if opts.MaxDistance == nil {
		return others
	}

	within := others[:0]
	for _, s := range others {
		if d := distanceOf(s); d != nil && *d <= *opts.MaxDistance {
			within = append(within, s)
		}
	}
	return within
}

// withDistance copies loc so annotations never alias the caller's data.
func withDistance(loc *model.Location, d *float64) *model.Location {
	if loc == nil {
		return nil
	}
	out := *loc
	out.Distance = d
	return &out
}

func distanceOf(s model.Survivor) *float64 {
	if s.LastLocation == nil {
		return nil
	}
	return s.LastLocation.Distance
}

// less orders known distances ascending, unknown last.
func less(a, b *float64) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return *a < *b
	}
}
