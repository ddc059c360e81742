package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/survivors/internal/model"
)

// UpdateLocation replaces a survivor's location and returns the survivor.
func UpdateLocation(ctx context.Context, db *sql.DB, survivorID string, loc model.Location) (*model.Survivor, error) {
	err := WithTx(ctx, db, func(tx *sql.Tx) error {
		exists, err := SurvivorExists(ctx, tx, survivorID)
		if err != nil {
			return err
		}
		if !exists {
			return &model.NotFoundError{Entity: "survivor", ID: survivorID}
		}
		return upsertLocation(ctx, tx, survivorID, loc)
	})
	if err != nil {
		return nil, err
	}
	return GetSurvivor(ctx, db, survivorID)
}

func upsertLocation(ctx context.Context, q Querier, survivorID string, loc model.Location) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO locations (survivor_id, latitude, longitude) VALUES (?, ?, ?)
		 ON CONFLICT (survivor_id) DO UPDATE
		 SET latitude = excluded.latitude, longitude = excluded.longitude, updated_at = CURRENT_TIMESTAMP`,
		survivorID, loc.Latitude, loc.Longitude,
	)
	if err != nil {
		return fmt.Errorf("saving location: %w", err)
	}
	return nil
}
