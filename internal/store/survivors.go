package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/erazemk/survivors/internal/model"
)

// NewSurvivor holds the registration details of a survivor.
type NewSurvivor struct {
	Name      string
	Age       int
	Gender    string
	Location  model.Location
	Inventory model.Inventory
}

const survivorColumns = `s.id, s.name, s.age, s.gender, s.created_at, l.latitude, l.longitude
	 FROM survivors s
	 LEFT JOIN locations l ON l.survivor_id = s.id`

// CreateSurvivor registers a survivor with a location and starting inventory.
// Every item in the inventory must exist in the catalogue.
func CreateSurvivor(ctx context.Context, db *sql.DB, in NewSurvivor) (*model.Survivor, error) {
	id := uuid.New().String()

	err := WithTx(ctx, db, func(tx *sql.Tx) error {
		for _, itemID := range in.Inventory.ItemIDs() {
			if !model.ValidQuantity(in.Inventory[itemID]) {
				return fmt.Errorf("item %s: %w", itemID, model.ErrInvalidQuantity)
			}
			var exists bool
			err := tx.QueryRowContext(ctx,
				`SELECT EXISTS(SELECT 1 FROM items WHERE id = ?)`, itemID,
			).Scan(&exists)
			if err != nil {
				return fmt.Errorf("checking item: %w", err)
			}
			if !exists {
				return &model.NotFoundError{Entity: "item", ID: itemID}
			}
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO survivors (id, name, name_key, age, gender, seq)
			 VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM survivors))`,
			id, in.Name, nameKey(in.Name), in.Age, in.Gender,
		)
		if err != nil {
			return fmt.Errorf("creating survivor: %w", err)
		}

		if err := upsertLocation(ctx, tx, id, in.Location); err != nil {
			return err
		}

		return ReplaceInventory(ctx, tx, id, in.Inventory)
	})
	if err != nil {
		return nil, err
	}

	return GetSurvivor(ctx, db, id)
}

// GetSurvivor returns a survivor by ID, or nil if not found.
func GetSurvivor(ctx context.Context, q Querier, id string) (*model.Survivor, error) {
	survivors, err := querySurvivors(ctx, q, `WHERE s.id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("getting survivor: %w", err)
	}
	if len(survivors) == 0 {
		return nil, nil
	}
	return &survivors[0], nil
}

// FindSurvivorByNameOrID returns the survivor whose ID equals key or whose
// name equals key ignoring case. An ID match wins over a name match; among
// equal names the earliest registration wins. Returns nil if none match.
func FindSurvivorByNameOrID(ctx context.Context, q Querier, key string) (*model.Survivor, error) {
	survivors, err := querySurvivors(ctx, q,
		`WHERE s.id = ? OR s.name_key = ?
		 ORDER BY (s.id = ?) DESC, s.seq
		 LIMIT 1`,
		key, nameKey(key), key,
	)
	if err != nil {
		return nil, fmt.Errorf("finding survivor: %w", err)
	}
	if len(survivors) == 0 {
		return nil, nil
	}
	return &survivors[0], nil
}

// ListSurvivors returns every survivor, ordered by name.
func ListSurvivors(ctx context.Context, q Querier) ([]model.Survivor, error) {
	survivors, err := querySurvivors(ctx, q, `ORDER BY s.name_key, s.seq`)
	if err != nil {
		return nil, fmt.Errorf("listing survivors: %w", err)
	}
	return survivors, nil
}

// SurvivorExists reports whether a survivor with the given ID exists.
func SurvivorExists(ctx context.Context, q Querier, id string) (bool, error) {
	var exists bool
	err := q.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM survivors WHERE id = ?)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking survivor: %w", err)
	}
	return exists, nil
}

// TouchSurvivors bumps the inventory version of the given survivors. As the
// first statement of a transaction it takes the database write lock, so
// concurrent settlements on the same survivors run one after the other.
// Returns the number of survivors touched.
func TouchSurvivors(ctx context.Context, q Querier, ids ...string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	result, err := q.ExecContext(ctx,
		`UPDATE survivors SET inventory_version = inventory_version + 1
		 WHERE id IN (`+placeholders(len(ids))+`)`,
		args...,
	)
	if err != nil {
		return 0, fmt.Errorf("locking survivors: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("locking survivors: %w", err)
	}
	return n, nil
}

// DeleteSurvivor removes a survivor together with their location, inventory
// and the reports filed against them. Returns the deleted survivor.
func DeleteSurvivor(ctx context.Context, db *sql.DB, id string) (*model.Survivor, error) {
	var deleted *model.Survivor

	err := WithTx(ctx, db, func(tx *sql.Tx) error {
		s, err := GetSurvivor(ctx, tx, id)
		if err != nil {
			return err
		}
		if s == nil {
			return &model.NotFoundError{Entity: "survivor", ID: id}
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM survivors WHERE id = ?`, id); err != nil {
			return fmt.Errorf("deleting survivor: %w", err)
		}
		deleted = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// querySurvivors loads survivors matching the clause appended to the base
// select, then attaches their reports and inventories.
func querySurvivors(ctx context.Context, q Querier, clause string, args ...any) ([]model.Survivor, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+survivorColumns+` `+clause, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var survivors []model.Survivor
	for rows.Next() {
		var s model.Survivor
		var lat, lon sql.NullFloat64
		if err := rows.Scan(&s.ID, &s.Name, &s.Age, &s.Gender, &s.CreatedAt, &lat, &lon); err != nil {
			return nil, fmt.Errorf("scanning survivor: %w", err)
		}
		if lat.Valid && lon.Valid {
			s.LastLocation = &model.Location{Latitude: lat.Float64, Longitude: lon.Float64}
		}
		s.InfectionReports = []model.InfectionReport{}
		s.Inventory = model.Inventory{}
		survivors = append(survivors, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := attachDetails(ctx, q, survivors); err != nil {
		return nil, err
	}
	return survivors, nil
}

// attachDetails fills reports and inventories with one query each.
func attachDetails(ctx context.Context, q Querier, survivors []model.Survivor) error {
	if len(survivors) == 0 {
		return nil
	}

	index := make(map[string]*model.Survivor, len(survivors))
	for i := range survivors {
		index[survivors[i].ID] = &survivors[i]
	}

	reportQuery := `SELECT id, reporter_id, reported_id, created_at FROM infection_reports`
	invQuery := `SELECT survivor_id, item_id, quantity FROM inventory`
	var args []any
	if len(survivors) == 1 {
		reportQuery += ` WHERE reported_id = ?`
		invQuery += ` WHERE survivor_id = ?`
		args = []any{survivors[0].ID}
	}

	reports, err := scanReports(ctx, q, reportQuery+` ORDER BY created_at, id`, args...)
	if err != nil {
		return err
	}
	for _, r := range reports {
		if s, ok := index[r.ReportedID]; ok {
			s.InfectionReports = append(s.InfectionReports, r)
		}
	}

	rows, err := q.QueryContext(ctx, invQuery, args...)
	if err != nil {
		return fmt.Errorf("loading inventories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var survivorID, itemID string
		var qty int
		if err := rows.Scan(&survivorID, &itemID, &qty); err != nil {
			return fmt.Errorf("scanning inventory: %w", err)
		}
		if s, ok := index[survivorID]; ok {
			s.Inventory[itemID] = qty
		}
	}
	return rows.Err()
}

// nameKey folds case only; surrounding whitespace is part of the name.
func nameKey(name string) string {
	return strings.ToLower(name)
}
