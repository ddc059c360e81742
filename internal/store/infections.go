package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/survivors/internal/model"
)

// ReportInfection files a report by reporterID against reportedID.
// Reports are append-only and may repeat; reporting oneself is rejected.
func ReportInfection(ctx context.Context, db *sql.DB, reporterID, reportedID string) (*model.InfectionReport, error) {
	if reporterID == reportedID {
		return nil, &model.SelfActionError{Action: "report"}
	}

	report := &model.InfectionReport{
		ID:         uuid.New().String(),
		ReporterID: reporterID,
		ReportedID: reportedID,
		CreatedAt:  time.Now().UTC(),
	}

	err := WithTx(ctx, db, func(tx *sql.Tx) error {
		for _, id := range []string{reporterID, reportedID} {
			exists, err := SurvivorExists(ctx, tx, id)
			if err != nil {
				return err
			}
			if !exists {
				return &model.NotFoundError{Entity: "survivor", ID: id}
			}
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO infection_reports (id, reporter_id, reported_id, created_at) VALUES (?, ?, ?, ?)`,
			report.ID, report.ReporterID, report.ReportedID, report.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("recording infection report: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// CountReports returns the number of reports filed against a survivor.
func CountReports(ctx context.Context, q Querier, reportedID string) (int, error) {
	var count int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM infection_reports WHERE reported_id = ?`, reportedID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting reports: %w", err)
	}
	return count, nil
}

func scanReports(ctx context.Context, q Querier, query string, args ...any) ([]model.InfectionReport, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	defer rows.Close()

	var reports []model.InfectionReport
	for rows.Next() {
		var r model.InfectionReport
		var reporter sql.NullString
		if err := rows.Scan(&r.ID, &reporter, &r.ReportedID, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning report: %w", err)
		}
		r.ReporterID = reporter.String
		reports = append(reports, r)
	}
	return reports, rows.Err()
}
