package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"fleet_scraper/internal/models"
)

// ErrNoRuns is returned when the history is empty
var ErrNoRuns = errors.New("no scrape runs recorded")

type RunRepository interface {
	InsertRun(ctx context.Context, run *models.ScrapeRun) (int64, error)
	LatestRun(ctx context.Context) (*models.ScrapeRun, error)
	AircraftHistory(ctx context.Context, tailNumber string, limit int) ([]models.AircraftSnapshot, error)
}

type runRepository struct {
	db *sql.DB
}

func NewRunRepository(db *sql.DB) RunRepository {
	return &runRepository{db: db}
}

// InsertRun stores the run and one row per aircraft in a single transaction
func (r *runRepository) InsertRun(ctx context.Context, run *models.ScrapeRun) (int64, error) {
	fleet := run.Fleet
	if fleet == nil {
		fleet = models.NewFleetResult()
	}

	payload, err := json.Marshal(fleet)
	if err != nil {
		return 0, fmt.Errorf("failed to encode fleet: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `INSERT INTO scrape_runs (
		started_at, finished_at, aircraft_count, payload, blob_url
	) VALUES (?, ?, ?, ?, ?)`,
		run.StartedAt.UTC(),
		run.FinishedAt.UTC(),
		fleet.Len(),
		string(payload),
		nullString(run.BlobURL),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO scrape_aircraft (
		run_id, position, tail_number, price, year, type
	) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, tail := range fleet.Keys() {
		details, _ := fleet.Get(tail)
		if _, err := stmt.ExecContext(ctx,
			runID,
			i,
			tail,
			nullString(details.Price),
			nullString(details.Year),
			nullString(details.Type),
		); err != nil {
			return 0, fmt.Errorf("failed to insert aircraft %s: %w", tail, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	run.ID = runID
	return runID, nil
}

// LatestRun returns the most recently finished run
func (r *runRepository) LatestRun(ctx context.Context) (*models.ScrapeRun, error) {
	var (
		run     models.ScrapeRun
		payload string
		blobURL sql.NullString
	)

	err := r.db.QueryRowContext(ctx, `SELECT id, started_at, finished_at, payload, blob_url
		FROM scrape_runs ORDER BY finished_at DESC, id DESC LIMIT 1`).
		Scan(&run.ID, &run.StartedAt, &run.FinishedAt, &payload, &blobURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRuns
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest run: %w", err)
	}

	run.Fleet = models.NewFleetResult()
	if err := json.Unmarshal([]byte(payload), run.Fleet); err != nil {
		return nil, fmt.Errorf("failed to decode run %d payload: %w", run.ID, err)
	}
	run.BlobURL = blobURL.String

	return &run, nil
}

// AircraftHistory returns the newest snapshots of one aircraft, newest first
func (r *runRepository) AircraftHistory(ctx context.Context, tailNumber string, limit int) ([]models.AircraftSnapshot, error) {
	if limit <= 0 {
		limit = 30
	}

	rows, err := r.db.QueryContext(ctx, `SELECT a.run_id, r.finished_at, a.tail_number, a.price, a.year, a.type
		FROM scrape_aircraft a
		JOIN scrape_runs r ON r.id = a.run_id
		WHERE a.tail_number = ?
		ORDER BY r.finished_at DESC, a.run_id DESC
		LIMIT ?`, tailNumber, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history for %s: %w", tailNumber, err)
	}
	defer rows.Close()

	snapshots := make([]models.AircraftSnapshot, 0)
	for rows.Next() {
		var (
			s                 models.AircraftSnapshot
			price, year, kind sql.NullString
		)
		if err := rows.Scan(&s.RunID, &s.ScrapedAt, &s.TailNumber, &price, &year, &kind); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		s.Details = models.AircraftDetails{
			Price: price.String,
			Year:  year.String,
			Type:  kind.String,
		}
		snapshots = append(snapshots, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history rows: %w", err)
	}

	return snapshots, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
