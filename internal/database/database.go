package database

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// DB owns the SQLite connection holding the scrape history
type DB struct {
	db *sql.DB
}

// New creates and initializes a new database connection
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := configureSQLite(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	database := &DB{db: db}

	if err := database.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return database, nil
}

// configureSQLite applies connection pragmas. The daemon's HTTP handlers read
// while the scheduled job writes, so WAL and a busy timeout are required.
func configureSQLite(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	return nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.db.Close()
}

// Runs returns the repository for scrape runs
func (d *DB) Runs() RunRepository {
	return NewRunRepository(d.db)
}

// initSchema creates the database schema if it doesn't exist
func (d *DB) initSchema() error {
	runsSchema := `CREATE TABLE IF NOT EXISTS scrape_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP NOT NULL,
		aircraft_count INTEGER NOT NULL,
		payload TEXT NOT NULL,
		blob_url TEXT
	);`

	aircraftSchema := `CREATE TABLE IF NOT EXISTS scrape_aircraft (
		run_id INTEGER NOT NULL REFERENCES scrape_runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		tail_number TEXT NOT NULL,
		price TEXT,
		year TEXT,
		type TEXT,
		PRIMARY KEY (run_id, tail_number)
	);`

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_scrape_runs_finished_at ON scrape_runs(finished_at)`,
		`CREATE INDEX IF NOT EXISTS idx_scrape_aircraft_tail_number ON scrape_aircraft(tail_number)`,
	}

	if _, err := d.db.Exec(runsSchema); err != nil {
		return fmt.Errorf("failed to create scrape_runs table: %w", err)
	}

	if _, err := d.db.Exec(aircraftSchema); err != nil {
		return fmt.Errorf("failed to create scrape_aircraft table: %w", err)
	}

	for _, idx := range indexes {
		if _, err := d.db.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}
