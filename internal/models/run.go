package models

import "time"

// ScrapeRun is one completed scrape as recorded in the history store
type ScrapeRun struct {
	ID         int64
	StartedAt  time.Time
	FinishedAt time.Time
	Fleet      *FleetResult
	BlobURL    string // Empty when the run was not uploaded
}

// AircraftSnapshot is the state of one aircraft as seen by a single run
type AircraftSnapshot struct {
	RunID      int64           `json:"run_id"`
	ScrapedAt  time.Time       `json:"scraped_at"`
	TailNumber string          `json:"tail_number"`
	Details    AircraftDetails `json:"details"`
}
