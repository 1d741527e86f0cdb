package fleet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fleet_scraper/internal/extract"
	"fleet_scraper/internal/models"
)

const (
	DefaultBaseURL     = "https://advantage-aviation.com"
	DefaultIndexURL    = "https://advantage-aviation.com/rental-aircraft/#tab4"
	DefaultPacingDelay = 1 * time.Second
)

// ErrIndexFetch is returned when the index page cannot be downloaded
var ErrIndexFetch = errors.New("failed to fetch main page")

// PageFetcher downloads a page and returns its markup
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Config holds the site endpoints and request pacing
type Config struct {
	IndexURL    string        // Page listing the rental fleet
	BaseURL     string        // Prefix for relative detail links
	PacingDelay time.Duration // Wait between consecutive detail page requests
}

// Scraper collects details for every aircraft listed on the index page
type Scraper struct {
	fetcher PageFetcher
	cfg     Config
	wait    func(ctx context.Context, d time.Duration) error
}

// NewScraper creates a Scraper. Empty URLs fall back to the operator's site;
// a negative delay disables pacing.
func NewScraper(fetcher PageFetcher, cfg Config) *Scraper {
	if cfg.IndexURL == "" {
		cfg.IndexURL = DefaultIndexURL
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.PacingDelay < 0 {
		cfg.PacingDelay = 0
	}

	return &Scraper{
		fetcher: fetcher,
		cfg:     cfg,
		wait:    sleep,
	}
}

// ScrapeFleet fetches the index page, then each detail page in turn.
//
// Failure to fetch the index page aborts the run. A detail page that cannot be
// fetched is left out of the result; every fetched page gets an entry even when
// nothing could be extracted from it.
func (s *Scraper) ScrapeFleet(ctx context.Context) (*models.FleetResult, error) {
	slog.InfoContext(ctx, "Fetching main page", "url", s.cfg.IndexURL)
	html, err := s.fetcher.Fetch(ctx, s.cfg.IndexURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIndexFetch, err)
	}

	links, err := extract.ExtractLinks(html, s.cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Found Cessna 172 G-1000 aircraft", "count", len(links))

	result := models.NewFleetResult()

	for i, link := range links {
		if i > 0 && s.cfg.PacingDelay > 0 {
			if err := s.wait(ctx, s.cfg.PacingDelay); err != nil {
				return nil, fmt.Errorf("scrape interrupted before %s: %w", link.TailNumber, err)
			}
		}

		slog.InfoContext(ctx, "Processing aircraft",
			"index", i+1,
			"total", len(links),
			"tail_number", link.TailNumber,
			"url", link.URL,
		)

		page, err := s.fetcher.Fetch(ctx, link.URL)
		if err != nil {
			slog.WarnContext(ctx, "Failed to fetch details, skipping aircraft", "tail_number", link.TailNumber, "error", err)
			continue
		}

		details, err := extract.ExtractDetails(page, link.TailNumber)
		if err != nil {
			slog.WarnContext(ctx, "Failed to parse details, skipping aircraft", "tail_number", link.TailNumber, "error", err)
			continue
		}
		if details.IsEmpty() {
			slog.InfoContext(ctx, "No details extracted", "tail_number", link.TailNumber)
		}

		result.Set(link.TailNumber, details)
	}

	slog.InfoContext(ctx, "Scraping complete", "discovered", len(links), "processed", result.Len())
	return result, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
