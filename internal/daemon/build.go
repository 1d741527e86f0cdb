package daemon

import (
	"errors"
	"fmt"

	"fleet_scraper/internal/config"
	"fleet_scraper/internal/fetcher"
	"fleet_scraper/internal/fleet"
	"fleet_scraper/internal/job"
	"fleet_scraper/internal/storage"
)

// BuildScraper creates the fleet scraper described by cfg
func BuildScraper(cfg *config.Config) *fleet.Scraper {
	f := fetcher.New(fetcher.Options{
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.RequestTimeout,
	})

	return fleet.NewScraper(f, fleet.Config{
		IndexURL:    cfg.IndexURL,
		BaseURL:     cfg.BaseURL,
		PacingDelay: cfg.PacingDelay,
	})
}

// BuildRunner creates the refresh job. history may be nil.
// No uploader is attached when the blob token is missing.
func BuildRunner(cfg *config.Config, history job.HistoryRecorder) (*job.Runner, error) {
	opts := job.Options{
		Scraper:      BuildScraper(cfg),
		OutputPath:   cfg.OutputPath,
		BlobPathname: cfg.Blob.Pathname,
		History:      history,
	}

	uploader, err := storage.NewBlobUploader(storage.BlobOptions{
		APIURL:  cfg.Blob.APIURL,
		Token:   cfg.Blob.Token,
		Timeout: cfg.RequestTimeout,
	})
	switch {
	case errors.Is(err, storage.ErrNoToken):
	case err != nil:
		return nil, fmt.Errorf("failed to create blob uploader: %w", err)
	default:
		opts.Uploader = uploader
	}

	return job.NewRunner(opts), nil
}
