package job

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fleet_scraper/internal/models"
	"fleet_scraper/internal/storage"
)

const contentTypeJSON = "application/json"

// FleetScraper produces a fresh fleet result
type FleetScraper interface {
	ScrapeFleet(ctx context.Context) (*models.FleetResult, error)
}

// Uploader stores a document in the object store
type Uploader interface {
	Put(ctx context.Context, pathname string, body []byte, contentType string) (*storage.BlobResult, error)
}

// HistoryRecorder keeps past runs
type HistoryRecorder interface {
	InsertRun(ctx context.Context, run *models.ScrapeRun) (int64, error)
}

// Options wires the collaborators of a Runner. Uploader and History are optional.
type Options struct {
	Scraper      FleetScraper
	OutputPath   string
	Uploader     Uploader
	BlobPathname string
	History      HistoryRecorder
}

// Result is the outcome of a single refresh
type Result struct {
	Fleet    *models.FleetResult
	JSON     []byte
	Envelope Envelope
	Err      error
}

// Runner scrapes the fleet and publishes the document.
// Concurrent calls to Run are serialized so the site never sees two scrapes at once.
type Runner struct {
	opts Options
	now  func() time.Time
	mu   sync.Mutex
}

func NewRunner(opts Options) *Runner {
	return &Runner{opts: opts, now: time.Now}
}

// Run performs one refresh.
//
// Scrape, encode and local write failures fail the run. Once the local file is
// written, upload and history failures are logged and the run still succeeds.
func (r *Runner) Run(ctx context.Context) Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	started := r.now()
	slog.InfoContext(ctx, "Starting fleet data update")

	fleet, err := r.opts.Scraper.ScrapeFleet(ctx)
	if err != nil {
		return r.fail(ctx, err)
	}

	data, err := json.MarshalIndent(fleet, "", "  ")
	if err != nil {
		return r.fail(ctx, fmt.Errorf("failed to encode fleet data: %w", err))
	}

	localPath, err := storage.WriteLocal(r.opts.OutputPath, data)
	if err != nil {
		return r.fail(ctx, err)
	}
	slog.InfoContext(ctx, "Local file updated", "path", localPath)

	blobURL := r.upload(ctx, data)
	finished := r.now()
	r.record(ctx, &models.ScrapeRun{
		StartedAt:  started,
		FinishedAt: finished,
		Fleet:      fleet,
		BlobURL:    blobURL,
	})

	env := successEnvelope(finished, fleet.Len(), blobURL, localPath)
	slog.InfoContext(ctx, "Fleet data update completed", "count", fleet.Len(), "blob_url", blobURL, "duration", finished.Sub(started))

	return Result{Fleet: fleet, JSON: data, Envelope: env}
}

func (r *Runner) upload(ctx context.Context, data []byte) string {
	if r.opts.Uploader == nil {
		slog.InfoContext(ctx, "Blob token not configured, skipping blob upload")
		return ""
	}

	blob, err := r.opts.Uploader.Put(ctx, r.opts.BlobPathname, data, contentTypeJSON)
	if err != nil {
		slog.WarnContext(ctx, "Failed to upload to blob storage", "pathname", r.opts.BlobPathname, "error", err)
		return ""
	}

	slog.InfoContext(ctx, "Blob storage updated", "url", blob.URL)
	return blob.URL
}

func (r *Runner) record(ctx context.Context, run *models.ScrapeRun) {
	if r.opts.History == nil {
		return
	}
	if _, err := r.opts.History.InsertRun(ctx, run); err != nil {
		slog.WarnContext(ctx, "Failed to record scrape run", "error", err)
	}
}

func (r *Runner) fail(ctx context.Context, err error) Result {
	slog.ErrorContext(ctx, "Fleet data update failed", "error", err)
	return Result{Envelope: failureEnvelope(r.now(), err), Err: err}
}
