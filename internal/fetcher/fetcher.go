package fetcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fleet_scraper/internal/telemetry"

	"github.com/go-resty/resty/v2"
)

// DefaultUserAgent is a desktop Chrome identifier; the operator's site rejects unknown clients
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// DefaultTimeout bounds a single page request
const DefaultTimeout = 30 * time.Second

// ErrStatus is returned when the server answers with a non-2xx status
var ErrStatus = errors.New("unexpected HTTP status")

// Options configures a Fetcher
type Options struct {
	UserAgent string
	Timeout   time.Duration
}

// Fetcher downloads raw page markup over HTTP
type Fetcher struct {
	client *resty.Client
}

// New creates a Fetcher. Zero-valued options fall back to the defaults.
func New(opts Options) *Fetcher {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	client := resty.New().
		SetTimeout(opts.Timeout).
		SetHeader("User-Agent", opts.UserAgent)
	telemetry.InstrumentResty(client, "fleet_scraper/internal/fetcher")

	return &Fetcher{client: client}
}

// Fetch performs a GET request and returns the response body as text.
// Every failure is logged here and returned; callers decide whether it is fatal.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	res, err := f.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		slog.ErrorContext(ctx, "Error fetching page", "url", url, "error", err)
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}

	if !res.IsSuccess() {
		err := fmt.Errorf("%w: HTTP %s", ErrStatus, res.Status())
		slog.ErrorContext(ctx, "Error fetching page", "url", url, "status_code", res.StatusCode(), "error", err)
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}

	slog.DebugContext(ctx, "Fetched page", "url", url, "bytes", len(res.Body()), "duration", res.Time())
	return string(res.Body()), nil
}
