package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fleet_scraper/internal/telemetry"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultBlobAPIURL  = "https://blob.vercel-storage.com"
	blobAPIVersion     = "7"
	defaultBlobTimeout = 30 * time.Second
)

// ErrNoToken is returned when an uploader is created without a write token
var ErrNoToken = errors.New("blob write token is not configured")

// BlobOptions configures a BlobUploader
type BlobOptions struct {
	APIURL  string
	Token   string
	Timeout time.Duration
}

// BlobResult describes a stored blob
type BlobResult struct {
	URL         string `json:"url"`
	DownloadURL string `json:"downloadUrl"`
	Pathname    string `json:"pathname"`
	ContentType string `json:"contentType"`
}

type blobErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// BlobUploader writes public blobs to a Vercel Blob compatible store
type BlobUploader struct {
	client *resty.Client
}

// NewBlobUploader creates an uploader authenticated with a read-write token
func NewBlobUploader(opts BlobOptions) (*BlobUploader, error) {
	if opts.Token == "" {
		return nil, ErrNoToken
	}
	if opts.APIURL == "" {
		opts.APIURL = DefaultBlobAPIURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultBlobTimeout
	}

	client := resty.New().
		SetBaseURL(opts.APIURL).
		SetTimeout(opts.Timeout).
		SetAuthToken(opts.Token).
		SetHeader("x-api-version", blobAPIVersion)
	telemetry.InstrumentResty(client, "fleet_scraper/internal/storage")

	return &BlobUploader{client: client}, nil
}

// Put stores body at pathname as a public blob, replacing any existing blob with that name
func (u *BlobUploader) Put(ctx context.Context, pathname string, body []byte, contentType string) (*BlobResult, error) {
	var result BlobResult
	var apiErr blobErrorResponse

	res, err := u.client.R().
		SetContext(ctx).
		SetQueryParam("pathname", pathname).
		SetHeader("x-vercel-blob-access", "public").
		SetHeader("x-content-type", contentType).
		SetHeader("x-add-random-suffix", "0").
		SetHeader("x-allow-overwrite", "1").
		SetHeader("Content-Type", contentType).
		SetBody(body).
		SetResult(&result).
		SetError(&apiErr).
		Put("/")
	if err != nil {
		return nil, fmt.Errorf("failed to upload blob %s: %w", pathname, err)
	}

	if res.IsError() {
		msg := apiErr.Error.Message
		if msg == "" {
			msg = res.Status()
		}
		return nil, fmt.Errorf("failed to upload blob %s: %s (HTTP %d)", pathname, msg, res.StatusCode())
	}

	slog.DebugContext(ctx, "Uploaded blob", "pathname", pathname, "url", result.URL, "bytes", len(body))
	return &result, nil
}
