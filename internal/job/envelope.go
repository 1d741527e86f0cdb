package job

import "time"

const (
	successMessage = "Fleet data updated successfully via cron job"
	failureError   = "Cron job failed"
)

// Envelope is the status document returned to whoever triggered a refresh
type Envelope struct {
	Success   bool   `json:"success"`
	Timestamp string `json:"timestamp"`
	Count     *int   `json:"count,omitempty"`
	Message   string `json:"message"`
	Error     string `json:"error,omitempty"`
	BlobURL   string `json:"blobUrl,omitempty"`
	LocalPath string `json:"localPath,omitempty"`
}

func successEnvelope(now time.Time, count int, blobURL, localPath string) Envelope {
	return Envelope{
		Success:   true,
		Timestamp: formatTimestamp(now),
		Count:     &count,
		Message:   successMessage,
		BlobURL:   blobURL,
		LocalPath: localPath,
	}
}

func failureEnvelope(now time.Time, err error) Envelope {
	return Envelope{
		Success:   false,
		Timestamp: formatTimestamp(now),
		Message:   err.Error(),
		Error:     failureError,
	}
}

// formatTimestamp renders UTC with millisecond precision, e.g. 2024-05-01T06:00:00.000Z
func formatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
