package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"fleet_scraper/internal/database"
	"fleet_scraper/internal/job"
	"fleet_scraper/internal/models"
	"fleet_scraper/internal/scheduler"
)

// JobRunner performs one fleet refresh
type JobRunner interface {
	Run(ctx context.Context) job.Result
}

// RunStore reads the scrape history
type RunStore interface {
	LatestRun(ctx context.Context) (*models.ScrapeRun, error)
	AircraftHistory(ctx context.Context, tailNumber string, limit int) ([]models.AircraftSnapshot, error)
}

// StatusProvider reports scheduled task state
type StatusProvider interface {
	Status() []scheduler.TaskStatus
}

// Options wires the server. Runs and Status may be nil.
type Options struct {
	Runner     JobRunner
	Runs       RunStore
	Status     StatusProvider
	CronSecret string // When set, /api/cron requires "Authorization: Bearer <secret>"
}

// Server exposes the refresh trigger and the stored fleet over HTTP
type Server struct {
	opts Options
	mux  *http.ServeMux
}

func NewServer(opts Options) *Server {
	s := &Server{opts: opts, mux: http.NewServeMux()}

	s.mux.HandleFunc("/api/cron", s.handleCron)
	s.mux.HandleFunc("GET /api/fleet", s.handleFleet)
	s.mux.HandleFunc("GET /api/aircraft/{tail}/history", s.handleHistory)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	return s
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.mux
}

// CronHandler returns the refresh trigger on its own, for callers that invoke it directly
func (s *Server) CronHandler() http.Handler {
	return http.HandlerFunc(s.handleCron)
}

func (s *Server) handleCron(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if s.opts.CronSecret != "" && r.Header.Get("Authorization") != "Bearer "+s.opts.CronSecret {
		slog.WarnContext(r.Context(), "Rejected cron request with invalid authorization", "remote_addr", r.RemoteAddr)
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	slog.InfoContext(r.Context(), "Cron job triggered", "method", r.Method, "remote_addr", r.RemoteAddr)

	// a dropped connection must not abort a scrape that is already under way
	res := s.opts.Runner.Run(context.WithoutCancel(r.Context()))

	status := http.StatusOK
	if !res.Envelope.Success {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, res.Envelope)
}

func (s *Server) handleFleet(w http.ResponseWriter, r *http.Request) {
	if s.opts.Runs == nil {
		writeError(w, http.StatusNotFound, database.ErrNoRuns.Error())
		return
	}

	run, err := s.opts.Runs.LatestRun(r.Context())
	if errors.Is(err, database.ErrNoRuns) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to load latest run", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load fleet data")
		return
	}

	w.Header().Set("Last-Modified", run.FinishedAt.UTC().Format(http.TimeFormat))
	writeJSON(w, http.StatusOK, run.Fleet)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.opts.Runs == nil {
		writeJSON(w, http.StatusOK, []models.AircraftSnapshot{})
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	history, err := s.opts.Runs.AircraftHistory(r.Context(), r.PathValue("tail"), limit)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to load aircraft history", "tail_number", r.PathValue("tail"), "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load aircraft history")
		return
	}

	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	tasks := []scheduler.TaskStatus{}
	if s.opts.Status != nil {
		tasks = s.opts.Status.Status()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"tasks":  tasks,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		slog.Error("Failed to encode response", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   message,
	})
}
