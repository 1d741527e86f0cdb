package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"fleet_scraper/internal/api"
	"fleet_scraper/internal/config"
	"fleet_scraper/internal/database"
	"fleet_scraper/internal/scheduler"
	"fleet_scraper/internal/tasks"
)

const shutdownTimeout = 10 * time.Second

// Daemon represents the main daemon structure
type Daemon struct {
	ctx       context.Context
	cancel    context.CancelFunc
	scheduler *scheduler.Scheduler
	database  *database.DB
	server    *http.Server
	done      chan struct{}
}

// New creates a new daemon instance
func New(cfg *config.Config) (*Daemon, error) {
	if cfg.ListenAddr == "" {
		return nil, fmt.Errorf("ListenAddr is required")
	}

	ctx, cancel := context.WithCancel(context.Background())

	db, err := database.New(cfg.DBPath)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	runs := db.Runs()

	runner, err := BuildRunner(cfg, runs)
	if err != nil {
		cancel()
		db.Close()
		return nil, err
	}

	sched := scheduler.New(ctx)
	sched.AddTask(tasks.NewFleetRefresh(runner, cfg.ScheduleInterval))

	srv := api.NewServer(api.Options{
		Runner:     runner,
		Runs:       runs,
		Status:     sched,
		CronSecret: cfg.CronSecret,
	})

	return &Daemon{
		ctx:       ctx,
		cancel:    cancel,
		scheduler: sched,
		database:  db,
		server: &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           srv.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		},
		done: make(chan struct{}),
	}, nil
}

func (d *Daemon) Start() error {
	slog.Info("Starting daemon", "listen_addr", d.server.Addr)

	d.scheduler.Start()

	go func() {
		if err := d.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server stopped", "error", err)
			d.cancel()
		}
	}()

	// Wait for context cancellation
	go func() {
		<-d.ctx.Done()
		close(d.done)
	}()

	slog.Info("Daemon started successfully")
	return nil
}

// Done is closed once the daemon has been stopped or its HTTP server failed
func (d *Daemon) Done() <-chan struct{} {
	return d.done
}

// Stop gracefully stops the daemon
func (d *Daemon) Stop() error {
	slog.Info("Stopping daemon")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := d.server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Error shutting down HTTP server", "error", err)
	}

	d.cancel()
	<-d.done

	d.scheduler.Stop()

	if err := d.database.Close(); err != nil {
		slog.Error("Error closing database", "error", err)
	}

	slog.Info("Daemon stopped")
	return nil
}
