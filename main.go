package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"fleet_scraper/internal/config"
	"fleet_scraper/internal/daemon"
	"fleet_scraper/internal/database"
	"fleet_scraper/internal/job"

	"github.com/spf13/cobra"
)

var version = "dev"

var configPath string

func initLogger(cfg *config.Config, w io.Writer) {
	var logLevel slog.Level
	switch cfg.Log.Level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var handler slog.Handler
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
}

// loadConfig loads configuration and initializes the default logger
func loadConfig(logOutput io.Writer) (*config.Config, error) {
	if configPath != "" {
		os.Setenv("FLEET_SCRAPER_CONFIG_PATH", configPath)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	initLogger(cfg, logOutput)
	return cfg, nil
}

// openHistory opens the history database. The scrape still runs without it.
func openHistory(cfg *config.Config) (*database.DB, job.HistoryRecorder) {
	db, err := database.New(cfg.DBPath)
	if err != nil {
		slog.Warn("History database unavailable, runs will not be recorded", "db_path", cfg.DBPath, "error", err)
		return nil, nil
	}
	return db, db.Runs()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "fleet_scraper",
		Short:   "Collects rental rates for the Cessna 172SP G-1000 fleet",
		Version: version,
		Long: `fleet_scraper reads the operator's rental aircraft listing, visits every
Cessna Skyhawk 172SP G-1000 detail page and publishes hourly rate, model year
and avionics type as a JSON document.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (YAML)")

	rootCmd.AddCommand(newScrapeCmd(), newServeCmd(), newCronTestCmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduled refresh and the HTTP trigger",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(os.Stdout)
	if err != nil {
		return err
	}

	d, err := daemon.New(cfg)
	if err != nil {
		slog.Error("Failed to initialize daemon", "error", err)
		return err
	}

	if err := d.Start(); err != nil {
		return err
	}

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		slog.Info("Received interrupt signal, shutting down...")
	case <-d.Done():
		slog.Error("Daemon exited unexpectedly")
	}

	if err := d.Stop(); err != nil {
		return err
	}

	slog.Info("Shutdown complete")
	return nil
}
