package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"

	"fleet_scraper/internal/api"
	"fleet_scraper/internal/daemon"

	"github.com/spf13/cobra"
)

func newScrapeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scrape",
		Short: "Scrape the fleet once, save it and print the JSON document",
		Args:  cobra.NoArgs,
		RunE:  runScrape,
	}
}

// runScrape logs to stderr so stdout carries only the fleet document.
// A failed run is reported once, by cobra, from the returned error.
func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(os.Stderr)
	if err != nil {
		return err
	}

	db, history := openHistory(cfg)
	if db != nil {
		defer db.Close()
	}

	runner, err := daemon.BuildRunner(cfg, history)
	if err != nil {
		return err
	}

	res := runner.Run(context.Background())
	if res.Err != nil {
		return fmt.Errorf("error running scraper: %w", res.Err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Results saved to: %s\n", res.Envelope.LocalPath)
	fmt.Fprintln(cmd.OutOrStdout(), string(res.JSON))
	return nil
}

func newCronTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cron-test",
		Short: "Invoke the cron handler locally and print its response",
		Args:  cobra.NoArgs,
		RunE:  runCronTest,
	}
}

func runCronTest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(os.Stderr)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Testing cron job locally...")
	if cfg.Blob.Token != "" {
		fmt.Fprintln(out, "BLOB_READ_WRITE_TOKEN: set")
	} else {
		fmt.Fprintln(out, "BLOB_READ_WRITE_TOKEN: not set")
	}

	db, history := openHistory(cfg)
	if db != nil {
		defer db.Close()
	}

	runner, err := daemon.BuildRunner(cfg, history)
	if err != nil {
		return err
	}

	srv := api.NewServer(api.Options{Runner: runner, CronSecret: cfg.CronSecret})

	token := "test-token"
	if cfg.CronSecret != "" {
		token = cfg.CronSecret
	}
	req := httptest.NewRequest(http.MethodPost, "/api/cron", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	srv.CronHandler().ServeHTTP(rec, req)

	fmt.Fprintln(out, "\nCron job response:")
	fmt.Fprintln(out, rec.Body.String())
	fmt.Fprintf(out, "\nStatus: %d\n", rec.Code)
	return nil
}
