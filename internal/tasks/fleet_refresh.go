package tasks

import (
	"context"
	"time"

	"fleet_scraper/internal/job"
)

// JobRunner performs one fleet refresh
type JobRunner interface {
	Run(ctx context.Context) job.Result
}

// FleetRefresh periodically re-scrapes the fleet and republishes the document
type FleetRefresh struct {
	runner   JobRunner
	interval time.Duration
}

// NewFleetRefresh creates the scheduled refresh task
func NewFleetRefresh(runner JobRunner, interval time.Duration) *FleetRefresh {
	return &FleetRefresh{
		runner:   runner,
		interval: interval,
	}
}

func (f *FleetRefresh) Name() string {
	return "fleet_refresh"
}

func (f *FleetRefresh) Interval() time.Duration {
	return f.interval
}

// Run executes a refresh and reports its failure, if any, to the scheduler
func (f *FleetRefresh) Run(ctx context.Context) error {
	return f.runner.Run(ctx).Err
}
