// Copyright (c) 2025-2026 Vitrine Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package schedule

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Runner drives the sweeper on a recurring cadence.
type Runner struct {
	sweeper *Sweeper
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewRunner creates a Runner over the given sweeper.
func NewRunner(sweeper *Sweeper, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		sweeper: sweeper,
		cron:    cron.New(),
		logger:  logger,
	}
}

// Start begins the runner with a sweep every minute.
func (r *Runner) Start() error {
	// Run every minute
	_, err := r.cron.AddFunc("* * * * *", func() {
		if _, err := r.sweeper.ProcessSchedules(context.Background()); err != nil {
			r.logger.Error("schedule sweep failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	r.cron.Start()
	r.logger.Info("schedule runner started", "jobs", len(r.cron.Entries()))
	return nil
}

// Stop gracefully stops the runner, waiting for a running sweep to finish.
func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.logger.Info("schedule runner stopped")
}
