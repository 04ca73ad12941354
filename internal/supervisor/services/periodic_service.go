// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package services

import (
	"context"
	"time"

	"github.com/tomtom215/nutrimaster/internal/logging"
)

// Task is one run of periodic work. It returns the number of items it
// processed, for logging.
type Task func(ctx context.Context) (int64, error)

// PeriodicService runs a Task every interval until the context is canceled.
// A failing run is logged and retried on the next tick; it does not restart
// the service.
type PeriodicService struct {
	name     string
	interval time.Duration
	task     Task
}

// NewPeriodicService creates a periodic service. A non-positive interval
// defaults to one hour.
func NewPeriodicService(name string, interval time.Duration, task Task) *PeriodicService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &PeriodicService{name: name, interval: interval, task: task}
}

// Serve implements suture.Service. The task runs once immediately and then
// on every tick.
func (p *PeriodicService) Serve(ctx context.Context) error {
	logger := logging.WithComponent(p.name)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		n, err := p.task(ctx)
		switch {
		case err != nil && ctx.Err() == nil:
			logger.Error().Err(err).Msg("Periodic task failed")
		case n > 0:
			logger.Info().Int64("count", n).Msg("Periodic task completed")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// String implements fmt.Stringer.
func (p *PeriodicService) String() string {
	return p.name
}
