// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestPeriodicServiceRunsImmediatelyAndOnTick(t *testing.T) {
	var runs atomic.Int32
	svc := NewPeriodicService("session-cleanup", 10*time.Millisecond, func(context.Context) (int64, error) {
		runs.Add(1)
		return 1, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 55*time.Millisecond)
	defer cancel()

	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() = %v, want context.DeadlineExceeded", err)
	}
	if runs.Load() < 2 {
		t.Errorf("task ran %d times, want at least 2", runs.Load())
	}
}

func TestPeriodicServiceSurvivesTaskErrors(t *testing.T) {
	var runs atomic.Int32
	svc := NewPeriodicService("audit-retention", 5*time.Millisecond, func(context.Context) (int64, error) {
		runs.Add(1)
		return 0, errors.New("database is locked")
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_ = svc.Serve(ctx)

	if runs.Load() < 2 {
		t.Errorf("task ran %d times, want retries after failure", runs.Load())
	}
}

func TestNewPeriodicServiceDefaults(t *testing.T) {
	svc := NewPeriodicService("x", 0, func(context.Context) (int64, error) { return 0, nil })
	if svc.interval != time.Hour {
		t.Errorf("interval = %v, want 1h", svc.interval)
	}
	if svc.String() != "x" {
		t.Errorf("String() = %q", svc.String())
	}
}
