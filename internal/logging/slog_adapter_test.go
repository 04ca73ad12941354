// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSlogHandlerLevels(t *testing.T) {
	buf := captureLogs(t)
	logger := NewSlogLogger()

	logger.Warn("service restarting", "service", "http")
	m := decodeLine(t, strings.TrimSpace(buf.String()))
	if m["level"] != "warn" {
		t.Errorf("level = %v, want warn", m["level"])
	}
	if m["service"] != "http" {
		t.Errorf("service = %v, want http", m["service"])
	}
}

func TestSlogHandlerGroupsKeepOrder(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewSlogHandlerWithLogger(NewTestLogger(&buf)))

	logger.WithGroup("supervisor").WithGroup("layer").Info("event", "name", "api")
	m := decodeLine(t, strings.TrimSpace(buf.String()))
	if m["supervisor.layer.name"] != "api" {
		t.Errorf("grouped key missing, got %v", m)
	}
}

func TestSlogHandlerAttrKinds(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewSlogHandlerWithLogger(NewTestLogger(&buf))).With("fixed", true)

	logger.Info("kinds",
		slog.Int("restarts", 3),
		slog.Float64("ratio", 0.5),
		slog.Duration("backoff", 2*time.Second),
		slog.Group("svc", slog.String("name", "hub")),
	)
	m := decodeLine(t, strings.TrimSpace(buf.String()))
	if m["fixed"] != true {
		t.Errorf("fixed = %v, want true", m["fixed"])
	}
	if m["restarts"] != float64(3) {
		t.Errorf("restarts = %v, want 3", m["restarts"])
	}
	if m["ratio"] != 0.5 {
		t.Errorf("ratio = %v, want 0.5", m["ratio"])
	}
	if m["svc.name"] != "hub" {
		t.Errorf("svc.name = %v, want hub", m["svc.name"])
	}
}

func TestSlogHandlerEnabled(t *testing.T) {
	h := NewSlogHandlerWithLogger(zerolog.New(&bytes.Buffer{}).Level(zerolog.WarnLevel))
	if h.Enabled(t.Context(), slog.LevelInfo) {
		t.Error("info should be disabled for a warn-level logger")
	}
	if !h.Enabled(t.Context(), slog.LevelError) {
		t.Error("error should be enabled for a warn-level logger")
	}
}
