// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package logging

import (
	"context"
	"strings"
	"testing"
)

func TestContextValues(t *testing.T) {
	ctx := context.Background()
	if RequestIDFromContext(ctx) != "" || CorrelationIDFromContext(ctx) != "" || ActorFromContext(ctx) != "" {
		t.Fatal("empty context should carry no values")
	}

	ctx = ContextWithRequestID(ctx, "req-42")
	ctx = ContextWithActor(ctx, "editor")
	ctx = ContextWithNewCorrelationID(ctx)

	if got := RequestIDFromContext(ctx); got != "req-42" {
		t.Errorf("RequestIDFromContext() = %q, want req-42", got)
	}
	if got := ActorFromContext(ctx); got != "editor" {
		t.Errorf("ActorFromContext() = %q, want editor", got)
	}
	if id := CorrelationIDFromContext(ctx); len(id) != 8 {
		t.Errorf("correlation ID %q should have 8 characters", id)
	}
	if a, b := CorrelationIDFromContext(ContextWithNewCorrelationID(ctx)), CorrelationIDFromContext(ctx); a == b {
		t.Error("new correlation ID should differ from the previous one")
	}
}

func TestCtxAttachesFields(t *testing.T) {
	buf := captureLogs(t)

	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithActor(ctx, "admin")
	Ctx(ctx).Info().Msg("handled")

	m := decodeLine(t, strings.TrimSpace(buf.String()))
	if m["request_id"] != "req-1" {
		t.Errorf("request_id = %v, want req-1", m["request_id"])
	}
	if m["actor"] != "admin" {
		t.Errorf("actor = %v, want admin", m["actor"])
	}
	if _, ok := m["correlation_id"]; ok {
		t.Error("correlation_id should be omitted when not set")
	}
}
