// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type ctxKey int

const (
	keyRequestID ctxKey = iota
	keyCorrelationID
	keyActor
)

// ContextWithRequestID tags ctx with the X-Request-ID of the HTTP request.
// Change events and audit entries copy it so a dashboard action can be
// followed from the access log to the audit trail.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyRequestID, id)
}

// RequestIDFromContext returns the request ID, or "" outside a request.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(keyRequestID).(string)
	return id
}

// ContextWithNewCorrelationID tags ctx with a short random correlation ID.
func ContextWithNewCorrelationID(ctx context.Context) context.Context {
	return context.WithValue(ctx, keyCorrelationID, uuid.NewString()[:8])
}

// CorrelationIDFromContext returns the correlation ID, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(keyCorrelationID).(string)
	return id
}

// ContextWithActor records the authenticated username for log lines.
func ContextWithActor(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, keyActor, username)
}

// ActorFromContext returns the username set by ContextWithActor.
func ActorFromContext(ctx context.Context) string {
	actor, _ := ctx.Value(keyActor).(string)
	return actor
}

// Ctx returns the global logger with request_id, correlation_id and actor
// taken from ctx.
//
//	logging.Ctx(ctx).Info().Str("recipe_id", id).Msg("Recipe calculated")
func Ctx(ctx context.Context) *zerolog.Logger {
	lc := Logger().With()
	if id := RequestIDFromContext(ctx); id != "" {
		lc = lc.Str("request_id", id)
	}
	if id := CorrelationIDFromContext(ctx); id != "" {
		lc = lc.Str("correlation_id", id)
	}
	if actor := ActorFromContext(ctx); actor != "" {
		lc = lc.Str("actor", actor)
	}
	l := lc.Logger()
	return &l
}

// WithComponent creates a child logger with a component field.
func WithComponent(component string) zerolog.Logger {
	return With().Str("component", component).Logger()
}
