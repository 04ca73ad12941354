// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/nutrimaster/internal/audit"
	"github.com/tomtom215/nutrimaster/internal/auth"
	"github.com/tomtom215/nutrimaster/internal/config"
	"github.com/tomtom215/nutrimaster/internal/database"
	"github.com/tomtom215/nutrimaster/internal/events"
	"github.com/tomtom215/nutrimaster/internal/logging"
	"github.com/tomtom215/nutrimaster/internal/middleware"
	"github.com/tomtom215/nutrimaster/internal/models"
	"github.com/tomtom215/nutrimaster/internal/nutrition"
	ws "github.com/tomtom215/nutrimaster/internal/websocket"
)

// Version is reported by the health endpoint. It is set at build time.
var Version = "dev"

// Importer imports a nutrient profile from the remote food database.
// *importer.Service implements it.
type Importer interface {
	Import(ctx context.Context, req models.ImportRequest) (*models.ImportResult, error)
}

// Handler holds the dependencies of all HTTP handlers.
type Handler struct {
	db        *database.DB
	calc      *nutrition.Service
	config    *config.Config
	auth      *auth.Components
	wsHub     *ws.Hub
	startTime time.Time

	publisher events.Publisher
	audit     *audit.Logger // optional
	importer  Importer      // optional; nil when no remote database is configured
}

// NewHandler creates the handler set. authComponents and wsHub may be nil in
// tests.
func NewHandler(db *database.DB, calc *nutrition.Service, cfg *config.Config, authComponents *auth.Components, wsHub *ws.Hub) *Handler {
	return &Handler{
		db:        db,
		calc:      calc,
		config:    cfg,
		auth:      authComponents,
		wsHub:     wsHub,
		startTime: time.Now(),
		publisher: events.NopPublisher{},
	}
}

// SetEventPublisher sets the publisher of change events.
func (h *Handler) SetEventPublisher(p events.Publisher) {
	if p == nil {
		p = events.NopPublisher{}
	}
	h.publisher = p
}

// SetAuditLogger enables audit logging of authentication and imports.
func (h *Handler) SetAuditLogger(l *audit.Logger) {
	h.audit = l
}

// SetImporter enables POST /api/v1/import/food-composition.
func (h *Handler) SetImporter(i Importer) {
	h.importer = i
}

// publishChange announces a successful write. Publishing failures are logged;
// the write itself has already been committed.
func (h *Handler) publishChange(r *http.Request, entity, action, id, code string) {
	event := events.NewChangeEvent(entity, action, id, code, auth.ActorFromContext(r.Context()))
	event.RequestID = middleware.GetRequestID(r.Context())

	if err := h.publisher.Publish(r.Context(), event); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).
			Str("entity", entity).
			Str("action", action).
			Str("entity_id", id).
			Msg("Failed to publish change event")
	}
}

// auditActor describes the subject of r for the audit trail.
func auditActor(r *http.Request) audit.Actor {
	subject := auth.GetAuthSubject(r.Context())
	if subject == nil {
		return audit.SystemActor()
	}
	return audit.ActorFromUser(subject.ID, subject.Username, subject.Roles, string(subject.AuthMethod), subject.SessionID)
}

// LogAuthzDenied records a casbin denial in the audit trail. The router
// registers it as the authz deny hook.
func (h *Handler) LogAuthzDenied(r *http.Request, subject *auth.AuthSubject, object, action string) {
	if h.audit == nil || subject == nil {
		return
	}
	actor := audit.ActorFromUser(subject.ID, subject.Username, subject.Roles, string(subject.AuthMethod), subject.SessionID)
	h.audit.LogAuthzDenied(r.Context(), actor, audit.SourceFromRequest(r), object, action)
}
