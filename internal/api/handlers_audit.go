// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/nutrimaster/internal/audit"
	"github.com/tomtom215/nutrimaster/internal/database"
	"github.com/tomtom215/nutrimaster/internal/logging"
	"github.com/tomtom215/nutrimaster/internal/models"
)

// maxAuditPageSize caps one page or export of audit events.
const maxAuditPageSize = 1000

// parseAuditFilter builds an audit query from the request parameters.
func parseAuditFilter(r *http.Request) (audit.QueryFilter, error) {
	q := r.URL.Query()
	filter := audit.DefaultQueryFilter()

	for _, t := range parseCommaSeparated(q.Get("type")) {
		filter.Types = append(filter.Types, audit.EventType(t))
	}
	for _, s := range parseCommaSeparated(q.Get("severity")) {
		filter.Severities = append(filter.Severities, audit.Severity(s))
	}
	for _, o := range parseCommaSeparated(q.Get("outcome")) {
		filter.Outcomes = append(filter.Outcomes, audit.Outcome(o))
	}
	filter.ActorID = strings.TrimSpace(q.Get("actor_id"))
	filter.TargetID = strings.TrimSpace(q.Get("target_id"))
	filter.TargetType = strings.TrimSpace(q.Get("target_type"))
	filter.SourceIP = strings.TrimSpace(q.Get("source_ip"))
	filter.RequestID = strings.TrimSpace(q.Get("request_id"))
	filter.SearchText = strings.TrimSpace(q.Get("q"))

	for _, bound := range []struct {
		name string
		dst  **time.Time
	}{
		{"start_time", &filter.StartTime},
		{"end_time", &filter.EndTime},
	} {
		if v := q.Get(bound.name); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				return filter, fmt.Errorf("%w: %s must be an RFC 3339 timestamp", database.ErrInvalidListParam, bound.name)
			}
			*bound.dst = &t
		}
	}

	limit, err := intParam(q.Get("limit"), "limit")
	if err != nil {
		return filter, err
	}
	if limit > 0 {
		filter.Limit = min(limit, maxAuditPageSize)
	}
	if filter.Offset, err = intParam(q.Get("offset"), "offset"); err != nil {
		return filter, err
	}

	switch strings.ToLower(q.Get("order")) {
	case "", models.SortDesc:
		filter.OrderDesc = true
	case models.SortAsc:
		filter.OrderDesc = false
	default:
		return filter, fmt.Errorf("%w: order must be asc or desc", database.ErrInvalidListParam)
	}
	return filter, nil
}

// AuditEvents lists the audit trail. With format=json or format=cef the
// matching page is returned as a download instead of the envelope.
//
// @Summary Query the audit trail
// @Tags Audit
// @Produce json
// @Param type query string false "Comma separated event types"
// @Param actor_id query string false "Username"
// @Param start_time query string false "RFC 3339 lower bound"
// @Param end_time query string false "RFC 3339 upper bound"
// @Param format query string false "json or cef export"
// @Success 200 {object} models.APIResponse
// @Failure 503 {object} models.APIResponse "Audit trail disabled"
// @Router /audit/events [get]
func (h *Handler) AuditEvents(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.audit == nil {
		respondError(w, http.StatusServiceUnavailable, CodeFeatureDisabled, "Audit trail is disabled", nil)
		return
	}

	filter, err := parseAuditFilter(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	format := r.URL.Query().Get("format")
	var exporter audit.Exporter
	if format != "" {
		if exporter, err = audit.ExporterFor(format); err != nil {
			respondError(w, http.StatusBadRequest, CodeInvalidParameter, err.Error(), nil)
			return
		}
	}

	eventsPage, err := h.audit.Query(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if exporter != nil {
		data, err := exporter.Export(eventsPage)
		if err != nil {
			respondError(w, http.StatusInternalServerError, CodeInternal, "Failed to export audit events", err)
			return
		}
		ext := strings.ToLower(format)
		w.Header().Set("Content-Type", exporter.ContentType())
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="audit-events-%s.%s"`, time.Now().UTC().Format("20060102-150405"), ext))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(data); err != nil {
			logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to write audit export")
		}
		return
	}

	if eventsPage == nil {
		eventsPage = []audit.Event{}
	}
	total, err := h.audit.Count(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respondList(w, &models.ListResult[audit.Event]{
		Items:  eventsPage,
		Total:  int(total),
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}, start)
}
