// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/nutrimaster/internal/models"
)

// healthPingTimeout bounds the database ping of the health endpoints.
const healthPingTimeout = 2 * time.Second

func (h *Handler) databaseReady(ctx context.Context) bool {
	if h.db == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, healthPingTimeout)
	defer cancel()
	return h.db.Ping(ctx) == nil
}

// Health reports overall status, database connectivity and uptime.
//
// @Summary Get system health status
// @Tags Health
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.HealthStatus}
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	dbOK := h.databaseReady(r.Context())

	status := "healthy"
	if !dbOK {
		status = "degraded"
	}

	services := map[string]string{
		"importer": "disabled",
		"audit":    "disabled",
	}
	if h.importer != nil {
		services["importer"] = "enabled"
	}
	if h.audit != nil && h.audit.Enabled() {
		services["audit"] = "enabled"
	}
	if h.wsHub != nil {
		services["websocket_clients"] = strconv.Itoa(h.wsHub.ClientCount())
	}
	if h.auth != nil {
		services["auth_mode"] = h.auth.Mode.String()
	}

	respondData(w, http.StatusOK, models.HealthStatus{
		Status:    status,
		Version:   Version,
		Database:  dbOK,
		Uptime:    time.Since(h.startTime).Seconds(),
		Services:  services,
		Timestamp: time.Now().UTC(),
	}, start)
}

// HealthLive answers as long as the process serves HTTP.
//
// @Summary Liveness probe
// @Tags Health
// @Success 200 {object} models.APIResponse
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, map[string]string{"status": "alive"}, time.Now())
}

// HealthReady answers 503 until the database accepts queries.
//
// @Summary Readiness probe
// @Tags Health
// @Success 200 {object} models.APIResponse
// @Failure 503 {object} models.APIResponse
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if !h.databaseReady(r.Context()) {
		respondError(w, http.StatusServiceUnavailable, "NOT_READY", "Database is not available", nil)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"status": "ready"}, time.Now())
}
