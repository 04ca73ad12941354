// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func counter(name, help string) prometheus.Counter {
	return promauto.NewCounter(prometheus.CounterOpts{Name: name, Help: help})
}

func counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.NewCounterVec(prometheus.CounterOpts{Name: name, Help: help}, labels)
}

func gauge(name, help string) prometheus.Gauge {
	return promauto.NewGauge(prometheus.GaugeOpts{Name: name, Help: help})
}

func gaugeVec(name, help string, labels ...string) *prometheus.GaugeVec {
	return promauto.NewGaugeVec(prometheus.GaugeOpts{Name: name, Help: help}, labels)
}

func histogramVec(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return promauto.NewHistogramVec(prometheus.HistogramOpts{Name: name, Help: help, Buckets: buckets}, labels)
}

func histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.NewHistogram(prometheus.HistogramOpts{Name: name, Help: help, Buckets: buckets})
}

// Database
var (
	DBQueryDuration = histogramVec("duckdb_query_duration_seconds",
		"Duration of DuckDB queries in seconds", prometheus.DefBuckets, "operation", "table")
	DBQueryErrors = counterVec("duckdb_query_errors_total",
		"DuckDB query errors", "operation", "table", "error_type")
)

// HTTP API
var (
	APIRequestsTotal = counterVec("api_requests_total",
		"API requests by route pattern and status", "method", "endpoint", "status")
	APIRequestDuration = histogramVec("api_request_duration_seconds",
		"Duration of API requests in seconds",
		[]float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}, "method", "endpoint")
	APIActiveRequests = gauge("api_active_requests", "API requests in flight")
	APIRateLimitHits  = counterVec("api_rate_limit_hits_total",
		"Requests rejected by a rate limit budget", "scope")
)

// Calculations
var (
	CalculationsTotal = counterVec("nutrition_calculations_total",
		"Nutrition calculations by kind and outcome", "kind", "outcome")
	CalculationDuration = histogramVec("nutrition_calculation_duration_seconds",
		"Duration of nutrition calculations in seconds",
		[]float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1}, "kind")
	AggregationIngredients = histogram("nutrition_aggregation_ingredients",
		"Ingredients per recipe aggregation", []float64{1, 2, 5, 10, 20, 50, 100, 200})
)

// Caches, change events and websocket push
var (
	CacheHits          = counterVec("cache_hits_total", "Cache hits", "cache")
	CacheMisses        = counterVec("cache_misses_total", "Cache misses", "cache")
	CacheInvalidations = counterVec("cache_invalidations_total", "Cache invalidations after master data writes", "cache")

	EventsPublished = counterVec("masterdata_events_published_total",
		"Master data change events published", "entity", "action")
	EventsHandled = counterVec("masterdata_events_handled_total",
		"Change events handled by subscribers", "handler", "outcome")

	WSConnections  = gauge("websocket_connections", "Open websocket connections")
	WSMessagesSent = counter("websocket_messages_sent_total", "Websocket messages broadcast")
	WSErrors       = counterVec("websocket_errors_total", "Websocket errors", "type")
)

// Upstream food composition database
var (
	CircuitBreakerState = gaugeVec("circuit_breaker_state",
		"Circuit breaker state (0=closed, 1=half-open, 2=open)", "name")
	CircuitBreakerRequests = counterVec("circuit_breaker_requests_total",
		"Requests through the circuit breaker", "name", "result")
	CircuitBreakerTransitions = counterVec("circuit_breaker_state_transitions_total",
		"Circuit breaker state transitions", "name", "from", "to")

	ImportsTotal = counterVec("food_composition_imports_total",
		"Food composition imports by outcome", "outcome")
	ImportRequestDuration = histogram("food_composition_request_duration_seconds",
		"Duration of requests to the food composition database",
		[]float64{.05, .1, .25, .5, 1, 2.5, 5, 10})
)

// Security and process
var (
	AuthAttempts       = counterVec("auth_attempts_total", "Authentication attempts", "method", "outcome")
	AuditEventsDropped = counter("audit_events_dropped_total", "Audit events dropped on a full queue")
	AppInfo            = gaugeVec("app_info", "Build information, always 1", "version", "go_version")
)

// RecordDBQuery observes one query. Failed queries are also counted by a
// bounded error class.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err == nil {
		return
	}
	class := "query"
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		class = "timeout"
	case errors.Is(err, context.Canceled):
		class = "canceled"
	}
	DBQueryErrors.WithLabelValues(operation, table, class).Inc()
}

// RecordAPIRequest counts a finished request. endpoint must be the route
// pattern, not the raw path.
func RecordAPIRequest(method, endpoint, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
		return
	}
	APIActiveRequests.Dec()
}

func outcome(ok bool) string {
	if ok {
		return "success"
	}
	return "error"
}

// RecordCalculation counts a calculation of kind ("bmr", "recipe") and its latency.
func RecordCalculation(kind string, duration time.Duration, err error) {
	CalculationsTotal.WithLabelValues(kind, outcome(err == nil)).Inc()
	CalculationDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

func RecordImport(err error) {
	ImportsTotal.WithLabelValues(outcome(err == nil)).Inc()
}

func RecordAuthAttempt(method string, success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	AuthAttempts.WithLabelValues(method, result).Inc()
}
