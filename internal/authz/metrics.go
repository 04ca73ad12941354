// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package authz

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthzDecisionsTotal counts authorization decisions by role, resource, action, and outcome.
	AuthzDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_decisions_total",
			Help: "Total authorization decisions by role, resource pattern, action and decision",
		},
		[]string{"role", "resource", "action", "decision"},
	)

	// AuthzDecisionDuration tracks the latency of authorization checks.
	AuthzDecisionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "authz_decision_duration_seconds",
			Help:    "Duration of authorization decisions",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		},
		[]string{"role", "cache_hit"},
	)

	// AuthzCacheHitsTotal counts decision cache hits.
	AuthzCacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "authz_cache_hits_total",
			Help: "Total authorization decision cache hits",
		},
	)

	// AuthzCacheMissesTotal counts decision cache misses.
	AuthzCacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "authz_cache_misses_total",
			Help: "Total authorization decision cache misses",
		},
	)

	// AuthzPolicyRulesTotal is the number of loaded policy rules.
	AuthzPolicyRulesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "authz_policy_rules",
			Help: "Number of loaded authorization policy rules",
		},
	)

	// AuthzErrorsTotal counts enforcement errors.
	AuthzErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "authz_errors_total",
			Help: "Total authorization enforcement errors",
		},
	)
)

// RecordAuthzDecision records the outcome and latency of an authorization check.
func RecordAuthzDecision(role, resource, action string, allowed bool, duration time.Duration, cacheHit bool) {
	decision := "denied"
	if allowed {
		decision = "allowed"
	}
	cacheHitLabel := "false"
	if cacheHit {
		cacheHitLabel = "true"
	}
	AuthzDecisionsTotal.WithLabelValues(role, normalizeResourcePattern(resource), action, decision).Inc()
	AuthzDecisionDuration.WithLabelValues(role, cacheHitLabel).Observe(duration.Seconds())
}

// normalizeResourcePattern replaces UUID segments with * to bound label cardinality.
//
//	/api/v1/recipes/8f14e45f-ea8e-4c3a-9b1f-2a6d1c0b7e11/calculate -> /api/v1/recipes/*/calculate
func normalizeResourcePattern(resource string) string {
	segments := strings.Split(resource, "/")
	for i, s := range segments {
		if _, err := uuid.Parse(s); err == nil {
			segments[i] = "*"
		}
	}
	return strings.Join(segments, "/")
}
