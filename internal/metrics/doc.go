// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and are
exposed by the API router at /metrics:

	curl http://localhost:8460/metrics

# Available Metrics

Database:
  - duckdb_query_duration_seconds{operation, table}
  - duckdb_query_errors_total{operation, table, error_type}

API:
  - api_requests_total{method, endpoint, status}
  - api_request_duration_seconds{method, endpoint}
  - api_active_requests
  - api_rate_limit_hits_total{scope}

Calculations:
  - nutrition_calculations_total{kind, outcome}
  - nutrition_calculation_duration_seconds{kind}
  - nutrition_aggregation_ingredients

Cache, events and push:
  - cache_hits_total, cache_misses_total, cache_invalidations_total{cache}
  - masterdata_events_published_total{entity, action}
  - masterdata_events_handled_total{handler, outcome}
  - websocket_connections, websocket_messages_sent_total, websocket_errors_total{type}

Resilience and security:
  - circuit_breaker_state{name}, circuit_breaker_requests_total{name, result}
  - circuit_breaker_state_transitions_total{name, from, to}
  - auth_attempts_total{method, outcome}
  - audit_events_dropped_total
  - food_composition_imports_total{outcome}, food_composition_request_duration_seconds

Process:
  - app_info{version, go_version}

Keep label values bounded: endpoints are chi route patterns, never raw paths.
*/
package metrics
