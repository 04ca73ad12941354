// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

/*
Package middleware provides the infrastructure HTTP middleware for the API:
request IDs, access logging, Prometheus instrumentation and gzip compression.

All middleware uses the chi signature func(http.Handler) http.Handler:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.Compression)

RequestID must come first so the access log and every handler see the
request_id and correlation_id through logging.Ctx. PrometheusMetrics labels
requests with the chi route pattern (for example /api/v1/nutrients/{id}),
which is only known after routing, so it reads the pattern once the handler
has returned.

Authentication and authorization live in internal/auth and internal/authz.
*/
package middleware
