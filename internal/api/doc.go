// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

/*
Package api provides the HTTP interface of Nutrimaster on a chi router.

Route groups:

  - /api/v1/health: liveness and readiness probes, unauthenticated
  - /api/v1/auth: login (5 attempts per 5 minutes), logout and the current subject
  - /api/v1/{food-groups,nutrient-categories,nutrients,units,raw-materials,recipes}:
    master data CRUD with server-side search (q), filters, sort, order, limit and offset
  - /api/v1/calculate: BMR/TDEE tables and recipe nutrient aggregation
  - /api/v1/calculations: calculation history
  - /api/v1/audit/events: audit trail with JSON and CEF export (admin)
  - /api/v1/import/food-composition: nutrient profile import (admin)
  - /api/v1/ws: change feed over WebSocket
  - /metrics and /swagger/*

Every response uses the models.APIResponse envelope and carries X-Request-ID.
Errors from the storage and calculation layers are mapped to status codes in
one place (writeServiceError):

	400 BAD_REQUEST          malformed JSON or query parameters
	422 VALIDATION_ERROR     struct validation and ingredient errors
	404 NOT_FOUND            missing rows
	409 CONFLICT             duplicate codes
	409 REFERENCED           deletes that would orphan dependent rows
	500 INTERNAL_ERROR       everything else

Authentication is attached by auth.Middleware; authorization is enforced per
request path by the casbin-backed authz.Middleware. Successful writes publish
a models.ChangeEvent that feeds the WebSocket hub and the audit trail.
*/
package api
