// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

// Package importer fills raw material nutrient profiles from a remote food
// composition database.
//
// Client fetches GET {base}/foods/{id}, which answers with
//
//	{"food_id": "...", "label": "...", "category": "...", "nutrients": {"PROT": 12.5}}
//
// where nutrients holds amounts per 100 g keyed by nutrient code. Requests pass
// through an x/time/rate limiter and a gobreaker circuit breaker; a 404 does
// not count as a breaker failure.
//
// Service maps the codes to local nutrients, reports unknown codes as skipped
// and creates or updates the raw material with the requested code.
package importer
