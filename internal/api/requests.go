// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/tomtom215/nutrimaster/internal/database"
	"github.com/tomtom215/nutrimaster/internal/models"
)

// maxQueryLength bounds the free-text search term.
const maxQueryLength = 200

// parseListParams reads q, sort, order, limit and offset plus the named
// filters from the query string. Empty filters are ignored; range checks and
// defaults are applied by the store.
func parseListParams(r *http.Request, filters ...string) (models.ListParams, error) {
	q := r.URL.Query()
	p := models.ListParams{
		Query: strings.TrimSpace(q.Get("q")),
		Sort:  strings.TrimSpace(q.Get("sort")),
		Order: strings.TrimSpace(q.Get("order")),
	}
	if len(p.Query) > maxQueryLength {
		return p, fmt.Errorf("%w: q must be at most %d characters", database.ErrInvalidListParam, maxQueryLength)
	}

	var err error
	if p.Limit, err = intParam(q.Get("limit"), "limit"); err != nil {
		return p, err
	}
	if p.Offset, err = intParam(q.Get("offset"), "offset"); err != nil {
		return p, err
	}

	for _, name := range filters {
		if v := strings.TrimSpace(q.Get(name)); v != "" {
			if p.Filters == nil {
				p.Filters = make(map[string]string, len(filters))
			}
			p.Filters[name] = v
		}
	}
	return p, nil
}

// intParam parses an optional integer query parameter. An empty value is 0.
func intParam(value, name string) (int, error) {
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", database.ErrInvalidListParam, name)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %s must not be negative", database.ErrInvalidListParam, name)
	}
	return n, nil
}

// parseCommaSeparated splits a comma separated parameter, dropping empty parts.
func parseCommaSeparated(value string) []string {
	if value == "" {
		return nil
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
