// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package database

import (
	"errors"
	"io"
	"strings"
)

// Sentinel errors returned by the data access methods. Callers match them with
// errors.Is; the returned error wraps the sentinel with entity context.
var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a code is already used by another row.
	ErrConflict = errors.New("already exists")

	// ErrReferenced is returned when a delete would orphan dependent rows.
	ErrReferenced = errors.New("still referenced")

	// ErrInvalidReference is returned when a foreign key points to a missing row.
	ErrInvalidReference = errors.New("invalid reference")

	// ErrInvalidInput is returned for input the store cannot accept, such as a
	// nutrient listed twice in one profile.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidListParam is returned for unknown sort fields, filters or orders.
	ErrInvalidListParam = errors.New("invalid list parameter")
)

// isUniqueConstraintError reports whether err is a DuckDB unique or primary key violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "unique constraint") || strings.Contains(errMsg, "duplicate key")
}

// closeQuietly closes a resource and explicitly ignores any error
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
