// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package database

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/nutrimaster/internal/models"
)

// maxOffset bounds OFFSET to keep pathological page requests cheap to reject.
const maxOffset = 1_000_000

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// listSpec describes how a table is searched, filtered and sorted. Only the
// columns named here can appear in generated SQL; user input never reaches
// the query text.
type listSpec struct {
	table       string
	columns     string
	searchCols  []string
	filters     map[string]string // query parameter -> column
	sorts       map[string]string // sort parameter -> column
	defaultSort string
	defaultDesc bool
}

// NormalizeListParams applies the page size default and cap, and validates
// offset and order. Sort and filter names are validated per table by the list
// methods.
func (db *DB) NormalizeListParams(p models.ListParams) (models.ListParams, error) {
	if p.Limit <= 0 {
		p.Limit = db.defaultLimit
	}
	if p.Limit > db.maxLimit {
		p.Limit = db.maxLimit
	}
	if p.Offset < 0 || p.Offset > maxOffset {
		return p, fmt.Errorf("%w: offset must be between 0 and %d", ErrInvalidListParam, maxOffset)
	}
	switch strings.ToLower(p.Order) {
	case "":
		p.Order = ""
	case models.SortAsc, models.SortDesc:
		p.Order = strings.ToLower(p.Order)
	default:
		return p, fmt.Errorf("%w: order must be asc or desc", ErrInvalidListParam)
	}
	p.Query = strings.TrimSpace(p.Query)
	return p, nil
}

// buildWhere returns the WHERE clause (including the keyword, or empty) and its arguments.
func (s *listSpec) buildWhere(p models.ListParams) (string, []any, error) {
	var conditions []string
	var args []any

	if p.Query != "" && len(s.searchCols) > 0 {
		pattern := "%" + escapeLike(p.Query) + "%"
		parts := make([]string, len(s.searchCols))
		for i, col := range s.searchCols {
			parts[i] = col + ` ILIKE ? ESCAPE '\'`
			args = append(args, pattern)
		}
		conditions = append(conditions, "("+strings.Join(parts, " OR ")+")")
	}

	// Sorted for deterministic SQL text.
	names := make([]string, 0, len(p.Filters))
	for name := range p.Filters {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		col, ok := s.filters[name]
		if !ok {
			return "", nil, fmt.Errorf("%w: unknown filter %q for %s", ErrInvalidListParam, name, s.table)
		}
		conditions = append(conditions, col+" = ?")
		args = append(args, p.Filters[name])
	}

	if len(conditions) == 0 {
		return "", args, nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args, nil
}

// buildOrderBy returns the ORDER BY clause with id as a stable tiebreaker.
func (s *listSpec) buildOrderBy(p models.ListParams) (string, error) {
	col := s.defaultSort
	desc := s.defaultDesc
	if p.Sort != "" {
		c, ok := s.sorts[p.Sort]
		if !ok {
			return "", fmt.Errorf("%w: unknown sort field %q for %s", ErrInvalidListParam, p.Sort, s.table)
		}
		col = c
		desc = false
	}
	switch p.Order {
	case models.SortDesc:
		desc = true
	case models.SortAsc:
		desc = false
	}
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, id ASC", col, dir), nil
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// listRows runs the count and page queries described by spec and scans each row.
func listRows[T any](ctx context.Context, db *DB, spec *listSpec, p models.ListParams, scan func(rowScanner) (T, error)) (result *models.ListResult[T], err error) {
	defer observe("list", spec.table, time.Now(), &err)

	p, err = db.NormalizeListParams(p)
	if err != nil {
		return nil, err
	}
	where, args, err := spec.buildWhere(p)
	if err != nil {
		return nil, err
	}
	orderBy, err := spec.buildOrderBy(p)
	if err != nil {
		return nil, err
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var total int
	countQuery := "SELECT COUNT(*) FROM " + spec.table + where
	if err = db.conn.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count %s: %w", spec.table, err)
	}

	query := "SELECT " + spec.columns + " FROM " + spec.table + where + orderBy + " LIMIT ? OFFSET ?"
	pageArgs := append(append([]any{}, args...), p.Limit, p.Offset)

	rows, err := db.conn.QueryContext(ctx, query, pageArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", spec.table, err)
	}
	defer rows.Close()

	items := make([]T, 0, p.Limit)
	for rows.Next() {
		item, scanErr := scan(rows)
		if scanErr != nil {
			err = fmt.Errorf("failed to scan %s: %w", spec.table, scanErr)
			return nil, err
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", spec.table, err)
	}

	return &models.ListResult[T]{Items: items, Total: total, Limit: p.Limit, Offset: p.Offset}, nil
}
