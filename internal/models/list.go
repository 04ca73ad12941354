// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package models

// Sort directions.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// ListParams is the server-side table query shared by every master-data list.
// Filters hold equality conditions on whitelisted columns.
type ListParams struct {
	Query   string
	Filters map[string]string
	Sort    string
	Order   string
	Limit   int
	Offset  int
}

// ListResult is one page of a list query together with the total match count
// and the effective limit and offset after defaults and caps were applied.
type ListResult[T any] struct {
	Items  []T
	Total  int
	Limit  int
	Offset int
}

// Pagination returns the pagination metadata of the page.
func (r *ListResult[T]) Pagination() *PaginationMeta {
	return NewPaginationMeta(r.Limit, r.Offset, r.Total)
}
