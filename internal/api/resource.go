// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/nutrimaster/internal/models"
	"github.com/tomtom215/nutrimaster/internal/validation"
)

// maxIDLength bounds path ids; longer values cannot exist in the store.
const maxIDLength = 64

// resource wires the five CRUD handlers of one master-data table. The store
// functions are method values of *database.DB.
type resource[T any] struct {
	h       *Handler
	entity  string // models.Entity* name used in change events
	filters []string

	list   func(context.Context, models.ListParams) (*models.ListResult[T], error)
	get    func(context.Context, string) (*T, error)
	create func(context.Context, *T) error
	update func(context.Context, *T) error
	remove func(context.Context, string) error

	// identity returns the id and code of an item for change events.
	identity func(*T) (id, code string)
	setID    func(*T, string)

	// prepare, when set, normalizes a decoded body before validation.
	prepare func(*T)

	// catalog marks tables cached by the calculation service.
	catalog bool
}

// mount registers the resource under pattern. writeLimit is shared by all
// write routes of the router; extra registers additional routes on the
// resource's subrouter.
func (res *resource[T]) mount(r chi.Router, pattern string, writeLimit func(http.Handler) http.Handler, extra ...func(chi.Router)) {
	r.Route(pattern, func(r chi.Router) {
		r.Get("/", res.List)
		r.With(writeLimit).Post("/", res.Create)
		r.Get("/{id}", res.Get)
		r.With(writeLimit).Put("/{id}", res.Update)
		r.With(writeLimit).Delete("/{id}", res.Delete)
		for _, fn := range extra {
			fn(r)
		}
	})
}

// pathID returns the {id} URL parameter, writing a 400 when it is unusable.
func pathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" || len(id) > maxIDLength {
		respondError(w, http.StatusBadRequest, CodeInvalidParameter, "Invalid id", nil)
		return "", false
	}
	return id, true
}

// List returns one page of items.
func (res *resource[T]) List(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	params, err := parseListParams(r, res.filters...)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	result, err := res.list(r.Context(), params)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respondList(w, result, start)
}

// Get returns one item.
func (res *resource[T]) Get(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := pathID(w, r)
	if !ok {
		return
	}
	item, err := res.get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, item, start)
}

// Create validates and inserts the request body.
func (res *resource[T]) Create(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	item := new(T)
	if !res.decode(w, r, item) {
		return
	}
	if err := res.create(r.Context(), item); err != nil {
		writeServiceError(w, r, err)
		return
	}

	id, code := res.identity(item)
	res.changed(r, models.ActionCreated, id, code)
	w.Header().Set("Location", strings.TrimSuffix(r.URL.Path, "/")+"/"+id)
	respondData(w, http.StatusCreated, item, start)
}

// Update replaces the item named by the path with the request body.
func (res *resource[T]) Update(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := pathID(w, r)
	if !ok {
		return
	}
	item := new(T)
	if !res.decode(w, r, item) {
		return
	}
	res.setID(item, id)
	if err := res.update(r.Context(), item); err != nil {
		writeServiceError(w, r, err)
		return
	}

	_, code := res.identity(item)
	res.changed(r, models.ActionUpdated, id, code)
	respondData(w, http.StatusOK, item, start)
}

// Delete removes the item unless other rows still reference it.
func (res *resource[T]) Delete(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := res.remove(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	res.changed(r, models.ActionDeleted, id, "")
	respondData(w, http.StatusOK, map[string]interface{}{"id": id, "deleted": true}, start)
}

func (res *resource[T]) decode(w http.ResponseWriter, r *http.Request, item *T) bool {
	if !decodeJSON(w, r, item) {
		return false
	}
	if res.prepare != nil {
		res.prepare(item)
	}
	if verr := validation.ValidateStruct(item); verr != nil {
		writeServiceError(w, r, verr)
		return false
	}
	return true
}

// changed invalidates the calculation catalog when needed and publishes the
// change event.
func (res *resource[T]) changed(r *http.Request, action, id, code string) {
	if res.catalog && res.h.calc != nil {
		res.h.calc.InvalidateCatalog()
	}
	res.h.publishChange(r, res.entity, action, id, code)
}
