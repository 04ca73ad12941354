// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/nutrimaster/internal/database"
	"github.com/tomtom215/nutrimaster/internal/importer"
	"github.com/tomtom215/nutrimaster/internal/logging"
	"github.com/tomtom215/nutrimaster/internal/models"
	"github.com/tomtom215/nutrimaster/internal/nutrition"
	"github.com/tomtom215/nutrimaster/internal/validation"
)

// Error codes of the response envelope.
const (
	CodeBadRequest         = "BAD_REQUEST"
	CodeInvalidParameter   = "INVALID_PARAMETER"
	CodeValidation         = "VALIDATION_ERROR"
	CodeInvalidReference   = "INVALID_REFERENCE"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeReferenced         = "REFERENCED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeAuthDisabled       = "AUTH_DISABLED"
	CodeFeatureDisabled    = "FEATURE_DISABLED"
	CodeUpstreamError      = "UPSTREAM_UNAVAILABLE"
	CodeTimeout            = "TIMEOUT"
	CodeInternal           = "INTERNAL_ERROR"
)

// writeServiceError maps errors from the storage, calculation and import
// layers to a status code and envelope. Messages of client errors are safe to
// return: they name codes and ids the client sent, never SQL.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.RequestValidationError
	var ingErr *nutrition.IngredientError

	switch {
	case errors.As(err, &verr):
		apiErr := verr.ToAPIError()
		respondAPIError(w, http.StatusUnprocessableEntity, &models.APIError{
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		})
	case errors.As(err, &ingErr):
		respondAPIError(w, http.StatusUnprocessableEntity, &models.APIError{
			Code:    CodeValidation,
			Message: ingErr.Error(),
			Details: map[string]interface{}{
				"field": ingErr.Path(),
				"value": ingErr.Value,
			},
		})
	case errors.Is(err, nutrition.ErrNoIngredients), errors.Is(err, nutrition.ErrTooManyIngredients):
		respondError(w, http.StatusUnprocessableEntity, CodeValidation, err.Error(), nil)
	case errors.Is(err, database.ErrInvalidListParam):
		respondError(w, http.StatusBadRequest, CodeInvalidParameter, err.Error(), nil)
	case errors.Is(err, database.ErrInvalidReference):
		respondError(w, http.StatusUnprocessableEntity, CodeInvalidReference, err.Error(), nil)
	case errors.Is(err, database.ErrInvalidInput):
		respondError(w, http.StatusUnprocessableEntity, CodeValidation, err.Error(), nil)
	case errors.Is(err, database.ErrNotFound):
		respondError(w, http.StatusNotFound, CodeNotFound, err.Error(), nil)
	case errors.Is(err, database.ErrConflict):
		respondError(w, http.StatusConflict, CodeConflict, err.Error(), nil)
	case errors.Is(err, database.ErrReferenced):
		respondError(w, http.StatusConflict, CodeReferenced, err.Error(), nil)
	case errors.Is(err, importer.ErrFoodNotFound):
		respondError(w, http.StatusNotFound, CodeNotFound, "Food not found in the food composition database", nil)
	case errors.Is(err, importer.ErrUnavailable):
		respondError(w, http.StatusServiceUnavailable, CodeUpstreamError, "Food composition database is unavailable", err)
	case errors.Is(err, importer.ErrUpstream):
		respondError(w, http.StatusBadGateway, CodeUpstreamError, "Food composition database request failed", err)
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusGatewayTimeout, CodeTimeout, "Request timed out", err)
	default:
		logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		respondError(w, http.StatusInternalServerError, CodeInternal, "Internal server error", nil)
	}
}
