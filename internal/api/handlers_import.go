// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/nutrimaster/internal/audit"
	"github.com/tomtom215/nutrimaster/internal/models"
)

// ImportFoodComposition creates or refreshes a raw material from the remote
// food composition database.
//
// @Summary Import a nutrient profile
// @Description Fetches a food from the remote database and maps its nutrients onto the catalog by code
// @Tags Import
// @Accept json
// @Produce json
// @Param request body models.ImportRequest true "Food and target raw material"
// @Success 200 {object} models.APIResponse{data=models.ImportResult} "Existing raw material updated"
// @Success 201 {object} models.APIResponse{data=models.ImportResult} "Raw material created"
// @Failure 404 {object} models.APIResponse "Food not found"
// @Failure 503 {object} models.APIResponse "Importer disabled or remote database unavailable"
// @Router /import/food-composition [post]
func (h *Handler) ImportFoodComposition(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.importer == nil {
		respondError(w, http.StatusServiceUnavailable, CodeFeatureDisabled, "Food composition import is not configured", nil)
		return
	}

	var req models.ImportRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.importer.Import(r.Context(), req)
	if h.audit != nil {
		var materialID string
		imported := 0
		if res != nil {
			materialID = res.RawMaterial.ID
			imported = len(res.Imported)
		}
		h.audit.LogImport(r.Context(), auditActor(r), audit.SourceFromRequest(r), materialID, req.FoodID, imported, err)
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	status, action := http.StatusOK, models.ActionUpdated
	if res.Created {
		status, action = http.StatusCreated, models.ActionCreated
	}
	h.publishChange(r, models.EntityRawMaterial, action, res.RawMaterial.ID, res.RawMaterial.Code)
	respondData(w, status, res, start)
}
