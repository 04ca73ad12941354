// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/nutrimaster/internal/auth"
	"github.com/tomtom215/nutrimaster/internal/models"
)

// savedRecipeResult is the response of POST /api/v1/recipes/{id}/calculate.
type savedRecipeResult struct {
	Recipe *models.Recipe       `json:"recipe"`
	Result *models.RecipeResult `json:"result"`
}

// CalculateBMR computes basal metabolic rate, TDEE and the calorie tables.
//
// @Summary Calculate BMR and TDEE
// @Description Mifflin-St Jeor (default) or Harris-Benedict BMR with activity and goal calorie tables
// @Tags Calculations
// @Accept json
// @Produce json
// @Param request body models.BMRRequest true "Anthropometric data"
// @Success 200 {object} models.APIResponse{data=models.BMRResult}
// @Failure 400 {object} models.APIResponse "Invalid JSON"
// @Failure 422 {object} models.APIResponse "Validation error"
// @Router /calculate/bmr [post]
func (h *Handler) CalculateBMR(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.BMRRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.calc.CalculateBMR(r.Context(), req, auth.ActorFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, res, start)
}

// CalculateRecipe aggregates the nutrients of an ad-hoc ingredient list.
//
// @Summary Aggregate recipe nutrients
// @Description Sums nutrient amounts over weighted ingredients and computes the energy distribution
// @Tags Calculations
// @Accept json
// @Produce json
// @Param request body models.RecipeRequest true "Ingredients"
// @Success 200 {object} models.APIResponse{data=models.RecipeResult}
// @Failure 422 {object} models.APIResponse "Validation or ingredient error"
// @Router /calculate/recipe [post]
func (h *Handler) CalculateRecipe(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.RecipeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.calc.CalculateRecipe(r.Context(), req, auth.ActorFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, res, start)
}

// CalculateSavedRecipe aggregates a stored recipe.
//
// @Summary Aggregate a saved recipe
// @Tags Calculations
// @Produce json
// @Param id path string true "Recipe ID"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse "Recipe not found"
// @Router /recipes/{id}/calculate [post]
func (h *Handler) CalculateSavedRecipe(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := pathID(w, r)
	if !ok {
		return
	}
	recipe, res, err := h.calc.CalculateSavedRecipe(r.Context(), id, auth.ActorFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, savedRecipeResult{Recipe: recipe, Result: res}, start)
}

// Calculations lists the calculation history, newest first.
//
// @Summary List calculation history
// @Tags Calculations
// @Produce json
// @Param kind query string false "recipe or bmr"
// @Param requested_by query string false "Username"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} models.APIResponse{data=[]models.CalculationLog}
// @Router /calculations [get]
func (h *Handler) Calculations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	params, err := parseListParams(r, "kind", "requested_by")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	result, err := h.db.ListCalculations(r.Context(), params)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respondList(w, result, start)
}
