// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package models

import (
	"time"

	"github.com/goccy/go-json"
)

// Calculation kinds recorded in the calculation log.
const (
	CalculationKindRecipe = "recipe"
	CalculationKindBMR    = "bmr"
)

// CalculationLog is one persisted calculation with its request and result.
type CalculationLog struct {
	ID          string          `json:"id"`
	Kind        string          `json:"kind"`
	Request     json.RawMessage `json:"request"`
	Result      json.RawMessage `json:"result"`
	RequestedBy string          `json:"requested_by,omitempty"`
	DurationMS  float64         `json:"duration_ms"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ImportRequest asks the importer to fetch a food from the remote food
// composition database and store it as a raw material.
type ImportRequest struct {
	FoodID        string  `json:"food_id" validate:"required,max=128"`
	Code          string  `json:"code" validate:"required,code"`
	FoodGroupID   string  `json:"food_group_id" validate:"required"`
	Name          string  `json:"name,omitempty" validate:"max=200"`
	EdiblePortion float64 `json:"edible_portion,omitempty" validate:"omitempty,gt=0,lte=100"`
}

// ImportResult reports what an import stored.
type ImportResult struct {
	RawMaterial *RawMaterial `json:"raw_material"`
	Created     bool         `json:"created"`
	Imported    []string     `json:"imported"`
	Skipped     []string     `json:"skipped"`
}
