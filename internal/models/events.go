// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package models

import "time"

// Change actions.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Entity names used in change events and audit targets.
const (
	EntityFoodGroup        = "food_group"
	EntityNutrientCategory = "nutrient_category"
	EntityNutrient         = "nutrient"
	EntityUnit             = "unit"
	EntityRawMaterial      = "raw_material"
	EntityRecipe           = "recipe"
)

// ChangeEvent is published whenever master data is written.
type ChangeEvent struct {
	ID        string    `json:"id"`
	Entity    string    `json:"entity"`
	Action    string    `json:"action"`
	EntityID  string    `json:"entity_id"`
	Code      string    `json:"code,omitempty"`
	Actor     string    `json:"actor,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
