// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package models

import "time"

// Limits for aggregation requests.
const (
	MaxIngredients = 200
	MaxServings    = 1000
)

// Ingredient references a raw material with a quantity in a unit. Unit is a
// unit code (case-insensitive) or a unit id.
type Ingredient struct {
	RawMaterialID string  `json:"raw_material_id" validate:"required,max=64"`
	Quantity      float64 `json:"quantity" validate:"gt=0,lte=1000000"`
	Unit          string  `json:"unit" validate:"required,max=64"`
}

// Recipe is a saved, named ingredient list.
type Recipe struct {
	ID          string       `json:"id"`
	Name        string       `json:"name" validate:"required,max=200"`
	Servings    int          `json:"servings" validate:"gte=1,lte=1000"`
	Ingredients []Ingredient `json:"ingredients" validate:"required,min=1,max=200,dive"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// RecipeRequest is the input of a nutrient aggregation. Servings defaults to 1.
type RecipeRequest struct {
	Ingredients []Ingredient `json:"ingredients" validate:"required,min=1,max=200,dive"`
	Servings    int          `json:"servings,omitempty" validate:"omitempty,gte=1,lte=1000"`
}

// RecipeResult is the nutrient summary of an ingredient list.
type RecipeResult struct {
	Servings      int                   `json:"servings"`
	TotalWeightG  float64               `json:"total_weight_g"`
	EdibleWeightG float64               `json:"edible_weight_g"`
	Groups        []NutrientGroup       `json:"groups"`
	Energy        EnergyDistribution    `json:"energy"`
	Ingredients   []IngredientBreakdown `json:"ingredients"`
}

// NutrientGroup holds the totals of one nutrient category.
type NutrientGroup struct {
	CategoryID   string          `json:"category_id"`
	CategoryCode string          `json:"category_code"`
	CategoryName string          `json:"category_name"`
	Nutrients    []NutrientTotal `json:"nutrients"`
}

// NutrientTotal is the summed amount of one nutrient. Complete is false when
// at least one ingredient has no value for the nutrient.
type NutrientTotal struct {
	NutrientID   string  `json:"nutrient_id"`
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	Unit         string  `json:"unit"`
	Amount       float64 `json:"amount"`
	PerServing   float64 `json:"per_serving"`
	Contributors int     `json:"contributors"`
	Complete     bool    `json:"complete"`
}

// EnergyDistribution is the share of energy contributed by each
// energy-yielding nutrient.
type EnergyDistribution struct {
	TotalKcal          float64       `json:"total_kcal"`
	PerServingKcal     float64       `json:"per_serving_kcal"`
	DeclaredEnergyKcal *float64      `json:"declared_energy_kcal,omitempty"`
	Shares             []EnergyShare `json:"shares"`
}

// EnergyShare is one nutrient's contribution to total energy.
type EnergyShare struct {
	NutrientID string  `json:"nutrient_id"`
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Grams      float64 `json:"grams"`
	Kcal       float64 `json:"kcal"`
	Percent    float64 `json:"percent"`
}

// IngredientBreakdown reports the normalized mass and energy of one ingredient.
type IngredientBreakdown struct {
	Index         int     `json:"index"`
	RawMaterialID string  `json:"raw_material_id"`
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	Quantity      float64 `json:"quantity"`
	Unit          string  `json:"unit"`
	Grams         float64 `json:"grams"`
	EdibleGrams   float64 `json:"edible_grams"`
	EnergyKcal    float64 `json:"energy_kcal"`
}
