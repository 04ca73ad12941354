// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package models

import "time"

// FoodGroup classifies raw materials (cereals, dairy, vegetables, ...).
type FoodGroup struct {
	ID          string    `json:"id"`
	Code        string    `json:"code" validate:"required,code"`
	Name        string    `json:"name" validate:"required,max=200"`
	Description string    `json:"description,omitempty" validate:"max=2000"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NutrientCategory groups nutrients in aggregation output. SortOrder drives
// the order of groups in a nutrient summary.
type NutrientCategory struct {
	ID        string    `json:"id"`
	Code      string    `json:"code" validate:"required,code"`
	Name      string    `json:"name" validate:"required,max=200"`
	SortOrder int       `json:"sort_order" validate:"gte=0,lte=100000"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Nutrient is a measurable component of food. EnergyFactor is the kcal yielded
// per gram and is nil for nutrients that do not contribute energy. Only
// nutrients measured by mass (g, mg, ug) may carry one.
type Nutrient struct {
	ID           string    `json:"id"`
	Code         string    `json:"code" validate:"required,code"`
	Name         string    `json:"name" validate:"required,max=200"`
	CategoryID   string    `json:"category_id" validate:"required"`
	UnitSymbol   string    `json:"unit_symbol" validate:"required,oneof=g mg ug kcal kJ"`
	EnergyFactor *float64  `json:"energy_factor,omitempty" validate:"omitempty,excluded_if=UnitSymbol kcal,excluded_if=UnitSymbol kJ,gte=0,lte=10"`
	SortOrder    int       `json:"sort_order" validate:"gte=0,lte=100000"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Unit is a unit of measure for ingredient quantities. GramsPerUnit is nil for
// units without a universal mass such as "piece".
type Unit struct {
	ID           string    `json:"id"`
	Code         string    `json:"code" validate:"required,code"`
	Name         string    `json:"name" validate:"required,max=200"`
	GramsPerUnit *float64  `json:"grams_per_unit,omitempty" validate:"omitempty,gt=0"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DefaultEdiblePortion is applied when a raw material does not declare one.
const DefaultEdiblePortion = 100.0

// RawMaterial is a food item with a nutrient profile per 100 g edible portion.
type RawMaterial struct {
	ID            string                `json:"id"`
	Code          string                `json:"code" validate:"required,code"`
	Name          string                `json:"name" validate:"required,max=200"`
	FoodGroupID   string                `json:"food_group_id" validate:"required"`
	EdiblePortion float64               `json:"edible_portion" validate:"gt=0,lte=100"`
	Description   string                `json:"description,omitempty" validate:"max=2000"`
	Nutrients     []RawMaterialNutrient `json:"nutrients" validate:"max=500,dive"`
	UnitWeights   []RawMaterialUnit     `json:"unit_weights" validate:"max=50,dive"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// RawMaterialNutrient is one value of a raw material's nutrient profile.
// Either NutrientID or NutrientCode identifies the nutrient on input.
type RawMaterialNutrient struct {
	NutrientID    string  `json:"nutrient_id" validate:"required_without=NutrientCode"`
	NutrientCode  string  `json:"nutrient_code,omitempty"`
	AmountPer100g float64 `json:"amount_per_100g" validate:"gte=0"`
}

// RawMaterialUnit is the material-specific mass of one unit (one egg = 50 g).
// Either UnitID or UnitCode identifies the unit on input.
type RawMaterialUnit struct {
	UnitID   string  `json:"unit_id" validate:"required_without=UnitCode"`
	UnitCode string  `json:"unit_code,omitempty"`
	Grams    float64 `json:"grams" validate:"gt=0"`
}

// EnergyFactorValue returns the nutrient's energy factor and whether it has one.
func (n *Nutrient) EnergyFactorValue() (float64, bool) {
	if n.EnergyFactor == nil {
		return 0, false
	}
	return *n.EnergyFactor, true
}

// MeasuredByMass reports whether the nutrient's unit is a mass unit, the
// precondition for an energy factor.
func (n *Nutrient) MeasuredByMass() bool {
	switch n.UnitSymbol {
	case "g", "mg", "ug":
		return true
	}
	return false
}

// Float64Ptr returns a pointer to v.
func Float64Ptr(v float64) *float64 {
	return &v
}

// Catalog is the reference data nutrient aggregation needs besides the raw
// materials themselves.
type Catalog struct {
	Units      []Unit             `json:"units"`
	Nutrients  []Nutrient         `json:"nutrients"`
	Categories []NutrientCategory `json:"categories"`
}
