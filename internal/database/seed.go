// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package database

import (
	"context"
	"fmt"

	"github.com/tomtom215/nutrimaster/internal/logging"
	"github.com/tomtom215/nutrimaster/internal/models"
)

// SeedStats counts rows created by SeedReferenceData.
type SeedStats struct {
	FoodGroups   int `json:"food_groups"`
	Categories   int `json:"nutrient_categories"`
	Nutrients    int `json:"nutrients"`
	Units        int `json:"units"`
	RawMaterials int `json:"raw_materials"`
}

// Total returns the number of rows created.
func (s SeedStats) Total() int {
	return s.FoodGroups + s.Categories + s.Nutrients + s.Units + s.RawMaterials
}

var seedUnits = []models.Unit{
	{Code: "g", Name: "Gram", GramsPerUnit: models.Float64Ptr(1)},
	{Code: "kg", Name: "Kilogram", GramsPerUnit: models.Float64Ptr(1000)},
	{Code: "mg", Name: "Milligram", GramsPerUnit: models.Float64Ptr(0.001)},
	{Code: "ug", Name: "Microgram", GramsPerUnit: models.Float64Ptr(0.000001)},
	{Code: "ml", Name: "Millilitre", GramsPerUnit: models.Float64Ptr(1)},
	{Code: "l", Name: "Litre", GramsPerUnit: models.Float64Ptr(1000)},
	{Code: "tsp", Name: "Teaspoon", GramsPerUnit: models.Float64Ptr(5)},
	{Code: "tbsp", Name: "Tablespoon", GramsPerUnit: models.Float64Ptr(15)},
	{Code: "cup", Name: "Cup", GramsPerUnit: models.Float64Ptr(240)},
	{Code: "piece", Name: "Piece"},
}

var seedCategories = []models.NutrientCategory{
	{Code: "ENERGY", Name: "Energy", SortOrder: 0},
	{Code: "MACRO", Name: "Macronutrients", SortOrder: 10},
	{Code: "MINERAL", Name: "Minerals", SortOrder: 20},
	{Code: "VITAMIN", Name: "Vitamins", SortOrder: 30},
}

// seedNutrient carries the category code instead of an id.
type seedNutrient struct {
	category string
	nutrient models.Nutrient
}

var seedNutrients = []seedNutrient{
	{"ENERGY", models.Nutrient{Code: "ENERC_KCAL", Name: "Energy", UnitSymbol: "kcal", SortOrder: 0}},
	{"MACRO", models.Nutrient{Code: "PROCNT", Name: "Protein", UnitSymbol: "g", EnergyFactor: models.Float64Ptr(4), SortOrder: 10}},
	{"MACRO", models.Nutrient{Code: "FAT", Name: "Total fat", UnitSymbol: "g", EnergyFactor: models.Float64Ptr(9), SortOrder: 20}},
	{"MACRO", models.Nutrient{Code: "CHOCDF", Name: "Carbohydrate", UnitSymbol: "g", EnergyFactor: models.Float64Ptr(4), SortOrder: 30}},
	{"MACRO", models.Nutrient{Code: "FIBTG", Name: "Dietary fibre", UnitSymbol: "g", EnergyFactor: models.Float64Ptr(2), SortOrder: 40}},
	{"MACRO", models.Nutrient{Code: "SUGAR", Name: "Sugars", UnitSymbol: "g", SortOrder: 50}},
	{"MACRO", models.Nutrient{Code: "ALC", Name: "Alcohol", UnitSymbol: "g", EnergyFactor: models.Float64Ptr(7), SortOrder: 60}},
	{"MINERAL", models.Nutrient{Code: "NA", Name: "Sodium", UnitSymbol: "mg", SortOrder: 10}},
	{"MINERAL", models.Nutrient{Code: "CA", Name: "Calcium", UnitSymbol: "mg", SortOrder: 20}},
	{"MINERAL", models.Nutrient{Code: "FE", Name: "Iron", UnitSymbol: "mg", SortOrder: 30}},
	{"VITAMIN", models.Nutrient{Code: "VITC", Name: "Vitamin C", UnitSymbol: "mg", SortOrder: 10}},
}

var seedFoodGroups = []models.FoodGroup{
	{Code: "CEREALS", Name: "Cereals and cereal products"},
	{Code: "DAIRY", Name: "Milk and dairy products"},
	{Code: "EGGS", Name: "Eggs"},
	{Code: "FRUITS", Name: "Fruits"},
	{Code: "VEGETABLES", Name: "Vegetables"},
	{Code: "MEAT", Name: "Meat and poultry"},
	{Code: "FATS_OILS", Name: "Fats and oils"},
	{Code: "SUGARS", Name: "Sugars and confectionery"},
}

// seedMaterial is a raw material described by codes. Profiles are per 100 g
// edible portion.
type seedMaterial struct {
	code, name, group string
	edible            float64
	nutrients         map[string]float64
	units             map[string]float64
}

var seedMaterials = []seedMaterial{
	{"WHEAT_FLOUR", "Wheat flour, white", "CEREALS", 100,
		map[string]float64{"ENERC_KCAL": 364, "PROCNT": 10.3, "FAT": 1, "CHOCDF": 73.3, "FIBTG": 2.7, "SUGAR": 0.3, "NA": 2, "CA": 15, "FE": 1.2},
		map[string]float64{"cup": 125}},
	{"WHOLE_MILK", "Milk, whole, 3.5% fat", "DAIRY", 100,
		map[string]float64{"ENERC_KCAL": 64, "PROCNT": 3.3, "FAT": 3.5, "CHOCDF": 4.8, "SUGAR": 4.8, "NA": 44, "CA": 120},
		map[string]float64{"cup": 244}},
	{"EGG", "Egg, whole, raw", "EGGS", 88,
		map[string]float64{"ENERC_KCAL": 143, "PROCNT": 12.6, "FAT": 9.5, "CHOCDF": 0.7, "NA": 142, "CA": 56, "FE": 1.8},
		map[string]float64{"piece": 50}},
	{"APPLE", "Apple, raw, with skin", "FRUITS", 90,
		map[string]float64{"ENERC_KCAL": 52, "PROCNT": 0.3, "FAT": 0.2, "CHOCDF": 11.4, "FIBTG": 2.4, "SUGAR": 10.4, "CA": 6, "VITC": 4.6},
		map[string]float64{"piece": 180}},
	{"OLIVE_OIL", "Olive oil, extra virgin", "FATS_OILS", 100,
		map[string]float64{"ENERC_KCAL": 884, "FAT": 100, "FE": 0.6},
		map[string]float64{"tbsp": 13.5, "tsp": 4.5}},
	{"SUGAR_WHITE", "Sugar, white", "SUGARS", 100,
		map[string]float64{"ENERC_KCAL": 400, "CHOCDF": 100, "SUGAR": 100},
		map[string]float64{"tsp": 4.2, "tbsp": 12.5}},
	{"CHICKEN_BREAST", "Chicken breast, skinless, raw", "MEAT", 100,
		map[string]float64{"ENERC_KCAL": 120, "PROCNT": 22.5, "FAT": 2.6, "NA": 45, "CA": 5, "FE": 0.4},
		nil},
	{"RICE_WHITE", "Rice, white, long grain, raw", "CEREALS", 100,
		map[string]float64{"ENERC_KCAL": 360, "PROCNT": 6.6, "FAT": 0.6, "CHOCDF": 79.3, "FIBTG": 1.3, "NA": 5, "CA": 9, "FE": 0.8},
		map[string]float64{"cup": 185}},
}

// SeedReferenceData creates the reference units, nutrient categories,
// nutrients, food groups and sample raw materials. Rows whose code already
// exists are left untouched, so seeding is idempotent and never overwrites
// edited master data.
func (db *DB) SeedReferenceData(ctx context.Context) (SeedStats, error) {
	var stats SeedStats

	for i := range seedUnits {
		u := seedUnits[i]
		created, err := seedOnce(ctx, db, "units", u.Code, func() error { return db.CreateUnit(ctx, &u) })
		if err != nil {
			return stats, err
		}
		stats.Units += created
	}

	for i := range seedCategories {
		c := seedCategories[i]
		created, err := seedOnce(ctx, db, "nutrient_categories", c.Code, func() error { return db.CreateNutrientCategory(ctx, &c) })
		if err != nil {
			return stats, err
		}
		stats.Categories += created
	}

	for _, sn := range seedNutrients {
		n := sn.nutrient
		categoryID, ok, err := idByCode(ctx, db.conn, "nutrient_categories", sn.category)
		if err != nil {
			return stats, err
		}
		if !ok {
			// The category was renamed or removed by an editor; skip its nutrients.
			continue
		}
		n.CategoryID = categoryID
		created, err := seedOnce(ctx, db, "nutrients", n.Code, func() error { return db.CreateNutrient(ctx, &n) })
		if err != nil {
			return stats, err
		}
		stats.Nutrients += created
	}

	for i := range seedFoodGroups {
		fg := seedFoodGroups[i]
		created, err := seedOnce(ctx, db, "food_groups", fg.Code, func() error { return db.CreateFoodGroup(ctx, &fg) })
		if err != nil {
			return stats, err
		}
		stats.FoodGroups += created
	}

	for _, sm := range seedMaterials {
		rm, ok, err := db.buildSeedMaterial(ctx, sm)
		if err != nil {
			return stats, err
		}
		if !ok {
			continue
		}
		created, err := seedOnce(ctx, db, "raw_materials", rm.Code, func() error { return db.CreateRawMaterial(ctx, rm) })
		if err != nil {
			return stats, err
		}
		stats.RawMaterials += created
	}

	if stats.Total() > 0 {
		logging.Info().
			Int("units", stats.Units).
			Int("nutrient_categories", stats.Categories).
			Int("nutrients", stats.Nutrients).
			Int("food_groups", stats.FoodGroups).
			Int("raw_materials", stats.RawMaterials).
			Msg("Seeded reference data")
	}
	return stats, nil
}

// seedOnce runs create unless a row with code already exists in table.
func seedOnce(ctx context.Context, db *DB, table, code string, create func() error) (int, error) {
	_, found, err := idByCode(ctx, db.conn, table, code)
	if err != nil {
		return 0, err
	}
	if found {
		return 0, nil
	}
	if err := create(); err != nil {
		return 0, fmt.Errorf("seed %s %s: %w", table, code, err)
	}
	return 1, nil
}

// buildSeedMaterial resolves the codes of sm. Nutrients and units missing from
// the catalog are dropped; a missing food group skips the material.
func (db *DB) buildSeedMaterial(ctx context.Context, sm seedMaterial) (*models.RawMaterial, bool, error) {
	groupID, ok, err := idByCode(ctx, db.conn, "food_groups", sm.group)
	if err != nil || !ok {
		return nil, false, err
	}

	rm := &models.RawMaterial{
		Code:          sm.code,
		Name:          sm.name,
		FoodGroupID:   groupID,
		EdiblePortion: sm.edible,
	}
	for code, amount := range sm.nutrients {
		if _, ok, err := idByCode(ctx, db.conn, "nutrients", code); err != nil {
			return nil, false, err
		} else if ok {
			rm.Nutrients = append(rm.Nutrients, models.RawMaterialNutrient{NutrientCode: code, AmountPer100g: amount})
		}
	}
	for code, grams := range sm.units {
		if _, ok, err := idByCode(ctx, db.conn, "units", code); err != nil {
			return nil, false, err
		} else if ok {
			rm.UnitWeights = append(rm.UnitWeights, models.RawMaterialUnit{UnitCode: code, Grams: grams})
		}
	}
	return rm, true, nil
}
