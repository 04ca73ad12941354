// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

/*
Package models defines the data structures shared by storage, computation and
transport in Nutrimaster.

Model Categories:

1. Master Data:
  - FoodGroup, NutrientCategory, Nutrient, Unit
  - RawMaterial with its per-100 g nutrient profile (RawMaterialNutrient) and
    material-specific unit weights (RawMaterialUnit)

2. Calculations:
  - BMRRequest / BMRResult: basal metabolic rate, TDEE and calorie tables
  - RecipeRequest / RecipeResult: nutrient aggregation over weighted ingredients
  - Recipe: a saved ingredient list
  - CalculationLog: persisted calculation history

3. API Envelope:
  - APIResponse, APIError, Metadata, PaginationMeta
  - ListParams and ListResult for server-side search, sort and pagination

4. Events:
  - ChangeEvent: published on every master-data write

All JSON fields use snake_case. Request types carry go-playground/validator
struct tags; the custom "code" and "sex" validators are registered by the
validation package.
*/
package models
