// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

/*
Package nutrition implements the two calculations behind the dashboard's
calculator screens.

# Energy expenditure

CalculateBMR maps age, sex, height, weight and an activity factor to basal
metabolic rate (Mifflin-St Jeor by default, or the revised Harris-Benedict
equation), total daily energy expenditure, a maintenance table across the
named activity levels and a goal table of calorie targets relative to TDEE:

	res := nutrition.CalculateBMR(models.BMRRequest{
	    Age: 30, Sex: "male", HeightCm: 180, WeightKg: 80,
	    ActivityLevel: nutrition.ActivityModerate,
	})
	// res.BMR == 1780, res.TDEE == 2759

# Nutrient aggregation

Aggregate normalizes every ingredient to grams, applies the raw material's
edible portion, sums nutrient amounts per 100 g edible portion and groups the
totals by nutrient category. Nutrients with an energy factor (kcal per gram)
contribute to the energy distribution, whose percentages are shares of the
summed energy of those nutrients.

Unit resolution order for an ingredient:
 1. the raw material's own unit weight (1 piece of egg = 50 g)
 2. the unit's universal mass (1 tbsp = 15 g)
 3. otherwise the ingredient is rejected with an *IngredientError

# Service

Service wraps both calculations with request validation, the cached catalog,
calculation history and metrics. It is what the HTTP API and nutrictl call.
*/
package nutrition
