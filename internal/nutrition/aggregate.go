// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package nutrition

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tomtom215/nutrimaster/internal/models"
)

// EnergyNutrientCode is the nutrient whose total is reported as declared energy.
const EnergyNutrientCode = "ENERC_KCAL"

// massFactor converts a nutrient unit to grams. Units without a mass (kcal,
// kJ) cannot carry an energy factor.
var massFactor = map[string]float64{
	"g":  1,
	"mg": 0.001,
	"ug": 0.000001,
}

// catalogIndex is a lookup view over a models.Catalog.
type catalogIndex struct {
	unitsByID   map[string]*models.Unit
	unitsByCode map[string]*models.Unit // lower-cased code
	nutrients   map[string]*models.Nutrient
	categories  map[string]*models.NutrientCategory
}

func indexCatalog(cat *models.Catalog) *catalogIndex {
	idx := &catalogIndex{
		unitsByID:   make(map[string]*models.Unit, len(cat.Units)),
		unitsByCode: make(map[string]*models.Unit, len(cat.Units)),
		nutrients:   make(map[string]*models.Nutrient, len(cat.Nutrients)),
		categories:  make(map[string]*models.NutrientCategory, len(cat.Categories)),
	}
	for i := range cat.Units {
		u := &cat.Units[i]
		idx.unitsByID[u.ID] = u
		idx.unitsByCode[strings.ToLower(u.Code)] = u
	}
	for i := range cat.Nutrients {
		idx.nutrients[cat.Nutrients[i].ID] = &cat.Nutrients[i]
	}
	for i := range cat.Categories {
		idx.categories[cat.Categories[i].ID] = &cat.Categories[i]
	}
	return idx
}

// unit resolves an ingredient unit given as an id or a code. Codes match
// case-insensitively.
func (idx *catalogIndex) unit(ref string) (*models.Unit, bool) {
	if u, ok := idx.unitsByID[ref]; ok {
		return u, true
	}
	u, ok := idx.unitsByCode[strings.ToLower(strings.TrimSpace(ref))]
	return u, ok
}

// gramsPerUnit returns the mass of one unit of rm, preferring the material's
// own unit weight over the unit's universal mass.
func gramsPerUnit(rm *models.RawMaterial, u *models.Unit) (float64, bool) {
	for _, w := range rm.UnitWeights {
		if w.UnitID == u.ID {
			return w.Grams, true
		}
	}
	if u.GramsPerUnit != nil {
		return *u.GramsPerUnit, true
	}
	return 0, false
}

// nutrientSum accumulates one nutrient across ingredients.
type nutrientSum struct {
	nutrient     *models.Nutrient
	amount       float64
	contributors int
}

// Aggregate computes the nutrient summary for req. materials maps raw
// material ids to materials with their profiles and unit weights loaded;
// catalog supplies units, nutrients and categories.
//
// Amounts are rounded to two decimals and energy values and percentages to
// one decimal. Nutrients no ingredient carries are omitted. A nutrient is
// complete when every ingredient carries a value for it.
func Aggregate(req models.RecipeRequest, materials map[string]*models.RawMaterial, catalog *models.Catalog) (*models.RecipeResult, error) {
	if len(req.Ingredients) == 0 {
		return nil, ErrNoIngredients
	}
	if len(req.Ingredients) > models.MaxIngredients {
		return nil, fmt.Errorf("%w: %d given, at most %d allowed", ErrTooManyIngredients, len(req.Ingredients), models.MaxIngredients)
	}
	servings := req.Servings
	if servings <= 0 {
		servings = 1
	}

	idx := indexCatalog(catalog)
	sums := make(map[string]*nutrientSum)
	result := &models.RecipeResult{
		Servings:    servings,
		Ingredients: make([]models.IngredientBreakdown, 0, len(req.Ingredients)),
	}

	var totalGrams, edibleGrams float64
	for i, ing := range req.Ingredients {
		if ing.Quantity <= 0 {
			return nil, &IngredientError{Index: i, Field: "quantity", Value: fmt.Sprint(ing.Quantity), Err: ErrInvalidQuantity}
		}
		rm, ok := materials[ing.RawMaterialID]
		if !ok {
			return nil, &IngredientError{Index: i, Field: "raw_material_id", Value: ing.RawMaterialID, Err: ErrUnknownRawMaterial}
		}
		u, ok := idx.unit(ing.Unit)
		if !ok {
			return nil, &IngredientError{Index: i, Field: "unit", Value: ing.Unit, Err: ErrUnknownUnit}
		}
		perUnit, ok := gramsPerUnit(rm, u)
		if !ok {
			return nil, &IngredientError{Index: i, Field: "unit", Value: u.Code + " for " + rm.Code, Err: ErrUnitNotConvertible}
		}

		grams := ing.Quantity * perUnit
		edible := grams * rm.EdiblePortion / 100
		totalGrams += grams
		edibleGrams += edible

		var ingredientKcal float64
		for _, rn := range rm.Nutrients {
			n, ok := idx.nutrients[rn.NutrientID]
			if !ok {
				return nil, fmt.Errorf("%w: nutrient %s of raw material %s", ErrStaleCatalog, rn.NutrientID, rm.Code)
			}
			amount := rn.AmountPer100g * edible / 100

			s := sums[n.ID]
			if s == nil {
				s = &nutrientSum{nutrient: n}
				sums[n.ID] = s
			}
			s.amount += amount
			s.contributors++

			ingredientKcal += energyOf(n, amount)
		}

		result.Ingredients = append(result.Ingredients, models.IngredientBreakdown{
			Index:         i,
			RawMaterialID: rm.ID,
			Code:          rm.Code,
			Name:          rm.Name,
			Quantity:      ing.Quantity,
			Unit:          u.Code,
			Grams:         round2(grams),
			EdibleGrams:   round2(edible),
			EnergyKcal:    round1(ingredientKcal),
		})
	}

	result.TotalWeightG = round2(totalGrams)
	result.EdibleWeightG = round2(edibleGrams)
	result.Groups = groupNutrients(sums, idx, len(req.Ingredients), servings)
	result.Energy = energyDistribution(sums, servings)
	return result, nil
}

// energyOf returns the kcal contributed by amount of n, or 0 for nutrients
// without an energy factor or a mass unit.
func energyOf(n *models.Nutrient, amount float64) float64 {
	factor, ok := n.EnergyFactorValue()
	if !ok {
		return 0
	}
	toGrams, ok := massFactor[n.UnitSymbol]
	if !ok {
		return 0
	}
	return amount * toGrams * factor
}

// sortedSums orders nutrient sums by sort order then code.
func sortedSums(sums []*nutrientSum) {
	sort.Slice(sums, func(i, j int) bool {
		a, b := sums[i].nutrient, sums[j].nutrient
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		return a.Code < b.Code
	})
}

func groupNutrients(sums map[string]*nutrientSum, idx *catalogIndex, ingredients, servings int) []models.NutrientGroup {
	byCategory := make(map[string][]*nutrientSum)
	for _, s := range sums {
		byCategory[s.nutrient.CategoryID] = append(byCategory[s.nutrient.CategoryID], s)
	}

	categoryIDs := make([]string, 0, len(byCategory))
	for id := range byCategory {
		categoryIDs = append(categoryIDs, id)
	}
	sort.Slice(categoryIDs, func(i, j int) bool {
		a, b := idx.categories[categoryIDs[i]], idx.categories[categoryIDs[j]]
		// Nutrients whose category is unknown sort last.
		switch {
		case a == nil && b == nil:
			return categoryIDs[i] < categoryIDs[j]
		case a == nil:
			return false
		case b == nil:
			return true
		case a.SortOrder != b.SortOrder:
			return a.SortOrder < b.SortOrder
		default:
			return a.Code < b.Code
		}
	})

	groups := make([]models.NutrientGroup, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		members := byCategory[id]
		sortedSums(members)

		g := models.NutrientGroup{CategoryID: id, Nutrients: make([]models.NutrientTotal, 0, len(members))}
		if c := idx.categories[id]; c != nil {
			g.CategoryCode = c.Code
			g.CategoryName = c.Name
		}
		for _, s := range members {
			g.Nutrients = append(g.Nutrients, models.NutrientTotal{
				NutrientID:   s.nutrient.ID,
				Code:         s.nutrient.Code,
				Name:         s.nutrient.Name,
				Unit:         s.nutrient.UnitSymbol,
				Amount:       round2(s.amount),
				PerServing:   round2(s.amount / float64(servings)),
				Contributors: s.contributors,
				Complete:     s.contributors >= ingredients,
			})
		}
		groups = append(groups, g)
	}
	return groups
}

func energyDistribution(sums map[string]*nutrientSum, servings int) models.EnergyDistribution {
	var yielding []*nutrientSum
	var totalKcal float64
	for _, s := range sums {
		_, hasFactor := s.nutrient.EnergyFactorValue()
		_, hasMass := massFactor[s.nutrient.UnitSymbol]
		if hasFactor && hasMass {
			yielding = append(yielding, s)
			totalKcal += energyOf(s.nutrient, s.amount)
		}
	}
	sortedSums(yielding)

	dist := models.EnergyDistribution{
		TotalKcal:      round1(totalKcal),
		PerServingKcal: round1(totalKcal / float64(servings)),
		Shares:         make([]models.EnergyShare, 0, len(yielding)),
	}
	for _, s := range yielding {
		kcal := energyOf(s.nutrient, s.amount)
		var pct float64
		if totalKcal > 0 {
			pct = round1(kcal / totalKcal * 100)
		}
		dist.Shares = append(dist.Shares, models.EnergyShare{
			NutrientID: s.nutrient.ID,
			Code:       s.nutrient.Code,
			Name:       s.nutrient.Name,
			Grams:      round2(s.amount * massFactor[s.nutrient.UnitSymbol]),
			Kcal:       round1(kcal),
			Percent:    pct,
		})
	}

	for _, s := range sums {
		if s.nutrient.Code == EnergyNutrientCode {
			declared := round1(s.amount)
			dist.DeclaredEnergyKcal = &declared
			break
		}
	}
	return dist
}
