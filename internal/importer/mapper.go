// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package importer

import (
	"math"
	"sort"
	"strings"

	"github.com/tomtom215/nutrimaster/internal/models"
)

// Mapping is the result of matching a remote profile to local nutrients.
type Mapping struct {
	Nutrients []models.RawMaterialNutrient
	Imported  []string
	Skipped   []string
}

// MapNutrients matches the codes of a remote profile to local nutrients,
// case-insensitively. Unknown codes and negative or non-finite amounts are
// reported as skipped. Output is sorted by code.
func MapNutrients(profile *FoodProfile, local []models.Nutrient) Mapping {
	byCode := make(map[string]*models.Nutrient, len(local))
	for i := range local {
		byCode[strings.ToUpper(local[i].Code)] = &local[i]
	}

	codes := make([]string, 0, len(profile.Nutrients))
	for code := range profile.Nutrients {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	m := Mapping{Imported: []string{}, Skipped: []string{}}
	seen := make(map[string]bool, len(codes))
	for _, code := range codes {
		amount := profile.Nutrients[code]
		n, ok := byCode[strings.ToUpper(strings.TrimSpace(code))]
		if !ok || seen[n.ID] || amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
			m.Skipped = append(m.Skipped, code)
			continue
		}
		seen[n.ID] = true
		m.Nutrients = append(m.Nutrients, models.RawMaterialNutrient{
			NutrientID:    n.ID,
			NutrientCode:  n.Code,
			AmountPer100g: amount,
		})
		m.Imported = append(m.Imported, n.Code)
	}
	return m
}
