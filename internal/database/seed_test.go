// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package database

import (
	"context"
	"testing"

	"github.com/tomtom215/nutrimaster/internal/models"
)

func TestSeedReferenceData(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	stats, err := db.SeedReferenceData(ctx)
	if err != nil {
		t.Fatalf("SeedReferenceData() error = %v", err)
	}
	want := SeedStats{
		FoodGroups:   len(seedFoodGroups),
		Categories:   len(seedCategories),
		Nutrients:    len(seedNutrients),
		Units:        len(seedUnits),
		RawMaterials: len(seedMaterials),
	}
	if stats != want {
		t.Errorf("first seed = %+v, want %+v", stats, want)
	}

	again, err := db.SeedReferenceData(ctx)
	if err != nil {
		t.Fatalf("second SeedReferenceData() error = %v", err)
	}
	if again.Total() != 0 {
		t.Errorf("second seed created %d rows, want 0", again.Total())
	}

	egg, err := db.GetRawMaterialByCode(ctx, "EGG")
	if err != nil {
		t.Fatalf("GetRawMaterialByCode(EGG) error = %v", err)
	}
	if egg.EdiblePortion != 88 {
		t.Errorf("EGG edible portion = %v, want 88", egg.EdiblePortion)
	}
	if len(egg.UnitWeights) != 1 || egg.UnitWeights[0].UnitCode != "piece" || egg.UnitWeights[0].Grams != 50 {
		t.Errorf("EGG unit weights = %+v", egg.UnitWeights)
	}

	cat, err := db.LoadCatalog(ctx)
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	if len(cat.Units) != len(seedUnits) || len(cat.Nutrients) != len(seedNutrients) || len(cat.Categories) != len(seedCategories) {
		t.Errorf("catalog sizes = %d/%d/%d", len(cat.Units), len(cat.Nutrients), len(cat.Categories))
	}
	if cat.Categories[0].Code != "ENERGY" {
		t.Errorf("first category = %s, want ENERGY", cat.Categories[0].Code)
	}
	for _, u := range cat.Units {
		if u.Code == "piece" && u.GramsPerUnit != nil {
			t.Error("piece should have no universal mass")
		}
	}
}

func TestSeedKeepsEditedRows(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	g := &models.Unit{Code: "g", Name: "Gramm", GramsPerUnit: models.Float64Ptr(1)}
	if err := db.CreateUnit(ctx, g); err != nil {
		t.Fatalf("CreateUnit() error = %v", err)
	}
	stats, err := db.SeedReferenceData(ctx)
	if err != nil {
		t.Fatalf("SeedReferenceData() error = %v", err)
	}
	if stats.Units != len(seedUnits)-1 {
		t.Errorf("seeded units = %d, want %d", stats.Units, len(seedUnits)-1)
	}
	got, _ := db.GetUnit(ctx, g.ID)
	if got.Name != "Gramm" {
		t.Errorf("existing unit overwritten: %q", got.Name)
	}
}
