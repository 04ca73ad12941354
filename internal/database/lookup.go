// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/nutrimaster/internal/models"
)

// GetRawMaterialsByIDs loads the raw materials named by ids together with
// their nutrient profiles and unit weights. Missing ids are absent from the
// returned map; duplicates in ids are allowed.
func (db *DB) GetRawMaterialsByIDs(ctx context.Context, ids []string) (out map[string]*models.RawMaterial, err error) {
	defer observe("lookup", "raw_materials", time.Now(), &err)

	out = make(map[string]*models.RawMaterial, len(ids))
	unique := dedupe(ids)
	if len(unique) == 0 {
		return out, nil
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	in, args := inClause(unique)
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+rawMaterialColumns+` FROM raw_materials WHERE id IN (`+in+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load raw materials: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		rm, err := scanRawMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan raw material: %w", err)
		}
		out[rm.ID] = &rm
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating raw materials: %w", err)
	}

	if err = db.loadRawMaterialChildren(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// loadRawMaterialChildren fills Nutrients and UnitWeights for every entry of byID.
func (db *DB) loadRawMaterialChildren(ctx context.Context, byID map[string]*models.RawMaterial) error {
	if len(byID) == 0 {
		return nil
	}
	ids := make([]string, 0, len(byID))
	for id, rm := range byID {
		ids = append(ids, id)
		rm.Nutrients = []models.RawMaterialNutrient{}
		rm.UnitWeights = []models.RawMaterialUnit{}
	}
	in, args := inClause(ids)

	rows, err := db.conn.QueryContext(ctx,
		`SELECT rmn.raw_material_id, rmn.nutrient_id, n.code, rmn.amount_per_100g
		FROM raw_material_nutrients rmn
		JOIN nutrients n ON n.id = rmn.nutrient_id
		WHERE rmn.raw_material_id IN (`+in+`)
		ORDER BY n.sort_order, n.code`, args...)
	if err != nil {
		return fmt.Errorf("failed to load nutrient profiles: %w", err)
	}
	for rows.Next() {
		var rmID string
		var n models.RawMaterialNutrient
		if err := rows.Scan(&rmID, &n.NutrientID, &n.NutrientCode, &n.AmountPer100g); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan nutrient value: %w", err)
		}
		byID[rmID].Nutrients = append(byID[rmID].Nutrients, n)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return fmt.Errorf("error iterating nutrient profiles: %w", err)
	}

	rows, err = db.conn.QueryContext(ctx,
		`SELECT rmu.raw_material_id, rmu.unit_id, u.code, rmu.grams
		FROM raw_material_units rmu
		JOIN units u ON u.id = rmu.unit_id
		WHERE rmu.raw_material_id IN (`+in+`)
		ORDER BY u.code`, args...)
	if err != nil {
		return fmt.Errorf("failed to load unit weights: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var rmID string
		var u models.RawMaterialUnit
		if err := rows.Scan(&rmID, &u.UnitID, &u.UnitCode, &u.Grams); err != nil {
			return fmt.Errorf("failed to scan unit weight: %w", err)
		}
		byID[rmID].UnitWeights = append(byID[rmID].UnitWeights, u)
	}
	return rows.Err()
}

// LoadCatalog loads all units, nutrients and nutrient categories.
func (db *DB) LoadCatalog(ctx context.Context) (*models.Catalog, error) {
	units, err := db.AllUnits(ctx)
	if err != nil {
		return nil, err
	}
	nutrients, err := db.AllNutrients(ctx)
	if err != nil {
		return nil, err
	}
	cats, err := db.AllNutrientCategories(ctx)
	if err != nil {
		return nil, err
	}
	return &models.Catalog{Units: units, Nutrients: nutrients, Categories: cats}, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// inClause returns "?, ?, ?" and the matching arguments.
func inClause(values []string) (string, []any) {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", "), args
}
