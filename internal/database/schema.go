// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

/*
schema.go - Database Schema Management

Tables:
  - food_groups, nutrient_categories, nutrients, units: reference master data
  - raw_materials: foods with edible portion and food group
  - raw_material_nutrients: per-100 g nutrient profile of each raw material
  - raw_material_units: material-specific unit weights (1 egg = 50 g)
  - recipes, recipe_ingredients: saved ingredient lists
  - calculation_log: history of BMR and recipe calculations

Referential integrity is enforced by the data access methods rather than by
FOREIGN KEY clauses: DuckDB rejects updates to rows referenced by a foreign key,
which would block ordinary master-data edits.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

var tableCreationQueries = []string{
	`CREATE TABLE IF NOT EXISTS food_groups (
		id TEXT PRIMARY KEY,
		code TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS nutrient_categories (
		id TEXT PRIMARY KEY,
		code TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		sort_order INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS nutrients (
		id TEXT PRIMARY KEY,
		code TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		category_id TEXT NOT NULL,
		unit_symbol TEXT NOT NULL,
		energy_factor DOUBLE,
		sort_order INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS units (
		id TEXT PRIMARY KEY,
		code TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		grams_per_unit DOUBLE,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS raw_materials (
		id TEXT PRIMARY KEY,
		code TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		food_group_id TEXT NOT NULL,
		edible_portion DOUBLE NOT NULL DEFAULT 100,
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS raw_material_nutrients (
		raw_material_id TEXT NOT NULL,
		nutrient_id TEXT NOT NULL,
		amount_per_100g DOUBLE NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS raw_material_units (
		raw_material_id TEXT NOT NULL,
		unit_id TEXT NOT NULL,
		grams DOUBLE NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS recipes (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		servings INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS recipe_ingredients (
		recipe_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		raw_material_id TEXT NOT NULL,
		quantity DOUBLE NOT NULL,
		unit TEXT NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS calculation_log (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		request_json TEXT NOT NULL,
		result_json TEXT NOT NULL,
		requested_by TEXT NOT NULL DEFAULT '',
		duration_ms DOUBLE NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL
	);`,
}

// createIndexes creates database indexes for query optimization.
// Skipped when cfg.SkipIndexes is true (fast test setup).
func (db *DB) createIndexes() error {
	if db.cfg != nil && db.cfg.SkipIndexes {
		return nil
	}
	return db.CreateIndexes()
}

// CreateIndexes creates all database indexes.
func (db *DB) CreateIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range indexQueries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute index query: %s: %w", query, err)
		}
	}
	return nil
}

var indexQueries = []string{
	`CREATE INDEX IF NOT EXISTS idx_nutrients_category ON nutrients(category_id);`,
	`CREATE INDEX IF NOT EXISTS idx_raw_materials_food_group ON raw_materials(food_group_id);`,
	`CREATE INDEX IF NOT EXISTS idx_rmn_raw_material ON raw_material_nutrients(raw_material_id);`,
	`CREATE INDEX IF NOT EXISTS idx_rmn_nutrient ON raw_material_nutrients(nutrient_id);`,
	`CREATE INDEX IF NOT EXISTS idx_rmu_raw_material ON raw_material_units(raw_material_id);`,
	`CREATE INDEX IF NOT EXISTS idx_rmu_unit ON raw_material_units(unit_id);`,
	`CREATE INDEX IF NOT EXISTS idx_recipe_ingredients_recipe ON recipe_ingredients(recipe_id);`,
	`CREATE INDEX IF NOT EXISTS idx_recipe_ingredients_material ON recipe_ingredients(raw_material_id);`,
	`CREATE INDEX IF NOT EXISTS idx_calculation_log_kind_created ON calculation_log(kind, created_at);`,
}
