// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/nutrimaster/internal/models"
)

const recipeColumns = `id, name, servings, created_at, updated_at`

var recipeList = &listSpec{
	table:      "recipes",
	columns:    recipeColumns,
	searchCols: []string{"name"},
	sorts: map[string]string{
		"name":       "name",
		"servings":   "servings",
		"created_at": "created_at",
		"updated_at": "updated_at",
	},
	defaultSort: "updated_at",
	defaultDesc: true,
}

func scanRecipe(row rowScanner) (models.Recipe, error) {
	var r models.Recipe
	err := row.Scan(&r.ID, &r.Name, &r.Servings, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

// CreateRecipe saves a named ingredient list. Every raw material must exist;
// units are resolved when the recipe is calculated.
func (db *DB) CreateRecipe(ctx context.Context, r *models.Recipe) (err error) {
	defer observe("insert", "recipes", time.Now(), &err)

	if r.Servings <= 0 {
		r.Servings = 1
	}

	return db.withTx(ctx, func(tx *sql.Tx) error {
		if err := checkIngredientMaterials(ctx, tx, r.Ingredients); err != nil {
			return err
		}

		r.ID = uuid.New().String()
		r.CreatedAt = now()
		r.UpdatedAt = r.CreatedAt

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO recipes (`+recipeColumns+`) VALUES (?, ?, ?, ?, ?)`,
			r.ID, r.Name, r.Servings, r.CreatedAt, r.UpdatedAt); err != nil {
			return fmt.Errorf("failed to create recipe: %w", err)
		}
		return insertIngredients(ctx, tx, r)
	})
}

// GetRecipe retrieves a recipe with its ingredients in their saved order.
func (db *DB) GetRecipe(ctx context.Context, id string) (r *models.Recipe, err error) {
	defer observe("select", "recipes", time.Now(), &err)

	v, err := scanRecipe(db.conn.QueryRowContext(ctx, `SELECT `+recipeColumns+` FROM recipes WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: recipe %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT raw_material_id, quantity, unit FROM recipe_ingredients
		WHERE recipe_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe ingredients: %w", err)
	}
	defer rows.Close()

	v.Ingredients = []models.Ingredient{}
	for rows.Next() {
		var ing models.Ingredient
		if err = rows.Scan(&ing.RawMaterialID, &ing.Quantity, &ing.Unit); err != nil {
			return nil, fmt.Errorf("failed to scan recipe ingredient: %w", err)
		}
		v.Ingredients = append(v.Ingredients, ing)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recipe ingredients: %w", err)
	}
	return &v, nil
}

// ListRecipes returns one page of recipes without their ingredients.
func (db *DB) ListRecipes(ctx context.Context, p models.ListParams) (*models.ListResult[models.Recipe], error) {
	return listRows(ctx, db, recipeList, p, scanRecipe)
}

// UpdateRecipe replaces a recipe's name, servings and ingredient list.
func (db *DB) UpdateRecipe(ctx context.Context, r *models.Recipe) (err error) {
	defer observe("update", "recipes", time.Now(), &err)

	if r.Servings <= 0 {
		r.Servings = 1
	}

	return db.withTx(ctx, func(tx *sql.Tx) error {
		if err := checkIngredientMaterials(ctx, tx, r.Ingredients); err != nil {
			return err
		}

		r.UpdatedAt = now()
		err := tx.QueryRowContext(ctx,
			`UPDATE recipes SET name = ?, servings = ?, updated_at = ? WHERE id = ? RETURNING created_at`,
			r.Name, r.Servings, r.UpdatedAt, r.ID).Scan(&r.CreatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: recipe %s", ErrNotFound, r.ID)
		}
		if err != nil {
			return fmt.Errorf("failed to update recipe: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = ?`, r.ID); err != nil {
			return fmt.Errorf("failed to clear recipe ingredients: %w", err)
		}
		return insertIngredients(ctx, tx, r)
	})
}

// DeleteRecipe deletes a recipe and its ingredients.
func (db *DB) DeleteRecipe(ctx context.Context, id string) (err error) {
	defer observe("delete", "recipes", time.Now(), &err)

	return db.withTx(ctx, func(tx *sql.Tx) error {
		if err := deleteByID(ctx, tx, "recipes", "recipe", id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete recipe ingredients: %w", err)
		}
		return nil
	})
}

func checkIngredientMaterials(ctx context.Context, q queryer, ingredients []models.Ingredient) error {
	checked := make(map[string]bool, len(ingredients))
	for i, ing := range ingredients {
		if checked[ing.RawMaterialID] {
			continue
		}
		ok, err := exists(ctx, q, "raw_materials", ing.RawMaterialID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: ingredients[%d]: raw material %s does not exist",
				ErrInvalidReference, i, ing.RawMaterialID)
		}
		checked[ing.RawMaterialID] = true
	}
	return nil
}

func insertIngredients(ctx context.Context, tx *sql.Tx, r *models.Recipe) error {
	for i, ing := range r.Ingredients {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO recipe_ingredients (recipe_id, position, raw_material_id, quantity, unit) VALUES (?, ?, ?, ?, ?)`,
			r.ID, i, ing.RawMaterialID, ing.Quantity, ing.Unit); err != nil {
			return fmt.Errorf("failed to insert recipe ingredient: %w", err)
		}
	}
	return nil
}
