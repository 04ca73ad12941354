// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package api

import (
	"strings"

	"github.com/tomtom215/nutrimaster/internal/models"
)

func (h *Handler) foodGroups() *resource[models.FoodGroup] {
	return &resource[models.FoodGroup]{
		h:        h,
		entity:   models.EntityFoodGroup,
		list:     h.db.ListFoodGroups,
		get:      h.db.GetFoodGroup,
		create:   h.db.CreateFoodGroup,
		update:   h.db.UpdateFoodGroup,
		remove:   h.db.DeleteFoodGroup,
		identity: func(v *models.FoodGroup) (string, string) { return v.ID, v.Code },
		setID:    func(v *models.FoodGroup, id string) { v.ID = id },
		prepare: func(v *models.FoodGroup) {
			v.Code = strings.TrimSpace(v.Code)
			v.Name = strings.TrimSpace(v.Name)
		},
	}
}

func (h *Handler) nutrientCategories() *resource[models.NutrientCategory] {
	return &resource[models.NutrientCategory]{
		h:        h,
		entity:   models.EntityNutrientCategory,
		list:     h.db.ListNutrientCategories,
		get:      h.db.GetNutrientCategory,
		create:   h.db.CreateNutrientCategory,
		update:   h.db.UpdateNutrientCategory,
		remove:   h.db.DeleteNutrientCategory,
		identity: func(v *models.NutrientCategory) (string, string) { return v.ID, v.Code },
		setID:    func(v *models.NutrientCategory, id string) { v.ID = id },
		prepare: func(v *models.NutrientCategory) {
			v.Code = strings.TrimSpace(v.Code)
			v.Name = strings.TrimSpace(v.Name)
		},
		catalog: true,
	}
}

func (h *Handler) nutrients() *resource[models.Nutrient] {
	return &resource[models.Nutrient]{
		h:        h,
		entity:   models.EntityNutrient,
		filters:  []string{"category_id", "unit_symbol"},
		list:     h.db.ListNutrients,
		get:      h.db.GetNutrient,
		create:   h.db.CreateNutrient,
		update:   h.db.UpdateNutrient,
		remove:   h.db.DeleteNutrient,
		identity: func(v *models.Nutrient) (string, string) { return v.ID, v.Code },
		setID:    func(v *models.Nutrient, id string) { v.ID = id },
		prepare: func(v *models.Nutrient) {
			v.Code = strings.TrimSpace(v.Code)
			v.Name = strings.TrimSpace(v.Name)
		},
		catalog: true,
	}
}

func (h *Handler) units() *resource[models.Unit] {
	return &resource[models.Unit]{
		h:        h,
		entity:   models.EntityUnit,
		list:     h.db.ListUnits,
		get:      h.db.GetUnit,
		create:   h.db.CreateUnit,
		update:   h.db.UpdateUnit,
		remove:   h.db.DeleteUnit,
		identity: func(v *models.Unit) (string, string) { return v.ID, v.Code },
		setID:    func(v *models.Unit, id string) { v.ID = id },
		prepare: func(v *models.Unit) {
			v.Code = strings.TrimSpace(v.Code)
			v.Name = strings.TrimSpace(v.Name)
		},
		catalog: true,
	}
}

func (h *Handler) rawMaterials() *resource[models.RawMaterial] {
	return &resource[models.RawMaterial]{
		h:        h,
		entity:   models.EntityRawMaterial,
		filters:  []string{"food_group_id"},
		list:     h.db.ListRawMaterials,
		get:      h.db.GetRawMaterial,
		create:   h.db.CreateRawMaterial,
		update:   h.db.UpdateRawMaterial,
		remove:   h.db.DeleteRawMaterial,
		identity: func(v *models.RawMaterial) (string, string) { return v.ID, v.Code },
		setID:    func(v *models.RawMaterial, id string) { v.ID = id },
		prepare: func(v *models.RawMaterial) {
			v.Code = strings.TrimSpace(v.Code)
			v.Name = strings.TrimSpace(v.Name)
			if v.EdiblePortion == 0 {
				v.EdiblePortion = models.DefaultEdiblePortion
			}
		},
	}
}

func (h *Handler) recipes() *resource[models.Recipe] {
	return &resource[models.Recipe]{
		h:        h,
		entity:   models.EntityRecipe,
		list:     h.db.ListRecipes,
		get:      h.db.GetRecipe,
		create:   h.db.CreateRecipe,
		update:   h.db.UpdateRecipe,
		remove:   h.db.DeleteRecipe,
		identity: func(v *models.Recipe) (string, string) { return v.ID, "" },
		setID:    func(v *models.Recipe, id string) { v.ID = id },
		prepare: func(v *models.Recipe) {
			v.Name = strings.TrimSpace(v.Name)
			if v.Servings == 0 {
				v.Servings = 1
			}
		},
	}
}
