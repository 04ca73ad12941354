// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomtom215/nutrimaster/internal/database"
	"github.com/tomtom215/nutrimaster/internal/models"
	"github.com/tomtom215/nutrimaster/internal/nutrition"
	"github.com/tomtom215/nutrimaster/internal/validation"
)

func newBMRCmd(a *app) *cobra.Command {
	var req models.BMRRequest

	cmd := &cobra.Command{
		Use:   "bmr",
		Short: "Print the BMR/TDEE calorie table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if verr := validation.ValidateStruct(&req); verr != nil {
				return verr
			}
			res := nutrition.CalculateBMR(req)
			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), res)
			}
			return writeBMRTable(cmd.OutOrStdout(), res)
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Sex, "sex", "", "male or female")
	f.IntVar(&req.Age, "age", 0, "Age in years")
	f.Float64Var(&req.HeightCm, "height", 0, "Height in centimeters")
	f.Float64Var(&req.WeightKg, "weight", 0, "Weight in kilograms")
	f.StringVar(&req.ActivityLevel, "activity", "", "sedentary, light, moderate, active or very_active")
	f.Float64Var(&req.ActivityFactor, "factor", 0, "Custom activity factor (1.0-2.5)")
	f.StringVar(&req.Formula, "formula", "", "mifflin_st_jeor (default) or harris_benedict")
	for _, name := range []string{"sex", "age", "height", "weight"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func writeBMRTable(w io.Writer, res *models.BMRResult) error {
	fmt.Fprintf(w, "Formula:  %s\n", res.Formula)
	fmt.Fprintf(w, "BMR:      %.0f kcal/day\n", res.BMR)
	fmt.Fprintf(w, "TDEE:     %.0f kcal/day (factor %.3g)\n", res.TDEE, res.ActivityFactor)
	fmt.Fprintf(w, "BMI:      %.1f (%s)\n", res.BMI, res.BMICategory)
	fmt.Fprintf(w, "Minimum:  %.0f kcal/day\n\n", res.MinimumKcal)

	activity := newTable("", "ACTIVITY", "FACTOR", "KCAL/DAY", "")
	for _, t := range res.ActivityTable {
		mark := ""
		if t.Selected {
			mark = "*"
		}
		activity.addRow(t.Level, fmt.Sprintf("%.3g", t.Factor), fmt.Sprintf("%.0f", t.KcalPerDay), mark)
	}
	if err := activity.render(w); err != nil {
		return err
	}

	goals := newTable("", "GOAL", "DELTA", "KCAL/DAY", "KG/WEEK", "")
	for _, g := range res.GoalTable {
		note := ""
		if g.BelowMinimum {
			note = "below minimum"
		}
		goals.addRow(g.Tier, fmt.Sprintf("%+.0f", g.DeltaKcal), fmt.Sprintf("%.0f", g.KcalPerDay), fmt.Sprintf("%+.2f", g.WeeklyChangeKg), note)
	}
	return goals.render(w)
}

func newRecipeCmd(a *app) *cobra.Command {
	var (
		servings int
		history  bool
	)

	cmd := &cobra.Command{
		Use:   "recipe ID_OR_CODE:QUANTITY:UNIT...",
		Short: "Aggregate the nutrients of an ingredient list",
		Long: `Aggregate the nutrients of an ingredient list.

Each argument names a raw material by id or code, a quantity and a unit
symbol or name, separated by colons:

  nutrictl recipe --servings 2 OLIVE_OIL:1:tbsp EGG:2:piece SUGAR_WHITE:5:g`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ingredients, err := parseIngredients(args)
			if err != nil {
				return err
			}

			ctx, cancel := a.context(cmd)
			defer cancel()

			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer closeDB(db)

			if err := resolveCodes(ctx, db, ingredients); err != nil {
				return err
			}

			svc := nutrition.NewService(db, nutrition.WithHistory(history))
			res, err := svc.CalculateRecipe(ctx, models.RecipeRequest{Ingredients: ingredients, Servings: servings}, cliActor)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), res)
			}
			return writeRecipeTable(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().IntVar(&servings, "servings", 1, "Number of servings")
	cmd.Flags().BoolVar(&history, "history", false, "Record the calculation in the history table")
	return cmd
}

// parseIngredients parses ID:QUANTITY:UNIT arguments.
func parseIngredients(args []string) ([]models.Ingredient, error) {
	out := make([]models.Ingredient, 0, len(args))
	for i, arg := range args {
		parts := strings.Split(arg, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("ingredient %d %q: want ID:QUANTITY:UNIT", i+1, arg)
		}
		ref, unit := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[2])
		if ref == "" || unit == "" {
			return nil, fmt.Errorf("ingredient %d %q: raw material and unit are required", i+1, arg)
		}
		qty, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("ingredient %d %q: invalid quantity: %w", i+1, arg, err)
		}
		out = append(out, models.Ingredient{RawMaterialID: ref, Quantity: qty, Unit: unit})
	}
	return out, nil
}

// resolveCodes replaces raw material codes by ids. References that are
// neither an id nor a code are left for the aggregation to report.
func resolveCodes(ctx context.Context, db *database.DB, ingredients []models.Ingredient) error {
	for i := range ingredients {
		ref := ingredients[i].RawMaterialID
		if _, err := db.GetRawMaterial(ctx, ref); err == nil {
			continue
		} else if !errors.Is(err, database.ErrNotFound) {
			return err
		}
		rm, err := db.GetRawMaterialByCode(ctx, strings.ToUpper(ref))
		if errors.Is(err, database.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		ingredients[i].RawMaterialID = rm.ID
	}
	return nil
}

func writeRecipeTable(w io.Writer, res *models.RecipeResult) error {
	fmt.Fprintf(w, "Servings:      %d\n", res.Servings)
	fmt.Fprintf(w, "Total weight:  %.1f g (edible %.1f g)\n", res.TotalWeightG, res.EdibleWeightG)
	fmt.Fprintf(w, "Energy:        %.0f kcal (%.0f kcal per serving)\n\n", res.Energy.TotalKcal, res.Energy.PerServingKcal)

	ingredients := newTable("", "INGREDIENT", "QUANTITY", "GRAMS", "KCAL")
	for _, ing := range res.Ingredients {
		ingredients.addRow(ing.Name, fmt.Sprintf("%g %s", ing.Quantity, ing.Unit), fmt.Sprintf("%.1f", ing.Grams), fmt.Sprintf("%.0f", ing.EnergyKcal))
	}
	tables := []*table{ingredients}

	shares := newTable("", "ENERGY SOURCE", "GRAMS", "KCAL", "SHARE")
	for _, sh := range res.Energy.Shares {
		shares.addRow(sh.Name, fmt.Sprintf("%.1f", sh.Grams), fmt.Sprintf("%.0f", sh.Kcal), fmt.Sprintf("%.1f%%", sh.Percent))
	}
	tables = append(tables, shares)

	for _, g := range res.Groups {
		group := newTable(g.CategoryName, "NUTRIENT", "TOTAL", "PER SERVING")
		for _, n := range g.Nutrients {
			name := n.Name
			if !n.Complete {
				name += " (partial)"
			}
			group.addRow(name, fmt.Sprintf("%g %s", n.Amount, n.Unit), fmt.Sprintf("%g %s", n.PerServing, n.Unit))
		}
		tables = append(tables, group)
	}

	for _, t := range tables {
		if err := t.render(w); err != nil {
			return err
		}
	}
	return nil
}
