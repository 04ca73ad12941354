// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tomtom215/nutrimaster/internal/logging"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the schema and apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer closeDB(db)

			history, err := db.MigrationHistory(ctx)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), history)
			}

			t := newTable("", "VERSION", "NAME", "APPLIED")
			for _, m := range history {
				t.addRow(strconv.Itoa(m.Version), m.Name, m.AppliedAt.UTC().Format("2006-01-02 15:04:05"))
			}
			return t.render(cmd.OutOrStdout())
		},
	}
}

func newSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the reference data set",
		Long: `Load the reference food groups, nutrient categories, nutrients, units and
sample raw materials. Rows whose code already exists are left untouched, so
the command can be run repeatedly.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer closeDB(db)

			stats, err := db.SeedReferenceData(ctx)
			if err != nil {
				return err
			}
			logging.Info().Int("raw_materials", stats.RawMaterials).Msg("Reference data seeded")

			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), stats)
			}
			t := newTable("", "TABLE", "INSERTED")
			t.addRow("food_groups", strconv.Itoa(stats.FoodGroups))
			t.addRow("nutrient_categories", strconv.Itoa(stats.Categories))
			t.addRow("nutrients", strconv.Itoa(stats.Nutrients))
			t.addRow("units", strconv.Itoa(stats.Units))
			t.addRow("raw_materials", strconv.Itoa(stats.RawMaterials))
			return t.render(cmd.OutOrStdout())
		},
	}
}
