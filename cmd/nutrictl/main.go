// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

// Command nutrictl runs schema, seed and calculation tasks directly against a
// Nutrimaster DuckDB file without starting the HTTP server.
//
//	nutrictl migrate --db /data/nutrimaster.duckdb
//	nutrictl seed
//	nutrictl bmr --sex female --age 34 --height 168 --weight 62 --activity light
//	nutrictl recipe --servings 4 OLIVE_OIL:1:tbsp EGG:2:piece
//
// The database path and logging settings come from the same configuration
// sources as the server (DUCKDB_PATH, LOG_LEVEL, CONFIG_PATH, .env).
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/nutrimaster/internal/config"
	"github.com/tomtom215/nutrimaster/internal/database"
	"github.com/tomtom215/nutrimaster/internal/logging"
)

// cliActor is recorded as the actor of calculations run from the CLI.
const cliActor = "nutrictl"

// app carries the state shared by all subcommands.
type app struct {
	dbPath   string
	logLevel string
	jsonOut  bool
	timeout  time.Duration

	cfg *config.Config
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "nutrictl",
		Short: "Nutrimaster maintenance and calculation tool",
		Long: `nutrictl operates on a Nutrimaster DuckDB database file.

Available commands:
  migrate - create the schema and apply pending migrations
  seed    - load the reference units, nutrients and sample raw materials
  bmr     - print the BMR/TDEE calorie table
  recipe  - aggregate the nutrients of an ingredient list`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "DuckDB file (default: DUCKDB_PATH)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (default: LOG_LEVEL or warn)")
	root.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "Print results as JSON")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 2*time.Minute, "Operation timeout")

	root.AddCommand(newMigrateCmd(a))
	root.AddCommand(newSeedCmd(a))
	root.AddCommand(newBMRCmd(a))
	root.AddCommand(newRecipeCmd(a))
	return root
}

// init loads configuration and sets up console logging on stderr.
func (a *app) init() error {
	cfg, err := config.LoadDatabase()
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.Database.Path = a.dbPath
	}

	level := "warn"
	if os.Getenv("LOG_LEVEL") != "" {
		level = cfg.Logging.Level
	}
	if a.logLevel != "" {
		level = a.logLevel
	}
	logging.Init(logging.Config{
		Level:     level,
		Format:    "console",
		Timestamp: true,
		Output:    os.Stderr,
	})

	a.cfg = cfg
	return nil
}

// context returns a context bounded by the --timeout flag.
func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), a.timeout)
}

// openDB opens the configured database. Opening applies pending migrations.
func (a *app) openDB() (*database.DB, error) {
	logging.Debug().Str("db_path", a.cfg.Database.Path).Msg("Opening database")
	db, err := database.New(&a.cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", a.cfg.Database.Path, err)
	}
	return db, nil
}

func closeDB(db *database.DB) {
	if err := db.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing database")
	}
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
