// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package main

import (
	"github.com/tomtom215/nutrimaster/internal/api"
	"github.com/tomtom215/nutrimaster/internal/config"
	"github.com/tomtom215/nutrimaster/internal/database"
	"github.com/tomtom215/nutrimaster/internal/importer"
	"github.com/tomtom215/nutrimaster/internal/logging"
)

// initImporter wires the food composition client into the handler. The
// import endpoint answers 503 when no base URL is configured.
func initImporter(cfg *config.Config, db *database.DB, handler *api.Handler) {
	if !cfg.Import.Enabled() {
		logging.Info().Msg("Food composition import disabled (IMPORT_BASE_URL not set)")
		return
	}

	client, err := importer.NewClient(&cfg.Import)
	if err != nil {
		logging.Warn().Err(err).Msg("Failed to create food composition client, import disabled")
		return
	}
	handler.SetImporter(importer.NewService(client, db))

	logging.Info().
		Str("base_url", cfg.Import.BaseURL).
		Float64("requests_per_second", cfg.Import.RequestsPerSecond).
		Int("burst", cfg.Import.Burst).
		Msg("Food composition import enabled")
}
