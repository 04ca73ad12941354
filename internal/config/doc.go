// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

/*
Package config provides centralized configuration management for Nutrimaster.

Configuration is layered with Koanf v2: struct defaults, then an optional YAML
file (CONFIG_PATH or config.yaml), then environment variables. An optional .env
file (DOTENV_PATH or ./.env) is merged into the process environment before the
environment layer is read; variables already present in the environment win.

# Environment Variables

Database:
  - DUCKDB_PATH: Database file path (default: /data/nutrimaster.duckdb)
  - DUCKDB_MAX_MEMORY: DuckDB memory limit (default: 1GB)
  - SEED_REFERENCE_DATA: Seed reference master data on first start (default: true)

Server:
  - HTTP_HOST, HTTP_PORT (default: 0.0.0.0:8460), HTTP_TIMEOUT (default: 30s)
  - ENVIRONMENT: development or production

Security:
  - AUTH_MODE: session (default), jwt, basic, none
  - ADMIN_USERNAME / ADMIN_PASSWORD: required unless AUTH_MODE=none
  - EDITOR_USERNAME / EDITOR_PASSWORD, VIEWER_USERNAME / VIEWER_PASSWORD: optional accounts
  - JWT_SECRET: at least 32 characters, required for AUTH_MODE=jwt
  - SESSION_STORE: badger (default) or memory; SESSION_STORE_PATH
  - CORS_ORIGINS, TRUSTED_PROXIES: comma-separated lists

Food composition import:
  - IMPORT_BASE_URL: remote food database; import is disabled when empty
  - IMPORT_API_KEY, IMPORT_TIMEOUT, IMPORT_REQUESTS_PER_SECOND, IMPORT_BURST

Logging:
  - LOG_LEVEL: trace, debug, info, warn, error
  - LOG_FORMAT: json or console

# Usage

	cfg, err := config.Load()
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
*/
package config
