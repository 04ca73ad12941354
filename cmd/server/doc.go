// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

/*
Package main is the entry point for the Nutrimaster server.

Nutrimaster serves the nutrition master data used by a dietetics dashboard
(food groups, categories, nutrients, units and raw materials) together with
energy expenditure tables and recipe nutrient aggregation.

# Application Architecture

The server runs under a Suture v4 supervisor tree:

	RootSupervisor ("nutrimaster")
	├── DataSupervisor ("data-layer")
	│   ├── audit-retention (periodic)
	│   └── session-cleanup (periodic, session mode)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── event-bus (Watermill GoChannel)
	│   └── websocket-hub
	└── APISupervisor ("api-layer")
	    └── http-server

Component initialization order:

 1. Configuration: Koanf v2 (defaults, YAML file, .env, environment)
 2. Logging: zerolog with JSON or console output
 3. Database: DuckDB, schema migration and optional reference data seed
 4. Calculation service with the catalog cache
 5. Authentication (session, jwt, basic or none) and Casbin authorization
 6. Event bus, WebSocket hub and audit trail
 7. Optional food composition importer
 8. Chi router and HTTP server

# Configuration

	HTTP_PORT=8460               # HTTP server port
	DUCKDB_PATH=/data/nutrimaster.duckdb
	SEED_REFERENCE_DATA=true     # load units, nutrients and sample materials
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console

	AUTH_MODE=session            # session, jwt, basic or none
	JWT_SECRET=<32+ chars>
	ADMIN_USERNAME=admin
	ADMIN_PASSWORD=<password>
	EDITOR_USERNAME=editor       # optional
	VIEWER_USERNAME=viewer       # optional
	SESSION_STORE=badger         # memory or badger

	AUDIT_STORE=duckdb           # memory or duckdb
	IMPORT_BASE_URL=https://fdc.example.org/v1

A YAML file can be supplied with CONFIG_PATH and a dotenv file with DOTENV_PATH.

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains in-flight
requests for up to 10 seconds, the WebSocket hub closes its clients, the event
bus and audit logger flush, and the database is closed last.

# API Documentation

Swagger UI is served at /swagger/index.html and Prometheus metrics at /metrics.
*/
package main
