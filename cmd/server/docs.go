// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

// Package main provides the Nutrimaster HTTP server
//
// @title Nutrimaster API
// @version 1.0
// @description Nutrition master data, recipe aggregation and energy expenditure calculations
// @description
// @description ## Authentication
// @description
// @description In session mode `/api/v1/auth/login` sets an HTTP-only cookie. In jwt mode it
// @description returns a token to send as `Authorization: Bearer <token>`.
// @description
// @description ## Roles
// @description
// @description - **viewer**: read master data and calculation history
// @description - **editor**: viewer plus create, update, delete and calculate
// @description - **admin**: editor plus audit trail and food composition import
// @description
// @description ## Error Responses
// @description
// @description ```json
// @description {
// @description   "status": "error",
// @description   "error": {"code": "VALIDATION_ERROR", "message": "...", "details": {}},
// @description   "metadata": {"timestamp": "2026-01-18T12:34:56Z"}
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/nutrimaster/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:8460
// @BasePath /api/v1
// @schemes http https
//
// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name nutrimaster_session
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
//
// @tag.name Health
// @tag.description Liveness and readiness probes
//
// @tag.name Auth
// @tag.description Login, logout and current subject
//
// @tag.name MasterData
// @tag.description Food groups, categories, nutrients, units and raw materials
//
// @tag.name Calculations
// @tag.description BMR/TDEE tables and recipe nutrient aggregation
//
// @tag.name Audit
// @tag.description Security and data change audit trail
//
// @tag.name Import
// @tag.description Food composition database import
package main
