// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

// Package authz enforces role-based access control on the HTTP API using Casbin.
//
//	Request -> auth.Middleware -> authz.Middleware -> Handler
//
// Three roles exist and inherit downward: admin > editor > viewer. Viewers
// browse master data, recipes and calculation history. Editors also maintain
// master data and recipes and run calculations. Admins additionally read the
// audit trail and trigger imports.
//
// The model and policy are embedded (model.conf, policy.csv) and can be
// replaced at runtime through CASBIN_MODEL_PATH and CASBIN_POLICY_PATH.
// Objects are request paths matched with keyMatch2; actions are derived from
// the HTTP method (read, write, delete).
//
// Decisions are cached per (role, path, action) for CASBIN_CACHE_TTL.
package authz
