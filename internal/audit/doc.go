// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

// Package audit records a security and change trail for Nutrimaster.
//
// Authentication outcomes, authorization denials, food composition imports and
// every master data write end up as typed Events in a Store.
//
// # Event Types
//
//   - auth.success, auth.failure, auth.logout: session lifecycle
//   - authz.denied: Casbin rejected a request
//   - masterdata.created, masterdata.updated, masterdata.deleted: recorded from
//     the event bus through Logger.HandleChangeEvent
//   - data.import: food composition imports
//
// # Architecture
//
//	Logger.Log() -> Event Buffer (chan) -> Async Writer -> Store
//
// Log never blocks. When the buffer is full the event is dropped and
// audit_events_dropped_total is incremented.
//
// Two stores are provided: MemoryStore, a bounded ring used in development and
// tests, and DuckDBStore, which persists to the audit_events table next to the
// master data.
//
// # Usage
//
//	store := audit.NewDuckDBStore(db.Conn())
//	if err := store.CreateTable(ctx); err != nil {
//	    return err
//	}
//	logger := audit.NewLogger(store, audit.DefaultConfig())
//	defer logger.Close()
//
//	bus.Subscribe("audit", logger.HandleChangeEvent)
//	logger.LogAuthFailure(ctx, username, audit.SourceFromRequest(r), "invalid_credentials")
//
// Events can be exported as JSON or in Common Event Format for SIEM ingestion
// with ExporterFor.
//
// Retention is enforced by Logger.Cleanup, which the supervisor runs on
// CleanupInterval.
package audit
