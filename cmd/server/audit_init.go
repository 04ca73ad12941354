// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package main

import (
	"context"

	"github.com/tomtom215/nutrimaster/internal/audit"
	"github.com/tomtom215/nutrimaster/internal/config"
	"github.com/tomtom215/nutrimaster/internal/database"
	"github.com/tomtom215/nutrimaster/internal/logging"
)

// memoryAuditCapacity bounds the in-memory audit store.
const memoryAuditCapacity = 10000

// initAudit builds the audit logger on the configured store. It returns nil
// when auditing is disabled; the audit endpoint then answers 503.
func initAudit(ctx context.Context, cfg *config.Config, db *database.DB) *audit.Logger {
	if !cfg.Audit.Enabled {
		logging.Info().Msg("Audit trail disabled (AUDIT_ENABLED=false)")
		return nil
	}

	var store audit.Store
	switch cfg.Audit.Store {
	case "memory":
		store = audit.NewMemoryStore(memoryAuditCapacity)
	default:
		duck := audit.NewDuckDBStore(db.Conn())
		if err := duck.CreateTable(ctx); err != nil {
			logging.Warn().Err(err).Msg("Failed to create audit events table, falling back to memory store")
			store = audit.NewMemoryStore(memoryAuditCapacity)
		} else {
			store = duck
		}
	}

	auditCfg := audit.DefaultConfig()
	auditCfg.RetentionDays = cfg.Audit.RetentionDays
	if cfg.Audit.BufferSize > 0 {
		auditCfg.BufferSize = cfg.Audit.BufferSize
	}

	logging.Info().
		Str("store", cfg.Audit.Store).
		Int("retention_days", auditCfg.RetentionDays).
		Msg("Audit trail initialized")
	return audit.NewLogger(store, auditCfg)
}
