// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

// Package events carries master-data change notifications between components
// over an in-process Watermill GoChannel pub/sub.
//
// Every successful create, update or delete of master data publishes a
// models.ChangeEvent on TopicMasterDataChanged. Subscribers are registered on
// the Bus before it runs and each receives every event through its own
// Watermill router handler:
//
//	bus, _ := events.NewBus(events.DefaultBusConfig(), logging.NewWatermillLogger())
//	bus.Subscribe("catalog_invalidator", func(ctx context.Context, e *models.ChangeEvent) error {
//	    svc.InvalidateCatalog()
//	    return nil
//	})
//	go bus.Run(ctx)
//	<-bus.Running()
//	_ = bus.Publish(ctx, events.NewChangeEvent(models.EntityUnit, models.ActionUpdated, id, code, actor))
//
// Handlers that return an error are retried with exponential backoff; panics
// are recovered by the router middleware. Publishing never blocks on
// subscribers.
package events
