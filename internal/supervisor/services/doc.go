// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

/*
Package services provides suture.Service wrappers for Nutrimaster components.

Each wrapper translates a component's lifecycle (an HTTP listener, a run
loop, a periodic task) into suture's context-aware Serve pattern:

	type Service interface {
	    Serve(ctx context.Context) error
	}

# Available Services

HTTP Server (HTTPServerService):
  - Opens the listener inside Serve so bind errors fail the service
  - Drains in-flight requests on shutdown within a timeout

Run loops (LoopService):
  - NewEventBusService runs the watermill router of events.Bus
  - NewWebSocketHubService runs the websocket broadcast hub
  - A loop that returns before its context ends counts as a failure

Periodic Tasks (PeriodicService):
  - Runs a cleanup function on a fixed interval
  - Used for audit retention and expired session removal

# Usage

	tree.AddDataService(services.NewPeriodicService("audit-retention", time.Hour, auditLogger.Cleanup))
	tree.AddMessagingService(services.NewEventBusService(bus))
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, 10*time.Second))

All services return ctx.Err() on graceful shutdown so suture does not log a
failure.
*/
package services
