// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

/*
Package supervisor provides process supervision for Nutrimaster using suture v4.

# Tree

	RootSupervisor ("nutrimaster")
	├── data-layer
	│   ├── audit-retention (PeriodicService, audit.Logger.Cleanup)
	│   └── session-cleanup (PeriodicService, session mode only)
	├── messaging-layer
	│   ├── event-bus (LoopService)
	│   └── websocket-hub (LoopService)
	└── api-layer
	    └── http-server (HTTPServerService)

A crash in the messaging layer does not take down the HTTP server, and a
failing cleanup does not affect either.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddMessagingService(services.NewEventBusService(bus))
	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, 10*time.Second))

	errCh := tree.ServeBackground(ctx)
	<-ctx.Done()
	<-errCh

Services are restarted with backoff after FailureThreshold failures within
the FailureDecay window. Supervisor events are logged through sutureslog,
which writes to the global zerolog logger via logging.NewSlogLogger.
*/
package supervisor
