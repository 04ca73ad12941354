// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

/*
Package websocket pushes master-data change notifications to connected
dashboards so open tables can refresh without polling.

Key Components:

  - Hub: owns the set of connected clients and fans messages out to them
  - Client: one connection with its own read and write goroutines
  - Message: typed envelope {type, data} written as JSON

The hub subscribes to the event bus; every models.ChangeEvent becomes a
masterdata_changed message:

	{"type":"masterdata_changed","data":{"entity":"nutrient","action":"updated","entity_id":"...","timestamp":"..."}}

Clients may send {"type":"ping"} and receive {"type":"pong"}. The server also
sends protocol-level pings every 54 seconds and drops clients that miss the
60 second pong deadline.

Slow clients are dropped rather than allowed to block a broadcast: when a
client's send buffer is full its channel is closed and the connection ends.

The hub runs under the supervisor through RunWithContext; on cancellation all
clients are closed before it returns.
*/
package websocket
