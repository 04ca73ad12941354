// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package services

import (
	"context"
	"errors"
	"fmt"
)

// LoopService supervises a component with a blocking run loop that should
// only return once its context ends.
type LoopService struct {
	name string
	run  func(ctx context.Context) error
}

// EventRouter matches (*events.Bus).Run.
type EventRouter interface {
	Run(ctx context.Context) error
}

// ContextHub matches (*websocket.Hub).RunWithContext.
type ContextHub interface {
	RunWithContext(ctx context.Context) error
}

// NewEventBusService supervises the change event router.
func NewEventBusService(router EventRouter) *LoopService {
	return &LoopService{name: "event-bus", run: router.Run}
}

// NewWebSocketHubService supervises the websocket broadcast hub.
func NewWebSocketHubService(hub ContextHub) *LoopService {
	return &LoopService{name: "websocket-hub", run: hub.RunWithContext}
}

// Serve implements suture.Service. A loop that returns while ctx is live is
// a failure, so the supervisor restarts it.
func (s *LoopService) Serve(ctx context.Context) error {
	err := s.run(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil {
		return fmt.Errorf("%s failed: %w", s.name, err)
	}
	return errors.New(s.name + " stopped unexpectedly")
}

func (s *LoopService) String() string {
	return s.name
}
