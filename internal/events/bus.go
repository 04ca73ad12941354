// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/nutrimaster/internal/logging"
	"github.com/tomtom215/nutrimaster/internal/metrics"
	"github.com/tomtom215/nutrimaster/internal/models"
)

// TopicMasterDataChanged is the topic every master-data write is published on.
const TopicMasterDataChanged = "masterdata.changed"

// Metadata keys set on every published message.
const (
	MetadataEntity = "entity"
	MetadataAction = "action"
)

// ErrBusClosed is returned when publishing on a closed bus.
var ErrBusClosed = errors.New("event bus is closed")

// Handler processes one decoded change event.
type Handler func(ctx context.Context, event *models.ChangeEvent) error

// Publisher is implemented by anything that can emit change events.
type Publisher interface {
	Publish(ctx context.Context, event *models.ChangeEvent) error
}

// NopPublisher discards events.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, *models.ChangeEvent) error { return nil }

// BusConfig holds configuration for the event bus.
type BusConfig struct {
	// BufferSize is the per-subscriber output channel buffer.
	BufferSize int64

	// CloseTimeout is how long to wait for handlers to finish when closing.
	CloseTimeout time.Duration

	// Retry configuration for failing handlers.
	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	RetryMultiplier      float64
}

// DefaultBusConfig returns production defaults for the bus.
func DefaultBusConfig() BusConfig {
	return BusConfig{
		BufferSize:           256,
		CloseTimeout:         10 * time.Second,
		RetryMaxRetries:      3,
		RetryInitialInterval: 100 * time.Millisecond,
		RetryMaxInterval:     2 * time.Second,
		RetryMultiplier:      2.0,
	}
}

// Bus is an in-process pub/sub for change events backed by a Watermill
// GoChannel and Router.
type Bus struct {
	pubsub *gochannel.GoChannel
	router *message.Router
	logger watermill.LoggerAdapter

	mu       sync.RWMutex
	closed   bool
	handlers []string
}

// NewBus creates a bus with recoverer and retry middleware installed.
func NewBus(cfg BusConfig, logger watermill.LoggerAdapter) (*Bus, error) {
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: cfg.BufferSize,
	}, logger)

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: cfg.CloseTimeout}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	router.AddMiddleware(middleware.Recoverer)
	if cfg.RetryMaxRetries > 0 {
		retry := middleware.Retry{
			MaxRetries:      cfg.RetryMaxRetries,
			InitialInterval: cfg.RetryInitialInterval,
			MaxInterval:     cfg.RetryMaxInterval,
			Multiplier:      cfg.RetryMultiplier,
			Logger:          logger,
		}
		router.AddMiddleware(retry.Middleware)
	}

	return &Bus{pubsub: pubsub, router: router, logger: logger}, nil
}

// NewChangeEvent builds an event with a fresh ID and the current time.
func NewChangeEvent(entity, action, entityID, code, actor string) *models.ChangeEvent {
	return &models.ChangeEvent{
		ID:        uuid.New().String(),
		Entity:    entity,
		Action:    action,
		EntityID:  entityID,
		Code:      code,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
	}
}

// Publish serializes the event and publishes it on TopicMasterDataChanged.
func (b *Bus) Publish(ctx context.Context, event *models.ChangeEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrBusClosed
	}

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.RequestID == "" {
		event.RequestID = logging.RequestIDFromContext(ctx)
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("serialize change event: %w", err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set(MetadataEntity, event.Entity)
	msg.Metadata.Set(MetadataAction, event.Action)

	if err := b.pubsub.Publish(TopicMasterDataChanged, msg); err != nil {
		return fmt.Errorf("publish change event: %w", err)
	}
	metrics.EventsPublished.WithLabelValues(event.Entity, event.Action).Inc()
	return nil
}

// Subscribe registers a named handler. Subscriptions must be made before Run.
func (b *Bus) Subscribe(name string, handler Handler) {
	b.mu.Lock()
	b.handlers = append(b.handlers, name)
	b.mu.Unlock()

	b.router.AddConsumerHandler(
		name,
		TopicMasterDataChanged,
		b.pubsub,
		func(msg *message.Message) error {
			var event models.ChangeEvent
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				// Malformed payloads cannot succeed on retry.
				b.logger.Error("Dropping malformed change event", err, watermill.LogFields{
					"handler":    name,
					"message_id": msg.UUID,
				})
				metrics.EventsHandled.WithLabelValues(name, "malformed").Inc()
				return nil
			}
			ctx := logging.ContextWithRequestID(msg.Context(), event.RequestID)
			if err := handler(ctx, &event); err != nil {
				metrics.EventsHandled.WithLabelValues(name, "error").Inc()
				return err
			}
			metrics.EventsHandled.WithLabelValues(name, "ok").Inc()
			return nil
		},
	)
}

// Handlers returns the names of registered subscribers.
func (b *Bus) Handlers() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]string(nil), b.handlers...)
}

// Run starts the router and blocks until ctx is canceled or Close is called.
func (b *Bus) Run(ctx context.Context) error {
	return b.router.Run(ctx)
}

// Running returns a channel that closes once the router is processing messages.
func (b *Bus) Running() chan struct{} {
	return b.router.Running()
}

// Close stops the router and the pub/sub. Safe to call more than once.
func (b *Bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	routerErr := b.router.Close()
	pubsubErr := b.pubsub.Close()
	return errors.Join(routerErr, pubsubErr)
}
