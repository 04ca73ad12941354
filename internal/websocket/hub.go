// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package websocket

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"

	"github.com/tomtom215/nutrimaster/internal/logging"
	"github.com/tomtom215/nutrimaster/internal/metrics"
	"github.com/tomtom215/nutrimaster/internal/models"
)

// Message types.
const (
	MessageTypeMasterDataChanged = "masterdata_changed"
	MessageTypePing              = "ping"
	MessageTypePong              = "pong"
)

// Message is the JSON envelope of everything sent over the socket.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Hub fans change notifications out to every connected client. Membership
// and broadcasts are serialized through RunWithContext.
type Hub struct {
	join      chan *Client
	leave     chan *Client
	broadcast chan Message
	done      chan struct{}
	stopOnce  sync.Once

	mu      sync.RWMutex
	clients map[uint64]*Client
}

// NewHub returns a hub with an empty client set. Nothing is delivered until
// RunWithContext is started.
func NewHub() *Hub {
	return &Hub{
		join:      make(chan *Client),
		leave:     make(chan *Client),
		broadcast: make(chan Message, 256),
		done:      make(chan struct{}),
		clients:   make(map[uint64]*Client),
	}
}

// Join adds c to the hub. If the hub has stopped, c's send channel is
// closed so its writer ends the connection.
func (h *Hub) Join(c *Client) {
	select {
	case h.join <- c:
	case <-h.done:
		close(c.send)
	}
}

// Leave removes c. Leaving twice, or after the hub stopped, is harmless.
func (h *Hub) Leave(c *Client) {
	select {
	case h.leave <- c:
	case <-h.done:
	}
}

// RunWithContext serves the hub until ctx ends, then disconnects every
// client and returns ctx.Err().
func (h *Hub) RunWithContext(ctx context.Context) error {
	defer h.stop(ctx)
	for {
		// Membership changes first: a client that joined before a
		// broadcast was queued must receive it.
		select {
		case c := <-h.join:
			h.add(c)
			continue
		case c := <-h.leave:
			h.remove(c)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case c := <-h.join:
			h.add(c)
		case c := <-h.leave:
			h.remove(c)
		case m := <-h.broadcast:
			h.fanOut(m)
		}
	}
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	h.clients[c.id] = c
	n := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(n))
	logging.Info().Str("username", c.username).Int("clients", n).Msg("Websocket client connected")
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c.id]
	if ok {
		delete(h.clients, c.id)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()

	if ok {
		metrics.WSConnections.Set(float64(n))
		logging.Info().Str("username", c.username).Int("clients", n).Msg("Websocket client disconnected")
	}
}

func (h *Hub) stop(ctx context.Context) {
	h.stopOnce.Do(func() { close(h.done) })

	h.mu.Lock()
	n := len(h.clients)
	for id, c := range h.clients {
		close(c.send)
		delete(h.clients, id)
	}
	h.mu.Unlock()
	metrics.WSConnections.Set(0)

	reason := "canceled"
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		reason = "deadline"
	}
	logging.Info().Str("reason", reason).Int("clients_closed", n).Msg("Websocket hub stopped")
}

// fanOut delivers m to clients in connection order. A client whose buffer
// is full is disconnected instead of stalling the others.
func (h *Hub) fanOut(m Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, id := range slices.Sorted(maps.Keys(h.clients)) {
		c := h.clients[id]
		select {
		case c.send <- m:
			metrics.WSMessagesSent.Inc()
		default:
			close(c.send)
			delete(h.clients, id)
			metrics.WSErrors.WithLabelValues("slow_client").Inc()
			logging.Warn().Uint64("client_id", id).Msg("Dropping slow websocket client")
		}
	}
	metrics.WSConnections.Set(float64(len(h.clients)))
}

// BroadcastJSON queues a message for every client. It never blocks; when
// the queue is full the message is lost.
func (h *Hub) BroadcastJSON(messageType string, data any) {
	select {
	case h.broadcast <- Message{Type: messageType, Data: data}:
	default:
		metrics.WSErrors.WithLabelValues("broadcast_full").Inc()
		logging.Warn().Str("message_type", messageType).Msg("Websocket broadcast queue full, message dropped")
	}
}

// HandleChangeEvent forwards a change event as a masterdata_changed
// message. It has the events.Handler signature.
func (h *Hub) HandleChangeEvent(_ context.Context, event *models.ChangeEvent) error {
	h.BroadcastJSON(MessageTypeMasterDataChanged, event)
	return nil
}

// ClientCount reports the number of connected clients. It is safe to call
// from any goroutine.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
