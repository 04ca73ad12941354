// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package events

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/nutrimaster/internal/metrics"
	"github.com/tomtom215/nutrimaster/internal/models"
)

func testBusConfig() BusConfig {
	cfg := DefaultBusConfig()
	cfg.CloseTimeout = time.Second
	cfg.RetryInitialInterval = time.Millisecond
	cfg.RetryMaxInterval = 5 * time.Millisecond
	return cfg
}

// startBus runs the bus in the background and waits until it is processing.
func startBus(t *testing.T, bus *Bus) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = bus.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		_ = bus.Close()
		<-done
	})

	select {
	case <-bus.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("bus did not start")
	}
}

func TestBusDeliversToEverySubscriber(t *testing.T) {
	bus, err := NewBus(testBusConfig(), nil)
	if err != nil {
		t.Fatalf("NewBus() error = %v", err)
	}

	var mu sync.Mutex
	received := map[string][]*models.ChangeEvent{}
	for _, name := range []string{"cache", "websocket", "audit"} {
		name := name
		bus.Subscribe(name, func(ctx context.Context, e *models.ChangeEvent) error {
			mu.Lock()
			defer mu.Unlock()
			received[name] = append(received[name], e)
			return nil
		})
	}
	startBus(t, bus)

	published := metrics.EventsPublished.WithLabelValues(models.EntityNutrient, models.ActionCreated)
	before := testutil.ToFloat64(published)

	event := NewChangeEvent(models.EntityNutrient, models.ActionCreated, "n-1", "PROCNT", "admin")
	if err := bus.Publish(context.Background(), event); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received["cache"]) == 1 && len(received["websocket"]) == 1 && len(received["audit"]) == 1
	})

	mu.Lock()
	got := received["audit"][0]
	mu.Unlock()
	if got.ID != event.ID || got.EntityID != "n-1" || got.Code != "PROCNT" || got.Actor != "admin" {
		t.Errorf("received event = %+v, want %+v", got, event)
	}
	if !got.Timestamp.Equal(event.Timestamp) {
		t.Errorf("timestamp = %v, want %v", got.Timestamp, event.Timestamp)
	}
	if after := testutil.ToFloat64(published); after != before+1 {
		t.Errorf("published counter = %v, want %v", after, before+1)
	}
	if names := bus.Handlers(); len(names) != 3 {
		t.Errorf("Handlers() = %v, want 3 names", names)
	}
}

func TestBusRetriesFailingHandler(t *testing.T) {
	bus, err := NewBus(testBusConfig(), nil)
	if err != nil {
		t.Fatalf("NewBus() error = %v", err)
	}

	var attempts atomic.Int32
	bus.Subscribe("flaky", func(ctx context.Context, e *models.ChangeEvent) error {
		if attempts.Add(1) < 3 {
			return errors.New("transient")
		}
		return nil
	})
	startBus(t, bus)

	if err := bus.Publish(context.Background(), NewChangeEvent(models.EntityUnit, models.ActionUpdated, "u-1", "G", "")); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	waitFor(t, func() bool { return attempts.Load() >= 3 })
}

func TestBusDropsMalformedPayload(t *testing.T) {
	bus, err := NewBus(testBusConfig(), nil)
	if err != nil {
		t.Fatalf("NewBus() error = %v", err)
	}

	var calls atomic.Int32
	bus.Subscribe("strict", func(ctx context.Context, e *models.ChangeEvent) error {
		calls.Add(1)
		return nil
	})
	startBus(t, bus)

	malformed := metrics.EventsHandled.WithLabelValues("strict", "malformed")
	before := testutil.ToFloat64(malformed)

	if err := bus.pubsub.Publish(TopicMasterDataChanged, message.NewMessage("bad", []byte("{not json"))); err != nil {
		t.Fatalf("raw publish error = %v", err)
	}
	waitFor(t, func() bool { return testutil.ToFloat64(malformed) == before+1 })
	if calls.Load() != 0 {
		t.Errorf("handler called %d times for malformed payload", calls.Load())
	}
}

func TestBusPublishAfterClose(t *testing.T) {
	bus, err := NewBus(testBusConfig(), nil)
	if err != nil {
		t.Fatalf("NewBus() error = %v", err)
	}
	if err := bus.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := bus.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	err = bus.Publish(context.Background(), NewChangeEvent(models.EntityUnit, models.ActionDeleted, "u-1", "", ""))
	if !errors.Is(err, ErrBusClosed) {
		t.Errorf("Publish() after Close error = %v, want ErrBusClosed", err)
	}
}

func TestNewChangeEvent(t *testing.T) {
	e := NewChangeEvent(models.EntityRecipe, models.ActionDeleted, "r-1", "", "editor")
	if e.ID == "" || e.Timestamp.IsZero() {
		t.Errorf("NewChangeEvent() = %+v, want ID and timestamp set", e)
	}
	if e.Timestamp.Location() != time.UTC {
		t.Errorf("timestamp location = %v, want UTC", e.Timestamp.Location())
	}
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	if err := p.Publish(context.Background(), &models.ChangeEvent{}); err != nil {
		t.Errorf("NopPublisher.Publish() = %v", err)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
