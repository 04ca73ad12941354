// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package audit

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"
)

// ErrEventNotFound is returned by Get for an unknown event ID.
var ErrEventNotFound = errors.New("audit event not found")

// MemoryStore is a bounded ring of events. Once full, each Save overwrites
// the oldest event. Nothing survives a restart.
type MemoryStore struct {
	mu   sync.RWMutex
	ring []Event
	next int // slot the next Save writes
	size int
}

// NewMemoryStore returns a store holding at most capacity events (10000
// when capacity is not positive).
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = 10000
	}
	return &MemoryStore{ring: make([]Event, capacity)}
}

func (s *MemoryStore) Save(_ context.Context, event *Event) error {
	if event == nil {
		return errors.New("audit: nil event")
	}
	s.mu.Lock()
	s.ring[s.next] = *event
	s.next = (s.next + 1) % len(s.ring)
	s.size = min(s.size+1, len(s.ring))
	s.mu.Unlock()
	return nil
}

// each calls fn for stored events, oldest first, until fn returns false.
// The caller holds s.mu.
func (s *MemoryStore) each(fn func(*Event) bool) {
	start := (s.next - s.size + len(s.ring)) % len(s.ring)
	for i := 0; i < s.size; i++ {
		if !fn(&s.ring[(start+i)%len(s.ring)]) {
			return
		}
	}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found *Event
	s.each(func(e *Event) bool {
		if e.ID == id {
			cp := *e
			found = &cp
			return false
		}
		return true
	})
	if found == nil {
		return nil, fmt.Errorf("%w: %s", ErrEventNotFound, id)
	}
	return found, nil
}

func (s *MemoryStore) Query(_ context.Context, filter QueryFilter) ([]Event, error) {
	s.mu.RLock()
	matched := []Event{}
	s.each(func(e *Event) bool {
		if filter.matches(e) {
			matched = append(matched, *e)
		}
		return true
	})
	s.mu.RUnlock()

	slices.SortStableFunc(matched, func(a, b Event) int {
		if filter.OrderDesc {
			return b.Timestamp.Compare(a.Timestamp)
		}
		return a.Timestamp.Compare(b.Timestamp)
	})

	lo := min(max(filter.Offset, 0), len(matched))
	hi := len(matched)
	if filter.Limit > 0 {
		hi = min(lo+filter.Limit, hi)
	}
	return matched[lo:hi], nil
}

func (s *MemoryStore) Count(_ context.Context, filter QueryFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	s.each(func(e *Event) bool {
		if filter.matches(e) {
			n++
		}
		return true
	})
	return n, nil
}

// Delete drops events older than olderThan and compacts the ring.
func (s *MemoryStore) Delete(_ context.Context, olderThan time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]Event, 0, s.size)
	s.each(func(e *Event) bool {
		if !e.Timestamp.Before(olderThan) {
			kept = append(kept, *e)
		}
		return true
	})
	deleted := int64(s.size - len(kept))

	clear(s.ring)
	copy(s.ring, kept)
	s.size = len(kept)
	s.next = len(kept) % len(s.ring)
	return deleted, nil
}

// Len returns the number of stored events.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.size
}
