// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// Session is a logged-in user. The ID is the opaque value of the session cookie.
type Session struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Username       string    `json:"username"`
	Roles          []string  `json:"roles"`
	CreatedAt      time.Time `json:"created_at"`
	ExpiresAt      time.Time `json:"expires_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
}

func (s *Session) expiredAt(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// ToAuthSubject returns the identity the session was opened for.
func (s *Session) ToAuthSubject() *AuthSubject {
	return &AuthSubject{
		ID:         s.UserID,
		Username:   s.Username,
		Roles:      slices.Clone(s.Roles),
		AuthMethod: AuthModeSession,
		IssuedAt:   s.CreatedAt.Unix(),
		ExpiresAt:  s.ExpiresAt.Unix(),
		SessionID:  s.ID,
	}
}

// NewSession opens a session for subject lasting ttl. The id is 32 random
// bytes, URL-safe encoded so it can go into a cookie as is.
func NewSession(subject *AuthSubject, ttl time.Duration) (*Session, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}
	now := time.Now()
	return &Session{
		ID:             base64.RawURLEncoding.EncodeToString(raw),
		UserID:         subject.ID,
		Username:       subject.Username,
		Roles:          slices.Clone(subject.Roles),
		CreatedAt:      now,
		ExpiresAt:      now.Add(ttl),
		LastAccessedAt: now,
	}, nil
}

// SessionStore persists sessions between requests.
//
// Get reports ErrSessionNotFound for unknown ids and ErrSessionExpired for
// sessions past their expiry that CleanupExpired has not removed yet.
// Delete of an unknown id is not an error.
type SessionStore interface {
	Create(ctx context.Context, session *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Touch(ctx context.Context, id string, expiresAt time.Time) error
	Delete(ctx context.Context, id string) error
	CleanupExpired(ctx context.Context) (int, error)
	Close() error
}

// Session store kinds accepted by OpenSessionStore.
const (
	SessionStoreMemory = "memory"
	SessionStoreBadger = "badger"
)

// OpenSessionStore opens the store named by kind. An empty kind selects the
// memory store; a badger store with an empty path runs in memory.
func OpenSessionStore(kind, path string) (SessionStore, error) {
	switch kind {
	case SessionStoreMemory, "":
		return NewMemorySessionStore(), nil
	case SessionStoreBadger:
		return OpenBadgerSessionStore(path)
	default:
		return nil, fmt.Errorf("unknown session store %q", kind)
	}
}

// MemorySessionStore keeps sessions in process memory. They are lost on
// restart.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]Session
}

// NewMemorySessionStore returns an empty store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]Session)}
}

func (s *MemorySessionStore) Create(_ context.Context, session *Session) error {
	stored := *session
	stored.Roles = slices.Clone(session.Roles)

	s.mu.Lock()
	s.sessions[session.ID] = stored
	s.mu.Unlock()
	return nil
}

func (s *MemorySessionStore) Get(_ context.Context, id string) (*Session, error) {
	s.mu.Lock()
	session, ok := s.sessions[id]
	s.mu.Unlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	if session.expiredAt(time.Now()) {
		return nil, ErrSessionExpired
	}
	session.Roles = slices.Clone(session.Roles)
	return &session, nil
}

func (s *MemorySessionStore) Touch(_ context.Context, id string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	session.LastAccessedAt = time.Now()
	session.ExpiresAt = expiresAt
	s.sessions[id] = session
	return nil
}

func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

func (s *MemorySessionStore) CleanupExpired(_ context.Context) (int, error) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if session.expiredAt(now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}

func (s *MemorySessionStore) Close() error { return nil }
