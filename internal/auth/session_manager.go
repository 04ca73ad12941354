// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/nutrimaster/internal/logging"
)

// DefaultSessionCookieName is the name of the session cookie.
const DefaultSessionCookieName = "nutrimaster_session"

// SessionConfig holds cookie and expiry settings for session authentication.
type SessionConfig struct {
	CookieName string

	// SessionTTL is the session time-to-live.
	SessionTTL time.Duration

	// SlidingSession extends the expiry on each authenticated request.
	SlidingSession bool

	CookiePath     string
	CookieSecure   bool
	CookieSameSite http.SameSite
}

// DefaultSessionConfig returns sensible defaults.
func DefaultSessionConfig() *SessionConfig {
	return &SessionConfig{
		CookieName:     DefaultSessionCookieName,
		SessionTTL:     24 * time.Hour,
		SlidingSession: true,
		CookiePath:     "/",
		CookieSecure:   true,
		CookieSameSite: http.SameSiteStrictMode,
	}
}

// SessionManager creates and resolves cookie sessions. It implements
// Authenticator for session mode.
type SessionManager struct {
	store  SessionStore
	config *SessionConfig
}

// NewSessionManager creates a session manager backed by store.
func NewSessionManager(store SessionStore, config *SessionConfig) *SessionManager {
	if config == nil {
		config = DefaultSessionConfig()
	}
	if config.CookieName == "" {
		config.CookieName = DefaultSessionCookieName
	}
	return &SessionManager{store: store, config: config}
}

// Store returns the underlying session store.
func (m *SessionManager) Store() SessionStore {
	return m.store
}

// Name returns the authenticator name.
func (m *SessionManager) Name() string {
	return string(AuthModeSession)
}

// Authenticate resolves the session cookie of r. With sliding sessions the
// expiry is pushed forward on every request.
func (m *SessionManager) Authenticate(ctx context.Context, r *http.Request) (*AuthSubject, error) {
	sessionID := m.SessionID(r)
	if sessionID == "" {
		return nil, ErrNoCredentials
	}

	session, err := m.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionExpired) {
			return nil, ErrExpiredCredentials
		}
		if !errors.Is(err, ErrSessionNotFound) {
			logging.Ctx(ctx).Error().Err(err).Msg("Session lookup error")
		}
		return nil, ErrInvalidCredentials
	}

	if m.config.SlidingSession {
		newExpiry := time.Now().Add(m.config.SessionTTL)
		if err := m.store.Touch(ctx, sessionID, newExpiry); err != nil {
			logging.Ctx(ctx).Error().Err(err).Msg("Failed to touch session")
		} else {
			session.ExpiresAt = newExpiry
		}
	}

	return session.ToAuthSubject(), nil
}

// RefreshCookie reissues the cookie of a sliding session with the lifetime
// the store now holds, so the browser does not drop it at the login expiry.
func (m *SessionManager) RefreshCookie(w http.ResponseWriter, subject *AuthSubject) {
	if !m.config.SlidingSession || subject.SessionID == "" || subject.ExpiresAt == 0 {
		return
	}
	maxAge := int(time.Until(time.Unix(subject.ExpiresAt, 0)).Seconds())
	if maxAge <= 0 {
		return
	}
	m.setCookie(w, subject.SessionID, maxAge)
}

// SessionID returns the session id carried by the request cookie.
func (m *SessionManager) SessionID(r *http.Request) string {
	cookie, err := r.Cookie(m.config.CookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}

// CreateSession stores a new session for subject and sets the cookie. Any
// session the request already carried is deleted first so a login never
// reuses a pre-existing session id.
func (m *SessionManager) CreateSession(ctx context.Context, w http.ResponseWriter, r *http.Request, subject *AuthSubject) (*Session, error) {
	if old := m.SessionID(r); old != "" {
		if err := m.store.Delete(ctx, old); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("Failed to delete previous session")
		}
	}

	session, err := NewSession(subject, m.config.SessionTTL)
	if err != nil {
		return nil, err
	}
	if err := m.store.Create(ctx, session); err != nil {
		return nil, err
	}

	m.setCookie(w, session.ID, int(m.config.SessionTTL.Seconds()))
	return session, nil
}

// DestroySession deletes the session of the request and clears the cookie.
func (m *SessionManager) DestroySession(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	m.setCookie(w, "", -1)
	sessionID := m.SessionID(r)
	if sessionID == "" {
		return nil
	}
	return m.store.Delete(ctx, sessionID)
}

func (m *SessionManager) setCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.config.CookieName,
		Value:    value,
		Path:     m.config.CookiePath,
		MaxAge:   maxAge,
		Secure:   m.config.CookieSecure,
		HttpOnly: true,
		SameSite: m.config.CookieSameSite,
	})
}
