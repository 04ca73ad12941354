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

	"github.com/goccy/go-json"

	"github.com/tomtom215/nutrimaster/internal/logging"
	"github.com/tomtom215/nutrimaster/internal/models"
)

// Middleware attaches the authenticated subject to requests.
type Middleware struct {
	mode          AuthMode
	authenticator Authenticator
}

// NewMiddleware creates the middleware for mode. authenticator may be nil
// only in AuthModeNone.
func NewMiddleware(mode AuthMode, authenticator Authenticator) (*Middleware, error) {
	if mode != AuthModeNone && authenticator == nil {
		return nil, errors.New("authenticator required for auth mode " + mode.String())
	}
	return &Middleware{mode: mode, authenticator: authenticator}, nil
}

// Mode returns the configured authentication mode.
func (m *Middleware) Mode() AuthMode {
	return m.mode
}

// Authenticate attaches the subject of valid credentials to the request
// context. Requests without valid credentials continue anonymously; use
// RequireAuth for protected routes. With authentication disabled every
// request runs as AnonymousSubject.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.mode == AuthModeNone {
			next.ServeHTTP(w, r.WithContext(withSubject(r.Context(), AnonymousSubject())))
			return
		}

		subject, err := m.authenticator.Authenticate(r.Context(), r)
		if err != nil {
			if !errors.Is(err, ErrNoCredentials) {
				logging.Ctx(r.Context()).Debug().Err(err).Str("authenticator", m.authenticator.Name()).Msg("Authentication failed")
			}
			next.ServeHTTP(w, r)
			return
		}
		if cr, ok := m.authenticator.(cookieRefresher); ok {
			cr.RefreshCookie(w, subject)
		}
		next.ServeHTTP(w, r.WithContext(withSubject(r.Context(), subject)))
	})
}

// cookieRefresher is implemented by authenticators whose cookie lifetime
// follows a server-side expiry.
type cookieRefresher interface {
	RefreshCookie(w http.ResponseWriter, subject *AuthSubject)
}

// withSubject stores the subject and tags request logs with its username.
func withSubject(ctx context.Context, subject *AuthSubject) context.Context {
	return logging.ContextWithActor(ContextWithSubject(ctx, subject), subject.Username)
}

// RequireAuth rejects requests without an authenticated subject with 401.
// It must run after Authenticate.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject := GetAuthSubject(r.Context())
		if subject == nil || subject.IsExpired() {
			if m.mode == AuthModeBasic {
				w.Header().Set("WWW-Authenticate", WWWAuthenticateHeader)
			}
			WriteAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WriteAuthError writes an error envelope. It is shared with the
// authorization middleware.
func WriteAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := models.APIResponse{
		Status:   models.StatusError,
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error:    &models.APIError{Code: code, Message: message},
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Error().Err(err).Msg("Failed to encode auth error response")
	}
}

// SecurityHeaders adds security headers to all responses.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

		// HSTS only when served over HTTPS
		if r.Header.Get("X-Forwarded-Proto") == "https" || r.TLS != nil {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		next.ServeHTTP(w, r)
	})
}
