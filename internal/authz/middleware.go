// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package authz

import (
	"net/http"
	"time"

	"github.com/tomtom215/nutrimaster/internal/auth"
	"github.com/tomtom215/nutrimaster/internal/logging"
)

// DenyHook is called after a request was denied, before the 403 is written.
type DenyHook func(r *http.Request, subject *auth.AuthSubject, object, action string)

// Middleware enforces the RBAC policy on authenticated requests.
type Middleware struct {
	enforcer *Enforcer
	onDeny   DenyHook
}

// NewMiddleware creates a new authorization middleware.
func NewMiddleware(enforcer *Enforcer) *Middleware {
	return &Middleware{enforcer: enforcer}
}

// OnDeny registers a hook for denied requests. The audit trail uses it.
func (m *Middleware) OnDeny(hook DenyHook) {
	m.onDeny = hook
}

// Authorize enforces a fixed object and action regardless of the request path.
func (m *Middleware) Authorize(object, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m.check(w, r, object, action) {
				next.ServeHTTP(w, r)
			}
		})
	}
}

// AuthorizeRequest derives the action from the HTTP method and uses the
// request path as the object.
func (m *Middleware) AuthorizeRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.check(w, r, r.URL.Path, methodToAction(r.Method)) {
			next.ServeHTTP(w, r)
		}
	})
}

// check writes the error response and returns false when the request is denied.
func (m *Middleware) check(w http.ResponseWriter, r *http.Request, object, action string) bool {
	subject := auth.GetAuthSubject(r.Context())
	if subject == nil {
		auth.WriteAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return false
	}

	start := time.Now()
	allowed, cacheHit, err := m.enforcer.EnforceWithRoles(subject.Roles, object, action)
	if err != nil {
		AuthzErrorsTotal.Inc()
		logging.Ctx(r.Context()).Error().Err(err).
			Str("object", object).
			Str("action", action).
			Msg("Authorization error")
		auth.WriteAuthError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Authorization failed")
		return false
	}
	RecordAuthzDecision(subject.PrimaryRole(), object, action, allowed, time.Since(start), cacheHit)

	if !allowed {
		logging.Ctx(r.Context()).Debug().
			Str("username", subject.Username).
			Strs("roles", subject.Roles).
			Str("object", object).
			Str("action", action).
			Msg("Authorization denied")
		if m.onDeny != nil {
			m.onDeny(r, subject, object, action)
		}
		auth.WriteAuthError(w, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions")
		return false
	}
	return true
}

// methodToAction maps HTTP methods to policy actions.
func methodToAction(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return ActionRead
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return ActionWrite
	case http.MethodDelete:
		return ActionDelete
	default:
		return ActionRead
	}
}
