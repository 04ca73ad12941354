// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"
)

// AuthMode selects how requests are authenticated.
type AuthMode string

const (
	// AuthModeNone runs every request as the anonymous administrator.
	AuthModeNone AuthMode = "none"
	// AuthModeSession reads an opaque session id from an HttpOnly cookie.
	AuthModeSession AuthMode = "session"
	AuthModeJWT     AuthMode = "jwt"
	AuthModeBasic   AuthMode = "basic"
)

const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// AnonymousUsername identifies requests made with authentication disabled.
const AnonymousUsername = "anonymous"

var authModes = map[string]AuthMode{
	"":        AuthModeSession,
	"session": AuthModeSession,
	"none":    AuthModeNone,
	"jwt":     AuthModeJWT,
	"basic":   AuthModeBasic,
}

// ParseAuthMode reads an AUTH_MODE value; empty means session.
func ParseAuthMode(s string) (AuthMode, error) {
	if m, ok := authModes[s]; ok {
		return m, nil
	}
	return "", fmt.Errorf("invalid auth mode: %q", s)
}

func (m AuthMode) String() string { return string(m) }

var (
	ErrNoCredentials      = errors.New("no credentials provided")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrExpiredCredentials = errors.New("credentials expired")
)

// Authenticator extracts and validates credentials from a request.
type Authenticator interface {
	// Authenticate returns ErrNoCredentials when the request carries none,
	// so callers can tell anonymous requests from rejected ones.
	Authenticate(ctx context.Context, r *http.Request) (*AuthSubject, error)

	// Name returns the authenticator's name for logging and metrics.
	Name() string
}

// AuthSubject is the caller as established by any authenticator.
// Configured accounts use their username as ID.
type AuthSubject struct {
	ID         string   `json:"id"`
	Username   string   `json:"username"`
	Roles      []string `json:"roles,omitempty"`
	AuthMethod AuthMode `json:"auth_method"`

	// Unix seconds; zero ExpiresAt never expires.
	IssuedAt  int64 `json:"issued_at,omitempty"`
	ExpiresAt int64 `json:"expires_at,omitempty"`

	SessionID string `json:"session_id,omitempty"`
}

func (s *AuthSubject) HasRole(role string) bool {
	return role != "" && slices.Contains(s.Roles, role)
}

// PrimaryRole is the role shown to the dashboard and put into tokens.
func (s *AuthSubject) PrimaryRole() string {
	if len(s.Roles) == 0 {
		return ""
	}
	return s.Roles[0]
}

func (s *AuthSubject) IsExpired() bool {
	return s.ExpiresAt != 0 && time.Now().Unix() > s.ExpiresAt
}

// AuthSubjectFromClaims returns the subject a validated token speaks for.
func AuthSubjectFromClaims(claims *Claims) *AuthSubject {
	if claims == nil {
		return nil
	}

	subject := &AuthSubject{
		ID:         claims.Username,
		Username:   claims.Username,
		AuthMethod: AuthModeJWT,
	}
	if claims.Role != "" {
		subject.Roles = []string{claims.Role}
	}
	if claims.ExpiresAt != nil {
		subject.ExpiresAt = claims.ExpiresAt.Unix()
	}
	if claims.IssuedAt != nil {
		subject.IssuedAt = claims.IssuedAt.Unix()
	}
	return subject
}

// AnonymousSubject is the subject of requests when authentication is disabled.
func AnonymousSubject() *AuthSubject {
	return &AuthSubject{
		ID:         AnonymousUsername,
		Username:   AnonymousUsername,
		Roles:      []string{RoleAdmin},
		AuthMethod: AuthModeNone,
	}
}

type subjectKey struct{}

func ContextWithSubject(ctx context.Context, subject *AuthSubject) context.Context {
	return context.WithValue(ctx, subjectKey{}, subject)
}

// GetAuthSubject returns the subject stored by the auth middleware, or nil.
func GetAuthSubject(ctx context.Context) *AuthSubject {
	subject, _ := ctx.Value(subjectKey{}).(*AuthSubject)
	return subject
}

// ActorFromContext returns the username of the authenticated subject, or ""
// for anonymous requests. It is recorded on calculations and audit events.
func ActorFromContext(ctx context.Context) string {
	if subject := GetAuthSubject(ctx); subject != nil {
		return subject.Username
	}
	return ""
}
