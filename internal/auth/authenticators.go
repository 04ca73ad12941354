// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/tomtom215/nutrimaster/internal/metrics"
)

// TokenCookieName is the cookie carrying the JWT in jwt mode.
const TokenCookieName = "token"

// JWTAuthenticator authenticates HS256 bearer tokens from the Authorization
// header or the token cookie.
type JWTAuthenticator struct {
	manager *JWTManager
}

// NewJWTAuthenticator creates a new JWT authenticator.
func NewJWTAuthenticator(manager *JWTManager) *JWTAuthenticator {
	return &JWTAuthenticator{manager: manager}
}

// Authenticate extracts and validates the JWT from the request.
func (a *JWTAuthenticator) Authenticate(_ context.Context, r *http.Request) (*AuthSubject, error) {
	tokenStr := extractBearerToken(r)
	if tokenStr == "" {
		return nil, ErrNoCredentials
	}

	claims, err := a.manager.ValidateToken(tokenStr)
	if err != nil {
		if errors.Is(err, ErrExpiredCredentials) {
			return nil, ErrExpiredCredentials
		}
		return nil, ErrInvalidCredentials
	}
	return AuthSubjectFromClaims(claims), nil
}

// Name returns the authenticator name.
func (a *JWTAuthenticator) Name() string {
	return string(AuthModeJWT)
}

// extractBearerToken extracts the bearer token from Authorization header or cookie.
func extractBearerToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			if token := strings.TrimSpace(parts[1]); token != "" {
				return token
			}
		}
	}

	cookie, err := r.Cookie(TokenCookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}

// BasicAuthenticator authenticates HTTP Basic credentials against the
// configured accounts on every request.
type BasicAuthenticator struct {
	users *UserDirectory
}

// NewBasicAuthenticator creates a new Basic authenticator.
func NewBasicAuthenticator(users *UserDirectory) *BasicAuthenticator {
	return &BasicAuthenticator{users: users}
}

// Authenticate validates the Authorization header of r.
func (a *BasicAuthenticator) Authenticate(_ context.Context, r *http.Request) (*AuthSubject, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, ErrNoCredentials
	}
	username, password, err := ParseBasicAuthHeader(header)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	subject, err := a.users.Verify(username, password)
	metrics.RecordAuthAttempt(string(AuthModeBasic), err == nil)
	if err != nil {
		return nil, err
	}
	subject.AuthMethod = AuthModeBasic
	return subject, nil
}

// Name returns the authenticator name.
func (a *BasicAuthenticator) Name() string {
	return string(AuthModeBasic)
}

// WWWAuthenticateHeader is sent with 401 responses in basic mode.
const WWWAuthenticateHeader = `Basic realm="Nutrimaster", charset="UTF-8"`
