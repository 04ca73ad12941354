// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package auth

import (
	"fmt"

	"github.com/tomtom215/nutrimaster/internal/config"
)

// Components is the authentication stack built from configuration. Fields
// not used by the configured mode are nil.
type Components struct {
	Mode       AuthMode
	Users      *UserDirectory
	JWT        *JWTManager
	Sessions   *SessionManager
	Middleware *Middleware

	store SessionStore
}

// Setup builds the authentication stack for cfg. bcryptCost 0 selects
// DefaultBcryptCost. Close releases the session store.
func Setup(cfg *config.SecurityConfig, bcryptCost int) (*Components, error) {
	mode, err := ParseAuthMode(cfg.AuthMode)
	if err != nil {
		return nil, err
	}
	c := &Components{Mode: mode}

	accounts := []Account{
		{Username: cfg.AdminUsername, Password: cfg.AdminPassword, Role: RoleAdmin},
		{Username: cfg.EditorUsername, Password: cfg.EditorPassword, Role: RoleEditor},
		{Username: cfg.ViewerUsername, Password: cfg.ViewerPassword, Role: RoleViewer},
	}
	if mode != AuthModeNone || cfg.AdminUsername != "" {
		if c.Users, err = NewUserDirectory(accounts, bcryptCost); err != nil {
			return nil, fmt.Errorf("build user directory: %w", err)
		}
	}

	var authenticator Authenticator
	switch mode {
	case AuthModeSession:
		if c.store, err = OpenSessionStore(cfg.SessionStore, cfg.SessionStorePath); err != nil {
			return nil, err
		}
		c.Sessions = NewSessionManager(c.store, &SessionConfig{
			CookieName:     DefaultSessionCookieName,
			SessionTTL:     cfg.SessionTimeout,
			SlidingSession: true,
			CookiePath:     "/",
			CookieSecure:   cfg.CookieSecure,
			CookieSameSite: DefaultSessionConfig().CookieSameSite,
		})
		authenticator = c.Sessions
	case AuthModeJWT:
		if c.JWT, err = NewJWTManager(cfg.JWTSecret, cfg.SessionTimeout); err != nil {
			return nil, err
		}
		authenticator = NewJWTAuthenticator(c.JWT)
	case AuthModeBasic:
		authenticator = NewBasicAuthenticator(c.Users)
	}

	if c.Middleware, err = NewMiddleware(mode, authenticator); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// Close releases the session store.
func (c *Components) Close() error {
	if c.store != nil {
		return c.store.Close()
	}
	return nil
}
