// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

/*
Package auth provides authentication for the Nutrimaster API.

Four modes are configured through AUTH_MODE:

  - session (default): POST /api/v1/auth/login verifies a configured account
    and creates a server-side session. The opaque session id travels in an
    HttpOnly, SameSite=Strict cookie and the expiry slides on every request.
    Sessions live in memory or in BadgerDB (SESSION_STORE=badger).
  - jwt: login returns an HS256 token, accepted from "Authorization: Bearer"
    or the "token" cookie.
  - basic: HTTP Basic credentials are verified on every request.
  - none: every request runs as the anonymous administrator. Development only.

Accounts come from configuration: an admin plus optional editor and viewer
users. Passwords are hashed with bcrypt when the UserDirectory is built;
usernames are compared in constant time and unknown usernames still pay for
a bcrypt comparison.

Middleware.Authenticate attaches an AuthSubject to the request context and
Middleware.RequireAuth rejects anonymous requests with 401. Role checks are
left to the authz package.

	components, err := auth.Setup(&cfg.Security, 0)
	if err != nil {
		return err
	}
	defer components.Close()

	r.Use(components.Middleware.Authenticate)
*/
package auth
