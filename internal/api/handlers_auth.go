// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/nutrimaster/internal/audit"
	"github.com/tomtom215/nutrimaster/internal/auth"
	"github.com/tomtom215/nutrimaster/internal/logging"
	"github.com/tomtom215/nutrimaster/internal/metrics"
	"github.com/tomtom215/nutrimaster/internal/models"
	"github.com/tomtom215/nutrimaster/internal/validation"
)

// meResponse describes the current subject.
type meResponse struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Roles      []string  `json:"roles"`
	AuthMethod string    `json:"auth_method"`
	ExpiresAt  time.Time `json:"expires_at,omitempty"`
}

// Login verifies username and password. In session mode it sets the session
// cookie; in JWT mode the token is returned in the body. Basic mode only
// verifies the credentials.
//
// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Credentials"
// @Success 200 {object} models.APIResponse{data=models.LoginResponse}
// @Failure 401 {object} models.APIResponse "Invalid credentials"
// @Failure 429 {object} models.APIResponse "Too many attempts"
// @Router /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.auth == nil || h.auth.Mode == auth.AuthModeNone || h.auth.Users == nil {
		respondError(w, http.StatusBadRequest, CodeAuthDisabled, "Authentication is disabled", nil)
		return
	}

	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		writeServiceError(w, r, verr)
		return
	}

	method := h.auth.Mode.String()
	source := audit.SourceFromRequest(r)

	subject, err := h.auth.Users.Verify(req.Username, req.Password)
	if err != nil {
		metrics.RecordAuthAttempt(method, false)
		if h.audit != nil {
			h.audit.LogAuthFailure(r.Context(), req.Username, source, "invalid credentials")
		}
		logging.Ctx(r.Context()).Warn().
			Str("username", sanitizeLogValue(req.Username)).
			Str("remote_addr", source.IPAddress).
			Msg("Login failed")
		respondError(w, http.StatusUnauthorized, CodeInvalidCredentials, "Invalid username or password", nil)
		return
	}
	subject.AuthMethod = h.auth.Mode

	resp := models.LoginResponse{
		Username: subject.Username,
		Role:     subject.PrimaryRole(),
	}

	switch h.auth.Mode {
	case auth.AuthModeSession:
		session, err := h.auth.Sessions.CreateSession(r.Context(), w, r, subject)
		if err != nil {
			respondError(w, http.StatusInternalServerError, CodeInternal, "Failed to create session", err)
			return
		}
		subject.SessionID = session.ID
		resp.ExpiresAt = session.ExpiresAt
	case auth.AuthModeJWT:
		token, expiresAt, err := h.auth.JWT.GenerateToken(subject.Username, subject.PrimaryRole())
		if err != nil {
			respondError(w, http.StatusInternalServerError, CodeInternal, "Failed to issue token", err)
			return
		}
		resp.Token = token
		resp.ExpiresAt = expiresAt
	}

	metrics.RecordAuthAttempt(method, true)
	if h.audit != nil {
		actor := audit.ActorFromUser(subject.ID, subject.Username, subject.Roles, method, subject.SessionID)
		h.audit.LogAuthSuccess(r.Context(), actor, source)
	}
	logging.Ctx(r.Context()).Info().Str("username", subject.Username).Str("method", method).Msg("Login succeeded")

	respondData(w, http.StatusOK, resp, start)
}

// Logout destroys the session and clears the cookie. It succeeds without a
// session.
//
// @Summary Log out
// @Tags Auth
// @Produce json
// @Success 200 {object} models.APIResponse
// @Router /auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.auth != nil && h.auth.Sessions != nil {
		if err := h.auth.Sessions.DestroySession(r.Context(), w, r); err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("Failed to delete session")
		}
	}
	if subject := auth.GetAuthSubject(r.Context()); subject != nil && h.audit != nil {
		h.audit.LogLogout(r.Context(), auditActor(r), audit.SourceFromRequest(r))
	}
	respondData(w, http.StatusOK, map[string]bool{"logged_out": true}, start)
}

// Me returns the authenticated subject.
//
// @Summary Current user
// @Tags Auth
// @Produce json
// @Success 200 {object} models.APIResponse
// @Failure 401 {object} models.APIResponse
// @Router /auth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	subject := auth.GetAuthSubject(r.Context())
	if subject == nil {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", nil)
		return
	}
	resp := meResponse{
		ID:         subject.ID,
		Username:   subject.Username,
		Roles:      subject.Roles,
		AuthMethod: subject.AuthMethod.String(),
	}
	if subject.ExpiresAt > 0 {
		resp.ExpiresAt = time.Unix(subject.ExpiresAt, 0).UTC()
	}
	respondData(w, http.StatusOK, resp, start)
}
