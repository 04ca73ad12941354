// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/nutrimaster/internal/auth"
	"github.com/tomtom215/nutrimaster/internal/authz"
	"github.com/tomtom215/nutrimaster/internal/middleware"
)

// Router assembles handlers and middleware into the HTTP route tree.
type Router struct {
	handler       *Handler
	auth          *auth.Middleware
	authz         *authz.Middleware
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. Denied authorization decisions are recorded in
// the handler's audit trail.
func NewRouter(handler *Handler, authMiddleware *auth.Middleware, authzMiddleware *authz.Middleware, chiMW *ChiMiddleware) *Router {
	if chiMW == nil {
		chiMW = NewChiMiddleware(nil)
	}
	authzMiddleware.OnDeny(handler.LogAuthzDenied)
	return &Router{
		handler:       handler,
		auth:          authMiddleware,
		authz:         authzMiddleware,
		chiMiddleware: chiMW,
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	h := router.handler
	r := chi.NewRouter()

	// Global middleware, in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(middleware.Compression)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, CodeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	// Health: unauthenticated, permissive limit for probes.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Get("/", h.Health)
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	// Authentication: login is public and strictly limited.
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Use(router.auth.Authenticate)

		r.With(router.chiMiddleware.RateLimitLogin()).Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.With(router.auth.RequireAuth, router.authz.AuthorizeRequest).Get("/me", h.Me)
	})

	// Everything else requires an authenticated subject that the policy allows.
	writeLimit := router.chiMiddleware.RateLimitWrite()
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Use(router.auth.Authenticate)
		r.Use(router.auth.RequireAuth)
		r.Use(router.authz.AuthorizeRequest)

		h.foodGroups().mount(r, "/food-groups", writeLimit)
		h.nutrientCategories().mount(r, "/nutrient-categories", writeLimit)
		h.nutrients().mount(r, "/nutrients", writeLimit)
		h.units().mount(r, "/units", writeLimit)
		h.rawMaterials().mount(r, "/raw-materials", writeLimit)
		h.recipes().mount(r, "/recipes", writeLimit, func(r chi.Router) {
			r.With(writeLimit).Post("/{id}/calculate", h.CalculateSavedRecipe)
		})

		r.Route("/calculate", func(r chi.Router) {
			r.Use(writeLimit)
			r.Post("/recipe", h.CalculateRecipe)
			r.Post("/bmr", h.CalculateBMR)
		})
		r.Get("/calculations", h.Calculations)

		r.Get("/audit/events", h.AuditEvents)
		r.With(writeLimit).Post("/import/food-composition", h.ImportFoodComposition)

		r.Get("/ws", h.WebSocket)
	})

	// Observability
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	return r
}
