// Observatoire - Global Public Data & Markets Dashboard
// Copyright 2026 The Observatoire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/observatoire-global/observatoire

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/observatoire-global/observatoire/internal/middleware"
)

// NewRouter builds the chi router with the full middleware chain and all API
// routes mounted.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chiMiddleware(middleware.PrometheusMetrics))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.cfg.API.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", SessionHeader, "X-Request-ID"},
		ExposedHeaders:   []string{SessionHeader, "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Use(httprate.LimitByIP(h.cfg.API.RateLimitReqs, h.cfg.API.RateLimitWindow))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/watchlist", func(r chi.Router) {
			r.Post("/", h.AddWatchlistEntry)
			r.Get("/", h.ListWatchlist)
			r.Delete("/{category}/{id}", h.RemoveWatchlistEntry)
		})

		r.Route("/alerts", func(r chi.Router) {
			r.Post("/", h.CreateAlert)
			r.Get("/", h.ListAlerts)
			r.Get("/results", h.AlertResults)
		})

		r.Get("/quotes/{category}/{id}", h.GetQuote)

		r.Route("/indicators", func(r chi.Router) {
			r.Get("/cubes", h.ListCubes)
			r.Get("/cubes/{productID}", h.GetCubeMetadata)
			r.Get("/vectors/{vectorID}", h.GetVectorData)
		})

		r.Delete("/session", h.EndSession)

		r.Route("/health", func(r chi.Router) {
			r.Get("/live", h.HealthLive)
			r.Get("/ready", h.HealthReady)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// chiMiddleware adapts a handler-func middleware to chi's http.Handler
// middleware shape.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}
