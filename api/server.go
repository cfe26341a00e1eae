/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Read-only cross-origin access to the JSON API

ROUTE GROUPS:
  /                     Dashboard page
  /api/charts/*         Chart figures and PNGs
  /api/views/*          Derived views
  /api/summary          Headline figures
  /healthz              Liveness

SECURITY NOTE:
  No authentication. The dashboard is meant to run locally for one user.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/", h.Index)
	r.Get("/healthz", h.Health)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/charts", func(r chi.Router) {
			r.Get("/", h.ListCharts)
			r.Get("/{id}", h.GetChart)
			r.Get("/{id}/png", h.GetChartPNG)
		})

		r.Route("/views", func(r chi.Router) {
			r.Get("/", h.ListViews)
			r.Get("/{name}", h.GetView)
		})

		r.Get("/summary", h.GetSummary)
	})

	return r
}
