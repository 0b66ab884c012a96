// Copyright (c) 2025-2026 Vitrine Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/vitrine-cms/vitrine/internal/middleware"
)

// RouterConfig tunes the middleware stack.
type RouterConfig struct {
	RateLimit float64
	RateBurst int
}

// NewRouter builds the chi router for the API and health endpoints.
func NewRouter(h *Handler, health *HealthHandler, cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(30 * time.Second))

	if cfg.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst)
		r.Use(limiter.Middleware())
	}

	r.Get("/health", health.Health)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Route("/api/v1", func(r chi.Router) {
		// Public read path
		r.Get("/homepage", h.Homepage)

		// Admin surface. Authentication is enforced upstream (gateway);
		// the service itself only exposes content operations.
		r.Route("/sections", func(r chi.Router) {
			r.Post("/", h.CreateSection)
			r.Get("/", h.ListSections)
			r.Post("/reorder", h.ReorderSections)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetSection)
				r.Post("/archive", h.ArchiveSection)
				r.Post("/publish", h.PublishVersion)
				r.Put("/products", h.SetSectionProducts)
				r.Put("/categories", h.SetSectionCategories)

				r.Route("/versions", func(r chi.Router) {
					r.Post("/", h.CreateDraft)
					r.Get("/", h.ListVersions)
					r.Post("/{versionID}/revert", h.RevertVersion)
				})
			})
		})

		r.Route("/cache", func(r chi.Router) {
			r.Get("/stats", h.CacheStats)
			r.Post("/purge", h.PurgeCache)
		})

		r.Route("/schedules", func(r chi.Router) {
			r.Post("/", h.CreateSchedule)
			r.Get("/", h.ListSchedules)
			r.Post("/process", h.ProcessSchedules)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetSchedule)
				r.Post("/cancel", h.CancelSchedule)
			})
		})
	})

	return r
}
