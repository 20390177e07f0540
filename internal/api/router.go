// Package api provides HTTP router setup.
package api

import (
	"io/fs"
	"net/http"

	"github.com/factchecker/satyata/internal/config"
	"github.com/factchecker/satyata/internal/ratelimit"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates a new HTTP router with all routes configured.
func NewRouter(cfg *config.Config, handler *Handler, limiter *ratelimit.Limiter, staticFS fs.FS) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handler.HealthCheck)

		r.Group(func(r chi.Router) {
			r.Use(AuditMiddleware(handler.store))
			if cfg.Server.RequestTimeout > 0 {
				r.Use(middleware.Timeout(cfg.Server.RequestTimeout))
			}

			r.With(FactCheckRateLimit(limiter)).Post("/fact-check", handler.FactCheck)
			r.Group(func(r chi.Router) {
				if cfg.ImageHost.RequestsPerMinute > 0 {
					r.Use(UploadRateLimit(cfg.ImageHost.RequestsPerMinute))
				}
				r.Post("/upload-image", handler.UploadImage)
			})
		})

		// Admin routes are only mounted when a token is configured.
		if cfg.Server.AdminToken != "" {
			r.Route("/admin", func(r chi.Router) {
				r.Use(AdminAuthMiddleware(cfg.Server.AdminToken))
				r.Get("/audit", handler.GetAuditLogs)
			})
		}
	})

	// Serve static frontend if enabled
	if cfg.Server.EnableUI && staticFS != nil {
		r.Handle("/*", http.FileServer(http.FS(staticFS)))
	}

	return r
}
