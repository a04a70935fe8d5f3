// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/velmoras/lectoria/internal/core/banner"
	"github.com/velmoras/lectoria/internal/core/story"
	"github.com/velmoras/lectoria/internal/core/taxonomy"
	"github.com/velmoras/lectoria/internal/importer"
	"github.com/velmoras/lectoria/internal/platform/adminauth"
	"github.com/velmoras/lectoria/internal/platform/config"
	"github.com/velmoras/lectoria/internal/platform/constants"
	"github.com/velmoras/lectoria/internal/platform/middleware"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles the admin session endpoints (login, logout).
	Auth *adminauth.Handler

	// Story handles public catalogue discovery, the chapter reader, and
	// admin curation of stories and chapters.
	Story *story.Handler

	// Banner handles the promotional carousel, public and admin sides.
	Banner *banner.Handler

	// Taxonomy handles the public category/tag vocabulary.
	Taxonomy *taxonomy.Handler

	// Importer handles the admin ingestion endpoints (ZIP, PDF, bulk chapters).
	Importer *importer.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, sessions *adminauth.Service, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	r.Route("/api/v1", func(api chi.Router) {

		// ## Public Catalogue
		api.Group(func(public chi.Router) {
			public.Use(chimw.Timeout(constants.GlobalRequestTimeout))

			public.Mount("/stories", h.Story.Routes())
			public.Mount("/banners", h.Banner.Routes())
			h.Taxonomy.RegisterRoutes(public)
		})

		// ## Admin Back Office
		api.Route("/admin", func(admin chi.Router) {
			h.Auth.RegisterRoutes(admin)

			admin.Group(func(guarded chi.Router) {
				guarded.Use(adminauth.RequireAdmin(sessions))
				// Imports may run OCR over a full document before responding.
				guarded.Use(chimw.Timeout(constants.ImportRequestTimeout))

				h.Importer.RegisterRoutes(guarded)
				h.Story.RegisterAdminRoutes(guarded)
				guarded.Mount("/banners", h.Banner.AdminRoutes())
			})
		})
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
