// Package web provides the HTTP server that triggers and reports import runs.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/koeppern/gtd-system-sub000/internal/config"
	"github.com/koeppern/gtd-system-sub000/internal/core"
	mw "github.com/koeppern/gtd-system-sub000/internal/web/middleware"
)

// Cache is the part of the lookup cache the server exposes.
type Cache interface {
	Invalidate(types ...core.EntityType)
	Degraded() []core.EntityType
}

// Server is the HTTP front end for the import queue.
type Server struct {
	queue  *core.Queue
	cache  Cache
	cfg    *config.Config
	router *chi.Mux
	server *http.Server
}

// NewServer creates a Server. The queue must be started separately.
func NewServer(queue *core.Queue, cache Cache, cfg *config.Config) *Server {
	s := &Server{
		queue:  queue,
		cache:  cache,
		cfg:    cfg,
		router: chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	s.server = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.Logger("/healthz", s.cfg.Metrics.Path))
	s.router.Use(middleware.Recoverer)
	s.router.Use(securityHeaders)
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	if s.cfg.Metrics.Enabled {
		s.router.Handle(s.cfg.Metrics.Path, promhttp.Handler())
	}

	s.router.Route("/api", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(s.cfg.Security))

		r.Get("/entities", s.handleListEntities)
		r.Post("/imports/{entity}", s.handleStartImport)
		r.Get("/runs/{runID}", s.handleImportStatus)
		r.Post("/cache/invalidate", s.handleInvalidateCache)
	})
}

// Start listens on the configured address until Shutdown. A Shutdown that
// comes first makes Start return immediately.
func (s *Server) Start() error {
	slog.Info("server listening", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders marks every response as non-cacheable JSON that must not
// be sniffed or framed.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}
