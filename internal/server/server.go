// Package server exposes a read-only JSON API over a scraped game archive.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/pfrederiksen/nhl-scores/internal/game"
	"github.com/pfrederiksen/nhl-scores/internal/logger"
)

// Options configures the HTTP server
type Options struct {
	Addr            string
	AllowedOrigins  []string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server serves one archive
type Server struct {
	handler *Handler
	router  chi.Router
	http    *http.Server
	opts    Options
}

// New creates a server for an archive. The archive must not be modified while serving.
func New(archive *game.Archive, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 10 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 10 * time.Second
	}
	if opts.ShutdownTimeout == 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}

	s := &Server{
		handler: NewHandler(archive),
		opts:    opts,
	}
	s.router = s.routes()
	s.http = &http.Server{
		Addr:         opts.Addr,
		Handler:      s.router,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	// Routes
	r.Get("/health", s.handler.HealthCheck)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/seasons", s.handler.ListSeasons)
		r.Get("/seasons/{year}", s.handler.GetSeason)
		r.Get("/summary", s.handler.GetSummary)
		r.Get("/trends", s.handler.GetTrends)
		r.Get("/metrics", s.handler.GetMetrics)
	})

	return r
}

// Handler returns the routed HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("API server started", logger.Fields{"addr": s.opts.Addr})
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down API server", logger.Fields{"timeout": s.opts.ShutdownTimeout.String()})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		logger.IncrCounter("api.requests")
		logger.RecordTiming("api.request", elapsed)
		logger.Debug("Request served", logger.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"duration":   elapsed.String(),
			"request_id": middleware.GetReqID(r.Context()),
		})
	})
}
