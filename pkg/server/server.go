// Package server exposes the conversion pipeline over HTTP.
//
// Routes:
//
//	POST /v1/convert   raw image bytes in, SVG document out
//	GET  /v1/stats     running counters as JSON
//	GET  /healthz      liveness and build information
//
// The server shares one [pipeline.Runner] between requests, so concurrent
// uploads of the same image are served from the runner's cache once the
// first conversion has finished.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/png2svg/pkg/observability"
	"github.com/matzehuels/png2svg/pkg/pipeline"
)

const (
	// DefaultAddr is the listen address used when Config.Addr is empty.
	DefaultAddr = ":8080"

	// DefaultMaxUploadBytes bounds request bodies (32 MiB).
	DefaultMaxUploadBytes int64 = 32 << 20

	shutdownTimeout = 10 * time.Second
)

// Config controls the HTTP server.
type Config struct {
	Addr           string
	MaxUploadBytes int64

	// Options are the base conversion options; requests may only toggle
	// KeepEveryPoint.
	Options pipeline.Options
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = DefaultMaxUploadBytes
	}
}

// Server is the HTTP front end for a pipeline runner.
type Server struct {
	cfg      Config
	runner   *pipeline.Runner
	counters *observability.Counters
	logger   *log.Logger
	router   chi.Router
}

// New builds a server. counters may be nil, in which case /v1/stats reports
// zeros. The caller registers counters as observability hooks.
func New(runner *pipeline.Runner, counters *observability.Counters, logger *log.Logger, cfg Config) *Server {
	cfg.setDefaults()
	if counters == nil {
		counters = observability.NewCounters()
	}
	if logger == nil {
		logger = runner.Logger
	}
	s := &Server{
		cfg:      cfg,
		runner:   runner,
		counters: counters,
		logger:   logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/convert", s.handleConvert)
		r.Get("/stats", s.handleStats)
	})
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
