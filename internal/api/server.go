// SPDX-License-Identifier: MIT

// Package api implements the admin HTTP server: health, effective config,
// schema introspection, manual reload and Prometheus metrics.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/NVlabs/GraspGen/internal/config"
	"github.com/NVlabs/GraspGen/internal/log"
)

// ConfigSource provides thread-safe access to the effective configuration
// and supports triggering a reload.
type ConfigSource interface {
	Get() config.AppConfig
	Reload(ctx context.Context) (config.ChangeSummary, error)
}

// Server is the admin HTTP server.
type Server struct {
	cfg    config.ServerConfig
	source ConfigSource
	logger zerolog.Logger
}

// NewServer creates an admin server backed by the given config source.
func NewServer(cfg config.ServerConfig, source ConfigSource) *Server {
	return &Server{
		cfg:    cfg,
		source: source,
		logger: log.WithComponent("api"),
	}
}

// Router builds the admin route tree.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(Recoverer)
	r.Use(RequestID)

	r.Get("/healthz", s.handleHealthz)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api/config", func(r chi.Router) {
		r.Get("/", s.handleConfigGet)
		r.Get("/schema", s.handleConfigSchema)
		r.With(ReloadRateLimit()).Post("/reload", s.handleConfigReload)
	})

	return r
}

// Run serves the admin API until ctx is cancelled, then shuts down
// gracefully within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:           s.cfg.ListenAddr,
		Handler:        s.Router(),
		ReadTimeout:    s.cfg.ReadTimeout,
		WriteTimeout:   s.cfg.WriteTimeout,
		IdleTimeout:    s.cfg.IdleTimeout,
		MaxHeaderBytes: s.cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.cfg.ListenAddr).Msg("admin server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("admin server shutdown failed")
		return err
	}

	s.logger.Info().Msg("admin server stopped")
	return <-errCh
}
