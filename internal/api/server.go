// Package api exposes the optimizer pipeline over HTTP. Every endpoint
// is a thin translation layer: parse and validate input, call one
// pipeline operation, serialize the result. The client poller supplies
// all scheduling.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/mhaveles/airbnboptimizer/internal/config"
	"github.com/mhaveles/airbnboptimizer/internal/pipeline"
	"github.com/mhaveles/airbnboptimizer/internal/pkg/logger"
)

// Server is the HTTP API server.
type Server struct {
	handlers *Handlers
	server   *http.Server
}

// NewServer creates the API server.
func NewServer(svc *pipeline.Service, normalizer *pipeline.URLNormalizer, health *HealthChecker, cfg config.Config) *Server {
	handlers := NewHandlers(svc, normalizer, cfg.Payment.WebhookSecret)
	router := SetupRoutes(handlers, health, cfg.Server)
	return &Server{
		handlers: handlers,
		server: &http.Server{
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			// Scrape and model calls run inside requests; keep the write
			// window above the slowest vendor timeout.
			WriteTimeout: 2 * time.Minute,
			IdleTimeout:  2 * time.Minute,
		},
	}
}

// ListenAndServe starts the HTTP server on addr.
func (s *Server) ListenAndServe(addr string) error {
	s.server.Addr = addr
	logger.Info("api server listening", "addr", addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
