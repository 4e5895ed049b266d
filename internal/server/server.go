// Package server exposes the parse pipeline over HTTP: a full parse
// endpoint, partial endpoints for intent and entities alone, plus health
// and Prometheus metrics.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/common/config"
	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/common/logger"
	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/notify"
	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/pipeline"
)

// Server serves the voice-agent HTTP API.
type Server struct {
	pipeline *pipeline.Pipeline
	notifier *notify.Notifier
	cfg      config.Config
	log      logger.Logger
	httpSrv  *http.Server
}

// New creates the API server. The notifier may be nil when escalation
// alerts are disabled.
func New(p *pipeline.Pipeline, notifier *notify.Notifier, cfg config.Config, log logger.Logger) *Server {
	s := &Server{
		pipeline: p,
		notifier: notifier,
		cfg:      cfg,
		log:      log,
	}

	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      s.Handler(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}
	return s
}

// Handler builds the route table. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleHealth)
	mux.HandleFunc("/voice-agent/parse", s.handleParse)
	mux.HandleFunc("/voice-agent/intent-only", s.handleIntentOnly)
	mux.HandleFunc("/voice-agent/entities-only", s.handleEntitiesOnly)
	mux.HandleFunc("/voice-agent/catalog", s.handleCatalog)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// Start runs the HTTP server until Shutdown or a listener error.
func (s *Server) Start() error {
	s.log.Info("http server starting", map[string]interface{}{
		"address": s.httpSrv.Addr,
	})
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}
