// Package server provides the outer HTTP listener that fronts the
// request pipeline.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"dao-gateway/core/pkg/config"
	"dao-gateway/core/pkg/pipeline"
	"dao-gateway/core/pkg/telemetry/health"
	"dao-gateway/core/pkg/telemetry/logging"
)

// Pipeline is the subset of pipeline.Pipeline the server depends on,
// narrowed so tests can substitute a fake.
type Pipeline interface {
	Handle(ctx context.Context, req *http.Request) (*pipeline.Result, error)
}

// Server is the outer HTTP listener: it accepts connections, hands
// each request to the pipeline, renders the Result onto the wire, and
// exposes the liveness/readiness endpoints.
type Server struct {
	cfg        config.ServerConfig
	pipeline   Pipeline
	checker    *health.Checker
	logger     *logging.Logger
	httpServer *http.Server

	mu           sync.RWMutex
	isRunning    bool
	shutdownOnce sync.Once
	shutdownChan chan struct{}
}

// New builds a Server bound to the given pipeline and health checker.
func New(cfg config.ServerConfig, p Pipeline, checker *health.Checker, logger *logging.Logger) *Server {
	return &Server{
		cfg:          cfg,
		pipeline:     p,
		checker:      checker,
		logger:       logger,
		shutdownChan: make(chan struct{}),
	}
}

// Start starts the HTTP server and blocks until ctx is cancelled or the
// server is shut down through Shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server: already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Addr:           s.cfg.ListenAddr,
		Handler:        s.routes(),
		ReadTimeout:    time.Duration(s.cfg.ReadTimeoutMs) * time.Millisecond,
		WriteTimeout:   time.Duration(s.cfg.WriteTimeoutMs) * time.Millisecond,
		MaxHeaderBytes: 1 << 20,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting gateway listener", "address", s.cfg.ListenAddr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	case <-s.shutdownChan:
		s.logger.Info("shutdown requested")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully drains in-flight requests within the configured
// grace period before closing the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		grace := time.Duration(s.cfg.ShutdownGraceMs) * time.Millisecond
		s.logger.Info("initiating graceful shutdown", "grace", grace.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, grace)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				s.logger.Error("error during shutdown", "error", err.Error())
				shutdownErr = fmt.Errorf("server: shutdown: %w", err)
				_ = s.httpServer.Close()
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("gateway listener stopped")
	})

	return shutdownErr
}

// IsRunning reports whether the listener is currently serving.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the configured HTTP handler, for use in tests with
// httptest.
func (s *Server) Handler() http.Handler {
	return s.routes()
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.checker.LivenessHandler())
	mux.HandleFunc("/ready", s.checker.ReadinessHandler())
	mux.Handle("/", http.HandlerFunc(s.serveProxy))

	return mux
}

// serveProxy hands an inbound request to the pipeline and renders the
// Result, setting the response header contract the gateway promises
// callers: which upstream served the request, the consciousness level
// it was served under, and whether it was also shadowed.
func (s *Server) serveProxy(w http.ResponseWriter, r *http.Request) {
	requestID := r.Header.Get("X-Request-Id")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	ctx := logging.WithRequestID(r.Context(), requestID)

	result, err := s.pipeline.Handle(ctx, r)
	if err != nil {
		s.logger.ErrorContext(ctx, "pipeline error", "error", err.Error())
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	for k, v := range result.Response.Header {
		w.Header()[k] = v
	}
	w.Header().Set("X-Request-Id", requestID)
	if result.UpstreamName != "" {
		w.Header().Set("X-Dao-Upstream", result.UpstreamName)
	}
	w.Header().Set("X-Dao-Consciousness", result.Level.String())
	if result.Shadowed {
		w.Header().Set("X-Dao-Shadow", "1")
	}

	w.WriteHeader(result.Response.StatusCode)
	_, _ = w.Write(result.Response.Body)
}
