package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/sammcj/localllm-mcp/config"
)

const (
	MCPPath     = "/mcp"
	HealthPath  = "/health"
	MetricsPath = "/metrics"

	readHeaderTimeout = 10 * time.Second
)

// Server is the HTTP transport: the MCP endpoint plus health and metrics
type Server struct {
	cfg      *config.Config
	mcp      http.Handler
	gatherer prometheus.Gatherer
	logger   zerolog.Logger
	srv      *http.Server
	shutdown *ShutdownManager
}

// New creates a new server instance. The closers are released after the listener stops.
func New(cfg *config.Config, mcp http.Handler, gatherer prometheus.Gatherer, logger zerolog.Logger, closers ...Closer) *Server {
	s := &Server{
		cfg:      cfg,
		mcp:      mcp,
		gatherer: gatherer,
		logger:   logger,
	}
	s.srv = &http.Server{
		Addr:              cfg.Address(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	s.shutdown = NewShutdownManager(s.srv, logger, closers...)
	return s
}

// Handler returns the routing for all endpoints
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(MCPPath, s.mcp)
	mux.HandleFunc(HealthPath, s.handleHealth)
	if s.gatherer != nil {
		mux.Handle(MetricsPath, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return mux
}

// Start listens until the server is shut down
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.srv.Addr).Str("path", MCPPath).Msg("Starting MCP server on HTTP")
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Run starts the server and shuts it down gracefully once ctx is done
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	if err := s.Shutdown(); err != nil {
		return err
	}
	return <-errCh
}

// Shutdown drains in-flight requests and releases the closers
func (s *Server) Shutdown() error {
	return s.shutdown.Shutdown()
}

// handleHealth provides a health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status, code := "ok", http.StatusOK
	if s.shutdown.IsShuttingDown() {
		status, code = "shutting_down", http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(map[string]string{"status": status}); err != nil {
		s.logger.Error().Err(err).Msg("Failed to write health response")
	}
}
