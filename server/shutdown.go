package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ShutdownTimeout bounds how long in-flight requests may take to drain
const ShutdownTimeout = 30 * time.Second

// Closer is a resource released after the listener stops
type Closer interface {
	Close() error
}

// ShutdownManager handles graceful shutdown
type ShutdownManager struct {
	server     *http.Server
	closers    []Closer
	timeout    time.Duration
	once       sync.Once
	shutdownCh chan struct{}
	logger     zerolog.Logger
}

// NewShutdownManager creates a new shutdown manager
func NewShutdownManager(srv *http.Server, logger zerolog.Logger, closers ...Closer) *ShutdownManager {
	return &ShutdownManager{
		server:     srv,
		closers:    closers,
		timeout:    ShutdownTimeout,
		shutdownCh: make(chan struct{}),
		logger:     logger,
	}
}

// Shutdown stops accepting connections, drains in-flight requests and releases resources.
// Calls after the first are no-ops.
func (sm *ShutdownManager) Shutdown() error {
	var err error
	sm.once.Do(func() {
		close(sm.shutdownCh)
		sm.logger.Info().Dur("timeout", sm.timeout).Msg("Shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), sm.timeout)
		defer cancel()

		err = sm.performGracefulShutdown(ctx)
		if err != nil {
			sm.logger.Error().Err(err).Msg("Shutdown finished with errors")
			return
		}
		sm.logger.Info().Msg("Graceful shutdown completed")
	})
	return err
}

// performGracefulShutdown handles the actual shutdown sequence
func (sm *ShutdownManager) performGracefulShutdown(ctx context.Context) error {
	var errs []error

	if sm.server != nil {
		if err := sm.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
		}
	}

	for _, c := range sm.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close error: %w", err))
		}
	}

	return errors.Join(errs...)
}

// IsShuttingDown returns true if shutdown has been initiated
func (sm *ShutdownManager) IsShuttingDown() bool {
	select {
	case <-sm.shutdownCh:
		return true
	default:
		return false
	}
}
