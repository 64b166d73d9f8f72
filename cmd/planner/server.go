package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fplkit/planner/internal/core/plan"
	"github.com/fplkit/planner/internal/shell/api"
	"github.com/fplkit/planner/internal/shell/catalog"
	"github.com/fplkit/planner/internal/shell/fplapi"
	"github.com/fplkit/planner/internal/shell/planner"
	"github.com/fplkit/planner/internal/shell/predictor"
	"github.com/fplkit/planner/internal/shell/refresh"
	"github.com/fplkit/planner/internal/shell/store"
)

// =============================================================================
// Exit Codes
// =============================================================================

const (
	ExitSuccess         = 0
	ExitConfigError     = 1
	ExitDatabaseError   = 2
	ExitHTTPServerError = 3
)

// =============================================================================
// Server
// =============================================================================

// Server represents the planner application server.
type Server struct {
	config     *Config
	httpServer *http.Server
	store      store.Store
	refresher  *refresh.Service
	logger     *slog.Logger
}

// NewServer creates a new server with the given config.
func NewServer(cfg *Config, logger *slog.Logger) (*Server, error) {
	// Connect to database
	s, err := store.NewSQLiteStore(cfg.Database.DSN)
	if err != nil {
		return nil, &ServerError{
			Op:       "NewServer",
			Err:      err,
			ExitCode: ExitDatabaseError,
		}
	}

	// Upstream clients
	fpl := fplapi.New(cfg.Fantasy.BaseURL, cfg.Fantasy.Timeout, logger)

	var pred *predictor.Client
	var catalogPredictor catalog.Predictor
	if cfg.Predictor.BaseURL != "" {
		pred = predictor.New(cfg.Predictor.BaseURL, cfg.Predictor.Timeout, logger)
		catalogPredictor = pred
		logger.Info("predictor enabled", "base_url", cfg.Predictor.BaseURL)
	} else {
		logger.Info("predictor disabled, predicted points default to zero")
	}

	cat := catalog.New(fpl, catalogPredictor, logger)

	// Planning service
	svc := planner.New(s, cat, logger)
	if cfg.Transfers.Policy == "accumulating" {
		svc.SetFreeTransferPolicy(plan.AccumulatingFreeTransfers(cfg.Transfers.MaxBanked))
		logger.Info("accumulating free transfers", "max_banked", cfg.Transfers.MaxBanked)
	}

	// Scheduled catalog refresh
	var refresher *refresh.Service
	if cfg.Refresh.Enabled {
		refresher = refresh.New(cat, cfg.Refresh.Schedule, logger)
	} else {
		logger.Info("scheduled catalog refresh disabled")
	}

	handler := api.NewHandler(svc, cat, pred, logger)

	httpServer := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      handler.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &Server{
		config:     cfg,
		httpServer: httpServer,
		store:      s,
		refresher:  refresher,
		logger:     logger,
	}, nil
}

// Start starts the server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Start scheduled catalog refresh
	if s.refresher != nil {
		if err := s.refresher.Start(); err != nil {
			return &ServerError{
				Op:       "Start",
				Err:      err,
				ExitCode: ExitConfigError,
			}
		}
	}

	// Start HTTP server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server",
			"address", s.config.Server.Address())
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case sig := <-sigCh:
		s.logger.Info("received shutdown signal", "signal", sig)
	case err := <-errCh:
		return &ServerError{
			Op:       "Start",
			Err:      err,
			ExitCode: ExitHTTPServerError,
		}
	case <-ctx.Done():
		s.logger.Info("context cancelled")
	}

	return s.Shutdown(context.Background())
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("initiating graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	if s.refresher != nil {
		s.refresher.Stop()
	}

	if err := s.store.Close(); err != nil {
		s.logger.Error("database close error", "error", err)
	}

	s.logger.Info("shutdown complete")
	return nil
}

// =============================================================================
// Server Error
// =============================================================================

// ServerError represents an error during server operation.
type ServerError struct {
	Op       string
	Err      error
	ExitCode int
}

func (e *ServerError) Error() string {
	return e.Op + ": " + e.Err.Error()
}
