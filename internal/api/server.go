// Package api provides the HTTP REST API for GeoSilent Core.
//
// It exposes zone CRUD, preference management, permission status, and
// trigger history to user interfaces (the map UI and CLI tooling).
//
// The server follows the same lifecycle pattern as other infrastructure
// components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/geosilent/geosilent-core/internal/action"
	"github.com/geosilent/geosilent-core/internal/infrastructure/config"
	"github.com/geosilent/geosilent-core/internal/infrastructure/logging"
	"github.com/geosilent/geosilent-core/internal/permission"
	"github.com/geosilent/geosilent-core/internal/prefs"
	"github.com/geosilent/geosilent-core/internal/zone"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Syncer aligns the boundary monitor with the zone store after edits.
type Syncer interface {
	RegisterAll(ctx context.Context) error
	UnregisterAll(ctx context.Context) error
	UnregisterOne(ctx context.Context, zoneID string) error
	Refresh(ctx context.Context) error
}

// HealthChecker reports the health of an infrastructure component.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config     config.APIConfig
	Logger     *logging.Logger
	Zones      zone.Repository
	Prefs      prefs.Store
	Sync       Syncer
	Perms      permission.Checker
	Triggers   action.TriggerLog // optional
	DB         HealthChecker     // optional
	Broker     HealthChecker     // optional
	Version    string
}

// Server is the HTTP API server for GeoSilent Core.
//
// It manages the HTTP listener, routes, and middleware. The server is
// created with New() and started with Start().
type Server struct {
	cfg      config.APIConfig
	logger   *logging.Logger
	zones    zone.Repository
	prefs    prefs.Store
	sync     Syncer
	perms    permission.Checker
	triggers action.TriggerLog
	db       HealthChecker
	broker   HealthChecker
	version  string
	server   *http.Server
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
//
// Returns:
//   - *Server: Configured server ready to start
//   - error: If required dependencies are missing
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Zones == nil {
		return nil, fmt.Errorf("zone repository is required")
	}
	if deps.Prefs == nil {
		return nil, fmt.Errorf("preference store is required")
	}
	if deps.Sync == nil {
		return nil, fmt.Errorf("sync engine is required")
	}
	if deps.Perms == nil {
		return nil, fmt.Errorf("permission checker is required")
	}

	return &Server{
		cfg:      deps.Config,
		logger:   deps.Logger,
		zones:    deps.Zones,
		prefs:    deps.Prefs,
		sync:     deps.Sync,
		perms:    deps.Perms,
		triggers: deps.Triggers,
		db:       deps.DB,
		broker:   deps.Broker,
		version:  deps.Version,
	}, nil
}

// Start begins listening for HTTP connections.
//
// The listener runs in a background goroutine; the server is stopped
// with Close().
//
// Returns:
//   - error: If the server fails to start (port in use, etc.)
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.buildRouter(),
		ReadTimeout:  time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server error", "error", err)
		}
	}()

	s.logger.Info("api server started", "addr", addr)
	return nil
}

// Close gracefully shuts down the HTTP server, waiting for in-flight
// requests up to gracefulShutdownTimeout.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down api server: %w", err)
	}
	return nil
}
