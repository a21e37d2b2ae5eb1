package geofence

import (
	"context"
	"errors"
	"fmt"

	"github.com/geosilent/geosilent-core/internal/permission"
	"github.com/geosilent/geosilent-core/internal/zone"
)

// Logger is the minimal logging interface the engine needs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// SyncMetrics receives boundary sync telemetry. May be nil.
type SyncMetrics interface {
	RecordSync(operation string, count int, err error)
}

// SyncEngine keeps the monitor's registered boundaries aligned with
// the enabled zones in the store.
type SyncEngine struct {
	zones   zone.Repository
	monitor Monitor
	perms   permission.Checker
	logger  Logger
	metrics SyncMetrics
}

// NewSyncEngine creates a boundary sync engine. Logger may be nil.
func NewSyncEngine(zones zone.Repository, monitor Monitor, perms permission.Checker, logger Logger) *SyncEngine {
	if logger == nil {
		logger = noopLogger{}
	}
	return &SyncEngine{
		zones:   zones,
		monitor: monitor,
		perms:   perms,
		logger:  logger,
	}
}

// SetMetrics attaches a telemetry sink for sync operations.
func (e *SyncEngine) SetMetrics(metrics SyncMetrics) {
	e.metrics = metrics
}

func (e *SyncEngine) recordSync(operation string, count int, err error) {
	if e.metrics != nil {
		e.metrics.RecordSync(operation, count, err)
	}
}

// RegisterAll registers every enabled zone with the monitor in a
// single batch.
//
// With no enabled zones this is a no-op: no monitor call is made and
// no permission check happens. With zones to register, both location
// grants are required or the call aborts with ErrPermissionDenied
// before touching the monitor.
func (e *SyncEngine) RegisterAll(ctx context.Context) error {
	zones, err := e.zones.ListEnabled(ctx)
	if err != nil {
		return fmt.Errorf("listing enabled zones: %w", err)
	}
	if len(zones) == 0 {
		e.logger.Debug("no enabled zones, skipping registration")
		return nil
	}

	if !e.perms.LocationGranted() {
		e.logger.Warn("registration aborted", "reason", "location permission denied")
		return ErrPermissionDenied
	}

	regs := make([]Registration, 0, len(zones))
	for _, z := range zones {
		regs = append(regs, Registration{
			Key:       z.ID,
			Latitude:  z.Latitude,
			Longitude: z.Longitude,
			Radius:    z.Radius,
		})
	}

	if err := e.monitor.AddRegistrations(ctx, regs); err != nil {
		e.recordSync("register_all", len(regs), err)
		return fmt.Errorf("registering boundaries: %w", err)
	}

	e.recordSync("register_all", len(regs), nil)
	e.logger.Info("boundaries registered", "count", len(regs))
	return nil
}

// UnregisterAll removes every registered boundary.
func (e *SyncEngine) UnregisterAll(ctx context.Context) error {
	if err := e.monitor.RemoveAll(ctx); err != nil {
		e.recordSync("unregister_all", 0, err)
		return fmt.Errorf("unregistering boundaries: %w", err)
	}
	e.recordSync("unregister_all", 0, nil)
	e.logger.Info("boundaries unregistered")
	return nil
}

// UnregisterOne removes a single boundary by zone ID. Removing a key
// the monitor does not know is not an error; the desired end state is
// reached either way.
func (e *SyncEngine) UnregisterOne(ctx context.Context, zoneID string) error {
	err := e.monitor.Remove(ctx, zoneID)
	if err != nil {
		if errors.Is(err, ErrRegistrationNotFound) {
			e.logger.Debug("boundary already absent", "zone_id", zoneID)
			return nil
		}
		return fmt.Errorf("unregistering boundary: %w", err)
	}
	e.logger.Debug("boundary unregistered", "zone_id", zoneID)
	return nil
}

// Refresh rebuilds the monitor's registrations from the store by
// unregistering everything and then registering the current enabled
// set.
//
// The two calls are not atomic. A transition arriving between them is
// lost, and a failure after the first call leaves nothing registered
// until the next refresh. Accepted: refreshes are rare, driven by
// explicit edits, and the window is milliseconds.
func (e *SyncEngine) Refresh(ctx context.Context) error {
	if err := e.UnregisterAll(ctx); err != nil {
		return err
	}
	return e.RegisterAll(ctx)
}
