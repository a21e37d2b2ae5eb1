package geofence

import (
	"context"
	"errors"
	"time"

	"github.com/geosilent/geosilent-core/internal/action"
	"github.com/geosilent/geosilent-core/internal/zone"
)

// ActionRunner executes the entry actions for a zone.
type ActionRunner interface {
	Execute(ctx context.Context, z *zone.Zone) action.Outcome
}

// AutomationGate reports the global automation toggle.
type AutomationGate interface {
	AutomationEnabled(ctx context.Context) (bool, error)
}

// TriggerRecorder persists executor outcomes. May be nil.
type TriggerRecorder interface {
	Record(ctx context.Context, outcome action.Outcome) error
}

// MetricsRecorder emits trigger telemetry. May be nil.
type MetricsRecorder interface {
	RecordTrigger(zoneID, zoneName string, failed bool)
}

// Handler consumes transition events from the monitor and triggers
// zone actions on entry.
type Handler struct {
	zones    zone.Repository
	runner   ActionRunner
	gate     AutomationGate
	triggers TriggerRecorder
	metrics  MetricsRecorder
	logger   Logger
}

// NewHandler creates a transition handler. Triggers, metrics, and
// logger may be nil.
func NewHandler(
	zones zone.Repository,
	runner ActionRunner,
	gate AutomationGate,
	triggers TriggerRecorder,
	metrics MetricsRecorder,
	logger Logger,
) *Handler {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Handler{
		zones:    zones,
		runner:   runner,
		gate:     gate,
		triggers: triggers,
		metrics:  metrics,
		logger:   logger,
	}
}

// Run consumes events until the channel closes or the context is
// cancelled.
func (h *Handler) Run(ctx context.Context, events <-chan TransitionEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			h.HandleEvent(ctx, event)
		}
	}
}

// HandleEvent processes one transition report.
//
// Drops, in check order: monitor-side errors, empty key sets,
// non-entry transitions, and everything while the global automation
// toggle is off. Each surviving key is then handled independently;
// a failure on one zone never affects the others.
func (h *Handler) HandleEvent(ctx context.Context, event TransitionEvent) {
	if event.Error {
		h.logger.Error("monitor reported error", "code", event.ErrorCode)
		return
	}
	if len(event.Keys) == 0 {
		h.logger.Debug("transition with no keys dropped")
		return
	}
	if event.Transition != TransitionEnter {
		h.logger.Debug("non-entry transition dropped", "transition", string(event.Transition))
		return
	}

	enabled, err := h.gate.AutomationEnabled(ctx)
	if err != nil {
		h.logger.Error("reading automation toggle", "error", err)
		return
	}
	if !enabled {
		h.logger.Info("entry dropped, automation disabled", "keys", len(event.Keys))
		return
	}

	for _, key := range event.Keys {
		h.handleEntry(ctx, key)
	}
}

func (h *Handler) handleEntry(ctx context.Context, zoneID string) {
	z, err := h.zones.GetByID(ctx, zoneID)
	if err != nil {
		if errors.Is(err, zone.ErrNotFound) {
			h.logger.Warn("entry for unknown zone skipped", "zone_id", zoneID)
			return
		}
		h.logger.Error("loading zone for entry", "zone_id", zoneID, "error", err)
		return
	}
	if !z.Enabled {
		h.logger.Debug("entry for disabled zone skipped", "zone_id", zoneID)
		return
	}

	h.logger.Info("zone entered", "zone_id", z.ID, "zone", z.DisplayName())

	outcome := h.runner.Execute(ctx, z)

	if h.triggers != nil {
		if err := h.triggers.Record(ctx, outcome); err != nil {
			h.logger.Error("recording trigger", "zone_id", z.ID, "error", err)
		}
	}
	if h.metrics != nil {
		h.metrics.RecordTrigger(z.ID, z.DisplayName(), outcome.Failed())
	}

	if err := h.zones.SetLastTriggered(ctx, z.ID, time.Now().UTC()); err != nil {
		h.logger.Error("updating last triggered", "zone_id", z.ID, "error", err)
	}
}
