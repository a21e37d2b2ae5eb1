package action

import (
	"context"
	"time"

	"github.com/geosilent/geosilent-core/internal/permission"
	"github.com/geosilent/geosilent-core/internal/prefs"
	"github.com/geosilent/geosilent-core/internal/zone"
)

// Ringer controls the host ringer mode.
type Ringer interface {
	SetSilent(ctx context.Context) error
	SetNormal(ctx context.Context) error
}

// PolicyController controls the host do-not-disturb state.
type PolicyController interface {
	EnableDND(ctx context.Context) error
	DisableDND(ctx context.Context) error
}

// Messenger sends a text message through the host.
type Messenger interface {
	Send(ctx context.Context, recipient, body string) error
}

// Launcher starts a configured program on the host.
type Launcher interface {
	Launch(ctx context.Context, target string) error
}

// Logger is the minimal logging interface the executor needs.
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

// Step identifies one action in the execution sequence.
type Step string

const (
	StepSilent Step = "silent"
	StepDND    Step = "dnd"
	StepSMS    Step = "sms"
	StepLaunch Step = "launch"
)

// StepResult records what happened to a single step.
type StepResult struct {
	Step    Step   `json:"step"`
	Ran     bool   `json:"ran"`
	Skipped string `json:"skipped,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Outcome records a full execution pass over one zone.
type Outcome struct {
	ZoneID      string       `json:"zone_id"`
	ZoneName    string       `json:"zone_name"`
	TriggeredAt time.Time    `json:"triggered_at"`
	Steps       []StepResult `json:"steps"`
}

// Failed reports whether any step that ran returned an error.
func (o Outcome) Failed() bool {
	for _, s := range o.Steps {
		if s.Error != "" {
			return true
		}
	}
	return false
}

// Executor drives the host actions configured on a zone.
//
// Execution order is fixed: silent, DND, SMS, launch. Each step runs
// independently; a failure is recorded and the remaining steps still
// run. Steps are skipped, never failed, when their flag is off, their
// capability is ungranted, or their parameters are empty.
type Executor struct {
	ringer    Ringer
	policy    PolicyController
	messenger Messenger
	launcher  Launcher
	perms     permission.Checker
	prefs     prefs.Store
	logger    Logger
}

// NewExecutor creates an action executor. Any capability may be nil;
// its steps are then skipped as ungranted. Logger may be nil.
func NewExecutor(
	ringer Ringer,
	policy PolicyController,
	messenger Messenger,
	launcher Launcher,
	perms permission.Checker,
	prefStore prefs.Store,
	logger Logger,
) *Executor {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Executor{
		ringer:    ringer,
		policy:    policy,
		messenger: messenger,
		launcher:  launcher,
		perms:     perms,
		prefs:     prefStore,
		logger:    logger,
	}
}

// Execute runs the entry actions for a zone and returns the per-step
// outcome. It never returns early: all four steps are always attempted
// in order, and the outcome records each one.
func (e *Executor) Execute(ctx context.Context, z *zone.Zone) Outcome {
	outcome := Outcome{
		ZoneID:      z.ID,
		ZoneName:    z.DisplayName(),
		TriggeredAt: time.Now().UTC(),
	}

	outcome.Steps = append(outcome.Steps, e.runSilent(ctx, z))
	outcome.Steps = append(outcome.Steps, e.runDND(ctx, z))
	outcome.Steps = append(outcome.Steps, e.runSMS(ctx, z))
	outcome.Steps = append(outcome.Steps, e.runLaunch(ctx, z))

	e.logger.Info("zone actions executed",
		"zone_id", z.ID,
		"zone", z.DisplayName(),
		"failed", outcome.Failed(),
	)
	return outcome
}

// RestoreNormalMode reverses the silencing actions: ringer back to
// normal and do-not-disturb off. Nothing calls this yet; exit
// transitions are not registered, so entry effects persist until the
// user reverts them. Kept for a future exit-to-restore feature.
func (e *Executor) RestoreNormalMode(ctx context.Context) error {
	if e.ringer != nil && e.perms.Granted(permission.NotificationPolicy) {
		if err := e.ringer.SetNormal(ctx); err != nil {
			return err
		}
	}
	if e.policy != nil && e.perms.Granted(permission.NotificationPolicy) {
		if err := e.policy.DisableDND(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (e *Executor) runSilent(ctx context.Context, z *zone.Zone) StepResult {
	result := StepResult{Step: StepSilent}
	if !z.EnableSilent {
		result.Skipped = "disabled"
		return result
	}
	if e.ringer == nil || !e.perms.Granted(permission.NotificationPolicy) {
		result.Skipped = "capability not granted"
		return result
	}
	if err := e.ringer.SetSilent(ctx); err != nil {
		result.Error = err.Error()
		e.logger.Error("silent mode failed", "zone_id", z.ID, "error", err)
		return result
	}
	result.Ran = true
	return result
}

func (e *Executor) runDND(ctx context.Context, z *zone.Zone) StepResult {
	result := StepResult{Step: StepDND}
	if !z.EnableDND {
		result.Skipped = "disabled"
		return result
	}
	if e.policy == nil || !e.perms.Granted(permission.NotificationPolicy) {
		result.Skipped = "capability not granted"
		return result
	}
	if err := e.policy.EnableDND(ctx); err != nil {
		result.Error = err.Error()
		e.logger.Error("do-not-disturb failed", "zone_id", z.ID, "error", err)
		return result
	}
	result.Ran = true
	return result
}

func (e *Executor) runSMS(ctx context.Context, z *zone.Zone) StepResult {
	result := StepResult{Step: StepSMS}
	if !z.EnableSMS {
		result.Skipped = "disabled"
		return result
	}
	if e.messenger == nil || !e.perms.Granted(permission.SendMessage) {
		result.Skipped = "capability not granted"
		return result
	}
	if z.SMSRecipient == "" {
		result.Skipped = "no recipient"
		return result
	}

	body := z.SMSMessage
	if body == "" {
		body = e.defaultSMSBody(ctx)
	}

	if err := e.messenger.Send(ctx, z.SMSRecipient, body); err != nil {
		result.Error = err.Error()
		e.logger.Error("message send failed", "zone_id", z.ID, "error", err)
		return result
	}
	result.Ran = true
	return result
}

func (e *Executor) runLaunch(ctx context.Context, z *zone.Zone) StepResult {
	result := StepResult{Step: StepLaunch}
	if !z.EnableLaunch {
		result.Skipped = "disabled"
		return result
	}
	if e.launcher == nil || !e.perms.Granted(permission.LaunchProgram) {
		result.Skipped = "capability not granted"
		return result
	}
	if z.LaunchTarget == "" {
		result.Skipped = "no target"
		return result
	}
	if err := e.launcher.Launch(ctx, z.LaunchTarget); err != nil {
		result.Error = err.Error()
		e.logger.Error("program launch failed", "zone_id", z.ID, "target", z.LaunchTarget, "error", err)
		return result
	}
	result.Ran = true
	return result
}

func (e *Executor) defaultSMSBody(ctx context.Context) string {
	if e.prefs == nil {
		return prefs.DefaultSMSBody
	}
	body, err := e.prefs.DefaultSMSMessage(ctx)
	if err != nil || body == "" {
		return prefs.DefaultSMSBody
	}
	return body
}
