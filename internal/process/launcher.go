package process

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
	"syscall"

	"github.com/geosilent/geosilent-core/internal/infrastructure/config"
)

// Logger defines the logging interface for the launcher.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Launcher starts configured programs on behalf of zone launch actions.
//
// Targets are an allowlist: a zone names a target identifier, never a
// binary path, and only identifiers present in the launcher config can
// run. Launched processes are detached into their own process group
// and not waited on; the daemon fires them and moves on.
type Launcher struct {
	targets map[string]config.LaunchTargetConfig
	logger  Logger

	mu       sync.Mutex
	launched int
}

// NewLauncher creates a launcher from the configured target map.
// Logger may be nil.
func NewLauncher(cfg config.LauncherConfig, logger Logger) *Launcher {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Launcher{
		targets: cfg.Targets,
		logger:  logger,
	}
}

// Launch starts the program mapped to the target identifier.
//
// Returns ErrUnknownTarget for identifiers not in the allowlist. The
// process is started, detached, and released; its exit status is never
// collected.
func (l *Launcher) Launch(ctx context.Context, target string) error {
	tc, ok := l.targets[target]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTarget, target)
	}

	cmd := exec.Command(tc.Binary, tc.Args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %q: %w", ErrLaunchFailed, target, err)
	}

	pid := cmd.Process.Pid
	if err := cmd.Process.Release(); err != nil {
		l.logger.Warn("releasing launched process", "target", target, "error", err)
	}

	l.mu.Lock()
	l.launched++
	l.mu.Unlock()

	l.logger.Info("program launched", "target", target, "binary", tc.Binary, "pid", pid)
	return nil
}

// HasTarget reports whether a target identifier is configured.
func (l *Launcher) HasTarget(target string) bool {
	_, ok := l.targets[target]
	return ok
}

// LaunchCount returns how many programs have been started.
func (l *Launcher) LaunchCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.launched
}
