package process

import (
	"context"
	"errors"
	"testing"

	"github.com/geosilent/geosilent-core/internal/infrastructure/config"
)

func testLauncher() *Launcher {
	return NewLauncher(config.LauncherConfig{
		Targets: map[string]config.LaunchTargetConfig{
			"true": {Binary: "/bin/true"},
			"echo": {Binary: "/bin/echo", Args: []string{"hello"}},
		},
	}, nil)
}

func TestLaunchUnknownTarget(t *testing.T) {
	l := testLauncher()

	err := l.Launch(context.Background(), "missing")
	if !errors.Is(err, ErrUnknownTarget) {
		t.Errorf("expected ErrUnknownTarget, got %v", err)
	}
	if l.LaunchCount() != 0 {
		t.Errorf("LaunchCount = %d, want 0", l.LaunchCount())
	}
}

func TestLaunchKnownTarget(t *testing.T) {
	l := testLauncher()

	if err := l.Launch(context.Background(), "true"); err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if l.LaunchCount() != 1 {
		t.Errorf("LaunchCount = %d, want 1", l.LaunchCount())
	}
}

func TestLaunchMissingBinary(t *testing.T) {
	l := NewLauncher(config.LauncherConfig{
		Targets: map[string]config.LaunchTargetConfig{
			"ghost": {Binary: "/nonexistent/binary"},
		},
	}, nil)

	err := l.Launch(context.Background(), "ghost")
	if !errors.Is(err, ErrLaunchFailed) {
		t.Errorf("expected ErrLaunchFailed, got %v", err)
	}
}

func TestHasTarget(t *testing.T) {
	l := testLauncher()

	if !l.HasTarget("echo") {
		t.Error("HasTarget(echo) should be true")
	}
	if l.HasTarget("missing") {
		t.Error("HasTarget(missing) should be false")
	}
}
