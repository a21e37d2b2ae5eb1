package process

import "errors"

var (
	// ErrUnknownTarget is returned when a launch target is not in the
	// configured allowlist.
	ErrUnknownTarget = errors.New("process: unknown launch target")

	// ErrLaunchFailed is returned when the target binary cannot be started.
	ErrLaunchFailed = errors.New("process: launch failed")
)
