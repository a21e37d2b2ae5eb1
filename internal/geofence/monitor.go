package geofence

import "context"

// Monitor is the external boundary-watching subsystem. The daemon does
// not evaluate positions itself; it hands boundaries to the monitor
// and reacts to the transition events the monitor sends back.
type Monitor interface {
	// AddRegistrations registers a batch of boundaries in one call.
	// Registrations keyed by an already-registered zone ID replace the
	// existing boundary.
	AddRegistrations(ctx context.Context, regs []Registration) error

	// Remove unregisters a single boundary by key. Implementations
	// return ErrRegistrationNotFound when the key is unknown.
	Remove(ctx context.Context, key string) error

	// RemoveAll unregisters every boundary owned by this daemon.
	RemoveAll(ctx context.Context) error
}
