package geofence

import "errors"

var (
	// ErrPermissionDenied is returned when boundary registration is
	// attempted without both location grants.
	ErrPermissionDenied = errors.New("geofence: location permission denied")

	// ErrRegistrationNotFound is returned by monitors when removing a
	// key that is not registered.
	ErrRegistrationNotFound = errors.New("geofence: registration not found")
)
