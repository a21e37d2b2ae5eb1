package zone

import "errors"

// Domain errors for the zone package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, zone.ErrNotFound) {
//	    // handle not found case
//	}
var (
	// ErrNotFound is returned when a zone ID does not exist.
	ErrNotFound = errors.New("zone: not found")

	// ErrExists is returned when creating a zone with an ID that already exists.
	ErrExists = errors.New("zone: already exists")

	// ErrInvalidCoordinates is returned when latitude or longitude is out of range.
	ErrInvalidCoordinates = errors.New("zone: invalid coordinates")
)
