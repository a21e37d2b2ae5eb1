package zone

import (
	"fmt"

	"github.com/google/uuid"
)

// Radius bounds in metres. Out-of-range values are clamped at write
// time, never rejected: the map UI slider and the store must agree on
// the same range, and a stale client sending 1000 should degrade to 500
// rather than fail the save.
const (
	MinRadius     = 50.0
	MaxRadius     = 500.0
	DefaultRadius = 100.0
)

// Coordinate bounds (WGS-84 degrees).
const (
	maxLatitude  = 90.0
	maxLongitude = 180.0
)

// GenerateID creates a new unique zone identifier.
func GenerateID() string {
	return uuid.New().String()
}

// ClampRadius forces a radius into the valid range.
// Zero and negative values get the default rather than the minimum:
// they mean "unset", not "very small".
func ClampRadius(radius float64) float64 {
	switch {
	case radius <= 0:
		return DefaultRadius
	case radius < MinRadius:
		return MinRadius
	case radius > MaxRadius:
		return MaxRadius
	default:
		return radius
	}
}

// Normalize applies write-time invariants to a zone in place:
// radius clamping and the mandatory silent-mode flag.
func Normalize(z *Zone) {
	z.Radius = ClampRadius(z.Radius)
	z.EnableSilent = true
}

// Validate checks invariants that cannot be repaired by clamping.
//
// Returns:
//   - error: ErrInvalidCoordinates (wrapped with detail) or nil
func Validate(z *Zone) error {
	if z.Latitude < -maxLatitude || z.Latitude > maxLatitude {
		return fmt.Errorf("%w: latitude %v", ErrInvalidCoordinates, z.Latitude)
	}
	if z.Longitude < -maxLongitude || z.Longitude > maxLongitude {
		return fmt.Errorf("%w: longitude %v", ErrInvalidCoordinates, z.Longitude)
	}
	return nil
}
