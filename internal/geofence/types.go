package geofence

import "time"

// DwellDelay is how long the device must remain inside a boundary
// before the monitor reports an entry. Filters out drive-bys and GPS
// jitter at zone edges.
const DwellDelay = 30 * time.Second

// Registration is one boundary registered with the external monitor.
// The key is the zone ID, so re-registering a zone replaces its
// previous boundary. Registrations never expire on their own.
type Registration struct {
	Key       string  `json:"key"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Radius    float64 `json:"radius"`
}

// TransitionType identifies the kind of boundary crossing.
type TransitionType string

const (
	TransitionEnter TransitionType = "enter"
	TransitionExit  TransitionType = "exit"
	TransitionDwell TransitionType = "dwell"
)

// TransitionEvent is a report from the external boundary monitor.
// Either Error describes a monitor-side failure, or Transition and
// Keys describe which boundaries were crossed.
type TransitionEvent struct {
	Error      bool           `json:"error"`
	ErrorCode  int            `json:"error_code,omitempty"`
	Transition TransitionType `json:"transition,omitempty"`
	Keys       []string       `json:"keys,omitempty"`
}
