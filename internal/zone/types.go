package zone

import "time"

// Zone represents a user-defined circular geographic region with the
// device actions to perform when the device enters it.
type Zone struct {
	// Identity. Assigned on creation, stable across edits, never reused.
	ID string `json:"id"`

	// Display name. May be empty; callers substitute DisplayName().
	Name string `json:"name"`

	// Centre coordinates (WGS-84 degrees) and radius in metres.
	// Radius is clamped to [MinRadius, MaxRadius] at write time.
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Radius    float64 `json:"radius"`

	// Whether this zone participates in boundary registration.
	Enabled bool `json:"enabled"`

	// Actions. Silent mode is mandatory and forced true on every write.
	// A flag may be set while its parameters are empty; the executor
	// guards against that rather than the store rejecting it.
	EnableSilent bool   `json:"enable_silent"`
	EnableDND    bool   `json:"enable_dnd"`
	EnableSMS    bool   `json:"enable_sms"`
	SMSRecipient string `json:"sms_recipient"`
	SMSMessage   string `json:"sms_message"`
	EnableLaunch bool   `json:"enable_launch"`
	LaunchTarget string `json:"launch_target"`
	LaunchName   string `json:"launch_name"`

	// Timestamps. CreatedAt is set once; LastTriggeredAt is updated on
	// each successful entry handling.
	CreatedAt       time.Time  `json:"created_at"`
	LastTriggeredAt *time.Time `json:"last_triggered_at,omitempty"`
}

// DisplayName returns the zone name, or a generic fallback when unset.
func (z *Zone) DisplayName() string {
	if z.Name == "" {
		return "Zone"
	}
	return z.Name
}

// ChangeType identifies the kind of mutation a ChangeEvent describes.
type ChangeType string

const (
	ChangeCreated   ChangeType = "created"
	ChangeUpdated   ChangeType = "updated"
	ChangeDeleted   ChangeType = "deleted"
	ChangeEnabled   ChangeType = "enabled"
	ChangeTriggered ChangeType = "triggered"
)

// ChangeEvent describes a single zone mutation, published to subscribers
// of a notifying repository.
type ChangeEvent struct {
	Type   ChangeType `json:"type"`
	ZoneID string     `json:"zone_id"`
}
