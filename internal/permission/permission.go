package permission

import "github.com/geosilent/geosilent-core/internal/infrastructure/config"

// Permission identifies a host capability the daemon may be granted.
type Permission string

const (
	LocationForeground Permission = "location_foreground"
	LocationBackground Permission = "location_background"
	NotificationPolicy Permission = "notification_policy"
	SendMessage        Permission = "send_message"
	LaunchProgram      Permission = "launch_program"
)

// Checker reports which host capabilities have been granted.
type Checker interface {
	Granted(p Permission) bool
	LocationGranted() bool
	Status() Status
}

// Status is the full permission surface, shaped for the API.
type Status struct {
	LocationForeground bool `json:"location_foreground"`
	LocationBackground bool `json:"location_background"`
	NotificationPolicy bool `json:"notification_policy"`
	SendMessage        bool `json:"send_message"`
	LaunchProgram      bool `json:"launch_program"`
}

// ConfigChecker resolves grants from static configuration. A headless
// daemon cannot prompt for consent, so the operator declares grants up
// front and the rest of the system treats them as read-only facts.
type ConfigChecker struct {
	cfg config.PermissionsConfig
}

// NewConfigChecker creates a Checker backed by the given configuration.
func NewConfigChecker(cfg config.PermissionsConfig) *ConfigChecker {
	return &ConfigChecker{cfg: cfg}
}

// Granted reports whether a single capability is granted.
// Unknown permissions are never granted.
func (c *ConfigChecker) Granted(p Permission) bool {
	switch p {
	case LocationForeground:
		return c.cfg.LocationForeground
	case LocationBackground:
		return c.cfg.LocationBackground
	case NotificationPolicy:
		return c.cfg.NotificationPolicy
	case SendMessage:
		return c.cfg.SendMessage
	case LaunchProgram:
		return c.cfg.LaunchProgram
	default:
		return false
	}
}

// LocationGranted reports whether boundary registration is permitted.
// Both foreground and background location are required; registration
// is useless without background delivery.
func (c *ConfigChecker) LocationGranted() bool {
	return c.cfg.LocationForeground && c.cfg.LocationBackground
}

// Status returns the complete grant surface.
func (c *ConfigChecker) Status() Status {
	return Status{
		LocationForeground: c.cfg.LocationForeground,
		LocationBackground: c.cfg.LocationBackground,
		NotificationPolicy: c.cfg.NotificationPolicy,
		SendMessage:        c.cfg.SendMessage,
		LaunchProgram:      c.cfg.LaunchProgram,
	}
}
