package mqtt

import "fmt"

// Topic prefixes for the GeoSilent MQTT surface.
//
// The daemon talks to two external subsystems over MQTT: the boundary
// monitor (registers boundaries, reports transitions) and the host
// bridge (ringer, do-not-disturb, SMS primitives).
const (
	// TopicPrefix is the base for all GeoSilent topics.
	TopicPrefix = "geosilent"

	// TopicPrefixMonitor is the base for boundary monitor topics.
	TopicPrefixMonitor = "geosilent/monitor"

	// TopicPrefixHost is the base for host bridge topics.
	TopicPrefixHost = "geosilent/host"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "geosilent/system"
)

// Topics provides builders for GeoSilent MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	topics.MonitorTransition() // "geosilent/monitor/transition"
type Topics struct{}

// =============================================================================
// Boundary Monitor Topics
// =============================================================================

// MonitorRegister returns the topic for boundary registration batches
// sent to the monitor.
//
// Example: geosilent/monitor/register
func (Topics) MonitorRegister() string {
	return fmt.Sprintf("%s/register", TopicPrefixMonitor)
}

// MonitorUnregister returns the topic for boundary removal commands
// sent to the monitor.
//
// Example: geosilent/monitor/unregister
func (Topics) MonitorUnregister() string {
	return fmt.Sprintf("%s/unregister", TopicPrefixMonitor)
}

// MonitorTransition returns the topic the monitor publishes boundary
// crossing reports to.
//
// Example: geosilent/monitor/transition
func (Topics) MonitorTransition() string {
	return fmt.Sprintf("%s/transition", TopicPrefixMonitor)
}

// =============================================================================
// Host Bridge Topics
// =============================================================================

// HostCommand returns the topic for a command to a host primitive.
//
// Example: geosilent/host/command/ringer
func (Topics) HostCommand(primitive string) string {
	return fmt.Sprintf("%s/command/%s", TopicPrefixHost, primitive)
}

// =============================================================================
// System Topics
// =============================================================================

// SystemStatus returns the topic for daemon online/offline status.
// Retained so new subscribers immediately see the current state.
//
// Example: geosilent/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}
