// Package monitor bridges the daemon to the external boundary monitor
// over MQTT. It implements geofence.Monitor for outbound registration
// commands and decodes inbound transition reports into the event
// stream the transition handler consumes.
package monitor
