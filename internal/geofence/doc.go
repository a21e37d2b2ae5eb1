// Package geofence is the core of the daemon: it keeps the external
// boundary monitor's registrations in sync with the zone store and
// turns the monitor's entry reports into executed zone actions.
//
// The monitor itself is out of process; the Monitor interface is its
// contract, implemented over MQTT in the bridges tree. Only entry
// transitions are acted on, after the monitor's dwell delay, and only
// while the global automation toggle is on.
package geofence
