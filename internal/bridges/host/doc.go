// Package host bridges zone actions to the host agent over MQTT.
// Ringer, do-not-disturb, and SMS commands each get their own command
// topic under geosilent/host/command.
package host
