// Package mqtt provides the MQTT client for communicating with the
// boundary monitor and the host bridge.
//
// The daemon never evaluates positions or drives hardware directly;
// everything outside the process boundary goes through MQTT:
//
//   - geosilent/monitor/*: boundary registration and transition reports
//   - geosilent/host/*: ringer, do-not-disturb, and SMS primitives
//   - geosilent/system/status: daemon liveness (retained, with LWT)
//
// The client wraps paho.mqtt.golang with subscription tracking, panic
// recovery in handlers, and automatic re-subscription on reconnect.
package mqtt
