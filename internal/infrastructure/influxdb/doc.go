// Package influxdb provides optional trigger and sync telemetry.
//
// When enabled, the daemon records one point per handled zone entry
// and per boundary sync operation. Writes are non-blocking and
// batched; telemetry loss never affects zone handling.
package influxdb
