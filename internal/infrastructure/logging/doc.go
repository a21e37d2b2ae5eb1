// Package logging provides structured logging for GeoSilent Core.
//
// This package wraps Go's standard log/slog package to provide
// consistent, structured logging across the entire application.
//
// # Features
//
//   - JSON output for production (machine-parsable)
//   - Text output for development (human-readable)
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//   - Thread-safe for concurrent use
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("registered zones", "count", 3)
//	logger.Error("monitor call failed", "error", err)
//
// Never log SMS recipients or message bodies at info level or above;
// they are personal data. Log zone IDs, not coordinates, where possible.
package logging
