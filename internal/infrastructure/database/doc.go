// Package database provides SQLite connection management and schema
// migrations for GeoSilent Core.
//
// The database is the single durable store for zones, preferences, and
// the trigger log. SQLite is used with WAL mode and a single-writer
// connection pool, which matches its concurrency model.
//
// Migrations are plain SQL files embedded into the binary via the
// migrations package and applied in filename order. Each runs in its
// own transaction and is recorded in schema_migrations.
package database
