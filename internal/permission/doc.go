// Package permission exposes the daemon's view of host capability
// grants. Grants are declared in configuration and never change at
// runtime; the sync engine and action executor consult them before
// registering boundaries or driving host primitives.
package permission
