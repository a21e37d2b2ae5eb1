// Package zone provides the persistent store for geographic zones and
// the write-time invariants applied to them.
//
// A zone is a circular region with a set of device actions to perform
// on entry. The store clamps radii into [MinRadius, MaxRadius] and
// forces the silent-mode action on for every zone; callers never see a
// persisted zone that violates either rule.
//
// Repository is the persistence interface; SQLiteRepository is the
// production implementation. NotifyingRepository layers change events
// on top so the boundary sync engine can react to edits.
package zone
