// Package prefs stores global user preferences in SQLite.
//
// The table is a plain key/value store; typed accessors expose the
// three preferences the daemon cares about. Reads of unset keys return
// defaults without writing them, so a fresh database behaves the same
// as one where every default was written explicitly.
package prefs
