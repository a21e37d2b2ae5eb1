// Package process launches host programs for zone launch actions.
// Launches are one-shot and detached; the daemon never supervises or
// restarts what it starts.
package process
