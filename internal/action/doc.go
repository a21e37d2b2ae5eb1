// Package action executes the device actions configured on a zone when
// the device enters it.
//
// The executor runs the four possible steps in a fixed order (silent
// mode, do-not-disturb, SMS, program launch) and records a per-step
// outcome. Steps never short-circuit each other: a failed SMS does not
// stop the launch that follows it. Outcomes are appended to a trigger
// log for inspection through the API.
package action
