// Package config loads and validates GeoSilent Core configuration.
//
// Configuration comes from a YAML file with environment variable
// overrides (GEOSILENT_SECTION_KEY pattern). Defaults are applied
// first, then file values, then environment overrides.
//
// The permissions section is deliberate: a headless daemon cannot
// prompt for capability grants the way a phone app can, so grants are
// declared at install time and the rest of the system treats them as
// read-only facts.
package config
