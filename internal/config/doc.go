// Package config loads, normalizes, and validates warscout configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// WARSCOUT_NTFY_TOPIC. Screen regions, external capture and recognition
// commands, polling cadence, and matching thresholds all live here so the
// monitor and CLI discover them in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
