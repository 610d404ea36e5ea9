// Package config loads, normalizes, and validates introsplice configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks for the
// ffmpeg and ffprobe binaries. The Config type centralizes every knob the CLI
// and render pipeline need.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
