// Package ffprobe provides a typed wrapper around ffprobe.
//
// Query answers single-property questions about the first video stream
// (resolution, frame rate, pixel format, codec, bitrate) through Selector
// values, returning the raw printed value so callers decide how to default
// absent data. Inspect returns the full JSON description of a container.
//
// Both paths run through an injectable Runner so tests can replace the
// ffprobe process.
package ffprobe
