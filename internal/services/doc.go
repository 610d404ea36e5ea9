// Package services defines shared utilities consumed by the render pipeline and
// its external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp job IDs, stage names, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent history statuses (failed vs rejected).
//
// Use these helpers when wiring new pipeline stages so operational behaviour
// (error classification, observability) stays uniform.
package services
