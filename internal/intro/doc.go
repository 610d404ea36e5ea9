// Package intro prepends a still-image intro and an animated transition to a
// video.
//
// The pipeline probes the main video (ProbeProperties), letterboxes the intro
// image to the exact frame size (PadImage), renders a static clip and a
// transition clip from that single padded frame (BuildFilter picks the
// animation), and concatenates [intro, transition, main] with encoder settings
// matched to the main video. Every intermediate file lives in a per-job
// workspace that is removed however the job ends; only the finished file is
// moved into the output directory.
//
// Errors map onto the services markers: InputNotFoundError (ErrNotFound),
// InvalidParameterError (ErrValidation), PropertyExtractionError and
// RenderError (ErrExternalTool).
package intro
