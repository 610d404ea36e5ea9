// Package ffmpeg renders intro clips and concatenates clips with the ffmpeg CLI.
//
// Argument lists are assembled with u2takey/ffmpeg-go and executed through an
// injectable Runner, which keeps stderr so failures carry ffmpeg's own
// diagnostics. Render loops a still image for a fixed duration with an
// optional filter graph; Concat drives the concat demuxer from a manifest
// file, either stream-copying or re-encoding with the supplied parameters.
package ffmpeg
