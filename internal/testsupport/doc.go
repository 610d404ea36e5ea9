// Package testsupport holds shared test helpers: temp-directory configs, image
// and file fixtures, stub binaries, and in-memory ffprobe/ffmpeg fakes.
package testsupport
