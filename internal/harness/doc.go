// Package harness runs the intro pipeline over a directory of named clips.
//
// A batch is described by a dotenv-style parameter file rather than process
// environment variables. Each name expands to `{dir}/{name}.mp4` plus the
// intro image `{dir}/{name}_main.png`; jobs run with bounded concurrency and
// every outcome is reported, successful or not.
package harness
