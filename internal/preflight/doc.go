// Package preflight provides readiness checks for the binaries and
// filesystem paths introsplice depends on.
//
// These checks run in two contexts:
//   - The add-intro and batch commands call RunAll before rendering so a
//     missing ffmpeg or unwritable output directory fails before any work.
//   - The CLI "introsplice doctor" command prints every check, including
//     the history ledger status.
package preflight
