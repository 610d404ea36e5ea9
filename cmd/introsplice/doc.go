// Package main hosts the introsplice CLI entrypoint and command graph.
//
// The Cobra command tree turns terminal invocations into intro pipeline runs,
// batch harness runs, probe and filter inspection, ledger queries, and
// configuration scaffolding. It centralizes configuration resolution, logger
// construction, and collaborator wiring so subcommands only translate flags.
//
// Keep this package lean: behaviour belongs in the internal packages and is
// surfaced here through flags and output formatting.
package main
