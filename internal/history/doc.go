// Package history keeps a SQLite ledger of render jobs.
//
// Each pipeline run, successful or not, appends one row with its inputs,
// outcome and timing. The CLI `history` command reads the ledger back.
// Schema changes ship as numbered SQL files applied in order on Open.
package history
