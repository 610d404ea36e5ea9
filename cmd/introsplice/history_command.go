package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"introsplice/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent render jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !cfg.History.Enabled {
				fmt.Fprintln(out, "History is disabled (history.enabled = false)")
				return nil
			}

			store, err := openHistory(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, historyJSON(entries))
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "No jobs recorded")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				detail := e.OutputPath
				if e.Status != history.StatusSucceeded {
					detail = firstLine(e.ErrorMessage)
				}
				rows = append(rows, []string{
					e.StartedAt.Local().Format("2006-01-02 15:04:05"),
					shortID(e.JobID),
					string(e.Status),
					e.VideoPath,
					e.Style,
					valueOrDash(detail),
					formatElapsed(e.Elapsed()),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Started", "Job", "Status", "Video", "Style", "Output / Error", "Elapsed"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
			))

			counts, err := store.Counts(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Totals: %d succeeded, %d failed, %d rejected\n",
				counts[history.StatusSucceeded], counts[history.StatusFailed], counts[history.StatusRejected])
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", history.DefaultListLimit, "Number of jobs to show")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print jobs as JSON")
	return cmd
}

type historyEntryJSON struct {
	JobID             string  `json:"job_id"`
	Status            string  `json:"status"`
	VideoPath         string  `json:"video"`
	ImagePath         string  `json:"image"`
	Style             string  `json:"style"`
	IntroSeconds      float64 `json:"intro_seconds"`
	TransitionSeconds float64 `json:"transition_seconds"`
	OutputPath        string  `json:"output,omitempty"`
	Error             string  `json:"error,omitempty"`
	StartedAt         string  `json:"started_at"`
	ElapsedMillis     int64   `json:"elapsed_ms"`
}

func historyJSON(entries []history.Entry) []historyEntryJSON {
	out := make([]historyEntryJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, historyEntryJSON{
			JobID:             e.JobID,
			Status:            string(e.Status),
			VideoPath:         e.VideoPath,
			ImagePath:         e.ImagePath,
			Style:             e.Style,
			IntroSeconds:      e.IntroSeconds,
			TransitionSeconds: e.TransitionSeconds,
			OutputPath:        e.OutputPath,
			Error:             e.ErrorMessage,
			StartedAt:         e.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
			ElapsedMillis:     e.Elapsed().Milliseconds(),
		})
	}
	return out
}
