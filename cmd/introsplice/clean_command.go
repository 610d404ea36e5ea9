package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"introsplice/internal/intro"
)

func newCleanCommand(ctx *commandContext) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove job workspaces left behind by interrupted runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			result, err := intro.SweepStaleWorkspaces(cfg.Paths.WorkDir, olderThan, logger)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, dir := range result.Removed {
				fmt.Fprintf(out, "removed %s\n", dir)
			}
			for dir, removeErr := range result.Failed {
				fmt.Fprintf(out, "failed %s: %v\n", dir, removeErr)
			}
			fmt.Fprintf(out, "%d workspaces removed\n", len(result.Removed))
			if len(result.Failed) > 0 {
				return fmt.Errorf("%d workspaces could not be removed", len(result.Failed))
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 24*time.Hour, "Only remove workspaces last modified before this age")
	return cmd
}
