package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"introsplice/internal/config"
	"introsplice/internal/harness"
)

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var (
		paramsPath string
		directory  string
		names      string
		jobs       int
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run add-intro over {dir}/{name}.mp4 and {dir}/{name}_main.png pairs",
		Long: "Batch expands each name into a main video {dir}/{name}.mp4 and an intro image\n" +
			"{dir}/{name}_main.png. Parameters come from the config defaults, then the\n" +
			"--params file (DIRECTORY, NAMES, DURATION, ANIMATION_STYLE, ZOOM_MAX,\n" +
			"PADDING_COLOR, TRANSITION_SECONDS, OUTPUT_DIR), then flags.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			params, err := batchParams(cfg)
			if err != nil {
				return err
			}
			if strings.TrimSpace(paramsPath) != "" {
				expanded, err := config.ExpandPath(paramsPath)
				if err != nil {
					return fmt.Errorf("resolve params path: %w", err)
				}
				if params, err = harness.LoadParams(expanded, params); err != nil {
					return err
				}
			}
			if strings.TrimSpace(directory) != "" {
				params.Directory = directory
			}
			if cmd.Flags().Changed("names") {
				params.Names = harness.SplitNames(names)
			}
			if err := params.Validate(); err != nil {
				return err
			}
			if err := requirePreflight(cfg); err != nil {
				return err
			}

			store, err := openHistory(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			runner := &recordingRunner{pipeline: newPipeline(cfg, logger), store: store, logger: logger}
			outcomes := harness.Run(cmd.Context(), runner, params.Jobs(), jobs, logger)

			rows := make([][]string, 0, len(outcomes))
			for _, o := range outcomes {
				status := "ok"
				detail := o.Result.OutputPath
				if !o.Succeeded() {
					status = "failed"
					detail = firstLine(o.Err.Error())
				}
				rows = append(rows, []string{o.Name, status, detail, formatElapsed(o.Elapsed)})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Name", "Status", "Output / Error", "Elapsed"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
			))

			summary := harness.Summarize(outcomes)
			fmt.Fprintf(out, "%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
			if err := cmd.Context().Err(); err != nil {
				return err
			}
			if summary.Failed > 0 {
				return fmt.Errorf("%d of %d jobs failed", summary.Failed, summary.Total)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&paramsPath, "params", "", "Parameter file in KEY=VALUE form")
	cmd.Flags().StringVar(&directory, "dir", "", "Directory holding the videos and images (overrides DIRECTORY)")
	cmd.Flags().StringVar(&names, "names", "", "Comma separated names (overrides NAMES)")
	cmd.Flags().IntVar(&jobs, "jobs", 1, "Number of jobs to run concurrently")
	return cmd
}

// batchParams seeds harness parameters from the configured intro defaults.
func batchParams(cfg *config.Config) (harness.Params, error) {
	params := harness.DefaultParams()
	transition, err := configTransition(cfg)
	if err != nil {
		return harness.Params{}, err
	}
	params.Transition = transition
	params.IntroSeconds = cfg.Intro.Duration
	return params, nil
}
