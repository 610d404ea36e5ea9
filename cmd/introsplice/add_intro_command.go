package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"introsplice/internal/intro"
)

func newAddIntroCommand(ctx *commandContext) *cobra.Command {
	var (
		videoPath         string
		imagePath         string
		duration          float64
		style             string
		zoomMax           float64
		paddingColor      string
		transitionSeconds float64
		outputDir         string
		jsonOutput        bool
	)

	cmd := &cobra.Command{
		Use:   "add-intro",
		Short: "Prepend an image intro and transition to a video",
		Example: "  introsplice add-intro --video cat.mp4 --image cat_main.png\n" +
			"  introsplice add-intro --video cat.mp4 --image logo.webp --style fade --padding-color white",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			transition, err := configTransition(cfg)
			if err != nil {
				return err
			}
			job := intro.RenderJob{
				VideoPath:    videoPath,
				ImagePath:    imagePath,
				IntroSeconds: cfg.Intro.Duration,
				Transition:   transition,
				OutputDir:    outputDir,
			}
			flags := cmd.Flags()
			if flags.Changed("duration") {
				job.IntroSeconds = duration
			}
			if flags.Changed("transition-seconds") {
				job.Transition.DurationSeconds = transitionSeconds
			}
			if flags.Changed("zoom-max") {
				job.Transition.ZoomMax = zoomMax
			}
			if flags.Changed("style") {
				job.Transition.Style = intro.Style(style)
				if parsed, parseErr := intro.ParseStyle(style); parseErr == nil {
					job.Transition.Style = parsed
				}
			}
			if flags.Changed("padding-color") {
				job.Transition.PaddingColor = intro.PaddingColor(paddingColor)
				if parsed, parseErr := intro.ParsePaddingColor(paddingColor); parseErr == nil {
					job.Transition.PaddingColor = parsed
				}
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
			result, err := runner.Run(cmd.Context(), job)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, map[string]any{
					"job_id":     result.JobID,
					"output":     result.OutputPath,
					"resolution": result.Properties.Resolution(),
					"frame_rate": result.Properties.FrameRate,
					"codec":      result.Properties.Codec,
					"elapsed_ms": result.FinishedAt.Sub(result.StartedAt).Milliseconds(),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.OutputPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&videoPath, "video", "", "Main video file")
	cmd.Flags().StringVar(&imagePath, "image", "", "Intro image (PNG, JPEG, GIF, BMP, TIFF or WebP)")
	cmd.Flags().Float64Var(&duration, "duration", intro.DefaultIntroSeconds, "Static intro length in seconds (default from intro.duration)")
	cmd.Flags().StringVar(&style, "style", string(intro.StyleZoom), "Transition style (see `introsplice styles`)")
	cmd.Flags().Float64Var(&zoomMax, "zoom-max", intro.DefaultZoomMax, "Final zoom factor for the zoom style, 1 to 5")
	cmd.Flags().StringVar(&paddingColor, "padding-color", string(intro.ColorBlack), "Letterbox color around the image")
	cmd.Flags().Float64Var(&transitionSeconds, "transition-seconds", intro.DefaultTransitionSeconds, "Transition clip length in seconds")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Output directory (default from paths.output_dir)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the result as JSON")
	_ = cmd.MarkFlagRequired("video")
	_ = cmd.MarkFlagRequired("image")
	return cmd
}
