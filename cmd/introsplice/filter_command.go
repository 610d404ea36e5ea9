package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"introsplice/internal/intro"
)

func newFilterCommand(ctx *commandContext) *cobra.Command {
	var (
		style        string
		width        int
		height       int
		fps          float64
		duration     float64
		zoomMax      float64
		paddingColor string
		fitPad       bool
	)

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Print the ffmpeg filter graph for a transition style",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			transition, err := configTransition(cfg)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("style") {
				if transition.Style, err = intro.ParseStyle(style); err != nil {
					return err
				}
			}
			if flags.Changed("padding-color") {
				if transition.PaddingColor, err = intro.ParsePaddingColor(paddingColor); err != nil {
					return err
				}
			}
			if flags.Changed("duration") {
				transition.DurationSeconds = duration
			}
			if flags.Changed("zoom-max") {
				transition.ZoomMax = zoomMax
			}

			props := intro.VideoProperties{Width: width, Height: height, FrameRate: fps}
			graph, err := intro.BuildFilter(transition.Style, props, transition.DurationSeconds, transition.ZoomMax,
				intro.FilterOptions{SkipFitPad: !fitPad, Fill: transition.PaddingColor})
			if err != nil {
				return err
			}
			if graph == "" {
				graph = "(none)"
			}
			fmt.Fprintln(cmd.OutOrStdout(), graph)
			return nil
		},
	}

	cmd.Flags().StringVar(&style, "style", string(intro.StyleZoom), "Transition style")
	cmd.Flags().IntVar(&width, "width", 1920, "Frame width")
	cmd.Flags().IntVar(&height, "height", 1080, "Frame height")
	cmd.Flags().Float64Var(&fps, "fps", intro.DefaultFrameRate, "Frame rate")
	cmd.Flags().Float64Var(&duration, "duration", intro.DefaultTransitionSeconds, "Transition length in seconds")
	cmd.Flags().Float64Var(&zoomMax, "zoom-max", intro.DefaultZoomMax, "Final zoom factor for the zoom style")
	cmd.Flags().StringVar(&paddingColor, "padding-color", string(intro.ColorBlack), "Fill exposed by scale_in")
	cmd.Flags().BoolVar(&fitPad, "fit-pad", false, "Include the white fit-and-pad stage for unpadded images")
	return cmd
}
