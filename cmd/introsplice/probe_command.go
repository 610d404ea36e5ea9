package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"introsplice/internal/intro"
	"introsplice/internal/media/ffmpeg"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "probe <video>",
		Short: "Show the properties intro clips would be encoded with",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := args[0]
			prober := newProber(cfg)

			props, err := intro.ProbeProperties(cmd.Context(), prober, path)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, map[string]any{
					"path":         path,
					"width":        props.Width,
					"height":       props.Height,
					"frame_rate":   props.FrameRate,
					"pixel_format": props.PixelFormat,
					"source_codec": props.SourceCodec,
					"encoder":      props.Codec,
					"bitrate":      props.Bitrate,
					"defaulted":    props.Defaulted,
				})
			}

			out := cmd.OutOrStdout()
			bitrate := "encoder default"
			if props.Bitrate > 0 {
				bitrate = strconv.FormatInt(props.Bitrate, 10)
			}
			fmt.Fprintln(out, renderProperties([][2]string{
				{"Resolution", props.Resolution()},
				{"Frame rate", ffmpeg.FormatRate(props.FrameRate)},
				{"Pixel format", props.PixelFormat},
				{"Codec", fmt.Sprintf("%s -> %s", props.SourceCodec, props.Codec)},
				{"Bitrate", bitrate},
				{"Defaulted", valueOrDash(strings.Join(props.Defaulted, ", "))},
			}))

			// Stream listing is best effort.
			result, err := prober.Inspect(cmd.Context(), path)
			if err != nil {
				fmt.Fprintf(out, "stream listing unavailable: %v\n", err)
				return nil
			}
			rows := make([][]string, 0, len(result.Streams))
			for _, s := range result.Streams {
				size := "-"
				if s.Width > 0 && s.Height > 0 {
					size = fmt.Sprintf("%dx%d", s.Width, s.Height)
				}
				rows = append(rows, []string{
					strconv.Itoa(s.Index),
					valueOrDash(s.CodecType),
					valueOrDash(s.CodecName),
					size,
					valueOrDash(s.PixFmt),
					valueOrDash(s.RFrameRate),
					valueOrDash(s.BitRate),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Type", "Codec", "Size", "Pixel format", "Rate", "Bitrate"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
			))
			fmt.Fprintf(out, "Duration: %.2fs  Streams: %d video, %d audio\n",
				result.DurationSeconds(), result.VideoStreamCount(), result.AudioStreamCount())
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print normalized properties as JSON")
	return cmd
}
