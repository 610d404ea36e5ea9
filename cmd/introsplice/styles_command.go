package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"introsplice/internal/intro"
)

var styleDescriptions = map[intro.Style]string{
	intro.StyleZoom:        "Zooms from 1.0 to zoom_max around the centre",
	intro.StyleFade:        "Fades in from black",
	intro.StyleSlideLeft:   "Reveals the frame moving left",
	intro.StyleSlideRight:  "Reveals the frame moving right",
	intro.StyleSlideUp:     "Reveals the frame moving up",
	intro.StyleSlideDown:   "Reveals the frame moving down",
	intro.StyleBlurIn:      "Blur radius decays from 20 to 0.1",
	intro.StyleRotate:      "Rotates from -45 degrees to upright",
	intro.StyleScaleIn:     "Grows from half size to full frame",
	intro.StyleGrayscaleIn: "Desaturates while an overlay fades out",
	intro.StyleColorIn:     "Fades in and settles desaturated",
	intro.StyleNone:        "Holds the padded image still",
}

// displayName turns an identifier like slide_left into "Slide Left".
func displayName(name string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(name, "_", " "))
}

func newStylesCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "styles",
		Short:       "List transition styles and padding colors",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			styles := intro.Styles()
			rows := make([][]string, 0, len(styles))
			for _, s := range styles {
				rows = append(rows, []string{string(s), displayName(string(s)), styleDescriptions[s]})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Style", "Name", "Effect"}, rows, nil))

			colors := intro.PaddingColors()
			colorRows := make([][]string, 0, len(colors))
			for _, c := range colors {
				colorRows = append(colorRows, []string{string(c), displayName(string(c)), c.Hex()})
			}
			fmt.Fprintln(out, renderTable([]string{"Color", "Name", "Hex"}, colorRows, nil))
			return nil
		},
	}
}
