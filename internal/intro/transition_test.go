package intro_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"introsplice/internal/intro"
)

func hdProps() intro.VideoProperties {
	return intro.VideoProperties{Width: 1920, Height: 1080, FrameRate: 30, PixelFormat: "yuv420p", Codec: "libx264"}
}

func TestBuildFilterAllStylesNonEmpty(t *testing.T) {
	fitPad := intro.FitPadFilter(1920, 1080)
	for _, style := range intro.Styles() {
		t.Run(string(style), func(t *testing.T) {
			graph, err := intro.BuildFilter(style, hdProps(), 1, 1.35, intro.FilterOptions{})
			if err != nil {
				t.Fatalf("BuildFilter: %v", err)
			}
			if graph == "" {
				t.Fatal("expected non-empty filter graph")
			}
			if !strings.HasPrefix(graph, fitPad) {
				t.Fatalf("expected fit/pad prefix, got %q", graph)
			}

			skipped, err := intro.BuildFilter(style, hdProps(), 1, 1.35, intro.FilterOptions{SkipFitPad: true})
			if err != nil {
				t.Fatalf("BuildFilter skip: %v", err)
			}
			if strings.Contains(skipped, "force_original_aspect_ratio") {
				t.Fatalf("skip variant still fits and pads: %q", skipped)
			}
			if style != intro.StyleNone && skipped == "" {
				t.Fatal("expected animation in skip variant")
			}
		})
	}
	if len(intro.Styles()) != 12 {
		t.Fatalf("expected 12 styles, got %d", len(intro.Styles()))
	}
}

func TestBuildFilterNoneIsFitPadOnly(t *testing.T) {
	graph, err := intro.BuildFilter(intro.StyleNone, hdProps(), 1, 2, intro.FilterOptions{})
	if err != nil {
		t.Fatalf("BuildFilter: %v", err)
	}
	want := "scale=w=1920:h=1080:force_original_aspect_ratio=decrease,pad=1920:1080:(ow-iw)/2:(oh-ih)/2:color=white"
	if graph != want {
		t.Fatalf("none graph = %q, want %q", graph, want)
	}

	skipped, err := intro.BuildFilter(intro.StyleNone, hdProps(), 1, 2, intro.FilterOptions{SkipFitPad: true})
	if err != nil {
		t.Fatalf("BuildFilter: %v", err)
	}
	if skipped != "" {
		t.Fatalf("expected empty graph, got %q", skipped)
	}
}

func TestBuildFilterStyleGraphs(t *testing.T) {
	cases := map[intro.Style]string{
		intro.StyleZoom:        "zoompan=z='1+(on/29)*(1.35-1)':x='iw/2-(iw/zoom/2)':y='ih/2-(ih/zoom/2)':d=30:s=1920x1080:fps=30",
		intro.StyleFade:        "fade=t=in:st=0:d=1",
		intro.StyleSlideLeft:   "pad=w=3840:h=1080:x=1920:y=0:color=0x000000,crop=w=1920:h=1080:x='min(t/1,1)*1920':y=0",
		intro.StyleSlideRight:  "pad=w=3840:h=1080:x=0:y=0:color=0x000000,crop=w=1920:h=1080:x='(1-min(t/1,1))*1920':y=0",
		intro.StyleSlideUp:     "pad=w=1920:h=2160:x=0:y=1080:color=0x000000,crop=w=1920:h=1080:x=0:y='min(t/1,1)*1080'",
		intro.StyleSlideDown:   "pad=w=1920:h=2160:x=0:y=0:color=0x000000,crop=w=1920:h=1080:x=0:y='(1-min(t/1,1))*1080'",
		intro.StyleBlurIn:      "gblur=sigma='max(20*(1-t/1),0.1)'",
		intro.StyleRotate:      "rotate='-(1-t/1)*PI/4':c=white",
		intro.StyleGrayscaleIn: "hue=s='max(0,1-t/1)'",
		intro.StyleColorIn:     "fade=t=in:st=0:d=1,colorchannelmixer=.3:.4:.3:0:.3:.4:.3:0:.3:.4:.3:0:0:0:0:1",
	}
	for style, want := range cases {
		got, err := intro.BuildFilter(style, hdProps(), 1, 1.35, intro.FilterOptions{SkipFitPad: true})
		if err != nil {
			t.Fatalf("%s: %v", style, err)
		}
		if got != want {
			t.Errorf("%s:\n got %q\nwant %q", style, got, want)
		}
	}
}

// splitUnquoted splits s on sep outside single-quoted expressions.
func splitUnquoted(s string, sep rune) []string {
	var parts []string
	var current strings.Builder
	quoted := false
	for _, r := range s {
		if r == '\'' {
			quoted = !quoted
		}
		if r == sep && !quoted {
			parts = append(parts, current.String())
			current.Reset()
			continue
		}
		current.WriteRune(r)
	}
	return append(parts, current.String())
}

// filterOption returns the value of key within the named filter of a graph.
func filterOption(t *testing.T, graph, filter, key string) string {
	t.Helper()
	for _, stage := range splitUnquoted(graph, ',') {
		name, opts, ok := strings.Cut(stage, "=")
		if !ok || name != filter {
			continue
		}
		for _, opt := range splitUnquoted(opts, ':') {
			if k, v, found := strings.Cut(opt, "="); found && k == key {
				return v
			}
		}
	}
	t.Fatalf("no %s %s in %q", filter, key, graph)
	return ""
}

func TestBuildFilterSlideWindowTravelsAcrossPaddedFrame(t *testing.T) {
	cases := []struct {
		style    intro.Style
		axis     string
		size     string
		imageOff string
	}{
		{intro.StyleSlideLeft, "x", "w", "1920"},
		{intro.StyleSlideRight, "x", "w", "0"},
		{intro.StyleSlideUp, "y", "h", "1080"},
		{intro.StyleSlideDown, "y", "h", "0"},
	}
	for _, tc := range cases {
		t.Run(string(tc.style), func(t *testing.T) {
			graph, err := intro.BuildFilter(tc.style, hdProps(), 2, 1.35, intro.FilterOptions{SkipFitPad: true, Fill: intro.ColorWhite})
			if err != nil {
				t.Fatalf("BuildFilter: %v", err)
			}
			if !strings.HasPrefix(graph, "pad=") || !strings.Contains(graph, ",crop=") {
				t.Fatalf("expected pad then crop, got %q", graph)
			}
			if got := filterOption(t, graph, "pad", "color"); got != "0xFFFFFF" {
				t.Fatalf("pad color = %q, want fill", got)
			}
			if got := filterOption(t, graph, "pad", tc.axis); got != tc.imageOff {
				t.Fatalf("image offset = %q, want %q", got, tc.imageOff)
			}
			padded := filterOption(t, graph, "pad", tc.size)
			window := filterOption(t, graph, "crop", tc.size)
			if window == padded {
				t.Fatalf("crop window %s fills the padded frame, nothing can move", window)
			}
			if filterOption(t, graph, "crop", "w") != "1920" || filterOption(t, graph, "crop", "h") != "1080" {
				t.Fatalf("crop window is not frame sized: %q", graph)
			}
			travel := filterOption(t, graph, "crop", tc.axis)
			if !strings.Contains(travel, "t/2") {
				t.Fatalf("crop %s does not depend on time over the duration: %q", tc.axis, travel)
			}
		})
	}
}

func TestBuildFilterSaturationStylesAvoidAlpha(t *testing.T) {
	for _, style := range []intro.Style{intro.StyleGrayscaleIn, intro.StyleColorIn} {
		graph, err := intro.BuildFilter(style, hdProps(), 1, 1.35, intro.FilterOptions{SkipFitPad: true})
		if err != nil {
			t.Fatalf("%s: %v", style, err)
		}
		if strings.Contains(graph, "alpha=1") {
			t.Fatalf("%s fades an alpha plane yuv420p output drops: %q", style, graph)
		}
	}
}

func TestBuildFilterStyleIgnoresCase(t *testing.T) {
	got, err := intro.BuildFilter("Fade", hdProps(), 1, 1.35, intro.FilterOptions{SkipFitPad: true})
	if err != nil {
		t.Fatalf("BuildFilter: %v", err)
	}
	if got != "fade=t=in:st=0:d=1" {
		t.Fatalf("unexpected graph %q", got)
	}
}

func TestBuildFilterScaleInKeepsFrameSize(t *testing.T) {
	got, err := intro.BuildFilter(intro.StyleScaleIn, hdProps(), 1, 1.35, intro.FilterOptions{SkipFitPad: true, Fill: intro.ColorMagenta})
	if err != nil {
		t.Fatalf("BuildFilter: %v", err)
	}
	for _, fragment := range []string{"scale=w='iw*(0.5+t/1*0.5)'", "pad=w=1920:h=1080", "color=0xFF00FF"} {
		if !strings.Contains(got, fragment) {
			t.Fatalf("expected %q in %q", fragment, got)
		}
	}
}

func TestBuildFilterZoomUsesExactRate(t *testing.T) {
	props := hdProps()
	props.FrameRate = 30000.0 / 1001
	props.Rate = "30000/1001"
	got, err := intro.BuildFilter(intro.StyleZoom, props, 1, 1.35, intro.FilterOptions{SkipFitPad: true})
	if err != nil {
		t.Fatalf("BuildFilter: %v", err)
	}
	if !strings.HasSuffix(got, ":d=30:s=1920x1080:fps=30000/1001") {
		t.Fatalf("unexpected zoom graph %q", got)
	}
}

func TestBuildFilterUsesTransitionDuration(t *testing.T) {
	got, err := intro.BuildFilter(intro.StyleFade, hdProps(), 2.5, 1.35, intro.FilterOptions{SkipFitPad: true})
	if err != nil {
		t.Fatalf("BuildFilter: %v", err)
	}
	if got != "fade=t=in:st=0:d=2.5" {
		t.Fatalf("unexpected graph %q", got)
	}
}

func TestBuildFilterRejectsBadInput(t *testing.T) {
	cases := []struct {
		name     string
		style    intro.Style
		props    intro.VideoProperties
		duration float64
		zoom     float64
	}{
		{"unknown style", intro.Style("spin"), hdProps(), 1, 1.35},
		{"zero duration", intro.StyleFade, hdProps(), 0, 1.35},
		{"nan duration", intro.StyleFade, hdProps(), math.NaN(), 1.35},
		{"zoom below one", intro.StyleZoom, hdProps(), 1, 0.9},
		{"zoom above five", intro.StyleZoom, hdProps(), 1, 5.01},
		{"missing resolution", intro.StyleFade, intro.VideoProperties{FrameRate: 30}, 1, 1.35},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := intro.BuildFilter(tc.style, tc.props, tc.duration, tc.zoom, intro.FilterOptions{})
			var invalid *intro.InvalidParameterError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidParameterError, got %v", err)
			}
		})
	}
}

func TestZoomCurveEndpoints(t *testing.T) {
	for _, tc := range []struct {
		fps, duration, zoom float64
	}{
		{30, 1, 1.35},
		{29.97, 1, 2},
		{24, 0.5, 5},
		{60, 2, 1},
	} {
		frames := intro.TransitionFrames(tc.fps, tc.duration)
		curve := intro.ZoomCurve{Frames: frames, Max: tc.zoom}
		if got := curve.At(0); got != 1 {
			t.Fatalf("zoom at frame 0 = %v, want 1", got)
		}
		if got := curve.At(frames - 1); math.Abs(got-tc.zoom) > 1e-12 {
			t.Fatalf("zoom at last frame = %v, want %v", got, tc.zoom)
		}
		for f := 1; f < frames; f++ {
			if curve.At(f) < curve.At(f-1) {
				t.Fatalf("zoom curve not monotonic at frame %d", f)
			}
		}
	}
}

func TestZoomCurveSingleFrame(t *testing.T) {
	frames := intro.TransitionFrames(1, 0.2)
	if frames != 1 {
		t.Fatalf("expected one frame, got %d", frames)
	}
	curve := intro.ZoomCurve{Frames: frames, Max: 1.5}
	if curve.At(0) != 1 {
		t.Fatalf("expected zoom 1 at frame 0, got %v", curve.At(0))
	}
	if curve.Expr() != "1+(on/1)*(1.5-1)" {
		t.Fatalf("unexpected expression %q", curve.Expr())
	}
}

func TestParseStyle(t *testing.T) {
	style, err := intro.ParseStyle(" Slide_Left ")
	if err != nil || style != intro.StyleSlideLeft {
		t.Fatalf("ParseStyle = %q, %v", style, err)
	}
	if _, err := intro.ParseStyle("wipe"); err == nil {
		t.Fatal("expected error for unknown style")
	}
}
