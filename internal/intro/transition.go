package intro

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Style selects the transition animation.
type Style string

const (
	StyleZoom        Style = "zoom"
	StyleFade        Style = "fade"
	StyleSlideLeft   Style = "slide_left"
	StyleSlideRight  Style = "slide_right"
	StyleSlideUp     Style = "slide_up"
	StyleSlideDown   Style = "slide_down"
	StyleBlurIn      Style = "blur_in"
	StyleRotate      Style = "rotate"
	StyleScaleIn     Style = "scale_in"
	StyleGrayscaleIn Style = "grayscale_in"
	StyleColorIn     Style = "color_in"
	StyleNone        Style = "none"
)

const (
	// MinZoom and MaxZoom bound the zoom factor reached at the last frame.
	MinZoom = 1.0
	MaxZoom = 5.0

	// lumaMatrix mixes every channel toward the same weighted grey.
	lumaMatrix = "colorchannelmixer=.3:.4:.3:0:.3:.4:.3:0:.3:.4:.3:0:0:0:0:1"
)

var styleOrder = []Style{
	StyleZoom, StyleFade, StyleSlideLeft, StyleSlideRight, StyleSlideUp, StyleSlideDown,
	StyleBlurIn, StyleRotate, StyleScaleIn, StyleGrayscaleIn, StyleColorIn, StyleNone,
}

// Styles lists the supported transition styles in display order.
func Styles() []Style {
	return append([]Style(nil), styleOrder...)
}

// ParseStyle resolves a case-insensitive style name.
func ParseStyle(name string) (Style, error) {
	s := Style(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := filterBuilders[s]; !ok {
		return "", &InvalidParameterError{Name: "style", Value: name, Reason: "expected one of " + joinNames(styleOrder)}
	}
	return s, nil
}

// FilterOptions adjusts BuildFilter output.
type FilterOptions struct {
	// SkipFitPad omits the leading fit-and-pad stage, for images already
	// padded to the exact frame size.
	SkipFitPad bool
	// Fill is the background exposed when scale_in shrinks the frame.
	// Empty means black.
	Fill PaddingColor
}

// filterParams carries the resolved inputs every builder sees.
type filterParams struct {
	width    int
	height   int
	rate     string
	duration string
	zoomMax  float64
	fill     PaddingColor
	frames   int
}

type filterBuilder func(p filterParams) string

var filterBuilders = map[Style]filterBuilder{
	StyleZoom: func(p filterParams) string {
		curve := ZoomCurve{Frames: p.frames, Max: p.zoomMax}
		return fmt.Sprintf("zoompan=z='%s':x='iw/2-(iw/zoom/2)':y='ih/2-(ih/zoom/2)':d=%d:s=%dx%d:fps=%s",
			curve.Expr(), p.frames, p.width, p.height, p.rate)
	},
	StyleFade: func(p filterParams) string {
		return "fade=t=in:st=0:d=" + p.duration
	},
	StyleSlideLeft: func(p filterParams) string {
		return slideFilter(p, false, true)
	},
	StyleSlideRight: func(p filterParams) string {
		return slideFilter(p, false, false)
	},
	StyleSlideUp: func(p filterParams) string {
		return slideFilter(p, true, true)
	},
	StyleSlideDown: func(p filterParams) string {
		return slideFilter(p, true, false)
	},
	StyleBlurIn: func(p filterParams) string {
		return fmt.Sprintf("gblur=sigma='max(20*(1-t/%s),0.1)'", p.duration)
	},
	StyleRotate: func(p filterParams) string {
		return fmt.Sprintf("rotate='-(1-t/%s)*PI/4':c=white", p.duration)
	},
	StyleScaleIn: func(p filterParams) string {
		ramp := fmt.Sprintf("(0.5+t/%s*0.5)", p.duration)
		return fmt.Sprintf("scale=w='iw*%s':h='ih*%s':eval=frame,pad=w=%d:h=%d:x='(ow-iw)/2':y='(oh-ih)/2':color=%s:eval=frame",
			ramp, ramp, p.width, p.height, p.fill.Hex())
	},
	StyleGrayscaleIn: func(p filterParams) string {
		return fmt.Sprintf("hue=s='max(0,1-t/%s)'", p.duration)
	},
	StyleColorIn: func(p filterParams) string {
		return "fade=t=in:st=0:d=" + p.duration + "," + lumaMatrix
	},
	StyleNone: func(filterParams) string {
		return ""
	},
}

// slideFilter doubles the frame along one axis with the fill color and moves a
// frame-sized crop window across it, so the image enters from one edge. With
// fromEnd the image sits in the far half and the window travels toward it.
func slideFilter(p filterParams, vertical, fromEnd bool) string {
	progress := "min(t/" + p.duration + ",1)"
	if !fromEnd {
		progress = "(1-" + progress + ")"
	}
	padW, padH, offX, offY := 2*p.width, p.height, 0, 0
	x, y := fmt.Sprintf("'%s*%d'", progress, p.width), "0"
	if vertical {
		padW, padH = p.width, 2*p.height
		x, y = "0", fmt.Sprintf("'%s*%d'", progress, p.height)
	}
	if fromEnd {
		if vertical {
			offY = p.height
		} else {
			offX = p.width
		}
	}
	return fmt.Sprintf("pad=w=%d:h=%d:x=%d:y=%d:color=%s,crop=w=%d:h=%d:x=%s:y=%s",
		padW, padH, offX, offY, p.fill.Hex(), p.width, p.height, x, y)
}

// FitPadFilter scales a frame to fit inside width x height, shrinking only,
// and pads the remainder with white. The intro compositor normally pads
// upstream with the chosen color, so pipeline renders skip this stage.
func FitPadFilter(width, height int) string {
	return fmt.Sprintf("scale=w=%d:h=%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2:color=white",
		width, height, width, height)
}

// BuildFilter returns the ffmpeg -vf graph animating the intro frame for the
// given style. With SkipFitPad the none style yields an empty graph.
func BuildFilter(style Style, props VideoProperties, durationSeconds, zoomMax float64, opts FilterOptions) (string, error) {
	build, ok := filterBuilders[Style(strings.ToLower(strings.TrimSpace(string(style))))]
	if !ok {
		return "", &InvalidParameterError{Name: "style", Value: string(style), Reason: "expected one of " + joinNames(styleOrder)}
	}
	if props.Width <= 0 || props.Height <= 0 {
		return "", &InvalidParameterError{Name: "resolution", Value: props.Resolution(), Reason: "must be positive"}
	}
	if !(durationSeconds > 0) {
		return "", &InvalidParameterError{Name: "transition duration", Value: durationSeconds, Reason: "must be positive"}
	}
	if !(zoomMax >= MinZoom && zoomMax <= MaxZoom) {
		return "", &InvalidParameterError{Name: "zoom max", Value: zoomMax, Reason: fmt.Sprintf("must be between %g and %g", MinZoom, MaxZoom)}
	}

	fps, rate := props.FrameRate, strings.TrimSpace(props.Rate)
	if fps <= 0 {
		fps, rate = DefaultFrameRate, ""
	}
	if rate == "" {
		rate = formatNumber(fps)
	}
	fill := opts.Fill
	if fill == "" {
		fill = ColorBlack
	}

	body := build(filterParams{
		width:    props.Width,
		height:   props.Height,
		rate:     rate,
		duration: formatNumber(durationSeconds),
		zoomMax:  zoomMax,
		fill:     fill,
		frames:   TransitionFrames(fps, durationSeconds),
	})

	if opts.SkipFitPad {
		return body, nil
	}
	fitPad := FitPadFilter(props.Width, props.Height)
	if body == "" {
		return fitPad, nil
	}
	return fitPad + "," + body, nil
}

// TransitionFrames is the number of frames in a clip of the given length,
// never less than one.
func TransitionFrames(fps, durationSeconds float64) int {
	return max(1, int(math.Round(fps*durationSeconds)))
}

// ZoomCurve is the linear zoom ramp used by the zoom style: 1.0 at frame 0
// and Max at frame Frames-1.
type ZoomCurve struct {
	Frames int
	Max    float64
}

func (z ZoomCurve) divisor() int {
	if z.Frames > 1 {
		return z.Frames - 1
	}
	return 1
}

// At evaluates the zoom factor at an output frame index.
func (z ZoomCurve) At(frame int) float64 {
	return 1 + (float64(frame)/float64(z.divisor()))*(z.Max-1)
}

// Expr renders the curve as a zoompan expression over the output frame counter.
func (z ZoomCurve) Expr() string {
	return fmt.Sprintf("1+(on/%d)*(%s-1)", z.divisor(), formatNumber(z.Max))
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
