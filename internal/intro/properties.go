package intro

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"introsplice/internal/media/ffmpeg"
	"introsplice/internal/media/ffprobe"
)

const (
	DefaultFrameRate   = 30.0
	DefaultPixelFormat = "yuv420p"
	DefaultSourceCodec = "h264"
	DefaultEncoder     = "libx264"
)

// encoderForCodec maps ffprobe codec names to the ffmpeg encoder that
// reproduces them. Anything else renders with DefaultEncoder.
var encoderForCodec = map[string]string{
	"h264": "libx264",
	"hevc": "libx265",
}

// Prober answers single-property queries about a video's first stream. An
// empty result means the property is absent.
type Prober interface {
	Query(ctx context.Context, path string, sel ffprobe.Selector) (string, error)
}

// VideoProperties are the render characteristics of the main video.
type VideoProperties struct {
	Width     int
	Height    int
	FrameRate float64
	// Rate is the probed rate as ffprobe printed it, such as "30000/1001".
	// Empty when the frame rate was defaulted.
	Rate        string
	PixelFormat string
	// Codec is the ffmpeg encoder name used for the intro clips.
	Codec string
	// SourceCodec is the codec name ffprobe reported, before mapping.
	SourceCodec string
	// Bitrate in bits per second, zero when unknown.
	Bitrate int64
	// Defaulted lists the properties that fell back to defaults.
	Defaulted []string
}

// EncodeParams returns the encoder settings matching these properties.
func (p VideoProperties) EncodeParams() ffmpeg.EncodeParams {
	return ffmpeg.EncodeParams{
		Codec:       p.Codec,
		PixelFormat: p.PixelFormat,
		FrameRate:   p.FrameRate,
		Rate:        p.Rate,
		Bitrate:     p.Bitrate,
	}
}

// Resolution formats the frame size as WxH.
func (p VideoProperties) Resolution() string {
	return fmt.Sprintf("%dx%d", p.Width, p.Height)
}

// ProbeProperties reads the main video's properties. Only the resolution is
// mandatory; every other property degrades to its default, including when the
// query itself fails.
func ProbeProperties(ctx context.Context, prober Prober, path string) (VideoProperties, error) {
	if prober == nil {
		return VideoProperties{}, errors.New("probe properties: prober is nil")
	}

	raw, err := prober.Query(ctx, path, ffprobe.SelectResolution)
	if err != nil {
		return VideoProperties{}, &PropertyExtractionError{Path: path, Err: err}
	}
	width, height, err := ParseResolution(raw)
	if err != nil {
		return VideoProperties{}, &PropertyExtractionError{Path: path, Output: raw, Err: err}
	}

	props := VideoProperties{Width: width, Height: height}

	query := func(sel ffprobe.Selector) string {
		value, err := prober.Query(ctx, path, sel)
		if err != nil {
			return ""
		}
		return value
	}

	rawRate := query(ffprobe.SelectFrameRate)
	if fps, ok := ParseFrameRate(rawRate); ok {
		props.FrameRate = fps
		props.Rate = canonicalRate(rawRate)
	} else {
		props.FrameRate = DefaultFrameRate
		props.Defaulted = append(props.Defaulted, "frame_rate")
	}

	if pixFmt := query(ffprobe.SelectPixelFormat); pixFmt != "" {
		props.PixelFormat = pixFmt
	} else {
		props.PixelFormat = DefaultPixelFormat
		props.Defaulted = append(props.Defaulted, "pixel_format")
	}

	if codec := query(ffprobe.SelectCodecName); codec != "" {
		props.SourceCodec = codec
	} else {
		props.SourceCodec = DefaultSourceCodec
		props.Defaulted = append(props.Defaulted, "codec")
	}
	props.Codec = EncoderFor(props.SourceCodec)

	props.Bitrate = ParseBitrate(query(ffprobe.SelectBitrate))

	if err := ctx.Err(); err != nil {
		return VideoProperties{}, err
	}
	return props, nil
}

// EncoderFor maps an ffprobe codec name to an ffmpeg encoder.
func EncoderFor(codec string) string {
	if encoder, ok := encoderForCodec[strings.ToLower(strings.TrimSpace(codec))]; ok {
		return encoder
	}
	return DefaultEncoder
}

// ParseResolution parses ffprobe's "WIDTHxHEIGHT" output.
func ParseResolution(value string) (int, int, error) {
	value = strings.TrimSpace(value)
	w, h, ok := strings.Cut(value, "x")
	if !ok {
		return 0, 0, fmt.Errorf("no WxH pair in %q", value)
	}
	// Some containers make ffprobe emit a trailing separator.
	h, _, _ = strings.Cut(h, "x")
	width, err := strconv.Atoi(strings.TrimSpace(w))
	if err != nil {
		return 0, 0, fmt.Errorf("parse width %q: %w", w, err)
	}
	height, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil {
		return 0, 0, fmt.Errorf("parse height %q: %w", h, err)
	}
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("non-positive resolution %dx%d", width, height)
	}
	return width, height, nil
}

// ParseFrameRate parses "num/den" or a plain number. It reports false for
// empty, malformed, zero-denominator, or non-positive values.
func ParseFrameRate(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	var fps float64
	if num, den, ok := strings.Cut(value, "/"); ok {
		n, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
		if err != nil {
			return 0, false
		}
		d, err := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if err != nil || d == 0 {
			return 0, false
		}
		fps = n / d
	} else {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, false
		}
		fps = parsed
	}
	if math.IsNaN(fps) || math.IsInf(fps, 0) || fps <= 0 {
		return 0, false
	}
	return fps, true
}

// canonicalRate strips whitespace from a rate ParseFrameRate accepted.
func canonicalRate(value string) string {
	if num, den, ok := strings.Cut(strings.TrimSpace(value), "/"); ok {
		return strings.TrimSpace(num) + "/" + strings.TrimSpace(den)
	}
	return strings.TrimSpace(value)
}

// ParseBitrate returns the bitrate when value is a positive all-digit string,
// and zero otherwise (ffprobe prints N/A for many containers).
func ParseBitrate(value string) int64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return 0
		}
	}
	bitrate, err := strconv.ParseInt(value, 10, 64)
	if err != nil || bitrate <= 0 {
		return 0
	}
	return bitrate
}
