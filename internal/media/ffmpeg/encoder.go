package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	ffmpeggo "github.com/u2takey/ffmpeg-go"
)

// EncodeParams are the encoder settings matched to the main video.
type EncodeParams struct {
	Codec       string
	PixelFormat string
	FrameRate   float64
	// Rate is the exact rate string passed to -r, such as "30000/1001".
	// Empty falls back to FrameRate.
	Rate string
	// Bitrate in bits per second; zero leaves rate control to the encoder.
	Bitrate int64
}

// RenderRequest describes one still-image clip.
type RenderRequest struct {
	ImagePath  string
	OutputPath string
	Duration   float64
	// Filter is passed as -vf when non-empty.
	Filter string
	Params EncodeParams
}

// ConcatRequest describes a concat demuxer run over Inputs, in order.
type ConcatRequest struct {
	ManifestPath string
	Inputs       []string
	OutputPath   string
	Params       EncodeParams
	// Reencode re-encodes with Params instead of stream copying.
	Reencode bool
}

// Runner executes a binary and returns its stdout and stderr separately.
type Runner func(ctx context.Context, binary string, args ...string) (stdout, stderr []byte, err error)

// Encoder invokes ffmpeg.
type Encoder struct {
	binary string
	run    Runner
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithRunner overrides the process runner, primarily for tests.
func WithRunner(run Runner) Option {
	return func(e *Encoder) {
		if run != nil {
			e.run = run
		}
	}
}

// New constructs an Encoder for the given ffmpeg binary. An empty binary
// resolves to "ffmpeg" on PATH.
func New(binary string, opts ...Option) *Encoder {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	e := &Encoder{binary: binary, run: defaultRunner}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Binary reports the executable this encoder invokes.
func (e *Encoder) Binary() string {
	return e.binary
}

// Render encodes a looped still image into a clip of req.Duration seconds.
func (e *Encoder) Render(ctx context.Context, req RenderRequest) error {
	if strings.TrimSpace(req.ImagePath) == "" || strings.TrimSpace(req.OutputPath) == "" {
		return errors.New("ffmpeg render: image and output paths are required")
	}
	if req.Duration <= 0 {
		return fmt.Errorf("ffmpeg render: duration must be positive, got %v", req.Duration)
	}
	return e.exec(ctx, RenderArgs(req))
}

// Concat writes the manifest for req.Inputs and joins them into req.OutputPath.
func (e *Encoder) Concat(ctx context.Context, req ConcatRequest) error {
	if len(req.Inputs) == 0 {
		return errors.New("ffmpeg concat: no inputs")
	}
	if strings.TrimSpace(req.ManifestPath) == "" || strings.TrimSpace(req.OutputPath) == "" {
		return errors.New("ffmpeg concat: manifest and output paths are required")
	}
	if err := WriteManifest(req.ManifestPath, req.Inputs); err != nil {
		return err
	}
	return e.exec(ctx, ConcatArgs(req))
}

func (e *Encoder) exec(ctx context.Context, args []string) error {
	_, stderr, err := e.run(ctx, e.binary, args...)
	if err != nil {
		return &CommandError{
			Args:   append([]string(nil), args...),
			Stderr: strings.TrimSpace(string(stderr)),
			Err:    err,
		}
	}
	return nil
}

// RenderArgs builds the ffmpeg arguments for a still-image clip.
func RenderArgs(req RenderRequest) []string {
	out := ffmpeggo.KwArgs{"t": formatSeconds(req.Duration)}
	if filter := strings.TrimSpace(req.Filter); filter != "" {
		out["vf"] = filter
	}
	for key, value := range encoderArgs(req.Params) {
		out[key] = value
	}
	return ffmpeggo.Input(req.ImagePath, ffmpeggo.KwArgs{"loop": "1"}).
		Output(req.OutputPath, out).
		OverWriteOutput().
		GetArgs()
}

// ConcatArgs builds the ffmpeg arguments for a concat demuxer run.
func ConcatArgs(req ConcatRequest) []string {
	out := ffmpeggo.KwArgs{}
	if req.Reencode {
		for key, value := range encoderArgs(req.Params) {
			out[key] = value
		}
	} else {
		out["c"] = "copy"
	}
	return ffmpeggo.Input(req.ManifestPath, ffmpeggo.KwArgs{"f": "concat", "safe": "0"}).
		Output(req.OutputPath, out).
		OverWriteOutput().
		GetArgs()
}

func encoderArgs(p EncodeParams) ffmpeggo.KwArgs {
	args := ffmpeggo.KwArgs{}
	if p.Codec != "" {
		args["c:v"] = p.Codec
	}
	if p.PixelFormat != "" {
		args["pix_fmt"] = p.PixelFormat
	}
	if rate := strings.TrimSpace(p.Rate); rate != "" {
		args["r"] = rate
	} else if p.FrameRate > 0 {
		args["r"] = FormatRate(p.FrameRate)
	}
	if p.Bitrate > 0 {
		args["b:v"] = strconv.FormatInt(p.Bitrate, 10)
	}
	return args
}

// FormatRate renders a frame rate without trailing zeros.
func FormatRate(fps float64) string {
	return strconv.FormatFloat(fps, 'f', -1, 64)
}

func formatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', -1, 64)
}

// CommandError reports a non-zero ffmpeg exit together with its stderr.
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("ffmpeg: %v", e.Err)
	}
	return fmt.Sprintf("ffmpeg: %v: %s", e.Err, e.Stderr)
}

func (e *CommandError) Unwrap() error { return e.Err }

func defaultRunner(ctx context.Context, binary string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}
