package ffprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
	raw     []byte
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index        int    `json:"index"`
	CodecName    string `json:"codec_name"`
	CodecType    string `json:"codec_type"`
	CodecTag     string `json:"codec_tag_string"`
	Profile      string `json:"profile"`
	PixFmt       string `json:"pix_fmt"`
	RFrameRate   string `json:"r_frame_rate"`
	AvgFrameRate string `json:"avg_frame_rate"`
	Duration     string `json:"duration"`
	BitRate      string `json:"bit_rate"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	SampleRate   string `json:"sample_rate"`
	Channels     int    `json:"channels"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename   string `json:"filename"`
	NBStreams  int    `json:"nb_streams"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
	FormatName string `json:"format_name"`
}

// Runner executes a binary and returns its stdout and stderr separately.
type Runner func(ctx context.Context, binary string, args ...string) (stdout, stderr []byte, err error)

// Prober runs ffprobe queries against media files.
type Prober struct {
	binary string
	run    Runner
}

// Option configures a Prober.
type Option func(*Prober)

// WithRunner overrides the process runner, primarily for tests.
func WithRunner(run Runner) Option {
	return func(p *Prober) {
		if run != nil {
			p.run = run
		}
	}
}

// New constructs a Prober for the given ffprobe binary. An empty binary
// resolves to "ffprobe" on PATH.
func New(binary string, opts ...Option) *Prober {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	p := &Prober{binary: binary, run: defaultRunner}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Binary reports the executable this prober invokes.
func (p *Prober) Binary() string {
	return p.binary
}

// Query returns the trimmed output of a single-entry ffprobe query against the
// first video stream. An empty string means ffprobe reported nothing.
func (p *Prober) Query(ctx context.Context, path string, sel Selector) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.New("ffprobe query: empty path")
	}
	stdout, stderr, err := p.run(ctx, p.binary, sel.Args(path)...)
	if err != nil {
		return "", &QueryError{Selector: sel.Name, Stderr: strings.TrimSpace(string(stderr)), Err: err}
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(stdout)), "\n")
	return strings.TrimSpace(line), nil
}

// Inspect executes ffprobe against the provided path and decodes the JSON response.
func (p *Prober) Inspect(ctx context.Context, path string) (Result, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}

	stdout, stderr, err := p.run(ctx, p.binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	if err != nil {
		return Result{}, fmt.Errorf("ffprobe inspect: %w: %s", err, strings.TrimSpace(string(stderr)))
	}

	var result Result
	if err := json.Unmarshal(stdout, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	result.raw = append([]byte(nil), stdout...)
	return result, nil
}

// Inspect runs a one-off inspection with the default runner.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	return New(binary).Inspect(ctx, path)
}

// QueryError reports a failed ffprobe query together with its diagnostic output.
type QueryError struct {
	Selector string
	Stderr   string
	Err      error
}

func (e *QueryError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("ffprobe %s query: %v", e.Selector, e.Err)
	}
	return fmt.Sprintf("ffprobe %s query: %v: %s", e.Selector, e.Err, e.Stderr)
}

func (e *QueryError) Unwrap() error { return e.Err }

func defaultRunner(ctx context.Context, binary string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// RawJSON returns the raw ffprobe JSON payload.
func (r Result) RawJSON() []byte {
	return append([]byte(nil), r.raw...)
}

// VideoStream returns the first video stream, if any.
func (r Result) VideoStream() (Stream, bool) {
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "video") {
			return stream, true
		}
	}
	return Stream{}, false
}

// VideoStreamCount returns the number of video streams discovered.
func (r Result) VideoStreamCount() int {
	return r.countType("video")
}

// AudioStreamCount returns the number of audio streams discovered.
func (r Result) AudioStreamCount() int {
	return r.countType("audio")
}

func (r Result) countType(kind string) int {
	count := 0
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, kind) {
			count++
		}
	}
	return count
}

// DurationSeconds returns the container duration in seconds, or 0 when unavailable.
func (r Result) DurationSeconds() float64 {
	return parseFloat(r.Format.Duration)
}

// SizeBytes returns the reported container size in bytes, or 0 when unavailable.
func (r Result) SizeBytes() int64 {
	size := parseFloat(r.Format.Size)
	if math.IsNaN(size) || size < 0 {
		return 0
	}
	return int64(size)
}

// BitRate returns the container bitrate in bits per second, or 0 when unavailable.
func (r Result) BitRate() int64 {
	rate := parseFloat(r.Format.BitRate)
	if math.IsNaN(rate) || rate < 0 {
		return 0
	}
	return int64(rate)
}

func parseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return parsed
	}
	return math.NaN()
}
