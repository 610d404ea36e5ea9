package intro

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"introsplice/internal/logging"
	"introsplice/internal/media/ffmpeg"
	"introsplice/internal/services"
)

const (
	// DefaultIntroSeconds is the static intro length when callers do not choose one.
	DefaultIntroSeconds = 0.5
	// DefaultTransitionSeconds is the fixed transition clip length.
	DefaultTransitionSeconds = 1.0
	// DefaultZoomMax is the zoom factor reached by the zoom style.
	DefaultZoomMax = 1.35
	// DefaultOutputDir is relative to the working directory.
	DefaultOutputDir = "output"
)

// Encoder renders still-image clips and concatenates clips.
type Encoder interface {
	Render(ctx context.Context, req ffmpeg.RenderRequest) error
	Concat(ctx context.Context, req ffmpeg.ConcatRequest) error
}

// TransitionSpec configures the animated clip between the intro and the main video.
type TransitionSpec struct {
	Style           Style
	DurationSeconds float64
	ZoomMax         float64
	PaddingColor    PaddingColor
}

// DefaultTransition returns the zoom transition with default parameters.
func DefaultTransition() TransitionSpec {
	return TransitionSpec{
		Style:           StyleZoom,
		DurationSeconds: DefaultTransitionSeconds,
		ZoomMax:         DefaultZoomMax,
		PaddingColor:    ColorBlack,
	}
}

// RenderJob is one intro + transition + main video concatenation.
type RenderJob struct {
	VideoPath    string
	ImagePath    string
	IntroSeconds float64
	Transition   TransitionSpec
	// OutputDir overrides the pipeline's output directory when set.
	OutputDir string
}

// RenderResult describes a finished job.
type RenderResult struct {
	JobID      string
	OutputPath string
	Properties VideoProperties
	StartedAt  time.Time
	FinishedAt time.Time
}

// Pipeline sequences probing, padding, clip rendering, concatenation and
// publishing for render jobs. A Pipeline is safe for concurrent Run calls.
type Pipeline struct {
	prober    Prober
	encoder   Encoder
	logger    *slog.Logger
	workDir   string
	outputDir string
	parallel  bool
	reencode  bool
	now       func() time.Time
	newID     func() string
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the pipeline logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithWorkDir sets the directory under which per-job workspaces are created.
func WithWorkDir(dir string) Option {
	return func(p *Pipeline) { p.workDir = dir }
}

// WithOutputDir sets the default output directory.
func WithOutputDir(dir string) Option {
	return func(p *Pipeline) {
		if strings.TrimSpace(dir) != "" {
			p.outputDir = dir
		}
	}
}

// WithParallelClips renders the intro and transition clips concurrently.
func WithParallelClips(enabled bool) Option {
	return func(p *Pipeline) { p.parallel = enabled }
}

// WithReencodeConcat re-encodes at concat time instead of stream copying.
func WithReencodeConcat(enabled bool) Option {
	return func(p *Pipeline) { p.reencode = enabled }
}

// WithClock overrides the time source used for output names.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// WithIDGenerator overrides job id generation.
func WithIDGenerator(newID func() string) Option {
	return func(p *Pipeline) {
		if newID != nil {
			p.newID = newID
		}
	}
}

// NewPipeline constructs a pipeline around the probe and encode collaborators.
func NewPipeline(prober Prober, encoder Encoder, opts ...Option) *Pipeline {
	p := &Pipeline{
		prober:    prober,
		encoder:   encoder,
		logger:    logging.NewNop(),
		workDir:   os.TempDir(),
		outputDir: DefaultOutputDir,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logging.NewComponentLogger(p.logger, "pipeline")
	return p
}

// Validate checks a job without touching the collaborators or the filesystem
// beyond stat calls on the inputs.
func (p *Pipeline) Validate(job RenderJob) error {
	_, err := normalizeJob(job)
	return err
}

// normalizeJob validates job and returns it with the style and padding color
// resolved to their canonical names.
func normalizeJob(job RenderJob) (RenderJob, error) {
	if err := requireRegularFile("video", job.VideoPath); err != nil {
		return job, err
	}
	if err := requireRegularFile("image", job.ImagePath); err != nil {
		return job, err
	}
	if !(job.IntroSeconds > 0) {
		return job, &InvalidParameterError{Name: "duration", Value: job.IntroSeconds, Reason: "must be positive"}
	}
	t := job.Transition
	if !(t.DurationSeconds > 0) {
		return job, &InvalidParameterError{Name: "transition duration", Value: t.DurationSeconds, Reason: "must be positive"}
	}
	if !(t.ZoomMax >= MinZoom && t.ZoomMax <= MaxZoom) {
		return job, &InvalidParameterError{Name: "zoom max", Value: t.ZoomMax, Reason: fmt.Sprintf("must be between %g and %g", MinZoom, MaxZoom)}
	}
	style, err := ParseStyle(string(t.Style))
	if err != nil {
		return job, err
	}
	fill, err := ParsePaddingColor(string(t.PaddingColor))
	if err != nil {
		return job, err
	}
	job.Transition.Style = style
	job.Transition.PaddingColor = fill
	return job, nil
}

func requireRegularFile(role, path string) error {
	if strings.TrimSpace(path) == "" {
		return &InputNotFoundError{Role: role, Path: path}
	}
	info, err := os.Stat(path)
	if err != nil {
		return &InputNotFoundError{Role: role, Path: path, Err: err}
	}
	if !info.Mode().IsRegular() {
		return &InputNotFoundError{Role: role, Path: path, Err: errors.New("not a regular file")}
	}
	return nil
}

// Run executes the job and returns the published output path. Intermediate
// files live in a per-job workspace that is removed on every exit path. Once
// validation passes, the returned result carries the job id even on failure.
func (p *Pipeline) Run(ctx context.Context, job RenderJob) (RenderResult, error) {
	job, err := normalizeJob(job)
	if err != nil {
		return RenderResult{}, err
	}

	jobID := p.newID()
	ctx = services.WithJobID(ctx, jobID)
	logger := logging.WithContext(ctx, p.logger)
	result := RenderResult{JobID: jobID, StartedAt: p.now()}

	ws, err := newWorkspace(p.workDir, jobID)
	if err != nil {
		return result, services.Wrap(services.ErrConfiguration, string(StageValidate), "workspace", p.workDir, err)
	}
	defer func() {
		if cleanupErr := ws.Cleanup(); cleanupErr != nil {
			logger.Warn("workspace cleanup failed", logging.Error(cleanupErr), logging.String("workspace", ws.dir))
		}
	}()

	logger.Info("render job started",
		logging.String("video", job.VideoPath),
		logging.String("image", job.ImagePath),
		logging.String("style", string(job.Transition.Style)),
		logging.Float64("intro_seconds", job.IntroSeconds),
		logging.Float64("transition_seconds", job.Transition.DurationSeconds),
	)

	props, err := ProbeProperties(services.WithStage(ctx, string(StageProbe)), p.prober, job.VideoPath)
	if err != nil {
		return result, err
	}
	result.Properties = props
	probeLog := logger.With(logging.String(logging.FieldStage, string(StageProbe)))
	if len(props.Defaulted) > 0 {
		probeLog.Warn("video properties defaulted",
			logging.String("fields", strings.Join(props.Defaulted, ",")),
			logging.Float64("frame_rate", props.FrameRate),
			logging.String("pixel_format", props.PixelFormat),
			logging.String("codec", props.Codec),
		)
	}
	probeLog.Info("video properties",
		logging.String("resolution", props.Resolution()),
		logging.Float64("frame_rate", props.FrameRate),
		logging.String("pixel_format", props.PixelFormat),
		logging.String("source_codec", props.SourceCodec),
		logging.String("encoder", props.Codec),
		logging.Int64("bitrate", props.Bitrate),
	)

	padded, err := PadImage(job.ImagePath, ws.PaddedImage(), props.Width, props.Height, job.Transition.PaddingColor)
	if err != nil {
		return result, err
	}
	logger.Debug("intro image padded",
		logging.String(logging.FieldStage, string(StagePad)),
		logging.Float64("scale", padded.Scale),
		logging.String("content", padded.Content.String()),
	)

	filter, err := BuildFilter(job.Transition.Style, props, job.Transition.DurationSeconds, job.Transition.ZoomMax,
		FilterOptions{SkipFitPad: true, Fill: job.Transition.PaddingColor})
	if err != nil {
		return result, err
	}

	params := props.EncodeParams()
	clips := []struct {
		stage Stage
		req   ffmpeg.RenderRequest
	}{
		{StageIntro, ffmpeg.RenderRequest{ImagePath: padded.Path, OutputPath: ws.IntroClip(), Duration: job.IntroSeconds, Params: params}},
		{StageTransition, ffmpeg.RenderRequest{ImagePath: padded.Path, OutputPath: ws.TransitionClip(), Duration: job.Transition.DurationSeconds, Filter: filter, Params: params}},
	}

	if p.parallel {
		group, groupCtx := errgroup.WithContext(ctx)
		for _, clip := range clips {
			group.Go(func() error {
				return p.render(groupCtx, logger, clip.stage, clip.req)
			})
		}
		if err := group.Wait(); err != nil {
			return result, err
		}
	} else {
		for _, clip := range clips {
			if err := p.render(ctx, logger, clip.stage, clip.req); err != nil {
				return result, err
			}
		}
	}

	concat := ffmpeg.ConcatRequest{
		ManifestPath: ws.Manifest(),
		Inputs:       []string{ws.IntroClip(), ws.TransitionClip(), job.VideoPath},
		OutputPath:   ws.Joined(),
		Params:       params,
		Reencode:     p.reencode,
	}
	if err := p.encoder.Concat(services.WithStage(ctx, string(StageConcat)), concat); err != nil {
		return result, renderError(ctx, StageConcat, err)
	}
	logger.Debug("clips concatenated", logging.String(logging.FieldStage, string(StageConcat)), logging.Bool("reencode", p.reencode))

	outputDir := p.outputDir
	if strings.TrimSpace(job.OutputDir) != "" {
		outputDir = job.OutputDir
	}
	finished := p.now()
	outputPath, err := publishOutput(ws.Joined(), outputDir, job.VideoPath, finished)
	if err != nil {
		return result, services.Wrap(services.ErrTransient, string(StagePublish), "move output", outputDir, err)
	}

	result.OutputPath = outputPath
	result.FinishedAt = finished
	logger.Info("render job completed",
		logging.String("output", outputPath),
		logging.Duration("elapsed", finished.Sub(result.StartedAt)),
	)
	return result, nil
}

func (p *Pipeline) render(ctx context.Context, logger *slog.Logger, stage Stage, req ffmpeg.RenderRequest) error {
	started := time.Now()
	if err := p.encoder.Render(services.WithStage(ctx, string(stage)), req); err != nil {
		return renderError(ctx, stage, err)
	}
	logger.Debug("clip rendered",
		logging.String(logging.FieldStage, string(stage)),
		logging.Float64("seconds", req.Duration),
		logging.Duration("elapsed", time.Since(started)),
	)
	return nil
}

func renderError(ctx context.Context, stage Stage, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s render: %w", stage, ctxErr)
	}
	var cmdErr *ffmpeg.CommandError
	if errors.As(err, &cmdErr) {
		return &RenderError{Stage: stage, Diagnostic: cmdErr.Stderr, Err: cmdErr.Err}
	}
	return &RenderError{Stage: stage, Err: err}
}
