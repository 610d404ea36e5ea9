package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"introsplice/internal/config"
	"introsplice/internal/deps"
	"introsplice/internal/history"
	"introsplice/internal/intro"
	"introsplice/internal/logging"
	"introsplice/internal/media/ffmpeg"
	"introsplice/internal/media/ffprobe"
	"introsplice/internal/preflight"
)

type commandContext struct {
	configFlag    *string
	logLevelFlag  *string
	logFormatFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, logLevelFlag, logFormatFlag *string) *commandContext {
	return &commandContext{
		configFlag:    configFlag,
		logLevelFlag:  logLevelFlag,
		logFormatFlag: logFormatFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, exists, err := config.Load(flagValue(c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}
		if level := flagValue(c.logLevelFlag); level != "" {
			cfg.Logging.Level = strings.ToLower(level)
		}
		if format := flagValue(c.logFormatFlag); format != "" {
			cfg.Logging.Format = strings.ToLower(format)
		}
		if err := cfg.Validate(); err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// newProber builds the ffprobe collaborator for cfg.
func newProber(cfg *config.Config) *ffprobe.Prober {
	return ffprobe.New(deps.ResolveFFprobe(cfg.FFprobeBinary(), cfg.FFmpegBinary()))
}

// newPipeline wires the real ffprobe and ffmpeg collaborators into a pipeline.
func newPipeline(cfg *config.Config, logger *slog.Logger) *intro.Pipeline {
	return intro.NewPipeline(
		newProber(cfg),
		ffmpeg.New(cfg.FFmpegBinary()),
		intro.WithLogger(logger),
		intro.WithWorkDir(cfg.Paths.WorkDir),
		intro.WithOutputDir(cfg.Paths.OutputDir),
		intro.WithParallelClips(cfg.Encoding.ParallelClips),
		intro.WithReencodeConcat(cfg.Encoding.ConcatMode == config.ConcatModeReencode),
	)
}

// openHistory returns nil when the ledger is disabled.
func openHistory(cfg *config.Config) (*history.Store, error) {
	if !cfg.History.Enabled {
		return nil, nil
	}
	store, err := history.Open(cfg.Paths.HistoryDB)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return store, nil
}

// configTransition resolves the configured default transition.
func configTransition(cfg *config.Config) (intro.TransitionSpec, error) {
	style, err := intro.ParseStyle(cfg.Intro.Style)
	if err != nil {
		return intro.TransitionSpec{}, fmt.Errorf("intro.style: %w", err)
	}
	color, err := intro.ParsePaddingColor(cfg.Intro.PaddingColor)
	if err != nil {
		return intro.TransitionSpec{}, fmt.Errorf("intro.padding_color: %w", err)
	}
	return intro.TransitionSpec{
		Style:           style,
		DurationSeconds: cfg.Intro.TransitionSeconds,
		ZoomMax:         cfg.Intro.ZoomMax,
		PaddingColor:    color,
	}, nil
}

// requirePreflight fails when a binary or directory needed for rendering is unusable.
func requirePreflight(cfg *config.Config) error {
	failed := preflight.Failed(preflight.RunAll(cfg))
	if len(failed) == 0 {
		return nil
	}
	parts := make([]string, 0, len(failed))
	for _, r := range failed {
		parts = append(parts, fmt.Sprintf("%s: %s", r.Name, r.Detail))
	}
	return fmt.Errorf("preflight failed (run `introsplice doctor`): %s", strings.Join(parts, "; "))
}

func flagValue(flag *string) string {
	if flag == nil {
		return ""
	}
	return strings.TrimSpace(*flag)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
