package config

import (
	"errors"
	"fmt"
)

// MaxZoom is the largest zoom factor accepted for the zoom transition.
const MaxZoom = 5.0

// Validate ensures the configuration is usable. Style and padding color names
// are checked by the intro package when a job is built.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateIntro(); err != nil {
		return err
	}
	if err := c.validateEncoding(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.OutputDir == "" {
		return errors.New("paths.output_dir must be set")
	}
	if c.Paths.WorkDir == "" {
		return errors.New("paths.work_dir must be set")
	}
	if c.History.Enabled && c.Paths.HistoryDB == "" {
		return errors.New("paths.history_db must be set when history.enabled is true")
	}
	return nil
}

func (c *Config) validateIntro() error {
	if c.Intro.Duration <= 0 {
		return errors.New("intro.duration must be positive")
	}
	if c.Intro.TransitionSeconds <= 0 {
		return errors.New("intro.transition_seconds must be positive")
	}
	if c.Intro.ZoomMax < 1 || c.Intro.ZoomMax > MaxZoom {
		return fmt.Errorf("intro.zoom_max must be between 1 and %g", MaxZoom)
	}
	return nil
}

func (c *Config) validateEncoding() error {
	switch c.Encoding.ConcatMode {
	case ConcatModeCopy, ConcatModeReencode:
		return nil
	default:
		return fmt.Errorf("encoding.concat_mode: unsupported value %q (want %q or %q)", c.Encoding.ConcatMode, ConcatModeCopy, ConcatModeReencode)
	}
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
