package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeIntro()
	c.normalizeEncoding()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = os.TempDir()
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.HistoryDB) == "" {
		c.Paths.HistoryDB = defaultHistoryDB
	}
	if c.Paths.HistoryDB, err = expandPath(c.Paths.HistoryDB); err != nil {
		return fmt.Errorf("paths.history_db: %w", err)
	}
	return nil
}

func (c *Config) normalizeIntro() {
	c.Intro.Style = strings.ToLower(strings.TrimSpace(c.Intro.Style))
	if c.Intro.Style == "" {
		c.Intro.Style = defaultIntroStyle
	}
	c.Intro.PaddingColor = strings.ToLower(strings.TrimSpace(c.Intro.PaddingColor))
	if c.Intro.PaddingColor == "" {
		c.Intro.PaddingColor = defaultPaddingColor
	}
}

func (c *Config) normalizeEncoding() {
	c.Encoding.FFmpegBinary = strings.TrimSpace(c.Encoding.FFmpegBinary)
	if c.Encoding.FFmpegBinary == "" {
		if value, ok := os.LookupEnv(EnvFFmpegBinary); ok {
			c.Encoding.FFmpegBinary = strings.TrimSpace(value)
		}
	}
	c.Encoding.FFprobeBinary = strings.TrimSpace(c.Encoding.FFprobeBinary)
	if c.Encoding.FFprobeBinary == "" {
		if value, ok := os.LookupEnv(EnvFFprobeBinary); ok {
			c.Encoding.FFprobeBinary = strings.TrimSpace(value)
		}
	}
	c.Encoding.ConcatMode = strings.ToLower(strings.TrimSpace(c.Encoding.ConcatMode))
	if c.Encoding.ConcatMode == "" {
		c.Encoding.ConcatMode = ConcatModeCopy
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
