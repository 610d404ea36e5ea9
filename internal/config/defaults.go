package config

import "os"

const (
	defaultConfigPath        = "~/.config/introsplice/config.toml"
	projectConfigName        = "introsplice.toml"
	defaultOutputDir         = "output"
	defaultHistoryDB         = "~/.local/share/introsplice/history.db"
	defaultIntroDuration     = 0.5
	defaultIntroStyle        = "zoom"
	defaultZoomMax           = 1.35
	defaultPaddingColor      = "black"
	defaultTransitionSeconds = 1.0
	defaultFFmpegBinary      = "ffmpeg"
	defaultFFprobeBinary     = "ffprobe"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"

	// ConcatModeCopy stream-copies the aligned clips into the output.
	ConcatModeCopy = "copy"
	// ConcatModeReencode re-encodes the concatenated stream with the matched encoder settings.
	ConcatModeReencode = "reencode"

	// EnvFFmpegBinary overrides the ffmpeg binary when the config leaves it unset.
	EnvFFmpegBinary = "INTROSPLICE_FFMPEG"
	// EnvFFprobeBinary overrides the ffprobe binary when the config leaves it unset.
	EnvFFprobeBinary = "INTROSPLICE_FFPROBE"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			WorkDir:   os.TempDir(),
			HistoryDB: defaultHistoryDB,
		},
		Intro: Intro{
			Duration:          defaultIntroDuration,
			Style:             defaultIntroStyle,
			ZoomMax:           defaultZoomMax,
			PaddingColor:      defaultPaddingColor,
			TransitionSeconds: defaultTransitionSeconds,
		},
		Encoding: Encoding{
			ConcatMode: ConcatModeCopy,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
