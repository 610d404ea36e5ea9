package deps

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// ResolveFFprobe returns the ffprobe command to run alongside ffmpegCommand.
//
// An explicit path is returned unchanged. A bare name that is missing from
// PATH resolves to the ffprobe sitting next to the resolved ffmpeg binary,
// which is how static ffmpeg builds are usually unpacked.
func ResolveFFprobe(ffprobeCommand, ffmpegCommand string) string {
	ffprobeCommand = strings.TrimSpace(ffprobeCommand)
	if ffprobeCommand == "" {
		ffprobeCommand = "ffprobe"
	}
	if strings.ContainsRune(ffprobeCommand, filepath.Separator) {
		return ffprobeCommand
	}
	if _, err := exec.LookPath(ffprobeCommand); err == nil {
		return ffprobeCommand
	}

	ffmpegBinary := strings.TrimSpace(ffmpegCommand)
	if ffmpegBinary == "" {
		return ffprobeCommand
	}
	resolved, err := exec.LookPath(ffmpegBinary)
	if err != nil {
		return ffprobeCommand
	}
	candidate := filepath.Join(filepath.Dir(resolved), executableName("ffprobe"))
	if info, statErr := os.Stat(candidate); statErr == nil && isExecutable(info) {
		return candidate
	}
	return ffprobeCommand
}

// MediaRequirements lists the ffmpeg and ffprobe binaries the pipeline runs.
func MediaRequirements(ffmpegCommand, ffprobeCommand string) []Requirement {
	return []Requirement{
		{
			Name:        "FFmpeg",
			Command:     ffmpegCommand,
			Description: "Renders intro clips and concatenates output",
		},
		{
			Name:        "FFprobe",
			Command:     ResolveFFprobe(ffprobeCommand, ffmpegCommand),
			Description: "Reads main video properties",
		},
	}
}

func executableName(base string) string {
	if runtime.GOOS == "windows" {
		return base + ".exe"
	}
	return base
}

func isExecutable(info os.FileInfo) bool {
	if info == nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
