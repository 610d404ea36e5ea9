package main

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"introsplice/internal/config"
	"introsplice/internal/testsupport"
)

const ffmpegStub = `#!/bin/sh
prev=""
for arg in "$@"; do
  case "$arg" in
    *.mp4) if [ "$prev" != "-i" ]; then printf 'clip' > "$arg"; fi ;;
  esac
  prev="$arg"
done
exit 0
`

const ffprobeStub = `#!/bin/sh
case "$*" in
  *stream=width,height*) echo "1920x1080" ;;
  *stream=r_frame_rate*) echo "30/1" ;;
  *stream=pix_fmt*) echo "yuv420p" ;;
  *stream=codec_name*) echo "h264" ;;
  *stream=bit_rate*) echo "N/A" ;;
  *-show_streams*) echo '{"streams":[{"index":0,"codec_type":"video","codec_name":"h264","width":1920,"height":1080,"pix_fmt":"yuv420p","r_frame_rate":"30/1"},{"index":1,"codec_type":"audio","codec_name":"aac"}],"format":{"duration":"12.5"}}' ;;
esac
exit 0
`

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
	clipsDir   string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	binDir := filepath.Join(base, "stubs")
	cfg.Encoding.FFmpegBinary = writeScript(t, filepath.Join(binDir, "ffmpeg"), ffmpegStub)
	cfg.Encoding.FFprobeBinary = writeScript(t, filepath.Join(binDir, "ffprobe"), ffprobeStub)

	configPath := filepath.Join(base, "introsplice.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		baseDir:    base,
		clipsDir:   filepath.Join(base, "clips"),
	}
}

// addClip writes {clips}/{name}.mp4 and, when withImage is set, {clips}/{name}_main.png.
func (e *cliTestEnv) addClip(t *testing.T, name string, withImage bool) (string, string) {
	t.Helper()
	video := filepath.Join(e.clipsDir, name+".mp4")
	image := filepath.Join(e.clipsDir, name+"_main.png")
	testsupport.WriteFile(t, video, 4096)
	if withImage {
		testsupport.WritePNG(t, image, 800, 400, color.NRGBA{R: 30, G: 90, B: 200, A: 255})
	}
	return video, image
}

func writeScript(t *testing.T, path, body string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir stub dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", path, err)
	}
	return path
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
