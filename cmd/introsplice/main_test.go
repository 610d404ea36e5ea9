package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"introsplice/internal/intro"
	"introsplice/internal/services"
	"introsplice/internal/testsupport"
)

func TestStylesCommandListsStylesAndColors(t *testing.T) {
	out, _, err := runCLI(t, "", "styles")
	if err != nil {
		t.Fatalf("styles: %v", err)
	}
	for _, s := range intro.Styles() {
		requireContains(t, out, string(s))
	}
	requireContains(t, out, "Slide Left")
	requireContains(t, out, "0xFF00FF")
}

func TestFilterCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, "filter", "--style", "fade", "--duration", "2")
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if strings.TrimSpace(out) != "fade=t=in:st=0:d=2" {
		t.Fatalf("unexpected graph %q", out)
	}

	out, _, err = runCLI(t, env.configPath, "filter", "--style", "none", "--width", "1280", "--height", "720", "--fit-pad")
	if err != nil {
		t.Fatalf("filter fit-pad: %v", err)
	}
	requireContains(t, out, "pad=1280:720")
	requireContains(t, out, "color=white")

	out, _, err = runCLI(t, env.configPath, "filter", "--style", "none")
	if err != nil {
		t.Fatalf("filter none: %v", err)
	}
	requireContains(t, out, "(none)")
}

func TestFilterCommandRejectsUnknownStyle(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, env.configPath, "filter", "--style", "wipe")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestConfigInitValidateShow(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, "", "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if _, _, err := runCLI(t, "", "config", "init", "--path", target); err == nil {
		t.Fatal("expected init to refuse overwriting")
	}

	out, _, err = runCLI(t, env.configPath, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "[intro]")
	requireContains(t, out, env.cfg.Paths.OutputDir)
}

func TestLogLevelOverrideIsValidated(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, env.configPath, "--log-level", "verbose", "config", "validate"); err == nil {
		t.Fatal("expected invalid log level to fail")
	}
	if _, _, err := runCLI(t, env.configPath, "--log-level", "DEBUG", "config", "validate"); err != nil {
		t.Fatalf("expected uppercase level to be accepted: %v", err)
	}
}

func TestAddIntroEndToEnd(t *testing.T) {
	env := setupCLITestEnv(t)
	video, image := env.addClip(t, "cat", true)

	out, _, err := runCLI(t, env.configPath, "add-intro", "--video", video, "--image", image, "--style", "fade")
	if err != nil {
		t.Fatalf("add-intro: %v", err)
	}
	outputPath := strings.TrimSpace(out)
	if filepath.Dir(outputPath) != env.cfg.Paths.OutputDir {
		t.Fatalf("output %q not in %s", outputPath, env.cfg.Paths.OutputDir)
	}
	if !strings.HasPrefix(filepath.Base(outputPath), "cat_") || filepath.Ext(outputPath) != ".mp4" {
		t.Fatalf("unexpected output name %q", outputPath)
	}
	if _, err := os.Stat(outputPath); err != nil {
		t.Fatalf("output missing: %v", err)
	}

	entries, err := os.ReadDir(env.cfg.Paths.WorkDir)
	if err != nil {
		t.Fatalf("read work dir: %v", err)
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), "introsplice-") {
			t.Fatalf("workspace %s left behind", entry.Name())
		}
	}

	out, _, err = runCLI(t, env.configPath, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "succeeded")
	requireContains(t, out, "fade")
	requireContains(t, out, "Totals: 1 succeeded, 0 failed, 0 rejected")
}

func TestAddIntroRejectsZeroDuration(t *testing.T) {
	env := setupCLITestEnv(t)
	video, image := env.addClip(t, "dog", true)

	_, _, err := runCLI(t, env.configPath, "add-intro", "--video", video, "--image", image, "--duration", "0")
	var invalid *intro.InvalidParameterError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidParameterError, got %v", err)
	}

	out, _, err := runCLI(t, env.configPath, "history", "--json")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	var entries []map[string]any
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode history json: %v\n%s", err, out)
	}
	if len(entries) != 1 || entries[0]["status"] != "rejected" {
		t.Fatalf("expected one rejected entry, got %v", entries)
	}
}

func TestAddIntroHistoryDisabled(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithHistoryDisabled())
	video, image := env.addClip(t, "pig", true)

	if _, _, err := runCLI(t, env.configPath, "add-intro", "--video", video, "--image", image); err != nil {
		t.Fatalf("add-intro: %v", err)
	}
	if _, err := os.Stat(env.cfg.Paths.HistoryDB); !os.IsNotExist(err) {
		t.Fatalf("history database should not be created, stat err %v", err)
	}
	out, _, err := runCLI(t, env.configPath, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "History is disabled")
}

func TestBatchReportsFailures(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithParallelClips())
	env.addClip(t, "cat", true)
	env.addClip(t, "dog", false)

	out, _, err := runCLI(t, env.configPath, "batch", "--dir", env.clipsDir, "--names", "cat,dog", "--jobs", "2")
	if err == nil || !strings.Contains(err.Error(), "1 of 2 jobs failed") {
		t.Fatalf("expected one failure, got %v", err)
	}
	requireContains(t, out, "1 succeeded, 1 failed")
	requireContains(t, out, "image file not found")

	matches, _ := filepath.Glob(filepath.Join(env.cfg.Paths.OutputDir, "cat_*.mp4"))
	if len(matches) != 1 {
		t.Fatalf("expected one cat output, got %v", matches)
	}
}

func TestBatchParamsFile(t *testing.T) {
	env := setupCLITestEnv(t)
	env.addClip(t, "goat", true)
	env.addClip(t, "horse", true)
	outDir := filepath.Join(env.baseDir, "batch-out")
	params := filepath.Join(env.baseDir, "batch.env")
	content := "DIRECTORY=" + env.clipsDir + "\nNAMES=goat,horse\nANIMATION_STYLE=rotate\nOUTPUT_DIR=" + outDir + "\n"
	if err := os.WriteFile(params, []byte(content), 0o644); err != nil {
		t.Fatalf("write params: %v", err)
	}

	out, _, err := runCLI(t, env.configPath, "batch", "--params", params)
	if err != nil {
		t.Fatalf("batch: %v\n%s", err, out)
	}
	requireContains(t, out, "2 succeeded, 0 failed")
	for _, name := range []string{"goat", "horse"} {
		matches, _ := filepath.Glob(filepath.Join(outDir, name+"_*.mp4"))
		if len(matches) != 1 {
			t.Fatalf("expected %s output in %s, got %v", name, outDir, matches)
		}
	}
}

func TestBatchRequiresDirectory(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, env.configPath, "batch")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestProbeCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	video, _ := env.addClip(t, "tiger", false)

	out, _, err := runCLI(t, env.configPath, "probe", video)
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	requireContains(t, out, "1920x1080")
	requireContains(t, out, "h264 -> libx264")
	requireContains(t, out, "encoder default")
	requireContains(t, out, "Duration: 12.50s  Streams: 1 video, 1 audio")

	out, _, err = runCLI(t, env.configPath, "probe", "--json", video)
	if err != nil {
		t.Fatalf("probe json: %v", err)
	}
	var props map[string]any
	if err := json.Unmarshal([]byte(out), &props); err != nil {
		t.Fatalf("decode probe json: %v", err)
	}
	if props["encoder"] != "libx264" || props["frame_rate"] != 30.0 {
		t.Fatalf("unexpected probe json %v", props)
	}
}

func TestDoctorCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, env.configPath, "doctor")
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	requireContains(t, out, "== Dependencies ==")
	requireContains(t, out, "[OK]")

	env.cfg.Encoding.FFmpegBinary = filepath.Join(env.baseDir, "missing", "ffmpeg")
	writeTestConfig(t, env.configPath, env.cfg)
	out, _, err = runCLI(t, env.configPath, "doctor")
	if err == nil {
		t.Fatal("expected doctor to fail with a missing ffmpeg")
	}
	requireContains(t, out, "[ERROR]")
}

func TestCleanCommandRemovesStaleWorkspaces(t *testing.T) {
	env := setupCLITestEnv(t)
	stale := filepath.Join(env.cfg.Paths.WorkDir, "introsplice-stale")
	if err := os.MkdirAll(stale, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	old := time.Now().Add(-72 * time.Hour)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	out, _, err := runCLI(t, env.configPath, "clean")
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	requireContains(t, out, "1 workspaces removed")
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatal("stale workspace still present")
	}
}
