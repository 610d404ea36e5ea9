package harness_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"introsplice/internal/harness"
	"introsplice/internal/intro"
)

func TestDefaultParams(t *testing.T) {
	p := harness.DefaultParams()
	if len(p.Names) != 13 || p.Names[0] != "hoangyell" || p.Names[12] != "pig" {
		t.Fatalf("unexpected default names %v", p.Names)
	}
	if p.IntroSeconds != 0.5 || p.Transition.Style != intro.StyleZoom || p.Transition.ZoomMax != 1.35 {
		t.Fatalf("unexpected defaults %+v", p)
	}
	if p.Transition.PaddingColor != intro.ColorBlack || p.Transition.DurationSeconds != 1 {
		t.Fatalf("unexpected transition defaults %+v", p.Transition)
	}
}

func TestLoadParamsFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.env")
	content := strings.Join([]string{
		"# batch settings",
		"DIRECTORY=/srv/clips",
		"NAMES=cat, dog,,goat",
		"DURATION=0.75",
		"ANIMATION_STYLE=Blur_In",
		"ZOOM_MAX=2",
		"PADDING_COLOR=white",
		"TRANSITION_SECONDS=1.5",
		"OUTPUT_DIR=/srv/out",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write params: %v", err)
	}

	p, err := harness.LoadParams(path, harness.DefaultParams())
	if err != nil {
		t.Fatalf("LoadParams: %v", err)
	}
	if p.Directory != "/srv/clips" || p.OutputDir != "/srv/out" {
		t.Fatalf("unexpected paths %+v", p)
	}
	if !slices.Equal(p.Names, []string{"cat", "dog", "goat"}) {
		t.Fatalf("unexpected names %v", p.Names)
	}
	if p.IntroSeconds != 0.75 || p.Transition.DurationSeconds != 1.5 || p.Transition.ZoomMax != 2 {
		t.Fatalf("unexpected numbers %+v", p)
	}
	if p.Transition.Style != intro.StyleBlurIn || p.Transition.PaddingColor != intro.ColorWhite {
		t.Fatalf("unexpected transition %+v", p.Transition)
	}
	if _, set := os.LookupEnv("ANIMATION_STYLE"); set {
		t.Fatal("loading params must not touch the process environment")
	}
}

func TestApplyValuesKeepsBaseForMissingKeys(t *testing.T) {
	base := harness.DefaultParams()
	base.Directory = "/clips"
	p, err := harness.ApplyValues(base, map[string]string{"DURATION": "  "})
	if err != nil {
		t.Fatalf("ApplyValues: %v", err)
	}
	if p.Directory != "/clips" || p.IntroSeconds != base.IntroSeconds || len(p.Names) != len(base.Names) {
		t.Fatalf("base values not preserved: %+v", p)
	}
}

func TestApplyValuesRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"DURATION":        "half",
		"ZOOM_MAX":        "x",
		"ANIMATION_STYLE": "spin",
		"PADDING_COLOR":   "teal",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			_, err := harness.ApplyValues(harness.DefaultParams(), map[string]string{key: value})
			var invalid *intro.InvalidParameterError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidParameterError, got %v", err)
			}
		})
	}
}

func TestParamsValidate(t *testing.T) {
	p := harness.DefaultParams()
	if err := p.Validate(); err == nil {
		t.Fatal("expected missing directory error")
	}
	p.Directory = "/clips"
	p.Names = nil
	if err := p.Validate(); err == nil {
		t.Fatal("expected missing names error")
	}
	p.Names = []string{"cat"}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestJobsExpandNames(t *testing.T) {
	p := harness.DefaultParams()
	p.Directory = "/clips"
	p.Names = []string{"cat", "dragon"}
	p.OutputDir = "/out"

	jobs := p.Jobs()
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[1].Name != "dragon" || jobs[1].Job.VideoPath != "/clips/dragon.mp4" || jobs[1].Job.ImagePath != "/clips/dragon_main.png" {
		t.Fatalf("unexpected job %+v", jobs[1])
	}
	if jobs[0].Job.OutputDir != "/out" || jobs[0].Job.IntroSeconds != 0.5 {
		t.Fatalf("unexpected job settings %+v", jobs[0].Job)
	}
}

type fakeRunner struct {
	mu       sync.Mutex
	fail     map[string]error
	inFlight atomic.Int32
	peak     atomic.Int32
	seen     []string
}

func (f *fakeRunner) Run(_ context.Context, job intro.RenderJob) (intro.RenderResult, error) {
	current := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		peak := f.peak.Load()
		if current <= peak || f.peak.CompareAndSwap(peak, current) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)

	f.mu.Lock()
	f.seen = append(f.seen, job.VideoPath)
	err := f.fail[job.VideoPath]
	f.mu.Unlock()
	if err != nil {
		return intro.RenderResult{JobID: "failed-" + filepath.Base(job.VideoPath)}, err
	}
	return intro.RenderResult{JobID: "ok", OutputPath: job.VideoPath + ".out"}, nil
}

func TestRunCollectsOutcomesInOrder(t *testing.T) {
	p := harness.DefaultParams()
	p.Directory = "/clips"
	jobs := p.Jobs()
	runner := &fakeRunner{fail: map[string]error{"/clips/tiger.mp4": errors.New("boom")}}

	outcomes := harness.Run(context.Background(), runner, jobs, 3, nil)
	if len(outcomes) != len(jobs) {
		t.Fatalf("expected %d outcomes, got %d", len(jobs), len(outcomes))
	}
	for i, o := range outcomes {
		if o.Name != jobs[i].Name {
			t.Fatalf("outcome %d is %s, want %s", i, o.Name, jobs[i].Name)
		}
		if o.Name == "tiger" {
			if o.Succeeded() || o.Result.JobID != "failed-tiger.mp4" {
				t.Fatalf("expected tiger failure, got %+v", o)
			}
			continue
		}
		if !o.Succeeded() || o.Result.OutputPath == "" {
			t.Fatalf("expected success for %s, got %v", o.Name, o.Err)
		}
	}
	if peak := runner.peak.Load(); peak > 3 {
		t.Fatalf("concurrency limit exceeded: %d", peak)
	}

	summary := harness.Summarize(outcomes)
	if summary.Total != 13 || summary.Succeeded != 12 || summary.Failed != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestRunSequentialByDefault(t *testing.T) {
	p := harness.DefaultParams()
	p.Directory = "/clips"
	p.Names = []string{"a", "b", "c"}
	runner := &fakeRunner{}

	harness.Run(context.Background(), runner, p.Jobs(), 0, nil)
	if peak := runner.peak.Load(); peak != 1 {
		t.Fatalf("expected sequential execution, peak %d", peak)
	}
	if !slices.Equal(runner.seen, []string{"/clips/a.mp4", "/clips/b.mp4", "/clips/c.mp4"}) {
		t.Fatalf("unexpected order %v", runner.seen)
	}
}

func TestRunCanceledContextSkipsJobs(t *testing.T) {
	p := harness.DefaultParams()
	p.Directory = "/clips"
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runner := &fakeRunner{}

	outcomes := harness.Run(ctx, runner, p.Jobs(), 2, nil)
	for _, o := range outcomes {
		if !errors.Is(o.Err, context.Canceled) {
			t.Fatalf("expected cancellation for %s, got %v", o.Name, o.Err)
		}
	}
	if len(runner.seen) != 0 {
		t.Fatalf("no job should run, saw %v", runner.seen)
	}
}
