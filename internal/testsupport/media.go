package testsupport

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"introsplice/internal/media/ffmpeg"
	"introsplice/internal/media/ffprobe"
)

// FakeProber answers ffprobe selector queries from a table keyed by selector name.
type FakeProber struct {
	mu     sync.Mutex
	Values map[string]string
	Errors map[string]error
	calls  []string
}

// NewFakeProber returns a prober describing a 1920x1080 30fps h264 video.
func NewFakeProber() *FakeProber {
	return &FakeProber{
		Values: map[string]string{
			ffprobe.SelectResolution.Name:  "1920x1080",
			ffprobe.SelectFrameRate.Name:   "30/1",
			ffprobe.SelectPixelFormat.Name: "yuv420p",
			ffprobe.SelectCodecName.Name:   "h264",
			ffprobe.SelectBitrate.Name:     "4500000",
		},
		Errors: map[string]error{},
	}
}

// Query implements the intro prober contract.
func (f *FakeProber) Query(_ context.Context, _ string, sel ffprobe.Selector) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, sel.Name)
	if err := f.Errors[sel.Name]; err != nil {
		return "", err
	}
	return f.Values[sel.Name], nil
}

// Calls returns the selector names queried so far.
func (f *FakeProber) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// CallCount returns how many times sel was queried.
func (f *FakeProber) CallCount(sel ffprobe.Selector) int {
	count := 0
	for _, name := range f.Calls() {
		if name == sel.Name {
			count++
		}
	}
	return count
}

// FakeEncoder records render and concat requests and writes placeholder files
// so downstream stages find their inputs.
type FakeEncoder struct {
	mu      sync.Mutex
	renders []ffmpeg.RenderRequest
	concats []ffmpeg.ConcatRequest
	// RenderErr fails renders whose output path contains the map key.
	RenderErr map[string]error
	ConcatErr error
	// OnRender runs after a render request is recorded.
	OnRender func(ffmpeg.RenderRequest)
}

// NewFakeEncoder returns an encoder that always succeeds.
func NewFakeEncoder() *FakeEncoder {
	return &FakeEncoder{RenderErr: map[string]error{}}
}

// Render records req and writes a placeholder clip.
func (f *FakeEncoder) Render(_ context.Context, req ffmpeg.RenderRequest) error {
	f.mu.Lock()
	f.renders = append(f.renders, req)
	hook := f.OnRender
	var failure error
	for fragment, err := range f.RenderErr {
		if strings.Contains(req.OutputPath, fragment) {
			failure = err
		}
	}
	f.mu.Unlock()

	if hook != nil {
		hook(req)
	}
	if failure != nil {
		return failure
	}
	return os.WriteFile(req.OutputPath, []byte(fmt.Sprintf("clip %.3fs %s", req.Duration, req.Filter)), 0o644)
}

// Concat records req, writes the manifest, and writes a joined placeholder.
func (f *FakeEncoder) Concat(_ context.Context, req ffmpeg.ConcatRequest) error {
	f.mu.Lock()
	f.concats = append(f.concats, req)
	failure := f.ConcatErr
	f.mu.Unlock()

	if failure != nil {
		return failure
	}
	if err := ffmpeg.WriteManifest(req.ManifestPath, req.Inputs); err != nil {
		return err
	}
	return os.WriteFile(req.OutputPath, []byte(strings.Join(req.Inputs, "\n")), 0o644)
}

// Renders returns the recorded render requests.
func (f *FakeEncoder) Renders() []ffmpeg.RenderRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ffmpeg.RenderRequest(nil), f.renders...)
}

// Concats returns the recorded concat requests.
func (f *FakeEncoder) Concats() []ffmpeg.ConcatRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ffmpeg.ConcatRequest(nil), f.concats...)
}
