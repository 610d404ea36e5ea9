package intro_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"introsplice/internal/intro"
)

func TestSweepStaleWorkspaces(t *testing.T) {
	root := t.TempDir()
	stale := filepath.Join(root, "introsplice-old")
	fresh := filepath.Join(root, "introsplice-new")
	unrelated := filepath.Join(root, "someone-else")
	for _, dir := range []string{stale, fresh, unrelated} {
		if err := os.MkdirAll(filepath.Join(dir, "sub"), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	old := time.Now().Add(-48 * time.Hour)
	for _, dir := range []string{stale, unrelated} {
		if err := os.Chtimes(dir, old, old); err != nil {
			t.Fatalf("chtimes: %v", err)
		}
	}

	result, err := intro.SweepStaleWorkspaces(root, 24*time.Hour, nil)
	if err != nil {
		t.Fatalf("SweepStaleWorkspaces: %v", err)
	}
	if len(result.Removed) != 1 || result.Removed[0] != stale {
		t.Fatalf("unexpected removals %v", result.Removed)
	}
	if len(result.Failed) != 0 {
		t.Fatalf("unexpected failures %v", result.Failed)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatal("stale workspace still present")
	}
	for _, dir := range []string{fresh, unrelated} {
		if _, err := os.Stat(dir); err != nil {
			t.Fatalf("%s should be kept: %v", dir, err)
		}
	}
}

func TestSweepStaleWorkspacesMissingRoot(t *testing.T) {
	result, err := intro.SweepStaleWorkspaces(filepath.Join(t.TempDir(), "absent"), time.Hour, nil)
	if err != nil {
		t.Fatalf("expected missing root to be ignored, got %v", err)
	}
	if len(result.Removed) != 0 {
		t.Fatalf("unexpected removals %v", result.Removed)
	}
}
