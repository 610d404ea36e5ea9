package intro

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"introsplice/internal/logging"
)

const workspacePrefix = "introsplice-"

// workspace is the per-job scratch directory holding every intermediate file.
type workspace struct {
	dir string
}

func newWorkspace(root, jobID string) (*workspace, error) {
	if root == "" {
		root = os.TempDir()
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create work root: %w", err)
	}
	dir := filepath.Join(root, workspacePrefix+jobID)
	if err := os.Mkdir(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create job workspace: %w", err)
	}
	return &workspace{dir: dir}, nil
}

func (w *workspace) PaddedImage() string    { return filepath.Join(w.dir, "padded.png") }
func (w *workspace) IntroClip() string      { return filepath.Join(w.dir, "intro.mp4") }
func (w *workspace) TransitionClip() string { return filepath.Join(w.dir, "transition.mp4") }
func (w *workspace) Manifest() string       { return filepath.Join(w.dir, "concat.txt") }
func (w *workspace) Joined() string         { return filepath.Join(w.dir, "joined.mp4") }

// Cleanup removes the workspace and everything in it. A workspace that is
// already gone is not an error.
func (w *workspace) Cleanup() error {
	if w == nil || w.dir == "" {
		return nil
	}
	if err := os.RemoveAll(w.dir); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove workspace %s: %w", w.dir, err)
	}
	return nil
}

// SweepResult lists the workspaces removed by SweepStaleWorkspaces and the
// ones that could not be removed.
type SweepResult struct {
	Removed []string
	Failed  map[string]error
}

// SweepStaleWorkspaces removes job workspaces under root last modified more
// than maxAge ago. Jobs killed before their deferred cleanup ran leave these
// behind. Other entries under root are never touched.
func SweepStaleWorkspaces(root string, maxAge time.Duration, logger *slog.Logger) (SweepResult, error) {
	result := SweepResult{Failed: map[string]error{}}
	root = strings.TrimSpace(root)
	if root == "" {
		return result, nil
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return result, nil
		}
		return result, fmt.Errorf("read work root: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), workspacePrefix) {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		info, err := entry.Info()
		if err != nil {
			result.Failed[dir] = err
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			result.Failed[dir] = err
			logger.Warn("stale workspace removal failed", logging.String("workspace", dir), logging.Error(err))
			continue
		}
		result.Removed = append(result.Removed, dir)
		logger.Info("removed stale workspace",
			logging.String("workspace", dir),
			logging.Duration("age", time.Since(info.ModTime())),
		)
	}
	return result, nil
}
