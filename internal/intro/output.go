package intro

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"introsplice/internal/fileutil"
)

const (
	outputTimeLayout = "15:04:05"
	outputExt        = ".mp4"
	outputLockName   = ".introsplice.lock"
	maxNameAttempts  = 1000
)

// OutputName returns "{base}_{HH:MM:SS}.mp4" for the main video at the given time.
func OutputName(videoPath string, at time.Time) string {
	base := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	return base + "_" + at.Format(outputTimeLayout) + outputExt
}

// publishOutput moves the finished file from the workspace into dir under the
// timestamped name. Name selection and the move happen under an exclusive lock
// on the output directory so concurrent jobs finishing in the same second get
// distinct "-N" suffixes instead of overwriting each other.
func publishOutput(src, dir, videoPath string, at time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	lock := flock.New(filepath.Join(dir, outputLockName))
	if err := lock.Lock(); err != nil {
		return "", fmt.Errorf("lock output directory: %w", err)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	target, err := nextFreeName(dir, OutputName(videoPath, at))
	if err != nil {
		return "", err
	}
	if err := fileutil.MoveFile(src, target); err != nil {
		return "", fmt.Errorf("publish output: %w", err)
	}
	return target, nil
}

func nextFreeName(dir, name string) (string, error) {
	stem := strings.TrimSuffix(name, outputExt)
	candidate := filepath.Join(dir, name)
	for i := 1; i <= maxNameAttempts; i++ {
		_, err := os.Lstat(candidate)
		if errors.Is(err, os.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("stat output candidate: %w", err)
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s-%d%s", stem, i, outputExt))
	}
	return "", fmt.Errorf("no free output name for %s after %d attempts", name, maxNameAttempts)
}
