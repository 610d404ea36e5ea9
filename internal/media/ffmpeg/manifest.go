package ffmpeg

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WriteManifest writes a concat demuxer list with one absolute path per line.
func WriteManifest(path string, inputs []string) error {
	var b strings.Builder
	for _, input := range inputs {
		abs, err := filepath.Abs(input)
		if err != nil {
			return fmt.Errorf("resolve concat input %q: %w", input, err)
		}
		b.WriteString("file ")
		b.WriteString(quoteManifestPath(abs))
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write concat manifest: %w", err)
	}
	return nil
}

// quoteManifestPath single-quotes a path for the concat demuxer; embedded quotes
// close the quoted run, emit an escaped quote, and reopen it.
func quoteManifestPath(path string) string {
	return "'" + strings.ReplaceAll(path, "'", `'\''`) + "'"
}
