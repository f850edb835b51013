// Package reader streams JSON values out of gzip-compressed,
// line-delimited data files.
package reader

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"metahealth/internal/logging"
)

// maxLineBytes bounds a single record line. DataCite records with large
// relatedIdentifiers blocks can run several megabytes.
const maxLineBytes = 64 * 1024 * 1024

// LineReader iterates one .jsonl.gz file, decoding one JSON value per
// line. Iteration is not restartable mid-stream.
type LineReader struct {
	path   string
	logger *slog.Logger
}

// New returns a LineReader for the given file path.
func New(path string) *LineReader {
	return &LineReader{path: path, logger: logging.New("reader")}
}

// Each calls fn for every decoded value in the file. Lines that fail to
// decode are logged at warn level and skipped; iteration continues with
// the next line. A non-nil error from fn aborts iteration and is returned.
func (r *LineReader) Each(fn func(map[string]any) error) error {
	f, err := os.Open(r.path)
	if err != nil {
		return fmt.Errorf("open %s: %w", r.path, err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("gunzip %s: %w", r.path, err)
	}
	defer gz.Close()

	sc := bufio.NewScanner(gz)
	sc.Buffer(make([]byte, 0, 256*1024), maxLineBytes)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var value map[string]any
		if err := json.Unmarshal(line, &value); err != nil {
			r.logger.Warn("skipping malformed line",
				"file", r.path, "line", lineNo, "error", err)
			continue
		}
		if err := fn(value); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read %s: %w", r.path, err)
	}
	return nil
}
