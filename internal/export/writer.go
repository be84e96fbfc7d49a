// Package export renders the matched centerlines to the output formats:
// interactive HTML map, SVG vector drawing, XLSX cell-fill drawing, and a
// YAML run manifest.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Writer places output files in a directory, stamping every file from one run
// with the same timestamp so runs never overwrite each other.
type Writer struct {
	dir   string
	stamp string
}

// NewWriter creates a Writer for the given directory using the current time.
func NewWriter(dir string) *Writer {
	return NewWriterAt(dir, time.Now())
}

// NewWriterAt creates a Writer with an explicit timestamp.
func NewWriterAt(dir string, t time.Time) *Writer {
	return &Writer{
		dir:   dir,
		stamp: t.Format("20060102_150405"),
	}
}

// Path returns the timestamped output path for a file of the given prefix and
// extension, e.g. Path("street_map", "html") → dir/street_map_20250101_120000.html.
func (w *Writer) Path(prefix, ext string) string {
	return filepath.Join(w.dir, fmt.Sprintf("%s_%s.%s", prefix, w.stamp, ext))
}

// WriteFile writes content to the timestamped path for prefix/ext. A failure
// names the output so the caller can report which export broke.
func (w *Writer) WriteFile(prefix, ext string, content []byte) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", eris.Wrapf(err, "export: create output dir %s", w.dir)
	}
	path := w.Path(prefix, ext)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", eris.Wrapf(err, "export: write %s output %s", ext, path)
	}
	zap.L().Debug("export written", zap.String("path", path), zap.Int("bytes", len(content)))
	return path, nil
}
