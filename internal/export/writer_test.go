package export

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_TimestampedPaths(t *testing.T) {
	ts := time.Date(2025, 8, 25, 14, 30, 5, 0, time.UTC)
	w := NewWriterAt("/out", ts)

	assert.Equal(t, filepath.Join("/out", "street_map_20250825_143005.html"), w.Path("street_map", "html"))
	assert.Equal(t, filepath.Join("/out", "street_lines_20250825_143005.svg"), w.Path("street_lines", "svg"))

	// Two runs get distinct stamps, so earlier outputs survive.
	later := NewWriterAt("/out", ts.Add(time.Second))
	assert.NotEqual(t, w.Path("street_map", "html"), later.Path("street_map", "html"))
}

func TestWriter_WriteFile(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	path, err := w.WriteFile("street_map", "html", []byte("<html></html>"))
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(content))
}

func TestWriter_CreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "nested")
	w := NewWriter(dir)

	path, err := w.WriteFile("street_map", "html", []byte("<html></html>"))
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestWriter_WriteFailureNamesOutput(t *testing.T) {
	// A regular file where the output directory should be makes MkdirAll fail.
	blocker := filepath.Join(t.TempDir(), "out")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	w := NewWriter(blocker)
	_, err := w.WriteFile("street_lines", "svg", []byte("<svg/>"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), blocker)
}
