package status

import (
	"fmt"
	"os"
	"path/filepath"
)

// Writer persists status snapshots to the status file. The write is atomic
// (temp file + rename) so external consumers never see a partial document.
type Writer struct {
	path string
}

// NewWriter creates a Writer for the given path. An empty path disables
// writing.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Write overwrites the status file with the given snapshot.
// Best-effort by contract: callers log the returned error and move on.
func (w *Writer) Write(snap Snapshot) error {
	if w.path == "" {
		return nil
	}

	data := FormatJSON(snap)

	dir := filepath.Dir(w.path)
	tmp, err := os.CreateTemp(dir, ".status-*")
	if err != nil {
		return fmt.Errorf("create temp status file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write status: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp status file: %w", err)
	}
	if err := os.Rename(tmpName, w.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace status file: %w", err)
	}
	return nil
}
