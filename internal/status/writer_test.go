package status

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sweeney/fortune-button/internal/oracle"
	"github.com/sweeney/fortune-button/internal/printer"
)

func TestWriterWritesStatusFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runtime_status.json")
	w := NewWriter(path)

	tr := NewTracker(time.Now(), Config{Pin: 6})
	tr.RecordPress(1, time.Now(), oracle.ContentRecord{Category: oracle.Stillness},
		printer.Outcome{Success: true, Method: "device"})

	if err := w.Write(tr.Snapshot()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read status file: %v", err)
	}
	var sj StatusJSON
	if err := json.Unmarshal(data, &sj); err != nil {
		t.Fatalf("status file is not valid JSON: %v", err)
	}
	if sj.Status.Category != "STILLNESS" {
		t.Errorf("category: got %q", sj.Status.Category)
	}
}

func TestWriterOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runtime_status.json")
	w := NewWriter(path)
	tr := NewTracker(time.Now(), Config{})

	tr.RecordPress(1, time.Now(), oracle.ContentRecord{}, printer.Outcome{Success: false})
	if err := w.Write(tr.Snapshot()); err != nil {
		t.Fatal(err)
	}

	tr.RecordPress(2, time.Now(), oracle.ContentRecord{}, printer.Outcome{Success: true, Method: "queue"})
	if err := w.Write(tr.Snapshot()); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	var sj StatusJSON
	if err := json.Unmarshal(data, &sj); err != nil {
		t.Fatal(err)
	}
	if sj.Status.SessionCount != 2 || !sj.Status.PrintSuccess {
		t.Errorf("expected latest state, got %+v", sj.Status)
	}
}

func TestWriterEmptyPathDisabled(t *testing.T) {
	w := NewWriter("")
	if err := w.Write(Snapshot{}); err != nil {
		t.Errorf("expected nil for disabled writer, got %v", err)
	}
}

func TestWriterLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(filepath.Join(dir, "runtime_status.json"))
	tr := NewTracker(time.Now(), Config{})

	for i := 0; i < 3; i++ {
		if err := w.Write(tr.Snapshot()); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("expected only the status file, got %v", names)
	}
}

func TestWriterErrorOnBadDirectory(t *testing.T) {
	w := NewWriter("/nonexistent-dir/status.json")
	if err := w.Write(Snapshot{}); err == nil {
		t.Error("expected error for unwritable directory")
	}
}
