package guard

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_print.json")
	s := NewFileStore(path)

	want := time.Date(2026, 8, 24, 12, 0, 0, 250_000_000, time.UTC)
	if err := s.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, ok, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok {
		t.Fatal("expected state to be present")
	}
	// Epoch float seconds lose sub-microsecond precision.
	if diff := got.Sub(want); math.Abs(float64(diff)) > float64(time.Millisecond) {
		t.Errorf("round trip drift %v: got %v, want %v", diff, got, want)
	}
}

func TestFileStoreAbsentFile(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "missing.json"))

	_, ok, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok {
		t.Error("expected no state for absent file")
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_print.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewFileStore(path)
	_, ok, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok {
		t.Error("expected corrupt file to be treated as no prior press")
	}
}

func TestFileStoreZeroTimestamp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_print.json")
	if err := os.WriteFile(path, []byte(`{"last_print_time": 0}`), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewFileStore(path)
	_, ok, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok {
		t.Error("expected zero timestamp to be treated as no prior press")
	}
}

func TestFileStoreWritesEpochFloat(t *testing.T) {
	// The on-disk shape must stay readable by the previous installation
	// software: {"last_print_time": <epoch seconds float>}.
	path := filepath.Join(t.TempDir(), "last_print.json")
	s := NewFileStore(path)

	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	if err := s.Save(now); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var cf map[string]float64
	if err := json.Unmarshal(data, &cf); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := cf["last_print_time"]; got != float64(now.Unix()) {
		t.Errorf("last_print_time: got %v, want %v", got, float64(now.Unix()))
	}
}

func TestFileStoreOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_print.json")
	s := NewFileStore(path)

	first := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)
	if err := s.Save(first); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(second); err != nil {
		t.Fatal(err)
	}

	got, ok, err := s.Load()
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if got.Unix() != second.Unix() {
		t.Errorf("got %v, want %v", got, second)
	}
}
