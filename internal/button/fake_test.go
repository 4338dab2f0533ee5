package button

import (
	"errors"
	"testing"
)

func TestFakeReaderSequence(t *testing.T) {
	f := NewFakeReader([]bool{false, true, true, false})

	want := []bool{false, true, true, false}
	for i, w := range want {
		got, err := f.Read()
		if err != nil {
			t.Fatalf("sample %d: unexpected error: %v", i, err)
		}
		if got != w {
			t.Errorf("sample %d: got %v, want %v", i, got, w)
		}
	}
}

func TestFakeReaderRepeatsLastSample(t *testing.T) {
	f := NewFakeReader([]bool{false, true})

	f.Read()
	for i := 0; i < 3; i++ {
		got, err := f.Read()
		if err != nil {
			t.Fatalf("read %d: unexpected error: %v", i, err)
		}
		if !got {
			t.Errorf("read %d: expected last sample (true) to repeat", i)
		}
	}
}

func TestFakeReaderNoSamples(t *testing.T) {
	f := NewFakeReader(nil)
	if _, err := f.Read(); err == nil {
		t.Error("expected error with no samples configured")
	}
}

func TestFakeReaderReadError(t *testing.T) {
	f := NewFakeReader([]bool{true})
	f.ReadError = errors.New("boom")
	if _, err := f.Read(); err == nil {
		t.Error("expected configured read error")
	}
}

func TestFakeReaderCloseAndReset(t *testing.T) {
	f := NewFakeReader([]bool{true, false})
	f.Read()
	f.Close()
	if !f.Closed {
		t.Error("expected Closed=true after Close")
	}

	f.Reset()
	if f.Closed {
		t.Error("expected Closed=false after Reset")
	}
	got, _ := f.Read()
	if !got {
		t.Error("expected first sample after Reset")
	}
}
