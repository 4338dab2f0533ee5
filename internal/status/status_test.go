package status

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sweeney/fortune-button/internal/logic"
	"github.com/sweeney/fortune-button/internal/oracle"
	"github.com/sweeney/fortune-button/internal/printer"
)

func TestNewTracker(t *testing.T) {
	start := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	cfg := Config{Pin: 6, PollMs: 50, HoldMs: 500, CooldownMs: 5000, HTTPAddr: ":80"}
	tr := NewTracker(start, cfg)

	snap := tr.Snapshot()
	if !snap.StartTime.Equal(start) {
		t.Errorf("StartTime: got %v, want %v", snap.StartTime, start)
	}
	if snap.Config.Pin != 6 {
		t.Errorf("Config.Pin: got %d, want 6", snap.Config.Pin)
	}
	if snap.SessionCount != 0 {
		t.Errorf("SessionCount: got %d, want 0", snap.SessionCount)
	}
	if snap.MQTTConnected {
		t.Error("expected MQTTConnected=false initially")
	}
}

func TestRecordPress(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	pressed := time.Date(2026, 8, 26, 21, 14, 7, 0, time.UTC)
	rec := oracle.ContentRecord{
		Category: oracle.Flow,
		Metrics:  oracle.Metrics{Entropy: 0.31, Intensity: 3.2, Loops: 3},
		Lines:    []string{"Current flows through mind"},
	}
	out := printer.Outcome{Success: true, Method: "queue"}

	tr.RecordPress(4, pressed, rec, out)

	snap := tr.Snapshot()
	if snap.SessionCount != 4 {
		t.Errorf("SessionCount: got %d, want 4", snap.SessionCount)
	}
	if !snap.LastPress.Equal(pressed) {
		t.Errorf("LastPress: got %v, want %v", snap.LastPress, pressed)
	}
	if snap.LastContent.Category != oracle.Flow {
		t.Errorf("Category: got %s, want FLOW", snap.LastContent.Category)
	}
	if !snap.LastOutcome.Success || snap.LastOutcome.Method != "queue" {
		t.Errorf("Outcome: got %+v", snap.LastOutcome)
	}
}

func TestSetters(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	tr.SetCounts(logic.Counts{Presses: 9, Signals: 3, ShortHolds: 6})
	tr.SetHardware(true, false)
	tr.SetMQTTConnected(true)

	snap := tr.Snapshot()
	if snap.Counts.Presses != 9 || snap.Counts.Signals != 3 || snap.Counts.ShortHolds != 6 {
		t.Errorf("Counts: got %+v", snap.Counts)
	}
	if !snap.GPIOActive {
		t.Error("expected GPIOActive=true")
	}
	if snap.PrinterConnected {
		t.Error("expected PrinterConnected=false")
	}
	if !snap.MQTTConnected {
		t.Error("expected MQTTConnected=true")
	}
}

func TestSnapshotSetsNow(t *testing.T) {
	tr := NewTracker(time.Now().Add(-time.Minute), Config{})
	snap := tr.Snapshot()
	if snap.Now.IsZero() {
		t.Error("expected Now to be stamped")
	}
	if snap.Uptime() < 59*time.Second {
		t.Errorf("Uptime: got %v, want about a minute", snap.Uptime())
	}
}

func TestTrackerConcurrentAccess(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			tr.SetCounts(logic.Counts{Presses: n})
		}(i)
		go func() {
			defer wg.Done()
			_ = tr.Snapshot()
		}()
	}
	wg.Wait()
}

func TestFormatJSONFields(t *testing.T) {
	start := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	tr := NewTracker(start, Config{Pin: 6, PollMs: 50, Broker: "tcp://10.0.0.2:1883"})
	tr.SetHardware(true, true)
	tr.RecordPress(2,
		time.Date(2026, 8, 26, 21, 14, 7, 0, time.UTC),
		oracle.ContentRecord{
			Category:     oracle.Emergence,
			Metrics:      oracle.Metrics{Entropy: 0.73, Intensity: 3.27, Loops: 5},
			FallbackUsed: true,
		},
		printer.Outcome{Success: true, Method: "queue"},
	)

	var sj StatusJSON
	if err := json.Unmarshal(FormatJSON(tr.Snapshot()), &sj); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	inner := sj.Status
	if inner.SessionCount != 2 {
		t.Errorf("session_count: got %d, want 2", inner.SessionCount)
	}
	if !inner.PrintSuccess {
		t.Error("expected print_success=true")
	}
	if inner.Category != "EMERGENCE" {
		t.Errorf("category: got %q", inner.Category)
	}
	if inner.Metrics["entropy"] != 0.73 {
		t.Errorf("metrics.entropy: got %v", inner.Metrics["entropy"])
	}
	if inner.Metrics["loops"] != 5 {
		t.Errorf("metrics.loops: got %v", inner.Metrics["loops"])
	}
	if !inner.FallbackUsed {
		t.Error("expected fallback_used=true")
	}
	if !inner.PrinterConnected {
		t.Error("expected printer_connected=true")
	}
	if inner.Event != "" {
		t.Errorf("event: got %q, want empty for plain status", inner.Event)
	}
}

func TestFormatJSONPrintError(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	tr.RecordPress(1, time.Now(), oracle.ContentRecord{},
		printer.Outcome{Success: false, Err: errors.New("all backends failed")})

	var sj StatusJSON
	if err := json.Unmarshal(FormatJSON(tr.Snapshot()), &sj); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if sj.Status.PrintSuccess {
		t.Error("expected print_success=false")
	}
	if sj.Status.PrintError != "all backends failed" {
		t.Errorf("print_error: got %q", sj.Status.PrintError)
	}
}

func TestFormatStatusEvent(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	var sj StatusJSON
	if err := json.Unmarshal(FormatStatusEvent(tr.Snapshot(), "STARTUP", ""), &sj); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if sj.Status.Event != "STARTUP" {
		t.Errorf("event: got %q, want STARTUP", sj.Status.Event)
	}

	if err := json.Unmarshal(FormatStatusEvent(tr.Snapshot(), "SHUTDOWN", "SIGTERM"), &sj); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if sj.Status.Reason != "SIGTERM" {
		t.Errorf("reason: got %q, want SIGTERM", sj.Status.Reason)
	}
}
