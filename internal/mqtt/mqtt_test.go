package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func testResult() PressResult {
	return PressResult{
		Timestamp: time.Date(2026, 8, 26, 21, 14, 7, 0, time.UTC),
		Sequence:  3,
		Category:  "EMERGENCE",
		Entropy:   0.73,
		Intensity: 3.27,
		Loops:     5,
		Success:   true,
		Method:    "queue",
	}
}

func TestFormatPayload(t *testing.T) {
	data, err := FormatPayload(testResult())
	if err != nil {
		t.Fatalf("FormatPayload: %v", err)
	}

	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if p.Oracle.Timestamp != "2026-08-26T21:14:07Z" {
		t.Errorf("timestamp: got %q", p.Oracle.Timestamp)
	}
	if p.Oracle.Session != 3 {
		t.Errorf("session: got %d, want 3", p.Oracle.Session)
	}
	if p.Oracle.Category != "EMERGENCE" {
		t.Errorf("category: got %q", p.Oracle.Category)
	}
	if p.Oracle.Metrics["entropy"] != 0.73 {
		t.Errorf("entropy: got %v", p.Oracle.Metrics["entropy"])
	}
	if !p.Oracle.PrintSuccess || p.Oracle.PrintMethod != "queue" {
		t.Errorf("print outcome: got success=%v method=%q", p.Oracle.PrintSuccess, p.Oracle.PrintMethod)
	}
	if p.Oracle.PrintError != "" {
		t.Errorf("print_error: got %q, want empty", p.Oracle.PrintError)
	}
}

func TestFormatPayloadFailure(t *testing.T) {
	r := testResult()
	r.Success = false
	r.Method = ""
	r.Error = "all backends failed"

	data, err := FormatPayload(r)
	if err != nil {
		t.Fatal(err)
	}
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatal(err)
	}
	if p.Oracle.PrintSuccess {
		t.Error("expected print_success=false")
	}
	if p.Oracle.PrintError != "all backends failed" {
		t.Errorf("print_error: got %q", p.Oracle.PrintError)
	}
}

func TestFormatSystemPayload(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 8, 26, 21, 0, 0, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}

	data, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatal(err)
	}
	var p SystemPayload
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatal(err)
	}
	if p.System.Event != "SHUTDOWN" {
		t.Errorf("event: got %q", p.System.Event)
	}
	if p.System.Reason != "SIGTERM" {
		t.Errorf("reason: got %q", p.System.Reason)
	}
}

func TestFormatSystemPayloadRaw(t *testing.T) {
	raw := []byte(`{"status":{"event":"STARTUP"}}`)
	data, err := FormatSystemPayload(SystemEvent{Event: "STARTUP", RawPayload: raw})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != string(raw) {
		t.Errorf("expected raw payload passthrough, got %s", data)
	}
}

func TestFakePublisherRecords(t *testing.T) {
	f := NewFakePublisher()

	if err := f.Publish(testResult()); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(f.Results) != 1 || len(f.Payloads) != 1 {
		t.Fatalf("recorded: %d results, %d payloads", len(f.Results), len(f.Payloads))
	}

	if err := f.PublishSystem(SystemEvent{Event: "HEARTBEAT", Timestamp: time.Now()}); err != nil {
		t.Fatalf("PublishSystem: %v", err)
	}
	if len(f.SystemEvents) != 1 {
		t.Fatalf("recorded %d system events", len(f.SystemEvents))
	}
}

func TestFakePublisherErrors(t *testing.T) {
	f := NewFakePublisher()
	f.PublishError = errors.New("broker down")

	if err := f.Publish(testResult()); err == nil {
		t.Error("expected configured publish error")
	}
	if len(f.Results) != 0 {
		t.Error("expected no recording on error")
	}
}

func TestFakePublisherReset(t *testing.T) {
	f := NewFakePublisher()
	f.Publish(testResult())
	f.Connected = true
	f.Close()

	f.Reset()
	if len(f.Results) != 0 || f.Closed || f.Connected {
		t.Error("expected clean state after Reset")
	}
}
