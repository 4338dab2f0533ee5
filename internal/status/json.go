package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details. The field set is the contract
// with the web front end and monitoring collaborators.
type StatusInner struct {
	Event            string             `json:"event,omitempty"`
	Reason           string             `json:"reason,omitempty"`
	Timestamp        string             `json:"timestamp"`
	SessionCount     uint64             `json:"session_count"`
	PrinterConnected bool               `json:"printer_connected"`
	GPIOActive       bool               `json:"gpio_active"`
	PrintSuccess     bool               `json:"print_success"`
	PrintMethod      string             `json:"print_method,omitempty"`
	PrintError       string             `json:"print_error,omitempty"`
	Category         string             `json:"category,omitempty"`
	Metrics          map[string]float64 `json:"metrics"`
	FallbackUsed     bool               `json:"fallback_used"`
	LastPress        string             `json:"last_press,omitempty"`
	UptimeSeconds    int64              `json:"uptime_seconds"`
	StartTime        string             `json:"start_time"`
	MQTT             MQTTStatus         `json:"mqtt"`
	Counts           CountsJSON         `json:"press_counts"`
	Config           ConfigJSON         `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker,omitempty"`
}

// CountsJSON is the JSON representation of press counters.
type CountsJSON struct {
	Presses    int `json:"presses"`
	Signals    int `json:"signals"`
	ShortHolds int `json:"short_holds"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Pin        int    `json:"pin"`
	PollMs     int64  `json:"poll_ms"`
	HoldMs     int64  `json:"hold_ms"`
	CooldownMs int64  `json:"cooldown_ms"`
	Broker     string `json:"broker,omitempty"`
	HTTPAddr   string `json:"http_addr"`
	StatusFile string `json:"status_file"`
	AlmanacDir string `json:"almanac_dir,omitempty"`
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		Timestamp:        snap.Now.UTC().Format(time.RFC3339),
		SessionCount:     snap.SessionCount,
		PrinterConnected: snap.PrinterConnected,
		GPIOActive:       snap.GPIOActive,
		PrintSuccess:     snap.LastOutcome.Success,
		PrintMethod:      snap.LastOutcome.Method,
		Category:         string(snap.LastContent.Category),
		Metrics: map[string]float64{
			"entropy":   snap.LastContent.Metrics.Entropy,
			"intensity": snap.LastContent.Metrics.Intensity,
			"loops":     float64(snap.LastContent.Metrics.Loops),
		},
		FallbackUsed:  snap.LastContent.FallbackUsed,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Presses:    snap.Counts.Presses,
			Signals:    snap.Counts.Signals,
			ShortHolds: snap.Counts.ShortHolds,
		},
		Config: ConfigJSON{
			Pin:        snap.Config.Pin,
			PollMs:     snap.Config.PollMs,
			HoldMs:     snap.Config.HoldMs,
			CooldownMs: snap.Config.CooldownMs,
			Broker:     snap.Config.Broker,
			HTTPAddr:   snap.Config.HTTPAddr,
			StatusFile: snap.Config.StatusFile,
			AlmanacDir: snap.Config.AlmanacDir,
		},
	}
	if snap.LastOutcome.Err != nil {
		inner.PrintError = snap.LastOutcome.Err.Error()
	}
	if !snap.LastPress.IsZero() {
		inner.LastPress = snap.LastPress.UTC().Format(time.RFC3339Nano)
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint and status file
// (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
