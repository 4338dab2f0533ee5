// Package mqtt provides MQTT publishing with abstraction for testing.
// Installation telemetry: each accepted press and the daemon lifecycle are
// published for the web visualizer and monitoring collaborators.
package mqtt

import (
	"encoding/json"
	"time"
)

// TopicEvents is the MQTT topic for press outcomes.
const TopicEvents = "installation/oracle/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "installation/oracle/system"

// PressResult is the telemetry record for one accepted press.
type PressResult struct {
	Timestamp    time.Time
	Sequence     uint64
	Category     string
	Entropy      float64
	Intensity    float64
	Loops        int
	FallbackUsed bool
	Success      bool
	Method       string
	Error        string
}

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a press outcome to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(result PressResult) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Oracle OraclePayload `json:"oracle"`
}

// OraclePayload contains the press outcome details.
type OraclePayload struct {
	Timestamp    string             `json:"timestamp"`
	Session      uint64             `json:"session"`
	Category     string             `json:"category"`
	Metrics      map[string]float64 `json:"metrics"`
	FallbackUsed bool               `json:"fallback_used"`
	PrintSuccess bool               `json:"print_success"`
	PrintMethod  string             `json:"print_method,omitempty"`
	PrintError   string             `json:"print_error,omitempty"`
}

// FormatPayload creates the JSON payload for a press outcome.
func FormatPayload(result PressResult) ([]byte, error) {
	payload := Payload{
		Oracle: OraclePayload{
			Timestamp: result.Timestamp.UTC().Format(time.RFC3339),
			Session:   result.Sequence,
			Category:  result.Category,
			Metrics: map[string]float64{
				"entropy":   result.Entropy,
				"intensity": result.Intensity,
				"loops":     float64(result.Loops),
			},
			FallbackUsed: result.FallbackUsed,
			PrintSuccess: result.Success,
			PrintMethod:  result.Method,
			PrintError:   result.Error,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
