// Package status provides a thread-safe status tracker for the
// fortune-button daemon and the durable status-file writer read by the web
// front end and monitoring collaborators.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/fortune-button/internal/logic"
	"github.com/sweeney/fortune-button/internal/oracle"
	"github.com/sweeney/fortune-button/internal/printer"
)

// Config contains daemon configuration for display.
type Config struct {
	Pin        int
	PollMs     int64
	HoldMs     int64
	CooldownMs int64
	Broker     string
	HTTPAddr   string
	StatusFile string
	AlmanacDir string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	SessionCount     uint64
	LastPress        time.Time
	LastContent      oracle.ContentRecord
	LastOutcome      printer.Outcome
	Counts           logic.Counts
	StartTime        time.Time
	Now              time.Time
	GPIOActive       bool
	PrinterConnected bool
	MQTTConnected    bool
	Config           Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// RecordPress sets the outcome of one accepted press.
// Called once per pipeline run.
func (t *Tracker) RecordPress(seq uint64, pressedAt time.Time, rec oracle.ContentRecord, out printer.Outcome) {
	t.mu.Lock()
	t.snap.SessionCount = seq
	t.snap.LastPress = pressedAt
	t.snap.LastContent = rec
	t.snap.LastOutcome = out
	t.mu.Unlock()
}

// SetCounts sets the press activity counters.
// Called from the run loop on every tick.
func (t *Tracker) SetCounts(counts logic.Counts) {
	t.mu.Lock()
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetHardware sets the hardware presence flags.
func (t *Tracker) SetHardware(gpioActive, printerConnected bool) {
	t.mu.Lock()
	t.snap.GPIOActive = gpioActive
	t.snap.PrinterConnected = printerConnected
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
