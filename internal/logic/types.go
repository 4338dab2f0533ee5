// Package logic contains pure business logic for button press detection.
// This package has NO external dependencies (no GPIO, printing, OS, or
// time.Sleep). Time is always injectable via time.Time parameters.
package logic

import "time"

// RawSignal is emitted when the button has been held continuously for the
// configured minimum hold duration. It is emitted once per physical press,
// at the moment the hold requirement is satisfied; the detector rearms only
// after the button is released.
type RawSignal struct {
	// Time is the moment the hold requirement was satisfied.
	Time time.Time
	// HeldFor is how long the button had been held at that moment.
	HeldFor time.Duration
}

// Input represents a single sample of the button state.
type Input struct {
	Pressed bool
	Time    time.Time
}

// Counts tracks press activity since startup.
type Counts struct {
	// Presses is the number of press edges observed (including bounces).
	Presses int
	// Signals is the number of raw signals emitted (hold requirement met).
	Signals int
	// ShortHolds is the number of presses released before the hold
	// requirement was met.
	ShortHolds int
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    Counts
}
