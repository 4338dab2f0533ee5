package logic

import "time"

// Detector tracks the button state and emits a RawSignal once a press has
// been held for the minimum hold duration. Short presses (electrical noise,
// accidental taps) never produce a signal.
type Detector struct {
	minHold       time.Duration
	pressed       bool
	pressedSince  time.Time
	fired         bool
	counts        Counts
	startTime     time.Time
	lastHeartbeat time.Time
}

// NewDetector creates a press detector with the given minimum hold duration.
// The startTime is used for calculating uptime in heartbeat events.
func NewDetector(minHold time.Duration, startTime time.Time) *Detector {
	return &Detector{
		minHold:       minHold,
		startTime:     startTime,
		lastHeartbeat: startTime,
	}
}

// Process takes a new input sample and returns a RawSignal if the hold
// requirement has just been satisfied, nil otherwise.
func (d *Detector) Process(input Input) *RawSignal {
	if input.Pressed {
		if !d.pressed {
			// Press edge
			d.pressed = true
			d.pressedSince = input.Time
			d.fired = false
			d.counts.Presses++
			// A zero minimum hold fires on the press edge itself;
			// anything longer waits for a later sample.
			if d.minHold > 0 {
				return nil
			}
		}

		if d.fired {
			return nil
		}

		held := input.Time.Sub(d.pressedSince)
		if held < d.minHold {
			return nil
		}

		d.fired = true
		d.counts.Signals++
		return &RawSignal{Time: input.Time, HeldFor: held}
	}

	// Released
	if d.pressed {
		d.pressed = false
		if !d.fired {
			d.counts.ShortHolds++
		}
		d.fired = false
	}
	return nil
}

// IsHeld returns whether the button is currently held.
func (d *Detector) IsHeld() bool {
	return d.pressed
}

// CountsSnapshot returns the press activity counters.
func (d *Detector) CountsSnapshot() Counts {
	return d.counts
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since
// the last heartbeat (or startup). Returns nil if the interval has not
// elapsed, or if interval is <= 0 (disabled).
func (d *Detector) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}

	if now.Sub(d.lastHeartbeat) < interval {
		return nil
	}

	d.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(d.startTime),
		Counts:    d.counts,
	}
}
