// Package guard enforces the press acceptance rules: a minimum physical
// hold duration and a minimum cooldown between accepted presses. The
// cooldown survives process restarts through an injected Store.
package guard

import (
	"log"
	"sync"
	"time"
)

// PressEvent represents one accepted physical activation.
// Never mutated after creation.
type PressEvent struct {
	// Timestamp is the moment the hold requirement was satisfied.
	Timestamp time.Time
	// Sequence is a monotonically increasing session number.
	Sequence uint64
}

// Guard applies debounce and cooldown rules to raw signals.
// Safe for concurrent use: acceptance is a locked read-check-write.
type Guard struct {
	mu       sync.Mutex
	store    Store
	minHold  time.Duration
	cooldown time.Duration
	last     time.Time
	hasLast  bool
	seq      uint64
}

// New creates a Guard. Prior cooldown state is loaded from the store; an
// absent or corrupt state means no prior press. firstSeq sets the starting
// sequence number (the next accepted event gets firstSeq+1).
func New(store Store, minHold, cooldown time.Duration, firstSeq uint64) (*Guard, error) {
	last, ok, err := store.Load()
	if err != nil {
		return nil, err
	}
	return &Guard{
		store:    store,
		minHold:  minHold,
		cooldown: cooldown,
		last:     last,
		hasLast:  ok,
		seq:      firstSeq,
	}, nil
}

// OnRawSignal decides whether a raw signal becomes a PressEvent.
//
// Returns (nil, 0) for a hold shorter than the minimum (silent reject) and
// (nil, remaining) when the cooldown is still active, where remaining is the
// human-facing time left. On acceptance the new cooldown state is persisted
// before the event is returned, so a crash right after acceptance cannot
// permit a second accepted press inside the same window after restart.
func (g *Guard) OnRawSignal(heldFor time.Duration, now time.Time) (*PressEvent, time.Duration) {
	if heldFor < g.minHold {
		return nil, 0
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.hasLast {
		elapsed := now.Sub(g.last)
		if elapsed < g.cooldown {
			return nil, g.cooldown - elapsed
		}
	}

	g.last = now
	g.hasLast = true
	g.seq++

	if err := g.store.Save(now); err != nil {
		// Losing duplicate-print protection is better than losing the
		// print itself; accept anyway and record the failure.
		log.Printf("guard: persist cooldown state: %v", err)
	}

	return &PressEvent{Timestamp: now, Sequence: g.seq}, 0
}

// LastAccepted returns the time of the most recently accepted press, and
// whether one exists.
func (g *Guard) LastAccepted() (time.Time, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last, g.hasLast
}
