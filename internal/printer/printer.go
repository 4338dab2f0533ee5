// Package printer formats fortune content for a narrow thermal receipt and
// dispatches it across an ordered list of output backends. Backend failures
// are data, not errors: the dispatcher never panics and never returns a Go
// error to the caller.
package printer

import (
	"context"
	"errors"
	"log"
	"time"
)

// ErrNoBackend is the dispatch outcome error when no backend was even
// available to try, so total failure still carries a diagnostic.
var ErrNoBackend = errors.New("no print backend available")

// Backend is one concrete output mechanism.
type Backend interface {
	// Name identifies the backend in outcomes and logs.
	Name() string

	// Available reports whether the backend's precondition holds (device
	// file present, queue client on PATH, script executable). Must return
	// quickly and never block on I/O.
	Available() bool

	// Print sends the rendered payload to the physical output. The context
	// carries the attempt deadline.
	Print(ctx context.Context, payload []byte) error
}

// Outcome is the result of one dispatch attempt.
type Outcome struct {
	Success bool
	// Method names the backend that succeeded; empty on total failure.
	Method string
	// Err retains the last observed error when all backends fail.
	Err error
}

// Dispatcher tries backends in order until one succeeds.
type Dispatcher struct {
	backends []Backend
	timeout  time.Duration
}

// DefaultTimeout bounds a single backend attempt.
const DefaultTimeout = 10 * time.Second

// NewDispatcher creates a Dispatcher over the given ordered backends.
// A timeout of 0 uses DefaultTimeout.
func NewDispatcher(timeout time.Duration, backends ...Backend) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Dispatcher{backends: backends, timeout: timeout}
}

// Backends returns the configured backends in attempt order.
func (d *Dispatcher) Backends() []Backend {
	return d.backends
}

// Dispatch attempts the payload on each backend in order. The first success
// short-circuits the rest. When every backend fails the outcome carries
// Success=false and the last observed error; when none was even available
// it carries ErrNoBackend.
func (d *Dispatcher) Dispatch(ctx context.Context, payload []byte) Outcome {
	lastErr := ErrNoBackend

	for _, b := range d.backends {
		if !b.Available() {
			continue
		}

		attemptCtx, cancel := context.WithTimeout(ctx, d.timeout)
		err := b.Print(attemptCtx, payload)
		cancel()

		if err == nil {
			return Outcome{Success: true, Method: b.Name()}
		}
		log.Printf("printer: backend %s failed: %v", b.Name(), err)
		lastErr = err
	}

	return Outcome{Success: false, Err: lastErr}
}
