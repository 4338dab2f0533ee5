package printer

import "context"

// FakeBackend is a test double with scripted availability and result.
type FakeBackend struct {
	// BackendName is returned by Name.
	BackendName string

	// Unavailable makes Available return false.
	Unavailable bool

	// PrintError, if set, will be returned by Print.
	PrintError error

	// Payloads records every payload passed to Print.
	Payloads [][]byte

	// Attempts counts Print calls.
	Attempts int
}

// Name identifies the backend.
func (f *FakeBackend) Name() string { return f.BackendName }

// Available returns the scripted availability.
func (f *FakeBackend) Available() bool { return !f.Unavailable }

// Print records the payload and returns the scripted result.
func (f *FakeBackend) Print(_ context.Context, payload []byte) error {
	f.Attempts++
	if f.PrintError != nil {
		return f.PrintError
	}
	f.Payloads = append(f.Payloads, append([]byte(nil), payload...))
	return nil
}
