// Package button provides GPIO button input with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package button

// Reader reads the button input state.
type Reader interface {
	// Read returns whether the button is currently pressed.
	// The line is active-low: raw 0 = pressed, raw 1 = released.
	Read() (bool, error)

	// Close releases GPIO resources.
	Close() error
}

// DefaultPin is the BCM pin the button is wired to.
const DefaultPin = 6
