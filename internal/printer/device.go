package printer

import (
	"context"
	"fmt"
	"os"
)

// DefaultDevicePath is the raw character device of the thermal printer.
const DefaultDevicePath = "/dev/usb/lp0"

// Device writes ESC/POS payloads directly to the printer's character device.
// Most direct path, no daemon involved.
type Device struct {
	Path string
}

// NewDevice creates a Device backend for the given path.
func NewDevice(path string) *Device {
	if path == "" {
		path = DefaultDevicePath
	}
	return &Device{Path: path}
}

// Name identifies the backend.
func (d *Device) Name() string { return "device" }

// Available reports whether the device file exists.
func (d *Device) Available() bool {
	_, err := os.Stat(d.Path)
	return err == nil
}

// Print writes the payload to the device. The write runs in a goroutine so
// a wedged device cannot hang the caller past the context deadline; the
// abandoned write finishes or fails on its own.
func (d *Device) Print(ctx context.Context, payload []byte) error {
	done := make(chan error, 1)

	go func() {
		f, err := os.OpenFile(d.Path, os.O_WRONLY, 0)
		if err != nil {
			done <- fmt.Errorf("open device: %w", err)
			return
		}
		_, werr := f.Write(payload)
		cerr := f.Close()
		if werr != nil {
			done <- fmt.Errorf("write device: %w", werr)
			return
		}
		if cerr != nil {
			done <- fmt.Errorf("close device: %w", cerr)
			return
		}
		done <- nil
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("device write: %w", ctx.Err())
	}
}
