package printer

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// DefaultPrinterName is the CUPS queue name of the thermal printer.
const DefaultPrinterName = "Y812BT"

// Queue submits payloads to the managed print queue via the lp client.
type Queue struct {
	// Printer is the CUPS destination name.
	Printer string

	// lookPath is swappable for tests.
	lookPath func(string) (string, error)
}

// NewQueue creates a Queue backend for the given CUPS destination.
func NewQueue(printer string) *Queue {
	if printer == "" {
		printer = DefaultPrinterName
	}
	return &Queue{Printer: printer, lookPath: exec.LookPath}
}

// Name identifies the backend.
func (q *Queue) Name() string { return "queue" }

// Available reports whether the lp client is discoverable on PATH.
func (q *Queue) Available() bool {
	_, err := q.lookPath("lp")
	return err == nil
}

// Print writes the payload to a temp file and submits it with lp.
// ESC/POS control bytes pass through CUPS raw to the printer.
func (q *Queue) Print(ctx context.Context, payload []byte) error {
	tmp, err := os.CreateTemp("", "fortune-*.txt")
	if err != nil {
		return fmt.Errorf("create temp print file: %w", err)
	}
	name := tmp.Name()
	defer os.Remove(name)

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp print file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp print file: %w", err)
	}

	cmd := exec.CommandContext(ctx, "lp", "-d", q.Printer, name)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("lp -d %s: %w (%s)", q.Printer, err, strings.TrimSpace(string(out)))
	}
	return nil
}
