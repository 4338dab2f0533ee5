package printer

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// DefaultScriptPath is the external fallback print script.
const DefaultScriptPath = "./print-now.sh"

// Script delegates printing to an external executable. Last resort before
// total failure; the script decides what to print.
type Script struct {
	Path string
}

// NewScript creates a Script backend for the given path.
func NewScript(path string) *Script {
	if path == "" {
		path = DefaultScriptPath
	}
	return &Script{Path: path}
}

// Name identifies the backend.
func (s *Script) Name() string { return "script" }

// Available reports whether the script exists and is executable.
func (s *Script) Available() bool {
	info, err := os.Stat(s.Path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0
}

// Print runs the script with the payload on stdin.
func (s *Script) Print(ctx context.Context, payload []byte) error {
	cmd := exec.CommandContext(ctx, s.Path)
	cmd.Stdin = strings.NewReader(string(payload))
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("run %s: %w (%s)", s.Path, err, strings.TrimSpace(string(out)))
	}
	return nil
}
