package printer

import (
	"context"
	"log"
	"strings"
)

// Console "prints" to the process log. Always succeeds. Intended for bench
// testing without hardware; disabled by default so total print failure stays
// observable in production.
type Console struct{}

// Name identifies the backend.
func (Console) Name() string { return "console" }

// Available always holds.
func (Console) Available() bool { return true }

// Print logs the payload body with control bytes stripped.
func (Console) Print(_ context.Context, payload []byte) error {
	body := string(payload)
	body = strings.ReplaceAll(body, escInit, "")
	body = strings.ReplaceAll(body, escCut, "")
	log.Printf("console print:\n%s", strings.TrimRight(body, "\n"))
	return nil
}
