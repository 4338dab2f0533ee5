package printer

import (
	"fmt"
	"strings"
	"time"

	"github.com/sweeney/fortune-button/internal/guard"
	"github.com/sweeney/fortune-button/internal/oracle"
)

// Width is the printable character width of the thermal medium.
const Width = 32

// ESC/POS control sequences for the Y812BT.
const (
	escInit = "\x1b@" // initialize printer
	escCut  = "\x1bi" // partial cut
	feed    = "\n\n\n"
)

// Wrap hard-wraps text to the given width. Words longer than the width are
// split with a trailing hyphen; nothing is ever dropped. Short lines are
// centered for the narrow receipt.
func Wrap(text string, width int) []string {
	// Below 2 columns the hyphenated split cannot make progress.
	if width < 2 {
		width = 2
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	var current []string
	length := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		lines = append(lines, center(strings.Join(current, " "), width))
		current = nil
		length = 0
	}

	for _, word := range words {
		for len(word) > width {
			flush()
			lines = append(lines, word[:width-1]+"-")
			word = word[width-1:]
		}

		spaces := len(current)
		if length+len(word)+spaces > width {
			flush()
		}
		current = append(current, word)
		length += len(word)
	}
	flush()

	return lines
}

// center pads short lines so they sit in the middle of the receipt.
// Lines close to full width are left as-is.
func center(line string, width int) string {
	if len(line) >= width-4 {
		return line
	}
	pad := (width - len(line)) / 2
	return strings.Repeat(" ", pad) + line
}

// Render produces the full ESC/POS payload for one press: header, wrapped
// body, session trailer, feed, and cut.
func Render(rec oracle.ContentRecord, ev guard.PressEvent) []byte {
	var b strings.Builder
	divider := strings.Repeat("=", Width)

	b.WriteString(escInit)
	b.WriteString(center("* FORTUNE ORACLE *", Width))
	b.WriteString("\n")
	b.WriteString(divider)
	b.WriteString("\n\n")

	for _, line := range rec.Lines {
		for _, wrapped := range Wrap(line, Width) {
			b.WriteString(wrapped)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(divider)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Session #%d\n", ev.Sequence)
	fmt.Fprintf(&b, "%s\n", ev.Timestamp.Format("15:04:05 2006-01-02"))
	fmt.Fprintf(&b, "Element: %s\n", rec.Category)
	fmt.Fprintf(&b, "Entropy: %.4f  Loops: %d\n", rec.Metrics.Entropy, rec.Metrics.Loops)
	fmt.Fprintf(&b, "Intensity: %.2f\n", rec.Metrics.Intensity)
	b.WriteString(feed)
	b.WriteString(escCut)

	return []byte(b.String())
}

// RenderDefault produces a payload for an on-demand print of the default
// content, outside any press event.
func RenderDefault(rec oracle.ContentRecord, now time.Time) []byte {
	return Render(rec, guard.PressEvent{Timestamp: now})
}
