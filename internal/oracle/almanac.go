package oracle

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Almanac is a calendar-day-indexed collection of candidate templates.
// Each day is a JSON file named YYYY-MM-DD.json in the almanac directory,
// containing an array of templates. The almanac is read-only and every
// failure degrades to "nothing for this day".
type Almanac struct {
	dir string
}

// NewAlmanac creates an Almanac over the given directory. The directory
// does not need to exist.
func NewAlmanac(dir string) *Almanac {
	return &Almanac{dir: dir}
}

// Lookup returns the candidate templates for the given day. The bool is
// false when the day has no usable collection: missing directory, missing
// file, unreadable JSON, or an empty candidate list.
func (a *Almanac) Lookup(day time.Time) ([]Template, bool) {
	if a.dir == "" {
		return nil, false
	}

	path := filepath.Join(a.dir, day.Format("2006-01-02")+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var templates []Template
	if err := json.Unmarshal(data, &templates); err != nil {
		return nil, false
	}

	// Drop entries with no lines; an all-empty file counts as absent.
	usable := templates[:0]
	for _, tpl := range templates {
		if len(tpl.Lines) > 0 {
			usable = append(usable, tpl)
		}
	}
	if len(usable) == 0 {
		return nil, false
	}
	return usable, true
}
