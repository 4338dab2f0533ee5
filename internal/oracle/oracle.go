// Package oracle derives deterministic fortune content from a press
// timestamp. All randomness is simulated through a fixed hash of the
// timestamp, so identical timestamps always yield identical content.
// The only I/O is the read-only calendar almanac lookup.
package oracle

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// Category classifies the content derived from a press.
type Category string

const (
	Stillness      Category = "STILLNESS"
	Flow           Category = "FLOW"
	Emergence      Category = "EMERGENCE"
	Transformation Category = "TRANSFORMATION"
	Transcendence  Category = "TRANSCENDENCE"
)

// Categories lists all categories in partition order.
var Categories = []Category{Stillness, Flow, Emergence, Transformation, Transcendence}

// Metrics are bounded scalars derived from the seed. The names are display
// labels; the values are plain deterministic transforms.
type Metrics struct {
	// Entropy is the normalized seed, in [0,1].
	Entropy float64
	// Intensity is an affine remap of the seed, in [3.16, 3.31].
	Intensity float64
	// Loops is a small integer derived from the seed, in [3,6].
	Loops int
}

// ContentRecord is the derived, deterministic content for one press.
// Immutable once created.
type ContentRecord struct {
	Seed         float64
	Category     Category
	Metrics      Metrics
	Lines        []string
	Label        string
	FallbackUsed bool
}

// Seed derives the normalized entropy seed from a press timestamp:
// sha256 of the epoch-seconds string (microsecond precision), first 8 hex
// digits as a uint32, divided by 0xFFFFFFFF. Range [0,1].
func Seed(t time.Time) float64 {
	return float64(rawSeed(t)) / 0xFFFFFFFF
}

func rawSeed(t time.Time) uint32 {
	epoch := strconv.FormatFloat(float64(t.UnixMicro())/1e6, 'f', 6, 64)
	sum := sha256.Sum256([]byte(epoch))
	v, _ := strconv.ParseUint(hex.EncodeToString(sum[:4]), 16, 64)
	return uint32(v)
}

// categoryFor partitions [0,1) into five equal closed-open ranges.
// A seed of exactly 1.0 lands in the last category.
func categoryFor(seed float64) Category {
	idx := int(seed * float64(len(Categories)))
	if idx >= len(Categories) {
		idx = len(Categories) - 1
	}
	return Categories[idx]
}

func metricsFor(seed float64) Metrics {
	loops := 3 + int(seed*3)
	if loops > 6 {
		loops = 6
	}
	return Metrics{
		Entropy:   seed,
		Intensity: 3.16 + 0.15*seed,
		Loops:     loops,
	}
}

// Generator produces ContentRecords, consulting an optional almanac for
// calendar-day template collections.
type Generator struct {
	almanac *Almanac
}

// NewGenerator creates a Generator. almanac may be nil, in which case only
// the built-in defaults are used.
func NewGenerator(almanac *Almanac) *Generator {
	return &Generator{almanac: almanac}
}

// Generate derives the content for a press at the given timestamp. The day
// parameter selects the almanac collection; pass the current wall-clock time.
// A missing or unreadable collection degrades silently to the built-in
// default template for the derived category.
func (g *Generator) Generate(t time.Time, day time.Time) ContentRecord {
	raw := rawSeed(t)
	seed := float64(raw) / 0xFFFFFFFF
	category := categoryFor(seed)

	rec := ContentRecord{
		Seed:     seed,
		Category: category,
		Metrics:  metricsFor(seed),
	}

	if g.almanac != nil {
		if candidates, ok := g.almanac.Lookup(day); ok {
			// Uniform wrap over the day's candidates, indexed by the
			// raw seed.
			tpl := candidates[int(raw%uint32(len(candidates)))]
			rec.Lines = append([]string(nil), tpl.Lines...)
			rec.Label = tpl.Label
			return rec
		}
	}

	tpl := defaultTemplate(category)
	rec.Lines = append([]string(nil), tpl.Lines...)
	rec.Label = tpl.Label
	rec.FallbackUsed = true
	return rec
}
