package ui

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/lorastack/internal/persist"
	"github.com/javiermolinar/lorastack/internal/slot"
)

// Stats holds aggregated counts for a stack.
type Stats struct {
	Slots    int
	Active   int // enabled with a model selected
	Disabled int // switched off with a model selected
	Empty    int // no model selected
}

// Inactive returns the number of slots that do not contribute when applied.
func (s Stats) Inactive() int {
	return s.Slots - s.Active
}

// AccumulateStats updates stats based on a record.
func AccumulateStats(stats *Stats, r slot.Record) {
	stats.Slots++
	switch {
	case slot.IsNone(r.Model):
		stats.Empty++
	case r.Enabled:
		stats.Active++
	default:
		stats.Disabled++
	}
}

// StackStats returns the counts for every record of a snapshot.
func StackStats(snap persist.Snapshot) Stats {
	var stats Stats
	for _, r := range snap.Records {
		AccumulateStats(&stats, r)
	}
	return stats
}

// PrintOpts configures slot printing behavior.
type PrintOpts struct {
	Mode         slot.Mode
	Verbose      bool // Show full model names
	ShowBar      bool // Show strength bar column
	MaxNameWidth int  // Maximum model name width (0 = auto)
}

// CalcMaxNameWidth calculates the maximum model name width based on options.
func (o PrintOpts) CalcMaxNameWidth(defaultWidth int) int {
	if o.MaxNameWidth > 0 {
		return o.MaxNameWidth
	}
	if !o.Verbose {
		return defaultWidth
	}
	// Base: "  12. [x]  " plus one or two "  -20.00" columns
	overhead := 11 + 8
	if o.Mode == slot.ModeDual {
		overhead += 8
	}
	if o.ShowBar {
		overhead += 14
	}
	available := termWidth() - overhead
	if available > defaultWidth {
		return available
	}
	return defaultWidth
}

// PrintSlotRow prints a single slot row with consistent formatting.
func PrintSlotRow(w io.Writer, i int, r slot.Record, opts PrintOpts, maxNameWidth int) {
	toggle := formatOff("[ ]")
	if r.Enabled {
		toggle = formatOn("[x]")
	}

	name := slot.NormalizeName(r.Model)
	if ansi.StringWidth(name) > maxNameWidth {
		name = ansi.Truncate(name, maxNameWidth, "…")
	}
	name += strings.Repeat(" ", max(0, maxNameWidth-ansi.StringWidth(name)))
	if r.Active() {
		name = formatModel(name)
	} else {
		name = formatMuted(name)
	}

	line := fmt.Sprintf("  %2d. %s  %s  %s", i+1, toggle, name, formatStrength(FormatStrength(r.Strength)))
	if opts.Mode == slot.ModeDual {
		line += "  " + formatStrength(FormatStrength(r.ClipStrength()))
	}
	if opts.ShowBar {
		line += "  " + StrengthBar(r.Strength, 12)
	}
	fmt.Fprintln(w, line)
}

// PrintStats prints the stats summary line.
func PrintStats(w io.Writer, stats Stats) {
	active := formatOn(fmt.Sprintf("Active: %d", stats.Active))
	inactive := formatOff(fmt.Sprintf("Inactive: %d", stats.Inactive()))
	fmt.Fprintf(w, "%s | %s | Total: %d slots\n", active, inactive, stats.Slots)

	if stats.Empty > 0 {
		fmt.Fprintf(w, "%s\n", formatMuted(fmt.Sprintf("Empty: %d  |  Switched off: %d", stats.Empty, stats.Disabled)))
	}
}

// FormatStrength formats a strength with two decimals, the precision the
// store keeps.
func FormatStrength(v float64) string {
	return fmt.Sprintf("%6.2f", v)
}

// StrengthBar draws the magnitude of v relative to the strength range as a
// centered bar: negative values grow left, positive values grow right.
func StrengthBar(v float64, width int) string {
	half := width / 2
	if half == 0 {
		return ""
	}
	filled := int(math.Round(math.Abs(v) / slot.MaxStrength * float64(half)))
	filled = min(filled, half)
	if filled == 0 && v != 0 {
		filled = 1
	}

	left := strings.Repeat("░", half)
	right := strings.Repeat("░", half)
	if v < 0 {
		left = strings.Repeat("░", half-filled) + strings.Repeat("█", filled)
	} else {
		right = strings.Repeat("█", filled) + strings.Repeat("░", half-filled)
	}
	return "[" + formatStrength(left+"|"+right) + "]"
}
