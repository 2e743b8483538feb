// Package layout computes the input zones of a slot row and maps pointer
// coordinates back to them.
package layout

import "github.com/javiermolinar/lorastack/internal/slot"

// Zone names a rectangular input target within a slot row.
type Zone int

const (
	ZoneNone Zone = iota
	ZoneToggle
	ZoneName
	ZoneStrengthDec
	ZoneStrengthValue
	ZoneStrengthInc
	ZoneStrengthTwoDec
	ZoneStrengthTwoValue
	ZoneStrengthTwoInc
)

var zoneNames = map[Zone]string{
	ZoneNone:             "none",
	ZoneToggle:           "toggle",
	ZoneName:             "name",
	ZoneStrengthDec:      "strengthDecrement",
	ZoneStrengthValue:    "strengthValue",
	ZoneStrengthInc:      "strengthIncrement",
	ZoneStrengthTwoDec:   "strengthTwoDecrement",
	ZoneStrengthTwoValue: "strengthTwoValue",
	ZoneStrengthTwoInc:   "strengthTwoIncrement",
}

func (z Zone) String() string {
	if s, ok := zoneNames[z]; ok {
		return s
	}
	return "unknown"
}

// IsStrength reports whether z belongs to a strength column.
func (z Zone) IsStrength() bool {
	return z >= ZoneStrengthDec && z <= ZoneStrengthTwoInc
}

// IsValue reports whether z is a numeric value field.
func (z Zone) IsValue() bool {
	return z == ZoneStrengthValue || z == ZoneStrengthTwoValue
}

// Step returns -1 for decrement arrows, +1 for increment arrows and 0 otherwise.
func (z Zone) Step() int {
	switch z {
	case ZoneStrengthDec, ZoneStrengthTwoDec:
		return -1
	case ZoneStrengthInc, ZoneStrengthTwoInc:
		return 1
	default:
		return 0
	}
}

// Which returns the strength scalar a strength zone edits.
func (z Zone) Which() slot.Which {
	if z >= ZoneStrengthTwoDec && z <= ZoneStrengthTwoInc {
		return slot.Secondary
	}
	return slot.Primary
}

// Span is a closed-open horizontal interval [Start, End).
type Span struct {
	Start float64
	End   float64
}

// Width returns End-Start.
func (s Span) Width() float64 {
	return s.End - s.Start
}

// Contains reports whether x lies in [Start, End).
func (s Span) Contains(x float64) bool {
	return x >= s.Start && x < s.End
}

// ZoneRect pairs a zone with its horizontal extent.
type ZoneRect struct {
	Zone Zone
	Span Span
}

// ZoneMap holds the zones of one row, ordered left to right.
type ZoneMap struct {
	Bounds Span
	Zones  []ZoneRect
}

// Get returns the span of zone z.
func (m ZoneMap) Get(z Zone) (Span, bool) {
	for _, zr := range m.Zones {
		if zr.Zone == z {
			return zr.Span, true
		}
	}
	return Span{}, false
}

// At returns the zone containing x, or ZoneNone.
func (m ZoneMap) At(x float64) Zone {
	for _, zr := range m.Zones {
		if zr.Span.Contains(x) {
			return zr.Zone
		}
	}
	return ZoneNone
}
