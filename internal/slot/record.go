// Package slot holds the canonical model of a LoRA stack: an ordered list of
// slot records plus the list-wide display mode.
package slot

import (
	"fmt"
	"math"
	"strings"
)

const (
	// MinStrength is the lowest strength a record can hold.
	MinStrength = -20.0
	// MaxStrength is the highest strength a record can hold.
	MaxStrength = 20.0
	// DefaultStrength is assigned to new records and to records loaded without a strength.
	DefaultStrength = 1.0

	// NoneModel is the sentinel model name meaning "no model selected".
	NoneModel = "none"

	// LabelPrefix prefixes the externally visible slot label (slot_1, slot_2, ...).
	LabelPrefix = "slot_"
)

// Mode is the list-scoped display mode.
type Mode int

const (
	ModeSingle Mode = iota // One strength per record
	ModeDual               // Separate model and clip strengths
)

// String returns the persisted name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeDual:
		return "dual"
	default:
		return "single"
	}
}

// ParseMode parses a persisted mode name. Empty input means single.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "single":
		return ModeSingle, nil
	case "dual":
		return ModeDual, nil
	default:
		return ModeSingle, fmt.Errorf("unknown display mode %q", s)
	}
}

// Which selects one of the two strength scalars of a record.
type Which int

const (
	Primary Which = iota
	Secondary
)

func (w Which) String() string {
	if w == Secondary {
		return "secondary"
	}
	return "primary"
}

// Record is one entry of the stack.
// ID is internal identity: it survives copy-on-write and reorders and is never serialized.
type Record struct {
	ID             uint64
	Enabled        bool
	Model          string
	Strength       float64
	StrengthTwo    float64
	HasStrengthTwo bool // false means the secondary strength is absent
}

// NewRecord returns an enabled record for the given model name with default strength.
// An empty name or the sentinel yields a disabled "none" record.
func NewRecord(name string, mode Mode) Record {
	name = NormalizeName(name)
	r := Record{
		Enabled:  !IsNone(name),
		Model:    name,
		Strength: DefaultStrength,
	}
	if mode == ModeDual {
		r.StrengthTwo = DefaultStrength
		r.HasStrengthTwo = true
	}
	return r
}

// StrengthFor returns the requested strength and whether it is present.
func (r Record) StrengthFor(which Which) (float64, bool) {
	if which == Secondary {
		return r.StrengthTwo, r.HasStrengthTwo
	}
	return r.Strength, true
}

// ClipStrength returns the strength applied to the text encoder: the secondary
// strength when present, the primary one otherwise.
func (r Record) ClipStrength() float64 {
	if r.HasStrengthTwo {
		return r.StrengthTwo
	}
	return r.Strength
}

// Active reports whether the record contributes when the stack is applied.
func (r Record) Active() bool {
	return r.Enabled && !IsNone(r.Model)
}

// IsNone reports whether name is the "no model" sentinel (any casing) or empty.
func IsNone(name string) bool {
	name = strings.TrimSpace(name)
	return name == "" || strings.EqualFold(name, NoneModel)
}

// NormalizeName maps empty names and every casing of the sentinel to NoneModel.
func NormalizeName(name string) string {
	if IsNone(name) {
		return NoneModel
	}
	return name
}

// ClampStrength bounds v to [MinStrength, MaxStrength] and rounds it to 0.01.
// NaN is treated as DefaultStrength.
func ClampStrength(v float64) float64 {
	if math.IsNaN(v) {
		return DefaultStrength
	}
	v = math.Max(MinStrength, math.Min(MaxStrength, v))
	return math.Round(v*100) / 100
}

// Label returns the external label of the record at index i.
func Label(i int) string {
	return fmt.Sprintf("%s%d", LabelPrefix, i+1)
}
