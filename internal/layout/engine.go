package layout

import "github.com/javiermolinar/lorastack/internal/slot"

// Metrics holds the fixed widths of a row. Only the name zone and the row
// bounds depend on the available width.
type Metrics struct {
	Margin      float64 // Left and right row padding
	ToggleWidth float64
	Gap         float64 // Space between toggle, name and strength columns
	ArrowWidth  float64
	ValueWidth  float64
}

// DefaultMetrics returns pixel metrics for a canvas host.
func DefaultMetrics() Metrics {
	return Metrics{
		Margin:      10,
		ToggleWidth: 26,
		Gap:         6,
		ArrowWidth:  10,
		ValueWidth:  32,
	}
}

// CellMetrics returns metrics in terminal cells.
func CellMetrics() Metrics {
	return Metrics{
		Margin:      1,
		ToggleWidth: 3,
		Gap:         1,
		ArrowWidth:  1,
		ValueWidth:  6,
	}
}

// ColumnWidth returns the width of one [dec][value][inc] strength column.
func (m Metrics) ColumnWidth() float64 {
	return 2*m.ArrowWidth + m.ValueWidth
}

// StrengthBlockWidth returns the width of all strength columns for mode.
func (m Metrics) StrengthBlockWidth(mode slot.Mode) float64 {
	if mode == slot.ModeDual {
		return 2*m.ColumnWidth() + m.Gap
	}
	return m.ColumnWidth()
}

// MinWidth is the narrowest total width at which the name zone is non-empty.
func (m Metrics) MinWidth(mode slot.Mode) float64 {
	return 2*m.Margin + m.ToggleWidth + 2*m.Gap + m.StrengthBlockWidth(mode)
}

// Engine computes row zones from Metrics. The zero value is not usable; use NewEngine.
type Engine struct {
	metrics Metrics
}

// NewEngine creates an engine with the given metrics.
func NewEngine(m Metrics) Engine {
	return Engine{metrics: m}
}

// Metrics returns the engine metrics.
func (e Engine) Metrics() Metrics {
	return e.metrics
}

// ComputeZones computes row zones with DefaultMetrics.
func ComputeZones(totalWidth float64, mode slot.Mode) ZoneMap {
	return NewEngine(DefaultMetrics()).Compute(totalWidth, mode)
}

// Compute lays out a row of totalWidth:
//
//	[toggle] [name .......] [dec|value|inc]            single
//	[toggle] [name ...] [dec|value|inc] [dec|value|inc] dual
//
// In dual mode the primary column moves left and the secondary column takes
// the right edge. Below MinWidth the name zone collapses to zero width and the
// strength block follows it, overflowing the right bound instead of overlapping.
func (e Engine) Compute(totalWidth float64, mode slot.Mode) ZoneMap {
	m := e.metrics
	if totalWidth < 0 {
		totalWidth = 0
	}

	toggle := Span{Start: m.Margin, End: m.Margin + m.ToggleWidth}
	nameStart := toggle.End + m.Gap

	block := m.StrengthBlockWidth(mode)
	blockStart := totalWidth - m.Margin - block
	nameEnd := blockStart - m.Gap
	if nameEnd < nameStart {
		nameEnd = nameStart
		blockStart = nameStart + m.Gap
	}

	zones := make([]ZoneRect, 0, 8)
	zones = append(zones,
		ZoneRect{Zone: ZoneToggle, Span: toggle},
		ZoneRect{Zone: ZoneName, Span: Span{Start: nameStart, End: nameEnd}},
	)
	zones = appendColumn(zones, m, blockStart, ZoneStrengthDec, ZoneStrengthValue, ZoneStrengthInc)
	if mode == slot.ModeDual {
		second := blockStart + m.ColumnWidth() + m.Gap
		zones = appendColumn(zones, m, second, ZoneStrengthTwoDec, ZoneStrengthTwoValue, ZoneStrengthTwoInc)
	}

	return ZoneMap{
		Bounds: Span{Start: 0, End: totalWidth},
		Zones:  zones,
	}
}

func appendColumn(zones []ZoneRect, m Metrics, start float64, dec, value, inc Zone) []ZoneRect {
	decEnd := start + m.ArrowWidth
	valueEnd := decEnd + m.ValueWidth
	return append(zones,
		ZoneRect{Zone: dec, Span: Span{Start: start, End: decEnd}},
		ZoneRect{Zone: value, Span: Span{Start: decEnd, End: valueEnd}},
		ZoneRect{Zone: inc, Span: Span{Start: valueEnd, End: valueEnd + m.ArrowWidth}},
	)
}
