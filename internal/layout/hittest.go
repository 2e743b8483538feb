package layout

import (
	"math"

	"github.com/javiermolinar/lorastack/internal/slot"
)

// Point is a pointer position in host coordinates.
type Point struct {
	X float64
	Y float64
}

// Classify returns the zone under p for a row spanning [rowTop, rowTop+rowHeight).
// It returns ZoneNone when p is outside the row or in a gap between zones.
func Classify(p Point, zones ZoneMap, rowTop, rowHeight float64) Zone {
	if p.Y < rowTop || p.Y >= rowTop+rowHeight {
		return ZoneNone
	}
	return zones.At(p.X)
}

// RowKind identifies a row of the list widget.
type RowKind int

const (
	RowNone   RowKind = iota
	RowHeader         // Toggle-all control and column captions
	RowSlot           // One slot record
	RowAdd            // "Add LoRA" button below the last slot
)

// Row is one horizontal band of the list widget.
type Row struct {
	Kind   RowKind
	Index  int // Slot index for RowSlot, -1 otherwise
	Top    float64
	Height float64
}

// Geometry stacks a header row, one row per slot and an add row.
type Geometry struct {
	Top       float64
	RowHeight float64
	RowGap    float64
}

// DefaultGeometry returns pixel geometry for a canvas host.
func DefaultGeometry() Geometry {
	return Geometry{Top: 0, RowHeight: 22, RowGap: 4}
}

// CellGeometry returns geometry in terminal lines.
func CellGeometry(top float64) Geometry {
	return Geometry{Top: top, RowHeight: 1, RowGap: 0}
}

func (g Geometry) pitch() float64 {
	return g.RowHeight + g.RowGap
}

// HeaderRow returns the header row.
func (g Geometry) HeaderRow() Row {
	return Row{Kind: RowHeader, Index: -1, Top: g.Top, Height: g.RowHeight}
}

// SlotRow returns the row of slot i.
func (g Geometry) SlotRow(i int) Row {
	return Row{Kind: RowSlot, Index: i, Top: g.Top + float64(i+1)*g.pitch(), Height: g.RowHeight}
}

// AddRow returns the add row for a list of n slots.
func (g Geometry) AddRow(n int) Row {
	return Row{Kind: RowAdd, Index: -1, Top: g.Top + float64(n+1)*g.pitch(), Height: g.RowHeight}
}

// Height returns the total height of a list of n slots.
func (g Geometry) Height(n int) float64 {
	return float64(n+2)*g.pitch() - g.RowGap
}

// RowAt returns the row containing y for a list of n slots. Gaps between
// rows belong to no row.
func (g Geometry) RowAt(y float64, n int) (Row, bool) {
	if g.pitch() <= 0 || y < g.Top {
		return Row{}, false
	}
	band := int(math.Floor((y - g.Top) / g.pitch()))
	var row Row
	switch {
	case band == 0:
		row = g.HeaderRow()
	case band <= n:
		row = g.SlotRow(band - 1)
	case band == n+1:
		row = g.AddRow(n)
	default:
		return Row{}, false
	}
	if y >= row.Top+row.Height {
		return Row{}, false
	}
	return row, true
}

// Hit is the result of hit-testing a pointer against the whole list.
type Hit struct {
	Row  Row
	Zone Zone
}

// HitTester resolves pointer positions to rows and zones using one Engine,
// so zone boundaries are never duplicated.
type HitTester struct {
	Engine   Engine
	Geometry Geometry
}

// NewHitTester creates a hit tester.
func NewHitTester(e Engine, g Geometry) HitTester {
	return HitTester{Engine: e, Geometry: g}
}

// Hit classifies p for a list of n slots rendered at width in the given mode.
// The header row only exposes its toggle zone; the add row is one zone-less target.
func (h HitTester) Hit(p Point, width float64, mode slot.Mode, n int) (Hit, bool) {
	row, ok := h.Geometry.RowAt(p.Y, n)
	if !ok {
		return Hit{}, false
	}
	zones := h.Engine.Compute(width, mode)
	switch row.Kind {
	case RowHeader:
		z := Classify(p, zones, row.Top, row.Height)
		if z != ZoneToggle {
			z = ZoneNone
		}
		return Hit{Row: row, Zone: z}, true
	case RowAdd:
		if !zones.Bounds.Contains(p.X) {
			return Hit{}, false
		}
		return Hit{Row: row, Zone: ZoneNone}, true
	default:
		return Hit{Row: row, Zone: Classify(p, zones, row.Top, row.Height)}, true
	}
}
