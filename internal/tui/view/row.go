package view

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/lorastack/internal/layout"
)

// Cell is one zone of a row with the text drawn inside it.
type Cell struct {
	Span  layout.Span
	Text  string
	Style lipgloss.Style
	Align lipgloss.Position
}

// RenderCells draws cells at their zone positions on a line of width cells.
// Gaps between cells are filled with base. Cells must be ordered left to
// right; a cell overlapping its predecessor is shifted right and parts past
// width are cut.
func RenderCells(width int, cells []Cell, base lipgloss.Style) string {
	if width <= 0 {
		return ""
	}
	var b strings.Builder
	pos := 0
	for _, c := range cells {
		start := int(math.Round(c.Span.Start))
		end := int(math.Round(c.Span.End))
		if start < pos {
			start = pos
		}
		if end > width {
			end = width
		}
		if end <= start {
			continue
		}
		if start > pos {
			b.WriteString(base.Render(strings.Repeat(" ", start-pos)))
		}
		b.WriteString(renderCell(c, end-start, base))
		pos = end
	}
	if pos < width {
		b.WriteString(base.Render(strings.Repeat(" ", width-pos)))
	}
	return b.String()
}

func renderCell(c Cell, w int, base lipgloss.Style) string {
	text := Truncate(c.Text, w)
	style := c.Style.Inherit(base).
		Width(w).
		MaxWidth(w).
		Align(c.Align)
	return style.Render(text)
}
