package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// PadLinesWithBackground pads content to width/height with a background color.
// Lines wider than width are cut.
func PadLinesWithBackground(content string, width, height int, bg lipgloss.Color) string {
	if width <= 0 || height <= 0 {
		return content
	}
	lines := strings.Split(content, "\n")
	paddingStyle := lipgloss.NewStyle().Background(bg)
	out := make([]string, height)
	for i := range out {
		line := ""
		if i < len(lines) {
			line = lines[i]
		}
		out[i] = FitWidth(line, width, paddingStyle)
	}
	return strings.Join(out, "\n")
}

// FitWidth cuts or pads line to exactly width cells. Padding is rendered
// with pad.
func FitWidth(line string, width int, pad lipgloss.Style) string {
	if width <= 0 {
		return ""
	}
	w := lipgloss.Width(line)
	if w > width {
		return ansi.Cut(line, 0, width)
	}
	if w < width {
		return line + pad.Render(strings.Repeat(" ", width-w))
	}
	return line
}

// Truncate shortens s to width cells, marking the cut with an ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}
