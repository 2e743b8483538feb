package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// OverlayModel splices a popup over base content. An anchored popup has its
// top-left corner at the anchor, shifted back on screen when it would
// overflow; an unanchored popup is centered.
type OverlayModel struct {
	visible  bool
	bg       string // escape sequence restoring the popup background
	anchored bool
	row, col int
}

// NewOverlayModel returns a hidden, centered overlay.
func NewOverlayModel() OverlayModel {
	return OverlayModel{}
}

// Show makes the overlay visible.
func (o *OverlayModel) Show() { o.visible = true }

// Hide hides the overlay.
func (o *OverlayModel) Hide() { o.visible = false }

// Active reports whether the overlay is visible.
func (o OverlayModel) Active() bool {
	return o.visible
}

// SetBackground sets the color reapplied after style resets inside the popup.
func (o *OverlayModel) SetBackground(color lipgloss.Color) {
	if color == "" {
		o.bg = ""
		return
	}
	o.bg = ansi.Style{}.BackgroundColor(ansi.HexColor(string(color))).String()
}

// Anchor places the popup's top-left corner at row, col.
func (o *OverlayModel) Anchor(row, col int) {
	o.anchored, o.row, o.col = true, row, col
}

// Center removes the anchor.
func (o *OverlayModel) Center() {
	o.anchored = false
}

// Bounds returns the top-left corner of a w x h popup on a width x height screen.
func (o OverlayModel) Bounds(width, height, w, h int) (top, left int) {
	top, left = (height-h)/2, (width-w)/2
	if o.anchored {
		top, left = o.row, o.col
	}
	return clampStart(top, h, height), clampStart(left, w, width)
}

// clampStart keeps [pos, pos+size) inside [0, limit) when it fits.
func clampStart(pos, size, limit int) int {
	return max(0, min(pos, limit-size))
}

// Render draws content on top of base.
func (o OverlayModel) Render(base string, width, height int, content string) string {
	if !o.visible || width <= 0 || height <= 0 {
		return base
	}
	popup := splitLines(content)
	w, h := o.contentSize(popup)
	w, h = min(w, width), min(h, height)
	if w <= 0 || h <= 0 {
		return base
	}

	top, left := o.Bounds(width, height, w, h)
	screen := fitLines(strings.Split(base, "\n"), width, height)
	for i := range h {
		row := top + i
		screen[row] = ansi.Cut(screen[row], 0, left) +
			o.popupLine(popup[i], w) +
			ansi.ResetStyle +
			ansi.Cut(screen[row], left+w, width)
	}
	return strings.Join(screen, "\n")
}

// popupLine cuts or pads line to exactly w cells on the popup background.
func (o OverlayModel) popupLine(line string, w int) string {
	if lipgloss.Width(line) > w {
		line = ansi.Cut(line, 0, w)
	}
	if o.bg != "" && line != "" {
		line = strings.ReplaceAll(line, ansi.ResetStyle, ansi.ResetStyle+o.bg)
		line = strings.ReplaceAll(line, "\x1b[49m", "\x1b[49m"+o.bg)
	}
	if pad := w - lipgloss.Width(line); pad > 0 {
		line += o.bg + strings.Repeat(" ", pad)
	}
	return line
}

// Size returns the width and height of rendered content.
func (o OverlayModel) Size(content string) (int, int) {
	return o.contentSize(splitLines(content))
}

func (o OverlayModel) contentSize(lines []string) (int, int) {
	w := 0
	for _, line := range lines {
		w = max(w, lipgloss.Width(line))
	}
	return w, len(lines)
}

// splitLines splits content into lines, dropping trailing empty ones.
func splitLines(content string) []string {
	lines := strings.Split(content, "\n")
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// fitLines returns exactly height lines, each exactly width cells wide.
func fitLines(lines []string, width, height int) []string {
	out := make([]string, height)
	for i := range out {
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		switch lw := lipgloss.Width(line); {
		case lw > width:
			line = ansi.Cut(line, 0, width)
		case lw < width:
			line += strings.Repeat(" ", width-lw)
		}
		out[i] = line
	}
	return out
}
