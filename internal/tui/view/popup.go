package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PopupStyles groups the styles needed to render popup frames and menus.
type PopupStyles struct {
	Frame    lipgloss.Style
	Title    lipgloss.Style
	Hint     lipgloss.Style
	Item     lipgloss.Style
	Selected lipgloss.Style
	Disabled lipgloss.Style
	Folder   lipgloss.Style
}

// PopupItemOffset is the number of lines between the popup's top edge and its
// first body line: the border and the title.
const PopupItemOffset = 2

// RenderPopupFrame renders a bordered popup with a title line, the body and an
// optional hint line.
func RenderPopupFrame(title, body, hint string, styles PopupStyles) string {
	var b strings.Builder
	b.WriteString(styles.Title.Render(title))
	if body != "" {
		b.WriteString("\n")
		b.WriteString(body)
	}
	if hint != "" {
		b.WriteString("\n")
		b.WriteString(styles.Hint.Render(hint))
	}
	return styles.Frame.Render(b.String())
}

// MenuRow is one line of a popup menu.
type MenuRow struct {
	Label    string
	Folder   bool
	Disabled bool
}

// RenderMenuRows renders rows [start, end) padded to width, highlighting cursor.
func RenderMenuRows(rows []MenuRow, start, end, cursor, width int, styles PopupStyles) string {
	if start < 0 {
		start = 0
	}
	if end > len(rows) {
		end = len(rows)
	}
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		r := rows[i]
		label := r.Label
		style := styles.Item
		switch {
		case r.Folder:
			label += " ›"
			style = styles.Folder
		case r.Disabled:
			style = styles.Disabled
		}
		if i == cursor {
			style = styles.Selected
		}
		lines = append(lines, style.Width(width).Render(Truncate(label, width)))
	}
	return strings.Join(lines, "\n")
}

// MenuWindow returns the range of rows visible when at most size rows fit,
// keeping cursor in view.
func MenuWindow(n, cursor, size int) (int, int) {
	if size <= 0 || n <= size {
		return 0, n
	}
	start := cursor - size/2
	if start < 0 {
		start = 0
	}
	if start > n-size {
		start = n - size
	}
	return start, start + size
}
