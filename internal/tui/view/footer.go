package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// FooterModel contains content and styles for rendering the footer.
type FooterModel struct {
	InnerW      int
	StatusText  string
	HelpText    string
	StatusStyle lipgloss.Style
	HelpStyle   lipgloss.Style
}

// RenderFooter renders the status and help lines.
func RenderFooter(model FooterModel) string {
	lines := []string{
		footerLine(model.InnerW, model.StatusStyle, model.StatusText),
		footerLine(model.InnerW, model.HelpStyle, model.HelpText),
	}
	return strings.Join(lines, "\n")
}

func footerLine(width int, style lipgloss.Style, content string) string {
	frameW, _ := style.GetFrameSize()
	contentWidth := width - frameW
	if contentWidth < 0 {
		contentWidth = 0
	}
	return style.Width(contentWidth).Render(Truncate(content, contentWidth))
}
