// Package tui provides the terminal user interface for lorastack.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/lorastack/internal/tui/theme"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	// Theme colors as lipgloss colors
	colorBg          lipgloss.Color
	colorBgHighlight lipgloss.Color
	colorBgSelection lipgloss.Color
	colorFg          lipgloss.Color
	colorFgMuted     lipgloss.Color
	colorAccent      lipgloss.Color
	colorOn          lipgloss.Color
	colorOff         lipgloss.Color
	colorMixed       lipgloss.Color
	colorStrength    lipgloss.Color
	colorWarning     lipgloss.Color
	colorDragBg      lipgloss.Color

	colorTextOnAccent    lipgloss.Color
	colorTextOnWarning   lipgloss.Color
	colorTextOnSelection lipgloss.Color

	TitleStyle lipgloss.Style

	// List header
	HeaderStyle        lipgloss.Style
	HeaderCaptionStyle lipgloss.Style

	// Slot rows
	RowStyle          lipgloss.Style
	CursorRowStyle    lipgloss.Style
	ToggleOnStyle     lipgloss.Style
	ToggleOffStyle    lipgloss.Style
	ToggleMixedStyle  lipgloss.Style
	NameStyle         lipgloss.Style
	NameDisabledStyle lipgloss.Style
	ArrowStyle        lipgloss.Style
	ValueStyle        lipgloss.Style
	ValueMutedStyle   lipgloss.Style
	DragValueStyle    lipgloss.Style

	// Add row
	AddRowStyle lipgloss.Style

	// Footer
	StatusStyle lipgloss.Style
	ErrorStyle  lipgloss.Style
	HelpStyle   lipgloss.Style

	// Popups
	PopupBgColor      lipgloss.Color
	PopupStyle        lipgloss.Style
	PopupTitleStyle   lipgloss.Style
	PopupHintStyle    lipgloss.Style
	MenuItemStyle     lipgloss.Style
	MenuSelectedStyle lipgloss.Style
	MenuDisabledStyle lipgloss.Style
	MenuFolderStyle   lipgloss.Style
	MenuTextStyle     lipgloss.Style
	MenuMutedStyle    lipgloss.Style
	MenuCursorStyle   lipgloss.Style

	// App container
	AppStyle lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(t *theme.Theme) *Styles {
	s := &Styles{}
	palette := theme.NewPalette(t)

	s.colorBg = palette.Bg
	s.colorBgHighlight = palette.BgHighlight
	s.colorBgSelection = palette.BgSelection
	s.colorFg = palette.Fg
	s.colorFgMuted = palette.FgMuted
	s.colorAccent = palette.Accent
	s.colorOn = palette.On
	s.colorOff = palette.Off
	s.colorMixed = palette.Mixed
	s.colorStrength = palette.Strength
	s.colorWarning = palette.Warning
	s.colorDragBg = palette.DragBg

	s.colorTextOnAccent = palette.TextOnAccent
	s.colorTextOnWarning = palette.TextOnWarning
	s.colorTextOnSelection = palette.TextOnSelection

	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.colorAccent).
		Background(s.colorBg)

	s.HeaderStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBgHighlight)

	s.HeaderCaptionStyle = s.HeaderStyle.
		Bold(true).
		Foreground(s.colorAccent)

	s.RowStyle = lipgloss.NewStyle().
		Foreground(s.colorFg).
		Background(s.colorBg)

	// The cursor row keeps per-zone colors and only swaps the background.
	s.CursorRowStyle = s.RowStyle.
		Background(s.colorBgSelection)

	s.ToggleOnStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.colorOn)

	s.ToggleOffStyle = lipgloss.NewStyle().
		Foreground(s.colorOff)

	s.ToggleMixedStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.colorMixed)

	s.NameStyle = lipgloss.NewStyle().
		Foreground(s.colorFg)

	s.NameDisabledStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Italic(true)

	s.ArrowStyle = lipgloss.NewStyle().
		Foreground(s.colorAccent)

	s.ValueStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.colorStrength)

	s.ValueMutedStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted)

	s.DragValueStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.colorTextOnWarning).
		Background(s.colorDragBg)

	s.AddRowStyle = lipgloss.NewStyle().
		Foreground(s.colorAccent).
		Background(s.colorBg)

	s.StatusStyle = lipgloss.NewStyle().
		Foreground(s.colorAccent).
		Background(s.colorBg)

	s.ErrorStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.colorWarning).
		Background(s.colorBg)

	s.HelpStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBg)

	// Popup styles - use the menu palette
	menu := palette.Menu
	s.PopupBgColor = menu.Bg

	s.PopupStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(menu.Border).
		BorderBackground(menu.Bg).
		Background(menu.Bg).
		Padding(0, 1)

	s.PopupTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(menu.Border).
		Background(menu.Bg)

	s.PopupHintStyle = lipgloss.NewStyle().
		Foreground(menu.Muted).
		Background(menu.Bg)

	s.MenuItemStyle = lipgloss.NewStyle().
		Foreground(menu.Text).
		Background(menu.Bg)

	s.MenuSelectedStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(menu.ReverseText).
		Background(menu.Highlight)

	s.MenuDisabledStyle = lipgloss.NewStyle().
		Foreground(menu.Muted).
		Background(menu.Bg).
		Italic(true)

	s.MenuFolderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(menu.Text).
		Background(menu.Bg)

	s.MenuTextStyle = lipgloss.NewStyle().
		Foreground(menu.Text).
		Background(menu.Bg)

	s.MenuMutedStyle = lipgloss.NewStyle().
		Foreground(menu.Muted).
		Background(menu.Bg)

	s.MenuCursorStyle = lipgloss.NewStyle().
		Foreground(menu.Bg).
		Background(menu.Text)

	s.AppStyle = lipgloss.NewStyle().
		Background(s.colorBg)

	return s
}
