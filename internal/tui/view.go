package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/lorastack/internal/interact"
	"github.com/javiermolinar/lorastack/internal/layout"
	"github.com/javiermolinar/lorastack/internal/slot"
	"github.com/javiermolinar/lorastack/internal/tui/view"
)

const (
	menuMaxRows  = 10
	menuMinWidth = 16
	menuMaxWidth = 40
)

// View renders the list with the open popup on top.
func (m Model) View() string {
	return view.Render(m.viewState())
}

func (m Model) viewState() view.ViewState {
	state := view.ViewState{
		Width:            m.width,
		Height:           m.height,
		BaseContent:      m.renderAppContent(),
		EmptyPlaceholder: "Loading...",
	}
	if m.host.Open() {
		p := m.popupLayout()
		overlay := m.overlay
		overlay.Show()
		overlay.Anchor(p.top, p.left)
		state.ShowPopup = true
		state.PopupContent = p.content
		state.Overlay = overlay
	}
	return state
}

func (m Model) renderAppContent() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	zones := m.hit.Engine.Compute(float64(m.width), m.store.Mode())
	lines := []string{m.renderTitle(), ""}
	lines = append(lines, m.renderHeader(zones))
	for i, r := range m.store.Snapshot() {
		lines = append(lines, m.renderSlotRow(i, r, zones))
	}
	lines = append(lines, m.renderAddRow(zones))

	bodyH := m.height - footerH
	if bodyH < 0 {
		bodyH = 0
	}
	if len(lines) > bodyH {
		lines = lines[:bodyH]
	}
	body := view.PadLinesWithBackground(strings.Join(lines, "\n"), m.width, bodyH, m.styles.colorBg)

	footer := view.RenderFooter(view.FooterModel{
		InnerW:      m.width,
		StatusText:  m.statusText(),
		HelpText:    m.helpText(),
		StatusStyle: m.statusStyle(),
		HelpStyle:   m.styles.HelpStyle,
	})
	if bodyH == 0 {
		return footer
	}
	return m.styles.AppStyle.Render(body + "\n" + footer)
}

func (m Model) renderTitle() string {
	title := fmt.Sprintf(" LoRA stack · %s · %s", m.stackName, m.store.Mode())
	if m.Dirty() {
		title += " *"
	}
	if m.loading {
		title += " (loading)"
	}
	return view.FitWidth(m.styles.TitleStyle.Render(title), m.width, m.styles.AppStyle)
}

func (m Model) renderHeader(zones layout.ZoneMap) string {
	toggle, style := "[ ]", m.styles.ToggleOffStyle
	switch {
	case m.store.Len() > 0 && m.store.AllOn():
		toggle, style = "[x]", m.styles.ToggleOnStyle
	case m.store.Mixed():
		toggle, style = "[-]", m.styles.ToggleMixedStyle
	}

	caption := m.styles.HeaderCaptionStyle
	cells := []view.Cell{
		cellFor(zones, layout.ZoneToggle, toggle, style, lipgloss.Left),
		cellFor(zones, layout.ZoneName, "LoRA", caption, lipgloss.Left),
	}
	if m.store.Mode() == slot.ModeDual {
		cells = append(cells,
			cellFor(zones, layout.ZoneStrengthValue, "Model", caption, lipgloss.Right),
			cellFor(zones, layout.ZoneStrengthTwoValue, "Clip", caption, lipgloss.Right),
		)
	} else {
		cells = append(cells, cellFor(zones, layout.ZoneStrengthValue, "Str", caption, lipgloss.Right))
	}
	return view.RenderCells(m.width, cells, m.styles.HeaderStyle)
}

func (m Model) renderSlotRow(i int, r slot.Record, zones layout.ZoneMap) string {
	base := m.styles.RowStyle
	if i == m.cursor {
		base = m.styles.CursorRowStyle
	}

	toggle, toggleStyle := "[ ]", m.styles.ToggleOffStyle
	if r.Enabled {
		toggle, toggleStyle = "[x]", m.styles.ToggleOnStyle
	}
	nameStyle := m.styles.NameStyle
	if !r.Active() {
		nameStyle = m.styles.NameDisabledStyle
	}

	cells := []view.Cell{
		cellFor(zones, layout.ZoneToggle, toggle, toggleStyle, lipgloss.Left),
		cellFor(zones, layout.ZoneName, fmt.Sprintf("%d. %s", i+1, displayName(r.Model)), nameStyle, lipgloss.Left),
	}
	cells = append(cells, m.strengthCells(r, zones, layout.ZoneStrengthDec, layout.ZoneStrengthValue, layout.ZoneStrengthInc)...)
	if m.store.Mode() == slot.ModeDual {
		cells = append(cells, m.strengthCells(r, zones, layout.ZoneStrengthTwoDec, layout.ZoneStrengthTwoValue, layout.ZoneStrengthTwoInc)...)
	}
	return view.RenderCells(m.width, cells, base)
}

func (m Model) strengthCells(r slot.Record, zones layout.ZoneMap, dec, value, inc layout.Zone) []view.Cell {
	v, ok := r.StrengthFor(value.Which())
	if !ok {
		v = r.Strength
	}

	valueStyle := m.styles.ValueStyle
	if !r.Enabled {
		valueStyle = m.styles.ValueMutedStyle
	}
	if id, zone, dragging := m.ctrl.Dragging(); dragging && id == r.ID && zone == value {
		valueStyle = m.styles.DragValueStyle
	}

	return []view.Cell{
		cellFor(zones, dec, "<", m.styles.ArrowStyle, lipgloss.Center),
		cellFor(zones, value, fmt.Sprintf("%6.2f", v), valueStyle, lipgloss.Right),
		cellFor(zones, inc, ">", m.styles.ArrowStyle, lipgloss.Center),
	}
}

func (m Model) renderAddRow(zones layout.ZoneMap) string {
	base := m.styles.AddRowStyle
	if m.onAddRow() {
		base = m.styles.CursorRowStyle
	}
	cells := []view.Cell{
		cellFor(zones, layout.ZoneToggle, " + ", m.styles.ArrowStyle, lipgloss.Left),
		cellFor(zones, layout.ZoneName, "Add LoRA", m.styles.AddRowStyle.UnsetBackground(), lipgloss.Left),
	}
	return view.RenderCells(m.width, cells, base)
}

func cellFor(zones layout.ZoneMap, zone layout.Zone, text string, style lipgloss.Style, align lipgloss.Position) view.Cell {
	span, _ := zones.Get(zone)
	return view.Cell{Span: span, Text: text, Style: style, Align: align}
}

func displayName(model string) string {
	if slot.IsNone(model) {
		return interact.NoneLabel
	}
	return model
}

func (m Model) statusText() string {
	if m.statusMsg != "" {
		return " " + m.statusMsg
	}
	if m.Dirty() {
		return " Modified"
	}
	return ""
}

func (m Model) statusStyle() lipgloss.Style {
	if m.err != nil {
		return m.styles.ErrorStyle
	}
	return m.styles.StatusStyle
}

func (m Model) helpText() string {
	switch m.host.kind {
	case popupEditor:
		return " enter apply · esc cancel"
	case popupMenu:
		return " ↑↓ move · enter select · ← back · esc close"
	case popupContext:
		return " ↑↓ move · enter run · esc close"
	}
	return " space toggle · ←→ strength · e edit · enter model · a add · x menu · tab mode · u undo · s save · q quit"
}

// popupLayout is the rendered popup and its screen position.
type popupLayout struct {
	content    string
	top, left  int
	width      int
	height     int
	start, end int // Visible menu rows
}

// popupLayout renders the open popup and places it below the cursor row.
func (m Model) popupLayout() popupLayout {
	var p popupLayout
	styles := m.popupStyles()
	zones := m.hit.Engine.Compute(float64(m.width), m.store.Mode())
	anchorZone := layout.ZoneName

	switch m.host.kind {
	case popupEditor:
		anchorZone = layout.ZoneStrengthValue
		if m.lastZone.IsValue() {
			anchorZone = m.lastZone
		}
		p.content = view.RenderPopupFrame("Strength", m.host.input.View(), "", styles)
	case popupMenu, popupContext:
		rows, title := m.menuRows()
		size := menuMaxRows
		if room := m.height - footerH - 2*view.PopupItemOffset; room < size {
			size = max(room, 1)
		}
		p.start, p.end = view.MenuWindow(len(rows), m.host.cursor, size)
		width := menuWidth(rows, title)
		body := view.RenderMenuRows(rows, p.start, p.end, m.host.cursor, width, styles)
		p.content = view.RenderPopupFrame(title, body, "", styles)
	default:
		return p
	}

	p.width, p.height = m.overlay.Size(p.content)
	overlay := m.overlay
	col := 0
	if span, ok := zones.Get(anchorZone); ok {
		col = int(math.Round(span.Start))
	}
	overlay.Anchor(int(m.cursorRow().Top)+1, col)
	p.top, p.left = overlay.Bounds(m.width, m.height, p.width, p.height)
	return p
}

func (m Model) menuRows() ([]view.MenuRow, string) {
	if m.host.kind == popupContext {
		rows := make([]view.MenuRow, len(m.host.items))
		for i, item := range m.host.items {
			rows[i] = view.MenuRow{Label: item.Label}
		}
		return rows, fmt.Sprintf("Slot %d", m.cursor+1)
	}

	entries := m.host.visible()
	rows := make([]view.MenuRow, len(entries))
	for i, e := range entries {
		rows[i] = view.MenuRow{Label: e.Label, Folder: e.IsFolder(), Disabled: e.Disabled}
	}
	title := "LoRA"
	entriesAt := m.host.entries
	for _, i := range m.host.path {
		if i < 0 || i >= len(entriesAt) {
			break
		}
		title += " / " + entriesAt[i].Label
		entriesAt = entriesAt[i].Children
	}
	return rows, title
}

func menuWidth(rows []view.MenuRow, title string) int {
	w := lipgloss.Width(title)
	for _, r := range rows {
		lw := lipgloss.Width(r.Label)
		if r.Folder {
			lw += 2
		}
		w = max(w, lw)
	}
	return min(max(w+1, menuMinWidth), menuMaxWidth)
}

func (m Model) popupStyles() view.PopupStyles {
	return view.PopupStyles{
		Frame:    m.styles.PopupStyle,
		Title:    m.styles.PopupTitleStyle,
		Hint:     m.styles.PopupHintStyle,
		Item:     m.styles.MenuItemStyle,
		Selected: m.styles.MenuSelectedStyle,
		Disabled: m.styles.MenuDisabledStyle,
		Folder:   m.styles.MenuFolderStyle,
	}
}
