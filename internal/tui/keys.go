package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/lorastack/internal/interact"
	"github.com/javiermolinar/lorastack/internal/layout"
	"github.com/javiermolinar/lorastack/internal/persist"
	"github.com/javiermolinar/lorastack/internal/slot"
	"github.com/javiermolinar/lorastack/internal/tui/commands"
)

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Log keystroke
	LogKeyPress(msg)

	// Global keys (work in all modes)
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.host.kind {
	case popupEditor:
		return m.handleEditorKeys(msg)
	case popupMenu, popupContext:
		return m.handleMenuKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNormalKeys handles keys when no popup is open. Slot edits go
// through the controller as clicks on the cursor row so keyboard and pointer
// share one code path.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key != "q" {
		m.quitArmed = false
	}

	switch key {
	case "q":
		if m.Dirty() && !m.quitArmed {
			m.quitArmed = true
			cmd := m.setStatus("Unsaved changes: q again to quit, s to save")
			return m, cmd
		}
		return m, tea.Quit
	case "esc":
		m.ctrl.Key(interact.KeyEvent{Key: interact.KeyEscape})

	// Navigation
	case "j", "down":
		if m.cursor < m.store.Len() {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = m.store.Len()

	// Slot editing
	case " ":
		m.clickSlot(layout.ZoneToggle)
	case "enter":
		if m.onAddRow() {
			m.clickAddRow()
		} else {
			m.clickSlot(layout.ZoneName)
		}
	case "h", "left":
		m.clickSlot(layout.ZoneStrengthDec)
	case "l", "right":
		m.clickSlot(layout.ZoneStrengthInc)
	case "H", "shift+left":
		cmd := m.clickSecondary(layout.ZoneStrengthTwoDec)
		return m, cmd
	case "L", "shift+right":
		cmd := m.clickSecondary(layout.ZoneStrengthTwoInc)
		return m, cmd
	case "e":
		m.openEditor(layout.ZoneStrengthValue)
	case "E":
		if m.store.Mode() != slot.ModeDual {
			cmd := m.setStatus(dualOnlyMsg)
			return m, cmd
		}
		m.openEditor(layout.ZoneStrengthTwoValue)
	case "x":
		m.openContextMenu()
	case "a":
		m.cursor = m.store.Len()
		m.clickAddRow()
	case "A":
		m.clickHeader()

	// Structure
	case "d", "delete":
		if m.onAddRow() {
			return m, nil
		}
		if err := m.store.Remove(m.cursor); err != nil {
			cmd := m.setError(err)
			return m, cmd
		}
		m.clampCursor()
	case "K", "shift+up":
		if m.onAddRow() || m.cursor == 0 {
			return m, nil
		}
		if err := m.store.MoveUp(m.cursor); err != nil {
			cmd := m.setError(err)
			return m, cmd
		}
		m.cursor--
	case "J", "shift+down":
		if m.onAddRow() || m.cursor >= m.store.Len()-1 {
			return m, nil
		}
		if err := m.store.MoveDown(m.cursor); err != nil {
			cmd := m.setError(err)
			return m, cmd
		}
		m.cursor++
	case "u", "ctrl+z":
		if err := m.store.Undo(); err != nil {
			cmd := m.setStatus("Nothing to undo")
			return m, cmd
		}
		m.clampCursor()
	case "tab":
		next := slot.ModeDual
		if m.store.Mode() == slot.ModeDual {
			next = slot.ModeSingle
		}
		if err := m.store.SetMode(next); err != nil {
			cmd := m.setError(err)
			return m, cmd
		}
		cmd := m.setStatus(fmt.Sprintf("Mode: %s", next))
		return m, cmd

	// Persistence
	case "s":
		if m.repo == nil {
			cmd := m.setStatus("No database configured")
			return m, cmd
		}
		m.pending = m.store.List()
		return m, commands.SaveStack(m.repo, m.stackName, persist.Capture(m.store))
	case "y":
		return m, commands.CopyStack(persist.Capture(m.store))
	}

	return m, nil
}

const dualOnlyMsg = "Clip strength needs dual mode (tab)"

// handleEditorKeys handles keys while the strength editor is open.
func (m Model) handleEditorKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		text := m.host.input.Value()
		m.host.close()
		m.ctrl.Key(interact.KeyEvent{Key: interact.KeyEnter, Text: text})
		if _, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err != nil {
			cmd := m.setStatus(fmt.Sprintf("Invalid strength %q", text))
			return m, cmd
		}
		return m, nil
	case "esc":
		m.host.close()
		m.ctrl.Key(interact.KeyEvent{Key: interact.KeyEscape})
		return m, nil
	}

	var cmd tea.Cmd
	m.host.input, cmd = m.host.input.Update(msg)
	return m, cmd
}

// handleMenuKeys handles keys while a selection or context menu is open.
func (m Model) handleMenuKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.host.moveCursor(-1)
	case "down", "j":
		m.host.moveCursor(1)
	case "enter", "right", "l":
		m.host.activate()
		m.clampCursor()
	case "left", "h", "backspace":
		m.host.back()
	case "esc", "q":
		m.host.dismiss()
	}
	return m, nil
}

func (m Model) onAddRow() bool {
	return m.cursor >= m.store.Len()
}

// cursorRow returns the geometry of the row under the cursor.
func (m Model) cursorRow() layout.Row {
	if m.onAddRow() {
		return m.hit.Geometry.AddRow(m.store.Len())
	}
	return m.hit.Geometry.SlotRow(m.cursor)
}

// zonePoint returns the center of zone on row.
func (m Model) zonePoint(row layout.Row, zone layout.Zone) (layout.Point, bool) {
	zones := m.hit.Engine.Compute(float64(m.width), m.store.Mode())
	span, ok := zones.Get(zone)
	if !ok || span.Width() <= 0 {
		return layout.Point{}, false
	}
	return layout.Point{X: (span.Start + span.End) / 2, Y: row.Top}, true
}

// click feeds a press and release at p to the controller.
func (m Model) click(p layout.Point, button interact.Button) {
	at := m.now()
	m.ctrl.Pointer(interact.PointerEvent{Kind: interact.PointerPress, Button: button, X: p.X, Y: p.Y, At: at})
	m.ctrl.Pointer(interact.PointerEvent{Kind: interact.PointerRelease, Button: button, X: p.X, Y: p.Y, At: at})
}

func (m Model) clickSlot(zone layout.Zone) bool {
	if m.onAddRow() {
		return false
	}
	p, ok := m.zonePoint(m.cursorRow(), zone)
	if !ok {
		return false
	}
	m.click(p, interact.ButtonLeft)
	return true
}

func (m *Model) clickSecondary(zone layout.Zone) tea.Cmd {
	if m.store.Mode() != slot.ModeDual {
		return m.setStatus(dualOnlyMsg)
	}
	m.clickSlot(zone)
	return nil
}

func (m Model) clickAddRow() {
	row := m.hit.Geometry.AddRow(m.store.Len())
	p, ok := m.zonePoint(row, layout.ZoneToggle)
	if !ok {
		return
	}
	m.click(p, interact.ButtonLeft)
}

func (m Model) clickHeader() {
	p, ok := m.zonePoint(m.hit.Geometry.HeaderRow(), layout.ZoneToggle)
	if !ok {
		return
	}
	m.click(p, interact.ButtonLeft)
}

// openEditor double-clicks the value field of the cursor row.
func (m *Model) openEditor(zone layout.Zone) {
	if m.onAddRow() {
		return
	}
	p, ok := m.zonePoint(m.cursorRow(), zone)
	if !ok {
		return
	}
	m.lastZone = zone
	at := m.now()
	press := interact.PointerEvent{Kind: interact.PointerPress, Button: interact.ButtonLeft, X: p.X, Y: p.Y, At: at}
	release := press
	release.Kind = interact.PointerRelease
	m.ctrl.Pointer(press)
	m.ctrl.Pointer(release)
	m.ctrl.Pointer(press)
}

func (m Model) openContextMenu() {
	if m.onAddRow() {
		return
	}
	p, ok := m.zonePoint(m.cursorRow(), layout.ZoneToggle)
	if !ok {
		return
	}
	m.ctrl.Pointer(interact.PointerEvent{Kind: interact.PointerPress, Button: interact.ButtonRight, X: p.X, Y: p.Y, At: m.now()})
}
