package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/lorastack/internal/interact"
	"github.com/javiermolinar/lorastack/internal/layout"
	"github.com/javiermolinar/lorastack/internal/tui/view"
)

// handleMouseMsg forwards mouse input to the controller, or to the open popup.
func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	LogMouse(msg)

	if m.host.Open() {
		m.handlePopupMouse(msg)
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case tea.MouseButtonWheelDown:
		if m.cursor < m.store.Len() {
			m.cursor++
		}
		return m, nil
	}

	ev, ok := pointerEvent(msg, m.now())
	if !ok {
		return m, nil
	}
	if ev.Kind == interact.PointerPress {
		m.moveCursorTo(ev)
	}
	m.ctrl.Pointer(ev)
	m.clampCursor()
	return m, nil
}

// pointerEvent converts a terminal mouse event. Wheel events and presses of
// other buttons have no pointer equivalent.
func pointerEvent(msg tea.MouseMsg, at time.Time) (interact.PointerEvent, bool) {
	ev := interact.PointerEvent{X: float64(msg.X), Y: float64(msg.Y), At: at}

	switch msg.Action {
	case tea.MouseActionPress:
		ev.Kind = interact.PointerPress
	case tea.MouseActionMotion:
		ev.Kind = interact.PointerMove
	case tea.MouseActionRelease:
		ev.Kind = interact.PointerRelease
	default:
		return ev, false
	}

	switch msg.Button {
	case tea.MouseButtonLeft:
		ev.Button = interact.ButtonLeft
	case tea.MouseButtonRight:
		ev.Button = interact.ButtonRight
	case tea.MouseButtonNone:
		// Some terminals report releases and motion without a button.
		if ev.Kind == interact.PointerPress {
			return ev, false
		}
	default:
		return ev, false
	}
	return ev, true
}

// moveCursorTo puts the cursor on the slot or add row under a press.
func (m *Model) moveCursorTo(ev interact.PointerEvent) {
	h, ok := m.hit.Hit(layout.Point{X: ev.X, Y: ev.Y}, float64(m.width), m.store.Mode(), m.store.Len())
	if !ok {
		return
	}
	m.lastZone = h.Zone
	row := h.Row
	switch row.Kind {
	case layout.RowSlot:
		m.cursor = row.Index
	case layout.RowAdd:
		m.cursor = m.store.Len()
	}
}

// handlePopupMouse selects menu rows under a left press. A press outside the
// popup dismisses it.
func (m *Model) handlePopupMouse(msg tea.MouseMsg) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.host.moveCursor(-1)
		return
	case tea.MouseButtonWheelDown:
		m.host.moveCursor(1)
		return
	}
	if msg.Action != tea.MouseActionPress {
		return
	}

	p := m.popupLayout()
	inside := msg.X >= p.left && msg.X < p.left+p.width && msg.Y >= p.top && msg.Y < p.top+p.height
	if !inside {
		m.host.dismiss()
		return
	}
	if m.host.kind == popupEditor || msg.Button != tea.MouseButtonLeft {
		return
	}

	line := msg.Y - p.top - view.PopupItemOffset
	idx := p.start + line
	if line < 0 || idx >= p.end {
		return
	}
	m.host.cursor = idx
	m.host.activate()
	m.clampCursor()
}
