package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/lorastack/internal/interact"
	"github.com/javiermolinar/lorastack/internal/layout"
	"github.com/javiermolinar/lorastack/internal/tui/view"
)

func mouse(action tea.MouseAction, button tea.MouseButton, x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: button}
}

func press(x, y int) tea.MouseMsg {
	return mouse(tea.MouseActionPress, tea.MouseButtonLeft, x, y)
}

func release(x, y int) tea.MouseMsg {
	return mouse(tea.MouseActionRelease, tea.MouseButtonLeft, x, y)
}

func motion(x, y int) tea.MouseMsg {
	return mouse(tea.MouseActionMotion, tea.MouseButtonLeft, x, y)
}

// slotLine returns the terminal line of slot i.
func slotLine(m Model, i int) int {
	return int(m.hit.Geometry.SlotRow(i).Top)
}

func zoneX(t *testing.T, m Model, zone layout.Zone) int {
	t.Helper()
	span, ok := m.hit.Engine.Compute(float64(m.width), m.store.Mode()).Get(zone)
	if !ok {
		t.Fatalf("zone %s not in layout", zone)
	}
	return int(span.Start)
}

func TestPointerEventConversion(t *testing.T) {
	tests := []struct {
		name   string
		msg    tea.MouseMsg
		ok     bool
		kind   interact.PointerKind
		button interact.Button
	}{
		{name: "left press", msg: press(3, 4), ok: true, kind: interact.PointerPress, button: interact.ButtonLeft},
		{name: "right press", msg: mouse(tea.MouseActionPress, tea.MouseButtonRight, 3, 4), ok: true, kind: interact.PointerPress, button: interact.ButtonRight},
		{name: "drag motion", msg: motion(5, 4), ok: true, kind: interact.PointerMove, button: interact.ButtonLeft},
		{name: "release without button", msg: mouse(tea.MouseActionRelease, tea.MouseButtonNone, 5, 4), ok: true, kind: interact.PointerRelease},
		{name: "press without button", msg: mouse(tea.MouseActionPress, tea.MouseButtonNone, 5, 4), ok: false},
		{name: "middle button", msg: mouse(tea.MouseActionPress, tea.MouseButtonMiddle, 5, 4), ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok := pointerEvent(tt.msg, testNow)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if ev.Kind != tt.kind || ev.Button != tt.button {
				t.Errorf("event = %s/%d, want %s/%d", ev.Kind, ev.Button, tt.kind, tt.button)
			}
			if ev.X != float64(tt.msg.X) || ev.Y != float64(tt.msg.Y) || !ev.At.Equal(testNow) {
				t.Errorf("event position/time = %+v", ev)
			}
		})
	}
}

func TestMouseClickTogglesSlot(t *testing.T) {
	m := newTestModel(t, nil)
	x := zoneX(t, m, layout.ZoneToggle) + 1
	y := slotLine(m, 0)

	m = send(t, m, press(x, y), release(x, y))
	if !record(t, m, 0).Enabled {
		t.Fatal("click on the toggle should enable the slot")
	}
}

func TestMousePressMovesCursor(t *testing.T) {
	m := withSlots(t, newTestModel(t, nil), 1)
	x := zoneX(t, m, layout.ZoneName) + 2
	elsewhere := zoneX(t, m, layout.ZoneToggle) + 1

	m = send(t, m, press(x, slotLine(m, 1)), release(elsewhere, slotLine(m, 1)))
	if m.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", m.cursor)
	}
	if m.host.Open() {
		t.Fatal("release outside the name zone should not open the menu")
	}
}

func TestMouseDragAdjustsValue(t *testing.T) {
	m := newTestModel(t, nil)
	x := zoneX(t, m, layout.ZoneStrengthValue) + 2
	y := slotLine(m, 0)

	m = send(t, m, press(x, y), motion(x+1, y))
	if _, _, dragging := m.ctrl.Dragging(); dragging {
		t.Fatal("motion within the threshold should not start a drag")
	}

	m = send(t, m, motion(x+3, y))
	id, zone, dragging := m.ctrl.Dragging()
	if !dragging || id != record(t, m, 0).ID || zone != layout.ZoneStrengthValue {
		t.Fatalf("Dragging() = %d, %s, %v", id, zone, dragging)
	}
	if got := record(t, m, 0).Strength; got != 1.03 {
		t.Fatalf("strength = %v, want 1.03", got)
	}

	m = send(t, m, release(x+3, y))
	if _, _, dragging := m.ctrl.Dragging(); dragging {
		t.Fatal("release should end the drag")
	}
}

func TestMouseDoubleClickOpensEditor(t *testing.T) {
	m := newTestModel(t, nil)
	x := zoneX(t, m, layout.ZoneStrengthValue) + 1
	y := slotLine(m, 0)

	m = send(t, m, press(x, y), release(x, y), press(x, y))
	if m.host.kind != popupEditor {
		t.Fatalf("popup = %s, want editor", m.host.kind)
	}
	if m.lastZone != layout.ZoneStrengthValue {
		t.Errorf("lastZone = %s", m.lastZone)
	}
}

func TestMouseRightClickOpensContextMenu(t *testing.T) {
	m := newTestModel(t, nil)
	x := zoneX(t, m, layout.ZoneName) + 1

	m = send(t, m, mouse(tea.MouseActionPress, tea.MouseButtonRight, x, slotLine(m, 0)))
	if m.host.kind != popupContext {
		t.Fatalf("popup = %s, want context", m.host.kind)
	}
}

func TestMouseSelectsMenuRow(t *testing.T) {
	m := newTestModel(t, nil)
	m = send(t, m, key("a"))

	p := m.popupLayout()
	if p.width == 0 || p.height == 0 {
		t.Fatal("popup has no size")
	}
	// Row 1 is styleA.
	m = send(t, m, press(p.left+2, p.top+view.PopupItemOffset+1))
	if m.host.Open() {
		t.Fatal("menu should close after a selection")
	}
	if m.store.Len() != 2 || record(t, m, 1).Model != "styleA" {
		t.Fatalf("slots = %+v", m.store.Snapshot())
	}
}

func TestMousePressOutsidePopupDismisses(t *testing.T) {
	m := newTestModel(t, nil)
	m = send(t, m, key("e"))
	if m.host.kind != popupEditor {
		t.Fatalf("popup = %s, want editor", m.host.kind)
	}

	m = send(t, m, press(0, 0))
	if m.host.Open() || m.ctrl.Editing() {
		t.Fatal("press outside should cancel the editor")
	}
}

func TestMouseWheelMovesCursor(t *testing.T) {
	m := withSlots(t, newTestModel(t, nil), 1)

	m = send(t, m, mouse(tea.MouseActionPress, tea.MouseButtonWheelDown, 0, 0))
	if m.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", m.cursor)
	}
	m = send(t, m, mouse(tea.MouseActionPress, tea.MouseButtonWheelUp, 0, 0))
	if m.cursor != 0 {
		t.Fatalf("cursor = %d, want 0", m.cursor)
	}
}
