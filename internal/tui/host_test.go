package tui

import (
	"testing"

	"github.com/javiermolinar/lorastack/internal/interact"
)

func TestPopupHostDismissCancelsEditor(t *testing.T) {
	h := newPopupHost(nil)
	cancelled := 0
	h.OpenNumericEditor(0.75, func(float64) { t.Fatal("unexpected confirm") }, func() { cancelled++ })

	if h.kind != popupEditor || h.input.Value() != "0.75" {
		t.Fatalf("editor = %s %q", h.kind, h.input.Value())
	}

	// Opening another popup replaces the editor.
	h.OpenContextMenu([]interact.MenuItem{{Label: "Remove"}})
	if cancelled != 1 {
		t.Fatalf("cancel calls = %d, want 1", cancelled)
	}
	if h.kind != popupContext {
		t.Fatalf("kind = %s, want context", h.kind)
	}

	h.dismiss()
	if h.Open() || cancelled != 1 {
		t.Fatalf("dismiss: open = %v, cancel calls = %d", h.Open(), cancelled)
	}
}

func TestPopupHostMenuNavigation(t *testing.T) {
	h := newPopupHost(nil)
	var picked []string
	entries := interact.BuildMenu([]string{"(no models found)", "chars/alice", "chars/bob"})
	h.OpenSelectionMenu(entries, func(name string) { picked = append(picked, name) })

	if h.itemCount() != 3 {
		t.Fatalf("itemCount = %d, want 3", h.itemCount())
	}

	// The placeholder cannot be selected.
	h.cursor = 1
	h.activate()
	if !h.Open() || len(picked) != 0 {
		t.Fatalf("placeholder selected: open = %v picked = %v", h.Open(), picked)
	}

	h.moveCursor(1)
	h.activate()
	if len(h.path) != 1 || h.itemCount() != 2 {
		t.Fatalf("folder: path = %v items = %d", h.path, h.itemCount())
	}

	h.moveCursor(-1)
	if h.cursor != 1 {
		t.Fatalf("cursor = %d, want wrap to 1", h.cursor)
	}
	h.activate()
	if h.Open() {
		t.Fatal("menu should close after a pick")
	}
	if len(picked) != 1 || picked[0] != "chars/bob" {
		t.Fatalf("picked = %v", picked)
	}
}

func TestPopupHostContextInvokesAfterClose(t *testing.T) {
	h := newPopupHost(nil)
	var openDuringInvoke bool
	h.OpenContextMenu([]interact.MenuItem{{Label: "Remove", OnInvoke: func() { openDuringInvoke = h.Open() }}})

	h.activate()
	if openDuringInvoke {
		t.Fatal("menu should be closed before the action runs")
	}
}

func TestPopupHostBackClosesAtTopLevel(t *testing.T) {
	h := newPopupHost(nil)
	h.OpenSelectionMenu(interact.BuildMenu([]string{"a"}), func(string) {})
	h.back()
	if h.Open() {
		t.Fatal("back at top level should close the menu")
	}
}

func TestPopupKindString(t *testing.T) {
	tests := map[popupKind]string{
		popupNone:    "none",
		popupEditor:  "editor",
		popupMenu:    "menu",
		popupContext: "context",
	}
	for kind, want := range tests {
		if got := kind.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", kind, got, want)
		}
	}
}
