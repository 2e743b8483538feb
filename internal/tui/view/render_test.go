package view

import "testing"

type stubOverlay struct {
	calls int
}

func (s *stubOverlay) Render(base string, width, height int, content string) string {
	s.calls++
	return base + "|" + content
}

func TestRenderPlaceholderWithoutSize(t *testing.T) {
	got := Render(ViewState{BaseContent: "x", EmptyPlaceholder: "wait"})
	if got != "wait" {
		t.Fatalf("Render = %q, want placeholder", got)
	}
	if got := Render(ViewState{}); got != "Loading..." {
		t.Fatalf("Render = %q, want default placeholder", got)
	}
}

func TestRenderPopupUsesOverlay(t *testing.T) {
	o := &stubOverlay{}
	state := ViewState{Width: 10, Height: 2, BaseContent: "base", PopupContent: "menu", ShowPopup: true, Overlay: o}
	if got := Render(state); got != "base|menu" {
		t.Fatalf("Render = %q", got)
	}

	state.ShowPopup = false
	if got := Render(state); got != "base" {
		t.Fatalf("Render without popup = %q", got)
	}
	if o.calls != 1 {
		t.Fatalf("overlay calls = %d, want 1", o.calls)
	}
}
