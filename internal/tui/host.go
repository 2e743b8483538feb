package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/javiermolinar/lorastack/internal/interact"
)

// popupKind identifies the open popup.
type popupKind int

const (
	popupNone popupKind = iota
	popupEditor
	popupMenu
	popupContext
)

func (k popupKind) String() string {
	switch k {
	case popupEditor:
		return "editor"
	case popupMenu:
		return "menu"
	case popupContext:
		return "context"
	default:
		return "none"
	}
}

// popupHost implements interact.Host with terminal popups. At most one popup
// is open at a time; opening a new one cancels the previous one.
type popupHost struct {
	kind popupKind

	// Numeric editor
	input     textinput.Model
	onConfirm func(float64)
	onCancel  func()

	// Selection menu; path holds the indexes of the opened folders.
	entries  []interact.MenuEntry
	path     []int
	cursor   int
	onSelect func(string)

	// Context menu
	items []interact.MenuItem
}

var _ interact.Host = (*popupHost)(nil)

func newPopupHost(styles *Styles) *popupHost {
	ti := textinput.New()
	ti.Placeholder = "1.00"
	ti.CharLimit = 8
	ti.Width = 8
	ti.Prompt = "> "
	if styles != nil {
		ti.PromptStyle = styles.MenuTextStyle
		ti.TextStyle = styles.MenuTextStyle
		ti.PlaceholderStyle = styles.MenuMutedStyle
		ti.Cursor.Style = styles.MenuCursorStyle
	}
	return &popupHost{input: ti}
}

// OpenNumericEditor opens the strength editor seeded with initial.
func (h *popupHost) OpenNumericEditor(initial float64, onConfirm func(float64), onCancel func()) {
	h.dismiss()
	h.kind = popupEditor
	h.onConfirm = onConfirm
	h.onCancel = onCancel
	h.input.SetValue(strconv.FormatFloat(initial, 'f', 2, 64))
	h.input.CursorEnd()
	h.input.Focus()
	LogPopup(h.kind, "open")
}

// OpenSelectionMenu opens the model selection menu.
func (h *popupHost) OpenSelectionMenu(entries []interact.MenuEntry, onSelect func(string)) {
	h.dismiss()
	h.kind = popupMenu
	h.entries = entries
	h.path = nil
	h.cursor = 0
	h.onSelect = onSelect
	LogPopup(h.kind, "open")
}

// OpenContextMenu opens the structural slot menu.
func (h *popupHost) OpenContextMenu(items []interact.MenuItem) {
	h.dismiss()
	h.kind = popupContext
	h.items = items
	h.cursor = 0
	LogPopup(h.kind, "open")
}

// Open reports whether a popup is visible.
func (h *popupHost) Open() bool {
	return h.kind != popupNone
}

// dismiss closes the current popup. An open editor is cancelled.
func (h *popupHost) dismiss() {
	if h.kind == popupEditor && h.onCancel != nil {
		h.onCancel()
	}
	h.close()
}

// close hides the popup without invoking any callback.
func (h *popupHost) close() {
	if h.kind != popupNone {
		LogPopup(h.kind, "close")
	}
	h.kind = popupNone
	h.input.Blur()
	h.onConfirm = nil
	h.onCancel = nil
	h.entries = nil
	h.path = nil
	h.cursor = 0
	h.onSelect = nil
	h.items = nil
}

// visible returns the menu entries of the innermost open folder.
func (h *popupHost) visible() []interact.MenuEntry {
	entries := h.entries
	for _, i := range h.path {
		if i < 0 || i >= len(entries) {
			return nil
		}
		entries = entries[i].Children
	}
	return entries
}

// itemCount returns the number of rows in the open menu.
func (h *popupHost) itemCount() int {
	switch h.kind {
	case popupMenu:
		return len(h.visible())
	case popupContext:
		return len(h.items)
	}
	return 0
}

func (h *popupHost) moveCursor(delta int) {
	n := h.itemCount()
	if n == 0 {
		return
	}
	h.cursor = (h.cursor + delta + n) % n
}

// activate selects the row under the cursor: it opens a folder, picks a model
// or runs a context action.
func (h *popupHost) activate() {
	switch h.kind {
	case popupMenu:
		entries := h.visible()
		if h.cursor >= len(entries) {
			return
		}
		e := entries[h.cursor]
		if e.IsFolder() {
			h.path = append(h.path, h.cursor)
			h.cursor = 0
			return
		}
		if e.Disabled {
			return
		}
		onSelect := h.onSelect
		h.close()
		if onSelect != nil {
			onSelect(e.Value)
		}
	case popupContext:
		if h.cursor >= len(h.items) {
			return
		}
		item := h.items[h.cursor]
		h.close()
		if item.OnInvoke != nil {
			item.OnInvoke()
		}
	}
}

// back leaves the innermost folder, or closes the menu at top level.
func (h *popupHost) back() {
	if h.kind == popupMenu && len(h.path) > 0 {
		h.cursor = h.path[len(h.path)-1]
		h.path = h.path[:len(h.path)-1]
		return
	}
	h.dismiss()
}
