// Package interact turns raw pointer and keyboard events into slot store
// mutations.
package interact

import "time"

// Button identifies a pointer button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
)

// PointerKind is the phase of a pointer event.
type PointerKind int

const (
	PointerPress PointerKind = iota
	PointerMove
	PointerRelease
)

func (k PointerKind) String() string {
	switch k {
	case PointerPress:
		return "press"
	case PointerMove:
		return "move"
	default:
		return "release"
	}
}

// PointerEvent is a pointer event in host coordinates. A zero At means "now".
type PointerEvent struct {
	Kind   PointerKind
	Button Button
	X      float64
	Y      float64
	At     time.Time
}

// Key is a keyboard key the controller understands.
type Key int

const (
	KeyEnter Key = iota
	KeyEscape
)

// KeyEvent is a key press. Text carries the numeric editor's current input
// for KeyEnter.
type KeyEvent struct {
	Key  Key
	Text string
}

// MenuEntry is one entry of the model selection menu. Entries with Children
// are folders; Value is empty for folders.
type MenuEntry struct {
	Label    string
	Value    string
	Disabled bool
	Children []MenuEntry
}

// IsFolder reports whether the entry opens a submenu.
func (e MenuEntry) IsFolder() bool {
	return len(e.Children) > 0
}

// MenuItem is one entry of the structural context menu.
type MenuItem struct {
	Label    string
	OnInvoke func()
}

// NumericEditor opens a precise numeric editor seeded with initial.
type NumericEditor interface {
	OpenNumericEditor(initial float64, onConfirm func(float64), onCancel func())
}

// SelectionMenu opens the model selection menu.
type SelectionMenu interface {
	OpenSelectionMenu(entries []MenuEntry, onSelect func(name string))
}

// ContextMenu opens the structural context menu of a slot.
type ContextMenu interface {
	OpenContextMenu(items []MenuItem)
}

// Host bundles the UI collaborators the controller drives.
type Host interface {
	NumericEditor
	SelectionMenu
	ContextMenu
}

// NameSource supplies the selectable model names. It is read once per menu
// opening and the returned slice is never retained.
type NameSource interface {
	ModelNames() []string
}

// NameSourceFunc adapts a function to NameSource.
type NameSourceFunc func() []string

// ModelNames calls f.
func (f NameSourceFunc) ModelNames() []string {
	return f()
}
