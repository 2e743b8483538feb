package interact

import (
	"strings"

	"github.com/javiermolinar/lorastack/internal/slot"
)

// NoneLabel is the label of the "no model" entry offered first in every menu.
const NoneLabel = "None"

// IsPlaceholder reports whether name is a status placeholder of the name
// source, such as "(login required)", rather than a selectable model.
func IsPlaceholder(name string) bool {
	name = strings.TrimSpace(name)
	return len(name) >= 2 && strings.HasPrefix(name, "(") && strings.HasSuffix(name, ")")
}

// BuildMenu groups names into a selection menu. The "none" entry comes first;
// names containing a path separator are nested under one folder per path
// segment; other names are listed at top level. First-appearance order is kept.
func BuildMenu(names []string) []MenuEntry {
	root := &menuNode{}
	for _, name := range names {
		if slot.IsNone(name) {
			continue
		}
		if IsPlaceholder(name) {
			root.entries = append(root.entries, &menuNode{label: name, value: name, disabled: true})
			continue
		}
		parts := splitPath(name)
		node := root
		for _, dir := range parts[:len(parts)-1] {
			node = node.folder(dir)
		}
		node.entries = append(node.entries, &menuNode{label: parts[len(parts)-1], value: name})
	}

	entries := []MenuEntry{{Label: NoneLabel, Value: slot.NoneModel}}
	return append(entries, root.build()...)
}

// FindEntry returns the leaf entry with the given value.
func FindEntry(entries []MenuEntry, value string) (MenuEntry, bool) {
	for _, e := range entries {
		if e.IsFolder() {
			if found, ok := FindEntry(e.Children, value); ok {
				return found, true
			}
			continue
		}
		if e.Value == value {
			return e, true
		}
	}
	return MenuEntry{}, false
}

type menuNode struct {
	label    string
	value    string
	disabled bool
	isFolder bool
	entries  []*menuNode
}

func (n *menuNode) folder(label string) *menuNode {
	for _, e := range n.entries {
		if e.isFolder && e.label == label {
			return e
		}
	}
	f := &menuNode{label: label, isFolder: true}
	n.entries = append(n.entries, f)
	return f
}

func (n *menuNode) build() []MenuEntry {
	out := make([]MenuEntry, 0, len(n.entries))
	for _, e := range n.entries {
		if e.isFolder {
			out = append(out, MenuEntry{Label: e.label, Children: e.build()})
			continue
		}
		out = append(out, MenuEntry{Label: e.label, Value: e.value, Disabled: e.disabled})
	}
	return out
}

// splitPath splits on forward and back slashes, dropping empty segments.
func splitPath(name string) []string {
	parts := strings.FieldsFunc(name, func(r rune) bool { return r == '/' || r == '\\' })
	if len(parts) == 0 {
		return []string{name}
	}
	return parts
}
