// Package theme provides color themes for the TUI.
package theme

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// DefaultName is used when no theme, or an unknown one, is configured.
const DefaultName = "mocha"

//go:embed embedded/*.toml
var embeddedThemes embed.FS

// Theme holds all colors for a TUI theme.
type Theme struct {
	Name        string `toml:"name"`
	Bg          string `toml:"bg"`
	BgHighlight string `toml:"bg_highlight"` // header row
	BgSelection string `toml:"bg_selection"` // cursor row
	Fg          string `toml:"fg"`
	FgMuted     string `toml:"fg_muted"` // disabled slots, hints
	Accent      string `toml:"accent"`
	On          string `toml:"on"`
	Off         string `toml:"off"`
	Strength    string `toml:"strength"`
	Warning     string `toml:"warning"` // errors, active drag

	// Popup overrides. Empty values fall back to the base colors.
	BaseBg      string `toml:"base_bg"`
	MenuBorder  string `toml:"menu_border"`
	TextPrimary string `toml:"text_primary"`
	TextMuted   string `toml:"text_muted"`
	Highlight   string `toml:"highlight"`
}

// MenuPalette provides the popup colors derived from the theme.
type MenuPalette struct {
	BaseBg      string
	MenuBorder  string
	TextPrimary string
	TextMuted   string
	Highlight   string
}

// Load returns the embedded theme called name, case-insensitively.
// Unknown names load DefaultName.
func Load(name string) (*Theme, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if !IsAvailable(name) {
		name = DefaultName
	}
	return parse(name)
}

func parse(name string) (*Theme, error) {
	data, err := embeddedThemes.ReadFile(path.Join("embedded", name+".toml"))
	if err != nil {
		return nil, fmt.Errorf("loading theme %q: %w", name, err)
	}
	var t Theme
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing theme %q: %w", name, err)
	}
	if t.Name == "" {
		t.Name = name
	}
	if t.Strength == "" {
		t.Strength = t.Accent
	}
	m := t.Menu()
	t.BaseBg, t.MenuBorder, t.TextPrimary, t.TextMuted, t.Highlight =
		m.BaseBg, m.MenuBorder, m.TextPrimary, m.TextMuted, m.Highlight
	return &t, nil
}

// Menu returns the popup palette, falling back to base theme colors.
func (t *Theme) Menu() MenuPalette {
	return MenuPalette{
		BaseBg:      coalesce(t.BaseBg, t.BgHighlight, t.Bg),
		MenuBorder:  coalesce(t.MenuBorder, t.Accent),
		TextPrimary: coalesce(t.TextPrimary, t.Fg),
		TextMuted:   coalesce(t.TextMuted, t.FgMuted),
		Highlight:   coalesce(t.Highlight, t.BgSelection, t.Accent),
	}
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// available lists the embedded themes from darkest to lightest background.
var available = sync.OnceValue(func() []string {
	files, _ := fs.Glob(embeddedThemes, "embedded/*.toml")
	type entry struct {
		name string
		lum  float64
	}
	entries := make([]entry, 0, len(files))
	for _, f := range files {
		name := strings.TrimSuffix(path.Base(f), ".toml")
		t, err := parse(name)
		if err != nil {
			continue
		}
		entries = append(entries, entry{name, relativeLuminance(t.Bg)})
	}
	slices.SortFunc(entries, func(a, b entry) int {
		switch {
		case a.lum < b.lum:
			return -1
		case a.lum > b.lum:
			return 1
		}
		return strings.Compare(a.name, b.name)
	})
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names
})

// Available returns the embedded theme names, dark themes first.
func Available() []string {
	return slices.Clone(available())
}

// IsAvailable reports whether a theme name is available.
func IsAvailable(name string) bool {
	return slices.Contains(available(), strings.ToLower(name))
}
