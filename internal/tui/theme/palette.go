package theme

import (
	"math"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Palette holds precomputed colors derived from a Theme.
type Palette struct {
	Bg          lipgloss.Color
	BgHighlight lipgloss.Color
	BgSelection lipgloss.Color
	Fg          lipgloss.Color
	FgMuted     lipgloss.Color
	Accent      lipgloss.Color
	On          lipgloss.Color
	Off         lipgloss.Color
	Mixed       lipgloss.Color // Toggle-all control when some slots are enabled
	Strength    lipgloss.Color
	Warning     lipgloss.Color

	// DragBg marks the value being dragged.
	DragBg lipgloss.Color

	TextOnAccent    lipgloss.Color
	TextOnWarning   lipgloss.Color
	TextOnSelection lipgloss.Color

	Menu MenuColors
}

// MenuColors holds popup colors derived from a Theme.
type MenuColors struct {
	Bg          lipgloss.Color
	Border      lipgloss.AdaptiveColor
	Text        lipgloss.AdaptiveColor
	Muted       lipgloss.AdaptiveColor
	Highlight   lipgloss.AdaptiveColor
	ReverseText lipgloss.AdaptiveColor
}

// NewPalette derives a Palette from the provided Theme.
func NewPalette(t *Theme) *Palette {
	if t == nil {
		t, _ = Load(DefaultName)
	}

	isLight := isLightTheme(t.Bg)
	menu := t.Menu()
	menuBgHex := coalesce(menu.BaseBg, t.BgHighlight, t.Bg)
	menuTextHex := coalesce(menu.TextPrimary, t.Fg)

	return &Palette{
		Bg:          lipgloss.Color(t.Bg),
		BgHighlight: lipgloss.Color(t.BgHighlight),
		BgSelection: lipgloss.Color(t.BgSelection),
		Fg:          lipgloss.Color(t.Fg),
		FgMuted:     lipgloss.Color(t.FgMuted),
		Accent:      lipgloss.Color(t.Accent),
		On:          lipgloss.Color(t.On),
		Off:         lipgloss.Color(t.Off),
		Mixed:       lipgloss.Color(blendColors(t.On, t.Off, 0.5)),
		Strength:    lipgloss.Color(t.Strength),
		Warning:     lipgloss.Color(t.Warning),

		DragBg: lipgloss.Color(highlightBg(t.Warning, t.Bg, isLight)),

		TextOnAccent:    lipgloss.Color(chooseTextColor(t.Accent, t.Bg, t.Fg)),
		TextOnWarning:   lipgloss.Color(chooseTextColor(t.Warning, t.Bg, t.Fg)),
		TextOnSelection: lipgloss.Color(chooseTextColor(t.BgSelection, t.Bg, t.Fg)),

		Menu: MenuColors{
			Bg:          lipgloss.Color(menuBgHex),
			Border:      adaptiveColor(coalesce(menu.MenuBorder, t.Accent)),
			Text:        adaptiveColor(menuTextHex),
			Muted:       adaptiveColor(coalesce(menu.TextMuted, t.FgMuted)),
			Highlight:   adaptiveColor(coalesce(menu.Highlight, t.BgSelection, t.Accent)),
			ReverseText: reverseTextColor(menuBgHex, menuTextHex),
		},
	}
}

func isLightTheme(bg string) bool {
	return relativeLuminance(bg) > 0.55
}

// highlightBg returns a background tint of accent that keeps text readable.
func highlightBg(accent, bg string, isLight bool) string {
	if isLight {
		return blendColors(accent, bg, 0.75)
	}
	return darkenColor(accent)
}

// parseColor parses a "#rrggbb" theme color.
func parseColor(hex string) (colorful.Color, bool) {
	c, err := colorful.Hex(hex)
	return c, err == nil
}

// darkenColor halves each channel of hex, keeping a floor so the result stays
// visible on dark backgrounds.
func darkenColor(hex string) string {
	c, ok := parseColor(hex)
	if !ok {
		return hex
	}
	const factor = 0.5
	const floor = 40.0 / 255.0
	return colorful.Color{
		R: math.Max(c.R*factor, floor),
		G: math.Max(c.G*factor, floor),
		B: math.Max(c.B*factor, floor),
	}.Hex()
}

func adaptiveColor(hex string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{
		Dark:  hex,
		Light: hex,
	}
}

func reverseTextColor(darkBg, lightText string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{
		Dark:  darkBg,
		Light: lightText,
	}
}

func chooseTextColor(bg, lightText, darkText string) string {
	if contrastRatio(bg, lightText) >= contrastRatio(bg, darkText) {
		return lightText
	}
	return darkText
}

// contrastRatio is the WCAG contrast ratio of two colors.
func contrastRatio(a, b string) float64 {
	l1, l2 := relativeLuminance(a), relativeLuminance(b)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

// relativeLuminance is the WCAG relative luminance; unparsable colors count as black.
func relativeLuminance(hex string) float64 {
	c, ok := parseColor(hex)
	if !ok {
		return 0
	}
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// blendColors mixes a towards b in RGB space. A ratio of 0 yields a.
func blendColors(a, b string, ratio float64) string {
	ca, okA := parseColor(a)
	cb, okB := parseColor(b)
	if !okA || !okB {
		return a
	}
	ratio = math.Max(0, math.Min(1, ratio))
	return ca.BlendRgb(cb, ratio).Clamped().Hex()
}
