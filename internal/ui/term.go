package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color definitions for consistent styling across the UI.
var (
	// Enabled slots: green
	colorOn = color.New(color.FgGreen)

	// Disabled slots and "none": dim/grey
	colorOff = color.New(color.FgWhite, color.Faint)

	// Strength values: yellow to make them pop
	colorStrength = color.New(color.FgYellow)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Model names: bold cyan
	colorModel = color.New(color.FgCyan, color.Bold)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)

	// Warnings
	colorWarn = color.New(color.FgRed)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}

// formatOn renders an enabled toggle.
func formatOn(s string) string {
	return colorOn.Sprint(s)
}

// formatOff renders a disabled toggle.
func formatOff(s string) string {
	return colorOff.Sprint(s)
}

// formatStrength renders a strength value.
func formatStrength(s string) string {
	return colorStrength.Sprint(s)
}

// formatHeader renders a section header.
func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

// formatModel renders a model name.
func formatModel(s string) string {
	return colorModel.Sprint(s)
}

// formatMuted renders secondary text.
func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}

// formatWarn renders a warning.
func formatWarn(s string) string {
	return colorWarn.Sprint(s)
}
