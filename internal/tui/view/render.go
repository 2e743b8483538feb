// Package view provides view composition helpers for the TUI.
package view

// OverlayRenderer renders popups on top of base content.
type OverlayRenderer interface {
	Render(base string, width, height int, content string) string
}

// ViewState contains pre-rendered content and overlay metadata.
type ViewState struct {
	Width            int
	Height           int
	BaseContent      string
	PopupContent     string
	ShowPopup        bool
	Overlay          OverlayRenderer
	EmptyPlaceholder string
}

// Render composes the final view output.
func Render(state ViewState) string {
	if state.Width == 0 || state.Height == 0 {
		if state.EmptyPlaceholder != "" {
			return state.EmptyPlaceholder
		}
		return "Loading..."
	}

	if state.ShowPopup && state.Overlay != nil && state.PopupContent != "" {
		return state.Overlay.Render(state.BaseContent, state.Width, state.Height, state.PopupContent)
	}
	return state.BaseContent
}
