package renderer

// TerminalBackendOption is a functional option applied to the terminal backend during NewTerminalBackend.
type TerminalBackendOption func(*terminalRendererBackendImpl)

// WithHUD draws the given overlay on top of every frame and keeps its layout in sync with the screen size.
//
// Parameters:
//   - h: the overlay
//
// Returns:
//   - TerminalBackendOption: a function that attaches the overlay to the backend
func WithHUD(h *HUD) TerminalBackendOption {
	return func(b *terminalRendererBackendImpl) {
		b.hud = h
	}
}
