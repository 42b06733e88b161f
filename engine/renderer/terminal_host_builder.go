package renderer

import "time"

// TerminalHostOption is a functional option applied to a TerminalHost during NewTerminalHost.
type TerminalHostOption func(*TerminalHost)

// WithFrameInterval sets the time between update callbacks. Non-positive values are ignored.
//
// Parameters:
//   - d: the frame interval
//
// Returns:
//   - TerminalHostOption: a function that applies the interval to the host
func WithFrameInterval(d time.Duration) TerminalHostOption {
	return func(h *TerminalHost) {
		if d > 0 {
			h.frameInterval = d
		}
	}
}

// WithHoverTarget forwards pointer cells to the overlay so its cards tilt under the pointer.
//
// Parameters:
//   - hud: the overlay
//
// Returns:
//   - TerminalHostOption: a function that attaches the overlay to the host
func WithHoverTarget(hud *HUD) TerminalHostOption {
	return func(h *TerminalHost) {
		h.hover = hud
	}
}
