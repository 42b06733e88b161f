package renderer

import (
	"github.com/Carmen-Shannon/oxy-backdrop/common"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithFog sets the initial fog.
//
// Parameters:
//   - f: the fog color and density
//
// Returns:
//   - RendererBuilderOption: a function that applies the fog option to a renderer
func WithFog(f Fog) RendererBuilderOption {
	return func(r *renderer) {
		r.fog = f
	}
}

// WithBackground sets the clear color.
//
// Parameters:
//   - c: the background color
//
// Returns:
//   - RendererBuilderOption: a function that applies the background option to a renderer
func WithBackground(c common.Hex) RendererBuilderOption {
	return func(r *renderer) {
		r.background = c
	}
}

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingPresentMode = &mode
	}
}
