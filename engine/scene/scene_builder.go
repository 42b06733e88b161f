package scene

import (
	"math/rand"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithName overrides the scene name taken from the preset.
//
// Parameters:
//   - name: the scene name
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithName(name string) SceneBuilderOption {
	return func(s *scene) {
		s.name = name
	}
}

// WithRand sets the random source used for sampling. It takes precedence over the preset seed.
//
// Parameters:
//   - rng: the random source
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithRand(rng *rand.Rand) SceneBuilderOption {
	return func(s *scene) {
		s.rng = rng
	}
}

// WithComputeWorkers sets the number of worker goroutines used for the chunked point update.
// Defaults to runtime.NumCPU()-1. A value of 1 updates points inline on the frame goroutine.
//
// Parameters:
//   - n: the number of compute workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithComputeWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		s.computeWorkers = max(n, 1)
	}
}

// WithChunkSize sets how many points each parallel task updates. Clouds smaller than two chunks
// are updated inline.
//
// Parameters:
//   - n: points per chunk (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithChunkSize(n int) SceneBuilderOption {
	return func(s *scene) {
		s.chunkSize = max(n, 1)
	}
}

// WithViewport sets the initial viewport size.
//
// Parameters:
//   - width, height: the viewport size in pixels
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithViewport(width, height int) SceneBuilderOption {
	return func(s *scene) {
		if width > 0 && height > 0 {
			s.width, s.height = width, height
		}
	}
}
