package engine

import (
	"github.com/Carmen-Shannon/oxy-backdrop/engine/audio"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/profiler"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/scheduler"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfiler replaces the default profiler.
//
// Parameters:
//   - p: the profiler to tick each frame
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		if p != nil {
			e.profiler = p
		}
	}
}

// WithClock sets the time source of the motion model and the scheduler. Defaults to a
// system clock whose origin is engine construction.
//
// Parameters:
//   - c: the clock
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithClock(c scheduler.Clock) EngineBuilderOption {
	return func(e *engine) {
		e.clock = c
	}
}

// WithOverlay attaches the element tree whose counters and glitch targets the engine drives.
// Without an overlay no counters or glitch pulse run.
//
// Parameters:
//   - o: the overlay
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithOverlay(o Overlay) EngineBuilderOption {
	return func(e *engine) {
		e.overlay = o
	}
}

// WithCue sets the tone played when a counter completes, replacing the one the preset's
// audio settings would create.
//
// Parameters:
//   - c: the audio cue
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithCue(c *audio.Cue) EngineBuilderOption {
	return func(e *engine) {
		e.cue = c
	}
}
