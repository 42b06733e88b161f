package preset

import (
	"math"

	"github.com/Carmen-Shannon/oxy-backdrop/engine/counter"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/glitch"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/motion"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/sampler"
)

// MotionConfig returns the motion constants described by the preset.
func (p *Preset) MotionConfig() motion.Config {
	return motion.Config{
		WaveFrequency:          p.Particles.Wave.Frequency,
		WaveAmplitude:          p.Particles.Wave.Amplitude,
		FloatAmplitude:         p.Shapes.FloatAmplitude,
		CloudSpin:              p.Particles.Spin,
		Drift:                  p.Shapes.Drift,
		DriftRate:              p.Shapes.DriftRate,
		DriftStep:              p.Shapes.DriftStep,
		Anchored:               p.Anchored,
		DriftRadius:            p.Shapes.DriftRadius,
		AnchoredWaveAmplitude:  p.Particles.Wave.AnchoredAmplitude,
		AnchoredFloatAmplitude: p.Shapes.AnchoredFloatAmplitude,
	}
}

// Distribution returns the sampler distribution of the particle cloud.
func (p *Preset) Distribution() sampler.Distribution {
	d := p.Particles.Distribution
	if d.Kind == "shell" {
		return sampler.Shell{Inner: d.Inner, Depth: d.Depth}
	}
	return sampler.Cube{Half: d.Half}
}

// Palette returns the sampler palette of the particle cloud.
func (p *Preset) Palette() sampler.Palette {
	return sampler.Palette{
		Primary:   p.Particles.Palette.Primary,
		Secondary: p.Particles.Palette.Secondary,
		Mix:       p.Particles.Palette.Mix,
	}
}

// ShapeSpecs returns one placement spec per configured shape.
func (p *Preset) ShapeSpecs() []sampler.ShapeSpec {
	specs := make([]sampler.ShapeSpec, len(p.Shapes.Items))
	for i, s := range p.Shapes.Items {
		specs[i] = sampler.ShapeSpec{
			Kind:     s.Kind,
			Color:    s.Color,
			Opacity:  s.Opacity,
			Position: s.Position,
		}
	}
	return specs
}

// Placement returns the bounds shapes are scattered within.
func (p *Preset) Placement() sampler.Placement {
	return sampler.Placement{
		Spread:        p.Shapes.Spread,
		Depth:         p.Shapes.Depth,
		DepthOffset:   p.Shapes.DepthOffset,
		RotationSpeed: sampler.Range{Min: p.Shapes.RotationSpeed.Min, Max: p.Shapes.RotationSpeed.Max},
		FloatSpeed:    sampler.Range{Min: p.Shapes.FloatSpeed.Min, Max: p.Shapes.FloatSpeed.Max},
	}
}

// FovRadians returns the camera field of view in radians.
func (p *Preset) FovRadians() float32 {
	return p.Camera.Fov * math.Pi / 180
}

// CounterOptions returns the counter options described by the preset. Parse has already
// validated the strategy, so an unknown one cannot reach here.
func (p *Preset) CounterOptions() []counter.CounterOption {
	strategy, _ := counter.ParseStrategy(p.Counters.Strategy)
	return []counter.CounterOption{
		counter.WithStrategy(strategy),
		counter.WithDuration(p.Counters.Duration),
		counter.WithInterval(p.Counters.Interval),
		counter.WithSteps(p.Counters.Steps),
	}
}

// GlitchOptions returns the glitch pulse options described by the preset.
func (p *Preset) GlitchOptions() []glitch.GlitchOption {
	return []glitch.GlitchOption{
		glitch.WithInterval(p.Glitch.Interval),
		glitch.WithHold(p.Glitch.Hold),
	}
}
