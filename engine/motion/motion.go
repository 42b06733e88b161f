// Package motion holds the per-frame motion model of the backdrop: the point cloud wave,
// the shape spin, float and drift. Every function here is a deterministic function of its
// inputs and the elapsed time; none of them read clocks, random sources or globals.
package motion

import (
	"math"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/model"
)

// PointCloud is a fixed-size set of colored points. Point i occupies [3i, 3i+3) in both slices.
// The slices are mutated in place every frame and never resized.
type PointCloud struct {
	Positions []float32
	Colors    []float32
	Rotation  [3]float32

	// base holds the creation-time Y of every point, captured by Anchor for the anchored wave.
	base []float32
}

// Len returns the number of points in the cloud.
func (c *PointCloud) Len() int {
	return len(c.Positions) / 3
}

// Anchor snapshots the current Y coordinates as the baseline of the anchored wave.
// Calling it again re-captures the baseline.
func (c *PointCloud) Anchor() {
	n := c.Len()
	if cap(c.base) < n {
		c.base = make([]float32, n)
	}
	c.base = c.base[:n]
	for i := range n {
		c.base[i] = c.Positions[i*3+1]
	}
}

// Anchored reports whether a baseline has been captured.
func (c *PointCloud) Anchored() bool {
	return len(c.base) > 0 && len(c.base) == c.Len()
}

// Base returns the baseline Y slice captured by Anchor, or nil.
func (c *PointCloud) Base() []float32 {
	return c.base
}

// Params are the per-shape motion parameters, assigned once at creation.
type Params struct {
	RotationSpeed [3]float32
	FloatSpeed    float64
	FloatPhase    float64
}

// Shape is one floating wireframe solid.
type Shape struct {
	Kind     model.Kind
	Position [3]float32
	Rotation [3]float32
	// Base is the creation-time position used by the anchored motion mode.
	Base   [3]float32
	Params Params

	Color   common.Hex
	Opacity float32
}

// Config carries the motion constants. The zero value is not useful; start from DefaultConfig.
type Config struct {
	// WaveFrequency (k) and WaveAmplitude (a) drive y += sin(t + x*k)*a on every point.
	WaveFrequency float64
	WaveAmplitude float64

	// FloatAmplitude scales the shape float term sin(t*floatSpeed + phase).
	FloatAmplitude float64

	// CloudSpin is added to the cloud rotation every frame.
	CloudSpin [3]float32

	// Drift enables the circular x/z drift of shapes.
	Drift     bool
	DriftRate float64
	DriftStep float64

	// Anchored switches from the incremental formulas to absolute ones around a captured baseline.
	Anchored bool
	// DriftRadius is the circle radius of the anchored drift.
	DriftRadius float64
	// AnchoredWaveAmplitude and AnchoredFloatAmplitude are the bounded oscillation heights of the anchored mode.
	AnchoredWaveAmplitude  float64
	AnchoredFloatAmplitude float64
}

// DefaultConfig returns the constants of the neural backdrop.
//
// Returns:
//   - Config: the default motion configuration
func DefaultConfig() Config {
	return Config{
		WaveFrequency:          0.05,
		WaveAmplitude:          0.02,
		FloatAmplitude:         0.02,
		CloudSpin:              [3]float32{0.0005, 0.001, 0},
		Drift:                  true,
		DriftRate:              0.1,
		DriftStep:              0.05,
		DriftRadius:            20,
		AnchoredWaveAmplitude:  1,
		AnchoredFloatAmplitude: 1,
	}
}

// AdvancePoints applies the incremental wave y += sin(t + x*k)*a to a flat position slice.
// Each point reads and writes only its own coordinates, so disjoint sub-slices aligned to
// multiples of 3 may be advanced independently with identical results.
//
// Parameters:
//   - pos: flat xyz positions, length a multiple of 3
//   - t: elapsed time in seconds
//   - k: wave frequency along x
//   - a: per-frame step amplitude
func AdvancePoints(pos []float32, t, k, a float64) {
	for i := 0; i+2 < len(pos); i += 3 {
		pos[i+1] += float32(math.Sin(t+float64(pos[i])*k) * a)
	}
}

// AnchorPoints sets y = base + sin(t + x*k)*a, with base holding one Y per point.
//
// Parameters:
//   - pos: flat xyz positions
//   - base: baseline Y per point, len(pos)/3 entries
//   - t: elapsed time in seconds
//   - k: wave frequency along x
//   - a: oscillation amplitude
func AnchorPoints(pos, base []float32, t, k, a float64) {
	for i := 0; i+2 < len(pos) && i/3 < len(base); i += 3 {
		pos[i+1] = base[i/3] + float32(math.Sin(t+float64(pos[i])*k)*a)
	}
}

// SpinCloud adds the per-frame cloud spin to the cloud rotation.
func SpinCloud(c *PointCloud, cfg Config) {
	for i := range 3 {
		c.Rotation[i] += cfg.CloudSpin[i]
	}
}

// AdvanceCloud spins the cloud and moves its points for time t.
//
// Parameters:
//   - c: the cloud to mutate
//   - t: elapsed time in seconds
//   - cfg: motion constants
func AdvanceCloud(c *PointCloud, t float64, cfg Config) {
	SpinCloud(c, cfg)
	AdvanceCloudPoints(c.Positions, c.base, t, cfg)
}

// AdvanceCloudPoints moves a (sub-)slice of cloud positions using the mode selected by cfg.
// base must be the matching sub-slice of the baseline in anchored mode and is ignored otherwise.
func AdvanceCloudPoints(pos, base []float32, t float64, cfg Config) {
	if cfg.Anchored && len(base) > 0 {
		AnchorPoints(pos, base, t, cfg.WaveFrequency, cfg.AnchoredWaveAmplitude)
		return
	}
	AdvancePoints(pos, t, cfg.WaveFrequency, cfg.WaveAmplitude)
}

// AdvanceShape moves one shape for time t. The index desynchronizes the drift of different shapes.
//
// Parameters:
//   - s: the shape to mutate
//   - index: position of the shape in its scene
//   - t: elapsed time in seconds
//   - cfg: motion constants
func AdvanceShape(s *Shape, index int, t float64, cfg Config) {
	for i := range 3 {
		s.Rotation[i] += s.Params.RotationSpeed[i]
	}

	bob := math.Sin(t*s.Params.FloatSpeed + s.Params.FloatPhase)
	angle := t*cfg.DriftRate + float64(index)

	if cfg.Anchored {
		s.Position[1] = s.Base[1] + float32(bob*cfg.AnchoredFloatAmplitude)
		if cfg.Drift {
			s.Position[0] = s.Base[0] + float32(math.Cos(angle)*cfg.DriftRadius)
			s.Position[2] = s.Base[2] + float32(math.Sin(angle)*cfg.DriftRadius)
		}
		return
	}

	s.Position[1] += float32(bob * cfg.FloatAmplitude)
	if cfg.Drift {
		s.Position[0] += float32(math.Cos(angle) * cfg.DriftStep)
		s.Position[2] += float32(math.Sin(angle) * cfg.DriftStep)
	}
}
