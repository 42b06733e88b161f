package sampler

import (
	"math"
	"math/rand"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/model"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/motion"
)

// ShapeSpec describes one shape to place. A non-nil Position pins the shape instead of scattering it.
type ShapeSpec struct {
	Kind     model.Kind
	Color    common.Hex
	Opacity  float32
	Position *[3]float32
}

// Range is a closed-open interval [Min, Max).
type Range struct {
	Min float64
	Max float64
}

func (r Range) draw(rng *rand.Rand) float64 {
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Placement bounds the random placement of shapes.
type Placement struct {
	// Spread scatters x and y over Uniform(-Spread, Spread).
	Spread float64
	// Depth scatters z over Uniform(-Depth, Depth) + DepthOffset.
	Depth       float64
	DepthOffset float64

	RotationSpeed Range
	FloatSpeed    Range
}

// DefaultPlacement matches the neural backdrop: x,y in [-50,50), z in [-45,5),
// rotation speed in [-0.01,0.01) per axis and float speed in [0.005,0.015).
func DefaultPlacement() Placement {
	return Placement{
		Spread:        50,
		Depth:         25,
		DepthOffset:   -20,
		RotationSpeed: Range{Min: -0.01, Max: 0.01},
		FloatSpeed:    Range{Min: 0.005, Max: 0.015},
	}
}

// PlaceShapes builds one motion.Shape per spec. Per shape the draws are made in the order
// position (x, y, z), rotation speed (x, y, z), float speed, float phase; pinned shapes skip
// the position draws.
//
// Parameters:
//   - rng: the random source
//   - specs: the shapes to place
//   - pl: placement bounds
//
// Returns:
//   - []motion.Shape: placed shapes with Base equal to their starting position
func PlaceShapes(rng *rand.Rand, specs []ShapeSpec, pl Placement) []motion.Shape {
	shapes := make([]motion.Shape, 0, len(specs))
	for _, spec := range specs {
		s := motion.Shape{
			Kind:    spec.Kind,
			Color:   spec.Color,
			Opacity: spec.Opacity,
		}
		if spec.Position != nil {
			s.Position = *spec.Position
		} else {
			s.Position = [3]float32{
				float32((rng.Float64() - 0.5) * 2 * pl.Spread),
				float32((rng.Float64() - 0.5) * 2 * pl.Spread),
				float32((rng.Float64()-0.5)*2*pl.Depth + pl.DepthOffset),
			}
		}
		for i := range 3 {
			s.Params.RotationSpeed[i] = float32(pl.RotationSpeed.draw(rng))
		}
		s.Params.FloatSpeed = pl.FloatSpeed.draw(rng)
		s.Params.FloatPhase = rng.Float64() * 2 * math.Pi
		s.Base = s.Position
		shapes = append(shapes, s)
	}
	return shapes
}
