// Package sampler generates the initial point clouds and shape placements of a scene.
// All randomness comes from the *rand.Rand passed in, so a seeded source reproduces a scene exactly.
package sampler

import (
	"math"
	"math/rand"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/motion"
)

// Distribution places points in space.
type Distribution interface {
	// Point draws one position.
	//
	// Parameters:
	//   - rng: the random source
	//
	// Returns:
	//   - x, y, z: the sampled position
	Point(rng *rand.Rand) (x, y, z float32)
}

// Cube samples each coordinate independently from Uniform(-Half, Half).
type Cube struct {
	Half float64
}

func (c Cube) Point(rng *rand.Rand) (x, y, z float32) {
	x = float32((rng.Float64() - 0.5) * 2 * c.Half)
	y = float32((rng.Float64() - 0.5) * 2 * c.Half)
	z = float32((rng.Float64() - 0.5) * 2 * c.Half)
	return
}

// Shell samples uniformly over the surface area of spheres with radius in [Inner, Inner+Depth].
// The inclination is drawn as arccos(2u-1) so density does not bunch at the poles.
type Shell struct {
	Inner float64
	Depth float64
}

func (s Shell) Point(rng *rand.Rand) (x, y, z float32) {
	r := s.Inner + rng.Float64()*s.Depth
	theta := rng.Float64() * 2 * math.Pi
	phi := math.Acos(2*rng.Float64() - 1)
	sinPhi := math.Sin(phi)
	return float32(r * sinPhi * math.Cos(theta)),
		float32(r * sinPhi * math.Sin(theta)),
		float32(r * math.Cos(phi))
}

// Palette is a two-color mix. Each point picks Primary with probability Mix.
type Palette struct {
	Primary   common.Hex
	Secondary common.Hex
	Mix       float64
}

// Sample draws n points. For each point the position is drawn before the color.
//
// Parameters:
//   - rng: the random source
//   - n: number of points, n <= 0 gives an empty cloud
//   - d: where points go
//   - p: which colors they get
//
// Returns:
//   - motion.PointCloud: the sampled cloud with zero rotation
func Sample(rng *rand.Rand, n int, d Distribution, p Palette) motion.PointCloud {
	n = max(n, 0)
	cloud := motion.PointCloud{
		Positions: make([]float32, n*3),
		Colors:    make([]float32, n*3),
	}
	primary, secondary := p.Primary.RGB(), p.Secondary.RGB()
	for i := range n {
		x, y, z := d.Point(rng)
		cloud.Positions[i*3] = x
		cloud.Positions[i*3+1] = y
		cloud.Positions[i*3+2] = z

		c := secondary
		if rng.Float64() < p.Mix {
			c = primary
		}
		copy(cloud.Colors[i*3:i*3+3], c[:])
	}
	return cloud
}
