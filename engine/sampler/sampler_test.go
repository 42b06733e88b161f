package sampler

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/Carmen-Shannon/oxy-backdrop/engine/model"
)

func TestCubeBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	c := Sample(rng, 1500, Cube{Half: 100}, Palette{Primary: 0x00f3ff, Secondary: 0xff00ff, Mix: 0.5})
	if len(c.Positions) != 4500 || len(c.Colors) != 4500 {
		t.Fatalf("got %d positions, %d colors", len(c.Positions), len(c.Colors))
	}
	for i, v := range c.Positions {
		if v < -100 || v > 100 {
			t.Fatalf("coordinate %d = %v out of [-100,100]", i, v)
		}
	}
}

func TestShellRadius(t *testing.T) {
	for _, n := range []int{0, 1, 7, 2000} {
		rng := rand.New(rand.NewSource(int64(n)))
		c := Sample(rng, n, Shell{Inner: 40, Depth: 60}, Palette{Primary: 0xd4af37, Secondary: 0xffffff, Mix: 0.7})
		if c.Len() != n {
			t.Fatalf("n=%d: got %d points", n, c.Len())
		}
		for i := range n {
			x, y, z := float64(c.Positions[i*3]), float64(c.Positions[i*3+1]), float64(c.Positions[i*3+2])
			r := math.Sqrt(x*x + y*y + z*z)
			if r < 40-1e-3 || r > 100+1e-3 {
				t.Fatalf("n=%d point %d radius %v outside [40,100]", n, i, r)
			}
		}
	}
}

// TestShellInclinationUniform checks that cos(phi) is uniform on [-1,1] with a
// one-sample Kolmogorov-Smirnov test.
func TestShellInclinationUniform(t *testing.T) {
	const n = 20000
	rng := rand.New(rand.NewSource(42))
	c := Sample(rng, n, Shell{Inner: 1, Depth: 0}, Palette{})
	cos := make([]float64, n)
	for i := range n {
		cos[i] = float64(c.Positions[i*3+2]) // r == 1
	}
	sort.Float64s(cos)
	d := 0.0
	for i, v := range cos {
		cdf := (v + 1) / 2
		d = max(d, math.Abs(float64(i+1)/n-cdf), math.Abs(cdf-float64(i)/n))
	}
	// Critical value at alpha = 0.001 is about 1.95/sqrt(n).
	if crit := 1.95 / math.Sqrt(n); d > crit {
		t.Errorf("KS statistic %v exceeds %v", d, crit)
	}

	// Sampling phi uniformly instead would bunch points at the poles and fail the same test.
	naive := make([]float64, n)
	for i := range naive {
		naive[i] = math.Cos(rng.Float64() * math.Pi)
	}
	sort.Float64s(naive)
	dn := 0.0
	for i, v := range naive {
		cdf := (v + 1) / 2
		dn = max(dn, math.Abs(float64(i+1)/n-cdf))
	}
	if dn <= 1.95/math.Sqrt(n) {
		t.Errorf("uniform-angle sampling unexpectedly passed: %v", dn)
	}
}

func TestPaletteMix(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	p := Palette{Primary: 0xff0000, Secondary: 0x0000ff, Mix: 0.7}
	c := Sample(rng, 10000, Cube{Half: 1}, p)
	primary := 0
	for i := range c.Len() {
		switch {
		case c.Colors[i*3] == 1 && c.Colors[i*3+2] == 0:
			primary++
		case c.Colors[i*3] == 0 && c.Colors[i*3+2] == 1:
		default:
			t.Fatalf("point %d has unexpected color %v", i, c.Colors[i*3:i*3+3])
		}
	}
	if frac := float64(primary) / 10000; math.Abs(frac-0.7) > 0.03 {
		t.Errorf("primary fraction %v, want ~0.7", frac)
	}
}

func TestSampleDeterministic(t *testing.T) {
	a := Sample(rand.New(rand.NewSource(99)), 300, Cube{Half: 100}, Palette{Mix: 0.5})
	b := Sample(rand.New(rand.NewSource(99)), 300, Cube{Half: 100}, Palette{Mix: 0.5})
	for i := range a.Positions {
		if a.Positions[i] != b.Positions[i] || a.Colors[i] != b.Colors[i] {
			t.Fatalf("index %d differs", i)
		}
	}
}

func TestSampleNegativeCount(t *testing.T) {
	c := Sample(rand.New(rand.NewSource(1)), -5, Cube{Half: 1}, Palette{})
	if c.Len() != 0 {
		t.Errorf("got %d points", c.Len())
	}
}

func TestPlaceShapes(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	origin := [3]float32{0, 0, 0}
	specs := []ShapeSpec{
		{Kind: model.KindIcosahedron, Color: 0x00f3ff, Opacity: 0.3},
		{Kind: model.KindOctahedron, Color: 0xff00ff, Opacity: 0.3},
		{Kind: model.KindSphere, Color: 0xd4af37, Opacity: 0.4, Position: &origin},
	}
	pl := DefaultPlacement()
	shapes := PlaceShapes(rng, specs, pl)
	if len(shapes) != 3 {
		t.Fatalf("got %d shapes", len(shapes))
	}
	for i, s := range shapes[:2] {
		if math.Abs(float64(s.Position[0])) > 50 || math.Abs(float64(s.Position[1])) > 50 {
			t.Errorf("shape %d x/y out of range: %v", i, s.Position)
		}
		if s.Position[2] < -45 || s.Position[2] > 5 {
			t.Errorf("shape %d z out of range: %v", i, s.Position[2])
		}
		for _, v := range s.Params.RotationSpeed {
			if v < -0.01 || v >= 0.01 {
				t.Errorf("shape %d rotation speed %v", i, v)
			}
		}
		if s.Params.FloatSpeed < 0.005 || s.Params.FloatSpeed >= 0.015 {
			t.Errorf("shape %d float speed %v", i, s.Params.FloatSpeed)
		}
		if s.Params.FloatPhase < 0 || s.Params.FloatPhase >= 2*math.Pi {
			t.Errorf("shape %d phase %v", i, s.Params.FloatPhase)
		}
		if s.Base != s.Position {
			t.Errorf("shape %d base not captured", i)
		}
	}
	if shapes[2].Position != origin {
		t.Errorf("pinned shape moved: %v", shapes[2].Position)
	}
}
