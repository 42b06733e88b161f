package model

import (
	"fmt"
	"math"
)

// Kind identifies one of the built-in wireframe solids.
type Kind string

const (
	KindIcosahedron Kind = "icosahedron"
	KindOctahedron  Kind = "octahedron"
	KindTetrahedron Kind = "tetrahedron"
	// KindSphere is an icosahedron subdivided Detail times and pushed out to the radius,
	// which gives the faceted look of the gold sphere.
	KindSphere Kind = "sphere"
)

// Geometry is an indexed polyhedron centered on the origin.
// Vertices all lie on a sphere of BoundingRadius. Edges hold every unique triangle edge once,
// which is what a wireframe renderer draws.
type Geometry struct {
	Kind           Kind
	Vertices       [][3]float32
	Faces          [][3]uint32
	Edges          [][2]uint32
	BoundingRadius float32
}

// NewGeometry builds the solid of the given kind scaled to radius.
// Detail is the number of 4-way subdivision passes; it is ignored for every kind except KindSphere,
// where a value below 1 is raised to 1.
//
// Parameters:
//   - kind: the solid to build
//   - radius: circumscribed radius (must be > 0)
//   - detail: subdivision passes for KindSphere
//
// Returns:
//   - Geometry: the built geometry
//   - error: if the kind is unknown or the radius is not positive
func NewGeometry(kind Kind, radius float32, detail int) (Geometry, error) {
	if radius <= 0 {
		return Geometry{}, fmt.Errorf("model: radius must be positive, got %v", radius)
	}

	var verts [][3]float64
	var faces [][3]uint32
	switch kind {
	case KindTetrahedron:
		verts, faces = tetrahedron()
	case KindOctahedron:
		verts, faces = octahedron()
	case KindIcosahedron:
		verts, faces = icosahedron()
	case KindSphere:
		verts, faces = icosahedron()
		for range max(detail, 1) {
			verts, faces = subdivide(verts, faces)
		}
	default:
		return Geometry{}, fmt.Errorf("model: unknown geometry kind %q", kind)
	}

	g := Geometry{
		Kind:           kind,
		Vertices:       make([][3]float32, len(verts)),
		Faces:          faces,
		BoundingRadius: radius,
	}
	for i, v := range verts {
		n := normalize(v)
		g.Vertices[i] = [3]float32{float32(n[0]) * radius, float32(n[1]) * radius, float32(n[2]) * radius}
	}
	g.Edges = uniqueEdges(faces)
	return g, nil
}

// MustGeometry is NewGeometry for built-in tables that are known to be valid. It panics on error.
func MustGeometry(kind Kind, radius float32, detail int) Geometry {
	g, err := NewGeometry(kind, radius, detail)
	if err != nil {
		panic(err)
	}
	return g
}

// LineVertices flattens Edges into consecutive endpoint pairs for line-list drawing.
//
// Returns:
//   - [][3]float32: 2*len(Edges) positions
func (g Geometry) LineVertices() [][3]float32 {
	out := make([][3]float32, 0, len(g.Edges)*2)
	for _, e := range g.Edges {
		out = append(out, g.Vertices[e[0]], g.Vertices[e[1]])
	}
	return out
}

func tetrahedron() ([][3]float64, [][3]uint32) {
	return [][3]float64{
			{1, 1, 1}, {-1, -1, 1}, {-1, 1, -1}, {1, -1, -1},
		}, [][3]uint32{
			{2, 1, 0}, {0, 3, 2}, {1, 3, 0}, {2, 3, 1},
		}
}

func octahedron() ([][3]float64, [][3]uint32) {
	return [][3]float64{
			{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1},
		}, [][3]uint32{
			{0, 2, 4}, {0, 4, 3}, {0, 3, 5}, {0, 5, 2},
			{1, 2, 5}, {1, 5, 3}, {1, 3, 4}, {1, 4, 2},
		}
}

func icosahedron() ([][3]float64, [][3]uint32) {
	t := (1 + math.Sqrt(5)) / 2
	return [][3]float64{
			{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
			{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
			{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
		}, [][3]uint32{
			{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
			{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
			{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
			{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
		}
}

// subdivide splits every triangle into four, sharing midpoints between neighbours.
// Midpoints are projected back onto the unit sphere.
func subdivide(verts [][3]float64, faces [][3]uint32) ([][3]float64, [][3]uint32) {
	mids := make(map[[2]uint32]uint32, len(faces)*3/2)
	midpoint := func(a, b uint32) uint32 {
		key := [2]uint32{min(a, b), max(a, b)}
		if idx, ok := mids[key]; ok {
			return idx
		}
		va, vb := normalize(verts[a]), normalize(verts[b])
		verts = append(verts, normalize([3]float64{
			(va[0] + vb[0]) / 2, (va[1] + vb[1]) / 2, (va[2] + vb[2]) / 2,
		}))
		idx := uint32(len(verts) - 1)
		mids[key] = idx
		return idx
	}

	out := make([][3]uint32, 0, len(faces)*4)
	for _, f := range faces {
		ab := midpoint(f[0], f[1])
		bc := midpoint(f[1], f[2])
		ca := midpoint(f[2], f[0])
		out = append(out,
			[3]uint32{f[0], ab, ca},
			[3]uint32{f[1], bc, ab},
			[3]uint32{f[2], ca, bc},
			[3]uint32{ab, bc, ca},
		)
	}
	return verts, out
}

func uniqueEdges(faces [][3]uint32) [][2]uint32 {
	seen := make(map[[2]uint32]struct{}, len(faces)*3/2)
	edges := make([][2]uint32, 0, len(faces)*3/2)
	for _, f := range faces {
		for i := 0; i < 3; i++ {
			a, b := f[i], f[(i+1)%3]
			key := [2]uint32{min(a, b), max(a, b)}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			edges = append(edges, key)
		}
	}
	return edges
}

func normalize(v [3]float64) [3]float64 {
	l := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if l == 0 {
		return v
	}
	return [3]float64{v[0] / l, v[1] / l, v[2] / l}
}
