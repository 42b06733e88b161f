package model

import (
	"math"
	"testing"
)

func TestNewGeometryCounts(t *testing.T) {
	tests := []struct {
		kind              Kind
		detail            int
		verts, faces, eds int
	}{
		{KindTetrahedron, 0, 4, 4, 6},
		{KindOctahedron, 0, 6, 8, 12},
		{KindIcosahedron, 0, 12, 20, 30},
		{KindSphere, 1, 42, 80, 120},
		{KindSphere, 0, 42, 80, 120}, // detail raised to 1
		{KindSphere, 2, 162, 320, 480},
	}
	for _, tt := range tests {
		g, err := NewGeometry(tt.kind, 5, tt.detail)
		if err != nil {
			t.Fatalf("%s: %v", tt.kind, err)
		}
		if len(g.Vertices) != tt.verts || len(g.Faces) != tt.faces || len(g.Edges) != tt.eds {
			t.Errorf("%s detail %d: got %d/%d/%d, want %d/%d/%d", tt.kind, tt.detail,
				len(g.Vertices), len(g.Faces), len(g.Edges), tt.verts, tt.faces, tt.eds)
		}
		// Euler characteristic of a closed convex polyhedron.
		if v, e, f := len(g.Vertices), len(g.Edges), len(g.Faces); v-e+f != 2 {
			t.Errorf("%s: V-E+F = %d", tt.kind, v-e+f)
		}
	}
}

func TestVerticesOnRadius(t *testing.T) {
	for _, kind := range []Kind{KindTetrahedron, KindOctahedron, KindIcosahedron, KindSphere} {
		g := MustGeometry(kind, 6, 1)
		for i, v := range g.Vertices {
			r := math.Sqrt(float64(v[0]*v[0] + v[1]*v[1] + v[2]*v[2]))
			if math.Abs(r-6) > 1e-4 {
				t.Fatalf("%s vertex %d at radius %v", kind, i, r)
			}
		}
	}
}

func TestNewGeometryErrors(t *testing.T) {
	if _, err := NewGeometry(KindOctahedron, 0, 0); err == nil {
		t.Error("expected error for zero radius")
	}
	if _, err := NewGeometry("dodecahedron", 1, 0); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestLineVertices(t *testing.T) {
	g := MustGeometry(KindTetrahedron, 1, 0)
	lines := g.LineVertices()
	if len(lines) != 2*len(g.Edges) {
		t.Fatalf("got %d line vertices", len(lines))
	}
	if lines[0] != g.Vertices[g.Edges[0][0]] || lines[1] != g.Vertices[g.Edges[0][1]] {
		t.Error("first line does not match first edge")
	}
}
