package scene

import (
	"math/rand"
	"testing"

	"github.com/Carmen-Shannon/oxy-backdrop/engine/motion"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/preset"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer"
)

func newTestPreset(t *testing.T, name string, seed int64) *preset.Preset {
	t.Helper()
	p, err := preset.Builtin(name)
	if err != nil {
		t.Fatalf("Builtin(%q): %v", name, err)
	}
	p.Seed = seed
	return p
}

func newTestScene(t *testing.T, p *preset.Preset, options ...SceneBuilderOption) (Scene, renderer.Renderer, *renderer.NullBackend) {
	t.Helper()
	backend := renderer.NewNullBackend()
	r, err := renderer.NewRenderer(backend, 800, 600)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	s, err := NewScene(r, p, append([]SceneBuilderOption{WithViewport(800, 600)}, options...)...)
	if err != nil {
		t.Fatalf("NewScene: %v", err)
	}
	return s, r, backend
}

func equalClouds(a, b *motion.State) bool {
	if len(a.Clouds) != len(b.Clouds) {
		return false
	}
	for i := range a.Clouds {
		pa, pb := a.Clouds[i].Positions, b.Clouds[i].Positions
		if len(pa) != len(pb) || a.Clouds[i].Rotation != b.Clouds[i].Rotation {
			return false
		}
		for j := range pa {
			if pa[j] != pb[j] {
				return false
			}
		}
	}
	return true
}

func TestNewScenePanicsOnNil(t *testing.T) {
	r, _ := renderer.NewRenderer(renderer.NewNullBackend(), 1, 1)
	tests := []struct {
		name string
		fn   func()
	}{
		{"nil renderer", func() { _, _ = NewScene(nil, &preset.Preset{}) }},
		{"nil preset", func() { _, _ = NewScene(r, nil) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.fn()
		})
	}
}

func TestSceneIsDeterministicForSeed(t *testing.T) {
	a, _, _ := newTestScene(t, newTestPreset(t, "neural", 7))
	b, _, _ := newTestScene(t, newTestPreset(t, "neural", 7))
	c, _, _ := newTestScene(t, newTestPreset(t, "neural", 8))

	if !equalClouds(a.State(), b.State()) {
		t.Error("same seed produced different clouds")
	}
	if equalClouds(a.State(), c.State()) {
		t.Error("different seeds produced identical clouds")
	}
	sa, sb := a.State().Shapes, b.State().Shapes
	for i := range sa {
		if sa[i].Position != sb[i].Position || sa[i].Params != sb[i].Params {
			t.Errorf("shape %d differs between identical seeds", i)
		}
	}
}

func TestWithRandOverridesSeed(t *testing.T) {
	a, _, _ := newTestScene(t, newTestPreset(t, "neural", 1), WithRand(rand.New(rand.NewSource(99))))
	b, _, _ := newTestScene(t, newTestPreset(t, "neural", 99))
	if !equalClouds(a.State(), b.State()) {
		t.Error("WithRand did not take precedence over the preset seed")
	}
}

func TestParallelAdvanceMatchesSerial(t *testing.T) {
	for _, anchored := range []bool{false, true} {
		name := "incremental"
		if anchored {
			name = "anchored"
		}
		t.Run(name, func(t *testing.T) {
			ps := newTestPreset(t, "neural", 42)
			ps.Anchored = anchored
			pp := newTestPreset(t, "neural", 42)
			pp.Anchored = anchored

			serial, _, _ := newTestScene(t, ps, WithComputeWorkers(1))
			parallel, _, _ := newTestScene(t, pp, WithComputeWorkers(4), WithChunkSize(16))

			for frame := range 30 {
				tm := float64(frame) / 60
				serial.Advance(tm)
				parallel.Advance(tm)
			}
			if !equalClouds(serial.State(), parallel.State()) {
				t.Error("chunked update diverged from the serial update")
			}
		})
	}
}

func TestAdvanceMovesCloudAndShapes(t *testing.T) {
	s, _, _ := newTestScene(t, newTestPreset(t, "neural", 3))
	before := s.State()
	s.Advance(0.5)
	after := s.State()

	if after.Clouds[0].Rotation == before.Clouds[0].Rotation {
		t.Error("cloud did not spin")
	}
	if equalClouds(before, after) {
		t.Error("cloud points did not move")
	}
	for i := range after.Shapes {
		if after.Shapes[i].Rotation == before.Shapes[i].Rotation {
			t.Errorf("shape %d did not rotate", i)
		}
	}
}

func TestRenderUploadsObjects(t *testing.T) {
	s, r, backend := newTestScene(t, newTestPreset(t, "neural", 5))
	if r.Objects() != 4 {
		t.Fatalf("Objects() = %d, want 4", r.Objects())
	}
	s.Advance(0.1)
	if err := s.Render(); err != nil {
		t.Fatal(err)
	}
	f := backend.Last()
	if len(f.Points) != 1 || f.Points[0].Len() != 1500 {
		t.Fatalf("point batches = %+v", len(f.Points))
	}
	if !f.Points[0].Style.AdditiveBlending {
		t.Error("cloud not drawn with additive blending")
	}
	if len(f.Lines) != 3 {
		t.Errorf("line batches = %d, want 3", len(f.Lines))
	}
	if f.FogDensity != 0.002 {
		t.Errorf("FogDensity = %v", f.FogDensity)
	}

	s.Close()
	if r.Objects() != 0 {
		t.Errorf("Objects() after Close = %d", r.Objects())
	}
}

func TestGoldPresetScene(t *testing.T) {
	s, _, backend := newTestScene(t, newTestPreset(t, "gold", 11))
	st := s.State()
	if len(st.Shapes) != 1 || st.Shapes[0].Position != [3]float32{} {
		t.Fatalf("gold shapes = %+v", st.Shapes)
	}
	if err := s.Render(); err != nil {
		t.Fatal(err)
	}
	if f := backend.Last(); len(f.Points) != 1 || f.Points[0].Len() != 2000 || len(f.Lines) != 1 {
		t.Errorf("gold frame: %d point batches, %d line batches", len(f.Points), len(f.Lines))
	}
}

func TestSetPointerPixels(t *testing.T) {
	tests := []struct {
		name string
		x, y float64
		want Pointer
	}{
		{"center", 400, 300, Pointer{0, 0}},
		{"top left", 0, 0, Pointer{-1, 1}},
		{"bottom right", 800, 600, Pointer{1, -1}},
		{"clamped", 1600, -300, Pointer{1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := newTestScene(t, newTestPreset(t, "neural", 1))
			before := s.State().Clouds[0].Rotation
			s.SetPointerPixels(tt.x, tt.y)
			if got := s.Pointer(); got != tt.want {
				t.Errorf("Pointer() = %+v, want %+v", got, tt.want)
			}
			after := s.State().Clouds[0].Rotation
			nudge := s.Preset().Particles.PointerNudge
			if after[0] != before[0]+tt.want.Y*nudge || after[1] != before[1]+tt.want.X*nudge {
				t.Errorf("rotation %v -> %v, nudge %v", before, after, nudge)
			}
		})
	}
}

func TestCameraFollowsPointer(t *testing.T) {
	s, _, _ := newTestScene(t, newTestPreset(t, "neural", 1))
	s.SetPointerPixels(800, 0)
	s.Advance(0)

	x, y, z := s.Camera().Position()
	if x <= 0 || y <= 0 || z != 50 {
		t.Errorf("camera at (%v,%v,%v) after one frame toward the top-right", x, y, z)
	}
	if ox, _ := s.Follower().Offset(); ox >= 1 {
		t.Errorf("follower jumped to the pointer: offset %v", ox)
	}

	for range 500 {
		s.Advance(0)
	}
	if x, y, _ := s.Camera().Position(); x < 9.9 || y < 9.9 {
		t.Errorf("camera did not converge: (%v,%v)", x, y)
	}
}

func TestSetViewport(t *testing.T) {
	s, _, _ := newTestScene(t, newTestPreset(t, "neural", 1))
	s.SetViewport(0, 100)
	if w, h := s.Viewport(); w != 800 || h != 600 {
		t.Errorf("degenerate viewport applied: %dx%d", w, h)
	}
	s.SetViewport(1000, 500)
	if s.Camera().Aspect() != 2 {
		t.Errorf("Aspect() = %v, want 2", s.Camera().Aspect())
	}
}
