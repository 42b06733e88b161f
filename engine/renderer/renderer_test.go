package renderer

import (
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/camera"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/model"
)

func newTestRenderer(t *testing.T, options ...RendererBuilderOption) (Renderer, *NullBackend) {
	t.Helper()
	backend := NewNullBackend()
	r, err := NewRenderer(backend, 800, 600, options...)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return r, backend
}

func newTestCamera() camera.Camera {
	return camera.NewCamera(camera.WithController(camera.NewFollower()), camera.WithAspect(800.0/600.0))
}

func TestNewRendererConfiguresBackend(t *testing.T) {
	r, backend := newTestRenderer(t, WithPresentMode(PresentModeUncapped))
	if backend.Configures() != 1 {
		t.Errorf("Configures() = %d, want 1", backend.Configures())
	}
	if w, h := backend.Size(); w != 800 || h != 600 {
		t.Errorf("backend size = %dx%d", w, h)
	}
	if backend.PresentMode() != PresentModeUncapped {
		t.Errorf("present mode not applied")
	}
	if r.Backend().Type() != BackendTypeNull {
		t.Errorf("Backend().Type() = %v", r.Backend().Type())
	}
}

func TestCreatePointCloudValidation(t *testing.T) {
	tests := []struct {
		name      string
		positions []float32
		colors    []float32
		wantErr   bool
	}{
		{"empty", nil, nil, false},
		{"one point", []float32{1, 2, 3}, []float32{1, 1, 1}, false},
		{"ragged positions", []float32{1, 2}, []float32{1, 1}, true},
		{"missing colors", []float32{1, 2, 3}, nil, true},
		{"extra colors", []float32{1, 2, 3}, []float32{1, 1, 1, 0, 0, 0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestRenderer(t)
			_, err := r.CreatePointCloud(tt.positions, tt.colors, Style{})
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestUnknownHandle(t *testing.T) {
	r, _ := newTestRenderer(t)
	if err := r.SetTransform(42, [3]float32{}, [3]float32{}); !errors.Is(err, ErrUnknownHandle) {
		t.Errorf("SetTransform err = %v", err)
	}
	if err := r.UpdatePoints(42, nil); !errors.Is(err, ErrUnknownHandle) {
		t.Errorf("UpdatePoints err = %v", err)
	}
	if err := r.Remove(42); !errors.Is(err, ErrUnknownHandle) {
		t.Errorf("Remove err = %v", err)
	}
}

func TestRenderTranslatesPointsToWorld(t *testing.T) {
	r, backend := newTestRenderer(t)
	h, err := r.CreatePointCloud([]float32{1, 2, 3, -1, -2, -3}, []float32{1, 0, 0, 0, 1, 0}, Style{PointSize: 0.5, Opacity: 0.8})
	if err != nil {
		t.Fatal(err)
	}
	if err := r.SetTransform(h, [3]float32{5, -2, 3}, [3]float32{}); err != nil {
		t.Fatal(err)
	}
	if err := r.Render(newTestCamera()); err != nil {
		t.Fatal(err)
	}

	f := backend.Last()
	if len(f.Points) != 1 || len(f.Lines) != 0 {
		t.Fatalf("batches = %d points, %d lines", len(f.Points), len(f.Lines))
	}
	want := []float32{6, 0, 6, 4, -4, 0}
	for i, v := range want {
		if math.Abs(float64(f.Points[0].World[i]-v)) > 1e-5 {
			t.Errorf("World[%d] = %v, want %v", i, f.Points[0].World[i], v)
		}
	}
	if f.Points[0].Style.Opacity != 0.8 || f.Points[0].Len() != 2 {
		t.Errorf("batch = %+v", f.Points[0])
	}
}

func TestUpdatePoints(t *testing.T) {
	r, backend := newTestRenderer(t)
	h, _ := r.CreatePointCloud([]float32{0, 0, 0}, []float32{1, 1, 1}, Style{})
	mesh, _ := r.CreateMesh(model.MustGeometry(model.KindTetrahedron, 1, 0), Style{})

	if err := r.UpdatePoints(h, []float32{1, 1, 1, 2, 2, 2}); err == nil {
		t.Error("expected error for changed point count")
	}
	if err := r.UpdatePoints(mesh, []float32{1, 1, 1}); err == nil {
		t.Error("expected error updating a mesh")
	}
	if err := r.UpdatePoints(h, []float32{7, 8, 9}); err != nil {
		t.Fatal(err)
	}
	if err := r.Render(newTestCamera()); err != nil {
		t.Fatal(err)
	}
	if got := backend.Last().Points[0].World; got[0] != 7 || got[1] != 8 || got[2] != 9 {
		t.Errorf("World = %v", got)
	}
}

func TestCreateMeshEmitsEdges(t *testing.T) {
	r, backend := newTestRenderer(t, WithFog(Fog{Color: 0x050508, Density: 0.002}), WithBackground(0x050508))
	g := model.MustGeometry(model.KindOctahedron, 4, 0)
	if _, err := r.CreateMesh(g, Style{Color: 0xff00ff, Opacity: 0.3, Wireframe: true}); err != nil {
		t.Fatal(err)
	}
	if _, err := r.CreateMesh(model.Geometry{Kind: model.KindOctahedron}, Style{}); err == nil {
		t.Error("expected error for geometry without edges")
	}
	if err := r.Render(newTestCamera()); err != nil {
		t.Fatal(err)
	}

	f := backend.Last()
	if len(f.Lines) != 1 || f.Lines[0].Segments() != 12 {
		t.Fatalf("lines = %+v", f.Lines)
	}
	if f.Lines[0].Color != common.Hex(0xff00ff).RGB() {
		t.Errorf("line color = %v", f.Lines[0].Color)
	}
	if f.FogDensity != 0.002 || f.FogColor != common.Hex(0x050508).RGB() || f.Background != common.Hex(0x050508).RGB() {
		t.Errorf("fog/background not carried: %+v %v %v", f.FogColor, f.FogDensity, f.Background)
	}
}

func TestRemove(t *testing.T) {
	r, backend := newTestRenderer(t)
	a, _ := r.CreatePointCloud([]float32{0, 0, 0}, []float32{1, 1, 1}, Style{})
	b, _ := r.CreatePointCloud([]float32{1, 1, 1}, []float32{1, 1, 1}, Style{})
	if err := r.Remove(a); err != nil {
		t.Fatal(err)
	}
	if r.Objects() != 1 {
		t.Errorf("Objects() = %d", r.Objects())
	}
	_ = r.Render(newTestCamera())
	if got := backend.Last().Points; len(got) != 1 || got[0].World[0] != 1 {
		t.Errorf("remaining batch = %+v", got)
	}
	if err := r.SetTransform(b, [3]float32{}, [3]float32{}); err != nil {
		t.Errorf("surviving handle: %v", err)
	}
}

func TestResizeIgnoresDegenerate(t *testing.T) {
	r, backend := newTestRenderer(t)
	r.Resize(0, 100)
	r.Resize(100, -1)
	if backend.Configures() != 1 {
		t.Errorf("degenerate resize reconfigured the backend")
	}
	r.Resize(1024, 768)
	if w, h := r.Size(); w != 1024 || h != 768 {
		t.Errorf("Size() = %dx%d", w, h)
	}
	if backend.Configures() != 2 {
		t.Errorf("Configures() = %d, want 2", backend.Configures())
	}
}

func TestRenderWrapsBackendError(t *testing.T) {
	r, backend := newTestRenderer(t)
	lost := errors.New("surface lost")
	backend.FailWith(lost)
	if err := r.Render(newTestCamera()); !errors.Is(err, lost) {
		t.Errorf("Render err = %v", err)
	}
	backend.FailWith(nil)
	if err := r.Render(newTestCamera()); err != nil {
		t.Errorf("Render after recovery: %v", err)
	}
}

func TestClose(t *testing.T) {
	r, backend := newTestRenderer(t)
	r.Close()
	r.Close()
	if !backend.Closed() {
		t.Error("backend not closed")
	}
	if err := r.Render(newTestCamera()); !errors.Is(err, ErrClosed) {
		t.Errorf("Render err = %v", err)
	}
	if _, err := r.CreatePointCloud(nil, nil, Style{}); !errors.Is(err, ErrClosed) {
		t.Errorf("CreatePointCloud err = %v", err)
	}
}

func TestFogFactor(t *testing.T) {
	tests := []struct {
		density, distance float32
		want              float64
	}{
		{0, 500, 0},
		{0.002, 0, 0},
		{0.002, 500, 1 - math.Exp(-1)},
		{0.1, 1000, 1},
	}
	for _, tt := range tests {
		f := &Frame{FogDensity: tt.density}
		if got := f.FogFactor(tt.distance); math.Abs(float64(got)-tt.want) > 1e-5 {
			t.Errorf("FogFactor(density %v, distance %v) = %v, want %v", tt.density, tt.distance, got, tt.want)
		}
	}
}

func TestAppendPointVertices(t *testing.T) {
	b := PointBatch{
		World:  []float32{1, 2, 3, 4, 5, 6},
		Colors: []float32{0.1, 0.2, 0.3, 0.4, 0.5, 0.6},
		Style:  Style{PointSize: 0.5, Opacity: 0.8},
	}
	out := appendPointVertices(nil, b)
	if len(out) != 2*spriteVertices*pointVertexFloats {
		t.Fatalf("len = %d", len(out))
	}
	first := out[:pointVertexFloats]
	want := []float32{1, 2, 3, -0.25, -0.25, 0.1, 0.2, 0.3, 0.8}
	for i := range want {
		if first[i] != want[i] {
			t.Errorf("vertex[0][%d] = %v, want %v", i, first[i], want[i])
		}
	}
	second := out[spriteVertices*pointVertexFloats:]
	if second[0] != 4 || second[5] != 0.4 {
		t.Errorf("second sprite = %v", second[:pointVertexFloats])
	}
}

func TestAppendLineVertices(t *testing.T) {
	b := LineBatch{
		World: []float32{0, 0, 0, 1, 1, 1},
		Color: common.RGB{1, 0, 1},
		Style: Style{Opacity: 0.3},
	}
	out := appendLineVertices(nil, b)
	want := []float32{0, 0, 0, 1, 0, 1, 0.3, 1, 1, 1, 1, 0, 1, 0.3}
	if len(out) != len(want) {
		t.Fatalf("len = %d", len(out))
	}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}
