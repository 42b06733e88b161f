package window

import "testing"

func TestNewEngineWindowOptions(t *testing.T) {
	w := newEngineWindow(
		WithTitle("backdrop"),
		WithSize(1024, 0),
		WithMinSize(400, 300),
		WithMaxSize(1920, 1080),
		WithQuitKeys('x', 'Q'),
	)
	if w.title != "backdrop" {
		t.Errorf("title = %q", w.title)
	}
	if w.Width() != 1024 || w.Height() != 720 {
		t.Errorf("size = %dx%d, want 1024x720", w.Width(), w.Height())
	}
	if !w.isQuitKey('x') || !w.isQuitKey('Q') || w.isQuitKey('q') {
		t.Errorf("quit keys = %q", w.quitKeys)
	}
}

func TestClampSize(t *testing.T) {
	tests := []struct {
		name         string
		options      []WindowBuilderOption
		w, h         int
		wantW, wantH int
	}{
		{"within", []WindowBuilderOption{WithMinSize(100, 100), WithMaxSize(800, 600)}, 640, 480, 640, 480},
		{"too small", []WindowBuilderOption{WithMinSize(100, 100)}, 10, 20, 100, 100},
		{"too large", []WindowBuilderOption{WithMaxSize(800, 600)}, 4000, 3000, 800, 600},
		{"unbounded", []WindowBuilderOption{WithMinSize(0, 0), WithMaxSize(0, 0)}, 5, 5000, 5, 5000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newEngineWindow(tt.options...)
			if gw, gh := w.clampSize(tt.w, tt.h); gw != tt.wantW || gh != tt.wantH {
				t.Errorf("clampSize(%d,%d) = %d,%d, want %d,%d", tt.w, tt.h, gw, gh, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestCallbacksWithoutPlatform(t *testing.T) {
	w := newEngineWindow()

	var rw, rh int
	w.SetResizeCallback(func(width, height int) { rw, rh = width, height })
	w.resized(640, 360)
	if rw != 640 || rh != 360 || w.Width() != 640 || w.Height() != 360 {
		t.Errorf("resize = %dx%d, stored %dx%d", rw, rh, w.Width(), w.Height())
	}

	var mx, my int32
	w.SetMouseMoveCallback(func(x, y int32) { mx, my = x, y })
	w.mouseMoved(12.7, 30.2)
	if mx != 12 || my != 30 {
		t.Errorf("mouse = (%d,%d)", mx, my)
	}

	if w.IsRunning() {
		t.Error("window without a platform window reports running")
	}
	if w.SurfaceDescriptor() != nil {
		t.Error("SurfaceDescriptor without a platform window should be nil")
	}
	if err := w.Close(); err == nil {
		t.Error("expected error closing an uninitialized window")
	}
}

func TestCursorScaledToFramebuffer(t *testing.T) {
	tests := []struct {
		name         string
		fbW, fbH     int
		winW, winH   int
		x, y         float64
		wantX, wantY int32
	}{
		{"standard", 1280, 720, 1280, 720, 1280, 360, 1280, 360},
		{"retina right edge", 2560, 1440, 1280, 720, 1280, 720, 2560, 1440},
		{"retina centre", 2560, 1440, 1280, 720, 640, 360, 1280, 720},
		{"fractional scale", 1920, 1080, 1280, 720, 100, 100, 150, 150},
		{"minimized keeps last scale", 0, 0, 0, 0, 10, 20, 10, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newEngineWindow()
			var mx, my int32
			w.SetMouseMoveCallback(func(x, y int32) { mx, my = x, y })
			w.setCursorScale(tt.fbW, tt.fbH, tt.winW, tt.winH)
			w.mouseMoved(tt.x, tt.y)
			if mx != tt.wantX || my != tt.wantY {
				t.Errorf("mouse = (%d,%d), want (%d,%d)", mx, my, tt.wantX, tt.wantY)
			}
		})
	}
}
