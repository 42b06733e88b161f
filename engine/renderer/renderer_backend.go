package renderer

// RendererBackendType identifies the backend implementation drawing a Frame.
type RendererBackendType int

const (
	// BackendTypeWGPU draws through WebGPU onto a window surface.
	BackendTypeWGPU RendererBackendType = iota

	// BackendTypeTerminal rasterizes the frame into terminal cells.
	BackendTypeTerminal

	// BackendTypeNull records frames without drawing them.
	BackendTypeNull
)

// String returns the lowercase backend name used in logs.
func (t RendererBackendType) String() string {
	switch t {
	case BackendTypeWGPU:
		return "wgpu"
	case BackendTypeTerminal:
		return "terminal"
	case BackendTypeNull:
		return "null"
	default:
		return "unknown"
	}
}

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4; higher values are adapter-dependent.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4x multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// RendererBackend turns a prepared Frame into pixels (or cells).
// The Renderer owns all scene objects and hands the backend a world-space snapshot each frame,
// so a backend never sees handles or object-local coordinates.
type RendererBackend interface {
	// Type reports which implementation this is.
	Type() RendererBackendType

	// Configure (re)allocates size-dependent resources such as the swapchain and depth buffer.
	//
	// Parameters:
	//   - width: the new target width
	//   - height: the new target height
	//
	// Returns:
	//   - error: an error if the target could not be configured
	Configure(width, height int) error

	// SetPresentMode changes how frames are delivered to the display.
	// Backends without a swapchain ignore it.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// Draw renders and presents one frame. The Frame and its slices are only valid for the
	// duration of the call.
	//
	// Parameters:
	//   - f: the frame to draw
	//
	// Returns:
	//   - error: an error if the frame could not be drawn
	Draw(f *Frame) error

	// Close releases every resource held by the backend.
	Close()
}
