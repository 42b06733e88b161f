package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
)

// Window is the desktop host of the backdrop: a GPU surface plus the pointer, resize and
// quit events the frame driver listens to.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetMouseMoveCallback sets the callback for pointer movement inside the window.
	//
	// Parameters:
	//   - callback: function receiving the pointer x, y position in pixels, origin top-left
	SetMouseMoveCallback(callback func(x, y int32))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	IsRunning() bool

	// Close closes the window and releases platform resources. Closing twice is a no-op.
	//
	// Returns:
	//   - error: error if the window was never initialized
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls the update callback each iteration.
	ProcessMessages()

	// Width returns the current framebuffer width in pixels.
	Width() int

	// Height returns the current framebuffer height in pixels.
	Height() int
}

// engineWindow is the implementation of the Window interface.
type engineWindow struct {
	title string

	// Size limits applied to the platform window; 0 leaves that side unbounded.
	maxWidth  int
	maxHeight int
	minWidth  int
	minHeight int

	width  int
	height int

	// Framebuffer pixels per window coordinate; cursor positions arrive in window coordinates.
	cursorScaleX float64
	cursorScaleY float64

	// quitKeys close the window when pressed, in addition to the window close button.
	quitKeys []rune

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any
	closed         bool

	onUpdate    func()
	onResize    func(width, height int)
	onMouseMove func(x, y int32)
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a window. Defaults are applied first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the open window
//   - error: if the platform has no display or the window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := newEngineWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	return w, nil
}

// newEngineWindow applies defaults and options without touching the platform.
func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		title:     "oxy-backdrop",
		minWidth:  320,
		minHeight: 200,
		width:     1280,
		height:    720,
		quitKeys:  []rune{'q'},

		cursorScaleX: 1,
		cursorScaleY: 1,
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

// clampSize bounds a requested size to the configured limits.
func (w *engineWindow) clampSize(width, height int) (int, int) {
	if w.minWidth > 0 {
		width = max(width, w.minWidth)
	}
	if w.minHeight > 0 {
		height = max(height, w.minHeight)
	}
	if w.maxWidth > 0 {
		width = min(width, w.maxWidth)
	}
	if w.maxHeight > 0 {
		height = min(height, w.maxHeight)
	}
	return width, height
}

// isQuitKey reports whether r is one of the configured quit keys.
func (w *engineWindow) isQuitKey(r rune) bool {
	for _, k := range w.quitKeys {
		if k == r {
			return true
		}
	}
	return false
}

// resized records a new framebuffer size and notifies the resize callback.
func (w *engineWindow) resized(width, height int) {
	w.width = width
	w.height = height
	if w.onResize != nil {
		w.onResize(width, height)
	}
}

// setCursorScale records the ratio between framebuffer and window sizes so cursor positions
// can be reported in the same pixels as Width and Height. Non-positive sizes are ignored.
func (w *engineWindow) setCursorScale(fbWidth, fbHeight, winWidth, winHeight int) {
	if fbWidth <= 0 || fbHeight <= 0 || winWidth <= 0 || winHeight <= 0 {
		return
	}
	w.cursorScaleX = float64(fbWidth) / float64(winWidth)
	w.cursorScaleY = float64(fbHeight) / float64(winHeight)
}

// mouseMoved converts a cursor position from window coordinates to framebuffer pixels and
// forwards it to the mouse move callback.
func (w *engineWindow) mouseMoved(x, y float64) {
	if w.onMouseMove != nil {
		w.onMouseMove(int32(x*w.cursorScaleX), int32(y*w.cursorScaleY))
	}
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetMouseMoveCallback(callback func(x, y int32)) {
	w.onMouseMove = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	if w.closed {
		return nil
	}
	if err := platformCloseWindow(w); err != nil {
		return err
	}
	w.closed = true
	return nil
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}
