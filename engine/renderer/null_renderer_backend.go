package renderer

import (
	"sync"
)

// NullBackend is a RendererBackend that draws nothing and keeps a copy of the last frame.
// It backs headless runs and tests.
type NullBackend struct {
	mu *sync.Mutex

	frames      int
	configures  int
	width       int
	height      int
	presentMode PresentMode
	closed      bool
	last        Frame
	err         error
}

var _ RendererBackend = &NullBackend{}

// NewNullBackend creates a NullBackend.
func NewNullBackend() *NullBackend {
	return &NullBackend{mu: &sync.Mutex{}}
}

func (b *NullBackend) Type() RendererBackendType {
	return BackendTypeNull
}

func (b *NullBackend) Configure(width, height int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.configures++
	b.width, b.height = width, height
	return nil
}

func (b *NullBackend) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.presentMode = mode
}

func (b *NullBackend) Draw(f *Frame) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.err != nil {
		return b.err
	}
	b.frames++
	b.last = cloneFrame(f)
	return nil
}

func (b *NullBackend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
}

// FailWith makes every later Draw return err; nil clears it.
func (b *NullBackend) FailWith(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.err = err
}

// Frames returns the number of frames drawn.
func (b *NullBackend) Frames() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frames
}

// Configures returns the number of Configure calls.
func (b *NullBackend) Configures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.configures
}

// Size returns the last configured size.
func (b *NullBackend) Size() (width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

// PresentMode returns the last present mode set.
func (b *NullBackend) PresentMode() PresentMode {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.presentMode
}

// Closed reports whether Close was called.
func (b *NullBackend) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// Last returns a deep copy of the last drawn frame.
func (b *NullBackend) Last() Frame {
	b.mu.Lock()
	defer b.mu.Unlock()
	return cloneFrame(&b.last)
}

func cloneFrame(f *Frame) Frame {
	out := *f
	out.Points = make([]PointBatch, len(f.Points))
	for i, p := range f.Points {
		p.World = append([]float32(nil), p.World...)
		p.Colors = append([]float32(nil), p.Colors...)
		out.Points[i] = p
	}
	out.Lines = make([]LineBatch, len(f.Lines))
	for i, l := range f.Lines {
		l.World = append([]float32(nil), l.World...)
		out.Lines[i] = l
	}
	return out
}
