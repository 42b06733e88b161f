package renderer

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/camera"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/model"
)

var (
	// ErrUnknownHandle is returned when a Handle does not name a live object.
	ErrUnknownHandle = errors.New("unknown render handle")

	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("renderer is closed")
)

// Handle names an object created on a Renderer.
type Handle uint32

// Style controls how an object is drawn.
type Style struct {
	// PointSize is the side of a point sprite in world units.
	PointSize float32
	// Opacity in [0, 1].
	Opacity          float32
	AdditiveBlending bool
	Wireframe        bool
	// Color is used by meshes; point clouds carry per-point colors.
	Color common.Hex
}

// Fog is exponential-squared distance fog.
type Fog struct {
	Color   common.Hex
	Density float32
}

type objectKind int

const (
	objectPoints objectKind = iota
	objectMesh
)

type object struct {
	kind  objectKind
	style Style

	// local holds xyz triples: the points of a cloud or the segment endpoints of a mesh.
	local  []float32
	world  []float32
	colors []float32

	position [3]float32
	rotation [3]float32
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backend RendererBackend

	objects map[Handle]*object
	order   []Handle
	next    Handle

	fog        Fog
	background common.Hex
	width      int
	height     int
	closed     bool

	frame Frame
	model [16]float32

	// Pre-creation config collected from builder options
	pendingPresentMode *PresentMode
}

// Renderer defines the interface for the rendering system.
//
// The Renderer owns the drawable objects of a scene behind opaque handles. Each Render call
// transforms every object into world space, snapshots the camera and fog into a Frame and
// hands it to the backend.
type Renderer interface {
	// CreatePointCloud registers a point cloud.
	//
	// Parameters:
	//   - positions: xyz triples in object space, copied
	//   - colors: rgb triples, one per point, copied
	//   - style: the draw style
	//
	// Returns:
	//   - Handle: the new object's handle
	//   - error: an error if the slices are malformed
	CreatePointCloud(positions, colors []float32, style Style) (Handle, error)

	// CreateMesh registers a wireframe built from the geometry's edges.
	//
	// Parameters:
	//   - g: the geometry to draw
	//   - style: the draw style; Color and Opacity tint the edges
	//
	// Returns:
	//   - Handle: the new object's handle
	//   - error: an error if the geometry has no edges
	CreateMesh(g model.Geometry, style Style) (Handle, error)

	// SetTransform places an object in the world.
	//
	// Parameters:
	//   - h: the object handle
	//   - position: world-space translation
	//   - rotation: Euler angles in radians
	//
	// Returns:
	//   - error: ErrUnknownHandle if h is not live
	SetTransform(h Handle, position, rotation [3]float32) error

	// UpdatePoints replaces the object-space positions of a point cloud.
	// The point count is fixed at creation.
	//
	// Parameters:
	//   - h: the point cloud handle
	//   - positions: xyz triples, same length as at creation
	//
	// Returns:
	//   - error: ErrUnknownHandle, or an error if the length changed
	UpdatePoints(h Handle, positions []float32) error

	// Remove drops an object.
	//
	// Parameters:
	//   - h: the object handle
	//
	// Returns:
	//   - error: ErrUnknownHandle if h is not live
	Remove(h Handle) error

	// Objects returns the number of live objects.
	Objects() int

	// SetFog replaces the fog settings.
	SetFog(f Fog)

	// Fog returns the current fog settings.
	Fog() Fog

	// SetPresentMode changes how frames are presented.
	SetPresentMode(mode PresentMode)

	// Render draws one frame as seen by the camera.
	//
	// Parameters:
	//   - cam: the camera to view through
	//
	// Returns:
	//   - error: an error if the backend failed to draw
	Render(cam camera.Camera) error

	// Resize reconfigures the render target. Non-positive sizes are ignored.
	//
	// Parameters:
	//   - width: the new width
	//   - height: the new height
	Resize(width, height int)

	// Size returns the current render target size.
	Size() (width, height int)

	// Backend returns the backend drawing the frames.
	Backend() RendererBackend

	// Close releases the backend. Later calls fail with ErrClosed.
	Close()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer drawing through the given backend and configures the
// backend's target at the initial size.
//
// Parameters:
//   - backend: the backend to draw with; must not be nil
//   - width: initial target width
//   - height: initial target height
//   - options: functional options applied to the renderer
//
// Returns:
//   - Renderer: the new renderer
//   - error: an error if the backend could not be configured
func NewRenderer(backend RendererBackend, width, height int, options ...RendererBuilderOption) (Renderer, error) {
	if backend == nil {
		panic("renderer: nil backend")
	}
	r := &renderer{
		mu:         &sync.Mutex{},
		backend:    backend,
		objects:    make(map[Handle]*object),
		background: 0x000000,
		width:      width,
		height:     height,
	}
	for _, opt := range options {
		opt(r)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	if err := r.backend.Configure(width, height); err != nil {
		return nil, fmt.Errorf("failed to configure %s backend: %w", backend.Type(), err)
	}
	return r, nil
}

func (r *renderer) CreatePointCloud(positions, colors []float32, style Style) (Handle, error) {
	if len(positions)%3 != 0 {
		return 0, fmt.Errorf("point positions length %d is not a multiple of 3", len(positions))
	}
	if len(colors) != len(positions) {
		return 0, fmt.Errorf("point colors length %d does not match positions length %d", len(colors), len(positions))
	}
	obj := &object{
		kind:   objectPoints,
		style:  style,
		local:  append([]float32(nil), positions...),
		world:  make([]float32, len(positions)),
		colors: append([]float32(nil), colors...),
	}
	return r.add(obj)
}

func (r *renderer) CreateMesh(g model.Geometry, style Style) (Handle, error) {
	if len(g.Edges) == 0 {
		return 0, fmt.Errorf("geometry %q has no edges", g.Kind)
	}
	verts := g.LineVertices()
	local := make([]float32, 0, len(verts)*3)
	for _, v := range verts {
		local = append(local, v[0], v[1], v[2])
	}
	obj := &object{
		kind:  objectMesh,
		style: style,
		local: local,
		world: make([]float32, len(local)),
	}
	return r.add(obj)
}

func (r *renderer) add(obj *object) (Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return 0, ErrClosed
	}
	r.next++
	h := r.next
	r.objects[h] = obj
	r.order = append(r.order, h)
	return h, nil
}

func (r *renderer) lookup(h Handle) (*object, error) {
	if r.closed {
		return nil, ErrClosed
	}
	obj, ok := r.objects[h]
	if !ok {
		return nil, fmt.Errorf("handle %d: %w", h, ErrUnknownHandle)
	}
	return obj, nil
}

func (r *renderer) SetTransform(h Handle, position, rotation [3]float32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	obj, err := r.lookup(h)
	if err != nil {
		return err
	}
	obj.position = position
	obj.rotation = rotation
	return nil
}

func (r *renderer) UpdatePoints(h Handle, positions []float32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	obj, err := r.lookup(h)
	if err != nil {
		return err
	}
	if obj.kind != objectPoints {
		return fmt.Errorf("handle %d is not a point cloud", h)
	}
	if len(positions) != len(obj.local) {
		return fmt.Errorf("handle %d: point count changed from %d to %d", h, len(obj.local)/3, len(positions)/3)
	}
	copy(obj.local, positions)
	return nil
}

func (r *renderer) Remove(h Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.lookup(h); err != nil {
		return err
	}
	delete(r.objects, h)
	for i, o := range r.order {
		if o == h {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *renderer) Objects() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.objects)
}

func (r *renderer) SetFog(f Fog) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fog = f
}

func (r *renderer) Fog() Fog {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fog
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) Render(cam camera.Camera) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	r.buildFrame(cam)
	if err := r.backend.Draw(&r.frame); err != nil {
		return fmt.Errorf("failed to draw frame: %w", err)
	}
	return nil
}

// buildFrame fills r.frame from the camera and every live object, in creation order.
func (r *renderer) buildFrame(cam camera.Camera) {
	f := &r.frame
	f.reset()
	f.Width, f.Height = r.width, r.height
	f.View = cam.ViewMatrix()
	f.Proj = cam.ProjectionMatrix()
	f.ViewProj = cam.ViewProjectionMatrix()
	f.Eye[0], f.Eye[1], f.Eye[2] = cam.Position()
	f.Background = r.background.RGB()
	f.FogColor = r.fog.Color.RGB()
	f.FogDensity = r.fog.Density

	for _, h := range r.order {
		obj := r.objects[h]
		common.BuildModelMatrix(r.model[:],
			obj.position[0], obj.position[1], obj.position[2],
			obj.rotation[0], obj.rotation[1], obj.rotation[2],
			1, 1, 1)
		transformInto(obj.world, obj.local, r.model[:])

		switch obj.kind {
		case objectPoints:
			f.Points = append(f.Points, PointBatch{World: obj.world, Colors: obj.colors, Style: obj.style})
		case objectMesh:
			f.Lines = append(f.Lines, LineBatch{World: obj.world, Color: obj.style.Color.RGB(), Style: obj.style})
		}
	}
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.width, r.height = width, height
	if err := r.backend.Configure(width, height); err != nil {
		log.Printf("[Renderer] resize to %dx%d failed: %v", width, height, err)
	}
}

func (r *renderer) Size() (width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *renderer) Backend() RendererBackend {
	return r.backend
}

func (r *renderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	r.backend.Close()
	r.objects = map[Handle]*object{}
	r.order = nil
}
