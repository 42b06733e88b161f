package scene

import (
	"fmt"
	"log"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/camera"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/model"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/motion"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/preset"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/sampler"
)

// maxChunks bounds the tasks submitted per cloud per frame, well below the pool's queue size.
const maxChunks = 64

// Pointer is the pointer position normalized to [-1, 1] on both axes, +Y up.
type Pointer struct {
	X, Y float32
}

// Scene is the explicit state of one running backdrop: the point clouds and shapes produced by
// the sampler, the pointer, and the camera that follows it. All mutation happens through
// Advance and the pointer/viewport setters, which the frame driver calls from one goroutine.
type Scene interface {
	// Name returns the scene name, taken from the preset unless overridden.
	Name() string

	// Preset returns the preset the scene was built from.
	Preset() *preset.Preset

	// Advance moves every cloud and shape to elapsed time t, then steps the camera toward the pointer.
	// Cloud points may be updated in parallel chunks; the call returns after every chunk is done.
	//
	// Parameters:
	//   - t: elapsed time in seconds
	Advance(t float64)

	// Render uploads the current state to the renderer and draws one frame.
	//
	// Returns:
	//   - error: an error if the renderer rejected an update or failed to draw
	Render() error

	// SetPointerPixels records the pointer from viewport pixel coordinates (origin top-left),
	// clamps it to [-1, 1] and nudges the cloud rotation by the normalized position.
	//
	// Parameters:
	//   - x, y: pointer position in pixels
	SetPointerPixels(x, y float64)

	// Pointer returns the normalized pointer position.
	Pointer() Pointer

	// SetViewport updates the viewport size used for pointer normalization and the camera aspect.
	// Non-positive sizes are ignored.
	//
	// Parameters:
	//   - width, height: the viewport size in pixels
	SetViewport(width, height int)

	// Viewport returns the viewport size.
	Viewport() (width, height int)

	// Camera returns the scene camera.
	Camera() camera.Camera

	// Follower returns the pointer-following camera controller.
	Follower() camera.Follower

	// Rand returns the scene's random source. Other components seeded from it stay reproducible.
	Rand() *rand.Rand

	// State returns a deep copy of the animated state.
	State() *motion.State

	// Close removes the scene's objects from the renderer.
	Close()
}

type scene struct {
	mu *sync.RWMutex

	name   string
	preset *preset.Preset
	rng    *rand.Rand

	state   *motion.State
	pointer Pointer
	nudge   float32
	width   int
	height  int

	cam      camera.Camera
	follower camera.Follower
	r        renderer.Renderer

	cloudHandles []renderer.Handle
	shapeHandles []renderer.Handle

	// computePool runs the chunked point update. Workers persist across frames; nil when
	// computeWorkers is 1 and the update runs inline.
	computePool    worker.DynamicWorkerPool
	computeWorkers int
	chunkSize      int
}

// Ensure scene implements Scene interface.
var _ Scene = &scene{}

// NewScene samples the preset's clouds and shapes, builds the follow camera and registers every
// object with the renderer. It panics if the renderer or preset is nil.
//
// Parameters:
//   - r: the renderer that will draw the scene
//   - p: a validated preset
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the scene, positioned at time zero
//   - error: an error if a shape geometry or renderer object could not be created
func NewScene(r renderer.Renderer, p *preset.Preset, options ...SceneBuilderOption) (Scene, error) {
	if r == nil {
		panic("scene: NewScene requires a non-nil Renderer")
	}
	if p == nil {
		panic("scene: NewScene requires a non-nil Preset")
	}

	s := &scene{
		mu:             &sync.RWMutex{},
		name:           p.Name,
		preset:         p,
		nudge:          p.Particles.PointerNudge,
		width:          1280,
		height:         720,
		r:              r,
		computeWorkers: max(runtime.NumCPU()-1, 1),
		chunkSize:      256,
	}
	for _, option := range options {
		option(s)
	}
	if s.rng == nil {
		seed := p.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		s.rng = rand.New(rand.NewSource(seed))
	}

	// Initialize the compute pool after options so WithComputeWorkers can override the default.
	if s.computeWorkers > 1 {
		s.computePool = worker.NewDynamicWorkerPool(s.computeWorkers, 256, 1*time.Second)
	}

	cloud := sampler.Sample(s.rng, p.Particles.Count, p.Distribution(), p.Palette())
	s.state = &motion.State{
		Clouds: []motion.PointCloud{cloud},
		Shapes: sampler.PlaceShapes(s.rng, p.ShapeSpecs(), p.Placement()),
		Config: p.MotionConfig(),
	}
	if s.state.Config.Anchored {
		s.state.Anchor()
	}

	s.follower = camera.NewFollower(
		camera.WithSmoothing(p.Camera.Smoothing),
		camera.WithFollowScale(p.Camera.FollowScale),
		camera.WithDistance(p.Camera.Distance),
	)
	s.cam = camera.NewCamera(
		camera.WithFov(p.FovRadians()),
		camera.WithClipPlanes(p.Camera.Near, p.Camera.Far),
		camera.WithAspect(float32(s.width)/float32(s.height)),
		camera.WithController(s.follower),
	)

	if err := s.register(); err != nil {
		s.Close()
		return nil, err
	}

	log.Printf("[Scene] %q: %d points, %d shapes, %d compute workers", s.name, cloud.Len(), len(s.state.Shapes), s.computeWorkers)
	return s, nil
}

// register creates one renderer object per cloud and shape.
func (s *scene) register() error {
	p := s.preset
	s.r.SetFog(renderer.Fog{Color: p.Fog.Color, Density: p.Fog.Density})

	for i := range s.state.Clouds {
		c := &s.state.Clouds[i]
		h, err := s.r.CreatePointCloud(c.Positions, c.Colors, renderer.Style{
			PointSize:        p.Particles.Size,
			Opacity:          p.Particles.Opacity,
			AdditiveBlending: p.Particles.Additive,
		})
		if err != nil {
			return fmt.Errorf("failed to create point cloud: %w", err)
		}
		s.cloudHandles = append(s.cloudHandles, h)
	}

	for i, sh := range s.state.Shapes {
		item := p.Shapes.Items[i]
		g, err := model.NewGeometry(sh.Kind, item.Size, item.Detail)
		if err != nil {
			return fmt.Errorf("failed to build shape %d: %w", i, err)
		}
		h, err := s.r.CreateMesh(g, renderer.Style{
			Opacity:   sh.Opacity,
			Wireframe: true,
			Color:     sh.Color,
		})
		if err != nil {
			return fmt.Errorf("failed to create shape %d: %w", i, err)
		}
		s.shapeHandles = append(s.shapeHandles, h)
	}
	return nil
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Preset() *preset.Preset {
	return s.preset
}

func (s *scene) Advance(t float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.state.Config
	for i := range s.state.Clouds {
		c := &s.state.Clouds[i]
		motion.SpinCloud(c, cfg)
		s.advancePoints(c, t, cfg)
	}
	s.state.AdvanceShapes(t)

	s.follower.Follow(s.pointer.X, s.pointer.Y)
	s.cam.Update()
}

// advancePoints updates the cloud points, split into disjoint chunks on the compute pool when the
// cloud is large enough. Each point depends only on its own coordinates, so the chunked result is
// identical to the serial one.
func (s *scene) advancePoints(c *motion.PointCloud, t float64, cfg motion.Config) {
	n := c.Len()
	base := c.Base()
	if s.computePool == nil || n < 2*s.chunkSize {
		motion.AdvanceCloudPoints(c.Positions, base, t, cfg)
		return
	}

	chunks := min((n+s.chunkSize-1)/s.chunkSize, maxChunks)
	per := (n + chunks - 1) / chunks

	// A WaitGroup gives the per-frame barrier; the pool itself is never drained.
	var wg sync.WaitGroup
	for id, lo := 0, 0; lo < n; id, lo = id+1, lo+per {
		hi := min(lo+per, n)
		pos := c.Positions[lo*3 : hi*3]
		var chunkBase []float32
		if len(base) > 0 {
			chunkBase = base[lo:hi]
		}
		wg.Add(1)
		s.computePool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				motion.AdvanceCloudPoints(pos, chunkBase, t, cfg)
				return nil, nil
			},
		})
	}
	wg.Wait()
}

func (s *scene) Render() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i, h := range s.cloudHandles {
		c := &s.state.Clouds[i]
		if err := s.r.UpdatePoints(h, c.Positions); err != nil {
			return fmt.Errorf("failed to upload cloud %d: %w", i, err)
		}
		if err := s.r.SetTransform(h, [3]float32{}, c.Rotation); err != nil {
			return fmt.Errorf("failed to place cloud %d: %w", i, err)
		}
	}
	for i, h := range s.shapeHandles {
		sh := &s.state.Shapes[i]
		if err := s.r.SetTransform(h, sh.Position, sh.Rotation); err != nil {
			return fmt.Errorf("failed to place shape %d: %w", i, err)
		}
	}
	return s.r.Render(s.cam)
}

func (s *scene) SetPointerPixels(x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.width <= 0 || s.height <= 0 {
		return
	}
	px := common.Clamp(float32(x/float64(s.width)*2-1), -1, 1)
	py := common.Clamp(float32(-(y/float64(s.height))*2+1), -1, 1)
	s.pointer = Pointer{X: px, Y: py}

	for i := range s.state.Clouds {
		s.state.Clouds[i].Rotation[0] += py * s.nudge
		s.state.Clouds[i].Rotation[1] += px * s.nudge
	}
}

func (s *scene) Pointer() Pointer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pointer
}

func (s *scene) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width, s.height = width, height
	s.cam.SetAspect(float32(width) / float32(height))
}

func (s *scene) Viewport() (width, height int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height
}

func (s *scene) Camera() camera.Camera {
	return s.cam
}

func (s *scene) Follower() camera.Follower {
	return s.follower
}

func (s *scene) Rand() *rand.Rand {
	return s.rng
}

func (s *scene) State() *motion.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

func (s *scene) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, h := range append(s.cloudHandles, s.shapeHandles...) {
		_ = s.r.Remove(h)
	}
	s.cloudHandles = nil
	s.shapeHandles = nil
}
