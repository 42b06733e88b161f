package engine

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-backdrop/engine/audio"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/counter"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/glitch"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/profiler"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/scene"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/scheduler"
)

// ErrAlreadyStarted is returned by Start after the first successful call.
var ErrAlreadyStarted = errors.New("engine already started")

// State is the lifecycle state of the frame driver.
type State int

const (
	// StateUninitialized is the state before Start; Frame does nothing.
	StateUninitialized State = iota
	// StateRunning is entered once by Start and never left.
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRunning:
		return "running"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Host delivers frames and input to the engine. window.Window and renderer.TerminalHost implement it.
type Host interface {
	SetUpdateCallback(callback func())
	SetMouseMoveCallback(callback func(x, y int32))
	SetResizeCallback(callback func(width, height int))
	Width() int
	Height() int
	// ProcessMessages blocks, calling the update callback once per frame, until the host closes.
	ProcessMessages()
	IsRunning() bool
	Close() error
}

// Overlay is the element tree around the backdrop: stat counters that start when seen and the
// elements the glitch pulse may pick.
type Overlay interface {
	counter.Observer
	StatElements() []counter.Element
	GlitchElements() []glitch.Element
}

// engine implements the Engine interface.
// All frame work happens on the goroutine that runs the host loop.
type engine struct {
	state State

	host     Host
	renderer renderer.Renderer
	scene    scene.Scene
	overlay  Overlay

	clock scheduler.Clock
	queue *scheduler.Queue

	bindings []*counter.Binding
	pulse    *glitch.Pulse
	cue      *audio.Cue

	profiler         *profiler.Profiler
	profilingEnabled bool

	frames    uint64
	recovered int
	lastErr   string

	quitOnce sync.Once
}

// Engine is the frame driver. It sequences one backdrop frame per host tick: elapsed time,
// motion, camera, render, then the scheduled callbacks of counters and the glitch pulse.
type Engine interface {
	// State returns the lifecycle state.
	State() State

	// Start binds the overlay counters, starts the glitch pulse and opens the audio cue, then
	// enters StateRunning. It can succeed only once.
	//
	// Returns:
	//   - error: ErrAlreadyStarted on a second call
	Start() error

	// Frame runs one frame. It does nothing before Start. A panic inside the frame is recovered
	// and logged, and the frame is skipped.
	Frame()

	// Run starts the engine if needed and blocks in the host loop until the host closes,
	// then releases the scene, renderer and host.
	Run()

	// Quit closes the host, which ends Run. Safe to call multiple times.
	Quit()

	// Scene returns the driven scene.
	Scene() scene.Scene

	// Scheduler returns the queue flushed once per frame.
	Scheduler() scheduler.Scheduler

	// Bindings returns the counter bindings created by Start.
	Bindings() []*counter.Binding

	// Pulse returns the glitch pulse started by Start, or nil before Start.
	Pulse() *glitch.Pulse

	// Frames returns the number of completed frames.
	Frames() uint64

	// Recovered returns the number of frames skipped after a panic.
	Recovered() int

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()
}

var _ Engine = &engine{}

// NewEngine wires a scene and its renderer to a host. The host's update, pointer and resize
// callbacks are taken over by the engine. Panics if any of host, r or s is nil.
//
// Parameters:
//   - host: the frame and input source
//   - r: the renderer the scene draws into, resized with the host
//   - s: the scene to drive
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the engine in StateUninitialized
func NewEngine(host Host, r renderer.Renderer, s scene.Scene, options ...EngineBuilderOption) Engine {
	if host == nil || r == nil || s == nil {
		panic("engine: NewEngine requires a host, a renderer and a scene")
	}
	e := &engine{
		state:    StateUninitialized,
		host:     host,
		renderer: r,
		scene:    s,
		profiler: profiler.NewProfiler(),
	}
	for _, opt := range options {
		opt(e)
	}
	if e.clock == nil {
		e.clock = scheduler.NewSystemClock()
	}
	e.queue = scheduler.NewQueue(e.clock)

	host.SetUpdateCallback(e.Frame)
	host.SetMouseMoveCallback(func(x, y int32) {
		e.scene.SetPointerPixels(float64(x), float64(y))
	})
	host.SetResizeCallback(e.resize)
	e.resize(host.Width(), host.Height())

	return e
}

// resize propagates a new host size to the renderer and the scene viewport.
func (e *engine) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	e.renderer.Resize(width, height)
	e.scene.SetViewport(width, height)
}

func (e *engine) State() State {
	return e.state
}

func (e *engine) Start() error {
	if e.state != StateUninitialized {
		return ErrAlreadyStarted
	}
	p := e.scene.Preset()

	if e.cue == nil && p.Audio.Enabled {
		e.cue = audio.NewCue(audio.WithTone(p.Audio.Frequency, p.Audio.Length))
	}
	if e.cue != nil {
		if err := e.cue.Init(); err != nil {
			log.Printf("[Engine] audio disabled: %v", err)
			e.cue = nil
		}
	}

	if e.overlay != nil {
		e.bindCounters()
		e.pulse = glitch.Start(e.queue, e.scene.Rand(), e.overlay.GlitchElements(), p.GlitchOptions()...)
	}

	e.state = StateRunning
	w, h := e.renderer.Size()
	log.Printf("[Engine] %s backdrop running: %s backend, %dx%d, %d counters", e.scene.Name(), e.renderer.Backend().Type(), w, h, len(e.bindings))
	return nil
}

// bindCounters pairs each overlay stat element with the preset stat at the same index.
// Stats with an unparsable target are skipped.
func (e *engine) bindCounters() {
	p := e.scene.Preset()
	els := e.overlay.StatElements()
	for i, el := range els {
		if i >= len(p.Counters.Stats) {
			break
		}
		stat := p.Counters.Stats[i]
		opts := append(p.CounterOptions(), counter.WithOnComplete(func() {
			log.Printf("[Engine] counter %q reached %s", stat.Label, stat.Target)
			if e.cue != nil {
				e.cue.Play()
			}
		}))
		b := counter.BindAttribute(e.overlay, e.queue, el, stat.Target, opts...)
		if b == nil {
			log.Printf("[Engine] skipping counter %q: unparsable target %q", stat.Label, stat.Target)
			continue
		}
		e.bindings = append(e.bindings, b)
	}
}

func (e *engine) Frame() {
	if e.state != StateRunning {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			e.recovered++
			log.Printf("[Engine] frame %d recovered from panic: %v", e.frames, r)
		}
	}()

	t := e.clock.Now().Seconds()
	e.scene.Advance(t)
	if err := e.scene.Render(); err != nil {
		// Repeated failures (e.g. a minimized surface) are logged once until the error changes.
		if msg := err.Error(); msg != e.lastErr {
			log.Printf("[Engine] render failed: %v", err)
			e.lastErr = msg
		}
	} else {
		e.lastErr = ""
	}
	e.queue.Flush()
	e.frames++

	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick()
	}
}

func (e *engine) Run() {
	if e.state == StateUninitialized {
		if err := e.Start(); err != nil {
			log.Printf("[Engine] start failed: %v", err)
			return
		}
	}
	e.host.ProcessMessages()
	e.shutdown()
}

// shutdown releases everything the engine owns, in reverse order of creation.
func (e *engine) shutdown() {
	if e.pulse != nil {
		e.pulse.Stop()
	}
	if e.cue != nil {
		e.cue.Close()
	}
	e.scene.Close()
	e.renderer.Close()
	e.Quit()
	log.Printf("[Engine] stopped after %d frames", e.frames)
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		if err := e.host.Close(); err != nil {
			log.Printf("[Engine] failed to close host: %v", err)
		}
	})
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) Scheduler() scheduler.Scheduler {
	return e.queue
}

func (e *engine) Bindings() []*counter.Binding {
	return e.bindings
}

func (e *engine) Pulse() *glitch.Pulse {
	return e.pulse
}

func (e *engine) Frames() uint64 {
	return e.frames
}

func (e *engine) Recovered() int {
	return e.recovered
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}
