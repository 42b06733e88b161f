// Package glitch runs the ambient glitch pulse: at a fixed interval one random element has its
// animation switched off and back on shortly after, which restarts the effect on that element.
package glitch

import (
	"math/rand"
	"time"

	"github.com/Carmen-Shannon/oxy-backdrop/engine/scheduler"
)

// Element is anything with a toggleable glitch animation.
type Element interface {
	SetAnimation(on bool)
}

// Pulse is a running glitch timer.
type Pulse struct {
	sched    scheduler.Scheduler
	rng      *rand.Rand
	elements []Element
	interval time.Duration
	hold     time.Duration
	timer    *scheduler.Timer
	pulses   int
}

// Start begins pulsing elements every interval on s. An empty element list is allowed;
// every pulse on it does nothing.
//
// Parameters:
//   - s: the scheduler that drives the pulse
//   - rng: the random source used to pick elements
//   - elements: candidate elements
//   - options: functional options for interval and hold time
//
// Returns:
//   - *Pulse: the running pulse
func Start(s scheduler.Scheduler, rng *rand.Rand, elements []Element, options ...GlitchOption) *Pulse {
	if s == nil || rng == nil {
		panic("glitch: Start requires a scheduler and a random source")
	}
	p := &Pulse{
		sched:    s,
		rng:      rng,
		elements: elements,
		interval: 5 * time.Second,
		hold:     100 * time.Millisecond,
	}
	for _, opt := range options {
		opt(p)
	}
	p.timer = s.Every(p.interval, func() { p.Trigger() })
	return p
}

// Trigger pulses one random element now.
//
// Returns:
//   - Element: the element pulsed, or nil when there are none
func (p *Pulse) Trigger() Element {
	if len(p.elements) == 0 {
		return nil
	}
	el := p.elements[p.rng.Intn(len(p.elements))]
	el.SetAnimation(false)
	p.sched.After(p.hold, func() { el.SetAnimation(true) })
	p.pulses++
	return el
}

// Pulses returns how many elements have been pulsed so far.
func (p *Pulse) Pulses() int {
	return p.pulses
}

// Stop cancels future pulses. A restore already scheduled still runs.
func (p *Pulse) Stop() {
	p.timer.Cancel()
}
