package counter

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-backdrop/engine/scheduler"
)

// Observer reports when elements become visible.
type Observer interface {
	// Observe registers cb to be called whenever el enters the viewport.
	Observe(el Element, cb func())
	// Unobserve stops reporting visibility for el.
	Unobserve(el Element)
}

// Binding ties one element to a counter that starts the first time the element is seen.
type Binding struct {
	once sync.Once
	run  *Run
}

// Bind observes el and starts exactly one animation on its first visibility callback,
// unobserving el at the same time. Later callbacks are ignored.
//
// Parameters:
//   - obs: the visibility observer
//   - s: the scheduler that will drive the animation
//   - el: the element to animate
//   - target: the final value
//   - fractional: display one decimal
//   - opts: options passed to Animate
//
// Returns:
//   - *Binding: the binding, whose Run is nil until the element is seen
func Bind(obs Observer, s scheduler.Scheduler, el Element, target float64, fractional bool, opts ...CounterOption) *Binding {
	b := &Binding{}
	obs.Observe(el, func() {
		b.once.Do(func() {
			obs.Unobserve(el)
			b.run = Animate(s, el, target, fractional, opts...)
		})
	})
	return b
}

// BindAttribute is Bind with the target read from attribute text via ParseTarget.
// An unparsable attribute binds nothing and returns nil.
func BindAttribute(obs Observer, s scheduler.Scheduler, el Element, attr string, opts ...CounterOption) *Binding {
	target, fractional, err := ParseTarget(attr)
	if err != nil {
		return nil
	}
	return Bind(obs, s, el, target, fractional, opts...)
}

// Run returns the started animation, or nil if the element has not been seen yet.
func (b *Binding) Run() *Run {
	return b.run
}

// Fired reports whether the animation has been started.
func (b *Binding) Fired() bool {
	return b.run != nil
}
