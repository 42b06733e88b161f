// Package counter animates numeric stat counters from zero up to a target once they become visible.
package counter

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/scheduler"
)

// Element is anything that can display the counter text.
type Element interface {
	SetText(text string)
}

// Strategy selects how the displayed value approaches the target.
type Strategy string

const (
	// StrategyLinearStepped adds target/Steps every Interval.
	StrategyLinearStepped Strategy = "linear"
	// StrategyEaseOutQuart follows 1-(1-p)^4 over Duration, one step per frame.
	StrategyEaseOutQuart Strategy = "ease-out-quart"
)

// ParseStrategy maps a config string to a Strategy. The empty string selects StrategyLinearStepped.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyLinearStepped:
		return StrategyLinearStepped, nil
	case StrategyEaseOutQuart:
		return StrategyEaseOutQuart, nil
	}
	return "", fmt.Errorf("unknown counter strategy %q", s)
}

// Run is one animation of one element. It is driven entirely by the scheduler it was started on.
type Run struct {
	el         Element
	target     float64
	fractional bool
	opts       options

	sched   scheduler.Scheduler
	start   time.Duration
	current float64
	timer   *scheduler.Timer
	done    bool
	text    string
}

// Animate starts counting el from 0 to target. The first update happens on the next
// scheduler flush; nothing is displayed before that.
//
// Parameters:
//   - s: the scheduler that drives the animation
//   - el: the element to write into
//   - target: the final value
//   - fractional: display one decimal instead of a floored integer
//   - opts: strategy and timing options
//
// Returns:
//   - *Run: the running animation
func Animate(s scheduler.Scheduler, el Element, target float64, fractional bool, opts ...CounterOption) *Run {
	if s == nil || el == nil {
		panic("counter: Animate requires a scheduler and an element")
	}
	r := &Run{
		el:         el,
		target:     target,
		fractional: fractional,
		opts:       defaultOptions(),
		sched:      s,
		start:      s.Now(),
	}
	for _, opt := range opts {
		opt(&r.opts)
	}

	switch r.opts.strategy {
	case StrategyEaseOutQuart:
		s.ScheduleNextFrame(r.easeStep)
	default:
		r.timer = s.Every(r.opts.interval, r.linearStep)
	}
	return r
}

// Done reports whether the animation has displayed its final value.
func (r *Run) Done() bool {
	return r.done
}

// Text returns the last text written to the element.
func (r *Run) Text() string {
	return r.text
}

func (r *Run) linearStep() {
	if r.done {
		return
	}
	r.current += r.target / float64(r.opts.steps)
	if r.current >= r.target {
		r.timer.Cancel()
		r.finish()
		return
	}
	r.show(Format(r.current, r.fractional))
}

func (r *Run) easeStep() {
	if r.done {
		return
	}
	progress := 1.0
	if r.opts.duration > 0 {
		progress = common.Clamp(float64(r.sched.Now()-r.start)/float64(r.opts.duration), 0, 1)
	}
	if progress >= 1 {
		r.finish()
		return
	}
	r.show(Format(r.target*EaseOutQuart(progress), r.fractional))
	r.sched.ScheduleNextFrame(r.easeStep)
}

func (r *Run) finish() {
	r.done = true
	r.show(FormatTarget(r.target, r.fractional))
	if r.opts.onComplete != nil {
		r.opts.onComplete()
	}
}

func (r *Run) show(text string) {
	r.text = text
	r.el.SetText(text)
}

// EaseOutQuart maps progress p in [0,1] to 1-(1-p)^4.
func EaseOutQuart(p float64) float64 {
	inv := 1 - p
	return 1 - inv*inv*inv*inv
}

// Format renders an in-flight value: one decimal when fractional, otherwise floored.
//
// Parameters:
//   - v: the value to render
//   - fractional: whether to keep one decimal
//
// Returns:
//   - string: the rendered value
func Format(v float64, fractional bool) string {
	if fractional {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(math.Floor(v), 'f', 0, 64)
}

// FormatTarget renders the final value so that it reads back as exactly the target.
// Fractional targets keep at least one decimal, so "3.0" stays "3.0".
func FormatTarget(target float64, fractional bool) string {
	if fractional {
		if s := strconv.FormatFloat(target, 'f', -1, 64); strings.Contains(s, ".") {
			return s
		}
		return strconv.FormatFloat(target, 'f', 1, 64)
	}
	return Format(target, false)
}

// ParseTarget reads a data-target style attribute. A value containing a decimal point is fractional.
//
// Parameters:
//   - s: the attribute text
//
// Returns:
//   - float64: the target
//   - bool: whether the target is fractional
//   - error: if s is not a finite number
func ParseTarget(s string) (float64, bool, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, fmt.Errorf("failed to parse counter target: %w", err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false, fmt.Errorf("counter target %q is not finite", s)
	}
	return v, strings.Contains(s, "."), nil
}
