package counter

import "time"

type options struct {
	strategy   Strategy
	duration   time.Duration
	interval   time.Duration
	steps      int
	onComplete func()
}

func defaultOptions() options {
	return options{
		strategy: StrategyLinearStepped,
		duration: 2 * time.Second,
		interval: 30 * time.Millisecond,
		steps:    50,
	}
}

// CounterOption configures a counter animation.
type CounterOption func(*options)

// WithStrategy selects the easing strategy.
func WithStrategy(s Strategy) CounterOption {
	return func(o *options) {
		if s != "" {
			o.strategy = s
		}
	}
}

// WithDuration sets the total duration of the ease-out-quart strategy.
func WithDuration(d time.Duration) CounterOption {
	return func(o *options) {
		o.duration = d
	}
}

// WithInterval sets the tick period of the linear strategy. Non-positive values are ignored.
func WithInterval(d time.Duration) CounterOption {
	return func(o *options) {
		if d > 0 {
			o.interval = d
		}
	}
}

// WithSteps sets how many ticks the linear strategy takes to reach the target. Values below 1 are ignored.
func WithSteps(n int) CounterOption {
	return func(o *options) {
		if n > 0 {
			o.steps = n
		}
	}
}

// WithOnComplete registers a callback run once after the final value is displayed.
func WithOnComplete(fn func()) CounterOption {
	return func(o *options) {
		o.onComplete = fn
	}
}
