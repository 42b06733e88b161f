package glitch

import "time"

// GlitchOption configures a Pulse before its timer starts.
type GlitchOption func(*Pulse)

// WithInterval sets the time between pulses. Non-positive values are ignored.
func WithInterval(d time.Duration) GlitchOption {
	return func(p *Pulse) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithHold sets how long the animation stays off during a pulse.
func WithHold(d time.Duration) GlitchOption {
	return func(p *Pulse) {
		p.hold = max(d, 0)
	}
}
