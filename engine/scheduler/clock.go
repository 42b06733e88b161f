package scheduler

import (
	"sync"
	"time"
)

// Clock reports elapsed time since an arbitrary fixed origin.
type Clock interface {
	// Now returns the time elapsed since the clock's origin.
	//
	// Returns:
	//   - time.Duration: elapsed time, never decreasing
	Now() time.Duration
}

type systemClock struct {
	start time.Time
}

// NewSystemClock returns a wall clock whose origin is the moment of the call.
//
// Returns:
//   - Clock: the system clock
func NewSystemClock() Clock {
	return &systemClock{start: time.Now()}
}

func (c *systemClock) Now() time.Duration {
	return time.Since(c.start)
}

// ManualClock is a Clock that only moves when told to. Safe for concurrent use.
type ManualClock struct {
	mu  sync.Mutex
	now time.Duration
}

var _ Clock = &ManualClock{}

// NewManualClock returns a ManualClock starting at start.
func NewManualClock(start time.Duration) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d. Negative values are ignored.
func (c *ManualClock) Advance(d time.Duration) {
	if d <= 0 {
		return
	}
	c.mu.Lock()
	c.now += d
	c.mu.Unlock()
}
