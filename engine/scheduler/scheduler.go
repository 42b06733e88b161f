// Package scheduler provides the cooperative, frame-driven callback queue used by everything
// that animates outside the main motion model: counters, the glitch pulse and one-shot delays.
//
// Nothing in this package spawns goroutines. Callbacks run only inside Queue.Flush, which the
// frame driver calls once per frame, so every callback shares the frame thread.
package scheduler

import (
	"sync"
	"sync/atomic"
	"time"
)

// Scheduler is the surface handed to animations.
type Scheduler interface {
	// Now returns the scheduler's current elapsed time.
	//
	// Returns:
	//   - time.Duration: elapsed time from the scheduler's clock
	Now() time.Duration

	// ScheduleNextFrame queues cb to run once on the next Flush.
	// Callbacks scheduled from inside a Flush run on the following one.
	//
	// Parameters:
	//   - cb: the callback to run
	ScheduleNextFrame(cb func())

	// Every runs cb each time interval elapses, starting one interval from now,
	// until the returned Timer is cancelled. Missed intervals are dropped rather than
	// replayed: the timer fires at most once per Flush.
	//
	// Parameters:
	//   - interval: the period, must be > 0
	//   - cb: the callback to run
	//
	// Returns:
	//   - *Timer: handle used to cancel the timer
	Every(interval time.Duration, cb func()) *Timer

	// After runs cb once after delay has elapsed.
	//
	// Parameters:
	//   - delay: time to wait
	//   - cb: the callback to run
	//
	// Returns:
	//   - *Timer: handle used to cancel the timer before it fires
	After(delay time.Duration, cb func()) *Timer
}

// Timer is a pending interval or one-shot callback.
type Timer struct {
	seq       uint64
	due       time.Duration
	interval  time.Duration
	cb        func()
	cancelled atomic.Bool
}

// Cancel stops the timer. It is safe to call from inside the timer's own callback and more than once.
func (t *Timer) Cancel() {
	t.cancelled.Store(true)
}

// Cancelled reports whether the timer was cancelled or, for a one-shot timer, has fired.
func (t *Timer) Cancelled() bool {
	return t.cancelled.Load()
}

// Queue is the Scheduler implementation driven by Flush.
type Queue struct {
	mu     sync.Mutex
	clock  Clock
	frames []func()
	timers []*Timer
	seq    uint64
}

var _ Scheduler = &Queue{}

// NewQueue creates an empty Queue reading time from clock.
//
// Parameters:
//   - clock: the time source, must not be nil
//
// Returns:
//   - *Queue: the new queue
func NewQueue(clock Clock) *Queue {
	if clock == nil {
		panic("scheduler: NewQueue requires a non-nil clock")
	}
	return &Queue{clock: clock}
}

func (q *Queue) Now() time.Duration {
	return q.clock.Now()
}

func (q *Queue) ScheduleNextFrame(cb func()) {
	if cb == nil {
		return
	}
	q.mu.Lock()
	q.frames = append(q.frames, cb)
	q.mu.Unlock()
}

func (q *Queue) Every(interval time.Duration, cb func()) *Timer {
	if interval <= 0 {
		panic("scheduler: Every requires a positive interval")
	}
	return q.add(interval, interval, cb)
}

func (q *Queue) After(delay time.Duration, cb func()) *Timer {
	return q.add(max(delay, 0), 0, cb)
}

func (q *Queue) add(delay, interval time.Duration, cb func()) *Timer {
	t := &Timer{interval: interval, cb: cb}
	if cb == nil {
		t.Cancel()
		return t
	}
	now := q.clock.Now()
	q.mu.Lock()
	q.seq++
	t.seq = q.seq
	t.due = now + delay
	q.timers = append(q.timers, t)
	q.mu.Unlock()
	return t
}

// Flush runs every frame callback queued before the call, then every timer that was pending
// before the call and is due at the current clock time, in due order (creation order on ties).
// An interval timer fires at most once per Flush; when it fell more than one interval
// behind it is re-anchored to one interval after now.
func (q *Queue) Flush() {
	now := q.clock.Now()

	q.mu.Lock()
	frames := q.frames
	q.frames = nil
	timers := append([]*Timer(nil), q.timers...)
	q.mu.Unlock()

	for _, cb := range frames {
		cb()
	}

	for {
		var next *Timer
		for _, t := range timers {
			if t.Cancelled() || t.due > now {
				continue
			}
			if next == nil || t.due < next.due || (t.due == next.due && t.seq < next.seq) {
				next = t
			}
		}
		if next == nil {
			break
		}
		if next.interval > 0 {
			next.due += next.interval
			if next.due <= now {
				next.due = now + next.interval
			}
		} else {
			next.Cancel()
		}
		next.cb()
	}

	q.mu.Lock()
	live := q.timers[:0]
	for _, t := range q.timers {
		if !t.Cancelled() {
			live = append(live, t)
		}
	}
	clear(q.timers[len(live):])
	q.timers = live
	q.mu.Unlock()
}

// Pending returns the number of queued frame callbacks plus live timers.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := len(q.frames)
	for _, t := range q.timers {
		if !t.Cancelled() {
			n++
		}
	}
	return n
}
