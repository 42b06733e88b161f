package scheduler

import (
	"testing"
	"time"
)

func TestScheduleNextFrameRunsOnNextFlush(t *testing.T) {
	clock := NewManualClock(0)
	q := NewQueue(clock)

	var order []string
	q.ScheduleNextFrame(func() {
		order = append(order, "a")
		q.ScheduleNextFrame(func() { order = append(order, "c") })
	})
	q.ScheduleNextFrame(func() { order = append(order, "b") })

	q.Flush()
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("first flush ran %v", order)
	}
	q.Flush()
	if len(order) != 3 || order[2] != "c" {
		t.Fatalf("second flush ran %v", order)
	}
	q.Flush()
	if len(order) != 3 {
		t.Fatalf("callback ran twice: %v", order)
	}
}

func TestEveryFiresPerInterval(t *testing.T) {
	clock := NewManualClock(0)
	q := NewQueue(clock)
	ticks := 0
	timer := q.Every(30*time.Millisecond, func() { ticks++ })

	for range 5 {
		clock.Advance(30 * time.Millisecond)
		q.Flush()
	}
	if ticks != 5 {
		t.Fatalf("ticks = %d, want 5", ticks)
	}

	timer.Cancel()
	clock.Advance(time.Second)
	q.Flush()
	if ticks != 5 {
		t.Errorf("cancelled timer fired: %d", ticks)
	}
	if q.Pending() != 0 {
		t.Errorf("pending = %d", q.Pending())
	}
}

func TestCancelInsideCallback(t *testing.T) {
	clock := NewManualClock(0)
	q := NewQueue(clock)
	ticks := 0
	var timer *Timer
	timer = q.Every(10*time.Millisecond, func() {
		ticks++
		if ticks == 3 {
			timer.Cancel()
		}
	})
	for range 10 {
		clock.Advance(10 * time.Millisecond)
		q.Flush()
	}
	if ticks != 3 {
		t.Errorf("ticks = %d, want 3", ticks)
	}
}

func TestEveryDropsMissedIntervals(t *testing.T) {
	tests := []struct {
		name  string
		stall time.Duration
		after []time.Duration
		want  []int
	}{
		// Due at 30ms; a 95ms stall fires once and re-anchors to 125ms.
		{"long stall", 95 * time.Millisecond, []time.Duration{29 * time.Millisecond, time.Millisecond}, []int{1, 1, 2}},
		// A frame slightly late keeps the original cadence: 30ms, then 60ms.
		{"late frame", 31 * time.Millisecond, []time.Duration{29 * time.Millisecond}, []int{1, 2}},
		{"stall of many seconds", 10 * time.Second, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}, []int{1, 1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := NewManualClock(0)
			q := NewQueue(clock)
			ticks := 0
			q.Every(30*time.Millisecond, func() { ticks++ })

			clock.Advance(tt.stall)
			q.Flush()
			got := []int{ticks}
			for _, d := range tt.after {
				clock.Advance(d)
				q.Flush()
				got = append(got, ticks)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestAfterFiresOnce(t *testing.T) {
	clock := NewManualClock(time.Second)
	q := NewQueue(clock)
	fired := 0
	tm := q.After(100*time.Millisecond, func() { fired++ })

	clock.Advance(99 * time.Millisecond)
	q.Flush()
	if fired != 0 {
		t.Fatal("fired early")
	}
	clock.Advance(time.Millisecond)
	q.Flush()
	clock.Advance(time.Second)
	q.Flush()
	if fired != 1 {
		t.Errorf("fired = %d", fired)
	}
	if !tm.Cancelled() {
		t.Error("one-shot timer still live")
	}
}

func TestTimersFireInDueOrder(t *testing.T) {
	clock := NewManualClock(0)
	q := NewQueue(clock)
	var got []int
	q.After(50*time.Millisecond, func() { got = append(got, 2) })
	q.After(10*time.Millisecond, func() { got = append(got, 1) })
	q.After(50*time.Millisecond, func() { got = append(got, 3) })
	clock.Advance(time.Second)
	q.Flush()
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Errorf("order = %v", got)
	}
}

func TestTimerAddedDuringFlushWaits(t *testing.T) {
	clock := NewManualClock(0)
	q := NewQueue(clock)
	inner := 0
	q.After(0, func() {
		q.After(0, func() { inner++ })
	})
	q.Flush()
	if inner != 0 {
		t.Fatal("timer added during flush ran in the same flush")
	}
	q.Flush()
	if inner != 1 {
		t.Errorf("inner = %d", inner)
	}
}

func TestManualClockIgnoresNegative(t *testing.T) {
	c := NewManualClock(5)
	c.Advance(-10)
	if c.Now() != 5 {
		t.Errorf("Now = %v", c.Now())
	}
}
