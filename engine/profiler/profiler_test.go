package profiler

import (
	"testing"
	"time"
)

func TestTickReportsEachInterval(t *testing.T) {
	now := time.Unix(0, 0)
	var reports []Stats
	p := NewProfiler(
		WithInterval(time.Second),
		WithTimeSource(func() time.Time { return now }),
		WithReporter(func(s Stats) { reports = append(reports, s) }),
	)

	// 59 frames of 16ms plus one 56ms hitch: exactly one second.
	for i := range 60 {
		step := 16 * time.Millisecond
		if i == 30 {
			step = 56 * time.Millisecond
		}
		now = now.Add(step)
		reported := p.Tick()
		if reported != (i == 59) {
			t.Fatalf("frame %d reported = %v", i, reported)
		}
	}

	if len(reports) != 1 {
		t.Fatalf("reports = %d, want 1", len(reports))
	}
	s := reports[0]
	if s.FPS < 59.9 || s.FPS > 60.1 {
		t.Errorf("FPS = %v, want 60", s.FPS)
	}
	if s.WorstFrame != 56*time.Millisecond {
		t.Errorf("WorstFrame = %v", s.WorstFrame)
	}
	if s.AvgFrame != time.Second/60 {
		t.Errorf("AvgFrame = %v", s.AvgFrame)
	}
	if p.Last() != s {
		t.Error("Last() does not match the report")
	}

	// The next window starts fresh.
	now = now.Add(time.Second)
	p.Tick()
	if got := reports[len(reports)-1]; got.WorstFrame != time.Second || got.FPS != 1 {
		t.Errorf("second window = %+v", got)
	}
}

func TestWithIntervalIgnoresNonPositive(t *testing.T) {
	p := NewProfiler(WithInterval(0), WithInterval(-time.Second))
	if p.updateInterval != time.Second {
		t.Errorf("updateInterval = %v", p.updateInterval)
	}
}
