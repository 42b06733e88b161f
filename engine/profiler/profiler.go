package profiler

import (
	"log"
	"runtime"
	"time"
)

// Stats is one reporting window of the profiler.
type Stats struct {
	FPS float64
	// AvgFrame and WorstFrame are the mean and longest gap between ticks in the window.
	AvgFrame   time.Duration
	WorstFrame time.Duration
	HeapMB     float64
	AllocRate  float64
	GCCount    uint32
	SysMB      float64
}

// Profiler tracks frame rate, frame pacing and memory statistics.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	lastTick       time.Time
	worstFrame     time.Duration
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats

	now    func() time.Time
	report func(Stats)
}

// ProfilerOption is a functional option for configuring a Profiler.
type ProfilerOption func(p *Profiler)

// WithInterval sets how often statistics are reported. Non-positive values are ignored.
//
// Parameters:
//   - d: the reporting interval
//
// Returns:
//   - ProfilerOption: option function to apply
func WithInterval(d time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithTimeSource replaces time.Now, for tests and replays.
//
// Parameters:
//   - now: the time source
//
// Returns:
//   - ProfilerOption: option function to apply
func WithTimeSource(now func() time.Time) ProfilerOption {
	return func(p *Profiler) {
		if now != nil {
			p.now = now
		}
	}
}

// WithReporter replaces the default log output.
//
// Parameters:
//   - report: called with each window's statistics
//
// Returns:
//   - ProfilerOption: option function to apply
func WithReporter(report func(Stats)) ProfilerOption {
	return func(p *Profiler) {
		if report != nil {
			p.report = report
		}
	}
}

// NewProfiler creates a new Profiler. Update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
		report:         logStats,
	}
	for _, option := range options {
		option(p)
	}
	p.lastTime = p.now()
	p.lastTick = p.lastTime
	return p
}

// Tick should be called once per frame. It reports statistics when the update interval has elapsed.
//
// Returns:
//   - bool: true if stats were reported this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := p.now()
	p.worstFrame = max(p.worstFrame, currentTime.Sub(p.lastTick))
	p.lastTick = currentTime
	elapsed := currentTime.Sub(p.lastTime)

	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	s := Stats{
		FPS:        float64(p.frameCount) / elapsed.Seconds(),
		AvgFrame:   elapsed / time.Duration(p.frameCount),
		WorstFrame: p.worstFrame,
		HeapMB:     float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRate:  float64(allocDelta) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:    p.memStats.NumGC - p.lastGCCount,
		SysMB:      float64(p.memStats.Sys) / 1024 / 1024,
	}
	p.report(s)

	p.last = s
	p.frameCount = 0
	p.worstFrame = 0
	p.lastTime = currentTime
	p.lastGCCount = p.memStats.NumGC
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the most recently reported statistics.
func (p *Profiler) Last() Stats {
	return p.last
}

func logStats(s Stats) {
	log.Printf("[Profiler] FPS: %.2f | Frame: %s avg, %s worst | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d | Sys: %.2f MB",
		s.FPS, s.AvgFrame.Round(time.Microsecond), s.WorstFrame.Round(time.Microsecond), s.HeapMB, s.AllocRate, s.GCCount, s.SysMB)
}
