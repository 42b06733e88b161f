package counter

import (
	"strings"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-backdrop/engine/scheduler"
)

type textElement struct {
	text    string
	history []string
}

func (e *textElement) SetText(s string) {
	e.text = s
	e.history = append(e.history, s)
}

type fakeObserver struct {
	callbacks  map[Element]func()
	unobserved int
}

func newFakeObserver() *fakeObserver {
	return &fakeObserver{callbacks: map[Element]func(){}}
}

func (o *fakeObserver) Observe(el Element, cb func()) { o.callbacks[el] = cb }

func (o *fakeObserver) Unobserve(el Element) {
	o.unobserved++
	// A real observer may still deliver an in-flight callback, so keep cb around.
}

func (o *fakeObserver) fire(el Element) {
	if cb, ok := o.callbacks[el]; ok {
		cb()
	}
}

func TestLinearSteppedScenario(t *testing.T) {
	clock := scheduler.NewManualClock(0)
	q := scheduler.NewQueue(clock)
	el := &textElement{}
	run := Animate(q, el, 50, false)

	for range 25 {
		clock.Advance(30 * time.Millisecond)
		q.Flush()
	}
	if el.text != "25" {
		t.Fatalf("after 25 ticks text = %q, want 25", el.text)
	}
	for range 25 {
		clock.Advance(30 * time.Millisecond)
		q.Flush()
	}
	if el.text != "50" || !run.Done() {
		t.Fatalf("after 50 ticks text = %q done = %v", el.text, run.Done())
	}
	if q.Pending() != 0 {
		t.Errorf("timer not cleared: %d pending", q.Pending())
	}
	n := len(el.history)
	clock.Advance(time.Second)
	q.Flush()
	if len(el.history) != n {
		t.Error("element written after completion")
	}
}

func TestEaseOutQuartScenario(t *testing.T) {
	clock := scheduler.NewManualClock(0)
	q := scheduler.NewQueue(clock)
	el := &textElement{}
	run := Animate(q, el, 100, false, WithStrategy(StrategyEaseOutQuart), WithDuration(2*time.Second))

	q.Flush()
	if el.text != "0" {
		t.Fatalf("first frame text = %q", el.text)
	}
	clock.Advance(time.Second)
	q.Flush()
	if el.text != "93" {
		t.Fatalf("text at 1000ms = %q, want 93", el.text)
	}
	clock.Advance(1500 * time.Millisecond)
	q.Flush()
	if el.text != "100" || !run.Done() {
		t.Fatalf("final text = %q done = %v", el.text, run.Done())
	}
	q.Flush()
	if q.Pending() != 0 {
		t.Errorf("still rescheduling: %d pending", q.Pending())
	}
}

func TestTerminatesOnExactTarget(t *testing.T) {
	tests := []struct {
		name       string
		target     float64
		fractional bool
		strategy   Strategy
		want       string
	}{
		{"linear int", 42, false, StrategyLinearStepped, "42"},
		{"linear fractional", 3.5, true, StrategyLinearStepped, "3.5"},
		{"linear awkward step", 0.7, true, StrategyLinearStepped, "0.7"},
		{"ease int", 42, false, StrategyEaseOutQuart, "42"},
		{"ease fractional", 3.5, true, StrategyEaseOutQuart, "3.5"},
		{"ease two decimals", 98.25, true, StrategyEaseOutQuart, "98.25"},
		{"zero", 0, false, StrategyLinearStepped, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := scheduler.NewManualClock(0)
			q := scheduler.NewQueue(clock)
			el := &textElement{}
			completed := 0
			run := Animate(q, el, tt.target, tt.fractional, WithStrategy(tt.strategy), WithOnComplete(func() { completed++ }))
			for i := 0; i < 1000 && !run.Done(); i++ {
				clock.Advance(16 * time.Millisecond)
				q.Flush()
			}
			if el.text != tt.want {
				t.Errorf("text = %q, want %q", el.text, tt.want)
			}
			if completed != 1 {
				t.Errorf("onComplete ran %d times", completed)
			}
		})
	}
}

func TestBindFiresOnce(t *testing.T) {
	clock := scheduler.NewManualClock(0)
	q := scheduler.NewQueue(clock)
	obs := newFakeObserver()
	el := &textElement{}
	b := Bind(obs, q, el, 10, false)

	q.Flush()
	if b.Fired() || len(el.history) != 0 {
		t.Fatal("animation ran before the element was visible")
	}

	obs.fire(el)
	first := b.Run()
	obs.fire(el)
	obs.fire(el)
	if b.Run() != first {
		t.Fatal("second visibility callback started another animation")
	}
	if obs.unobserved != 1 {
		t.Errorf("unobserved %d times", obs.unobserved)
	}
	for range 100 {
		clock.Advance(30 * time.Millisecond)
		q.Flush()
	}
	if el.text != "10" {
		t.Errorf("text = %q", el.text)
	}
}

func TestBindAttribute(t *testing.T) {
	q := scheduler.NewQueue(scheduler.NewManualClock(0))
	obs := newFakeObserver()
	if b := BindAttribute(obs, q, &textElement{}, "n/a"); b != nil {
		t.Error("unparsable target bound a counter")
	}
	if len(obs.callbacks) != 0 {
		t.Error("unparsable target registered an observer")
	}
	if b := BindAttribute(obs, q, &textElement{}, " 99.9 "); b == nil {
		t.Error("valid target not bound")
	}
}

func TestParseTarget(t *testing.T) {
	tests := []struct {
		in         string
		want       float64
		fractional bool
		wantErr    bool
	}{
		{"42", 42, false, false},
		{"3.5", 3.5, true, false},
		{" 1500 ", 1500, false, false},
		{"", 0, false, true},
		{"abc", 0, false, true},
		{"NaN", 0, false, true},
		{"Inf", 0, false, true},
	}
	for _, tt := range tests {
		v, frac, err := ParseTarget(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseTarget(%q) err = %v", tt.in, err)
		}
		if err == nil && (v != tt.want || frac != tt.fractional) {
			t.Errorf("ParseTarget(%q) = %v, %v", tt.in, v, frac)
		}
	}
}

func TestFormat(t *testing.T) {
	if got := Format(93.75, false); got != "93" {
		t.Errorf("Format int = %q", got)
	}
	if got := Format(3.28, true); got != "3.3" {
		t.Errorf("Format fractional = %q", got)
	}
	if got := EaseOutQuart(0.5); got != 0.9375 {
		t.Errorf("EaseOutQuart(0.5) = %v", got)
	}
}

func TestFormatTarget(t *testing.T) {
	tests := []struct {
		target     float64
		fractional bool
		want       string
	}{
		{3, true, "3.0"},
		{3.5, true, "3.5"},
		{98.25, true, "98.25"},
		{0, true, "0.0"},
		{1500, false, "1500"},
		{42.9, false, "42"},
	}
	for _, tt := range tests {
		if got := FormatTarget(tt.target, tt.fractional); got != tt.want {
			t.Errorf("FormatTarget(%v, %v) = %q, want %q", tt.target, tt.fractional, got, tt.want)
		}
	}
}

func TestFractionalWholeTargetKeepsDecimal(t *testing.T) {
	clock := scheduler.NewManualClock(0)
	q := scheduler.NewQueue(clock)
	el := &textElement{}
	v, frac, err := ParseTarget("3.0")
	if err != nil || !frac {
		t.Fatalf("ParseTarget = %v, %v, %v", v, frac, err)
	}
	run := Animate(q, el, v, frac)
	for i := 0; i < 100 && !run.Done(); i++ {
		clock.Advance(30 * time.Millisecond)
		q.Flush()
	}
	if el.text != "3.0" {
		t.Errorf("final text = %q, want 3.0", el.text)
	}
	for i, h := range el.history {
		if !strings.Contains(h, ".") {
			t.Errorf("history[%d] = %q has no decimal", i, h)
		}
	}
}

func TestParseStrategy(t *testing.T) {
	if s, err := ParseStrategy(""); err != nil || s != StrategyLinearStepped {
		t.Errorf("empty = %v, %v", s, err)
	}
	if s, err := ParseStrategy("Ease-Out-Quart"); err != nil || s != StrategyEaseOutQuart {
		t.Errorf("ease = %v, %v", s, err)
	}
	if _, err := ParseStrategy("bounce"); err == nil {
		t.Error("expected error")
	}
}
