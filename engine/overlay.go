package engine

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-backdrop/engine/counter"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/glitch"
)

// HeadlessOverlay is the Overlay for hosts that draw no text, such as the GPU window.
// Every stat is visible from the start, so counters begin on the first frame; values are
// only held in memory. It offers no glitch targets, which makes the pulse a no-op.
type HeadlessOverlay struct {
	stats []*Stat
}

var _ Overlay = &HeadlessOverlay{}

// Stat is one in-memory counter element.
type Stat struct {
	mu    *sync.Mutex
	label string
	text  string
}

var _ counter.Element = &Stat{}

// NewHeadlessOverlay creates one stat per label, each showing "0".
//
// Parameters:
//   - labels: the stat labels
//
// Returns:
//   - *HeadlessOverlay: the overlay
func NewHeadlessOverlay(labels []string) *HeadlessOverlay {
	o := &HeadlessOverlay{}
	for _, l := range labels {
		o.stats = append(o.stats, &Stat{mu: &sync.Mutex{}, label: l, text: "0"})
	}
	return o
}

// Stats returns the stats in order.
func (o *HeadlessOverlay) Stats() []*Stat {
	return o.stats
}

// Observe calls cb immediately: a headless overlay has no viewport to scroll.
func (o *HeadlessOverlay) Observe(el counter.Element, cb func()) {
	cb()
}

func (o *HeadlessOverlay) Unobserve(el counter.Element) {}

func (o *HeadlessOverlay) StatElements() []counter.Element {
	els := make([]counter.Element, len(o.stats))
	for i, s := range o.stats {
		els[i] = s
	}
	return els
}

func (o *HeadlessOverlay) GlitchElements() []glitch.Element {
	return nil
}

func (s *Stat) SetText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
}

// Text returns the current value text.
func (s *Stat) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// Label returns the stat label.
func (s *Stat) Label() string {
	return s.label
}
