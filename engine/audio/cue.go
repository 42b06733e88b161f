// Package audio plays the short tone that marks a finished stat counter.
package audio

import (
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Cue is a single sine tone played on demand. Audio is optional: when no output device can be
// opened the cue stays silent and Play is a no-op.
type Cue struct {
	mu *sync.Mutex

	frequency float64
	length    time.Duration
	volume    float64

	mixer *beep.Mixer
	// sink receives each tone; nil until Init succeeds.
	sink        func(beep.Streamer)
	initialized bool
	played      int
}

// CueOption is a functional option for configuring a Cue.
type CueOption func(c *Cue)

// WithTone sets the tone frequency and length. Non-positive values keep the default.
//
// Parameters:
//   - frequency: tone frequency in Hz
//   - length: tone duration
//
// Returns:
//   - CueOption: option function to apply
func WithTone(frequency float64, length time.Duration) CueOption {
	return func(c *Cue) {
		if frequency > 0 {
			c.frequency = frequency
		}
		if length > 0 {
			c.length = length
		}
	}
}

// WithVolume sets the linear gain of the tone, 0 mutes it.
//
// Parameters:
//   - v: gain in [0, 1]
//
// Returns:
//   - CueOption: option function to apply
func WithVolume(v float64) CueOption {
	return func(c *Cue) {
		c.volume = math.Max(0, math.Min(v, 1))
	}
}

// WithSink routes tones to sink instead of the system speaker.
//
// Parameters:
//   - sink: receives every tone streamer
//
// Returns:
//   - CueOption: option function to apply
func WithSink(sink func(beep.Streamer)) CueOption {
	return func(c *Cue) {
		c.sink = sink
	}
}

// NewCue creates an 880 Hz, 50 ms cue at half volume. Call Init before Play.
//
// Parameters:
//   - options: functional options to configure the cue
//
// Returns:
//   - *Cue: the cue
func NewCue(options ...CueOption) *Cue {
	c := &Cue{
		mu:        &sync.Mutex{},
		frequency: 880,
		length:    50 * time.Millisecond,
		volume:    0.5,
		mixer:     &beep.Mixer{},
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// Init opens the speaker unless a sink was configured. Calling it again is a no-op.
//
// Returns:
//   - error: if the audio device could not be opened; the cue stays silent
func (c *Cue) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}
	if c.sink == nil {
		if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
			return fmt.Errorf("failed to open audio device: %w", err)
		}
		speaker.Play(c.mixer)
		c.sink = func(s beep.Streamer) {
			speaker.Lock()
			c.mixer.Add(s)
			speaker.Unlock()
		}
	}
	c.initialized = true
	return nil
}

// Play starts one tone. It does not block and does nothing before a successful Init.
func (c *Cue) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	s, err := c.tone()
	if err != nil {
		log.Printf("[Audio] %v", err)
		return
	}
	c.sink(s)
	c.played++
}

// Played returns how many tones were started.
func (c *Cue) Played() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.played
}

// Close silences any tone still playing.
func (c *Cue) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	speaker.Lock()
	c.mixer.Clear()
	speaker.Unlock()
	c.initialized = false
}

// tone builds the streamer for one cue: a sine of the configured length at the configured gain.
func (c *Cue) tone() (beep.Streamer, error) {
	sine, err := generators.SineTone(sampleRate, c.frequency)
	if err != nil {
		return nil, fmt.Errorf("failed to build %v Hz tone: %w", c.frequency, err)
	}
	s := beep.Take(sampleRate.N(c.length), sine)
	if c.volume <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}, nil
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(c.volume), Silent: false}, nil
}
