package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
)

func drain(t *testing.T, s beep.Streamer) (n int, peak float64) {
	t.Helper()
	buf := make([][2]float64, 512)
	for {
		k, ok := s.Stream(buf)
		for i := range k {
			peak = math.Max(peak, math.Abs(buf[i][0]))
		}
		n += k
		if !ok {
			return n, peak
		}
		if n > sampleRate.N(time.Second) {
			t.Fatal("tone did not end")
		}
	}
}

func TestPlayBeforeInitIsSilent(t *testing.T) {
	var got []beep.Streamer
	c := NewCue(WithSink(func(s beep.Streamer) { got = append(got, s) }))
	c.Play()
	if len(got) != 0 || c.Played() != 0 {
		t.Error("tone played before Init")
	}
}

func TestPlayStreamsTone(t *testing.T) {
	var got []beep.Streamer
	c := NewCue(
		WithTone(660, 60*time.Millisecond),
		WithVolume(0.5),
		WithSink(func(s beep.Streamer) { got = append(got, s) }),
	)
	if err := c.Init(); err != nil {
		t.Fatal(err)
	}
	c.Play()
	c.Play()
	if len(got) != 2 || c.Played() != 2 {
		t.Fatalf("tones = %d, Played() = %d", len(got), c.Played())
	}

	n, peak := drain(t, got[0])
	if want := sampleRate.N(60 * time.Millisecond); n != want {
		t.Errorf("tone length = %d samples, want %d", n, want)
	}
	if peak < 0.45 || peak > 0.5+1e-9 {
		t.Errorf("peak = %v, want about 0.5", peak)
	}
}

func TestMutedTone(t *testing.T) {
	var got beep.Streamer
	c := NewCue(WithVolume(0), WithSink(func(s beep.Streamer) { got = s }))
	_ = c.Init()
	c.Play()
	if _, peak := drain(t, got); peak != 0 {
		t.Errorf("muted peak = %v", peak)
	}
}

func TestWithToneIgnoresNonPositive(t *testing.T) {
	c := NewCue(WithTone(0, -time.Second), WithVolume(3))
	if c.frequency != 880 || c.length != 50*time.Millisecond || c.volume != 1 {
		t.Errorf("cue = %v Hz, %v, volume %v", c.frequency, c.length, c.volume)
	}
}
