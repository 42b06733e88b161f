package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
)

// followerImpl is the pointer-follow implementation of Follower.
type followerImpl struct {
	mu *sync.Mutex

	// Smoothed pointer offset
	offset [2]float32
	lookAt [3]float32

	smoothing float32
	scale     float32
	distance  float32
}

// Compile-time interface compliance check
var _ Follower = &followerImpl{}

// NewFollower creates a Follower with alpha 0.05, scale 10 and distance 50, looking at the origin.
//
// Parameters:
//   - options: functional options to configure the follower
//
// Returns:
//   - Follower: the newly created follower
func NewFollower(options ...FollowerOption) Follower {
	f := &followerImpl{
		mu:        &sync.Mutex{},
		smoothing: 0.05,
		scale:     10,
		distance:  50,
	}
	for _, option := range options {
		option(f)
	}
	return f
}

func (f *followerImpl) Follow(px, py float32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.offset[0] = common.Lerp(f.offset[0], px, f.smoothing)
	f.offset[1] = common.Lerp(f.offset[1], py, f.smoothing)
}

func (f *followerImpl) Offset() (x, y float32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.offset[0], f.offset[1]
}

func (f *followerImpl) Position() (x, y, z float32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.offset[0] * f.scale, f.offset[1] * f.scale, f.distance
}

func (f *followerImpl) Target() (x, y, z float32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lookAt[0], f.lookAt[1], f.lookAt[2]
}

func (f *followerImpl) Smoothing() float32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.smoothing
}

func (f *followerImpl) Scale() float32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scale
}

func (f *followerImpl) Distance() float32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.distance
}

func (f *followerImpl) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.offset = [2]float32{}
}
