package camera

// FollowerOption is a functional option for configuring a Follower.
type FollowerOption func(*followerImpl)

// WithSmoothing sets the fraction of the remaining distance covered per Follow call.
// Values outside (0, 1) are ignored since they would either freeze or overshoot.
//
// Parameters:
//   - alpha: smoothing factor in (0, 1)
//
// Returns:
//   - FollowerOption: functional option to set the smoothing factor
func WithSmoothing(alpha float32) FollowerOption {
	return func(f *followerImpl) {
		if alpha > 0 && alpha < 1 {
			f.smoothing = alpha
		}
	}
}

// WithFollowScale sets how far the eye moves per unit of pointer offset.
//
// Parameters:
//   - scale: world units per normalized pointer unit
//
// Returns:
//   - FollowerOption: functional option to set the scale
func WithFollowScale(scale float32) FollowerOption {
	return func(f *followerImpl) {
		f.scale = scale
	}
}

// WithDistance sets the eye's Z coordinate.
//
// Parameters:
//   - distance: eye Z in world units
//
// Returns:
//   - FollowerOption: functional option to set the distance
func WithDistance(distance float32) FollowerOption {
	return func(f *followerImpl) {
		f.distance = distance
	}
}

// WithLookAt sets the fixed look-at point.
//
// Parameters:
//   - x, y, z: world-space coordinates
//
// Returns:
//   - FollowerOption: functional option to set the look-at point
func WithLookAt(x, y, z float32) FollowerOption {
	return func(f *followerImpl) {
		f.lookAt = [3]float32{x, y, z}
	}
}
