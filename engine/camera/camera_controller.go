package camera

// CameraController owns the positional state of a camera. The camera reads from it
// and computes view/projection matrices.
type CameraController interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - x, y, z: world-space camera position
	Position() (x, y, z float32)

	// Target returns the look-at point.
	//
	// Returns:
	//   - x, y, z: world-space target position
	Target() (x, y, z float32)
}

// Follower is a CameraController that eases toward the pointer. Each Follow call moves
// the smoothed offset a fixed fraction of the way toward the pointer, so the camera
// converges on the pointer exponentially and never passes it. The eye sits at
// (offset.x*Scale, offset.y*Scale, Distance) looking at a fixed point.
type Follower interface {
	CameraController

	// Follow advances the smoothed offset one step toward the pointer.
	//
	// Parameters:
	//   - px, py: normalized pointer position in [-1, 1]
	Follow(px, py float32)

	// Offset returns the smoothed pointer offset.
	//
	// Returns:
	//   - x, y: the current smoothed offset
	Offset() (x, y float32)

	// Smoothing returns the per-step fraction alpha in (0, 1).
	Smoothing() float32

	// Scale returns the factor from offset to eye position.
	Scale() float32

	// Distance returns the eye's fixed Z.
	Distance() float32

	// Reset snaps the offset back to zero.
	Reset()
}
