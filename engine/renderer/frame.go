package renderer

import (
	"math"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
)

// Frame is the world-space snapshot of everything to draw this frame.
type Frame struct {
	Width, Height int

	View     [16]float32
	Proj     [16]float32
	ViewProj [16]float32
	Eye      [3]float32

	Background common.RGB
	FogColor   common.RGB
	FogDensity float32

	Points []PointBatch
	Lines  []LineBatch
}

// PointBatch is one point cloud in world space.
type PointBatch struct {
	// World holds 3 floats per point.
	World []float32
	// Colors holds 3 normalized floats per point.
	Colors []float32
	Style  Style
}

// Len returns the number of points in the batch.
func (b PointBatch) Len() int {
	return len(b.World) / 3
}

// LineBatch is one wireframe in world space.
type LineBatch struct {
	// World holds segment endpoints, 6 floats per segment.
	World []float32
	Color common.RGB
	Style Style
}

// Segments returns the number of line segments in the batch.
func (b LineBatch) Segments() int {
	return len(b.World) / 6
}

// FogFactor returns how much of the fog color replaces an object color at the given
// view distance, using exponential-squared falloff. 0 means no fog.
//
// Parameters:
//   - distance: distance from the eye along the view direction
//
// Returns:
//   - float32: fog amount in [0, 1]
func (f *Frame) FogFactor(distance float32) float32 {
	d := float64(f.FogDensity * distance)
	return common.Clamp(float32(1-math.Exp(-d*d)), 0, 1)
}

// reset truncates the batch slices while keeping their backing arrays.
func (f *Frame) reset() {
	f.Points = f.Points[:0]
	f.Lines = f.Lines[:0]
}

// transformInto writes every local xyz triple of src through the model matrix m into dst.
func transformInto(dst, src []float32, m []float32) {
	for i := 0; i+2 < len(src); i += 3 {
		p := common.TransformPoint(m, src[i], src[i+1], src[i+2])
		dst[i], dst[i+1], dst[i+2] = p[0], p[1], p[2]
	}
}
