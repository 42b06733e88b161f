package renderer

// Vertex layouts shared by the GPU backend:
//
//	point sprite vertex: position vec3, corner vec2, color vec4 (9 floats)
//	line vertex:         position vec3, color vec4 (7 floats)
const (
	pointVertexFloats = 9
	lineVertexFloats  = 7

	// Two triangles per sprite.
	spriteVertices = 6
)

// spriteCorners are the unit quad corners of a sprite in triangle-list order.
var spriteCorners = [spriteVertices][2]float32{
	{-1, -1}, {1, -1}, {1, 1},
	{-1, -1}, {1, 1}, {-1, 1},
}

// drawRange is a contiguous run of vertices drawn with one pipeline.
type drawRange struct {
	first    uint32
	count    uint32
	additive bool
}

// appendPointVertices expands every point of the batch into a camera-facing sprite quad.
//
// Parameters:
//   - dst: the slice to append to
//   - b: the batch to expand
//
// Returns:
//   - []float32: dst with 6 sprite vertices appended per point
func appendPointVertices(dst []float32, b PointBatch) []float32 {
	half := b.Style.PointSize / 2
	alpha := b.Style.Opacity
	for i := 0; i+2 < len(b.World); i += 3 {
		x, y, z := b.World[i], b.World[i+1], b.World[i+2]
		r, g, bl := b.Colors[i], b.Colors[i+1], b.Colors[i+2]
		for _, c := range spriteCorners {
			dst = append(dst, x, y, z, c[0]*half, c[1]*half, r, g, bl, alpha)
		}
	}
	return dst
}

// appendLineVertices writes both endpoints of every segment with the batch color.
//
// Parameters:
//   - dst: the slice to append to
//   - b: the batch to expand
//
// Returns:
//   - []float32: dst with 2 vertices appended per segment
func appendLineVertices(dst []float32, b LineBatch) []float32 {
	r, g, bl, alpha := b.Color[0], b.Color[1], b.Color[2], b.Style.Opacity
	for i := 0; i+2 < len(b.World); i += 3 {
		dst = append(dst, b.World[i], b.World[i+1], b.World[i+2], r, g, bl, alpha)
	}
	return dst
}
