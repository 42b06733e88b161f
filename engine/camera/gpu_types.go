package camera

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUCameraUniformSource is the canonical WGSL definition of the CameraUniform struct.
// Matches GPUCameraUniform layout exactly (144 bytes).
//
//go:embed assets/camera_uniform.wgsl
var GPUCameraUniformSource string

// GPUCameraUniform is the GPU-aligned representation of the camera uniform buffer.
// View and projection stay separate because point sprites are expanded in view space.
// Fog rides along since every pipeline that reads the camera also fogs.
type GPUCameraUniform struct {
	View       [16]float32 // offset   0: view matrix (mat4x4<f32>)
	Proj       [16]float32 // offset  64: projection matrix (mat4x4<f32>)
	FogColor   [3]float32  // offset 128: fog color (vec3<f32>)
	FogDensity float32     // offset 140: exp2 fog density
}

// NewGPUCameraUniform snapshots the camera matrices together with the fog settings.
//
// Parameters:
//   - c: the camera to read
//   - fogColor: normalized fog color
//   - fogDensity: exp2 fog density, 0 disables fog
//
// Returns:
//   - GPUCameraUniform: the uniform ready for Marshal
func NewGPUCameraUniform(c Camera, fogColor [3]float32, fogDensity float32) GPUCameraUniform {
	return GPUCameraUniform{
		View:       c.ViewMatrix(),
		Proj:       c.ProjectionMatrix(),
		FogColor:   fogColor,
		FogDensity: fogDensity,
	}
}

// Size returns the size of the GPUCameraUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (144)
func (g *GPUCameraUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUCameraUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.View[i]))
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.Proj[i]))
	}
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[128+i*4:], math.Float32bits(g.FogColor[i]))
	}
	binary.LittleEndian.PutUint32(buf[140:], math.Float32bits(g.FogDensity))
	return buf
}
