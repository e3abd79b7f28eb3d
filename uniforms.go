package textplane

import (
	"encoding/binary"
	"fmt"
	"math"
	"unsafe"
)

// Uniforms is the per-frame uniform block bound at VertexInputIndexUniform.
//
// ScreenScaleFactor maps logical points to clip units per axis. The vertex
// stage computes
//
//	clip = pos * ScreenScaleFactor + vec2(-1, 1)
//
// so a surface of logical size w x h uses (2/w, -2/h), which also flips the
// y axis from top-down layout coordinates to clip space.
type Uniforms struct {
	ScreenScaleFactor [2]float32
}

const (
	// UniformSize is the byte size of the uniform block (one vec2<f32>).
	UniformSize = 8

	// UniformAlign is the WGSL alignment of the uniform block.
	UniformAlign = 8
)

var (
	_ [UniformSize - unsafe.Sizeof(Uniforms{})]struct{}
	_ [unsafe.Sizeof(Uniforms{}) - UniformSize]struct{}
)

// NewUniforms returns uniforms with an explicit per-axis scale.
func NewUniforms(sx, sy float32) Uniforms {
	return Uniforms{ScreenScaleFactor: [2]float32{sx, sy}}
}

// SurfaceUniforms returns the uniforms for a surface of the given logical
// size in points.
func SurfaceUniforms(width, height float32) (Uniforms, error) {
	if !(width > 0) || !(height > 0) || math.IsInf(float64(width), 0) || math.IsInf(float64(height), 0) {
		return Uniforms{}, fmt.Errorf("%w: %vx%v", ErrInvalidSurfaceSize, width, height)
	}
	return NewUniforms(2/width, -2/height), nil
}

// Scale multiplies pos by the scale factor. This is the device-space step
// of the vertex stage, before the clip-space offset.
func (u Uniforms) Scale(pos [2]float32) [2]float32 {
	return [2]float32{pos[0] * u.ScreenScaleFactor[0], pos[1] * u.ScreenScaleFactor[1]}
}

// ToClip maps pos the way the vertex shader does.
func (u Uniforms) ToClip(pos [2]float32) [2]float32 {
	p := u.Scale(pos)
	return [2]float32{p[0] - 1, p[1] + 1}
}

// Bytes returns the little-endian encoding of the uniform block.
func (u Uniforms) Bytes() []byte {
	buf := make([]byte, UniformSize)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(u.ScreenScaleFactor[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(u.ScreenScaleFactor[1]))
	return buf
}

// UniformCache recomputes Uniforms only when the surface size changes.
// The zero value is ready to use.
type UniformCache struct {
	width, height float32
	uniforms      Uniforms
	valid         bool
}

// Update returns the uniforms for the given surface size and reports whether
// they differ from the previously returned value.
func (c *UniformCache) Update(width, height float32) (Uniforms, bool, error) {
	if c.valid && c.width == width && c.height == height {
		return c.uniforms, false, nil
	}
	u, err := SurfaceUniforms(width, height)
	if err != nil {
		return Uniforms{}, false, err
	}
	c.width, c.height = width, height
	c.uniforms = u
	c.valid = true
	Logger().Debug("textplane: surface uniforms updated",
		"width", width, "height", height,
		"scale_x", u.ScreenScaleFactor[0], "scale_y", u.ScreenScaleFactor[1])
	return u, true, nil
}

// Invalidate forces the next Update to recompute.
func (c *UniformCache) Invalidate() {
	c.valid = false
}
