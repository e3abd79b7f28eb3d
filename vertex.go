package textplane

import (
	"encoding/binary"
	"fmt"
	"math"
	"unsafe"

	"honnef.co/go/safeish"
)

// VertexType selects the fragment-stage behavior for a vertex's quad.
//
// The numeric values are part of the GPU contract: the fragment shader
// compares the tag against literal integers, so the values below are pinned
// and must never be renumbered. A new mode reserves the next value and is
// added to the shader and to the CPU rasterizer in the same change.
type VertexType int32

const (
	// VertexTypeSolid is a flat-colored rectangle (caret, selection,
	// line background). The atlas is not sampled.
	VertexTypeSolid VertexType = 0

	// VertexTypeText is single-channel glyph coverage sampled from the
	// atlas and modulated by the vertex color.
	VertexTypeText VertexType = 1

	// VertexTypeEmoji is a full-color bitmap sampled from the atlas.
	// The vertex color is ignored.
	VertexTypeEmoji VertexType = 2
)

// Valid reports whether t is one of the defined render modes.
func (t VertexType) Valid() bool {
	return t >= VertexTypeSolid && t <= VertexTypeEmoji
}

// String returns the render mode name.
func (t VertexType) String() string {
	switch t {
	case VertexTypeSolid:
		return "Solid"
	case VertexTypeText:
		return "Text"
	case VertexTypeEmoji:
		return "Emoji"
	default:
		return fmt.Sprintf("VertexType(%d)", int32(t))
	}
}

// Vertex is one corner of a rendered quad, laid out exactly as the vertex
// shader reads it from the buffer bound at VertexInputIndexVertices.
//
// Layout (little-endian, 48 bytes):
//
//	color  vec4<f32>  offset  0  (16 bytes)
//	pos    vec2<f32>  offset 16  ( 8 bytes)
//	uv     vec2<f32>  offset 24  ( 8 bytes)
//	type   i32        offset 32  ( 4 bytes)
//	pad    3 x i32    offset 36  (12 bytes)
//
// The tail padding rounds the record up to the 16-byte alignment of its
// vec4 member, which is the stride shading languages use for an array of
// this struct.
type Vertex struct {
	Color [4]float32
	Pos   [2]float32
	UV    [2]float32
	Type  VertexType
	_     [3]int32
}

// Vertex layout constants shared with the pipeline's vertex attributes.
const (
	VertexStride      = 48
	VertexColorOffset = 0
	VertexPosOffset   = 16
	VertexUVOffset    = 24
	VertexTypeOffset  = 32

	// VerticesPerQuad is the vertex count of one quad drawn as two
	// non-indexed triangles.
	VerticesPerQuad = 6
)

// Compile-time layout checks. Any drift between the Go struct and the
// constants above fails the build.
var (
	_ [VertexStride - unsafe.Sizeof(Vertex{})]struct{}
	_ [unsafe.Sizeof(Vertex{}) - VertexStride]struct{}

	_ [VertexPosOffset - unsafe.Offsetof(Vertex{}.Pos)]struct{}
	_ [unsafe.Offsetof(Vertex{}.Pos) - VertexPosOffset]struct{}
	_ [VertexUVOffset - unsafe.Offsetof(Vertex{}.UV)]struct{}
	_ [unsafe.Offsetof(Vertex{}.UV) - VertexUVOffset]struct{}
	_ [VertexTypeOffset - unsafe.Offsetof(Vertex{}.Type)]struct{}
	_ [unsafe.Offsetof(Vertex{}.Type) - VertexTypeOffset]struct{}
)

// NewVertex builds a vertex. It performs no validation; Batch and
// ValidateVertices check the quad invariants.
func NewVertex(pos [2]float32, color [4]float32, uv [2]float32, typ VertexType) Vertex {
	return Vertex{Color: color, Pos: pos, UV: uv, Type: typ}
}

// AppendVertex appends the 48-byte little-endian encoding of v to dst.
func AppendVertex(dst []byte, v Vertex) []byte {
	for _, c := range v.Color {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(c))
	}
	dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v.Pos[0]))
	dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v.Pos[1]))
	dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v.UV[0]))
	dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v.UV[1]))
	dst = binary.LittleEndian.AppendUint32(dst, uint32(v.Type)) //nolint:gosec // tag is reinterpreted, not converted
	var pad [VertexStride - VertexTypeOffset - 4]byte
	return append(dst, pad[:]...)
}

// EncodeVertices serializes vertices into raw bytes suitable for GPU upload.
func EncodeVertices(vs []Vertex) []byte {
	if len(vs) == 0 {
		return nil
	}
	data := make([]byte, 0, len(vs)*VertexStride)
	for _, v := range vs {
		data = AppendVertex(data, v)
	}
	return data
}

// VertexBytes returns vs as GPU-ready bytes. On little-endian hosts the
// returned slice aliases vs and must not outlive it; elsewhere it is a
// freshly encoded copy.
func VertexBytes(vs []Vertex) []byte {
	if len(vs) == 0 {
		return nil
	}
	if !nativeLittleEndian {
		return EncodeVertices(vs)
	}
	return safeish.SliceCast[[]byte](vs)
}

// DecodeVertex reads one vertex from the start of b.
func DecodeVertex(b []byte) (Vertex, error) {
	if len(b) < VertexStride {
		return Vertex{}, fmt.Errorf("%w: vertex needs %d bytes, have %d", ErrShortBuffer, VertexStride, len(b))
	}
	f := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
	}
	var v Vertex
	for i := range v.Color {
		v.Color[i] = f(VertexColorOffset + i*4)
	}
	v.Pos = [2]float32{f(VertexPosOffset), f(VertexPosOffset + 4)}
	v.UV = [2]float32{f(VertexUVOffset), f(VertexUVOffset + 4)}
	v.Type = VertexType(int32(binary.LittleEndian.Uint32(b[VertexTypeOffset:]))) //nolint:gosec // see AppendVertex
	return v, nil
}

var nativeLittleEndian = binary.NativeEndian.Uint16([]byte{1, 0}) == 1
