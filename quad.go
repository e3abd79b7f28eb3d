package textplane

import (
	"fmt"
	"math"
)

// Rect is an axis-aligned rectangle in logical points, origin top-left.
type Rect struct {
	X, Y, W, H float32
}

// UVRect is a normalized atlas region: origin (U, V) and extent (W, H).
type UVRect struct {
	U, V, W, H float32
}

// Span is a horizontal colored range of a line, relative to the line origin.
// Selection and background highlights are emitted from spans.
type Span struct {
	Start, End float32
	ARGB       uint32
}

// TexturedQuad returns the six vertices of r as two triangles:
//
//	T1: (x, y)   (x+w, y)   (x+w, y+h)
//	T2: (x+w, y+h) (x, y+h) (x, y)
//
// with uv mapped corner to corner. Every vertex carries typ.
func TexturedQuad(r Rect, uv UVRect, color [4]float32, typ VertexType) [VerticesPerQuad]Vertex {
	x0, y0, x1, y1 := r.X, r.Y, r.X+r.W, r.Y+r.H
	u0, v0, u1, v1 := uv.U, uv.V, uv.U+uv.W, uv.V+uv.H
	return [VerticesPerQuad]Vertex{
		{Color: color, Pos: [2]float32{x0, y0}, UV: [2]float32{u0, v0}, Type: typ},
		{Color: color, Pos: [2]float32{x1, y0}, UV: [2]float32{u1, v0}, Type: typ},
		{Color: color, Pos: [2]float32{x1, y1}, UV: [2]float32{u1, v1}, Type: typ},

		{Color: color, Pos: [2]float32{x1, y1}, UV: [2]float32{u1, v1}, Type: typ},
		{Color: color, Pos: [2]float32{x0, y1}, UV: [2]float32{u0, v1}, Type: typ},
		{Color: color, Pos: [2]float32{x0, y0}, UV: [2]float32{u0, v0}, Type: typ},
	}
}

// SolidQuad returns a Solid quad covering r. UVs are zero.
func SolidQuad(r Rect, color [4]float32) [VerticesPerQuad]Vertex {
	return TexturedQuad(r, UVRect{}, color, VertexTypeSolid)
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ValidateVertices checks the quad invariants of a vertex array: whole
// quads, one valid tag per quad, finite positions.
func ValidateVertices(vs []Vertex) error {
	if len(vs)%VerticesPerQuad != 0 {
		return ErrPartialQuad
	}
	for q := 0; q < len(vs); q += VerticesPerQuad {
		typ := vs[q].Type
		if !typ.Valid() {
			return &QuadError{Quad: q / VerticesPerQuad, Err: ErrInvalidVertexType}
		}
		for i := q; i < q+VerticesPerQuad; i++ {
			if vs[i].Type != typ {
				return &QuadError{Quad: q / VerticesPerQuad, Err: ErrMixedQuadType}
			}
			if !finite(vs[i].Pos[0]) || !finite(vs[i].Pos[1]) {
				return &QuadError{Quad: q / VerticesPerQuad, Err: ErrNonFinitePosition}
			}
		}
	}
	return nil
}

// QuadError locates a validation failure within a vertex array.
type QuadError struct {
	Quad int
	Err  error
}

func (e *QuadError) Error() string {
	return fmt.Sprintf("quad %d: %v", e.Quad, e.Err)
}

func (e *QuadError) Unwrap() error { return e.Err }
