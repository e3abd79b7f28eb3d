// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package raster draws text plane vertex buffers on the CPU.
//
// It implements the same vertex and fragment stages as the WGSL pipeline in
// package gpu: positions are mapped to clip space with the frame's
// [textplane.Uniforms], triangles are filled over pixel centers, and each
// fragment is shaded by its [textplane.VertexType]:
//
//	Solid  vertex color
//	Text   vertex color, alpha multiplied by atlas alpha (coverage)
//	Emoji  atlas color, vertex color ignored
//
// Results are blended premultiplied source-over into an *image.RGBA. The
// rasterizer is used for tests, image snapshots and headless rendering.
package raster

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/gogpu/textplane"
)

// ErrNoAtlas is returned when textured quads are drawn without an atlas.
var ErrNoAtlas = errors.New("raster: textured quad without atlas")

// ErrNilTarget is returned when drawing without a target image.
var ErrNilTarget = errors.New("raster: nil target")

// Rasterizer draws vertex buffers into Target, sampling Atlas for Text and
// Emoji quads. Atlas pixels are premultiplied, as produced by package atlas.
type Rasterizer struct {
	Target *image.RGBA
	Atlas  image.Image
}

// New creates a rasterizer for target and atlas. The atlas may be nil if only
// Solid quads are drawn.
func New(target *image.RGBA, atlas image.Image) *Rasterizer {
	return &Rasterizer{Target: target, Atlas: atlas}
}

// Clear fills the target with a straight-alpha color.
func (r *Rasterizer) Clear(c [4]float32) {
	p := premultiply(c)
	px := [4]uint8{to8(p[0]), to8(p[1]), to8(p[2]), to8(p[3])}
	pix := r.Target.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		copy(pix[i:i+4], px[:])
	}
}

// Draw rasterizes vs as a triangle list.
func (r *Rasterizer) Draw(vs []textplane.Vertex, u textplane.Uniforms) error {
	if r.Target == nil {
		return ErrNilTarget
	}
	if err := textplane.ValidateVertices(vs); err != nil {
		return fmt.Errorf("raster: %w", err)
	}
	if r.Atlas == nil {
		for i := range vs {
			if vs[i].Type != textplane.VertexTypeSolid {
				return ErrNoAtlas
			}
		}
	}
	for i := 0; i < len(vs); i += 3 {
		r.triangle(vs[i:i+3], u)
	}
	textplane.Logger().Debug("raster: drew vertices", "vertices", len(vs), "quads", len(vs)/textplane.VerticesPerQuad)
	return nil
}

// toDevice maps a vertex position to device pixels through clip space.
func (r *Rasterizer) toDevice(pos [2]float32, u textplane.Uniforms) point {
	c := u.ToClip(pos)
	b := r.Target.Bounds()
	x := (float64(c[0]) + 1) / 2 * float64(b.Dx())
	y := (1 - float64(c[1])) / 2 * float64(b.Dy())
	return snap(x+float64(b.Min.X), y+float64(b.Min.Y))
}

func (r *Rasterizer) triangle(tri []textplane.Vertex, u textplane.Uniforms) {
	v0, v1, v2 := tri[0], tri[1], tri[2]
	p0, p1, p2 := r.toDevice(v0.Pos, u), r.toDevice(v1.Pos, u), r.toDevice(v2.Pos, u)

	area := edge{p0, p1}.eval(p2)
	if area == 0 {
		return
	}
	if area < 0 {
		// Normalize winding; the pipeline does not cull.
		p1, p2 = p2, p1
		v1, v2 = v2, v1
		area = -area
	}
	e0, e1, e2 := edge{p1, p2}, edge{p2, p0}, edge{p0, p1}

	minX := floorPixel(min(p0.x, p1.x, p2.x))
	maxX := ceilPixel(max(p0.x, p1.x, p2.x))
	minY := floorPixel(min(p0.y, p1.y, p2.y))
	maxY := ceilPixel(max(p0.y, p1.y, p2.y))
	b := r.Target.Bounds()
	minX, minY = max(minX, b.Min.X), max(minY, b.Min.Y)
	maxX, maxY = min(maxX, b.Max.X), min(maxY, b.Max.Y)

	fa := float64(area)
	for y := minY; y < maxY; y++ {
		for x := minX; x < maxX; x++ {
			p := point{x: int64(x)<<subpixelBits + subpixelOne/2, y: int64(y)<<subpixelBits + subpixelOne/2}
			w0, w1, w2 := e0.eval(p), e1.eval(p), e2.eval(p)
			if !e0.covers(w0) || !e1.covers(w1) || !e2.covers(w2) {
				continue
			}
			b0, b1, b2 := float64(w0)/fa, float64(w1)/fa, float64(w2)/fa
			var color [4]float32
			for i := range color {
				color[i] = float32(b0*float64(v0.Color[i]) + b1*float64(v1.Color[i]) + b2*float64(v2.Color[i]))
			}
			uv := [2]float32{
				float32(b0*float64(v0.UV[0]) + b1*float64(v1.UV[0]) + b2*float64(v2.UV[0])),
				float32(b0*float64(v0.UV[1]) + b1*float64(v1.UV[1]) + b2*float64(v2.UV[1])),
			}
			r.blend(x, y, r.shade(v0.Type, color, uv))
		}
	}
}

// shade returns the premultiplied fragment color.
func (r *Rasterizer) shade(typ textplane.VertexType, color [4]float32, uv [2]float32) [4]float32 {
	switch typ {
	case textplane.VertexTypeText:
		coverage := r.sample(uv)[3]
		return premultiply([4]float32{color[0], color[1], color[2], color[3] * coverage})
	case textplane.VertexTypeEmoji:
		return r.sample(uv)
	default:
		return premultiply(color)
	}
}

// sample reads the nearest atlas texel as premultiplied floats.
func (r *Rasterizer) sample(uv [2]float32) [4]float32 {
	b := r.Atlas.Bounds()
	x := clampInt(int(math.Floor(float64(uv[0])*float64(b.Dx()))), 0, b.Dx()-1) + b.Min.X
	y := clampInt(int(math.Floor(float64(uv[1])*float64(b.Dy()))), 0, b.Dy()-1) + b.Min.Y
	cr, cg, cb, ca := r.Atlas.At(x, y).RGBA()
	return [4]float32{float32(cr) / 0xffff, float32(cg) / 0xffff, float32(cb) / 0xffff, float32(ca) / 0xffff}
}

// blend composites premultiplied src over the target pixel.
func (r *Rasterizer) blend(x, y int, src [4]float32) {
	i := r.Target.PixOffset(x, y)
	d := r.Target.Pix[i : i+4 : i+4]
	inv := 1 - src[3]
	for c := 0; c < 4; c++ {
		d[c] = to8(src[c] + float32(d[c])/255*inv)
	}
}

func premultiply(c [4]float32) [4]float32 {
	return [4]float32{c[0] * c[3], c[1] * c[3], c[2] * c[3], c[3]}
}

func to8(v float32) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

func floorPixel(v int64) int {
	if v < 0 {
		return -int((-v + subpixelOne - 1) >> subpixelBits)
	}
	return int(v >> subpixelBits)
}

func ceilPixel(v int64) int {
	return -floorPixel(-v)
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
