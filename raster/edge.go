// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

// subpixelBits is the fixed-point precision of snapped vertex positions.
// Edge functions are evaluated in exact integer arithmetic so that two
// triangles sharing an edge never both claim (or both drop) a pixel.
const subpixelBits = 8

const subpixelOne = 1 << subpixelBits

// point is a vertex position in fixed-point device pixels.
type point struct {
	x, y int64
}

func snap(x, y float64) point {
	return point{x: roundFixed(x), y: roundFixed(y)}
}

func roundFixed(v float64) int64 {
	f := v * subpixelOne
	if f < 0 {
		return int64(f - 0.5)
	}
	return int64(f + 0.5)
}

// edge is the directed edge a->b of a triangle.
type edge struct {
	a, b point
}

// eval returns twice the signed area of (a, b, p). Triangles are normalized
// so that it is positive inside.
func (e edge) eval(p point) int64 {
	return (e.b.x-e.a.x)*(p.y-e.a.y) - (e.b.y-e.a.y)*(p.x-e.a.x)
}

// topLeft reports whether e is a left edge or a horizontal top edge of a
// positively oriented triangle. Pixel centers exactly on such edges are
// covered. The reverse traversal answers the opposite, so an edge shared by
// two triangles covers each of its pixels once.
func (e edge) topLeft() bool {
	dx, dy := e.b.x-e.a.x, e.b.y-e.a.y
	return dy < 0 || (dy == 0 && dx > 0)
}

// covers applies the fill rule for an edge value w.
func (e edge) covers(w int64) bool {
	return w > 0 || (w == 0 && e.topLeft())
}
