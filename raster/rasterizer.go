// seehuhn.de/go/maprender - top-down map images from place files
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package raster computes anti-aliased pixel coverage for filled outlines.
//
// Coverage is the fraction of a pixel's area which lies inside the outline,
// computed exactly for polygons using signed area accumulation along each
// scanline.  Curves are flattened to line segments first.
package raster

import (
	"cmp"
	"math"
	"slices"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// edge is a non-horizontal line segment in device coordinates.
type edge struct {
	x0, y0 float64 // start point
	x1, y1 float64 // end point
	dxdy   float64 // inverse slope, used to find x at a given y
}

// yRange returns the vertical extent of the edge.
func (e *edge) yRange() (lo, hi float64) {
	return min(e.y0, e.y1), max(e.y0, e.y1)
}

func (e *edge) xAt(y float64) float64 {
	return e.x0 + e.dxdy*(y-e.y0)
}

// dir is +1 for edges running down (increasing y) and -1 otherwise.
func (e *edge) dir() float32 {
	if e.y1 < e.y0 {
		return -1
	}
	return 1
}

// Rasterizer turns outlines into per-pixel coverage values between 0 and 1.
// A single Rasterizer should be reused for many outlines: its buffers grow
// as needed and are kept between calls.
//
// A Rasterizer is not safe for concurrent use.
type Rasterizer struct {
	// Clip is the device rectangle which receives output.
	// The coordinates must be integers.
	Clip rect.Rect

	// Flatness is the maximal distance, in pixels, between a curve and the
	// line segments used to approximate it.  Must be positive.
	Flatness float64

	// bufferThreshold is the largest bounding box area, in pixels, for
	// which all scanlines are accumulated at once.  Larger outlines are
	// processed one scanline at a time using an active edge list.
	bufferThreshold int

	cover   []float32 // signed height of edge crossings per pixel; reused for output
	area    []float32 // area to the right of edge crossings per pixel
	edges   []edge
	active  []int  // indices into edges, for the scanline approach
	rowUsed []bool // rows touched by at least one edge, for the buffered approach

	bbox      rect.Rect // device space bounding box of edges
	haveEdges bool
}

// NewRasterizer returns a Rasterizer which writes to the given clip
// rectangle.
func NewRasterizer(clip rect.Rect) *Rasterizer {
	return &Rasterizer{
		Clip:            clip,
		Flatness:        defaultFlatness,
		bufferThreshold: bufferThreshold,
	}
}

// Reset prepares the Rasterizer for a new clip rectangle, keeping the
// allocated buffers.
func (r *Rasterizer) Reset(clip rect.Rect) {
	r.Clip = clip
	r.Flatness = defaultFlatness
	r.cover = r.cover[:0]
	r.area = r.area[:0]
	r.edges = r.edges[:0]
	r.active = r.active[:0]
	r.rowUsed = r.rowUsed[:0]
	r.haveEdges = false
}

// FillNonZero fills the outline p using the nonzero winding rule.  Open
// subpaths are closed implicitly.
//
// Coverage is reported row by row, top to bottom, through emit.  Only the
// run of pixels between the first and last non-zero value is reported.
// The coverage slice is only valid during the call.
func (r *Rasterizer) FillNonZero(p *path.Data, emit func(y, xMin int, coverage []float32)) {
	xMin, xMax, yMin, yMax, ok := r.collectEdges(p)
	if !ok {
		return
	}

	if (xMax-xMin)*(yMax-yMin) < r.bufferThreshold {
		r.fillBuffered(xMin, xMax, yMin, yMax, emit)
	} else {
		r.fillScanlines(xMin, xMax, yMin, yMax, emit)
	}
}

// FillQuad fills the quadrilateral q.  Degenerate quads are ignored.
func (r *Rasterizer) FillQuad(q Quad, emit func(y, xMin int, coverage []float32)) {
	if q.SignedArea() == 0 {
		return
	}
	r.FillNonZero(q.Path(), emit)
}

// collectEdges converts the outline into the edge list and returns the
// pixel range touched by the edges, intersected with the clip rectangle.
func (r *Rasterizer) collectEdges(p *path.Data) (xMin, xMax, yMin, yMax int, ok bool) {
	r.edges = r.edges[:0]
	r.haveEdges = false

	var cur, start vec.Vec2
	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			r.addEdge(cur, start)
			cur = p.Coords[k]
			start = cur
			k++
		case path.CmdLineTo:
			r.addEdge(cur, p.Coords[k])
			cur = p.Coords[k]
			k++
		case path.CmdQuadTo:
			// degree elevation gives the equivalent cubic
			ctrl, end := p.Coords[k], p.Coords[k+1]
			c1 := cur.Add(ctrl.Sub(cur).Mul(2.0 / 3))
			c2 := end.Add(ctrl.Sub(end).Mul(2.0 / 3))
			r.flattenCubic(cur, c1, c2, end)
			cur = end
			k += 2
		case path.CmdCubeTo:
			r.flattenCubic(cur, p.Coords[k], p.Coords[k+1], p.Coords[k+2])
			cur = p.Coords[k+2]
			k += 3
		case path.CmdClose:
			r.addEdge(cur, start)
			cur = start
		}
	}
	r.addEdge(cur, start)

	if !r.haveEdges {
		return 0, 0, 0, 0, false
	}

	xMin = max(int(math.Floor(r.bbox.LLx)), int(r.Clip.LLx))
	xMax = min(int(math.Floor(r.bbox.URx))+1, int(r.Clip.URx))
	yMin = max(int(math.Floor(r.bbox.LLy)), int(r.Clip.LLy))
	yMax = min(int(math.Floor(r.bbox.URy))+1, int(r.Clip.URy))
	if xMin >= xMax || yMin >= yMax {
		return 0, 0, 0, 0, false
	}
	return xMin, xMax, yMin, yMax, true
}

// addEdge appends the segment from a to b to the edge list.  Horizontal
// segments do not change coverage and are dropped.
func (r *Rasterizer) addEdge(a, b vec.Vec2) {
	dy := b.Y - a.Y
	if math.Abs(dy) < horizontalEdgeThreshold {
		return
	}
	r.edges = append(r.edges, edge{
		x0: a.X, y0: a.Y,
		x1: b.X, y1: b.Y,
		dxdy: (b.X - a.X) / dy,
	})

	box := rect.Rect{
		LLx: min(a.X, b.X), LLy: min(a.Y, b.Y),
		URx: max(a.X, b.X), URy: max(a.Y, b.Y),
	}
	if !r.haveEdges {
		r.bbox = box
		r.haveEdges = true
		return
	}
	r.bbox.LLx = min(r.bbox.LLx, box.LLx)
	r.bbox.LLy = min(r.bbox.LLy, box.LLy)
	r.bbox.URx = max(r.bbox.URx, box.URx)
	r.bbox.URy = max(r.bbox.URy, box.URy)
}

// flattenCubic approximates the cubic Bézier curve p0, p1, p2, p3 by line
// segments and adds these to the edge list.
func (r *Rasterizer) flattenCubic(p0, p1, p2, p3 vec.Vec2) {
	d1 := p0.Sub(p1.Mul(2)).Add(p2)
	d2 := p1.Sub(p2.Mul(2)).Add(p3)

	// Wang's formula: n = ceil(sqrt(3·max|d| / (4·flatness)))
	n := 1
	if m := max(d1.Length(), d2.Length()); m > 0 {
		if nf := math.Sqrt(3 * m / (4 * r.Flatness)); nf > 1 {
			n = int(math.Ceil(nf))
		}
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		pt := p0.Mul(s * s * s).
			Add(p1.Mul(3 * s * s * t)).
			Add(p2.Mul(3 * s * t * t)).
			Add(p3.Mul(t * t * t))
		r.addEdge(prev, pt)
		prev = pt
	}
}

// Coverage accumulation.
//
// Every edge crossing a pixel deposits two values there:
//
//	cover: the signed height of the crossing (positive for edges going down)
//	area:  cover times the fraction of the pixel to the right of the crossing
//
// Sweeping a scanline from left to right, the coverage of pixel i is the
// sum of cover over all pixels left of i, plus area[i].  For the nonzero
// rule the absolute value is clamped to 1.

// accumulate adds the contribution of edge e on scanline y to the row
// buffers, which hold the pixels xMin, ..., xMax-1.  Crossings left of xMin
// are collected in the first pixel, crossings right of the buffer are
// dropped.
func (r *Rasterizer) accumulate(e *edge, y int, cover, area []float32, xMin, xMax int) {
	lo, hi := e.yRange()
	top := max(float64(y), lo)
	bot := min(float64(y+1), hi)
	if bot <= top {
		return
	}
	dir := e.dir()

	xTop, xBot := e.xAt(top), e.xAt(bot)
	pixLeft := int(math.Floor(min(xTop, xBot)))
	pixRight := int(math.Floor(max(xTop, xBot)))

	switch {
	case pixRight < xMin:
		h := dir * float32(bot-top)
		cover[0] += h
		area[0] += h
		return
	case pixLeft >= xMax:
		return
	case pixLeft == pixRight:
		deposit(cover, area, pixLeft-xMin, dir*float32(bot-top), (xTop+xBot)/2-float64(pixLeft))
		return
	}

	// The edge crosses several pixel columns: split it at the column
	// boundaries.
	dydx := 1 / e.dxdy
	for pix := pixLeft; pix <= pixRight && pix < xMax; pix++ {
		ya := e.y0 + dydx*(float64(pix)-e.x0)
		yb := e.y0 + dydx*(float64(pix+1)-e.x0)
		s0 := max(min(ya, yb), top)
		s1 := min(max(ya, yb), bot)
		if s1 <= s0 {
			continue
		}
		xMid := e.xAt((s0 + s1) / 2)
		deposit(cover, area, pix-xMin, dir*float32(s1-s0), xMid-float64(pix))
	}
}

// deposit records a crossing of signed height h at horizontal offset frac
// inside buffer column i.  Columns left of the buffer count as fully left
// of the first pixel.
func deposit(cover, area []float32, i int, h float32, frac float64) {
	if i < 0 {
		cover[0] += h
		area[0] += h
		return
	}
	cover[i] += h
	area[i] += h * float32(1-frac)
}

// integrateNonZero sweeps one row and replaces cover by the final coverage
// values under the nonzero rule.
func integrateNonZero(cover, area []float32) {
	var acc float32
	for i := range cover {
		v := acc + area[i]
		acc += cover[i]
		if v < 0 {
			v = -v
		}
		cover[i] = min(v, 1)
	}
}

// nonZeroRun returns the part of row between the first and the last
// non-zero entry, together with its offset.  The result is nil if all
// entries are zero.
func nonZeroRun(row []float32) ([]float32, int) {
	first := slices.IndexFunc(row, func(c float32) bool { return c != 0 })
	if first < 0 {
		return nil, 0
	}
	last := len(row) - 1
	for row[last] == 0 {
		last--
	}
	return row[first : last+1], first
}

// fillBuffered accumulates all rows of the bounding box at once, visiting
// every edge only once.  This is used for small outlines.
func (r *Rasterizer) fillBuffered(xMin, xMax, yMin, yMax int, emit func(y, xMin int, coverage []float32)) {
	width := xMax - xMin
	height := yMax - yMin

	n := width * height
	r.cover = slices.Grow(r.cover[:0], n)[:n]
	r.area = slices.Grow(r.area[:0], n)[:n]
	clear(r.cover)
	clear(r.area)
	r.rowUsed = slices.Grow(r.rowUsed[:0], height)[:height]
	clear(r.rowUsed)

	for i := range r.edges {
		e := &r.edges[i]
		lo, hi := e.yRange()
		first := max(int(math.Floor(lo)), yMin)
		last := min(int(math.Floor(hi))+1, yMax)
		for y := first; y < last; y++ {
			row := y - yMin
			off := row * width
			r.accumulate(e, y, r.cover[off:off+width], r.area[off:off+width], xMin, xMax)
			r.rowUsed[row] = true
		}
	}

	for row, used := range r.rowUsed {
		if !used {
			continue
		}
		off := row * width
		coverage := r.cover[off : off+width]
		integrateNonZero(coverage, r.area[off:off+width])
		if run, k := nonZeroRun(coverage); run != nil {
			emit(yMin+row, xMin+k, run)
		}
	}
}

// fillScanlines processes one scanline at a time, keeping a list of the
// edges which intersect the current scanline.  This is used for large
// outlines, where buffering all rows would need too much memory.
func (r *Rasterizer) fillScanlines(xMin, xMax, yMin, yMax int, emit func(y, xMin int, coverage []float32)) {
	width := xMax - xMin
	r.cover = slices.Grow(r.cover[:0], width)[:width]
	r.area = slices.Grow(r.area[:0], width)[:width]

	slices.SortFunc(r.edges, func(a, b edge) int {
		aLo, _ := a.yRange()
		bLo, _ := b.yRange()
		return cmp.Compare(aLo, bLo)
	})

	r.active = r.active[:0]
	next := 0
	for y := yMin; y < yMax; y++ {
		top := float64(y)
		for next < len(r.edges) {
			if lo, _ := r.edges[next].yRange(); lo >= top+1 {
				break
			}
			r.active = append(r.active, next)
			next++
		}
		if len(r.active) == 0 {
			continue
		}

		clear(r.cover)
		clear(r.area)
		for i := 0; i < len(r.active); {
			e := &r.edges[r.active[i]]
			if _, hi := e.yRange(); hi <= top {
				last := len(r.active) - 1
				r.active[i] = r.active[last]
				r.active = r.active[:last]
				continue
			}
			r.accumulate(e, y, r.cover, r.area, xMin, xMax)
			i++
		}

		integrateNonZero(r.cover, r.area)
		if run, k := nonZeroRun(r.cover); run != nil {
			emit(y, xMin+k, run)
		}
	}
}

const (
	// defaultFlatness is the default curve approximation tolerance in
	// pixels.
	defaultFlatness = 0.25

	// horizontalEdgeThreshold is the smallest vertical extent of an edge
	// which contributes to coverage.
	horizontalEdgeThreshold = 1e-10

	// bufferThreshold is the default for Rasterizer.bufferThreshold.
	bufferThreshold = 65536
)
