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

// Package canvas holds the destination pixel buffer of a map rendering.
//
// A [Canvas] stores non-premultiplied RGBA pixels.  Outlines are filled
// with anti-aliased coverage from the [raster] package and composited
// onto the existing pixels using straight alpha blending.
package canvas

import (
	"image"
	"image/color"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/maprender/raster"
)

// Canvas is a width×height RGBA pixel buffer.
//
// A Canvas is not safe for concurrent use.
type Canvas struct {
	Img *image.NRGBA

	r *raster.Rasterizer
}

// New allocates a fully transparent canvas.
func New(width, height int) *Canvas {
	width = max(width, 0)
	height = max(height, 0)
	clip := rect.Rect{URx: float64(width), URy: float64(height)}
	return &Canvas{
		Img: image.NewNRGBA(image.Rect(0, 0, width, height)),
		r:   raster.NewRasterizer(clip),
	}
}

// Width returns the width of the canvas in pixels.
func (c *Canvas) Width() int {
	return c.Img.Rect.Dx()
}

// Height returns the height of the canvas in pixels.
func (c *Canvas) Height() int {
	return c.Img.Rect.Dy()
}

// Clear sets every pixel to col, replacing the previous contents.
func (c *Canvas) Clear(col color.NRGBA) {
	pix := c.Img.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i+0] = col.R
		pix[i+1] = col.G
		pix[i+2] = col.B
		pix[i+3] = col.A
	}
}

// Fill paints the interior of p, using the nonzero winding rule.
// Coordinates are in pixels, with y increasing downwards.
func (c *Canvas) Fill(p *path.Data, col color.NRGBA) {
	if col.A == 0 {
		return
	}
	c.r.FillNonZero(p, func(y, xMin int, coverage []float32) {
		c.blendRow(y, xMin, coverage, col)
	})
}

// FillQuad paints the quadrilateral q.  Quads with zero area leave the
// canvas unchanged.
func (c *Canvas) FillQuad(q raster.Quad, col color.NRGBA) {
	if col.A == 0 {
		return
	}
	c.r.FillQuad(q, func(y, xMin int, coverage []float32) {
		c.blendRow(y, xMin, coverage, col)
	})
}

// blendRow composites col onto a run of pixels.  For a pixel with
// coverage a, the effective opacity is k = a·alpha/255 and every colour
// channel becomes src·k + dst·(1-k).  The alpha channel is treated as a
// channel with source value 255.
func (c *Canvas) blendRow(y, xMin int, coverage []float32, col color.NRGBA) {
	img := c.Img
	off := img.PixOffset(xMin, y)
	row := img.Pix[off : off+4*len(coverage)]

	alpha := float32(col.A) / 255
	sr, sg, sb := float32(col.R), float32(col.G), float32(col.B)
	for i, a := range coverage {
		k := min(max(a, 0), 1) * alpha
		if k == 0 {
			continue
		}
		px := row[4*i : 4*i+4 : 4*i+4]
		if k >= 1 {
			px[0], px[1], px[2], px[3] = col.R, col.G, col.B, 255
			continue
		}
		l := 1 - k
		px[0] = toByte(sr*k + float32(px[0])*l)
		px[1] = toByte(sg*k + float32(px[1])*l)
		px[2] = toByte(sb*k + float32(px[2])*l)
		px[3] = toByte(255*k + float32(px[3])*l)
	}
}

func toByte(v float32) uint8 {
	v += 0.5
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
