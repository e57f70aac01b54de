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

package raster

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"testing"

	"golang.org/x/image/vector"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// benchQuads returns a fan of rotated parts covering the canvas, similar
// to a road network.
func benchQuads(size int) []Quad {
	var quads []Quad
	c := float64(size) / 2
	for i := range 64 {
		yaw := float64(i) * math.Pi / 32
		q, _ := NewQuad(vec.Vec2{X: c, Y: c}, c*0.45, c*0.02+1, yaw)
		quads = append(quads, q)
	}
	return quads
}

// BenchmarkFillQuad benchmarks our rasterizer filling rotated parts.
func BenchmarkFillQuad(b *testing.B) {
	for _, size := range []int{64, 512, 4096} {
		b.Run(fmt.Sprintf("%dx%d", size, size), func(b *testing.B) {
			clip := rect.Rect{URx: float64(size), URy: float64(size)}
			r := NewRasterizer(clip)
			dst := image.NewAlpha(image.Rect(0, 0, size, size))
			quads := benchQuads(size)

			b.ReportAllocs()
			for b.Loop() {
				for _, q := range quads {
					r.FillQuad(q, func(y, xMin int, coverage []float32) {
						row := dst.Pix[y*dst.Stride+xMin:]
						for i, c := range coverage {
							row[i] = uint8(c * 255)
						}
					})
				}
			}
		})
	}
}

// BenchmarkVectorQuad benchmarks x/image/vector on the same parts.
func BenchmarkVectorQuad(b *testing.B) {
	for _, size := range []int{64, 512, 4096} {
		b.Run(fmt.Sprintf("%dx%d", size, size), func(b *testing.B) {
			r := vector.NewRasterizer(size, size)
			dst := image.NewAlpha(image.Rect(0, 0, size, size))
			src := image.NewUniform(color.Alpha{A: 255})
			quads := benchQuads(size)

			b.ReportAllocs()
			for b.Loop() {
				for _, q := range quads {
					r.Reset(size, size)
					r.MoveTo(float32(q[0].X), float32(q[0].Y))
					for _, p := range q[1:] {
						r.LineTo(float32(p.X), float32(p.Y))
					}
					r.ClosePath()
					r.Draw(dst, dst.Bounds(), src, image.Point{})
				}
			}
		})
	}
}
