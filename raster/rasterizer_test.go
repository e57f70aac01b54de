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
	"math"
	"testing"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// coverageGrid fills p into a fresh width×height grid.  The threshold
// selects between the buffered approach (large threshold) and the
// scanline approach (zero).
func coverageGrid(p *path.Data, width, height, threshold int) []float32 {
	r := NewRasterizer(rect.Rect{URx: float64(width), URy: float64(height)})
	r.bufferThreshold = threshold

	grid := make([]float32, width*height)
	r.FillNonZero(p, func(y, xMin int, coverage []float32) {
		copy(grid[y*width+xMin:], coverage)
	})
	return grid
}

var approaches = []struct {
	name      string
	threshold int
}{
	{"buffered", 1 << 30},
	{"scanline", 0},
}

// TestTriangleCoverage verifies exact coverage values for a simple triangle.
// The triangle (0,0)→(10,0)→(10,1)→close has a diagonal edge y = x/10.
// Each pixel X should have coverage (2X+1)/20: 0.05, 0.15, ..., 0.95.
func TestTriangleCoverage(t *testing.T) {
	triangle := (&path.Data{}).
		MoveTo(vec.Vec2{X: 0, Y: 0}).
		LineTo(vec.Vec2{X: 10, Y: 0}).
		LineTo(vec.Vec2{X: 10, Y: 1}).
		Close()

	for _, a := range approaches {
		t.Run(a.name, func(t *testing.T) {
			grid := coverageGrid(triangle, 10, 1, a.threshold)
			for x := range 10 {
				want := float32(2*x+1) / 20
				if math.Abs(float64(grid[x]-want)) > 1e-6 {
					t.Errorf("pixel %d: coverage %.4f, want %.4f", x, grid[x], want)
				}
			}
		})
	}
}

func TestAxisAlignedSquare(t *testing.T) {
	const size = 64
	q, ok := NewQuad(vec.Vec2{X: 32, Y: 32}, 10, 10, 0)
	if !ok {
		t.Fatal("NewQuad failed")
	}

	for _, a := range approaches {
		t.Run(a.name, func(t *testing.T) {
			grid := coverageGrid(q.Path(), size, size, a.threshold)
			for y := range size {
				for x := range size {
					want := float32(0)
					if x >= 22 && x < 42 && y >= 22 && y < 42 {
						want = 1
					}
					if got := grid[y*size+x]; got != want {
						t.Fatalf("pixel (%d,%d): coverage %g, want %g", x, y, got, want)
					}
				}
			}
		})
	}
}

func TestHalfPixelEdges(t *testing.T) {
	// the square spans x in [22.5, 42.5), so the outermost columns are
	// half covered
	q, _ := NewQuad(vec.Vec2{X: 32.5, Y: 32}, 10, 10, 0)
	grid := coverageGrid(q.Path(), 64, 64, 1<<30)

	row := grid[30*64:]
	cases := map[int]float32{21: 0, 22: 0.5, 23: 1, 41: 1, 42: 0.5, 43: 0}
	for x, want := range cases {
		if math.Abs(float64(row[x]-want)) > 1e-6 {
			t.Errorf("column %d: coverage %g, want %g", x, row[x], want)
		}
	}
}

func TestQuadWinding(t *testing.T) {
	const hw, hd = 7.5, 3.25
	for i := range 361 {
		yaw := -math.Pi + float64(i)*math.Pi/180
		q, ok := NewQuad(vec.Vec2{X: 50, Y: 40}, hw, hd, yaw)
		if !ok {
			t.Fatalf("yaw %g: NewQuad failed", yaw)
		}
		if area := q.SignedArea(); math.Abs(area-4*hw*hd) > 1e-9 {
			t.Errorf("yaw %g: signed area %g, want %g", yaw, area, 4*hw*hd)
		}
	}
}

func TestQuadCoverageMatchesArea(t *testing.T) {
	for _, yaw := range []float64{0, 0.1, math.Pi / 4, math.Pi / 2, 2, math.Pi, -2.5} {
		q, _ := NewQuad(vec.Vec2{X: 50, Y: 50}, 20, 6, yaw)
		for _, a := range approaches {
			grid := coverageGrid(q.Path(), 100, 100, a.threshold)
			var sum float64
			for _, c := range grid {
				sum += float64(c)
			}
			if math.Abs(sum-4*20*6) > 0.05 {
				t.Errorf("%s, yaw %g: total coverage %g, want %g", a.name, yaw, sum, 4.0*20*6)
			}
		}
	}
}

func TestQuarterTurnExtendsAlongZ(t *testing.T) {
	// a long thin part turned by 90° must extend vertically in the image
	q, _ := NewQuad(vec.Vec2{X: 32, Y: 32}, 20, 2, math.Pi/2)
	grid := coverageGrid(q.Path(), 64, 64, 1<<30)
	if grid[14*64+32] != 1 || grid[49*64+32] != 1 {
		t.Error("quad does not reach along the vertical axis")
	}
	if grid[32*64+14] != 0 || grid[32*64+49] != 0 {
		t.Error("quad extends along the horizontal axis")
	}
}

func TestQuadCorners(t *testing.T) {
	// positive yaw turns the local x axis towards +y in the image
	q, _ := NewQuad(vec.Vec2{X: 50, Y: 50}, 20, 2, math.Pi/4)
	h := math.Sqrt2 / 2
	want := Quad{
		{X: 50 + 18*h, Y: 50 + 22*h},
		{X: 50 - 22*h, Y: 50 - 18*h},
		{X: 50 - 18*h, Y: 50 - 22*h},
		{X: 50 + 22*h, Y: 50 + 18*h},
	}
	for i := range q {
		if math.Abs(q[i].X-want[i].X) > 1e-9 || math.Abs(q[i].Y-want[i].Y) > 1e-9 {
			t.Errorf("corner %d: got %v, want %v", i, q[i], want[i])
		}
	}
}

func TestDegenerateQuads(t *testing.T) {
	c := vec.Vec2{X: 10, Y: 10}
	cases := []struct {
		name       string
		hw, hd, yw float64
	}{
		{"zero_width", 0, 5, 0},
		{"zero_depth", 5, 0, 1},
		{"negative", -3, 5, 0},
		{"nan_yaw", 3, 5, math.NaN()},
		{"inf_extent", math.Inf(1), 5, 0},
	}
	for _, tc := range cases {
		if _, ok := NewQuad(c, tc.hw, tc.hd, tc.yw); ok {
			t.Errorf("%s: NewQuad succeeded", tc.name)
		}
	}

	r := NewRasterizer(rect.Rect{URx: 20, URy: 20})
	r.FillQuad(Quad{}, func(y, xMin int, coverage []float32) {
		t.Error("zero quad produced coverage")
	})
}

func TestOutsideClip(t *testing.T) {
	r := NewRasterizer(rect.Rect{URx: 16, URy: 16})

	far, _ := NewQuad(vec.Vec2{X: 100, Y: 100}, 5, 5, 0.3)
	r.FillQuad(far, func(y, xMin int, coverage []float32) {
		t.Error("quad outside the clip produced coverage")
	})

	// a quad covering the left half and extending beyond the top-left
	// corner still covers the visible pixels fully
	partial, _ := NewQuad(vec.Vec2{X: 0, Y: 0}, 8, 100, 0)
	var rows int
	r.FillQuad(partial, func(y, xMin int, coverage []float32) {
		rows++
		if xMin != 0 || len(coverage) != 8 {
			t.Errorf("row %d: run [%d, %d), want [0, 8)", y, xMin, xMin+len(coverage))
		}
		for _, c := range coverage {
			if c != 1 {
				t.Errorf("row %d: coverage %g, want 1", y, c)
				break
			}
		}
	})
	if rows != 16 {
		t.Errorf("got %d rows, want 16", rows)
	}
}

func TestEllipseArea(t *testing.T) {
	p, ok := Ellipse(vec.Vec2{X: 40, Y: 30}, 25, 12, 0.7)
	if !ok {
		t.Fatal("Ellipse failed")
	}
	for _, a := range approaches {
		// fine flattening, so that the chords do not cut off area
		r := NewRasterizer(rect.Rect{URx: 80, URy: 60})
		r.bufferThreshold = a.threshold
		r.Flatness = 0.01
		var sum float64
		r.FillNonZero(p, func(y, xMin int, coverage []float32) {
			for _, c := range coverage {
				sum += float64(c)
			}
		})
		want := math.Pi * 25 * 12
		if math.Abs(sum-want)/want > 0.01 {
			t.Errorf("%s: total coverage %g, want %g", a.name, sum, want)
		}
	}

	if _, ok := Ellipse(vec.Vec2{}, 0, 1, 0); ok {
		t.Error("degenerate ellipse accepted")
	}
}

func TestOpenSubpathIsClosed(t *testing.T) {
	open := (&path.Data{}).
		MoveTo(vec.Vec2{X: 2, Y: 2}).
		LineTo(vec.Vec2{X: 6, Y: 2}).
		LineTo(vec.Vec2{X: 6, Y: 6}).
		LineTo(vec.Vec2{X: 2, Y: 6})
	grid := coverageGrid(open, 8, 8, 1<<30)
	if grid[4*8+4] != 1 || grid[4*8+1] != 0 {
		t.Error("open subpath was not filled as a closed outline")
	}
}

func TestReset(t *testing.T) {
	r := NewRasterizer(rect.Rect{URx: 8, URy: 8})
	q, _ := NewQuad(vec.Vec2{X: 4, Y: 4}, 2, 2, 0)
	r.FillQuad(q, func(int, int, []float32) {})

	r.Reset(rect.Rect{URx: 4, URy: 4})
	var got int
	r.FillQuad(q, func(y, xMin int, coverage []float32) {
		got += len(coverage)
	})
	if got != 2*2 {
		t.Errorf("got %d covered pixels after Reset, want 4", got)
	}
}
