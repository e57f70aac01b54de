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

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// Quad is a convex quadrilateral in device coordinates.
//
// Quads built by [NewQuad] have their corners in a fixed cyclic order, so
// that the signed area is positive for every rotation angle and the outline
// never intersects itself.
type Quad [4]vec.Vec2

// NewQuad returns the rectangle with half-extents hw (along the local x
// axis) and hd (along the local z axis), rotated by yaw radians about the
// vertical axis and centered at center.
//
// A point (x, z) of the local frame maps to
//
//	(x·cos(yaw) - z·sin(yaw), x·sin(yaw) + z·cos(yaw)) + center,
//
// the standard rotation of the image plane.  The result is false if the
// half-extents are not positive or any argument is not finite.
func NewQuad(center vec.Vec2, hw, hd, yaw float64) (Quad, bool) {
	if !usable(center, hw, hd, yaw) {
		return Quad{}, false
	}

	sin, cos := math.Sincos(yaw)
	corner := func(sx, sz float64) vec.Vec2 {
		x, z := sx*hw, sz*hd
		return vec.Vec2{
			X: center.X + x*cos - z*sin,
			Y: center.Y + x*sin + z*cos,
		}
	}
	return Quad{corner(1, 1), corner(-1, 1), corner(-1, -1), corner(1, -1)}, true
}

// SignedArea returns the area enclosed by q, computed with the shoelace
// formula.  The sign gives the orientation of the corner sequence.
func (q Quad) SignedArea() float64 {
	var sum float64
	for i, a := range q {
		b := q[(i+1)%len(q)]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

// Path returns the closed outline of q.
func (q Quad) Path() *path.Data {
	return (&path.Data{}).
		MoveTo(q[0]).
		LineTo(q[1]).
		LineTo(q[2]).
		LineTo(q[3]).
		Close()
}

// kappa is the control point distance for approximating a quarter circle
// of radius 1 by a cubic Bézier curve.
const kappa = 0.5522847498

// Ellipse returns the outline of the ellipse with semi-axes rx (along the
// local x axis) and rz (along the local z axis), rotated by yaw like in
// [NewQuad] and centered at center.  The result is false if the semi-axes
// are not positive or any argument is not finite.
func Ellipse(center vec.Vec2, rx, rz, yaw float64) (*path.Data, bool) {
	if !usable(center, rx, rz, yaw) {
		return nil, false
	}

	sin, cos := math.Sincos(yaw)
	pt := func(x, z float64) vec.Vec2 {
		return vec.Vec2{
			X: center.X + x*cos - z*sin,
			Y: center.Y + x*sin + z*cos,
		}
	}

	kx, kz := kappa*rx, kappa*rz
	p := (&path.Data{}).
		MoveTo(pt(rx, 0)).
		CubeTo(pt(rx, kz), pt(kx, rz), pt(0, rz)).
		CubeTo(pt(-kx, rz), pt(-rx, kz), pt(-rx, 0)).
		CubeTo(pt(-rx, -kz), pt(-kx, -rz), pt(0, -rz)).
		CubeTo(pt(kx, -rz), pt(rx, -kz), pt(rx, 0)).
		Close()
	return p, true
}

func usable(center vec.Vec2, a, b, angle float64) bool {
	if !(a > 0 && b > 0) {
		return false
	}
	for _, v := range []float64{center.X, center.Y, a, b, angle} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
