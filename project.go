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

package maprender

import (
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/maprender/orient"
	"seehuhn.de/go/maprender/raster"
	"seehuhn.de/go/maprender/scene"
)

// Projector maps the horizontal world plane to image pixels.  World x
// becomes image x and world z becomes image y; the height is dropped.
type Projector struct {
	// CenterX and CenterZ give the pixel position of the world origin.
	CenterX, CenterZ float64

	// Scale is the number of pixels per world unit.
	Scale float64
}

// Point returns the pixel position of the world point (x, ·, z).
func (p Projector) Point(x, z float64) vec.Vec2 {
	return vec.Vec2{
		X: x*p.Scale + p.CenterX,
		Y: z*p.Scale + p.CenterZ,
	}
}

// Extents returns the scaled half-extents of an object with world size
// sx along x and sz along z.  A negative scale mirrors the map but does
// not change the extents.
func (p Projector) Extents(sx, sz float64) (hw, hd float64) {
	scale := math.Abs(p.Scale)
	return sx * scale / 2, sz * scale / 2
}

// Project computes the image footprint of an object with the given
// coordinate frame and size.  Only the rotation about the vertical axis
// is used.
func (p Projector) Project(cf scene.CFrame, size scene.Vector3) Footprint {
	hw, hd := p.Extents(size.X, size.Z)
	return Footprint{
		Center:    p.Point(cf.Position.X, cf.Position.Z),
		HalfWidth: hw,
		HalfDepth: hd,
		Yaw:       orient.Yaw(cf.Rotation),
	}
}

// Footprint is the outline of an object seen from above, in pixel
// coordinates.
type Footprint struct {
	Center    vec.Vec2
	HalfWidth float64
	HalfDepth float64

	// Yaw is the rotation about the vertical axis, in radians.
	Yaw float64

	// Round selects an elliptical outline inscribed in the rectangle.
	Round bool
}

// Quad returns the rectangular outline of f.  The result is false if the
// footprint has no area.
func (f Footprint) Quad() (raster.Quad, bool) {
	return raster.NewQuad(f.Center, f.HalfWidth, f.HalfDepth, f.Yaw)
}

// Outline returns the closed outline of f.  The result is false if the
// footprint has no area.
func (f Footprint) Outline() (*path.Data, bool) {
	if f.Round {
		return raster.Ellipse(f.Center, f.HalfWidth, f.HalfDepth, f.Yaw)
	}
	q, ok := f.Quad()
	if !ok {
		return nil, false
	}
	return q.Path(), true
}
