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
	"testing"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/maprender/orient"
	"seehuhn.de/go/maprender/scene"
)

func TestProjectorAffine(t *testing.T) {
	p := Projector{CenterX: 100, CenterZ: -20, Scale: 3.5}

	if got := p.Point(0, 0); got != (vec.Vec2{X: 100, Y: -20}) {
		t.Errorf("origin maps to %v", got)
	}

	const e = 0.75
	for _, pt := range [][2]float64{{0, 0}, {1, 2}, {-13.25, 7}} {
		a := p.Point(pt[0], pt[1])
		b := p.Point(pt[0]+e, pt[1])
		if math.Abs((b.X-a.X)-e*p.Scale) > 1e-12 || b.Y != a.Y {
			t.Errorf("%v: shift by %g gives %v -> %v", pt, e, a, b)
		}
	}

	hw, hd := p.Extents(4, 10)
	if hw != 7 || hd != 17.5 {
		t.Errorf("Extents(4, 10) = %g, %g", hw, hd)
	}
}

func TestProject(t *testing.T) {
	p := Projector{CenterX: 50, CenterZ: 50, Scale: 2}
	cf := scene.CFrame{
		Position: scene.Vector3{X: 5, Y: 100, Z: -5},
		Rotation: orient.RotationY(math.Pi / 2),
	}
	fp := p.Project(cf, scene.Vector3{X: 8, Y: 30, Z: 2})

	if fp.Center != (vec.Vec2{X: 60, Y: 40}) {
		t.Errorf("center %v", fp.Center)
	}
	if fp.HalfWidth != 8 || fp.HalfDepth != 2 {
		t.Errorf("half-extents %g, %g", fp.HalfWidth, fp.HalfDepth)
	}
	if math.Abs(fp.Yaw-math.Pi/2) > 1e-4 {
		t.Errorf("yaw %g, want π/2", fp.Yaw)
	}

	// The height of a tilted part is ignored.
	tilted := cf
	tilted.Rotation = orient.RotationY(0.3).Mul(orient.Matrix3{1, 0, 0, 0, 0, -1, 0, 1, 0})
	if fp := p.Project(tilted, scene.Vector3{X: 1, Y: 1, Z: 1}); math.IsNaN(fp.Yaw) {
		t.Errorf("tilted part has yaw NaN")
	}
}

func TestFootprintOutline(t *testing.T) {
	fp := Footprint{Center: vec.Vec2{X: 10, Y: 10}, HalfWidth: 4, HalfDepth: 2, Yaw: 0.5}

	outline, ok := fp.Outline()
	if !ok {
		t.Fatal("no outline")
	}
	if n := len(outline.Cmds); n != 5 || outline.Cmds[4] != path.CmdClose {
		t.Errorf("unexpected quad outline %v", outline.Cmds)
	}

	fp.Round = true
	outline, ok = fp.Outline()
	if !ok {
		t.Fatal("no round outline")
	}
	if outline.Cmds[1] != path.CmdCubeTo {
		t.Errorf("round outline uses %v", outline.Cmds[1])
	}

	for _, bad := range []Footprint{
		{HalfWidth: 0, HalfDepth: 2},
		{HalfWidth: 2, HalfDepth: -1},
		{HalfWidth: 0, HalfDepth: 0, Round: true},
		{HalfWidth: math.NaN(), HalfDepth: 1},
	} {
		if _, ok := bad.Outline(); ok {
			t.Errorf("%+v has an outline", bad)
		}
	}
}

func TestNegativeScale(t *testing.T) {
	p := Projector{CenterX: 50, CenterZ: 50, Scale: -2}
	cf := scene.CFrame{Position: scene.Vector3{X: 5, Z: 1}, Rotation: orient.Identity}
	fp := p.Project(cf, scene.Vector3{X: 10, Y: 1, Z: 10})

	if fp.Center != (vec.Vec2{X: 40, Y: 48}) {
		t.Errorf("center %v", fp.Center)
	}
	if fp.HalfWidth != 10 || fp.HalfDepth != 10 {
		t.Errorf("half-extents %g, %g", fp.HalfWidth, fp.HalfDepth)
	}
	if _, ok := fp.Outline(); !ok {
		t.Error("mirrored footprint has no outline")
	}
}
