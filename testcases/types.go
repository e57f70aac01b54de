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

// Package testcases contains small places and configurations used by the
// tests and by the preview generator.
package testcases

import (
	"image/color"
	"math"

	"seehuhn.de/go/maprender/config"
	"seehuhn.de/go/maprender/orient"
	"seehuhn.de/go/maprender/scene"
)

// TestCase defines a single map rendering.
type TestCase struct {
	Name   string            // lowercase a-z and _ only
	Scene  func() *scene.Tree // builds a fresh copy of the place
	Config *config.Config

	Width  int // image width in pixels
	Height int // image height in pixels

	CenterX, CenterZ float64 // pixel position of the world origin
	Scale            float64 // pixels per world unit

	WantCommands int // number of draw commands selected
	WantSkipped  int // number of problems skipped
}

// builder adds nodes to a scene tree.
type builder struct {
	*scene.Tree
}

func newBuilder() (*builder, scene.NodeID) {
	b := &builder{scene.NewTree()}
	ws := b.Add(scene.Root, "Workspace", "Workspace")
	return b, ws
}

func (b *builder) folder(parent scene.NodeID, name string) scene.NodeID {
	return b.Add(parent, "Folder", name)
}

func (b *builder) model(parent scene.NodeID, name string) scene.NodeID {
	return b.Add(parent, "Model", name)
}

// part adds a block at (x, ·, z) with size sx × 1 × sz, rotated by yaw
// degrees about the vertical axis.
func (b *builder) part(parent scene.NodeID, name string, x, z, sx, sz, yaw float64, col color.NRGBA) scene.NodeID {
	id := b.Add(parent, "Part", name)
	b.SetProp(id, "CFrame", scene.CFrame{
		Position: scene.Vector3{X: x, Y: 1, Z: z},
		Rotation: orient.RotationY(yaw * math.Pi / 180),
	})
	b.SetProp(id, "Size", scene.Vector3{X: sx, Y: 1, Z: sz})
	b.SetProp(id, "Color", scene.Color3uint8{R: col.R, G: col.G, B: col.B})
	b.SetProp(id, "Transparency", scene.Float32(0))
	b.SetProp(id, "Shape", scene.Enum(1))
	return id
}

func rgb(r, g, b uint8) color.NRGBA {
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

var (
	red   = rgb(220, 40, 40)
	green = rgb(40, 180, 60)
	blue  = rgb(40, 60, 220)
	grey  = rgb(128, 128, 128)
	white = rgb(255, 255, 255)
)
