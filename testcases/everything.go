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

package testcases

import (
	"seehuhn.de/go/maprender/config"
	"seehuhn.de/go/maprender/scene"
)

var drawEverything = &config.Config{Mode: config.Everything{}}

var everythingCases = []TestCase{
	{
		Name: "single_part",
		Scene: func() *scene.Tree {
			b, ws := newBuilder()
			b.part(ws, "Base", 0, 0, 10, 10, 0, red)
			return b.Tree
		},
		Config:       drawEverything,
		Width:        64,
		Height:       64,
		CenterX:      32,
		CenterZ:      32,
		Scale:        2,
		WantCommands: 1,
	},
	{
		Name: "rotations",
		Scene: func() *scene.Tree {
			b, ws := newBuilder()
			for i, yaw := range []float64{0, 30, 45, 90, -60, 180} {
				x := float64(i%3)*20 - 20
				z := float64(i/3)*20 - 10
				b.part(ws, "Plank", x, z, 14, 4, yaw, blue)
			}
			return b.Tree
		},
		Config:       drawEverything,
		Width:        128,
		Height:       96,
		CenterX:      64,
		CenterZ:      48,
		Scale:        2,
		WantCommands: 6,
	},
	{
		Name: "nested_models",
		Scene: func() *scene.Tree {
			b, ws := newBuilder()
			town := b.model(ws, "Town")
			house := b.model(town, "House")
			b.part(house, "Floor", -5, 0, 12, 10, 0, grey)
			b.part(house, "Roof", -5, 0, 8, 6, 15, red)
			b.Add(house, "WedgePart", "Porch")
			b.Add(house, "Script", "Door")
			b.part(town, "Road", 10, 0, 4, 30, 0, grey)
			return b.Tree
		},
		Config:       drawEverything,
		Width:        80,
		Height:       80,
		CenterX:      40,
		CenterZ:      40,
		Scale:        2,
		WantCommands: 3,
	},
	{
		Name: "translucent",
		Scene: func() *scene.Tree {
			b, ws := newBuilder()
			b.part(ws, "Ground", 0, 0, 30, 30, 0, green)
			water := b.part(ws, "Water", 5, 5, 20, 20, 0, blue)
			b.SetProp(water, "Transparency", scene.Float32(0.5))
			ghost := b.part(ws, "Ghost", -5, -5, 10, 10, 0, red)
			b.SetProp(ghost, "Transparency", scene.Float32(1))
			return b.Tree
		},
		Config:       &config.Config{Mode: config.Everything{}, Background: white},
		Width:        64,
		Height:       64,
		CenterX:      32,
		CenterZ:      32,
		Scale:        1.5,
		WantCommands: 3,
	},
	{
		Name: "ball",
		Scene: func() *scene.Tree {
			b, ws := newBuilder()
			b.part(ws, "Pad", 0, 0, 24, 24, 0, grey)
			ball := b.part(ws, "Ball", 0, 0, 16, 16, 0, red)
			b.SetProp(ball, "Shape", scene.Enum(0))
			egg := b.part(ws, "Egg", 20, 0, 6, 12, 30, blue)
			b.SetProp(egg, "Shape", scene.Enum(0))
			return b.Tree
		},
		Config:       drawEverything,
		Width:        96,
		Height:       64,
		CenterX:      40,
		CenterZ:      32,
		Scale:        2,
		WantCommands: 3,
	},
}
