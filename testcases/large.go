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
	"seehuhn.de/go/maprender/scene"
)

// largeCases contain footprints with bounding boxes of more than 65536
// pixels, which the rasterizer processes one scanline at a time.
var largeCases = []TestCase{
	{
		Name: "large_plate",
		Scene: func() *scene.Tree {
			b, ws := newBuilder()
			b.part(ws, "Baseplate", 0, 0, 400, 400, 0, green)
			b.part(ws, "Diagonal", 0, 0, 300, 40, 45, grey)
			return b.Tree
		},
		Config:       drawEverything,
		Width:        512,
		Height:       512,
		CenterX:      256,
		CenterZ:      256,
		Scale:        1,
		WantCommands: 2,
	},
	{
		Name: "large_grid",
		Scene: func() *scene.Tree {
			b, ws := newBuilder()
			grid := b.model(ws, "Grid")
			for row := range 8 {
				for col := range 8 {
					x := float64(col)*60 - 210
					z := float64(row)*60 - 210
					c := blue
					if (row+col)%2 == 0 {
						c = white
					}
					b.part(grid, "Tile", x, z, 56, 56, 0, c)
				}
			}
			return b.Tree
		},
		Config:       drawEverything,
		Width:        512,
		Height:       512,
		CenterX:      256,
		CenterZ:      256,
		Scale:        1,
		WantCommands: 64,
	},
	{
		Name: "large_clipped",
		Scene: func() *scene.Tree {
			b, ws := newBuilder()
			b.part(ws, "Runway", 0, 0, 900, 120, 10, grey)
			return b.Tree
		},
		Config:       drawEverything,
		Width:        512,
		Height:       512,
		CenterX:      256,
		CenterZ:      256,
		Scale:        1,
		WantCommands: 1,
	},
}
