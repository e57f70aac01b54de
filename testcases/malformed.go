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

// malformedCases contain nodes and rules which cannot be drawn.  With
// the default policy these are skipped.
var malformedCases = []TestCase{
	{
		Name: "missing_properties",
		Scene: func() *scene.Tree {
			b, ws := newBuilder()
			b.part(ws, "Good", -10, 0, 8, 8, 0, green)
			noSize := b.part(ws, "NoSize", 0, 0, 8, 8, 0, red)
			delete(b.Node(noSize).Props, "Size")
			badColor := b.part(ws, "BadColor", 10, 0, 8, 8, 0, red)
			b.SetProp(badColor, "Color", scene.String("red"))
			b.part(ws, "AlsoGood", 0, 10, 8, 8, 45, blue)
			return b.Tree
		},
		Config:       drawEverything,
		Width:        64,
		Height:       64,
		CenterX:      32,
		CenterZ:      32,
		Scale:        2,
		WantCommands: 2,
		WantSkipped:  2,
	},
	{
		Name:  "missing_path",
		Scene: roads,
		Config: &config.Config{
			Mode: config.Rules{
				{Color: rgb(0, 0, 200), Path: []string{"Workspace", "Rivers"}, PartName: "Base"},
				{Color: rgb(90, 90, 90), Path: []string{"Workspace", "Map", "Roads"}, PartName: "Base"},
			},
		},
		Width:        96,
		Height:       96,
		CenterX:      48,
		CenterZ:      48,
		Scale:        2,
		WantCommands: 2,
		WantSkipped:  1,
	},
	{
		Name: "degenerate",
		Scene: func() *scene.Tree {
			b, ws := newBuilder()
			b.part(ws, "Flat", 0, 0, 0, 10, 0, red)
			b.part(ws, "Inverted", 0, 0, -4, 10, 30, red)
			b.part(ws, "Fine", 0, 0, 4, 4, 0, green)
			return b.Tree
		},
		Config:       drawEverything,
		Width:        32,
		Height:       32,
		CenterX:      16,
		CenterZ:      16,
		Scale:        2,
		WantCommands: 3,
	},
}
