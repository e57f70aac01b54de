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

// roads builds a small town:
//
//	Workspace
//	└── Map
//	    ├── Roads
//	    │   ├── RoadSegment
//	    │   │   ├── Base
//	    │   │   └── Kerb
//	    │   └── RoadSegment
//	    │       └── Base
//	    └── Water
//	        └── Base
func roads() *scene.Tree {
	b, ws := newBuilder()
	m := b.model(ws, "Map")
	rs := b.folder(m, "Roads")

	seg := b.model(rs, "RoadSegment")
	b.part(seg, "Base", 0, -10, 40, 6, 0, red)
	b.part(seg, "Kerb", 0, -13, 40, 1, 0, white)

	seg = b.model(rs, "RoadSegment")
	b.part(seg, "Base", 0, 5, 30, 6, 90, red)

	water := b.folder(m, "Water")
	b.part(water, "Base", 15, 15, 20, 20, 0, green)
	return b.Tree
}

var ruleCases = []TestCase{
	{
		Name:  "roads",
		Scene: roads,
		Config: &config.Config{
			Mode: config.Rules{
				{Color: rgb(10, 20, 30), Path: []string{"Map", "Roads"}, PartName: "Base"},
			},
			Background: white,
		},
		Width:        96,
		Height:       96,
		CenterX:      48,
		CenterZ:      48,
		Scale:        2,
		WantCommands: 2,
	},
	{
		Name:  "layers",
		Scene: roads,
		Config: &config.Config{
			Mode: config.Rules{
				{Color: rgb(60, 120, 200), Path: []string{"Workspace", "Map", "Water"}, PartName: "Base"},
				{Color: rgb(90, 90, 90), Path: []string{"Workspace", "Map", "Roads"}, PartName: "Base"},
				{Color: rgb(250, 250, 250), Path: []string{"Workspace", "Map"}, PartName: "Kerb"},
			},
			Background: rgb(200, 230, 180),
		},
		Width:        96,
		Height:       96,
		CenterX:      48,
		CenterZ:      48,
		Scale:        2,
		WantCommands: 4,
	},
}
