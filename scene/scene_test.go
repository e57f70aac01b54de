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

package scene

import (
	"errors"
	"image/color"
	"math"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// sample builds
//
//	game
//	├── Workspace
//	│   ├── Map
//	│   │   ├── Roads
//	│   │   │   └── Base
//	│   │   └── Base
//	│   └── Spawn
//	└── Lighting
func sample() (*Tree, map[string]NodeID) {
	t := NewTree()
	ids := make(map[string]NodeID)
	ids["Workspace"] = t.Add(Root, "Workspace", "Workspace")
	ids["Map"] = t.Add(ids["Workspace"], "Model", "Map")
	ids["Roads"] = t.Add(ids["Map"], "Folder", "Roads")
	ids["Roads/Base"] = t.Add(ids["Roads"], "Part", "Base")
	ids["Map/Base"] = t.Add(ids["Map"], "Part", "Base")
	ids["Spawn"] = t.Add(ids["Workspace"], "SpawnLocation", "Spawn")
	ids["Lighting"] = t.Add(Root, "Lighting", "Lighting")
	return t, ids
}

func TestNewTree(t *testing.T) {
	tree := NewTree()
	if tree.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", tree.Len())
	}
	root := tree.Node(Root)
	if root.Class != RootClass || root.Parent != NoParent {
		t.Errorf("unexpected root node %+v", root)
	}
}

func TestDescendantsPreOrder(t *testing.T) {
	tree, ids := sample()

	var got []NodeID
	for id := range tree.Descendants(ids["Workspace"]) {
		got = append(got, id)
	}
	want := []NodeID{ids["Map"], ids["Roads"], ids["Roads/Base"], ids["Map/Base"], ids["Spawn"]}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("traversal order (-want +got):\n%s", d)
	}

	all := slices.Collect(tree.Descendants(Root))
	if len(all) != tree.Len()-1 {
		t.Errorf("got %d descendants of the root, want %d", len(all), tree.Len()-1)
	}
}

func TestDescendantsStop(t *testing.T) {
	tree, ids := sample()
	n := 0
	for range tree.Descendants(Root) {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("iteration did not stop")
	}
	if slices.Collect(tree.Descendants(ids["Spawn"])) != nil {
		t.Errorf("leaf has descendants")
	}
}

func TestResolve(t *testing.T) {
	tree, ids := sample()

	id, err := tree.Resolve(Root, []string{"Workspace", "Map", "Roads"})
	if err != nil {
		t.Fatal(err)
	}
	if id != ids["Roads"] {
		t.Errorf("got node %d, want %d", id, ids["Roads"])
	}

	id, err = tree.Resolve(ids["Roads"], nil)
	if err != nil || id != ids["Roads"] {
		t.Errorf("empty path: got %d, %v", id, err)
	}

	_, err = tree.Resolve(Root, []string{"Workspace", "Rivers", "Water"})
	var pathErr *PathError
	if !errors.As(err, &pathErr) {
		t.Fatalf("got error %v, want *PathError", err)
	}
	if pathErr.Missing != 1 {
		t.Errorf("Missing = %d, want 1", pathErr.Missing)
	}
	if !errors.Is(err, ErrNoChild) {
		t.Errorf("error does not wrap ErrNoChild")
	}
}

func TestFindChildFirstMatch(t *testing.T) {
	tree := NewTree()
	first := tree.Add(Root, "Part", "Base")
	tree.Add(Root, "Part", "Base")
	if id, _ := tree.FindChild(Root, "Base"); id != first {
		t.Errorf("got %d, want first match %d", id, first)
	}
}

func TestFullName(t *testing.T) {
	tree, ids := sample()
	if got := tree.FullName(ids["Roads/Base"]); got != "Workspace.Map.Roads.Base" {
		t.Errorf("got %q", got)
	}
	if got := tree.FullName(Root); got != "" {
		t.Errorf("root: got %q", got)
	}
}

func TestGet(t *testing.T) {
	tree, ids := sample()
	id := ids["Map/Base"]
	size := Vector3{X: 4, Y: 1, Z: 2}
	tree.SetProp(id, "Size", size)
	tree.SetProp(id, "Transparency", Float32(0.25))
	tree.SetProp(id, "Name", String("Base"))

	got, err := Get[Vector3](tree, id, "Size")
	if err != nil {
		t.Fatal(err)
	}
	if got != size {
		t.Errorf("got %v, want %v", got, size)
	}

	_, err = Get[CFrame](tree, id, "CFrame")
	if !errors.Is(err, ErrNoProperty) {
		t.Errorf("missing property: got %v", err)
	}

	_, err = Get[Vector3](tree, id, "Name")
	var propErr *PropertyError
	if !errors.As(err, &propErr) {
		t.Fatalf("wrong type: got %v", err)
	}
	if propErr.Got != KindString || errors.Is(err, ErrNoProperty) {
		t.Errorf("unexpected error %#v", propErr)
	}

	tr, err := GetFloat(tree, id, "Transparency")
	if err != nil || tr != 0.25 {
		t.Errorf("GetFloat: got %g, %v", tr, err)
	}
}

func TestGetColor(t *testing.T) {
	tree := NewTree()
	a := tree.Add(Root, "Part", "a")
	b := tree.Add(Root, "Part", "b")
	tree.SetProp(a, "Color", Color3uint8{R: 10, G: 20, B: 30})
	tree.SetProp(b, "Color", Color3{R: 1, G: 0.5, B: 0})
	c := tree.Add(Root, "Part", "c")
	tree.SetProp(c, "Color", Color3{R: float32(math.NaN()), G: 2, B: -1})

	cases := []struct {
		id   NodeID
		want color.NRGBA
	}{
		{a, color.NRGBA{R: 10, G: 20, B: 30, A: 255}},
		{b, color.NRGBA{R: 255, G: 128, B: 0, A: 255}},
		{c, color.NRGBA{R: 0, G: 255, B: 0, A: 255}},
	}
	for _, tc := range cases {
		got, err := GetColor(tree, tc.id, "Color")
		if err != nil {
			t.Fatal(err)
		}
		if got != tc.want {
			t.Errorf("node %d: got %v, want %v", tc.id, got, tc.want)
		}
	}
}
