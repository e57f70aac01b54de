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

package placefile

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"seehuhn.de/go/maprender/orient"
	"seehuhn.de/go/maprender/scene"
)

// canonicalNames maps property names as stored in place files to the
// names used in the scene tree.
var canonicalNames = map[string]string{
	"size":        "Size",
	"Color3uint8": "Color",
	"shape":       "Shape",
	"archivable":  "Archivable",
}

func canonical(name string) string {
	if c, ok := canonicalNames[name]; ok {
		return c
	}
	return name
}

type xmlDocument struct {
	XMLName xml.Name  `xml:"roblox"`
	Items   []xmlItem `xml:"Item"`
}

type xmlItem struct {
	Class      string        `xml:"class,attr"`
	Referent   string        `xml:"referent,attr"`
	Properties xmlProperties `xml:"Properties"`
	Items      []xmlItem     `xml:"Item"`
}

type xmlProperties struct {
	Fields []xmlField `xml:",any"`
}

// xmlField is a single property, or a component of a compound property.
type xmlField struct {
	XMLName xml.Name
	Name    string     `xml:"name,attr"`
	Text    string     `xml:",chardata"`
	Fields  []xmlField `xml:",any"`
}

// DecodeXML reads a place file in XML encoding.
func DecodeXML(r io.Reader) (*scene.Tree, error) {
	var doc xmlDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, &FormatError{Kind: XML, Msg: "invalid XML", Err: err}
	}

	tree := scene.NewTree()
	for i := range doc.Items {
		if err := addXMLItem(tree, scene.Root, &doc.Items[i]); err != nil {
			return nil, err
		}
	}
	return tree, nil
}

func addXMLItem(tree *scene.Tree, parent scene.NodeID, item *xmlItem) error {
	id := tree.Add(parent, item.Class, "")
	for _, f := range item.Properties.Fields {
		if f.Name == "Name" && f.XMLName.Local == "string" {
			tree.Node(id).Name = f.Text
			continue
		}
		v, err := xmlValue(&f)
		if err != nil {
			return &FormatError{
				Kind: XML,
				Msg:  fmt.Sprintf("%s %q: property %q", item.Class, item.Referent, f.Name),
				Err:  err,
			}
		}
		if v != nil {
			tree.SetProp(id, canonical(f.Name), v)
		}
	}
	for i := range item.Items {
		if err := addXMLItem(tree, id, &item.Items[i]); err != nil {
			return err
		}
	}
	return nil
}

// xmlValue converts a property element into a scene value.  Unsupported
// property types give a nil value.
func xmlValue(f *xmlField) (scene.Value, error) {
	text := strings.TrimSpace(f.Text)
	switch f.XMLName.Local {
	case "string", "ProtectedString", "BinaryString", "Content":
		return scene.String(f.Text), nil
	case "bool":
		b, err := strconv.ParseBool(text)
		return scene.Bool(b), err
	case "int":
		x, err := strconv.ParseInt(text, 10, 32)
		return scene.Int32(x), err
	case "float":
		x, err := parseFloat(text, 32)
		return scene.Float32(x), err
	case "double":
		x, err := parseFloat(text, 64)
		return scene.Float64(x), err
	case "token":
		x, err := strconv.ParseUint(text, 10, 32)
		return scene.Enum(x), err
	case "Vector3":
		c, err := components(f, "X", "Y", "Z")
		if err != nil {
			return nil, err
		}
		return scene.Vector3{X: c[0], Y: c[1], Z: c[2]}, nil
	case "Color3":
		c, err := components(f, "R", "G", "B")
		if err != nil {
			return nil, err
		}
		return scene.Color3{R: float32(c[0]), G: float32(c[1]), B: float32(c[2])}, nil
	case "Color3uint8":
		x, err := strconv.ParseUint(text, 10, 32)
		if err != nil {
			return nil, err
		}
		return scene.Color3uint8{R: uint8(x >> 16), G: uint8(x >> 8), B: uint8(x)}, nil
	case "CoordinateFrame", "CFrame":
		c, err := components(f, "X", "Y", "Z",
			"R00", "R01", "R02", "R10", "R11", "R12", "R20", "R21", "R22")
		if err != nil {
			return nil, err
		}
		var rot orient.Matrix3
		copy(rot[:], c[3:])
		return scene.CFrame{
			Position: scene.Vector3{X: c[0], Y: c[1], Z: c[2]},
			Rotation: rot,
		}, nil
	}
	return nil, nil
}

// components reads the named numeric sub-elements of a compound property.
func components(f *xmlField, names ...string) ([]float64, error) {
	res := make([]float64, len(names))
	found := make([]bool, len(names))
	for _, sub := range f.Fields {
		for i, name := range names {
			if sub.XMLName.Local != name {
				continue
			}
			x, err := parseFloat(strings.TrimSpace(sub.Text), 64)
			if err != nil {
				return nil, err
			}
			res[i] = x
			found[i] = true
		}
	}
	for i, ok := range found {
		if !ok {
			return nil, fmt.Errorf("missing component %s", names[i])
		}
	}
	return res, nil
}

// parseFloat accepts the spellings of special values used in place files.
func parseFloat(s string, bitSize int) (float64, error) {
	switch s {
	case "INF":
		s = "+Inf"
	case "-INF":
		s = "-Inf"
	case "NAN":
		s = "NaN"
	}
	return strconv.ParseFloat(s, bitSize)
}
