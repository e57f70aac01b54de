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
	"fmt"
	"image/color"
	"math"

	"seehuhn.de/go/maprender/orient"
)

// Kind identifies the type of a property [Value].
type Kind uint8

// These are the supported property types.
const (
	KindString Kind = iota + 1
	KindBool
	KindInt32
	KindFloat32
	KindFloat64
	KindVector3
	KindCFrame
	KindColor3
	KindColor3uint8
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindInt32:
		return "int32"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindVector3:
		return "Vector3"
	case KindCFrame:
		return "CFrame"
	case KindColor3:
		return "Color3"
	case KindColor3uint8:
		return "Color3uint8"
	case KindEnum:
		return "enum"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Value is a property value.  The set of implementations is closed: it
// consists of the types declared in this file.
type Value interface {
	Kind() Kind
	isValue()
}

// String is a text property.
type String string

// Bool is a boolean property.
type Bool bool

// Int32 is an integer property.
type Int32 int32

// Float32 is a single precision property.
type Float32 float32

// Float64 is a double precision property.
type Float64 float64

// Vector3 is a point or size in world coordinates.  Y is the vertical axis.
type Vector3 struct {
	X, Y, Z float64
}

// CFrame is a coordinate frame: a position together with an orientation.
// The columns of Rotation are the local x, y and z axes expressed in world
// coordinates.
type CFrame struct {
	Position Vector3
	Rotation orient.Matrix3
}

// Color3 is a colour with components in the range [0, 1].
type Color3 struct {
	R, G, B float32
}

// Color3uint8 is a colour with byte components.
type Color3uint8 struct {
	R, G, B uint8
}

// Enum is the numeric value of an enumerated property.
type Enum uint32

func (String) Kind() Kind      { return KindString }
func (Bool) Kind() Kind        { return KindBool }
func (Int32) Kind() Kind       { return KindInt32 }
func (Float32) Kind() Kind     { return KindFloat32 }
func (Float64) Kind() Kind     { return KindFloat64 }
func (Vector3) Kind() Kind     { return KindVector3 }
func (CFrame) Kind() Kind      { return KindCFrame }
func (Color3) Kind() Kind      { return KindColor3 }
func (Color3uint8) Kind() Kind { return KindColor3uint8 }
func (Enum) Kind() Kind        { return KindEnum }

func (String) isValue()      {}
func (Bool) isValue()        {}
func (Int32) isValue()       {}
func (Float32) isValue()     {}
func (Float64) isValue()     {}
func (Vector3) isValue()     {}
func (CFrame) isValue()      {}
func (Color3) isValue()      {}
func (Color3uint8) isValue() {}
func (Enum) isValue()        {}

// NRGBA converts the colour to an opaque 8-bit colour.  Components are
// clamped to [0, 1] and NaN maps to 0.
func (c Color3) NRGBA() color.NRGBA {
	conv := func(v float32) uint8 {
		if math.IsNaN(float64(v)) {
			return 0
		}
		return uint8(math.Round(float64(min(max(v, 0), 1)) * 255))
	}
	return color.NRGBA{R: conv(c.R), G: conv(c.G), B: conv(c.B), A: 255}
}

// NRGBA converts the colour to an opaque 8-bit colour.
func (c Color3uint8) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Identity is the coordinate frame at the origin without rotation.
var Identity = CFrame{Rotation: orient.Identity}
