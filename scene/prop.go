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
	"fmt"
	"image/color"
)

// ErrNoProperty indicates that a node does not have a requested property.
var ErrNoProperty = errors.New("property not set")

// PropertyError describes a property which is missing or has the wrong
// type.
type PropertyError struct {
	Node NodeID
	Name string
	Want []Kind

	// Got is the kind of the stored value, or 0 if the property is
	// missing.
	Got Kind
}

func (e *PropertyError) Error() string {
	if e.Got == 0 {
		return fmt.Sprintf("node %d: property %q not set", e.Node, e.Name)
	}
	return fmt.Sprintf("node %d: property %q has type %s, want %s",
		e.Node, e.Name, e.Got, kindList(e.Want))
}

// Is allows errors.Is(err, ErrNoProperty) for missing properties.
func (e *PropertyError) Is(target error) bool {
	return target == ErrNoProperty && e.Got == 0
}

func kindList(kinds []Kind) string {
	var s string
	for i, k := range kinds {
		if i > 0 {
			s += " or "
		}
		s += k.String()
	}
	return s
}

// Get returns the property name of node id, with the concrete type T.
// If the property is missing or has a different type, a [*PropertyError]
// is returned.
func Get[T Value](t *Tree, id NodeID, name string) (T, error) {
	var zero T
	v, ok := t.Prop(id, name)
	if !ok {
		return zero, &PropertyError{Node: id, Name: name, Want: []Kind{zero.Kind()}}
	}
	x, ok := v.(T)
	if !ok {
		return zero, &PropertyError{Node: id, Name: name, Want: []Kind{zero.Kind()}, Got: v.Kind()}
	}
	return x, nil
}

// GetFloat returns a numeric property as a float64.  Both single and
// double precision values are accepted.
func GetFloat(t *Tree, id NodeID, name string) (float64, error) {
	want := []Kind{KindFloat32, KindFloat64}
	v, ok := t.Prop(id, name)
	if !ok {
		return 0, &PropertyError{Node: id, Name: name, Want: want}
	}
	switch x := v.(type) {
	case Float32:
		return float64(x), nil
	case Float64:
		return float64(x), nil
	}
	return 0, &PropertyError{Node: id, Name: name, Want: want, Got: v.Kind()}
}

// GetColor returns a colour property as an opaque NRGBA value.  Both
// [Color3] and [Color3uint8] values are accepted.
func GetColor(t *Tree, id NodeID, name string) (color.NRGBA, error) {
	want := []Kind{KindColor3uint8, KindColor3}
	v, ok := t.Prop(id, name)
	if !ok {
		return color.NRGBA{}, &PropertyError{Node: id, Name: name, Want: want}
	}
	switch x := v.(type) {
	case Color3uint8:
		return x.NRGBA(), nil
	case Color3:
		return x.NRGBA(), nil
	}
	return color.NRGBA{}, &PropertyError{Node: id, Name: name, Want: want, Got: v.Kind()}
}
