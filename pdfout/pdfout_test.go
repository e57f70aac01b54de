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

package pdfout

import (
	"bytes"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	pdfcolor "seehuhn.de/go/pdf/graphics/color"
)

func TestCreate(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "map.pdf")
	page, err := Create(fname, 100, 50, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	if err != nil {
		t.Fatal(err)
	}

	square := (&path.Data{}).
		MoveTo(vec.Vec2{X: 10, Y: 10}).
		LineTo(vec.Vec2{X: 30, Y: 10}).
		LineTo(vec.Vec2{X: 30, Y: 30}).
		LineTo(vec.Vec2{X: 10, Y: 30}).
		Close()
	curve := (&path.Data{}).
		MoveTo(vec.Vec2{X: 50, Y: 10}).
		QuadTo(vec.Vec2{X: 70, Y: 0}, vec.Vec2{X: 90, Y: 10}).
		CubeTo(vec.Vec2{X: 90, Y: 30}, vec.Vec2{X: 70, Y: 40}, vec.Vec2{X: 50, Y: 40}).
		Close()

	page.Fill(square, color.NRGBA{R: 255, A: 255})
	page.Fill(curve, color.NRGBA{B: 255, A: 128})
	page.Fill(square, color.NRGBA{G: 255}) // transparent, skipped
	page.Fill(&path.Data{}, color.NRGBA{G: 255, A: 255})

	if got := page.Filled(); got != 2 {
		t.Errorf("Filled() = %d, want 2", got)
	}
	if err := page.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(fname)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-1.7")) {
		t.Errorf("missing PDF header")
	}
	if !bytes.Contains(data, []byte("%%EOF")) {
		t.Errorf("missing end-of-file marker")
	}
}

func TestDeviceColor(t *testing.T) {
	c := deviceColor(color.NRGBA{R: 255, G: 0, B: 51, A: 255})
	got, ok := c.(pdfcolor.DeviceRGB)
	if !ok {
		t.Fatalf("deviceColor returned %T", c)
	}
	want := pdfcolor.DeviceRGB{1, 0, 0.2}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("component %d: got %g, want %g", i, got[i], want[i])
		}
	}
}
