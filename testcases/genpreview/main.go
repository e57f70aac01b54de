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

// Command genpreview renders all test cases for visual inspection.
// Every case is written both as a PNG image and as a PDF file.
package main

import (
	"flag"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"seehuhn.de/go/maprender"
	"seehuhn.de/go/maprender/canvas"
	"seehuhn.de/go/maprender/pdfout"
	"seehuhn.de/go/maprender/testcases"
)

func main() {
	outDir := flag.String("o", "preview", "output directory")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		panic(err)
	}

	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, tc := range testcases.All[category] {
			name := category + "_" + tc.Name
			base := filepath.Join(*outDir, name)

			if err := generatePNG(tc, base+".png"); err != nil {
				panic(fmt.Errorf("%s: %w", name, err))
			}
			if err := generatePDF(tc, base+".pdf"); err != nil {
				panic(fmt.Errorf("%s: %w", name, err))
			}
		}
	}
}

func params(tc testcases.TestCase) maprender.Params {
	return maprender.Params{
		Width:  tc.Width,
		Height: tc.Height,
		Projector: maprender.Projector{
			CenterX: tc.CenterX,
			CenterZ: tc.CenterZ,
			Scale:   tc.Scale,
		},
	}
}

func generatePNG(tc testcases.TestCase, pngPath string) error {
	c, _, err := maprender.Render(tc.Scene(), tc.Config, params(tc))
	if err != nil {
		return err
	}
	return canvas.Save(pngPath, c.Img)
}

func generatePDF(tc testcases.TestCase, pdfPath string) error {
	p := params(tc)
	sel, err := maprender.Select(tc.Scene(), tc.Config, p.Projector)
	if err != nil {
		return err
	}

	page, err := pdfout.Create(pdfPath, p.Width, p.Height, tc.Config.Background)
	if err != nil {
		return err
	}
	maprender.Compose(sel.Commands, page)
	return page.Close()
}
