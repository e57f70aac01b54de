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

// Package pdfout writes map renderings as vector graphics in PDF format.
//
// The page has one PDF unit per pixel of the corresponding raster image,
// and uses the same coordinate system as the raster output: the origin is
// in the top-left corner and y increases downwards.
package pdfout

import (
	"image/color"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	pdfcolor "seehuhn.de/go/pdf/graphics/color"
)

// Page is a single page PDF file which receives filled outlines.
type Page struct {
	page   *document.Page
	filled int
}

// Create starts a new PDF file of the given size.  If the background is
// not fully transparent, the page is first filled with the background
// colour.
func Create(fname string, width, height int, background color.NRGBA) (*Page, error) {
	w, h := float64(width), float64(height)
	paper := &pdf.Rectangle{URx: w, URy: h}
	page, err := document.CreateSinglePage(fname, paper, pdf.V1_7, nil)
	if err != nil {
		return nil, err
	}

	if background.A != 0 {
		page.SetFillColor(deviceColor(background))
		page.Rectangle(0, 0, w, h)
		page.Fill()
	}

	// PDF places the origin in the bottom-left corner.
	page.Transform(matrix.Matrix{1, 0, 0, -1, 0, h})

	return &Page{page: page}, nil
}

// Fill paints the interior of outline using the nonzero winding rule.
// Transparent colours are skipped; all other colours are painted opaque.
func (p *Page) Fill(outline *path.Data, c color.NRGBA) {
	if c.A == 0 || len(outline.Cmds) == 0 {
		return
	}
	page := p.page
	page.SetFillColor(deviceColor(c))
	for cmd, pts := range outline.Iter().ToCubic() {
		switch cmd {
		case path.CmdMoveTo:
			page.MoveTo(pts[0].X, pts[0].Y)
		case path.CmdLineTo:
			page.LineTo(pts[0].X, pts[0].Y)
		case path.CmdCubeTo:
			page.CurveTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, pts[2].X, pts[2].Y)
		case path.CmdClose:
			page.ClosePath()
		}
	}
	page.Fill()
	p.filled++
}

// Filled returns the number of outlines painted so far.
func (p *Page) Filled() int {
	return p.filled
}

// Close finishes the page and writes the PDF file.
func (p *Page) Close() error {
	return p.page.Close()
}

func deviceColor(c color.NRGBA) pdfcolor.Color {
	return pdfcolor.DeviceRGB{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255}
}
