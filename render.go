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

// Package maprender draws top-down map images of game places.
//
// A place is a tree of scene nodes (see the scene and placefile packages).
// [Select] chooses the nodes to draw, according to a configuration from
// the config package, and computes their footprints as seen from above.
// [Compose] paints the footprints in order onto a [Painter], which is
// either a raster canvas or a PDF page.  Later footprints cover earlier
// ones; there is no depth test.
package maprender

//go:generate go run ./testcases/genpreview -o testdata/preview

import (
	"image/color"
	"log/slog"

	"go.uber.org/multierr"

	"seehuhn.de/go/geom/path"

	"seehuhn.de/go/maprender/canvas"
	"seehuhn.de/go/maprender/config"
	"seehuhn.de/go/maprender/raster"
	"seehuhn.de/go/maprender/scene"
)

// Painter receives the outlines of footprints.
type Painter interface {
	// Fill paints the interior of a closed outline, using the nonzero
	// winding rule.
	Fill(outline *path.Data, c color.NRGBA)
}

// QuadPainter is implemented by painters which have a fast path for
// rectangular footprints.
type QuadPainter interface {
	Painter
	FillQuad(q raster.Quad, c color.NRGBA)
}

var _ QuadPainter = (*canvas.Canvas)(nil)

// Stats summarizes a call to [Compose].
type Stats struct {
	Drawn      int // footprints painted
	Degenerate int // footprints without area, which were skipped
}

// Compose paints the draw commands onto p, in order.  If p is a
// [QuadPainter], rectangular footprints are passed to FillQuad.
func Compose(cmds []DrawCommand, p Painter) Stats {
	qp, hasQuads := p.(QuadPainter)

	var stats Stats
	for _, cmd := range cmds {
		if hasQuads && !cmd.Footprint.Round {
			q, ok := cmd.Footprint.Quad()
			if !ok {
				stats.Degenerate++
				continue
			}
			qp.FillQuad(q, cmd.Color)
			stats.Drawn++
			continue
		}

		outline, ok := cmd.Footprint.Outline()
		if !ok {
			stats.Degenerate++
			continue
		}
		p.Fill(outline, cmd.Color)
		stats.Drawn++
	}
	return stats
}

// Params describes the output image.
type Params struct {
	Width, Height int
	Projector
}

// Render draws the map described by cfg into a new canvas.  The selection
// is returned together with the canvas, so that callers can report the
// skipped problems.
func Render(t *scene.Tree, cfg *config.Config, params Params) (*canvas.Canvas, *Selection, error) {
	sel, err := Select(t, cfg, params.Projector)
	if err != nil {
		return nil, nil, err
	}

	c := canvas.New(params.Width, params.Height)
	if cfg.Background.A != 0 {
		c.Clear(cfg.Background)
	}
	stats := Compose(sel.Commands, c)

	Logger().Info("rendered map",
		slog.Int("width", params.Width),
		slog.Int("height", params.Height),
		slog.Int("drawn", stats.Drawn),
		slog.Int("degenerate", stats.Degenerate),
		slog.Int("skipped", len(multierr.Errors(sel.Skipped))))
	return c, sel, nil
}
