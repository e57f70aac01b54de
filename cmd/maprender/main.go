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

// Command maprender draws a top-down map image of a place file.
//
// Usage:
//
//	maprender build -placefile PLACE -config CONFIG -width W -height H \
//	    -center_x X -center_z Z -scale S [-o output.png]
//	maprender axis-angle r00 r01 r02 r10 r11 r12 r20 r21 r22
//
// The build command selects parts as described in the configuration
// file (JSON, TOML or YAML) and writes the image to the output file.  The
// output format is chosen by the file name extension: PNG, JPEG, TIFF,
// BMP or PDF.
//
// The axis-angle command prints the rotation extracted from a 3×3
// rotation matrix, given in row-major order.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/multierr"

	"seehuhn.de/go/maprender"
	"seehuhn.de/go/maprender/canvas"
	"seehuhn.de/go/maprender/config"
	"seehuhn.de/go/maprender/orient"
	"seehuhn.de/go/maprender/pdfout"
	"seehuhn.de/go/maprender/placefile"
	"seehuhn.de/go/maprender/scene"
)

func main() {
	err := run(os.Stdout, os.Stderr, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "maprender:", err)
		var uErr *usageError
		if errors.As(err, &uErr) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

type usageError struct {
	err error
}

func (e *usageError) Error() string {
	return e.err.Error()
}

func usageErrorf(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

const usage = `usage:
  maprender build -placefile PLACE -config CONFIG -width W -height H -center_x X -center_z Z -scale S [-o FILE]
  maprender axis-angle r00 r01 r02 r10 r11 r12 r20 r21 r22`

func run(stdout, stderr io.Writer, args []string) error {
	if len(args) == 0 {
		return usageErrorf("missing command\n%s", usage)
	}
	switch args[0] {
	case "build":
		return runBuild(stdout, stderr, args[1:])
	case "axis-angle":
		return runAxisAngle(stdout, args[1:])
	case "help", "-h", "-help", "--help":
		fmt.Fprintln(stdout, usage)
		return nil
	}
	return usageErrorf("unknown command %q\n%s", args[0], usage)
}

type buildOptions struct {
	placeFile   string
	configFile  string
	output      string
	onMalformed string

	width, height    int
	centerX, centerZ float64
	scale            float64

	verbose, quiet bool
}

func runBuild(stdout, stderr io.Writer, args []string) error {
	var opt buildOptions
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opt.placeFile, "placefile", "", "place file (.rbxl or .rbxlx)")
	fs.StringVar(&opt.configFile, "config", "", "configuration file (.json, .toml or .yaml)")
	fs.StringVar(&opt.output, "o", "output.png", "output file")
	fs.StringVar(&opt.onMalformed, "on-malformed", "", "skip or abort on malformed nodes (default from config)")
	fs.IntVar(&opt.width, "width", 0, "image width in pixels")
	fs.IntVar(&opt.height, "height", 0, "image height in pixels")
	fs.Float64Var(&opt.centerX, "center_x", 0, "pixel x coordinate of the world origin")
	fs.Float64Var(&opt.centerZ, "center_z", 0, "pixel y coordinate of the world origin")
	fs.Float64Var(&opt.scale, "scale", 1, "pixels per world unit")
	fs.BoolVar(&opt.verbose, "v", false, "log every selected part")
	fs.BoolVar(&opt.quiet, "q", false, "only log warnings and errors")
	if err := fs.Parse(args); err != nil {
		return &usageError{err: err}
	}
	if fs.NArg() > 0 {
		return usageErrorf("unexpected arguments %q", fs.Args())
	}
	if err := opt.check(); err != nil {
		return err
	}

	level := slog.LevelInfo
	switch {
	case opt.verbose:
		level = slog.LevelDebug
	case opt.quiet:
		level = slog.LevelWarn
	}
	maprender.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
	defer maprender.SetLogger(nil)

	return build(stdout, &opt)
}

func (opt *buildOptions) check() error {
	if opt.placeFile == "" {
		return usageErrorf("missing -placefile")
	}
	if opt.configFile == "" {
		return usageErrorf("missing -config")
	}
	if opt.width <= 0 || opt.height <= 0 {
		return usageErrorf("invalid image size %dx%d", opt.width, opt.height)
	}
	if !(opt.scale > 0) || math.IsInf(opt.scale, 0) {
		return usageErrorf("invalid scale %g", opt.scale)
	}
	if opt.verbose && opt.quiet {
		return usageErrorf("-v and -q cannot be combined")
	}

	// Check the file names before anything is read.
	if _, err := placefile.KindFromPath(opt.placeFile); err != nil {
		return err
	}
	if ext := filepath.Ext(opt.output); !strings.EqualFold(ext, ".pdf") {
		if _, err := canvas.FormatFromExt(ext); err != nil {
			return err
		}
	}
	return nil
}

func build(stdout io.Writer, opt *buildOptions) error {
	cfg, err := config.Load(opt.configFile)
	if err != nil {
		return err
	}
	if opt.onMalformed != "" {
		cfg.OnMalformed, err = config.ParsePolicy(opt.onMalformed)
		if err != nil {
			return &usageError{err: err}
		}
	}

	tree, err := placefile.Load(opt.placeFile)
	if err != nil {
		return err
	}

	params := maprender.Params{
		Width:  opt.width,
		Height: opt.height,
		Projector: maprender.Projector{
			CenterX: opt.centerX,
			CenterZ: opt.centerZ,
			Scale:   opt.scale,
		},
	}

	var sel *maprender.Selection
	if strings.EqualFold(filepath.Ext(opt.output), ".pdf") {
		sel, err = writePDF(tree, cfg, params, opt.output)
	} else {
		sel, err = writeImage(tree, cfg, params, opt.output)
	}
	if err != nil {
		return err
	}

	skipped := multierr.Errors(sel.Skipped)
	fmt.Fprintf(stdout, "wrote %s: %d parts", opt.output, len(sel.Commands))
	if len(skipped) > 0 {
		fmt.Fprintf(stdout, ", %d problems skipped", len(skipped))
	}
	fmt.Fprintln(stdout)
	return nil
}

func writeImage(tree *scene.Tree, cfg *config.Config, params maprender.Params, fname string) (*maprender.Selection, error) {
	c, sel, err := maprender.Render(tree, cfg, params)
	if err != nil {
		return nil, err
	}
	if err := canvas.Save(fname, c.Img); err != nil {
		return nil, err
	}
	maprender.Logger().Info("saved image", slog.String("file", fname))
	return sel, nil
}

func writePDF(tree *scene.Tree, cfg *config.Config, params maprender.Params, fname string) (*maprender.Selection, error) {
	sel, err := maprender.Select(tree, cfg, params.Projector)
	if err != nil {
		return nil, err
	}
	page, err := pdfout.Create(fname, params.Width, params.Height, cfg.Background)
	if err != nil {
		return nil, err
	}
	stats := maprender.Compose(sel.Commands, page)
	if err := page.Close(); err != nil {
		return nil, err
	}
	maprender.Logger().Info("saved PDF",
		slog.String("file", fname),
		slog.Int("drawn", stats.Drawn))
	return sel, nil
}

func runAxisAngle(stdout io.Writer, args []string) error {
	if len(args) != 9 {
		return usageErrorf("axis-angle needs 9 matrix entries, got %d", len(args))
	}
	var m orient.Matrix3
	for i, arg := range args {
		x, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return usageErrorf("matrix entry %d: %v", i, err)
		}
		m[i] = x
	}

	q, branch := orient.Quaternion(m)
	aa := orient.AxisAngle(m)
	fmt.Fprintf(stdout, "branch:     %s\n", branch)
	fmt.Fprintf(stdout, "quaternion: w=%.6f x=%.6f y=%.6f z=%.6f\n", q.Real, q.Imag, q.Jmag, q.Kmag)
	fmt.Fprintf(stdout, "axis-angle: (%.6f, %.6f, %.6f)\n", aa.X, aa.Y, aa.Z)
	fmt.Fprintf(stdout, "yaw:        %.6f rad (%.2f°)\n", aa.Y, aa.Y*180/math.Pi)
	if !m.IsOrthonormal(1e-6) {
		fmt.Fprintln(stdout, "warning:    matrix is not a rotation")
	}
	return nil
}
