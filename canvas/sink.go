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

package canvas

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format is an image file format supported by [Save] and [Encode].
type Format int

// The supported output formats.
const (
	PNG Format = iota + 1
	JPEG
	TIFF
	BMP
)

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case JPEG:
		return "jpeg"
	case TIFF:
		return "tiff"
	case BMP:
		return "bmp"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ErrUnknownFormat is returned when no image format matches a file name.
var ErrUnknownFormat = errors.New("unknown image format")

// FormatFromExt returns the image format for a file name extension.  The
// extension may include the leading dot.  An empty extension selects PNG.
func FormatFromExt(ext string) (Format, error) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	switch ext {
	case "", "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "tif", "tiff":
		return TIFF, nil
	case "bmp":
		return BMP, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case PNG:
		return png.Encode(w, img)
	case JPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case BMP:
		return bmp.Encode(w, img)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, f)
	}
}

// Save writes img to the named file.  The format is chosen by the file
// name extension.
func Save(fname string, img image.Image) (err error) {
	f, err := FormatFromExt(filepath.Ext(fname))
	if err != nil {
		return err
	}

	out, err := os.Create(fname)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	w := bufio.NewWriter(out)
	if err := Encode(w, img, f); err != nil {
		return err
	}
	return w.Flush()
}
