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

// Package placefile reads place files into a [scene.Tree].
//
// Two encodings are supported: the XML format (file name extension
// ".rbxlx") and the chunked binary format (".rbxl").  Only the node
// hierarchy and the property types used for map rendering are decoded;
// other properties are skipped.
package placefile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"

	"seehuhn.de/go/maprender"
	"seehuhn.de/go/maprender/scene"
)

// Kind is the encoding of a place file.
type Kind int

// These are the supported place file encodings.
const (
	Binary Kind = iota + 1
	XML
)

func (k Kind) String() string {
	switch k {
	case Binary:
		return "binary"
	case XML:
		return "xml"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

var (
	// ErrUnknownKind is returned for file names which do not end in
	// ".rbxl" or ".rbxlx".
	ErrUnknownKind = errors.New("could not detect what kind of file to read; expected file to end in .rbxlx or .rbxl")

	// ErrKindMismatch is returned when the file contents do not match the
	// encoding implied by the file name.
	ErrKindMismatch = errors.New("file contents do not match the file name extension")
)

// KindFromPath chooses the encoding from the file name extension.
func KindFromPath(fname string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(fname)) {
	case ".rbxl":
		return Binary, nil
	case ".rbxlx":
		return XML, nil
	}
	return 0, fmt.Errorf("%s: %w", fname, ErrUnknownKind)
}

var (
	binaryMagic = []byte("<roblox!")
	xmlMagic    = []byte("<roblox")

	binaryType = filetype.NewType("rbxl", "application/x-roblox-place")
	xmlType    = filetype.NewType("rbxlx", "application/x-roblox-place+xml")
)

func init() {
	filetype.AddMatcher(binaryType, matchBinary)
	filetype.AddMatcher(xmlType, matchXML)
}

func matchBinary(buf []byte) bool {
	return bytes.HasPrefix(buf, binaryMagic)
}

func matchXML(buf []byte) bool {
	buf = bytes.TrimPrefix(buf, []byte("\xef\xbb\xbf"))
	buf = bytes.TrimLeft(buf, " \t\r\n")
	if bytes.HasPrefix(buf, []byte("<?xml")) {
		// The declaration is followed by the root element.
		if i := bytes.Index(buf, []byte("?>")); i >= 0 {
			buf = bytes.TrimLeft(buf[i+2:], " \t\r\n")
		}
	}
	return bytes.HasPrefix(buf, xmlMagic) && !bytes.HasPrefix(buf, binaryMagic)
}

// sniffLen is the number of bytes inspected to verify the file kind.
const sniffLen = 262

// Sniff determines the encoding of a place file from its first bytes.
func Sniff(head []byte) (Kind, bool) {
	switch {
	case filetype.IsType(head, binaryType):
		return Binary, true
	case filetype.IsType(head, xmlType):
		return XML, true
	}
	return 0, false
}

// Load reads the named place file.  The encoding is chosen by the file
// name extension, before the file is opened, and is then checked against
// the file contents.
func Load(fname string) (*scene.Tree, error) {
	kind, err := KindFromPath(fname)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tree, err := Decode(f, kind)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}

	maprender.Logger().Info("loaded place file",
		slog.String("file", fname),
		slog.String("kind", kind.String()),
		slog.Int("nodes", tree.Len()))
	return tree, nil
}

// Decode reads a place file of the given kind from r.
func Decode(r io.Reader, kind Kind) (*scene.Tree, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, err
	}
	if got, ok := Sniff(head); !ok || got != kind {
		return nil, fmt.Errorf("%w: expected %s encoding", ErrKindMismatch, kind)
	}

	switch kind {
	case Binary:
		return DecodeBinary(br)
	case XML:
		return DecodeXML(br)
	default:
		return nil, ErrUnknownKind
	}
}

// FormatError describes malformed place file contents.
type FormatError struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed %s place file: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("malformed %s place file: %s", e.Kind, e.Msg)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
