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
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"gonum.org/v1/gonum/spatial/r3"

	"seehuhn.de/go/maprender/orient"
	"seehuhn.de/go/maprender/scene"
)

// The binary format starts with a 32 byte header, followed by a sequence
// of chunks.  Each chunk has a 16 byte header giving its name and the
// compressed and uncompressed sizes of the payload.  Payloads are either
// stored, LZ4 block compressed, or zstd compressed.
const (
	fileHeaderLen  = 32
	chunkHeaderLen = 16

	// maxChunkSize limits the memory used for a single chunk payload.
	maxChunkSize = 1 << 30
)

var (
	fileSignature = []byte{0x89, 0xff, 0x0d, 0x0a, 0x1a, 0x0a}
	zstdMagic     = []byte{0x28, 0xb5, 0x2f, 0xfd}

	errTruncated = errors.New("unexpected end of data")
)

// Property type tags of the binary format.
const (
	typeString      = 0x01
	typeBool        = 0x02
	typeInt32       = 0x03
	typeFloat32     = 0x04
	typeFloat64     = 0x05
	typeColor3      = 0x0c
	typeVector3     = 0x0e
	typeCFrame      = 0x10
	typeEnum        = 0x12
	typeColor3uint8 = 0x1a
)

type binaryInstance struct {
	class string
	name  string
	props map[string]scene.Value
}

type binaryDecoder struct {
	r io.Reader

	classes   map[uint32][]int32 // class ID -> referents
	instances map[int32]*binaryInstance
	children  map[int32][]int32 // parent referent -> child referents; -1 is the root

	zstd *zstd.Decoder
}

// DecodeBinary reads a place file in binary encoding.
func DecodeBinary(r io.Reader) (*scene.Tree, error) {
	d := &binaryDecoder{
		r:         r,
		classes:   make(map[uint32][]int32),
		instances: make(map[int32]*binaryInstance),
		children:  make(map[int32][]int32),
	}
	defer func() {
		if d.zstd != nil {
			d.zstd.Close()
		}
	}()

	if err := d.readHeader(); err != nil {
		return nil, err
	}
	for {
		name, data, err := d.readChunk()
		if err != nil {
			return nil, err
		}
		c := &chunkReader{data: data}
		switch name {
		case "INST":
			d.parseInst(c)
		case "PROP":
			err = d.parseProp(c)
		case "PRNT":
			d.parsePrnt(c)
		case "END":
			return d.buildTree(), nil
		}
		if err == nil {
			err = c.err
		}
		if err != nil {
			return nil, &FormatError{Kind: Binary, Msg: name + " chunk", Err: err}
		}
	}
}

func (d *binaryDecoder) readHeader() error {
	var hdr [fileHeaderLen]byte
	if _, err := io.ReadFull(d.r, hdr[:]); err != nil {
		return &FormatError{Kind: Binary, Msg: "file header", Err: err}
	}
	if !bytes.HasPrefix(hdr[:], binaryMagic) || !bytes.Equal(hdr[8:14], fileSignature) {
		return &FormatError{Kind: Binary, Msg: "invalid file signature"}
	}
	if v := binary.LittleEndian.Uint16(hdr[14:16]); v != 0 {
		return &FormatError{Kind: Binary, Msg: fmt.Sprintf("unsupported version %d", v)}
	}
	return nil
}

func (d *binaryDecoder) readChunk() (string, []byte, error) {
	var hdr [chunkHeaderLen]byte
	if _, err := io.ReadFull(d.r, hdr[:]); err != nil {
		return "", nil, &FormatError{Kind: Binary, Msg: "chunk header", Err: err}
	}
	name := string(bytes.TrimRight(hdr[:4], "\x00"))
	compressedLen := binary.LittleEndian.Uint32(hdr[4:8])
	size := binary.LittleEndian.Uint32(hdr[8:12])
	if compressedLen > maxChunkSize || size > maxChunkSize {
		return "", nil, &FormatError{Kind: Binary, Msg: name + " chunk too large"}
	}

	if compressedLen == 0 {
		data := make([]byte, size)
		if _, err := io.ReadFull(d.r, data); err != nil {
			return "", nil, &FormatError{Kind: Binary, Msg: name + " chunk", Err: err}
		}
		return name, data, nil
	}

	buf := make([]byte, compressedLen)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		return "", nil, &FormatError{Kind: Binary, Msg: name + " chunk", Err: err}
	}
	data, err := d.decompress(buf, int(size))
	if err != nil {
		return "", nil, &FormatError{Kind: Binary, Msg: name + " chunk", Err: err}
	}
	return name, data, nil
}

func (d *binaryDecoder) decompress(buf []byte, size int) ([]byte, error) {
	if bytes.HasPrefix(buf, zstdMagic) {
		if d.zstd == nil {
			dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
			if err != nil {
				return nil, err
			}
			d.zstd = dec
		}
		data, err := d.zstd.DecodeAll(buf, make([]byte, 0, size))
		if err != nil {
			return nil, err
		}
		if len(data) != size {
			return nil, fmt.Errorf("zstd payload has %d bytes, expected %d", len(data), size)
		}
		return data, nil
	}

	data := make([]byte, size)
	n, err := lz4.UncompressBlock(buf, data)
	if err != nil {
		return nil, err
	}
	if n != size {
		return nil, fmt.Errorf("lz4 payload has %d bytes, expected %d", n, size)
	}
	return data, nil
}

func (d *binaryDecoder) parseInst(c *chunkReader) {
	classID := c.u32()
	className := c.str()
	isService := c.u8() != 0
	count := c.count()
	refs := c.refs(count)
	if isService {
		c.take(count)
	}
	if c.err != nil {
		return
	}

	d.classes[classID] = refs
	for _, ref := range refs {
		d.instances[ref] = &binaryInstance{class: className}
	}
}

func (d *binaryDecoder) parseProp(c *chunkReader) error {
	classID := c.u32()
	name := c.str()
	tag := c.u8()
	if c.err != nil {
		return nil
	}
	refs, ok := d.classes[classID]
	if !ok {
		return fmt.Errorf("property %q for unknown class %d", name, classID)
	}
	n := len(refs)

	if name == "Name" && tag == typeString {
		for _, ref := range refs {
			d.instances[ref].name = c.str()
		}
		return nil
	}

	values := decodeValues(c, tag, n)
	if values == nil || c.err != nil {
		return nil
	}
	name = canonical(name)
	for i, ref := range refs {
		inst := d.instances[ref]
		if inst.props == nil {
			inst.props = make(map[string]scene.Value)
		}
		inst.props[name] = values[i]
	}
	return nil
}

// decodeValues reads n values with the given type tag.  The result is nil
// for unsupported types.
func decodeValues(c *chunkReader, tag uint8, n int) []scene.Value {
	values := make([]scene.Value, n)
	switch tag {
	case typeString:
		for i := range n {
			values[i] = scene.String(c.str())
		}
	case typeBool:
		for i, b := range c.take(n) {
			values[i] = scene.Bool(b != 0)
		}
	case typeInt32:
		for i, x := range c.int32s(n) {
			values[i] = scene.Int32(x)
		}
	case typeFloat32:
		for i, x := range c.floats(n) {
			values[i] = scene.Float32(x)
		}
	case typeFloat64:
		for i := range n {
			values[i] = scene.Float64(math.Float64frombits(c.u64()))
		}
	case typeColor3:
		r, g, b := c.floats(n), c.floats(n), c.floats(n)
		if c.err != nil {
			return nil
		}
		for i := range n {
			values[i] = scene.Color3{R: r[i], G: g[i], B: b[i]}
		}
	case typeVector3:
		for i, v := range c.vectors(n) {
			values[i] = v
		}
	case typeCFrame:
		rot := make([]orient.Matrix3, n)
		for i := range n {
			rot[i] = c.rotation()
		}
		for i, pos := range c.vectors(n) {
			values[i] = scene.CFrame{Position: pos, Rotation: rot[i]}
		}
	case typeEnum:
		for i, x := range c.interleaved(n) {
			values[i] = scene.Enum(x)
		}
	case typeColor3uint8:
		r, g, b := c.take(n), c.take(n), c.take(n)
		if c.err != nil {
			return nil
		}
		for i := range n {
			values[i] = scene.Color3uint8{R: r[i], G: g[i], B: b[i]}
		}
	default:
		return nil
	}
	return values
}

func (d *binaryDecoder) parsePrnt(c *chunkReader) {
	if v := c.u8(); v != 0 && c.err == nil {
		c.err = fmt.Errorf("unsupported version %d", v)
		return
	}
	count := c.count()
	child := c.refs(count)
	parent := c.refs(count)
	if c.err != nil {
		return
	}
	for i, ref := range child {
		d.children[parent[i]] = append(d.children[parent[i]], ref)
	}
}

// buildTree adds all instances reachable from the root to a new tree.
// Siblings keep the order of the PRNT chunk.
func (d *binaryDecoder) buildTree() *scene.Tree {
	tree := scene.NewTree()
	seen := make(map[int32]bool)

	type entry struct {
		ref    int32
		parent scene.NodeID
	}
	var todo []entry
	push := func(parentRef int32, parent scene.NodeID) {
		kids := d.children[parentRef]
		for i := len(kids) - 1; i >= 0; i-- {
			todo = append(todo, entry{kids[i], parent})
		}
	}
	push(-1, scene.Root)
	for len(todo) > 0 {
		e := todo[len(todo)-1]
		todo = todo[:len(todo)-1]
		inst, ok := d.instances[e.ref]
		if !ok || seen[e.ref] {
			continue
		}
		seen[e.ref] = true

		id := tree.Add(e.parent, inst.class, inst.name)
		for name, v := range inst.props {
			tree.SetProp(id, name, v)
		}
		push(e.ref, id)
	}
	return tree
}

// chunkReader reads the fields of a decompressed chunk.  After the first
// error all reads return zero values and err is set.
type chunkReader struct {
	data []byte
	pos  int
	err  error
}

func (c *chunkReader) take(n int) []byte {
	if c.err != nil {
		return nil
	}
	if n < 0 || len(c.data)-c.pos < n {
		c.err = errTruncated
		return nil
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b
}

func (c *chunkReader) u8() uint8 {
	b := c.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (c *chunkReader) u32() uint32 {
	b := c.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (c *chunkReader) u64() uint64 {
	b := c.take(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

// count reads an element count and checks it against the remaining data.
func (c *chunkReader) count() int {
	n := c.u32()
	if c.err == nil && int64(n) > int64(len(c.data)-c.pos) {
		c.err = errTruncated
		return 0
	}
	return int(n)
}

func (c *chunkReader) str() string {
	n := c.count()
	return string(c.take(n))
}

// interleaved reads n big-endian 32 bit values, stored with all first
// bytes followed by all second bytes, and so on.
func (c *chunkReader) interleaved(n int) []uint32 {
	b := c.take(4 * n)
	if b == nil {
		return nil
	}
	res := make([]uint32, n)
	for i := range res {
		res[i] = uint32(b[i])<<24 | uint32(b[n+i])<<16 | uint32(b[2*n+i])<<8 | uint32(b[3*n+i])
	}
	return res
}

// int32s reads interleaved zigzag encoded integers.
func (c *chunkReader) int32s(n int) []int32 {
	raw := c.interleaved(n)
	res := make([]int32, len(raw))
	for i, x := range raw {
		res[i] = int32(x>>1) ^ -int32(x&1)
	}
	return res
}

// refs reads referents, which are stored as differences to the previous
// value.
func (c *chunkReader) refs(n int) []int32 {
	res := c.int32s(n)
	for i := 1; i < len(res); i++ {
		res[i] += res[i-1]
	}
	return res
}

// floats reads interleaved floats.  The sign bit is stored in the least
// significant bit.
func (c *chunkReader) floats(n int) []float32 {
	raw := c.interleaved(n)
	res := make([]float32, len(raw))
	for i, x := range raw {
		res[i] = math.Float32frombits(x>>1 | x<<31)
	}
	return res
}

func (c *chunkReader) vectors(n int) []scene.Vector3 {
	x, y, z := c.floats(n), c.floats(n), c.floats(n)
	if c.err != nil {
		return nil
	}
	res := make([]scene.Vector3, n)
	for i := range res {
		res[i] = scene.Vector3{X: float64(x[i]), Y: float64(y[i]), Z: float64(z[i])}
	}
	return res
}

// rotation reads a rotation matrix.  A leading zero byte is followed by
// the nine matrix entries in row-major order; other values select one of
// the 24 axis-aligned rotations.
func (c *chunkReader) rotation() orient.Matrix3 {
	id := c.u8()
	if id != 0 {
		m, ok := basicRotation(id)
		if !ok && c.err == nil {
			c.err = fmt.Errorf("invalid rotation ID %d", id)
		}
		return m
	}
	var m orient.Matrix3
	for i := range m {
		m[i] = float64(math.Float32frombits(c.u32()))
	}
	return m
}

// basicRotation decodes an axis-aligned rotation.  The ID encodes the
// directions of the local x and y axes as 6·x + y + 1, where 0, 1, 2
// stand for +X, +Y, +Z and 3, 4, 5 for -X, -Y, -Z.
func basicRotation(id uint8) (orient.Matrix3, bool) {
	k := int(id) - 1
	xn, yn := k/6, k%6
	if k < 0 || xn > 5 || xn%3 == yn%3 {
		return orient.Matrix3{}, false
	}
	x, y := axisDir(xn), axisDir(yn)
	z := r3.Cross(x, y)

	var m orient.Matrix3
	for j, col := range []r3.Vec{x, y, z} {
		m[0+j] = col.X
		m[3+j] = col.Y
		m[6+j] = col.Z
	}
	return m, true
}

func axisDir(n int) r3.Vec {
	s := 1.0
	if n >= 3 {
		s = -1
	}
	switch n % 3 {
	case 0:
		return r3.Vec{X: s}
	case 1:
		return r3.Vec{Y: s}
	default:
		return r3.Vec{Z: s}
	}
}
