/*
Package asset holds the result of converting one image: the palette, the
packed tile data, the tile map if the tiles were deduplicated and the
compressed stream if they were compressed.

An Asset can be written to disk in a small binary container. All values are
little-endian:

	magic      [4]byte "GBAT"
	version    uint8
	flags      uint8   bit 0 deduplicated, bit 1 compressed
	bpp        uint8
	metaWidth  uint8
	metaHeight uint8
	width      uint32
	height     uint32
	name       uint16 length then bytes
	palette    uint16 count then uint16 colors
	tiles      uint32 count then uint32 words
	tile map   uint32 count then uint16 indices, only if deduplicated
	compressed uint32 length then bytes, only if compressed
*/
package asset

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/bodgit/pix2gba/palette"
	"github.com/bodgit/pix2gba/rgb15"
	"github.com/bodgit/pix2gba/tile"
)

const (
	// Extension is the file extension used when writing to disk
	Extension = ".bin"

	magic   = "GBAT"
	version = 1

	flagDeduped    = 1 << 0
	flagCompressed = 1 << 1
)

var (
	errBadMagic   = errors.New("asset: bad magic")
	errBadVersion = errors.New("asset: unsupported version")
)

// Asset is a converted image.
type Asset struct {
	Name       string
	Width      int // padded to whole tiles
	Height     int
	MetaWidth  int
	MetaHeight int
	Bpp        int
	Palette    palette.Palette // always 2^bpp colors
	Tiles      []uint32
	TileMap    []int  // nil unless deduplicated
	Compressed []byte // nil unless compressed
}

// Deduped returns whether the tiles were deduplicated.
func (a *Asset) Deduped() bool {
	return a.TileMap != nil
}

// NumTiles returns the number of tiles in the image before any
// deduplication.
func (a *Asset) NumTiles() int {
	return a.Width * a.Height / 64
}

// Bytes returns the tile data as little-endian bytes.
func (a *Asset) Bytes() []byte {
	b := make([]byte, len(a.Tiles)*4)
	for i, w := range a.Tiles {
		binary.LittleEndian.PutUint32(b[i*4:], w)
	}
	return b
}

// Validate checks the asset is complete and consistent.
func (a *Asset) Validate() error {
	size, err := palette.Size(a.Bpp)
	if err != nil {
		return err
	}

	if len(a.Palette) != size {
		return fmt.Errorf("asset: palette has %d colors, expected %d", len(a.Palette), size)
	}

	if a.MetaWidth < 1 || a.MetaWidth > math.MaxUint8 || a.MetaHeight < 1 || a.MetaHeight > math.MaxUint8 {
		return fmt.Errorf("asset: metatile %dx%d out of range", a.MetaWidth, a.MetaHeight)
	}

	if !a.Deduped() {
		if n := tile.Count(a.Width, a.Height, a.Bpp); len(a.Tiles) != n {
			return fmt.Errorf("asset: %d words of tile data, expected %d", len(a.Tiles), n)
		}
		return nil
	}

	if len(a.TileMap) != a.NumTiles() {
		return fmt.Errorf("asset: tile map has %d entries, expected %d", len(a.TileMap), a.NumTiles())
	}

	if len(a.Tiles)%tile.Words(a.Bpp) != 0 {
		return fmt.Errorf("asset: %d words of tile data is not a whole number of tiles", len(a.Tiles))
	}

	n := len(a.Tiles) / tile.Words(a.Bpp)
	for i, t := range a.TileMap {
		if t < 0 || t >= n {
			return fmt.Errorf("asset: tile map entry %d refers to missing tile %d", i, t)
		}
	}

	return nil
}

// MarshalBinary encodes the asset into binary form and returns the result
func (a *Asset) MarshalBinary() ([]byte, error) {
	if len(a.Name) > math.MaxUint16 || len(a.Palette) > math.MaxUint16 {
		return nil, errors.New("asset: too large")
	}
	if a.MetaWidth < 1 || a.MetaWidth > math.MaxUint8 || a.MetaHeight < 1 || a.MetaHeight > math.MaxUint8 {
		return nil, fmt.Errorf("asset: metatile %dx%d out of range", a.MetaWidth, a.MetaHeight)
	}

	var flags uint8
	if a.Deduped() {
		flags |= flagDeduped
	}
	if a.Compressed != nil {
		flags |= flagCompressed
	}

	b := new(bytes.Buffer)
	b.WriteString(magic)

	header := []interface{}{
		uint8(version),
		flags,
		uint8(a.Bpp),
		uint8(a.MetaWidth),
		uint8(a.MetaHeight),
		uint32(a.Width),
		uint32(a.Height),
		uint16(len(a.Name)),
	}
	for _, v := range header {
		if err := binary.Write(b, binary.LittleEndian, v); err != nil {
			return nil, err
		}
	}
	b.WriteString(a.Name)

	// Write out palette
	if err := binary.Write(b, binary.LittleEndian, uint16(len(a.Palette))); err != nil {
		return nil, err
	}
	if err := binary.Write(b, binary.LittleEndian, []rgb15.Color15(a.Palette)); err != nil {
		return nil, err
	}

	// Write out tiles
	if err := binary.Write(b, binary.LittleEndian, uint32(len(a.Tiles))); err != nil {
		return nil, err
	}
	if err := binary.Write(b, binary.LittleEndian, a.Tiles); err != nil {
		return nil, err
	}

	if a.Deduped() {
		m := make([]uint16, len(a.TileMap))
		for i, t := range a.TileMap {
			if t < 0 || t > math.MaxUint16 {
				return nil, fmt.Errorf("asset: tile map entry %d out of range", t)
			}
			m[i] = uint16(t)
		}
		if err := binary.Write(b, binary.LittleEndian, uint32(len(m))); err != nil {
			return nil, err
		}
		if err := binary.Write(b, binary.LittleEndian, m); err != nil {
			return nil, err
		}
	}

	if a.Compressed != nil {
		if err := binary.Write(b, binary.LittleEndian, uint32(len(a.Compressed))); err != nil {
			return nil, err
		}
		b.Write(a.Compressed)
	}

	return b.Bytes(), nil
}

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

// readCount reads a uint32 count and checks there could be enough data left
// for it, so a corrupt count can't cause a huge allocation.
func readCount(r *bytes.Reader) (int, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return 0, err
	}
	if int64(n) > int64(r.Len()) {
		return 0, io.ErrUnexpectedEOF
	}
	return int(n), nil
}

// UnmarshalBinary decodes the asset from binary form
func (a *Asset) UnmarshalBinary(b []byte) error {
	r := bytes.NewReader(b)

	var m [len(magic)]byte
	if err := readFull(r, m[:]); err != nil {
		return err
	}
	if string(m[:]) != magic {
		return errBadMagic
	}

	var header struct {
		Version    uint8
		Flags      uint8
		Bpp        uint8
		MetaWidth  uint8
		MetaHeight uint8
		Width      uint32
		Height     uint32
		NameLength uint16
	}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return err
	}
	if header.Version != version {
		return errBadVersion
	}

	name := make([]byte, header.NameLength)
	if err := readFull(r, name); err != nil {
		return err
	}

	*a = Asset{
		Name:       string(name),
		Width:      int(header.Width),
		Height:     int(header.Height),
		MetaWidth:  int(header.MetaWidth),
		MetaHeight: int(header.MetaHeight),
		Bpp:        int(header.Bpp),
	}

	var colors uint16
	if err := binary.Read(r, binary.LittleEndian, &colors); err != nil {
		return err
	}
	a.Palette = make(palette.Palette, colors)
	if err := binary.Read(r, binary.LittleEndian, []rgb15.Color15(a.Palette)); err != nil {
		return err
	}

	n, err := readCount(r)
	if err != nil {
		return err
	}
	a.Tiles = make([]uint32, n)
	if err := binary.Read(r, binary.LittleEndian, a.Tiles); err != nil {
		return err
	}

	if header.Flags&flagDeduped != 0 {
		n, err := readCount(r)
		if err != nil {
			return err
		}
		m := make([]uint16, n)
		if err := binary.Read(r, binary.LittleEndian, m); err != nil {
			return err
		}
		a.TileMap = make([]int, n)
		for i, t := range m {
			a.TileMap[i] = int(t)
		}
	}

	if header.Flags&flagCompressed != 0 {
		n, err := readCount(r)
		if err != nil {
			return err
		}
		a.Compressed = make([]byte, n)
		if err := readFull(r, a.Compressed); err != nil {
			return err
		}
	}

	if r.Len() > 0 {
		return errors.New("asset: trailing data")
	}

	return nil
}
