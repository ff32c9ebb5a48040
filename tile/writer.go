package tile

import (
	"errors"
	"fmt"

	"github.com/bodgit/pix2gba/palette"
	"github.com/bodgit/pix2gba/rgb15"
)

var (
	errBadMetatile = errors.New("tile: metatile width and height must be at least 1")
	errBadSize     = errors.New("tile: image is not padded to whole tiles")
)

// MissingColorError is returned when a pixel's color has no entry in the
// conversion table.
type MissingColorError struct {
	Color rgb15.Color24
	X, Y  int
}

func (e *MissingColorError) Error() string {
	return fmt.Sprintf("tile: no palette index for color %#06x (%#04x) at (%d, %d)", e.Color.Pack(), uint16(e.Color.Narrow()), e.X, e.Y)
}

// OutOfBoundsError is returned when the metatile layout doesn't divide the
// image evenly and the traversal leaves the image.
type OutOfBoundsError struct {
	X, Y          int
	Width, Height int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("tile: out of bounds at (%d, %d) on %dx%d image", e.X, e.Y, e.Width, e.Height)
}

type encoder struct {
	g     *Grid
	table palette.ConversionTable
	bpp   int

	words []uint32
	word  uint32
	n     int // pixels in word
}

func (e *encoder) encodeRow(x, y int) error {
	perWord := wordBits / e.bpp
	for i := 0; i < tileWidth; i++ {
		c := e.g.Color(x+i, y)
		idx, ok := e.table[c.Narrow()]
		if !ok {
			return &MissingColorError{c, x + i, y}
		}

		e.word |= uint32(idx) << (e.bpp * e.n)
		e.n++

		if e.n == perWord {
			e.words = append(e.words, e.word)
			e.word, e.n = 0, 0
		}
	}
	return nil
}

func (e *encoder) encode(metaWidth, metaHeight int) error {
	g := newGeometry(e.g.Width, metaWidth, metaHeight)
	rows := e.g.Width / tileWidth * e.g.Height

	var c cursor
	for i := 0; i < rows; i++ {
		p := c.origin(g)
		y := p.Y + c.y
		if p.X+tileWidth > e.g.Width || y >= e.g.Height {
			return &OutOfBoundsError{p.X, y, e.g.Width, e.g.Height}
		}

		if err := e.encodeRow(p.X, y); err != nil {
			return err
		}

		c = c.step(g)
	}

	return nil
}

// Encode packs the grid into 32-bit words using the conversion table to turn
// each pixel into a palette index.
func Encode(g *Grid, table palette.ConversionTable, bpp, metaWidth, metaHeight int) ([]uint32, error) {
	if _, err := palette.Size(bpp); err != nil {
		return nil, err
	}
	if metaWidth < 1 || metaHeight < 1 {
		return nil, errBadMetatile
	}
	if g.Width%tileWidth != 0 || g.Height%tileHeight != 0 {
		return nil, errBadSize
	}

	e := encoder{
		g:     g,
		table: table,
		bpp:   bpp,
		words: make([]uint32, 0, Count(g.Width, g.Height, bpp)),
	}

	if err := e.encode(metaWidth, metaHeight); err != nil {
		return nil, err
	}

	return e.words, nil
}
