/*
Package render turns converted assets back into images, for previewing the
result of a conversion without a Game Boy Advance.
*/
package render

import (
	"encoding/binary"
	"errors"
	"image"

	"github.com/bodgit/pix2gba/asset"
	"github.com/bodgit/pix2gba/lz77"
	"github.com/bodgit/pix2gba/tile"
)

const (
	tileWidth  = 8
	tilePixels = tileWidth * tileWidth
)

var (
	errTooManyColors = errors.New("render: more than 256 colors")
	errNotEnough     = errors.New("render: not enough tile data")
)

type decoder struct {
	a     *asset.Asset
	words []uint32
	image *image.Paletted
}

func (d *decoder) readWords() error {
	if len(d.a.Tiles) > 0 || d.a.Compressed == nil {
		d.words = d.a.Tiles
		return nil
	}

	b, err := lz77.Decompress(d.a.Compressed)
	if err != nil {
		return err
	}
	d.words = make([]uint32, len(b)/4)
	for i := range d.words {
		d.words[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return nil
}

// tileWords returns the words of the nth tile in the image.
func (d *decoder) tileWords(n int) ([]uint32, error) {
	if d.a.Deduped() {
		if n >= len(d.a.TileMap) {
			return nil, errNotEnough
		}
		n = d.a.TileMap[n]
	}
	size := tile.Words(d.a.Bpp)
	if (n+1)*size > len(d.words) {
		return nil, errNotEnough
	}
	return d.words[n*size : (n+1)*size], nil
}

func (d *decoder) decode() error {
	if d.a.Bpp > 8 {
		return errTooManyColors
	}

	if err := d.readWords(); err != nil {
		return err
	}

	v := *d.a
	v.Tiles = d.words
	if err := v.Validate(); err != nil {
		return err
	}

	points, err := tile.Order(d.a.Width, d.a.Height, d.a.MetaWidth, d.a.MetaHeight)
	if err != nil {
		return err
	}

	d.image = image.NewPaletted(image.Rect(0, 0, d.a.Width, d.a.Height), d.a.Palette.ColorPalette())

	perWord := 32 / d.a.Bpp
	mask := uint32(1)<<d.a.Bpp - 1

	for n, p := range points {
		words, err := d.tileWords(n)
		if err != nil {
			return err
		}
		for i := 0; i < tilePixels; i++ {
			idx := words[i/perWord] >> (d.a.Bpp * (i % perWord)) & mask
			d.image.SetColorIndex(p.X+i%tileWidth, p.Y+i/tileWidth, uint8(idx))
		}
	}

	return nil
}

// Decode returns the image held in a.
func Decode(a *asset.Asset) (*image.Paletted, error) {
	d := decoder{a: a}
	if err := d.decode(); err != nil {
		return nil, err
	}
	return d.image, nil
}
