package render

import (
	"image"

	"github.com/bodgit/pix2gba/palette"
)

// Swatch draws every color of the palette padded to 2^bpp colors, one pixel
// per color, left to right and top to bottom.
func Swatch(p palette.Palette, bpp int) *image.NRGBA {
	p = p.Padded(bpp)
	w := 1 << ((bpp + 1) / 2)
	h := 1 << (bpp / 2)

	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i, c := range p {
		m.Set(i%w, i/w, c)
	}
	return m
}
