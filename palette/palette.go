/*
Package palette builds Game Boy Advance palettes and maps image colors onto
them.

A palette holds up to 2^bpp 15-bit colors. Slot 0 is always the transparent
color; whatever was in slot 0 before the transparent color was inserted is
moved to the end, and is only lost if that pushes the palette over its size.
*/
package palette

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sort"

	"github.com/bodgit/pix2gba/rgb15"
	"github.com/ericpauley/go-quantize/quantize"
)

const (
	// MaxBpp is the largest supported number of bits per pixel
	MaxBpp = 16

	// Transparent is the default transparent color
	Transparent rgb15.Color15 = 0x5d53
)

var (
	// ErrInvalidBpp is returned for a bits per pixel value that isn't a
	// power of two between 1 and MaxBpp
	ErrInvalidBpp = errors.New("palette: bits per pixel must be a power of two between 1 and 16")
	// ErrTooLarge is returned when a palette image has more pixels than
	// the palette can hold
	ErrTooLarge = errors.New("palette: too many colors")
	errEmpty    = errors.New("palette: empty palette")
)

// Palette is an ordered list of hardware colors.
type Palette []rgb15.Color15

// Size returns the number of colors a palette holds for the given bits per
// pixel.
func Size(bpp int) (int, error) {
	if bpp <= 0 || bpp > MaxBpp || bpp&(bpp-1) != 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidBpp, bpp)
	}
	return 1 << bpp, nil
}

// Padded returns a copy of the palette padded with black to exactly 2^bpp
// colors. A palette that is already larger is truncated.
func (p Palette) Padded(bpp int) Palette {
	n := 1 << bpp
	out := make(Palette, n)
	copy(out, p)
	return out
}

// ColorPalette returns the palette as a color.Palette of widened colors.
func (p Palette) ColorPalette() color.Palette {
	cp := make(color.Palette, len(p))
	for i, c := range p {
		cp[i] = c
	}
	return cp
}

// reserve puts transparent in slot 0, relocating the previous occupant to the
// end, and truncates to size.
func reserve(p Palette, transparent rgb15.Color15, size int) Palette {
	out := make(Palette, 1, len(p)+1)
	out[0] = transparent
	if len(p) > 0 {
		for _, c := range p[1:] {
			if c != transparent {
				out = append(out, c)
			}
		}
		if p[0] != transparent {
			out = append(out, p[0])
		}
	}
	if len(out) > size {
		out = out[:size]
	}
	return out
}

// unique narrows the colors, drops duplicates and returns the survivors in
// ascending order.
func unique(colors []rgb15.Color24) Palette {
	seen := make(map[rgb15.Color15]struct{}, len(colors))
	p := make(Palette, 0, len(colors))
	for _, c := range colors {
		n := c.Narrow()
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		p = append(p, n)
	}
	sort.Slice(p, func(i, j int) bool { return p[i] < p[j] })
	return p
}

// FromImage builds a palette from a palette image where every pixel, read
// row by row, is one palette entry.
func FromImage(m image.Image, bpp int, transparent rgb15.Color15) (Palette, error) {
	size, err := Size(bpp)
	if err != nil {
		return nil, err
	}

	b := m.Bounds()
	if n := b.Dx() * b.Dy(); n > size {
		return nil, fmt.Errorf("%w: %d pixels, maximum is %d", ErrTooLarge, n, size)
	}

	p := make(Palette, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			p = append(p, rgb15.FromColor(m.At(x, y)).Narrow())
		}
	}

	return reserve(p, transparent, size), nil
}

func countColors(m image.Image) map[rgb15.Color24]int {
	colors := make(map[rgb15.Color24]int)
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			colors[rgb15.FromColor(m.At(x, y))]++
		}
	}
	return colors
}

// FromSource builds a palette from the 2^bpp most frequently used colors in
// the image. Colors that narrow to the same hardware color are merged, so
// the palette may end up with fewer than 2^bpp entries.
func FromSource(m image.Image, bpp int, transparent rgb15.Color15) (Palette, error) {
	size, err := Size(bpp)
	if err != nil {
		return nil, err
	}

	h := countColors(m)
	colors := make([]rgb15.Color24, 0, len(h))
	for c := range h {
		colors = append(colors, c)
	}

	// Most used first, ties broken on the packed value so the result
	// doesn't depend on map order
	sort.Slice(colors, func(i, j int) bool {
		if h[colors[i]] != h[colors[j]] {
			return h[colors[i]] > h[colors[j]]
		}
		return colors[i].Pack() < colors[j].Pack()
	})
	if len(colors) > size {
		colors = colors[:size]
	}

	return reserve(unique(colors), transparent, size), nil
}

// FromMedianCut builds a palette by median cut quantization of the image.
func FromMedianCut(m image.Image, bpp int, transparent rgb15.Color15) (Palette, error) {
	size, err := Size(bpp)
	if err != nil {
		return nil, err
	}

	q := quantize.MedianCutQuantizer{}
	cp := q.Quantize(make(color.Palette, 0, size), m)

	colors := make([]rgb15.Color24, len(cp))
	for i, c := range cp {
		colors[i] = rgb15.FromColor(c)
	}

	return reserve(unique(colors), transparent, size), nil
}
