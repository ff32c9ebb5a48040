package palette

import (
	"math"

	"github.com/bodgit/pix2gba/rgb15"
)

// ConversionTable maps every hardware color found in an image to the index
// of the nearest palette entry.
type ConversionTable map[rgb15.Color15]uint16

func sqDiff(x, y uint8) int {
	d := int(x) - int(y)
	return d * d
}

// Nearest returns the index of the palette entry closest to c by squared
// distance over the 5-bit channels. The lowest index wins a tie. It returns
// -1 for an empty palette.
func (p Palette) Nearest(c rgb15.Color15) int {
	r1, g1, b1 := c.Channels()
	best, bestSum := -1, math.MaxInt
	for i, e := range p {
		r2, g2, b2 := e.Channels()
		if sum := sqDiff(r1, r2) + sqDiff(g1, g2) + sqDiff(b1, b2); sum < bestSum {
			best, bestSum = i, sum
			if sum == 0 {
				break
			}
		}
	}
	return best
}

// NewConversionTable maps each of the colors onto the palette.
func NewConversionTable(p Palette, colors []rgb15.Color24) (ConversionTable, error) {
	if len(p) == 0 {
		return nil, errEmpty
	}

	t := make(ConversionTable, len(colors))
	for _, c := range colors {
		n := c.Narrow()
		if _, ok := t[n]; ok {
			continue
		}
		t[n] = uint16(p.Nearest(n))
	}
	return t, nil
}
