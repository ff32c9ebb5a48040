package tile

import (
	"image"

	"github.com/bodgit/pix2gba/rgb15"
)

// PadColor fills the area added when padding an image. It is independent of
// the palette's transparent color.
var PadColor = rgb15.Magenta

// Grid is an image padded to whole tiles.
type Grid struct {
	Pix    []rgb15.Color24
	Width  int
	Height int
}

func roundUp(n int) int {
	return (n + tileWidth - 1) / tileWidth * tileWidth
}

// NewGrid copies m into a grid, padding the right and bottom edges to a
// multiple of 8 pixels with fill.
func NewGrid(m image.Image, fill rgb15.Color24) *Grid {
	b := m.Bounds()
	g := &Grid{
		Width:  roundUp(b.Dx()),
		Height: roundUp(b.Dy()),
	}
	g.Pix = make([]rgb15.Color24, g.Width*g.Height)

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := fill
			if x < b.Dx() && y < b.Dy() {
				c = rgb15.FromColor(m.At(b.Min.X+x, b.Min.Y+y))
			}
			g.Pix[y*g.Width+x] = c
		}
	}

	return g
}

// Color returns the color at (x, y).
func (g *Grid) Color(x, y int) rgb15.Color24 {
	return g.Pix[y*g.Width+x]
}

// Colors returns every distinct color in the grid in the order first seen.
func (g *Grid) Colors() []rgb15.Color24 {
	seen := make(map[rgb15.Color24]struct{})
	var colors []rgb15.Color24
	for _, c := range g.Pix {
		if _, ok := seen[c]; !ok {
			seen[c] = struct{}{}
			colors = append(colors, c)
		}
	}
	return colors
}
