package tile

import "image"

// geometry describes the metatile layout of an image.
type geometry struct {
	metaWidth  int // tiles across a metatile
	metaHeight int // tiles down a metatile
	across     int // metatiles across the image
}

func newGeometry(width, metaWidth, metaHeight int) geometry {
	return geometry{
		metaWidth:  metaWidth,
		metaHeight: metaHeight,
		across:     width / (metaWidth * tileWidth),
	}
}

// cursor tracks the traversal one tile row at a time.
type cursor struct {
	y           int // row within the tile
	rows        int // rows visited so far
	metaCol     int // tile position within the metatile
	metaRow     int
	metatileCol int // metatile position within the image
	metatileRow int
}

// step advances the cursor by one tile row.
func (c cursor) step(g geometry) cursor {
	c.y++
	c.rows++

	if c.rows%tileHeight == 0 {
		c.y = 0
		c.metaCol++
	}

	if c.metaCol == g.metaWidth {
		c.metaCol = 0
		c.metaRow++
	}

	if c.metaRow == g.metaHeight {
		c.metaRow = 0
		c.metatileCol++
	}

	// An image narrower than one metatile never wraps and runs off the
	// right edge instead
	if g.across > 0 && c.metatileCol == g.across {
		c.metatileCol = 0
		c.metatileRow++
	}

	return c
}

// origin returns the top-left pixel of the current tile.
func (c cursor) origin(g geometry) image.Point {
	return image.Point{
		X: c.metaCol*tileWidth + c.metatileCol*g.metaWidth*tileWidth,
		Y: c.metaRow*tileHeight + c.metatileRow*g.metaHeight*tileHeight,
	}
}

// Order returns the top-left pixel of every tile in the order tiles are
// written for a width by height image.
func Order(width, height, metaWidth, metaHeight int) ([]image.Point, error) {
	if metaWidth < 1 || metaHeight < 1 {
		return nil, errBadMetatile
	}

	g := newGeometry(width, metaWidth, metaHeight)
	n := width / tileWidth * (height / tileHeight)
	points := make([]image.Point, 0, n)

	var c cursor
	for i := 0; i < n; i++ {
		p := c.origin(g)
		if p.X+tileWidth > width || p.Y+tileHeight > height {
			return nil, &OutOfBoundsError{p.X, p.Y, width, height}
		}
		points = append(points, p)
		for y := 0; y < tileHeight; y++ {
			c = c.step(g)
		}
	}

	return points, nil
}
