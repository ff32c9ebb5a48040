package tile

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorStep(t *testing.T) {
	g := geometry{metaWidth: 2, metaHeight: 2, across: 2}

	var c cursor
	for i := 0; i < 7; i++ {
		c = c.step(g)
	}
	assert.Equal(t, cursor{y: 7, rows: 7}, c)

	c = c.step(g)
	assert.Equal(t, cursor{rows: 8, metaCol: 1}, c)
	assert.Equal(t, image.Pt(8, 0), c.origin(g))

	for i := 0; i < 8; i++ {
		c = c.step(g)
	}
	assert.Equal(t, cursor{rows: 16, metaRow: 1}, c)
	assert.Equal(t, image.Pt(0, 8), c.origin(g))

	for i := 0; i < 16; i++ {
		c = c.step(g)
	}
	assert.Equal(t, cursor{rows: 32, metatileCol: 1}, c)
	assert.Equal(t, image.Pt(16, 0), c.origin(g))

	for i := 0; i < 32; i++ {
		c = c.step(g)
	}
	assert.Equal(t, cursor{rows: 64, metatileRow: 1}, c)
	assert.Equal(t, image.Pt(0, 16), c.origin(g))
}

func TestCursorNarrowImage(t *testing.T) {
	// Zero metatiles across never wraps
	g := geometry{metaWidth: 1, metaHeight: 1, across: 0}

	var c cursor
	for i := 0; i < 16; i++ {
		c = c.step(g)
	}
	assert.Equal(t, image.Pt(16, 0), c.origin(g))
}

func TestOrder(t *testing.T) {
	points, err := Order(32, 16, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []image.Point{
		{0, 0}, {8, 0}, {0, 8}, {8, 8},
		{16, 0}, {24, 0}, {16, 8}, {24, 8},
	}, points)

	points, err = Order(16, 16, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []image.Point{{0, 0}, {8, 0}, {0, 8}, {8, 8}}, points)

	points, err = Order(16, 16, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []image.Point{{0, 0}, {0, 8}, {8, 0}, {8, 8}}, points)
}

func TestOrderOutOfBounds(t *testing.T) {
	_, err := Order(24, 8, 2, 1)
	var oob *OutOfBoundsError
	require.ErrorAs(t, err, &oob)
	assert.Equal(t, OutOfBoundsError{0, 8, 24, 8}, *oob)

	_, err = Order(8, 16, 2, 1)
	require.ErrorAs(t, err, &oob)
	assert.Equal(t, OutOfBoundsError{8, 0, 8, 16}, *oob)

	_, err = Order(8, 8, 0, 1)
	assert.Equal(t, errBadMetatile, err)
}
