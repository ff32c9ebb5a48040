package palette

import (
	"testing"

	"github.com/bodgit/pix2gba/rgb15"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNearestTie(t *testing.T) {
	// Red channel 2 is one step away from both 1 and 3
	probe := rgb15.Color15(2)

	assert.Equal(t, 0, Palette{1, 3}.Nearest(probe))
	assert.Equal(t, 0, Palette{3, 1}.Nearest(probe))
	assert.Equal(t, 1, Palette{0x7fff, 1, 3}.Nearest(probe))
	assert.Equal(t, -1, Palette{}.Nearest(probe))
}

func TestNearest(t *testing.T) {
	p := Palette{Transparent, 0x001f, 0x03e0, 0x7c00}

	assert.Equal(t, 1, p.Nearest(0x001e))
	assert.Equal(t, 2, p.Nearest(0x03c0))
	assert.Equal(t, 3, p.Nearest(0x7c00))
	assert.Equal(t, 0, p.Nearest(Transparent))
}

func TestNewConversionTable(t *testing.T) {
	p := Palette{rgb15.Magenta.Narrow(), 0x001f, 0x03e0, 0x7c00}
	colors := []rgb15.Color24{
		{R: 0xff, G: 0x00, B: 0x00},
		{R: 0xf8, G: 0x10, B: 0x00},
		{R: 0x00, G: 0xff, B: 0x00},
		{R: 0x00, G: 0x00, B: 0xf0},
		rgb15.Magenta,
	}

	table, err := NewConversionTable(p, colors)
	require.NoError(t, err)
	assert.Equal(t, ConversionTable{
		0x001f: 1,
		0x005f: 1,
		0x03e0: 2,
		0x7800: 3,
		0x7c1f: 0,
	}, table)

	_, err = NewConversionTable(nil, colors)
	assert.Error(t, err)
}
