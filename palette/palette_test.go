package palette

import (
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/bodgit/pix2gba/rgb15"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(colors ...rgb15.Color15) image.Image {
	m := image.NewNRGBA(image.Rect(0, 0, len(colors), 1))
	for i, c := range colors {
		m.Set(i, 0, c.Widen())
	}
	return m
}

func TestSize(t *testing.T) {
	for _, bpp := range []int{1, 2, 4, 8, 16} {
		n, err := Size(bpp)
		require.NoError(t, err)
		assert.Equal(t, 1<<bpp, n)
	}
	for _, bpp := range []int{-4, 0, 3, 6, 12, 32} {
		_, err := Size(bpp)
		assert.ErrorIs(t, err, ErrInvalidBpp, "bpp %d", bpp)
	}
}

func TestFromImageTransparentSlot(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	const transparent rgb15.Color15 = 0x7c1f

	for _, bpp := range []int{1, 2, 4, 8} {
		size := 1 << bpp
		colors := make([]rgb15.Color15, size)
		for i := range colors {
			colors[i] = rgb15.Color15(i * 97)
		}

		for n := 0; n < 10; n++ {
			r.Shuffle(len(colors), func(i, j int) { colors[i], colors[j] = colors[j], colors[i] })
			if n%2 == 1 {
				// Also try with the transparent color somewhere inside
				colors[r.Intn(size)] = transparent
			}

			p, err := FromImage(row(colors...), bpp, transparent)
			require.NoError(t, err)
			assert.Equal(t, transparent, p[0], "bpp %d", bpp)
			assert.LessOrEqual(t, len(p), size)
		}
	}
}

func TestFromImageRelocation(t *testing.T) {
	const (
		a rgb15.Color15 = 0x001f
		b rgb15.Color15 = 0x03e0
		d rgb15.Color15 = 0x7c00
		x               = Transparent
	)

	p, err := FromImage(row(a, b, x, d), 2, x)
	require.NoError(t, err)
	assert.Equal(t, Palette{x, b, d, a}, p)

	// Full palette without the transparent color loses the old slot 0
	p, err = FromImage(row(a, b, d, 0), 2, x)
	require.NoError(t, err)
	assert.Equal(t, Palette{x, b, d, 0}, p)

	// Room to spare, nothing is lost
	p, err = FromImage(row(a, b), 2, x)
	require.NoError(t, err)
	assert.Equal(t, Palette{x, b, a}, p)

	// Already in slot 0
	p, err = FromImage(row(x, a, b), 2, x)
	require.NoError(t, err)
	assert.Equal(t, Palette{x, a, b}, p)
}

func TestFromImageTooLarge(t *testing.T) {
	_, err := FromImage(row(1, 2, 3, 4, 5), 2, Transparent)
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = FromImage(row(1, 2), 3, Transparent)
	assert.ErrorIs(t, err, ErrInvalidBpp)
}

func TestFromSource(t *testing.T) {
	red := color.NRGBA{0xff, 0, 0, 0xff}
	nearRed := color.NRGBA{0xfa, 0x02, 0x01, 0xff}
	green := color.NRGBA{0, 0xff, 0, 0xff}
	blue := color.NRGBA{0, 0, 0xff, 0xff}
	white := color.NRGBA{0xff, 0xff, 0xff, 0xff}

	m := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	// 6 red, 5 green, 3 near red, 1 blue, 1 white
	pixels := []color.NRGBA{
		red, red, red, red,
		red, red, green, green,
		green, green, green, nearRed,
		nearRed, nearRed, blue, white,
	}
	for i, c := range pixels {
		m.Set(i%4, i/4, c)
	}

	p, err := FromSource(m, 2, Transparent)
	require.NoError(t, err)

	// Top four are red, green, near red and blue (blue beats white on the
	// packed value tie-break). Red and near red narrow to the same color.
	// Survivors sorted ascending are red, green, blue; red is relocated.
	assert.Equal(t, Palette{Transparent, 0x03e0, 0x7c00, 0x001f}, p)
}

func TestFromSourceTruncates(t *testing.T) {
	colors := make([]rgb15.Color15, 8)
	for i := range colors {
		colors[i] = rgb15.Color15(0x0421 * (i + 1))
	}

	p, err := FromSource(row(colors...), 2, Transparent)
	require.NoError(t, err)
	assert.Len(t, p, 4)
	assert.Equal(t, Transparent, p[0])
}

func TestFromMedianCut(t *testing.T) {
	m := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if x < 2 {
				m.Set(x, y, color.NRGBA{0xff, 0, 0, 0xff})
			} else {
				m.Set(x, y, color.NRGBA{0, 0, 0xff, 0xff})
			}
		}
	}

	p, err := FromMedianCut(m, 2, Transparent)
	require.NoError(t, err)
	assert.Equal(t, Transparent, p[0])
	assert.LessOrEqual(t, len(p), 4)
	assert.Contains(t, p, rgb15.Color15(0x001f))
	assert.Contains(t, p, rgb15.Color15(0x7c00))
}

func TestPadded(t *testing.T) {
	p := Palette{Transparent, 0x001f}
	assert.Equal(t, Palette{Transparent, 0x001f, 0, 0}, p.Padded(2))
	assert.Len(t, p.ColorPalette(), 2)
}
