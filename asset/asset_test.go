package asset

import (
	"testing"

	"github.com/bodgit/pix2gba/palette"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAsset() *Asset {
	return &Asset{
		Name:       "sprite",
		Width:      16,
		Height:     8,
		MetaWidth:  2,
		MetaHeight: 1,
		Bpp:        1,
		Palette:    palette.Palette{palette.Transparent, 0x7fff},
		Tiles:      []uint32{0xdeadbeef, 0x12345678, 0, 1},
	}
}

func TestMarshalBinary(t *testing.T) {
	tables := map[string]func(*Asset){
		"plain": func(*Asset) {},
		"deduped": func(a *Asset) {
			a.Tiles = a.Tiles[:2]
			a.TileMap = []int{0, 0}
		},
		"compressed": func(a *Asset) {
			a.Compressed = []byte{0x10, 0x10, 0x00, 0x00, 0x00, 0xef, 0xbe, 0xad}
		},
	}

	for name, mutate := range tables {
		t.Run(name, func(t *testing.T) {
			a := newAsset()
			mutate(a)
			require.NoError(t, a.Validate())

			b, err := a.MarshalBinary()
			require.NoError(t, err)

			got := new(Asset)
			require.NoError(t, got.UnmarshalBinary(b))
			assert.Equal(t, a, got)
		})
	}
}

func TestUnmarshalBinaryErrors(t *testing.T) {
	b, err := newAsset().MarshalBinary()
	require.NoError(t, err)

	a := new(Asset)
	assert.Equal(t, errBadMagic, a.UnmarshalBinary(append([]byte("NOPE"), b[4:]...)))

	bad := append([]byte{}, b...)
	bad[4] = 9
	assert.Equal(t, errBadVersion, a.UnmarshalBinary(bad))

	for i := 0; i < len(b); i++ {
		assert.Error(t, a.UnmarshalBinary(b[:i]), "truncated to %d bytes", i)
	}

	assert.Error(t, a.UnmarshalBinary(append(b, 0)))
}

func TestValidate(t *testing.T) {
	a := newAsset()
	a.Palette = a.Palette[:1]
	assert.Error(t, a.Validate())

	a = newAsset()
	a.Tiles = a.Tiles[:3]
	assert.Error(t, a.Validate())

	a = newAsset()
	a.Tiles = a.Tiles[:2]
	a.TileMap = []int{0}
	assert.Error(t, a.Validate())

	a.TileMap = []int{0, 1}
	assert.Error(t, a.Validate())

	// Deduplicated tiles must still be whole tiles
	a = newAsset()
	a.Tiles = a.Tiles[:3]
	a.TileMap = []int{0, 0}
	assert.Error(t, a.Validate())

	a = newAsset()
	a.MetaHeight = 0
	assert.Error(t, a.Validate())

	a = newAsset()
	a.Bpp = 3
	assert.ErrorIs(t, a.Validate(), palette.ErrInvalidBpp)
}

func TestBytes(t *testing.T) {
	a := newAsset()
	assert.Equal(t, []byte{
		0xef, 0xbe, 0xad, 0xde,
		0x78, 0x56, 0x34, 0x12,
		0x00, 0x00, 0x00, 0x00,
		0x01, 0x00, 0x00, 0x00,
	}, a.Bytes())
	assert.Equal(t, 2, a.NumTiles())
	assert.False(t, a.Deduped())
}

func TestMarshalBinaryMetatile(t *testing.T) {
	tables := []struct {
		width, height int
		ok            bool
	}{
		{1, 1, true},
		{255, 255, true},
		{256, 1, false},
		{1, 256, false},
		{0, 1, false},
	}

	for _, table := range tables {
		a := newAsset()
		a.Width = 8 * table.width
		a.Height = 8 * table.height
		a.MetaWidth = table.width
		a.MetaHeight = table.height
		a.Tiles = make([]uint32, 2*table.width*table.height)

		b, err := a.MarshalBinary()
		if !table.ok {
			assert.Error(t, err, "%dx%d", table.width, table.height)
			assert.Error(t, a.Validate(), "%dx%d", table.width, table.height)
			continue
		}
		require.NoError(t, err)
		require.NoError(t, a.Validate())

		got := new(Asset)
		require.NoError(t, got.UnmarshalBinary(b))
		assert.Equal(t, table.width, got.MetaWidth)
		assert.Equal(t, table.height, got.MetaHeight)
	}
}
