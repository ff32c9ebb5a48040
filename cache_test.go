package pix2gba

import (
	"path/filepath"
	"testing"

	"github.com/bodgit/pix2gba/asset"
	"github.com/bodgit/pix2gba/palette"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache(t *testing.T) {
	file := filepath.Join(t.TempDir(), "cache.db")

	c, err := NewCache(file)
	require.NoError(t, err)

	a, err := c.Get("ABC")
	require.NoError(t, err)
	assert.Nil(t, a)

	want := &asset.Asset{
		Name:       "sprite",
		Width:      8,
		Height:     8,
		MetaWidth:  1,
		MetaHeight: 1,
		Bpp:        1,
		Palette:    palette.Palette{palette.Transparent, 0x7fff},
		Tiles:      []uint32{1, 2},
	}
	require.NoError(t, c.Put("ABC", want))
	require.NoError(t, c.Put("ABC", want))

	n, err := c.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, c.Close())

	// Entries survive reopening
	c, err = NewCache(file)
	require.NoError(t, err)
	defer c.Close()

	got, err := c.Get("ABC")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = c.db.Exec("UPDATE asset SET data = ? WHERE sha1 = ?", []byte("garbage"), "ABC")
	require.NoError(t, err)
	_, err = c.Get("ABC")
	assert.Error(t, err)
}
