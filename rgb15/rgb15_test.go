package rgb15

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNarrow(t *testing.T) {
	tables := []struct {
		c    Color24
		want Color15
	}{
		{Color24{0, 0, 0}, 0x0000},
		{Color24{0xff, 0xff, 0xff}, 0x7fff},
		{Color24{0xff, 0x00, 0x00}, 0x001f},
		{Color24{0x00, 0xff, 0x00}, 0x03e0},
		{Color24{0x00, 0x00, 0xff}, 0x7c00},
		{Magenta, 0x7c1f},
		{Color24{7, 15, 16}, 0x0820},
	}

	for _, table := range tables {
		assert.Equal(t, table.want, table.c.Narrow(), "%v", table.c)
	}
}

func TestWiden(t *testing.T) {
	assert.Equal(t, Color24{0, 0, 0}, Color15(0).Widen())
	assert.Equal(t, Color24{0xff, 0xff, 0xff}, Color15(0x7fff).Widen())
	// 1*255/31 = 8, 16*255/31 = 131
	assert.Equal(t, Color24{8, 131, 0}, Color15(0x0201).Widen())
}

func TestRoundtrip(t *testing.T) {
	for c := Color15(0); c <= 0x7fff; c++ {
		w := c.Widen()
		n := w.Narrow()
		if got := n.Widen(); got != w {
			t.Errorf("%.4x => %v => %.4x => %v", c, w, n, got)
		}
		if got := n.Widen().Narrow(); got != n {
			t.Errorf("%.4x: narrow is not idempotent, %.4x != %.4x", c, got, n)
		}
	}
}

func TestLossy(t *testing.T) {
	c := Color24{0x12, 0x34, 0x56}
	assert.NotEqual(t, c, c.Narrow().Widen())
	assert.Equal(t, Color24{16, 49, 82}, c.Narrow().Widen())
}

func TestPack(t *testing.T) {
	c := Color24{0x12, 0x34, 0x56}
	assert.Equal(t, uint32(0x563412), c.Pack())
	assert.Equal(t, c, Unpack(c.Pack()))
	assert.Equal(t, c, Unpack(0xff563412))
}

func TestFromColor(t *testing.T) {
	assert.Equal(t, Color24{1, 2, 3}, FromColor(color.RGBA{1, 2, 3, 0xff}))
	assert.Equal(t, Color24{0xff, 0, 0xff}, FromColor(color.NRGBA{0xff, 0, 0xff, 0}))
	assert.Equal(t, Color24{0xff, 0xff, 0xff}, FromColor(Color15(0x7fff)))
	assert.Equal(t, Color15(0x7c1f), Model.Convert(color.RGBA{0xff, 0, 0xff, 0xff}))
}
