/*
Package rgb15 implements the conversion between 24-bit colors and the 15-bit
colors used by the Game Boy Advance.

A 15-bit color is packed as 0BBBBBGGGGGRRRRR, red in the low bits. Narrowing
drops the low three bits of each 8-bit channel and widening scales each 5-bit
channel back to 0-255, so the two are not exact inverses of each other.
*/
package rgb15

import "image/color"

// Color24 is a full color with three 8-bit channels.
type Color24 struct {
	R, G, B uint8
}

// Color15 is a hardware color with three 5-bit channels.
type Color15 uint16

// Magenta is the color used to fill padding.
var Magenta = Color24{0xff, 0x00, 0xff}

// Narrow truncates each channel to 5 bits.
func (c Color24) Narrow() Color15 {
	return Color15(uint16(c.B>>3)<<10 | uint16(c.G>>3)<<5 | uint16(c.R>>3))
}

// Pack packs the channels into the low 24 bits of a uint32, red in the low
// byte.
func (c Color24) Pack() uint32 {
	return uint32(c.B)<<16 | uint32(c.G)<<8 | uint32(c.R)
}

// Unpack is the inverse of Pack.
func Unpack(v uint32) Color24 {
	return Color24{
		R: uint8(v),
		G: uint8(v >> 8),
		B: uint8(v >> 16),
	}
}

// RGBA implements the color.Color interface.
func (c Color24) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

// Channels returns the three 5-bit channels.
func (c Color15) Channels() (r, g, b uint8) {
	return uint8(c & 0x1f), uint8(c >> 5 & 0x1f), uint8(c >> 10 & 0x1f)
}

// Widen scales each channel back to 8 bits.
func (c Color15) Widen() Color24 {
	r, g, b := c.Channels()
	return Color24{
		R: uint8(uint(r) * 255 / 31),
		G: uint8(uint(g) * 255 / 31),
		B: uint8(uint(b) * 255 / 31),
	}
}

// RGBA implements the color.Color interface using the widened color.
func (c Color15) RGBA() (r, g, b, a uint32) {
	return c.Widen().RGBA()
}

// FromColor converts any color.Color to a Color24. Alpha is discarded rather
// than premultiplied.
func FromColor(c color.Color) Color24 {
	switch v := c.(type) {
	case Color24:
		return v
	case Color15:
		return v.Widen()
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color24{n.R, n.G, n.B}
}

// Model converts colors to Color15.
var Model = color.ModelFunc(func(c color.Color) color.Color {
	if v, ok := c.(Color15); ok {
		return v
	}
	return FromColor(c).Narrow()
})
