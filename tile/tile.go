/*
Package tile implements a Game Boy Advance tile encoder.

Images are padded to a multiple of 8 by 8 pixels and split into tiles. Tiles
are grouped into metatiles; tiles are written in raster order within a
metatile and metatiles are written in raster order across the image. Each
pixel is a palette index of bpp bits and indices are packed into 32-bit
words, the first pixel in the low bits, so a tile is always 2*bpp words.
*/
package tile

const (
	tileWidth  = 8
	tileHeight = tileWidth
	tilePixels = tileWidth * tileHeight
	wordBits   = 32
)

// Words returns the number of 32-bit words in one tile.
func Words(bpp int) int {
	return tilePixels * bpp / wordBits
}

// Count returns the number of 32-bit words needed for a width by height
// image.
func Count(width, height, bpp int) int {
	return width * height * bpp / wordBits
}
