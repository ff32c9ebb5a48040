/*
Package emit writes converted assets out as C source that can be compiled
straight into a Game Boy Advance project, or as the raw asset container.

For an asset named "sprite" the header declares:

	spriteTileAmount    number of tiles stored
	spriteTilesLen      size of the tile data in bytes
	spriteTiles[]       the packed tile words, or
	spriteCompression[] the LZ77 stream when compressed
	spriteMap[]         tile indices, only when deduplicated
	spritePal[]         the palette, only when included
*/
package emit

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bodgit/pix2gba/asset"
	"github.com/bodgit/pix2gba/tile"
)

const (
	perLine  = 8
	perBlock = 8

	rule      = "//======================================================================"
	attribute = `__attribute__((aligned(4))) __attribute__((visibility("hidden")))`
)

// Options control what is written alongside the tile data.
type Options struct {
	// PaletteName is the name of the image the palette came from, it
	// defaults to the asset name
	PaletteName string
	// IncludePalette adds the palette array
	IncludePalette bool
	// Time is stamped into the header banner, it is omitted if zero
	Time time.Time
}

// Identifier turns name into a valid C identifier.
func Identifier(name string) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case r == '_', 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
			b.WriteRune(r)
		case '0' <= r && r <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}

// writer remembers the first error so callers can write a whole file and
// check once at the end.
type writer struct {
	w   io.Writer
	err error
}

func (w *writer) printf(format string, a ...interface{}) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.w, format, a...)
}

func (w *writer) doc(lines ...string) {
	w.printf("/**\n")
	for _, l := range lines {
		w.printf(" * %s\n", l)
	}
	w.printf(" */\n")
}

// array writes n values, perLine to a line with a blank line after every
// perBlock lines.
func (w *writer) array(n int, value func(int) string) {
	for i := 0; i < n; i += perLine {
		values := make([]string, 0, perLine)
		for j := i; j < i+perLine && j < n; j++ {
			values = append(values, value(j))
		}
		w.printf("\t%s,\n", strings.Join(values, ", "))
		if (i/perLine+1)%perBlock == 0 {
			w.printf("\n")
		}
	}
}

type sizes struct {
	name       string
	tiles      int // stored tiles
	bytes      int // uncompressed tile data
	words      int
	compressed int
}

func newSizes(a *asset.Asset) sizes {
	return sizes{
		name:       Identifier(a.Name),
		tiles:      len(a.Tiles) / tile.Words(a.Bpp),
		bytes:      len(a.Tiles) * 4,
		words:      len(a.Tiles),
		compressed: len(a.Compressed),
	}
}

// WriteHeader writes the C header declaring everything WriteSource defines.
func WriteHeader(w io.Writer, a *asset.Asset, o Options) error {
	if err := a.Validate(); err != nil {
		return err
	}

	s := newSizes(a)
	ww := &writer{w: w}

	paletteName := o.PaletteName
	if paletteName == "" {
		paletteName = a.Name
	}

	var notes []string
	if a.Compressed != nil {
		notes = append(notes, "Compressed with LZ77")
	}
	if a.Deduped() {
		notes = append(notes, "Deduped")
	}
	ww.printf("// %s on %s Palette", a.Name, paletteName)
	for _, n := range notes {
		ww.printf("; %s", n)
	}
	ww.printf("\n#pragma once\n\n")

	ww.printf("%s\n", rule)
	ww.printf("//\t%s, %dpxl by %dpxl @ %dbpp\n", a.Name, a.Width, a.Height, a.Bpp)
	ww.printf("//\t+ Number of Tiles : %d\n", a.NumTiles())
	if a.Deduped() {
		ww.printf("//\t+ Unique Tiles    : %d\n", s.tiles)
	}
	ww.printf("//\t+ Metatile Shape  : %dw by %dh\n", a.MetaWidth, a.MetaHeight)
	ww.printf("//\t+ Dimensions in MT: %dw by %dh\n", a.Width/(8*a.MetaWidth), a.Height/(8*a.MetaHeight))
	if a.Compressed != nil {
		ww.printf("//\t+ Compressed number of bytes   : %d\n", s.compressed)
		ww.printf("//\t+ Decompressed number of bytes : %d\n", s.bytes)
	} else {
		ww.printf("//\t+ Number of Bytes : %d\n", s.bytes)
		ww.printf("//\t+ Number of U32   : %d\n", s.words)
	}
	ww.printf("//\t+ Blank Color     : %#04x\n", uint16(a.Palette[0]))
	if !o.Time.IsZero() {
		ww.printf("//\t%s\n", o.Time.Format("2006-01-02 15:04:05"))
	}
	ww.printf("%s\n\n", rule)

	ww.doc(fmt.Sprintf("@brief The number of tiles to make %s.", a.Name))
	ww.printf("#define %sTileAmount %d\n\n", s.name, s.tiles)

	ww.doc(fmt.Sprintf("@brief The number of bytes %s occupies.", a.Name))
	ww.printf("#define %sTilesLen %d\n\n", s.name, s.bytes)

	if a.Compressed != nil {
		ww.doc(fmt.Sprintf("@brief The number of bytes in the compression stream for %s.", a.Name))
		ww.printf("#define %sCompressedLen %d\n\n", s.name, s.compressed)

		ww.doc(fmt.Sprintf("@brief The byte stream to decompress %s to tile data.", a.Name))
		ww.printf("extern const unsigned char %sCompression[%d];\n", s.name, s.compressed)
	} else {
		ww.doc(fmt.Sprintf("@brief The array of palette indices (%d packed into one uint) to create %s in tiles.", 32/a.Bpp, a.Name))
		ww.printf("extern const unsigned int %sTiles[%d];\n", s.name, s.words)
	}

	if a.Deduped() {
		ww.printf("\n")
		ww.doc(fmt.Sprintf("@brief The array of tile indices to create %s from the unique tiles.", a.Name))
		ww.printf("extern const unsigned short %sMap[%d];\n", s.name, len(a.TileMap))
	}

	if o.IncludePalette {
		ww.printf("\n")
		ww.doc(fmt.Sprintf("@brief The number of bytes the palette for %s occupies.", a.Name))
		ww.printf("#define %sPalLen %d\n\n", s.name, len(a.Palette)*2)

		ww.doc(fmt.Sprintf("@brief The array of rgb15 (short) numbers that create %s's palette.", a.Name))
		ww.printf("extern const unsigned short %sPal[%d];\n", s.name, len(a.Palette))
	}

	return ww.err
}

// WriteSource writes the C source defining the arrays.
func WriteSource(w io.Writer, a *asset.Asset, o Options) error {
	if err := a.Validate(); err != nil {
		return err
	}

	s := newSizes(a)
	ww := &writer{w: w}

	if a.Compressed != nil {
		ww.printf("const unsigned char %sCompression[%d] %s=\n{\n", s.name, s.compressed, attribute)
		ww.array(s.compressed, func(i int) string {
			return fmt.Sprintf("0x%02X", a.Compressed[i])
		})
	} else {
		ww.printf("const unsigned int %sTiles[%d] %s=\n{\n", s.name, s.words, attribute)
		ww.array(s.words, func(i int) string {
			return fmt.Sprintf("0x%08x", a.Tiles[i])
		})
	}
	ww.printf("};\n")

	if a.Deduped() {
		ww.printf("\nconst unsigned short %sMap[%d] %s=\n{\n", s.name, len(a.TileMap), attribute)
		ww.array(len(a.TileMap), func(i int) string {
			return fmt.Sprintf("%d", a.TileMap[i])
		})
		ww.printf("};\n")
	}

	if o.IncludePalette {
		ww.printf("\nconst unsigned short %sPal[%d] %s=\n{\n", s.name, len(a.Palette), attribute)
		ww.array(len(a.Palette), func(i int) string {
			return fmt.Sprintf("0x%04x", uint16(a.Palette[i]))
		})
		ww.printf("};\n")
	}

	return ww.err
}

// WriteBinary writes the asset container.
func WriteBinary(w io.Writer, a *asset.Asset) error {
	if err := a.Validate(); err != nil {
		return err
	}

	b, err := a.MarshalBinary()
	if err != nil {
		return err
	}

	_, err = w.Write(b)
	return err
}
