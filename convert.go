package pix2gba

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/bodgit/pix2gba/asset"
	"github.com/bodgit/pix2gba/config"
	"github.com/bodgit/pix2gba/palette"
	"github.com/bodgit/pix2gba/rgb15"
	"github.com/bodgit/pix2gba/tile"
	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Settings describe how to convert one image.
type Settings struct {
	Name        string // base name of the output files
	Image       string
	Palette     string // palette image, empty to build one from Image
	PaletteMode config.PaletteMode
	Bpp         int
	Transparent rgb15.Color15
	MetaWidth   int
	MetaHeight  int
	Dedupe      bool
	Compress    bool
}

// NewSettings returns the settings for a unit in a build file.
func NewSettings(g config.General, u config.Unit) Settings {
	return Settings{
		Name:        u.Base(),
		Image:       u.Image,
		Palette:     u.Palette,
		PaletteMode: g.PaletteMode,
		Bpp:         g.Bpp,
		Transparent: g.Transparent,
		MetaWidth:   u.MetaWidth,
		MetaHeight:  u.MetaHeight,
		Dedupe:      u.Dedupe,
		Compress:    u.Compress,
	}
}

// Base returns the default name for an image file, its base name without
// the extension.
func Base(file string) string {
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func decodeImage(b []byte) (image.Image, error) {
	m, _, err := image.Decode(bytes.NewReader(b))
	return m, err
}

func (s Settings) key(img, pal []byte) string {
	h := sha1.New()
	h.Write(img)
	h.Write(pal)
	fmt.Fprintf(h, "%s|%t|%s|%d|%#04x|%d|%d|%t|%t", s.Name, s.Palette != "", s.PaletteMode, s.Bpp, uint16(s.Transparent), s.MetaWidth, s.MetaHeight, s.Dedupe, s.Compress)
	return fmt.Sprintf("%X", h.Sum(nil))
}

func (b *Builder) buildPalette(s Settings, m image.Image, pal []byte) (palette.Palette, error) {
	if s.Palette != "" {
		pm, err := decodeImage(pal)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to decode palette %s", s.Palette)
		}
		return palette.FromImage(pm, s.Bpp, s.Transparent)
	}

	if s.PaletteMode == config.MedianCut {
		return palette.FromMedianCut(m, s.Bpp, s.Transparent)
	}
	return palette.FromSource(m, s.Bpp, s.Transparent)
}

func (b *Builder) convert(s Settings, img, pal []byte) (*asset.Asset, error) {
	m, err := decodeImage(img)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to decode %s", s.Image)
	}

	p, err := b.buildPalette(s, m, pal)
	if err != nil {
		return nil, err
	}
	b.logger.Printf("%s: palette of %d colors\n", s.Name, len(p))

	g := tile.NewGrid(m, tile.PadColor)

	table, err := palette.NewConversionTable(p, g.Colors())
	if err != nil {
		return nil, err
	}

	words, err := tile.Encode(g, table, s.Bpp, s.MetaWidth, s.MetaHeight)
	if err != nil {
		return nil, err
	}

	a := &asset.Asset{
		Name:       s.Name,
		Width:      g.Width,
		Height:     g.Height,
		MetaWidth:  s.MetaWidth,
		MetaHeight: s.MetaHeight,
		Bpp:        s.Bpp,
		Palette:    p.Padded(s.Bpp),
		Tiles:      words,
	}
	b.logger.Printf("%s: %dx%d pixels, %d tiles\n", s.Name, a.Width, a.Height, a.NumTiles())

	if s.Dedupe {
		tiles, tileMap, err := tile.Dedupe(a.Tiles, a.Bpp)
		if err != nil {
			return nil, err
		}
		a.Tiles, a.TileMap = tiles, tileMap
		b.logger.Printf("%s: deduped from %d to %d tiles\n", s.Name, a.NumTiles(), len(tiles)/tile.Words(a.Bpp))
	}

	if s.Compress {
		c, err := b.compressor.Compress(a.Bytes())
		if err != nil {
			return nil, err
		}
		a.Compressed = c
		b.logger.Printf("%s: compressed from %d bytes to %d bytes\n", s.Name, len(a.Tiles)*4, len(c))
	}

	if err := a.Validate(); err != nil {
		return nil, err
	}

	return a, nil
}

// Convert converts the image described by s. If the Builder has a cache and
// nothing has changed since the last conversion the cached asset is
// returned instead.
func (b *Builder) Convert(s Settings) (*asset.Asset, error) {
	// Reject a bad bpp before touching any images
	if _, err := palette.Size(s.Bpp); err != nil {
		return nil, err
	}

	img, err := ioutil.ReadFile(s.Image)
	if err != nil {
		return nil, err
	}

	var pal []byte
	if s.Palette != "" {
		if pal, err = ioutil.ReadFile(s.Palette); err != nil {
			return nil, err
		}
	}

	var key string
	if b.cache != nil {
		key = s.key(img, pal)
		a, err := b.cache.Get(key)
		if err != nil {
			return nil, err
		}
		if a != nil {
			b.logger.Printf("%s: unchanged, using cached copy\n", s.Name)
			return a, nil
		}
	}

	a, err := b.convert(s, img, pal)
	if err != nil {
		return nil, err
	}

	if b.cache != nil {
		if err := b.cache.Put(key, a); err != nil {
			return nil, err
		}
	}

	return a, nil
}
