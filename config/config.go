/*
Package config reads pix2gba.toml build files.

A build file has one [general] table shared by every unit and any number of
[[unit]] tables, one per image to convert:

	[general]
	bpp = 4
	transparent = "0x5D53"
	output_type = "both"
	destination = "./build"

	[[unit]]
	name = "player"
	metatile_width = 2
	metatile_height = 2
	palette = "./player_pal.png"
	palette_include = 1
	generate_palette = 0
	compress = 0
	dedupe = 1

Switches accept either booleans or 0/1 integers.
*/
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bodgit/pix2gba/palette"
	"github.com/bodgit/pix2gba/rgb15"
	"github.com/pkg/errors"
)

const (
	// Filename is the name of the build file marking a build root
	Filename = "pix2gba.toml"
	// TemplateFilename is the name used when writing a template
	TemplateFilename = "pix2gba_template.toml"
)

// OutputType selects which files are written for each unit.
type OutputType string

// Output types
const (
	OutputBoth OutputType = "both"
	OutputC    OutputType = "c"
	OutputH    OutputType = "h"
	OutputBin  OutputType = "bin"
)

// PaletteMode selects how a palette is built when a unit has no palette
// image.
type PaletteMode string

// Palette modes
const (
	Frequency PaletteMode = "frequency"
	MedianCut PaletteMode = "median-cut"
)

var (
	generalKeys = []string{"bpp", "transparent", "output_type", "destination"}
	unitKeys    = []string{"name", "metatile_width", "metatile_height", "palette", "palette_include", "generate_palette", "compress", "dedupe"}
)

// General holds the settings shared by all units in a build file.
type General struct {
	Bpp         int
	Transparent rgb15.Color15
	OutputType  OutputType
	Destination string // absolute
	PaletteMode PaletteMode
}

// Unit is one image to convert.
type Unit struct {
	Name            string
	Image           string // absolute
	MetaWidth       int
	MetaHeight      int
	Palette         string // absolute, empty if none
	IncludePalette  bool
	GeneratePalette bool
	Compress        bool
	Dedupe          bool
}

// Base returns the name used for the unit's output files.
func (u Unit) Base() string {
	return filepath.Base(u.Name)
}

// UnitError records why a unit in a build file was rejected.
type UnitError struct {
	Index int
	Name  string
	Err   error
}

func (e *UnitError) Error() string {
	if e.Name != "" {
		return "unit " + strconv.Itoa(e.Index) + " (" + e.Name + "): " + e.Err.Error()
	}
	return "unit " + strconv.Itoa(e.Index) + ": " + e.Err.Error()
}

func (e *UnitError) Unwrap() error {
	return e.Err
}

// GeneralError is returned when the [general] table is invalid, which
// abandons every unit in the file.
type GeneralError struct {
	File  string
	Units int
	Err   error
}

func (e *GeneralError) Error() string {
	return e.File + ": " + e.Err.Error() + ", abandoning " + strconv.Itoa(e.Units) + " units"
}

func (e *GeneralError) Unwrap() error {
	return e.Err
}

// Config is a parsed build file.
type Config struct {
	Dir     string
	File    string
	General General
	Units   []Unit
	Errors  []*UnitError // units that were rejected
}

// OutputFiles returns the files written for an asset with the given base
// name.
func OutputFiles(destination, base string, t OutputType, swatch bool) []string {
	base = filepath.Join(destination, base)

	var files []string
	switch t {
	case OutputBoth:
		files = append(files, base+".h", base+".c")
	case OutputH:
		files = append(files, base+".h")
	case OutputC:
		files = append(files, base+".c")
	case OutputBin:
		files = append(files, base+".bin")
	}
	if swatch {
		files = append(files, base+"_palette.png")
	}
	return files
}

// Outputs returns every file the unit writes, whether it exists or not.
func (c *Config) Outputs(u Unit) []string {
	return OutputFiles(c.General.Destination, u.Base(), c.General.OutputType, u.GeneratePalette)
}

type fields map[string]interface{}

func (f fields) missing(keys []string) error {
	var names []string
	for _, k := range keys {
		if _, ok := f[k]; !ok {
			names = append(names, "`"+k+"`")
		}
	}
	if len(names) > 0 {
		return errors.Errorf("missing %s", strings.Join(names, ", "))
	}
	return nil
}

func (f fields) intValue(key string) (int, error) {
	v, ok := f[key].(int64)
	if !ok {
		return 0, errors.Errorf("%s must be an integer", key)
	}
	return int(v), nil
}

func (f fields) stringValue(key string) (string, error) {
	v, ok := f[key].(string)
	if !ok {
		return "", errors.Errorf("%s must be a string", key)
	}
	return v, nil
}

func (f fields) boolValue(key string) (bool, error) {
	switch v := f[key].(type) {
	case bool:
		return v, nil
	case int64:
		if v == 0 || v == 1 {
			return v == 1, nil
		}
	}
	return false, errors.Errorf("%s must be a boolean, 0 or 1", key)
}

// ParseColor parses a hexadecimal 15-bit color, with or without a leading
// 0x. An empty string is the default transparent color.
func ParseColor(s string) (rgb15.Color15, error) {
	if s == "" {
		return palette.Transparent, nil
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(s), "0x"), 16, 16)
	if err != nil {
		return 0, errors.Errorf("transparent color %q is not hex", s)
	}
	if v > 0x7fff {
		return 0, errors.Errorf("transparent color %q is not a valid color (max value is 0x7FFF)", s)
	}
	return rgb15.Color15(v), nil
}

func parseGeneral(f fields, dir string) (General, error) {
	var g General

	if err := f.missing(generalKeys); err != nil {
		return g, err
	}

	var err error
	if g.Bpp, err = f.intValue("bpp"); err != nil {
		return g, err
	}
	if _, err := palette.Size(g.Bpp); err != nil {
		return g, err
	}

	transparent, err := f.stringValue("transparent")
	if err != nil {
		return g, err
	}
	if g.Transparent, err = ParseColor(transparent); err != nil {
		return g, err
	}

	outputType, err := f.stringValue("output_type")
	if err != nil {
		return g, err
	}
	switch g.OutputType = OutputType(outputType); g.OutputType {
	case OutputBoth, OutputC, OutputH, OutputBin:
	default:
		return g, errors.Errorf("output type %q is not one of both, c, h or bin", outputType)
	}

	destination, err := f.stringValue("destination")
	if err != nil {
		return g, err
	}
	g.Destination = destination
	if !filepath.IsAbs(g.Destination) {
		g.Destination = filepath.Join(dir, g.Destination)
	}
	info, err := os.Stat(g.Destination)
	if err != nil {
		return g, errors.Wrap(err, "output directory")
	}
	if !info.IsDir() {
		return g, errors.Errorf("output directory %s is not a directory", g.Destination)
	}

	g.PaletteMode = Frequency
	if _, ok := f["palette_mode"]; ok {
		mode, err := f.stringValue("palette_mode")
		if err != nil {
			return g, err
		}
		switch g.PaletteMode = PaletteMode(mode); g.PaletteMode {
		case Frequency, MedianCut:
		default:
			return g, errors.Errorf("palette mode %q is not one of frequency or median-cut", mode)
		}
	}

	return g, nil
}

func parseUnit(f fields, dir string) (Unit, error) {
	var u Unit

	if err := f.missing(unitKeys); err != nil {
		return u, err
	}

	var err error
	if u.Name, err = f.stringValue("name"); err != nil {
		return u, err
	}
	if u.Name == "" {
		return u, errors.New("name is empty")
	}
	u.Image = filepath.Join(dir, u.Name+".png")

	if u.MetaWidth, err = f.intValue("metatile_width"); err != nil {
		return u, err
	}
	if u.MetaHeight, err = f.intValue("metatile_height"); err != nil {
		return u, err
	}
	if u.MetaWidth < 1 || u.MetaHeight < 1 {
		return u, errors.Errorf("metatile width and height must be at least 1: mw=%d, mh=%d", u.MetaWidth, u.MetaHeight)
	}

	if u.Palette, err = f.stringValue("palette"); err != nil {
		return u, err
	}
	if u.Palette != "" && !filepath.IsAbs(u.Palette) {
		u.Palette = filepath.Join(dir, u.Palette)
	}

	for _, s := range []struct {
		key string
		v   *bool
	}{
		{"palette_include", &u.IncludePalette},
		{"generate_palette", &u.GeneratePalette},
		{"compress", &u.Compress},
		{"dedupe", &u.Dedupe},
	} {
		if *s.v, err = f.boolValue(s.key); err != nil {
			return u, err
		}
	}

	return u, nil
}

type file struct {
	General fields   `toml:"general"`
	Units   []fields `toml:"unit"`
}

// Load parses the build file in dir. Invalid units are collected in
// Errors, an invalid [general] table returns a *GeneralError.
func Load(dir string) (*Config, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	c := &Config{
		Dir:  dir,
		File: filepath.Join(dir, Filename),
	}

	var f file
	if _, err := toml.DecodeFile(c.File, &f); err != nil {
		return nil, errors.Wrapf(err, "unable to parse %s", c.File)
	}

	if f.General == nil {
		return nil, &GeneralError{File: c.File, Units: len(f.Units), Err: errors.New("missing [general]")}
	}
	if c.General, err = parseGeneral(f.General, dir); err != nil {
		return nil, &GeneralError{File: c.File, Units: len(f.Units), Err: err}
	}

	for i, uf := range f.Units {
		u, err := parseUnit(uf, dir)
		if err != nil {
			name, _ := uf["name"].(string)
			c.Errors = append(c.Errors, &UnitError{Index: i, Name: name, Err: err})
			continue
		}
		c.Units = append(c.Units, u)
	}

	return c, nil
}

// Discover returns every build root under root. A directory containing a
// build file is not searched any further and hidden directories are
// skipped.
func Discover(root string) ([]string, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var dirs []string
	err = filepath.Walk(root, func(dir string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Ignore anything that isn't a directory
		if !info.Mode().IsDir() {
			return nil
		}

		// Ignore any hidden directories
		if dir != root && info.Name()[0] == '.' {
			return filepath.SkipDir
		}

		if _, err := os.Stat(filepath.Join(dir, Filename)); err == nil {
			dirs = append(dirs, dir)
			return filepath.SkipDir
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return dirs, nil
}
