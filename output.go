package pix2gba

import (
	"image/png"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/bodgit/pix2gba/asset"
	"github.com/bodgit/pix2gba/config"
	"github.com/bodgit/pix2gba/emit"
	"github.com/bodgit/pix2gba/render"
	"github.com/pkg/errors"
)

// Output describes which files are written for an asset.
type Output struct {
	Destination     string
	Type            config.OutputType
	IncludePalette  bool
	GeneratePalette bool
	PaletteName     string // name used in the header banner
}

// NewOutput returns the output settings for a unit in a build file.
func NewOutput(g config.General, u config.Unit) Output {
	o := Output{
		Destination:     g.Destination,
		Type:            g.OutputType,
		IncludePalette:  u.IncludePalette,
		GeneratePalette: u.GeneratePalette,
	}
	if u.Palette != "" {
		o.PaletteName = Base(u.Palette)
	}
	return o
}

func createFile(file string, write func(io.Writer) error) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}

	if err := write(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "unable to write %s", file)
	}

	return f.Close()
}

// Write writes a in every form o asks for and returns the files written.
func (b *Builder) Write(a *asset.Asset, o Output) ([]string, error) {
	opts := emit.Options{
		PaletteName:    o.PaletteName,
		IncludePalette: o.IncludePalette,
		Time:           b.now(),
	}

	files := config.OutputFiles(o.Destination, a.Name, o.Type, o.GeneratePalette)
	for _, file := range files {
		var write func(io.Writer) error
		switch filepath.Ext(file) {
		case ".h":
			write = func(w io.Writer) error {
				return emit.WriteHeader(w, a, opts)
			}
		case ".c":
			write = func(w io.Writer) error {
				return emit.WriteSource(w, a, opts)
			}
		case asset.Extension:
			write = func(w io.Writer) error {
				return emit.WriteBinary(w, a)
			}
		default:
			write = func(w io.Writer) error {
				return png.Encode(w, render.Swatch(a.Palette, a.Bpp))
			}
		}

		if err := createFile(file, write); err != nil {
			return nil, err
		}
		b.logger.Printf("%s: wrote %s\n", a.Name, file)
	}

	return files, nil
}

// Preview decodes the binary asset in file and writes it as a PNG image to
// w.
func Preview(file string, w io.Writer) error {
	b, err := ioutil.ReadFile(file)
	if err != nil {
		return err
	}

	a := new(asset.Asset)
	if err := a.UnmarshalBinary(b); err != nil {
		return errors.Wrapf(err, "unable to read %s", file)
	}

	m, err := render.Decode(a)
	if err != nil {
		return errors.Wrapf(err, "unable to render %s", file)
	}

	return png.Encode(w, m)
}

func removeFiles(files []string) (int, error) {
	n := 0
	for _, file := range files {
		switch err := os.Remove(file); {
		case err == nil:
			n++
		case os.IsNotExist(err):
		default:
			return n, err
		}
	}
	return n, nil
}
