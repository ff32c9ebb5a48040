package main

import (
	"context"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bodgit/pix2gba"
	"github.com/bodgit/pix2gba/config"
	"github.com/urfave/cli/v2"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newBuilder(c *cli.Context) (*pix2gba.Builder, error) {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}

	b, err := pix2gba.New(c.String("cache"), logger)
	if err != nil {
		return nil, err
	}
	b.SetJobs(c.Int("jobs"))

	return b, nil
}

func directory(c *cli.Context) string {
	if c.NArg() > 0 {
		return c.Args().First()
	}
	return "."
}

func batch(c *cli.Context, run func(*pix2gba.Builder, context.Context, string) (*pix2gba.Report, error)) error {
	b, err := newBuilder(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer b.Close()

	report, err := run(b, c.Context, directory(c))
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	fmt.Fprint(c.App.Writer, report)

	if err := report.Err(); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func convert(c *cli.Context) error {
	if c.String("i") == "" {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	transparent, err := config.ParseColor(c.String("transparent"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	outputType := config.OutputType(c.String("o"))
	switch outputType {
	case config.OutputBoth, config.OutputC, config.OutputH, config.OutputBin:
	default:
		return cli.NewExitError(fmt.Sprintf("output type %q is not one of both, c, h or bin", outputType), 1)
	}

	mode := config.PaletteMode(c.String("palette-mode"))
	switch mode {
	case config.Frequency, config.MedianCut:
	default:
		return cli.NewExitError(fmt.Sprintf("palette mode %q is not one of frequency or median-cut", mode), 1)
	}

	b, err := newBuilder(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer b.Close()

	s := pix2gba.Settings{
		Name:        pix2gba.Base(c.String("i")),
		Image:       c.String("i"),
		Palette:     c.String("p"),
		PaletteMode: mode,
		Bpp:         c.Int("bpp"),
		Transparent: transparent,
		MetaWidth:   c.Int("mw"),
		MetaHeight:  c.Int("mh"),
		Dedupe:      c.Bool("dedupe"),
		Compress:    c.Bool("compress"),
	}

	a, err := b.Convert(s)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	o := pix2gba.Output{
		Destination:     c.String("d"),
		Type:            outputType,
		IncludePalette:  c.Bool("ip"),
		GeneratePalette: c.Bool("gp"),
	}
	if s.Palette != "" {
		o.PaletteName = pix2gba.Base(s.Palette)
	}

	if _, err := b.Write(a, o); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func preview(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	in := c.Args().First()
	out := c.String("output")
	if out == "" {
		out = strings.TrimSuffix(in, filepath.Ext(in)) + ".png"
	}

	f, err := os.Create(out)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer f.Close()

	if err := pix2gba.Preview(in, f); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func main() {
	app := cli.NewApp()

	app.Name = "pix2gba"
	app.Usage = "Game Boy Advance tile conversion utility"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "cache",
			EnvVars: []string{"PIX2GBA_CACHE"},
			Usage:   "path to build cache database",
		},
		&cli.IntFlag{
			Name:    "jobs",
			Aliases: []string{"j"},
			Value:   runtime.NumCPU(),
			Usage:   "number of units to convert at once",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "build",
			Usage:       "Convert every unit in every build root",
			Description: "Searches DIRECTORY for " + config.Filename + " files and converts each unit they describe.",
			ArgsUsage:   "[DIRECTORY]",
			Action: func(c *cli.Context) error {
				return batch(c, (*pix2gba.Builder).Build)
			},
		},
		{
			Name:        "clean",
			Usage:       "Remove the output of every unit in every build root",
			Description: "",
			ArgsUsage:   "[DIRECTORY]",
			Action: func(c *cli.Context) error {
				return batch(c, (*pix2gba.Builder).Clean)
			},
		},
		{
			Name:        "template",
			Usage:       "Write a template build file",
			Description: "",
			ArgsUsage:   "[DIRECTORY]",
			Action: func(c *cli.Context) error {
				file, err := config.WriteTemplate(directory(c))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				fmt.Fprintln(c.App.Writer, file)
				return nil
			},
		},
		{
			Name:        "convert",
			Usage:       "Convert a single image",
			Description: "",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "i",
					Usage: "image to convert",
				},
				&cli.IntFlag{
					Name:  "mw",
					Value: 1,
					Usage: "metatile width in tiles",
				},
				&cli.IntFlag{
					Name:  "mh",
					Value: 1,
					Usage: "metatile height in tiles",
				},
				&cli.IntFlag{
					Name:  "bpp",
					Value: 4,
					Usage: "bits per pixel",
				},
				&cli.StringFlag{
					Name:  "o",
					Value: string(config.OutputBoth),
					Usage: "output type, one of both, c, h or bin",
				},
				&cli.StringFlag{
					Name:  "p",
					Usage: "palette image",
				},
				&cli.BoolFlag{
					Name:  "ip",
					Usage: "include the palette in the output",
				},
				&cli.BoolFlag{
					Name:  "gp",
					Usage: "write a palette preview image",
				},
				&cli.StringFlag{
					Name:  "d",
					Value: ".",
					Usage: "destination directory",
				},
				&cli.BoolFlag{
					Name:  "dedupe",
					Usage: "remove repeated tiles",
				},
				&cli.BoolFlag{
					Name:  "compress",
					Usage: "LZ77 compress the tiles",
				},
				&cli.StringFlag{
					Name:  "transparent",
					Usage: "transparent color as 15-bit hex (default 0x5D53)",
				},
				&cli.StringFlag{
					Name:  "palette-mode",
					Value: string(config.Frequency),
					Usage: "how to build a palette without a palette image, frequency or median-cut",
				},
			},
			Action: convert,
		},
		{
			Name:        "preview",
			Usage:       "Render a binary asset as a PNG image",
			Description: "",
			ArgsUsage:   "FILE",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "image to write, defaults to FILE with a .png extension",
				},
			},
			Action: preview,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
