package config

import (
	"io/ioutil"
	"path/filepath"
)

// Template is a build file with every key set, for copying into a build
// root and renaming to Filename.
const Template = `# Template pix2gba TOML (move into a directory and rename to pix2gba.toml)
[general]
bpp = 4
transparent = "0x5D53"
output_type = "both"
destination = "./destination"
# palette_mode = "median-cut"

[[unit]]
name = "unit name"
metatile_width = 1
metatile_height = 1
palette = "./palette.png"
palette_include = 1
generate_palette = 1
compress = 1
dedupe = 0
`

// WriteTemplate writes Template into dir and returns the path written.
func WriteTemplate(dir string) (string, error) {
	file := filepath.Join(dir, TemplateFilename)
	if err := ioutil.WriteFile(file, []byte(Template), 0644); err != nil {
		return "", err
	}
	return file, nil
}
