package resource

import (
	"fmt"
	"os"

	"resgen/internal/core/errors"

	"golang.org/x/image/font/sfnt"
)

var FontExtensions = []string{"ttf", "otf", "ttc"}

// ParseFont reads the PostScript name from a font file. For collections
// the first font is used.
func ParseFont(path string) (Font, error) {
	ext := extOf(path)
	if !hasExt(ext, FontExtensions) {
		return Font{}, errors.UnsupportedExtension(path, ext, FontExtensions)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Font{}, errors.ParsingFailed(path, err)
	}

	var f *sfnt.Font
	if ext == "ttc" {
		c, err := sfnt.ParseCollection(data)
		if err != nil {
			return Font{}, errors.ParsingFailed(path, err)
		}
		if c.NumFonts() == 0 {
			return Font{}, errors.ParsingFailed(path, fmt.Errorf("font collection is empty"))
		}
		f, err = c.Font(0)
		if err != nil {
			return Font{}, errors.ParsingFailed(path, err)
		}
	} else {
		f, err = sfnt.Parse(data)
		if err != nil {
			return Font{}, errors.ParsingFailed(path, err)
		}
	}

	name, err := f.Name(nil, sfnt.NameIDPostScript)
	if err != nil {
		return Font{}, errors.ParsingFailed(path, fmt.Errorf("read PostScript name: %w", err))
	}
	if name == "" {
		return Font{}, errors.ParsingFailed(path, fmt.Errorf("font has no PostScript name"))
	}
	return Font{Name: name, Path: path}, nil
}
