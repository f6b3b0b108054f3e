package resource

import (
	"os"
	"path/filepath"
	"sort"

	"resgen/internal/core/errors"

	"go.uber.org/multierr"
)

// Collector parses a flat list of resource locations into a catalogue.
type Collector struct {
	ignore func(path string) bool
}

// NewCollector returns a collector that skips every path ignore accepts.
// A nil ignore keeps every path.
func NewCollector(ignore func(path string) bool) *Collector {
	if ignore == nil {
		ignore = func(string) bool { return false }
	}
	return &Collector{ignore: ignore}
}

// Collect dispatches every path to its parser by extension. All parse
// failures are returned together; no partial catalogue is returned on error.
func (c *Collector) Collect(paths []string) (*Resources, error) {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)

	res := &Resources{}
	var errs error
	for _, path := range sorted {
		if c.ignore(path) {
			continue
		}
		if err := c.collectOne(res, path); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	if errs != nil {
		return nil, errs
	}
	return res, nil
}

func (c *Collector) collectOne(res *Resources, path string) error {
	ext := extOf(path)
	info, err := os.Stat(path)
	if err != nil {
		return errors.ParsingFailed(path, err)
	}
	if info.IsDir() {
		if !hasExt(ext, AssetFolderExtensions) {
			return nil
		}
		folder, err := ParseAssetFolder(path)
		if err != nil {
			return err
		}
		res.AssetFolders = append(res.AssetFolders, folder)
		return nil
	}

	switch {
	case hasExt(ext, ImageExtensions):
		img, err := ParseImage(path)
		if err != nil {
			return err
		}
		res.Images = append(res.Images, img)
	case hasExt(ext, FontExtensions):
		font, err := ParseFont(path)
		if err != nil {
			return err
		}
		res.Fonts = append(res.Fonts, font)
	case hasExt(ext, StringsExtensions):
		table, err := ParseStrings(path)
		if err != nil {
			return err
		}
		res.Strings = append(res.Strings, table)
	case hasExt(ext, StoryboardExtensions):
		sb, err := ParseStoryboard(path)
		if err != nil {
			return err
		}
		res.Storyboards = append(res.Storyboards, sb)
	case hasExt(ext, NibExtensions):
		nib, err := ParseNib(path)
		if err != nil {
			return err
		}
		res.Nibs = append(res.Nibs, nib)
	default:
		file, err := ParseFile(path)
		if err != nil {
			return err
		}
		res.Files = append(res.Files, file)
	}
	return nil
}

// ParseFile describes a generic resource. Extensions claimed by another
// parser are rejected so a file is never catalogued twice.
func ParseFile(path string) (File, error) {
	ext := extOf(path)
	for _, claimed := range [][]string{ImageExtensions, FontExtensions, StringsExtensions, StoryboardExtensions, NibExtensions, AssetFolderExtensions} {
		if hasExt(ext, claimed) {
			return File{}, errors.AddContext(
				errors.Newf(errors.CodeUnsupportedExtension, "file extension %q is handled by a dedicated parser", ext),
				errors.CtxPath, path)
		}
	}
	return File{
		Filename: filepath.Base(path),
		Name:     baseName(path),
		Ext:      ext,
		Path:     path,
		Locale:   localeOf(path),
	}, nil
}
