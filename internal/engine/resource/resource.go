// Package resource parses project resource files into immutable descriptors.
package resource

import (
	"fmt"
	"path/filepath"
	"strings"

	"resgen/internal/engine/symbols"
)

type Kind int

const (
	KindImage Kind = iota
	KindFont
	KindFile
	KindStrings
	KindStoryboard
	KindSegue
	KindNib
	KindAssetFolder
	KindColor
)

var kindNames = map[Kind]string{
	KindImage:       "image",
	KindFont:        "font",
	KindFile:        "file",
	KindStrings:     "strings",
	KindStoryboard:  "storyboard",
	KindSegue:       "segue",
	KindNib:         "nib",
	KindAssetFolder: "assetFolder",
	KindColor:       "color",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Image is a loose bitmap or vector file. Scale and device variants of the
// same name are separate descriptors; generators collapse them.
type Image struct {
	Name   string
	Path   string
	Ext    string
	Scale  int
	Device string
	Locale string
}

// AssetFolder is an asset catalog. Names are namespaced with "/" when a
// folder provides a namespace.
type AssetFolder struct {
	Name   string
	Path   string
	Images []string
	Colors []string
}

type Font struct {
	Name string // PostScript name
	Path string
}

// File is any resource not claimed by a more specific parser.
type File struct {
	Filename string
	Name     string
	Ext      string
	Path     string
	Locale   string
}

// StringEntry is one key of a localized table.
type StringEntry struct {
	Key          string
	Value        string
	Placeholders []Placeholder
}

// LocalizableStrings is one table in one locale.
type LocalizableStrings struct {
	Table   string
	Locale  string
	Path    string
	Entries []StringEntry
}

// Reusable identifies a reusable cell or view by identifier and type.
type Reusable struct {
	Identifier string
	Type       symbols.Type
}

// Key encodes both fields structurally for use in maps.
func (r Reusable) Key() string {
	return fmt.Sprintf("%d:%s%s", len(r.Identifier), r.Identifier, r.Type.Key())
}

type Segue struct {
	Identifier  string
	Kind        string
	Type        symbols.Type
	Destination symbols.Type
}

type ViewController struct {
	ID                   string
	StoryboardIdentifier string
	Type                 symbols.Type
	Segues               []Segue
}

type Storyboard struct {
	Name                  string
	Path                  string
	InitialViewController string
	ViewControllers       []ViewController
	Reusables             []Reusable
	UsedImages            []string
}

// Initial returns the initial view controller, if the storyboard names one.
func (s Storyboard) Initial() (ViewController, bool) {
	if s.InitialViewController == "" {
		return ViewController{}, false
	}
	for _, vc := range s.ViewControllers {
		if vc.ID == s.InitialViewController {
			return vc, true
		}
	}
	return ViewController{}, false
}

type Nib struct {
	Name       string
	Path       string
	RootViews  []symbols.Type
	Reusables  []Reusable
	UsedImages []string
}

// Resources is the full catalogue of one run.
type Resources struct {
	Images       []Image
	AssetFolders []AssetFolder
	Fonts        []Font
	Files        []File
	Strings      []LocalizableStrings
	Storyboards  []Storyboard
	Nibs         []Nib
}

// Counts returns the number of descriptors per kind.
func (r *Resources) Counts() map[Kind]int {
	counts := map[Kind]int{
		KindImage:       len(r.Images),
		KindAssetFolder: len(r.AssetFolders),
		KindFont:        len(r.Fonts),
		KindFile:        len(r.Files),
		KindStrings:     len(r.Strings),
		KindStoryboard:  len(r.Storyboards),
		KindNib:         len(r.Nibs),
	}
	for _, folder := range r.AssetFolders {
		counts[KindColor] += len(folder.Colors)
	}
	for _, sb := range r.Storyboards {
		for _, vc := range sb.ViewControllers {
			counts[KindSegue] += len(vc.Segues)
		}
	}
	return counts
}

// DeclaredImageNames lists every image name, loose or catalogued.
func (r *Resources) DeclaredImageNames() []string {
	seen := make(map[string]bool)
	var names []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for _, img := range r.Images {
		add(img.Name)
	}
	for _, folder := range r.AssetFolders {
		for _, name := range folder.Images {
			add(name)
		}
	}
	return names
}

func extOf(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

func hasExt(ext string, supported []string) bool {
	for _, s := range supported {
		if s == ext {
			return true
		}
	}
	return false
}

// localeOf returns the locale of a path inside a "<locale>.lproj" folder.
func localeOf(path string) string {
	dir := filepath.Base(filepath.Dir(path))
	if !strings.HasSuffix(dir, ".lproj") {
		return ""
	}
	return canonicalLocale(strings.TrimSuffix(dir, ".lproj"))
}
