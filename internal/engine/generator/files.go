package generator

import (
	"fmt"

	"resgen/internal/engine/identifier"
	"resgen/internal/engine/resource"
	"resgen/internal/engine/symbols"
)

// Font emits one accessor per font, taking the point size.
type Font struct{}

func (Font) Name() string { return "font" }

func (g Font) Generate(res *resource.Resources, access symbols.AccessLevel, prefix string) (*symbols.Node, error) {
	root, group := scaffold(prefix, "font", g.Name())
	seen := make(map[string]bool)
	for _, font := range res.Fonts {
		if seen[font.Name] {
			continue
		}
		seen[font.Name] = true
		origin := symbols.Provenance{Generator: g.Name(), Kind: "font", RawName: font.Name, Source: font.Path}
		group.Add(external(identifier.MemberName(font.Name), symbols.Leaf{
			Type: symbols.FontResource,
			Accessor: symbols.Accessor{
				Op:      symbols.OpFont,
				Params:  []symbols.Param{{Label: "size", Name: "size", Type: symbols.CGFloat}},
				Returns: symbols.UIFont.AsOptional(),
			},
			Args: []symbols.Arg{{Label: "fontName", Value: symbols.Str(font.Name)}},
			Doc:  []string{fmt.Sprintf("Font `%s`.", font.Name)},
		}, access, origin))
	}
	return root, nil
}

// File emits an identity accessor per generic resource file. Localized
// copies of one file share an accessor.
type File struct{}

func (File) Name() string { return "file" }

func (g File) Generate(res *resource.Resources, access symbols.AccessLevel, prefix string) (*symbols.Node, error) {
	root, group := scaffold(prefix, "file", g.Name())
	seen := make(map[string]bool)
	for _, f := range res.Files {
		if seen[f.Filename] {
			continue
		}
		seen[f.Filename] = true
		origin := symbols.Provenance{Generator: g.Name(), Kind: "file", RawName: f.Filename, Source: f.Path}
		group.Add(external(identifier.MemberName(f.Filename), symbols.Leaf{
			Type: symbols.FileResource,
			Accessor: symbols.Accessor{
				Op:      symbols.OpURL,
				Returns: symbols.URL.AsOptional(),
			},
			Args: []symbols.Arg{
				{Label: "name", Value: symbols.Str(f.Name)},
				{Label: "pathExtension", Value: symbols.Str(f.Ext)},
			},
			Doc: []string{fmt.Sprintf("Resource file `%s`.", f.Filename)},
		}, access, origin))
	}
	return root, nil
}
