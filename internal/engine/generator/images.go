package generator

import (
	"fmt"
	"sort"
	"strings"

	"resgen/internal/engine/identifier"
	"resgen/internal/engine/resource"
	"resgen/internal/engine/symbols"
)

// Image emits one accessor per image name. Scale and device variants of a
// name collapse into that accessor and are resolved at lookup time.
type Image struct{}

func (Image) Name() string { return "image" }

type imageEntry struct {
	raw     string
	source  string
	scales  map[int]bool
	devices map[string]bool
}

func (g Image) Generate(res *resource.Resources, access symbols.AccessLevel, prefix string) (*symbols.Node, error) {
	root, group := scaffold(prefix, "image", g.Name())

	entries := make(map[string]*imageEntry)
	var order []string
	get := func(raw, source string) *imageEntry {
		if e, ok := entries[raw]; ok {
			return e
		}
		e := &imageEntry{raw: raw, source: source, scales: map[int]bool{}, devices: map[string]bool{}}
		entries[raw] = e
		order = append(order, raw)
		return e
	}
	for _, img := range res.Images {
		e := get(img.Name, img.Path)
		e.scales[img.Scale] = true
		if img.Device != "" {
			e.devices[img.Device] = true
		}
	}
	for _, folder := range res.AssetFolders {
		for _, name := range folder.Images {
			get(name, folder.Path)
		}
	}

	for _, raw := range order {
		e := entries[raw]
		path := identifier.Path(raw)
		origin := symbols.Provenance{Generator: g.Name(), Kind: "image", RawName: raw, Source: e.source}
		parent := ensurePath(group, path[:len(path)-1], origin)
		parent.Add(external(path[len(path)-1], symbols.Leaf{
			Type: symbols.ImageResource,
			Accessor: symbols.Accessor{
				Op: symbols.OpImage,
				Params: []symbols.Param{
					{Label: "compatibleWith", Name: "traitCollection", Type: symbols.UITraitCollection.AsOptional(), Default: "nil"},
				},
				Returns: symbols.UIImage.AsOptional(),
			},
			Args: []symbols.Arg{{Label: "name", Value: symbols.Str(raw)}},
			Doc:  []string{e.describe()},
		}, access, origin))
	}
	return root, nil
}

func (e *imageEntry) describe() string {
	if len(e.scales) == 0 {
		return fmt.Sprintf("Image `%s` from an asset catalog.", e.raw)
	}
	scales := make([]int, 0, len(e.scales))
	for s := range e.scales {
		scales = append(scales, s)
	}
	sort.Ints(scales)
	parts := make([]string, len(scales))
	for i, s := range scales {
		parts[i] = fmt.Sprintf("%dx", s)
	}
	doc := fmt.Sprintf("Image `%s` (%s).", e.raw, strings.Join(parts, ", "))
	if len(e.devices) > 0 {
		devices := make([]string, 0, len(e.devices))
		for d := range e.devices {
			devices = append(devices, d)
		}
		sort.Strings(devices)
		doc = strings.TrimSuffix(doc, ".") + ", devices " + strings.Join(devices, ", ") + "."
	}
	return doc
}

// Color emits one accessor per asset catalog color set.
type Color struct{}

func (Color) Name() string { return "color" }

func (g Color) Generate(res *resource.Resources, access symbols.AccessLevel, prefix string) (*symbols.Node, error) {
	root, group := scaffold(prefix, "color", g.Name())
	seen := make(map[string]bool)
	for _, folder := range res.AssetFolders {
		for _, raw := range folder.Colors {
			if seen[raw] {
				continue
			}
			seen[raw] = true
			path := identifier.Path(raw)
			origin := symbols.Provenance{Generator: g.Name(), Kind: "color", RawName: raw, Source: folder.Path}
			parent := ensurePath(group, path[:len(path)-1], origin)
			parent.Add(external(path[len(path)-1], symbols.Leaf{
				Type: symbols.ColorResource,
				Accessor: symbols.Accessor{
					Op: symbols.OpColor,
					Params: []symbols.Param{
						{Label: "compatibleWith", Name: "traitCollection", Type: symbols.UITraitCollection.AsOptional(), Default: "nil"},
					},
					Returns: symbols.UIColor.AsOptional(),
				},
				Args: []symbols.Arg{{Label: "name", Value: symbols.Str(raw)}},
				Doc:  []string{fmt.Sprintf("Color `%s`.", raw)},
			}, access, origin))
		}
	}
	return root, nil
}
