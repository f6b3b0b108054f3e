// Package generator turns resource descriptors into symbol subtrees, one
// generator per resource kind.
package generator

import (
	"sort"

	"resgen/internal/engine/identifier"
	"resgen/internal/engine/resource"
	"resgen/internal/engine/symbols"
)

// StructGenerator produces the symbol subtree for one resource kind. The
// returned node is a root group holding a single named subgroup.
// Implementations read only the descriptors of their own kind.
type StructGenerator interface {
	Name() string
	Generate(res *resource.Resources, access symbols.AccessLevel, prefix string) (*symbols.Node, error)
}

// ImageUser is implemented by generators whose resources reference images.
type ImageUser interface {
	UsedImageIdentifiers(res *resource.Resources) []string
}

type Options struct {
	// DevelopmentRegion decides argument types when locales disagree.
	DevelopmentRegion string
}

// Default returns every generator in its fixed run order.
func Default(opts Options) []StructGenerator {
	return []StructGenerator{
		Image{},
		Color{},
		Font{},
		Segue{},
		Storyboard{},
		Nib{},
		ReuseIdentifier{},
		File{},
		Strings{DevelopmentRegion: opts.DevelopmentRegion},
	}
}

// UsedImages unions the image references reported by every ImageUser.
func UsedImages(gens []StructGenerator, res *resource.Resources) []string {
	seen := make(map[string]bool)
	for _, g := range gens {
		user, ok := g.(ImageUser)
		if !ok {
			continue
		}
		for _, name := range user.UsedImageIdentifiers(res) {
			seen[name] = true
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// scaffold builds prefix -> group and returns both nodes.
func scaffold(prefix, group, generator string) (*symbols.Node, *symbols.Node) {
	origin := symbols.Provenance{Generator: generator, Kind: generator}
	root := symbols.NewGroup(identifier.Identifier(prefix), origin)
	sub := symbols.NewGroup(identifier.Identifier(group), origin)
	root.Add(sub)
	return root, sub
}

// ensurePath returns the nested group for path below parent, creating it.
func ensurePath(parent *symbols.Node, path []identifier.Identifier, origin symbols.Provenance) *symbols.Node {
	cur := parent
	for _, name := range path {
		var next *symbols.Node
		for _, c := range cur.Children {
			if c.Name == name && c.IsGroup() {
				next = c
				break
			}
		}
		if next == nil {
			next = symbols.NewGroup(name, origin)
			cur.Add(next)
		}
		cur = next
	}
	return cur
}

func external(name identifier.Identifier, leaf symbols.Leaf, access symbols.AccessLevel, origin symbols.Provenance) *symbols.Node {
	n := symbols.NewLeaf(name, leaf, symbols.External, origin)
	n.Access = access
	return n
}

func internal(name identifier.Identifier, leaf symbols.Leaf, origin symbols.Provenance) *symbols.Node {
	n := symbols.NewLeaf(name, leaf, symbols.Internal, origin)
	n.Access = symbols.AccessInternal
	return n
}

func ref(prefix string, path ...identifier.Identifier) string {
	return prefix + "." + identifier.Join(path, ".")
}
