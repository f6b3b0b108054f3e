// Package validate checks an aggregated symbol tree for naming collisions and
// splits it into its external and internal partitions.
package validate

import (
	"fmt"
	"sort"
	"strings"

	"resgen/internal/core/errors"
	"resgen/internal/engine/identifier"
	"resgen/internal/engine/symbols"

	"go.uber.org/multierr"
)

// Tree is the validated result. External holds every group and every
// external leaf; Internal holds only the groups that lead to internal leaves.
type Tree struct {
	External *symbols.Node
	Internal *symbols.Node
}

// Collision describes one identifier claimed by incompatible entries.
type Collision struct {
	Path    string
	Origins []symbols.Provenance
	Types   []string
}

func (c Collision) Error() string {
	parts := make([]string, len(c.Origins))
	for i, o := range c.Origins {
		parts[i] = fmt.Sprintf("%s as %s", o, c.Types[i])
	}
	return fmt.Sprintf("identifier %q is produced by %d entries: %s; rename one of the resources",
		c.Path, len(c.Origins), strings.Join(parts, ", "))
}

// Validate walks root depth-first and reports every collision. A collision
// is an identifier that more than one distinct (kind, type, provenance)
// entry claims within the same group. Groups of the same name are
// compatible with each other.
func Validate(root *symbols.Node) (Tree, error) {
	collisions := Collisions(root)
	if len(collisions) > 0 {
		var errs error
		for _, c := range collisions {
			de := errors.Wrap(c, errors.CodeNamingCollision, "naming collision")
			errs = multierr.Append(errs, errors.AddContext(de, errors.CtxIdentifier, c.Path))
		}
		return Tree{}, errs
	}

	external, internal := split(root)
	if internal == nil {
		internal = root.ShallowCopy()
	}
	return Tree{External: external, Internal: internal}, nil
}

// Collisions returns every collision in the tree in walk order.
func Collisions(root *symbols.Node) []Collision {
	var out []Collision
	collect(root, string(root.Name), &out)
	return out
}

func collect(group *symbols.Node, path string, out *[]Collision) {
	byName := make(map[identifier.Identifier][]*symbols.Node)
	var order []identifier.Identifier
	for _, c := range group.Children {
		if _, ok := byName[c.Name]; !ok {
			order = append(order, c.Name)
		}
		byName[c.Name] = append(byName[c.Name], c)
	}

	for _, name := range order {
		entries := byName[name]
		if len(entries) < 2 {
			continue
		}
		seen := make(map[string]bool)
		var distinct []*symbols.Node
		for _, e := range entries {
			sig := signature(e)
			if seen[sig] {
				continue
			}
			seen[sig] = true
			distinct = append(distinct, e)
		}
		if len(distinct) < 2 {
			continue
		}
		c := Collision{Path: path + "." + string(name)}
		for _, e := range distinct {
			c.Origins = append(c.Origins, e.Origin)
			c.Types = append(c.Types, describe(e))
		}
		*out = append(*out, c)
	}

	for _, c := range group.Children {
		if c.IsGroup() {
			collect(c, path+"."+string(c.Name), out)
		}
	}
}

func signature(n *symbols.Node) string {
	if n.IsGroup() {
		return "group"
	}
	return "leaf" + n.Leaf.Type.Key() + n.Origin.Key()
}

func describe(n *symbols.Node) string {
	if n.IsGroup() {
		return "group"
	}
	return n.Leaf.Type.String()
}

func split(group *symbols.Node) (*symbols.Node, *symbols.Node) {
	ext := group.ShallowCopy()
	var in *symbols.Node
	addInternal := func(n *symbols.Node) {
		if in == nil {
			in = group.ShallowCopy()
		}
		in.Add(n)
	}

	for _, c := range group.Children {
		if c.IsGroup() {
			e, i := split(c)
			ext.Add(e)
			if i != nil {
				addInternal(i)
			}
			continue
		}
		if c.Visibility == symbols.Internal {
			addInternal(c)
		} else {
			ext.Add(c)
		}
	}
	return ext, in
}

// Paths lists the dotted path of every leaf below root, sorted.
func Paths(root *symbols.Node) []string {
	var out []string
	if root == nil {
		return out
	}
	root.Walk(func(path string, n *symbols.Node) {
		if !n.IsGroup() {
			out = append(out, path)
		}
	})
	sort.Strings(out)
	return out
}
