// Package aggregate merges generator subtrees into one symbol tree.
package aggregate

import (
	"resgen/internal/engine/generator"
	"resgen/internal/engine/resource"
	"resgen/internal/engine/symbols"

	"go.uber.org/multierr"
)

const rootName = "R"

// Aggregate unions the given roots. Same-named groups merge recursively.
// Leaves, and leaf/group pairs, that share a name are all kept in input
// order with their provenance so the validator can report them; only exact
// duplicates collapse. Inputs are not modified.
func Aggregate(nodes []*symbols.Node) *symbols.Node {
	var root *symbols.Node
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if root == nil {
			root = n.ShallowCopy()
		}
		merge(root, n)
	}
	if root == nil {
		root = symbols.NewGroup(rootName, symbols.Provenance{})
	}
	return root
}

// Run invokes every generator in order and aggregates the results. Errors
// from all generators are returned together.
func Run(gens []generator.StructGenerator, res *resource.Resources, access symbols.AccessLevel, prefix string) (*symbols.Node, error) {
	nodes := make([]*symbols.Node, 0, len(gens))
	var errs error
	for _, g := range gens {
		node, err := g.Generate(res, access, prefix)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		nodes = append(nodes, node)
	}
	if errs != nil {
		return nil, errs
	}
	return Aggregate(nodes), nil
}

func merge(into, from *symbols.Node) {
	for _, child := range from.Children {
		if child.IsGroup() {
			if target := groupNamed(into, child); target != nil {
				merge(target, child)
				continue
			}
			into.Add(clone(child))
			continue
		}
		if hasDuplicate(into, child) {
			continue
		}
		into.Add(clone(child))
	}
}

func groupNamed(parent, group *symbols.Node) *symbols.Node {
	for _, c := range parent.Children {
		if c.IsGroup() && c.Name == group.Name {
			return c
		}
	}
	return nil
}

func hasDuplicate(parent, leaf *symbols.Node) bool {
	for _, c := range parent.Children {
		if c.IsGroup() || c.Name != leaf.Name {
			continue
		}
		if c.Visibility == leaf.Visibility && c.Leaf.Equal(leaf.Leaf) && c.Origin.Key() == leaf.Origin.Key() {
			return true
		}
	}
	return false
}

func clone(n *symbols.Node) *symbols.Node {
	c := n.ShallowCopy()
	if n.Leaf != nil {
		leaf := *n.Leaf
		c.Leaf = &leaf
	}
	for _, child := range n.Children {
		c.Add(clone(child))
	}
	return c
}
