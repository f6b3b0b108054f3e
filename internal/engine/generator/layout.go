package generator

import (
	"fmt"
	"sort"

	"resgen/internal/engine/identifier"
	"resgen/internal/engine/resource"
	"resgen/internal/engine/symbols"
)

// Segue groups typed segue descriptors by their source view controller.
type Segue struct{}

func (Segue) Name() string { return "segue" }

func (g Segue) Generate(res *resource.Resources, access symbols.AccessLevel, prefix string) (*symbols.Node, error) {
	root, group := scaffold(prefix, "segue", g.Name())
	seen := make(map[string]bool)
	for _, sb := range res.Storyboards {
		for _, vc := range sb.ViewControllers {
			for _, s := range vc.Segues {
				info := symbols.SegueInfo(s.Type, vc.Type, s.Destination)
				key := fmt.Sprintf("%d:%s%s", len(s.Identifier), s.Identifier, info.Key())
				if seen[key] {
					continue
				}
				seen[key] = true

				origin := symbols.Provenance{Generator: g.Name(), Kind: "segue", RawName: s.Identifier, Source: sb.Path}
				parent := ensurePath(group, []identifier.Identifier{identifier.MemberName(vc.Type.Name)}, origin)
				parent.Add(external(identifier.MemberName(s.Identifier), symbols.Leaf{
					Type: info,
					Accessor: symbols.Accessor{
						Op:      symbols.OpSegue,
						Params:  []symbols.Param{{Label: "segue", Name: "segue", Type: symbols.UIStoryboardSegue}},
						Returns: info.AsOptional(),
					},
					Args: []symbols.Arg{{Label: "identifier", Value: symbols.Str(s.Identifier)}},
					Doc:  []string{fmt.Sprintf("Segue `%s` from %s to %s.", s.Identifier, vc.Type.Name, s.Destination.Name)},
				}, access, origin))
			}
		}
	}
	return root, nil
}

// Storyboard emits, per storyboard, the file itself, its initial and
// identified view controllers, and an internal validation leaf.
type Storyboard struct{}

func (Storyboard) Name() string { return "storyboard" }

func (g Storyboard) Generate(res *resource.Resources, access symbols.AccessLevel, prefix string) (*symbols.Node, error) {
	root, group := scaffold(prefix, "storyboard", g.Name())
	for _, sb := range res.Storyboards {
		origin := symbols.Provenance{Generator: g.Name(), Kind: "storyboard", RawName: sb.Name, Source: sb.Path}
		name := identifier.MemberName(sb.Name)
		node := symbols.NewGroup(name, origin)
		node.Access = access
		group.Add(node)

		nameArg := symbols.Arg{Label: "name", Value: symbols.Str(sb.Name)}
		node.Add(external("storyboardName", symbols.Leaf{
			Type:     symbols.String,
			Accessor: symbols.Accessor{Op: symbols.OpIdentity, Returns: symbols.String},
			Args:     []symbols.Arg{{Label: "value", Value: symbols.Str(sb.Name)}},
		}, access, origin))
		node.Add(external("instantiate", symbols.Leaf{
			Type:     symbols.StoryboardResource,
			Accessor: symbols.Accessor{Op: symbols.OpInstantiate, Returns: symbols.UIStoryboard},
			Args:     []symbols.Arg{nameArg},
			Doc:      []string{fmt.Sprintf("Storyboard `%s`.", sb.Name)},
		}, access, origin))

		if initial, ok := sb.Initial(); ok {
			node.Add(external("initialViewController", symbols.Leaf{
				Type:     symbols.ViewControllerResource(initial.Type),
				Accessor: symbols.Accessor{Op: symbols.OpInstantiate, Returns: initial.Type.AsOptional()},
				Args:     []symbols.Arg{nameArg},
			}, access, origin))
		}

		var identifiers []string
		for _, vc := range sb.ViewControllers {
			if vc.StoryboardIdentifier == "" {
				continue
			}
			identifiers = append(identifiers, vc.StoryboardIdentifier)
			vcOrigin := origin
			vcOrigin.Kind = "viewController"
			vcOrigin.RawName = vc.StoryboardIdentifier
			node.Add(external(identifier.MemberName(vc.StoryboardIdentifier), symbols.Leaf{
				Type:     symbols.ViewControllerResource(vc.Type),
				Accessor: symbols.Accessor{Op: symbols.OpInstantiate, Returns: vc.Type.AsOptional()},
				Args: []symbols.Arg{
					nameArg,
					{Label: "identifier", Value: symbols.Str(vc.StoryboardIdentifier)},
				},
			}, access, vcOrigin))
		}

		node.Add(internal("validate", symbols.Leaf{
			Type:     symbols.Validator,
			Accessor: symbols.Accessor{Op: symbols.OpValidate, Returns: symbols.Void},
			Args: []symbols.Arg{
				nameArg,
				{Label: "images", Value: symbols.Strs(sb.UsedImages)},
				{Label: "viewControllers", Value: symbols.Strs(identifiers)},
			},
		}, origin))
	}
	return root, nil
}

func (Storyboard) UsedImageIdentifiers(res *resource.Resources) []string {
	var out []string
	for _, sb := range res.Storyboards {
		out = append(out, sb.UsedImages...)
	}
	return out
}

// Nib emits, per nib, the file itself, its first root view, its reuse
// identifier when it declares exactly one, and an internal validation leaf.
type Nib struct{}

func (Nib) Name() string { return "nib" }

func (g Nib) Generate(res *resource.Resources, access symbols.AccessLevel, prefix string) (*symbols.Node, error) {
	root, group := scaffold(prefix, "nib", g.Name())
	for _, nib := range res.Nibs {
		origin := symbols.Provenance{Generator: g.Name(), Kind: "nib", RawName: nib.Name, Source: nib.Path}
		node := symbols.NewGroup(identifier.MemberName(nib.Name), origin)
		node.Access = access
		group.Add(node)

		nameArg := symbols.Arg{Label: "name", Value: symbols.Str(nib.Name)}
		node.Add(external("instantiate", symbols.Leaf{
			Type: symbols.NibResource,
			Accessor: symbols.Accessor{
				Op: symbols.OpInstantiate,
				Params: []symbols.Param{
					{Label: "withOwner", Name: "ownerOrNil", Type: symbols.AnyType.AsOptional()},
				},
				Returns: symbols.Type{Name: "[Any]"},
			},
			Args: []symbols.Arg{nameArg},
			Doc:  []string{fmt.Sprintf("Nib `%s`.", nib.Name)},
		}, access, origin))

		if len(nib.RootViews) > 0 {
			first := nib.RootViews[0]
			node.Add(external("firstView", symbols.Leaf{
				Type: first,
				Accessor: symbols.Accessor{
					Op: symbols.OpInstantiate,
					Params: []symbols.Param{
						{Label: "withOwner", Name: "ownerOrNil", Type: symbols.AnyType.AsOptional()},
					},
					Returns: first.AsOptional(),
				},
				Args: []symbols.Arg{nameArg, {Label: "index", Value: symbols.IntVal(0)}},
			}, access, origin))
		}

		if len(nib.Reusables) == 1 {
			r := nib.Reusables[0]
			node.Add(external("reuseIdentifier", symbols.Leaf{
				Type:     symbols.ReuseIdentifier(r.Type),
				Accessor: symbols.Accessor{Op: symbols.OpIdentity, Returns: symbols.ReuseIdentifier(r.Type)},
				Args:     []symbols.Arg{{Label: "identifier", Value: symbols.Str(r.Identifier)}},
			}, access, origin))
		}

		node.Add(internal("validate", symbols.Leaf{
			Type:     symbols.Validator,
			Accessor: symbols.Accessor{Op: symbols.OpValidate, Returns: symbols.Void},
			Args: []symbols.Arg{
				nameArg,
				{Label: "images", Value: symbols.Strs(nib.UsedImages)},
			},
		}, origin))
	}
	return root, nil
}

func (Nib) UsedImageIdentifiers(res *resource.Resources) []string {
	var out []string
	for _, nib := range res.Nibs {
		out = append(out, nib.UsedImages...)
	}
	return out
}

// ReuseIdentifier emits one identity accessor per distinct reusable view.
type ReuseIdentifier struct{}

func (ReuseIdentifier) Name() string { return "reuseIdentifier" }

func (g ReuseIdentifier) Generate(res *resource.Resources, access symbols.AccessLevel, prefix string) (*symbols.Node, error) {
	root, group := scaffold(prefix, "reuseIdentifier", g.Name())

	type sourced struct {
		resource.Reusable
		source string
	}
	var all []sourced
	for _, sb := range res.Storyboards {
		for _, r := range sb.Reusables {
			all = append(all, sourced{r, sb.Path})
		}
	}
	for _, nib := range res.Nibs {
		for _, r := range nib.Reusables {
			all = append(all, sourced{r, nib.Path})
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Identifier < all[j].Identifier })

	seen := make(map[string]bool)
	for _, r := range all {
		if seen[r.Key()] {
			continue
		}
		seen[r.Key()] = true
		origin := symbols.Provenance{Generator: g.Name(), Kind: "reuseIdentifier", RawName: r.Identifier, Source: r.source}
		t := symbols.ReuseIdentifier(r.Type)
		group.Add(external(identifier.MemberName(r.Identifier), symbols.Leaf{
			Type:     t,
			Accessor: symbols.Accessor{Op: symbols.OpIdentity, Returns: t},
			Args:     []symbols.Arg{{Label: "identifier", Value: symbols.Str(r.Identifier)}},
			Doc:      []string{fmt.Sprintf("Reuse identifier `%s`.", r.Identifier)},
		}, access, origin))
	}
	return root, nil
}
