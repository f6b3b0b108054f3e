// Package swift renders a validated symbol tree as Swift source.
package swift

import (
	"fmt"
	"sort"
	"strings"

	"resgen/internal/core/errors"
	"resgen/internal/engine/identifier"
	"resgen/internal/engine/symbols"
	"resgen/internal/engine/validate"

	"github.com/maruel/natural"
)

const (
	externalRoot = "R"
	internalRoot = "_R"
	indentUnit   = "  "
)

// Runtime types constructed with the hosting bundle.
var bundled = map[string]bool{
	"ImageResource":                    true,
	"ColorResource":                    true,
	"FileResource":                     true,
	"StringResource":                   true,
	"StringTable":                      true,
	"StoryboardResource":               true,
	"NibResource":                      true,
	"StoryboardViewControllerResource": true,
	"Validator":                        true,
}

type Options struct {
	// ProductModule is excluded from imports and names the Objective-C class.
	ProductModule    string
	BundleIdentifier string
	Imports          []string
	Access           symbols.AccessLevel
	ObjC             bool
	// ReportUnused appends the unused-image block, even when it is empty.
	ReportUnused bool
	UnusedImages []string
}

type Printer struct {
	tree       validate.Tree
	opts       Options
	validators []string
}

func NewPrinter(tree validate.Tree, opts Options) *Printer {
	if opts.Access == "" {
		opts.Access = symbols.AccessInternal
	}
	return &Printer{tree: tree, opts: opts}
}

// ObjCClassName is the compatibility class for a product module.
func ObjCClassName(productModule string) string {
	return productModule + "RObjc"
}

// Generate renders the whole file. The output depends only on the tree and
// the options.
func (p *Printer) Generate() (string, error) {
	if p.tree.External == nil || p.tree.Internal == nil {
		return "", errors.New(errors.CodeInternal, "cannot render an unvalidated tree")
	}
	p.validators = nil

	// _R is rendered first so R can forward to the collected validators.
	internal := p.internalStruct()
	sections := []string{
		header(),
		p.imports(),
		p.externalStruct(),
		internal,
	}
	if ext := p.stringExtension(); ext != "" {
		sections = append(sections, ext)
	}

	var b strings.Builder
	b.WriteString(strings.Join(sections, "\n\n"))
	b.WriteString("\n")
	if p.opts.ObjC {
		b.WriteString("\n")
		b.WriteString(p.objcClass())
	}
	if p.opts.ReportUnused {
		b.WriteString("\n")
		b.WriteString(UnusedBlock(p.opts.UnusedImages))
		b.WriteString("\n")
	}
	return b.String(), nil
}

// UnusedBlock renders the unused-image comment block. Names holding a '*'
// get their '*' and '/' escaped so they cannot open or close a comment.
func UnusedBlock(names []string) string {
	lines := make([]string, len(names))
	for i, name := range names {
		if strings.Contains(name, "*") {
			name = commentEscaper.Replace(name)
		}
		lines[i] = name
	}
	return "/* Potentially Unused Images\n" + strings.Join(lines, "\n") + "\n*/"
}

var commentEscaper = strings.NewReplacer("*", `\*`, "/", `\/`)

func header() string {
	return strings.Join([]string{
		"//",
		"// This is a generated file, do not edit!",
		"// Generated by resgen",
		"//",
	}, "\n")
}

// Imports lists the modules the rendered trees need, minus the product
// module, plus the configured imports.
func (p *Printer) Imports() []string {
	seen := map[string]bool{string(symbols.Foundation): true}
	for _, root := range []*symbols.Node{p.tree.External, p.tree.Internal} {
		for _, m := range root.UsedModules() {
			seen[string(m)] = true
		}
	}
	for _, m := range p.opts.Imports {
		if m = strings.TrimSpace(m); m != "" {
			seen[m] = true
		}
	}
	delete(seen, string(symbols.StdLib))
	if p.opts.ProductModule != "" {
		delete(seen, p.opts.ProductModule)
	}
	out := make([]string, 0, len(seen))
	for m := range seen {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

func (p *Printer) imports() string {
	mods := p.Imports()
	lines := make([]string, len(mods))
	for i, m := range mods {
		lines[i] = "import " + m
	}
	return strings.Join(lines, "\n")
}

func (p *Printer) externalStruct() string {
	access := accessPrefix(p.opts.Access)
	var b strings.Builder
	b.WriteString("/// This `R` struct is generated and contains references to static resources.\n")
	b.WriteString(access + "struct R {\n")
	b.WriteString(indentUnit + "fileprivate class Class {}\n")
	if p.opts.BundleIdentifier != "" {
		fmt.Fprintf(&b, "%sfileprivate static let hostingBundle = Foundation.Bundle(identifier: %s) ?? Foundation.Bundle(for: R.Class.self)\n",
			indentUnit, quote(p.opts.BundleIdentifier))
	} else {
		b.WriteString(indentUnit + "fileprivate static let hostingBundle = Foundation.Bundle(for: R.Class.self)\n")
	}
	if len(p.validators) > 0 {
		b.WriteString("\n")
		b.WriteString(indentUnit + access + "static func validate() throws {\n")
		b.WriteString(indentUnit + indentUnit + "try _R.validate()\n")
		b.WriteString(indentUnit + "}\n")
	}
	p.writeMembers(&b, p.tree.External, externalRoot, 1, p.opts.Access)
	b.WriteString(indentUnit + "fileprivate init() {}\n")
	b.WriteString("}")
	return b.String()
}

func (p *Printer) internalStruct() string {
	var body strings.Builder
	p.writeMembers(&body, p.tree.Internal, internalRoot, 1, symbols.AccessInternal)

	var b strings.Builder
	b.WriteString("struct _R {\n")
	if len(p.validators) > 0 {
		b.WriteString(indentUnit + "static func validate() throws {\n")
		for _, v := range p.validators {
			b.WriteString(indentUnit + indentUnit + "try " + v + "()\n")
		}
		b.WriteString(indentUnit + "}\n")
	}
	b.WriteString(body.String())
	b.WriteString(indentUnit + "fileprivate init() {}\n")
	b.WriteString("}")
	return b.String()
}

// writeMembers renders the children of node: constants, then functions,
// then nested structs, each in natural name order.
func (p *Printer) writeMembers(b *strings.Builder, node *symbols.Node, path string, depth int, access symbols.AccessLevel) {
	indent := strings.Repeat(indentUnit, depth)
	leaves := sorted(node.Leaves())
	groups := sorted(node.Groups())

	for _, leaf := range leaves {
		p.writeConstant(b, indent, leaf, access)
	}
	for _, leaf := range leaves {
		p.writeFunction(b, indent, leaf, path, access)
	}
	for _, g := range groups {
		b.WriteString("\n")
		docLines(b, indent, groupDoc(g))
		b.WriteString(indent + accessPrefix(access) + "struct " + string(g.Name) + " {\n")
		p.writeMembers(b, g, path+"."+string(g.Name), depth+1, access)
		b.WriteString(indent + indentUnit + "fileprivate init() {}\n")
		b.WriteString(indent + "}\n")
	}
}

func groupDoc(g *symbols.Node) []string {
	if g.Origin.Source == "" || g.Origin.RawName == "" {
		return nil
	}
	return []string{fmt.Sprintf("%s `%s`.", upperFirst(g.Origin.Kind), g.Origin.RawName)}
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (p *Printer) writeConstant(b *strings.Builder, indent string, n *symbols.Node, access symbols.AccessLevel) {
	leaf := n.Leaf
	prefix := indent + accessPrefix(access) + "static let " + string(n.Name)
	switch {
	case leaf.Accessor.Op == symbols.OpValidate:
		return
	case leaf.Accessor.Op == symbols.OpIdentity && leaf.Type.Module != symbols.Runtime:
		docLines(b, indent, leaf.Doc)
		v := ""
		if len(leaf.Args) > 0 {
			v = value(leaf.Args[0].Value)
		}
		b.WriteString(prefix + ": " + leaf.Type.Qualified() + " = " + v + "\n")
	case leaf.Type.Module == symbols.Runtime:
		docLines(b, indent, leaf.Doc)
		b.WriteString(prefix + " = " + constructor(leaf) + "\n")
	}
}

func constructor(leaf *symbols.Leaf) string {
	list := args(leaf.Args)
	if bundled[leaf.Type.Name] {
		if list != "" {
			list += ", "
		}
		list += "bundle: R.hostingBundle"
	}
	return leaf.Type.AsNonOptional().Qualified() + "(" + list + ")"
}

func hasConstant(leaf *symbols.Leaf) bool {
	return leaf.Accessor.Op != symbols.OpValidate && leaf.Type.Module == symbols.Runtime
}

func (p *Printer) writeFunction(b *strings.Builder, indent string, n *symbols.Node, parent string, access symbols.AccessLevel) {
	leaf := n.Leaf
	ref := parent + "." + string(n.Name)
	op := leaf.Accessor.Op
	if op == symbols.OpIdentity {
		return
	}

	inner := indent + indentUnit
	if op == symbols.OpValidate {
		p.validators = append(p.validators, ref)
		b.WriteString(indent + accessPrefix(access) + "static func " + string(n.Name) + "() throws {\n")
		b.WriteString(inner + "try " + constructor(leaf) + ".validate()\n")
		b.WriteString(indent + "}\n")
		return
	}

	returns := leaf.Accessor.Returns
	docLines(b, indent, leaf.Doc)
	fmt.Fprintf(b, "%s%sstatic func %s(%s) -> %s {\n", indent, accessPrefix(access), n.Name, params(leaf.Accessor.Params), returns.Qualified())
	b.WriteString(inner + "return " + body(leaf, ref, parent) + "\n")
	b.WriteString(indent + "}\n")
}

func body(leaf *symbols.Leaf, ref, parent string) string {
	call := callArgs(leaf.Accessor.Params)
	returns := leaf.Accessor.Returns.AsNonOptional().Qualified()
	switch leaf.Accessor.Op {
	case symbols.OpImage, symbols.OpColor, symbols.OpFont:
		return joinCall(returns+"(resource: "+ref, call)
	case symbols.OpURL:
		return ref + ".bundle.url(forResource: " + ref + ")"
	case symbols.OpSegue:
		return joinCall(returns+"(segueIdentifier: "+ref, call)
	case symbols.OpLookup:
		return ref + ".string(forKey: " + leaf.Accessor.Params[0].Name + ")"
	case symbols.OpLocalize:
		var values []string
		locale := "nil"
		for _, prm := range leaf.Accessor.Params {
			if prm.Type.AsNonOptional().Equal(symbols.Locale) {
				locale = prm.Name
				continue
			}
			values = append(values, prm.Name)
		}
		format := ref + ".format(locale: " + locale + ")"
		if len(values) == 0 {
			return format
		}
		return "Swift.String(format: " + format + ", locale: " + locale + ", " + strings.Join(values, ", ") + ")"
	case symbols.OpInstantiate:
		if hasConstant(leaf) {
			return ref + ".instantiate(" + call + ")"
		}
		index := "0"
		if v, ok := argValue(leaf.Args, "index"); ok {
			index = v.Text
		}
		return parent + ".instantiate.instantiate(" + call + ")[" + index + "] as? " + returns
	default:
		return ref
	}
}

func joinCall(open, rest string) string {
	if rest == "" {
		return open + ")"
	}
	return open + ", " + rest + ")"
}

func (p *Printer) stringExtension() string {
	if _, ok := p.tree.External.Child("string"); !ok {
		return ""
	}
	return strings.Join([]string{
		"extension R.string {",
		indentUnit + "static func string(for key: String) -> String {",
		indentUnit + indentUnit + `return Foundation.NSLocalizedString(key, tableName: "Localizable", bundle: R.hostingBundle, comment: "")`,
		indentUnit + "}",
		"}",
	}, "\n")
}

// ObjCImageMethods returns the compatibility method name for every image
// accessor, keyed by the Swift call it forwards to.
func (p *Printer) ObjCImageMethods() map[string]string {
	out := make(map[string]string)
	images, ok := p.tree.External.Child("image")
	if !ok {
		return out
	}
	var visit func(n *symbols.Node, path []identifier.Identifier)
	visit = func(n *symbols.Node, path []identifier.Identifier) {
		for _, c := range n.Children {
			sub := append(append([]identifier.Identifier(nil), path...), c.Name)
			if c.IsGroup() {
				visit(c, sub)
				continue
			}
			if c.Leaf.Accessor.Op == symbols.OpImage {
				out["R.image."+identifier.Join(sub, ".")+"()"] = "image_" + identifier.Join(sub, "_")
			}
		}
	}
	visit(images, nil)
	return out
}

func (p *Printer) objcClass() string {
	methods := p.ObjCImageMethods()
	calls := make([]string, 0, len(methods))
	for call := range methods {
		calls = append(calls, call)
	}
	sort.Slice(calls, func(i, j int) bool { return natural.Less(methods[calls[i]], methods[calls[j]]) })

	var b strings.Builder
	b.WriteString("//\n// Compatibility layer so resources can be used in ObjC\n//\n")
	b.WriteString("@objcMembers\n")
	b.WriteString("@available(swift, obsoleted: 1.0, message: \"Use R. instead\")\n")
	b.WriteString("public class " + ObjCClassName(p.opts.ProductModule) + ": Foundation.NSObject {\n")
	for _, call := range calls {
		b.WriteString(indentUnit + "public static func " + methods[call] + "() -> UIKit.UIImage? {\n")
		b.WriteString(indentUnit + indentUnit + "return " + call + "\n")
		b.WriteString(indentUnit + "}\n")
	}
	if _, ok := p.tree.External.Child("string"); ok {
		b.WriteString(indentUnit + "public static func string(for key: String) -> String {\n")
		b.WriteString(indentUnit + indentUnit + "return R.string.string(for: key)\n")
		b.WriteString(indentUnit + "}\n")
	}
	b.WriteString(indentUnit + "fileprivate override init() {}\n")
	b.WriteString("}\n")
	return b.String()
}

func sorted(nodes []*symbols.Node) []*symbols.Node {
	sort.SliceStable(nodes, func(i, j int) bool {
		return natural.Less(string(nodes[i].Name), string(nodes[j].Name))
	})
	return nodes
}
