// Package symbols defines the generated symbol tree: groups of named leaves,
// each leaf describing one typed resource accessor.
package symbols

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"resgen/internal/engine/identifier"
)

// Visibility routes a leaf into the external or internal partition.
type Visibility int

const (
	External Visibility = iota
	Internal
)

func (v Visibility) String() string {
	if v == Internal {
		return "internal"
	}
	return "external"
}

// AccessLevel is the declared access of generated external symbols.
type AccessLevel string

const (
	AccessPublic   AccessLevel = "public"
	AccessInternal AccessLevel = "internal"
)

// Provenance records which generator produced a node and from which resource.
type Provenance struct {
	Generator string
	Kind      string
	RawName   string
	Source    string
}

func (p Provenance) Key() string {
	return strconv.Quote(p.Generator) + strconv.Quote(p.Kind) + strconv.Quote(p.RawName) + strconv.Quote(p.Source)
}

func (p Provenance) String() string {
	s := fmt.Sprintf("%s %q", p.Kind, p.RawName)
	if p.Source != "" {
		s += " (" + p.Source + ")"
	}
	return s
}

// Param is one accessor argument.
type Param struct {
	Label string
	Name  string
	Type  Type
	// Default is a source-level default value; empty means required.
	Default string
}

// Operation describes what an accessor does at lookup time.
type Operation string

const (
	OpIdentity    Operation = "identity"
	OpImage       Operation = "image"
	OpColor       Operation = "color"
	OpFont        Operation = "font"
	OpURL         Operation = "url"
	OpLocalize    Operation = "localized"
	OpLookup      Operation = "lookup"
	OpInstantiate Operation = "instantiate"
	OpSegue       Operation = "segue"
	OpValidate    Operation = "validate"
)

// Accessor is the language-neutral description of a leaf's accessor.
type Accessor struct {
	Op      Operation
	Params  []Param
	Returns Type
}

// Arg is one constructor argument of the backing resource value.
type Arg struct {
	Label string
	Value Value
}

// ValueKind tells the renderer how to print a Value.
type ValueKind int

const (
	StringValue ValueKind = iota
	IntValue
	BoolValue
	RefValue
	StringListValue
)

// Value is a literal or a reference to another generated symbol.
type Value struct {
	Kind    ValueKind
	Text    string
	Strings []string
}

func Str(s string) Value       { return Value{Kind: StringValue, Text: s} }
func IntVal(i int) Value       { return Value{Kind: IntValue, Text: strconv.Itoa(i)} }
func Bool(b bool) Value        { return Value{Kind: BoolValue, Text: strconv.FormatBool(b)} }
func Ref(path string) Value    { return Value{Kind: RefValue, Text: path} }
func Strs(list []string) Value { return Value{Kind: StringListValue, Strings: append([]string(nil), list...)} }

// Equal compares two values.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind || v.Text != o.Text || len(v.Strings) != len(o.Strings) {
		return false
	}
	for i := range v.Strings {
		if v.Strings[i] != o.Strings[i] {
			return false
		}
	}
	return true
}

// Leaf is a concrete, typed resource accessor.
type Leaf struct {
	Type     Type
	Accessor Accessor
	Args     []Arg
	Doc      []string
}

// Node is either a group (Leaf == nil) or a leaf.
type Node struct {
	Name       identifier.Identifier
	Leaf       *Leaf
	Children   []*Node
	Visibility Visibility
	Access     AccessLevel
	Origin     Provenance
}

// NewGroup creates an empty group.
func NewGroup(name identifier.Identifier, origin Provenance) *Node {
	return &Node{Name: name, Origin: origin}
}

// NewLeaf creates a leaf node.
func NewLeaf(name identifier.Identifier, leaf Leaf, vis Visibility, origin Provenance) *Node {
	l := leaf
	return &Node{Name: name, Leaf: &l, Visibility: vis, Origin: origin}
}

func (n *Node) IsGroup() bool {
	return n != nil && n.Leaf == nil
}

// Add appends children in order.
func (n *Node) Add(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// Child returns the first child named name.
func (n *Node) Child(name identifier.Identifier) (*Node, bool) {
	for _, c := range n.Children {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Lookup follows a dotted path of child names.
func (n *Node) Lookup(path string) (*Node, bool) {
	cur := n
	for _, part := range strings.Split(path, ".") {
		next, ok := cur.Child(identifier.Identifier(part))
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Groups returns the child groups.
func (n *Node) Groups() []*Node {
	out := make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		if c.IsGroup() {
			out = append(out, c)
		}
	}
	return out
}

// Leaves returns the direct leaf children.
func (n *Node) Leaves() []*Node {
	out := make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		if !c.IsGroup() {
			out = append(out, c)
		}
	}
	return out
}

// Walk visits every node depth-first with its dotted path.
func (n *Node) Walk(fn func(path string, node *Node)) {
	n.walk("", fn)
}

func (n *Node) walk(prefix string, fn func(string, *Node)) {
	path := string(n.Name)
	if prefix != "" {
		path = prefix + "." + path
	}
	fn(path, n)
	for _, c := range n.Children {
		c.walk(path, fn)
	}
}

// LeafCount counts leaves in the subtree.
func (n *Node) LeafCount() int {
	if n == nil {
		return 0
	}
	if !n.IsGroup() {
		return 1
	}
	total := 0
	for _, c := range n.Children {
		total += c.LeafCount()
	}
	return total
}

// UsedModules collects the modules of every leaf type and accessor in the tree.
func (n *Node) UsedModules() []Module {
	seen := make(map[Module]bool)
	n.Walk(func(_ string, node *Node) {
		if node.Leaf == nil {
			return
		}
		types := []Type{node.Leaf.Type, node.Leaf.Accessor.Returns}
		for _, p := range node.Leaf.Accessor.Params {
			types = append(types, p.Type)
		}
		for _, t := range types {
			for _, m := range t.Modules() {
				seen[m] = true
			}
		}
	})
	out := make([]Module, 0, len(seen))
	for m := range seen {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ShallowCopy returns a copy of n without children.
func (n *Node) ShallowCopy() *Node {
	c := *n
	c.Children = nil
	return &c
}

// Equal reports whether two leaves describe the same accessor.
func (l *Leaf) Equal(o *Leaf) bool {
	if l == nil || o == nil {
		return l == o
	}
	if !l.Type.Equal(o.Type) || l.Accessor.Op != o.Accessor.Op || !l.Accessor.Returns.Equal(o.Accessor.Returns) {
		return false
	}
	if len(l.Accessor.Params) != len(o.Accessor.Params) || len(l.Args) != len(o.Args) {
		return false
	}
	for i, p := range l.Accessor.Params {
		q := o.Accessor.Params[i]
		if p.Label != q.Label || p.Name != q.Name || p.Default != q.Default || !p.Type.Equal(q.Type) {
			return false
		}
	}
	for i, a := range l.Args {
		if a.Label != o.Args[i].Label || !a.Value.Equal(o.Args[i].Value) {
			return false
		}
	}
	return true
}
