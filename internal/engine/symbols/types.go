package symbols

import (
	"fmt"
	"strings"
)

// Module identifies where a type is declared. An empty module is the
// standard library of the target language.
type Module string

const (
	StdLib     Module = ""
	Foundation Module = "Foundation"
	UIKit      Module = "UIKit"
	Runtime    Module = "RswiftResources"
)

// Type is a (possibly generic, possibly optional) type reference.
type Type struct {
	Module      Module
	Name        string
	GenericArgs []Type
	Optional    bool
}

var (
	Void                     = Type{Name: "Void"}
	String                   = Type{Name: "String"}
	Int                      = Type{Name: "Int"}
	UInt                     = Type{Name: "UInt"}
	Double                   = Type{Name: "Double"}
	Character                = Type{Name: "Character"}
	CGFloat                  = Type{Name: "CGFloat"}
	CStringPointer           = Type{Name: "UnsafePointer<CChar>"}
	VoidPointer              = Type{Name: "UnsafeRawPointer"}
	AnyType                  = Type{Name: "Any"}
	Bundle                   = Type{Module: Foundation, Name: "Bundle"}
	Locale                   = Type{Module: Foundation, Name: "Locale"}
	URL                      = Type{Module: Foundation, Name: "URL"}
	UINib                    = Type{Module: UIKit, Name: "UINib"}
	UIView                   = Type{Module: UIKit, Name: "UIView"}
	UIImage                  = Type{Module: UIKit, Name: "UIImage"}
	UIColor                  = Type{Module: UIKit, Name: "UIColor"}
	UIFont                   = Type{Module: UIKit, Name: "UIFont"}
	UIStoryboard             = Type{Module: UIKit, Name: "UIStoryboard"}
	UIStoryboardSegue        = Type{Module: UIKit, Name: "UIStoryboardSegue"}
	UIViewController         = Type{Module: UIKit, Name: "UIViewController"}
	UITableViewCell          = Type{Module: UIKit, Name: "UITableViewCell"}
	UICollectionViewCell     = Type{Module: UIKit, Name: "UICollectionViewCell"}
	UICollectionReusableView = Type{Module: UIKit, Name: "UICollectionReusableView"}
	UITableViewHeaderFooter  = Type{Module: UIKit, Name: "UITableViewHeaderFooterView"}
	UITraitCollection        = Type{Module: UIKit, Name: "UITraitCollection"}

	ImageResource      = Type{Module: Runtime, Name: "ImageResource"}
	ColorResource      = Type{Module: Runtime, Name: "ColorResource"}
	FontResource       = Type{Module: Runtime, Name: "FontResource"}
	FileResource       = Type{Module: Runtime, Name: "FileResource"}
	StringResource     = Type{Module: Runtime, Name: "StringResource"}
	StringTable        = Type{Module: Runtime, Name: "StringTable"}
	StoryboardResource = Type{Module: Runtime, Name: "StoryboardResource"}
	NibResource        = Type{Module: Runtime, Name: "NibResource"}
	Validator          = Type{Module: Runtime, Name: "Validator"}
)

// ReuseIdentifier returns ReuseIdentifier<of>.
func ReuseIdentifier(of Type) Type {
	return Type{Module: Runtime, Name: "ReuseIdentifier", GenericArgs: []Type{of}}
}

// ViewControllerResource returns StoryboardViewControllerResource<of>.
func ViewControllerResource(of Type) Type {
	return Type{Module: Runtime, Name: "StoryboardViewControllerResource", GenericArgs: []Type{of}}
}

// SegueInfo returns TypedStoryboardSegueInfo<segue, source, destination>.
func SegueInfo(segue, source, destination Type) Type {
	return Type{Module: Runtime, Name: "TypedStoryboardSegueInfo", GenericArgs: []Type{segue, source, destination}}
}

func (t Type) AsOptional() Type {
	t.Optional = true
	return t
}

func (t Type) AsNonOptional() Type {
	t.Optional = false
	return t
}

// Equal compares two types field by field.
func (t Type) Equal(o Type) bool {
	if t.Module != o.Module || t.Name != o.Name || t.Optional != o.Optional {
		return false
	}
	if len(t.GenericArgs) != len(o.GenericArgs) {
		return false
	}
	for i := range t.GenericArgs {
		if !t.GenericArgs[i].Equal(o.GenericArgs[i]) {
			return false
		}
	}
	return true
}

// Key is an injective encoding of the type's fields, usable as a map key.
// Every field is length-prefixed so that two different types can never
// produce the same key.
func (t Type) Key() string {
	var b strings.Builder
	t.writeKey(&b)
	return b.String()
}

func (t Type) writeKey(b *strings.Builder) {
	fmt.Fprintf(b, "%d:%s%d:%s", len(t.Module), t.Module, len(t.Name), t.Name)
	if t.Optional {
		b.WriteByte('?')
	} else {
		b.WriteByte('!')
	}
	fmt.Fprintf(b, "%d[", len(t.GenericArgs))
	for _, arg := range t.GenericArgs {
		arg.writeKey(b)
	}
	b.WriteByte(']')
}

// Modules returns every module referenced by the type, including generics.
func (t Type) Modules() []Module {
	out := make([]Module, 0, 1+len(t.GenericArgs))
	if t.Module != StdLib {
		out = append(out, t.Module)
	}
	for _, arg := range t.GenericArgs {
		out = append(out, arg.Modules()...)
	}
	return out
}

// String renders the type the way it is written in source.
func (t Type) String() string {
	var b strings.Builder
	b.WriteString(t.Name)
	if len(t.GenericArgs) > 0 {
		args := make([]string, len(t.GenericArgs))
		for i, arg := range t.GenericArgs {
			args[i] = arg.String()
		}
		b.WriteString("<" + strings.Join(args, ", ") + ">")
	}
	if t.Optional {
		b.WriteByte('?')
	}
	return b.String()
}

// Qualified renders the type prefixed with its module.
func (t Type) Qualified() string {
	if t.Module == StdLib {
		return t.String()
	}
	return string(t.Module) + "." + t.String()
}
