package swift

import (
	"fmt"
	"strings"

	"resgen/internal/engine/symbols"
)

// quote renders s as a Swift string literal.
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case 0:
			b.WriteString(`\0`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u{%x}`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func value(v symbols.Value) string {
	switch v.Kind {
	case symbols.StringValue:
		return quote(v.Text)
	case symbols.StringListValue:
		items := make([]string, len(v.Strings))
		for i, s := range v.Strings {
			items[i] = quote(s)
		}
		return "[" + strings.Join(items, ", ") + "]"
	default:
		return v.Text
	}
}

func args(list []symbols.Arg) string {
	parts := make([]string, 0, len(list))
	for _, a := range list {
		parts = append(parts, a.Label+": "+value(a.Value))
	}
	return strings.Join(parts, ", ")
}

func argValue(list []symbols.Arg, label string) (symbols.Value, bool) {
	for _, a := range list {
		if a.Label == label {
			return a.Value, true
		}
	}
	return symbols.Value{}, false
}

// params renders a parameter clause. An empty clause becomes `_: Void = ()`
// so a function never shadows the constant of the same name.
func params(list []symbols.Param) string {
	if len(list) == 0 {
		return "_: Void = ()"
	}
	parts := make([]string, len(list))
	for i, p := range list {
		s := p.Name + ": " + p.Type.Qualified()
		if p.Label != "" && p.Label != p.Name {
			s = p.Label + " " + s
		}
		if p.Default != "" {
			s += " = " + p.Default
		}
		parts[i] = s
	}
	return strings.Join(parts, ", ")
}

// callArgs forwards every parameter under its external label.
func callArgs(list []symbols.Param) string {
	parts := make([]string, len(list))
	for i, p := range list {
		if p.Label == "_" {
			parts[i] = p.Name
			continue
		}
		label := p.Label
		if label == "" {
			label = p.Name
		}
		parts[i] = label + ": " + p.Name
	}
	return strings.Join(parts, ", ")
}

func accessPrefix(a symbols.AccessLevel) string {
	if a == symbols.AccessPublic {
		return "public "
	}
	return ""
}

func docLines(b *strings.Builder, indent string, doc []string) {
	for _, line := range doc {
		b.WriteString(indent + "/// " + line + "\n")
	}
}
