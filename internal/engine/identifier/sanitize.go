// Package identifier turns raw resource names into symbol-safe identifiers.
//
// Sanitize is total and deterministic: the same raw name always yields the
// same identifier, because generated output is compared byte-for-byte with the
// previous run. Collisions between different raw names are not resolved here.
package identifier

import (
	"strings"
	"unicode"

	"github.com/gosimple/unidecode"
)

type Identifier string

func (i Identifier) String() string {
	return string(i)
}

// Case selects the casing transform applied to the first rune.
type Case int

const (
	// Member is used for properties, functions and nested groups.
	Member Case = iota
	// Type is used for type-like names.
	Type
)

const (
	emptyName      = "unnamed"
	digitPrefix    = "_"
	reservedSuffix = "_"
)

// Sanitize converts raw into an identifier valid in every target syntax.
func Sanitize(raw string, c Case) Identifier {
	components := split(unidecode.Unidecode(raw))

	var b strings.Builder
	for i, comp := range components {
		if i == 0 {
			b.WriteString(comp)
			continue
		}
		b.WriteString(upperFirst(comp))
	}

	name := b.String()
	switch c {
	case Type:
		name = upperFirst(name)
	default:
		name = lowerFirst(name)
	}

	if strings.Trim(name, "_") == "" {
		name = emptyName
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = digitPrefix + name
	}
	if IsReserved(name) {
		name += reservedSuffix
	}
	return Identifier(name)
}

// MemberName is shorthand for Sanitize(raw, Member).
func MemberName(raw string) Identifier {
	return Sanitize(raw, Member)
}

// Path sanitizes every "/"-separated segment of a namespaced name.
func Path(raw string) []Identifier {
	segments := strings.Split(raw, "/")
	out := make([]Identifier, 0, len(segments))
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		out = append(out, Sanitize(seg, Member))
	}
	if len(out) == 0 {
		out = append(out, Sanitize("", Member))
	}
	return out
}

// Join renders a sanitized path with sep.
func Join(path []Identifier, sep string) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = string(p)
	}
	return strings.Join(parts, sep)
}

func split(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !isIdentRune(r)
	})
	return fields
}

func isIdentRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return string(unicode.ToUpper(rune(s[0]))) + s[1:]
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return string(unicode.ToLower(rune(s[0]))) + s[1:]
}
