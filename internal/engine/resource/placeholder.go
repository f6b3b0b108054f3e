package resource

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
)

// MaxPlaceholderPosition bounds explicit argument positions ("%64$@").
const MaxPlaceholderPosition = 64

// ArgKind is the value category of a printf-style format argument.
type ArgKind int

const (
	ArgObject ArgKind = iota
	ArgInt
	ArgUInt
	ArgDouble
	ArgChar
	ArgCString
	ArgPointer
)

func (k ArgKind) String() string {
	switch k {
	case ArgInt:
		return "int"
	case ArgUInt:
		return "uint"
	case ArgDouble:
		return "double"
	case ArgChar:
		return "char"
	case ArgCString:
		return "cstring"
	case ArgPointer:
		return "pointer"
	default:
		return "object"
	}
}

// Placeholder is one format argument; Position is 1-based.
type Placeholder struct {
	Position int
	Kind     ArgKind
}

var formatSpecifier = regexp.MustCompile(`%(?:(\d+)\$)?[-+ #0']*(?:\d+|\*)?(?:\.(?:\d+|\*))?(?:hh|h|ll|l|q|L|z|t|j)?([@dDiuUxXoOfFeEgGaAcCsSp%])`)

var specifierKinds = map[byte]ArgKind{
	'@': ArgObject,
	'd': ArgInt, 'D': ArgInt, 'i': ArgInt,
	'u': ArgUInt, 'U': ArgUInt, 'x': ArgUInt, 'X': ArgUInt, 'o': ArgUInt, 'O': ArgUInt,
	'f': ArgDouble, 'F': ArgDouble, 'e': ArgDouble, 'E': ArgDouble,
	'g': ArgDouble, 'G': ArgDouble, 'a': ArgDouble, 'A': ArgDouble,
	'c': ArgChar, 'C': ArgChar,
	's': ArgCString, 'S': ArgCString,
	'p': ArgPointer,
}

// ParsePlaceholders extracts the format arguments of value ordered by
// position. Explicit positions ("%2$@") and sequential ones may be mixed;
// the first specifier seen for a position decides its kind. Positions
// outside 1..MaxPlaceholderPosition are rejected.
func ParsePlaceholders(value string) ([]Placeholder, error) {
	byPos := make(map[int]ArgKind)
	next := 1
	for _, m := range formatSpecifier.FindAllStringSubmatch(value, -1) {
		conv := m[2][0]
		if conv == '%' {
			continue
		}
		pos := next
		if m[1] != "" {
			p, err := strconv.Atoi(m[1])
			if err != nil || p < 1 || p > MaxPlaceholderPosition {
				return nil, fmt.Errorf("format argument position %s in %q is outside 1..%d", m[1], value, MaxPlaceholderPosition)
			}
			pos = p
		} else {
			next++
		}
		if _, ok := byPos[pos]; !ok {
			byPos[pos] = specifierKinds[conv]
		}
	}

	out := make([]Placeholder, 0, len(byPos))
	for pos, kind := range byPos {
		out = append(out, Placeholder{Position: pos, Kind: kind})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

// Arity is the number of arguments a format string consumes.
func Arity(placeholders []Placeholder) int {
	max := 0
	for _, p := range placeholders {
		if p.Position > max {
			max = p.Position
		}
	}
	return max
}
