package generator

import (
	"fmt"
	"sort"
	"strings"

	"resgen/internal/core/errors"
	"resgen/internal/engine/identifier"
	"resgen/internal/engine/resource"
	"resgen/internal/engine/symbols"

	"go.uber.org/multierr"
)

// Strings emits one group per table and one localized accessor per key,
// plus an internal raw lookup leaf per table.
type Strings struct {
	DevelopmentRegion string
}

func (Strings) Name() string { return "string" }

type localizedValue struct {
	locale string
	path   string
	entry  resource.StringEntry
}

type stringKey struct {
	key    string
	values []localizedValue
}

type stringTable struct {
	name    string
	keys    []*stringKey
	byKey   map[string]*stringKey
	locales map[string]bool
}

func (g Strings) Generate(res *resource.Resources, access symbols.AccessLevel, prefix string) (*symbols.Node, error) {
	root, group := scaffold(prefix, "string", g.Name())

	tables := g.collect(res)

	var errs error
	for _, table := range tables {
		for _, k := range table.keys {
			if err := checkArity(table.name, k); err != nil {
				errs = multierr.Append(errs, err)
			}
		}
	}
	if errs != nil {
		return nil, errs
	}

	for _, table := range tables {
		locales := sortedKeys(table.locales)
		tableOrigin := symbols.Provenance{Generator: g.Name(), Kind: "stringTable", RawName: table.name}
		tableGroup := symbols.NewGroup(identifier.MemberName(table.name), tableOrigin)
		tableGroup.Access = access
		group.Add(tableGroup)

		for _, k := range table.keys {
			primary := g.primary(k)
			origin := symbols.Provenance{Generator: g.Name(), Kind: "string", RawName: table.name + "." + k.key, Source: primary.path}

			params := make([]symbols.Param, 0, resource.Arity(primary.entry.Placeholders)+1)
			params = append(params, formatParams(primary.entry.Placeholders)...)
			params = append(params, symbols.Param{Label: "locale", Name: "locale", Type: symbols.Locale.AsOptional(), Default: "nil"})

			tableGroup.Add(external(identifier.MemberName(k.key), symbols.Leaf{
				Type: symbols.StringResource,
				Accessor: symbols.Accessor{
					Op:      symbols.OpLocalize,
					Params:  params,
					Returns: symbols.String,
				},
				Args: []symbols.Arg{
					{Label: "key", Value: symbols.Str(k.key)},
					{Label: "tableName", Value: symbols.Str(table.name)},
					{Label: "locales", Value: symbols.Strs(keyLocales(k))},
				},
				Doc: valueDocs(k),
			}, access, origin))
		}

		tableGroup.Add(internal("rawTable", symbols.Leaf{
			Type: symbols.StringTable,
			Accessor: symbols.Accessor{
				Op:      symbols.OpLookup,
				Params:  []symbols.Param{{Label: "_", Name: "key", Type: symbols.String}},
				Returns: symbols.String.AsOptional(),
			},
			Args: []symbols.Arg{
				{Label: "tableName", Value: symbols.Str(table.name)},
				{Label: "locales", Value: symbols.Strs(locales)},
			},
		}, tableOrigin))
	}
	return root, nil
}

func (g Strings) collect(res *resource.Resources) []*stringTable {
	byName := make(map[string]*stringTable)
	var order []*stringTable
	for _, ls := range res.Strings {
		table, ok := byName[ls.Table]
		if !ok {
			table = &stringTable{name: ls.Table, byKey: map[string]*stringKey{}, locales: map[string]bool{}}
			byName[ls.Table] = table
			order = append(order, table)
		}
		table.locales[ls.Locale] = true
		for _, entry := range ls.Entries {
			k, ok := table.byKey[entry.Key]
			if !ok {
				k = &stringKey{key: entry.Key}
				table.byKey[entry.Key] = k
				table.keys = append(table.keys, k)
			}
			k.values = append(k.values, localizedValue{locale: ls.Locale, path: ls.Path, entry: entry})
		}
	}
	sort.SliceStable(order, func(i, j int) bool { return order[i].name < order[j].name })
	for _, t := range order {
		sort.SliceStable(t.keys, func(i, j int) bool { return t.keys[i].key < t.keys[j].key })
		for _, k := range t.keys {
			sort.SliceStable(k.values, func(i, j int) bool { return k.values[i].locale < k.values[j].locale })
		}
	}
	return order
}

// primary picks the value whose argument types define the accessor: the
// development region when present, otherwise the first locale.
func (g Strings) primary(k *stringKey) localizedValue {
	for _, v := range k.values {
		if v.locale == g.DevelopmentRegion {
			return v
		}
	}
	return k.values[0]
}

func checkArity(table string, k *stringKey) error {
	arities := make(map[int][]string)
	for _, v := range k.values {
		n := resource.Arity(v.entry.Placeholders)
		if n > resource.MaxPlaceholderPosition {
			err := errors.ParsingFailed(v.path, fmt.Errorf("string %q in table %q takes %d format arguments, more than %d",
				k.key, table, n, resource.MaxPlaceholderPosition))
			return errors.AddContext(err, errors.CtxKey, k.key)
		}
		arities[n] = append(arities[n], localeLabel(v.locale))
	}
	if len(arities) <= 1 {
		return nil
	}
	counts := make([]int, 0, len(arities))
	for n := range arities {
		counts = append(counts, n)
	}
	sort.Ints(counts)
	parts := make([]string, len(counts))
	for i, n := range counts {
		parts[i] = fmt.Sprintf("%d in %s", n, strings.Join(arities[n], ", "))
	}
	err := errors.Newf(errors.CodePlaceholderArityMismatch,
		"string %q in table %q has different numbers of format arguments across locales: %s",
		k.key, table, strings.Join(parts, "; "))
	return errors.AddContext(err, errors.CtxKey, k.key)
}

func formatParams(placeholders []resource.Placeholder) []symbols.Param {
	arity := resource.Arity(placeholders)
	byPos := make(map[int]resource.ArgKind, len(placeholders))
	for _, p := range placeholders {
		byPos[p.Position] = p.Kind
	}
	params := make([]symbols.Param, 0, arity)
	for pos := 1; pos <= arity; pos++ {
		t := symbols.AnyType
		if kind, ok := byPos[pos]; ok {
			t = argType(kind)
		}
		params = append(params, symbols.Param{Label: "_", Name: fmt.Sprintf("value%d", pos), Type: t})
	}
	return params
}

func argType(kind resource.ArgKind) symbols.Type {
	switch kind {
	case resource.ArgInt:
		return symbols.Int
	case resource.ArgUInt:
		return symbols.UInt
	case resource.ArgDouble:
		return symbols.Double
	case resource.ArgChar:
		return symbols.Character
	case resource.ArgCString:
		return symbols.CStringPointer
	case resource.ArgPointer:
		return symbols.VoidPointer
	default:
		return symbols.String
	}
}

func keyLocales(k *stringKey) []string {
	out := make([]string, 0, len(k.values))
	for _, v := range k.values {
		out = append(out, v.locale)
	}
	return out
}

func valueDocs(k *stringKey) []string {
	docs := make([]string, 0, len(k.values))
	for _, v := range k.values {
		docs = append(docs, fmt.Sprintf("%s: %q", localeLabel(v.locale), v.entry.Value))
	}
	return docs
}

func localeLabel(locale string) string {
	if locale == "" {
		return "(none)"
	}
	return locale
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
