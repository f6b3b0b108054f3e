package resource

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"resgen/internal/core/errors"

	"go.uber.org/multierr"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/language"
	"golang.org/x/text/transform"
	"howett.net/plist"
)

var StringsExtensions = []string{"strings"}

// BaseLocale is the Interface Builder base localization.
const BaseLocale = "Base"

// ParseStrings reads a ".strings" table. The file may be UTF-8 or UTF-16 with
// a byte order mark. Entries are ordered by key; a key defined twice keeps
// its last value.
func ParseStrings(path string) (LocalizableStrings, error) {
	ext := extOf(path)
	if !hasExt(ext, StringsExtensions) {
		return LocalizableStrings{}, errors.UnsupportedExtension(path, ext, StringsExtensions)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return LocalizableStrings{}, errors.ParsingFailed(path, err)
	}
	text, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), raw)
	if err != nil {
		return LocalizableStrings{}, errors.ParsingFailed(path, fmt.Errorf("decode: %w", err))
	}
	if !utf8.Valid(text) {
		return LocalizableStrings{}, errors.ParsingFailed(path, fmt.Errorf("file is not valid UTF-8 or UTF-16"))
	}

	values := map[string]string{}
	if len(bytes.TrimSpace(text)) > 0 {
		if _, err := plist.Unmarshal(text, &values); err != nil {
			return LocalizableStrings{}, errors.ParsingFailed(path, err)
		}
	}

	table := LocalizableStrings{
		Table:  strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Locale: localeOf(path),
		Path:   path,
	}
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var errs error
	for _, key := range keys {
		placeholders, err := ParsePlaceholders(values[key])
		if err != nil {
			errs = multierr.Append(errs, errors.AddContext(errors.ParsingFailed(path, err), errors.CtxKey, key))
			continue
		}
		table.Entries = append(table.Entries, StringEntry{Key: key, Value: values[key], Placeholders: placeholders})
	}
	if errs != nil {
		return LocalizableStrings{}, errs
	}
	return table, nil
}

func canonicalLocale(raw string) string {
	if raw == BaseLocale || raw == "" {
		return raw
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return raw
	}
	return tag.String()
}
