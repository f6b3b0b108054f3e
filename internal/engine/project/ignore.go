package project

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

type ignoreRule struct {
	pattern string
	glob    glob.Glob
	negate  bool
}

// IgnoreList holds ignore-file rules. Patterns are globs relative to the
// directory of the ignore file, one per line; "#" starts a comment and a
// leading "!" re-includes paths an earlier rule excluded. A nil list
// ignores nothing.
type IgnoreList struct {
	base  string
	rules []ignoreRule
}

// LoadIgnore reads an ignore file. A missing file yields an empty list.
func LoadIgnore(path string) (*IgnoreList, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return &IgnoreList{base: filepath.Dir(path)}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return ParseIgnore(filepath.Dir(path), lines)
}

func ParseIgnore(base string, lines []string) (*IgnoreList, error) {
	list := &IgnoreList{base: base}
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rule := ignoreRule{}
		if strings.HasPrefix(line, "!") {
			rule.negate = true
			line = strings.TrimPrefix(line, "!")
		}
		rule.pattern = strings.TrimSuffix(strings.TrimPrefix(line, "/"), "/")
		g, err := glob.Compile(rule.pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("ignore file line %d: invalid pattern %q: %w", i+1, line, err)
		}
		rule.glob = g
		list.rules = append(list.rules, rule)
	}
	return list, nil
}

// Match reports whether path, or any directory containing it, is ignored.
// The last matching rule wins.
func (l *IgnoreList) Match(path string) bool {
	if l == nil || len(l.rules) == 0 {
		return false
	}
	rel, err := filepath.Rel(l.base, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	rel = filepath.ToSlash(rel)

	candidates := []string{rel}
	for dir := filepath.ToSlash(filepath.Dir(rel)); dir != "." && dir != "/"; dir = filepath.ToSlash(filepath.Dir(dir)) {
		candidates = append(candidates, dir)
	}

	ignored := false
	for _, rule := range l.rules {
		for _, c := range candidates {
			if rule.glob.Match(c) {
				ignored = !rule.negate
				break
			}
		}
	}
	return ignored
}

func (l *IgnoreList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.rules)
}
