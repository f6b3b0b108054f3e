// Package project lists resource and source files below configured roots.
package project

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// Directories that are never descended into.
var skippedDirs = map[string]bool{
	".git":         true,
	".build":       true,
	"DerivedData":  true,
	"Pods":         true,
	"Carthage":     true,
	"node_modules": true,
}

// Bundle-like directories reported as opaque units or skipped entirely.
var (
	opaqueDirExts  = map[string]bool{".xcassets": true}
	skippedDirExts = map[string]bool{".xcodeproj": true, ".xcworkspace": true, ".framework": true, ".xcframework": true}
)

// Source code is never a resource.
var sourceExts = map[string]bool{
	".swift": true, ".m": true, ".mm": true, ".h": true, ".c": true, ".cpp": true, ".hpp": true,
}

// IsSourcePath reports whether path has a source code extension.
func IsSourcePath(path string) bool {
	return sourceExts[strings.ToLower(filepath.Ext(path))]
}

type Scanner struct {
	dirGlobs  []glob.Glob
	fileGlobs []glob.Glob
	ignore    *IgnoreList
}

func NewScanner(excludeDirs, excludeFiles []string, ignore *IgnoreList) (*Scanner, error) {
	s := &Scanner{ignore: ignore}
	for _, p := range excludeDirs {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude dir pattern %q: %w", p, err)
		}
		s.dirGlobs = append(s.dirGlobs, g)
	}
	for _, p := range excludeFiles {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude file pattern %q: %w", p, err)
		}
		s.fileGlobs = append(s.fileGlobs, g)
	}
	return s, nil
}

// Ignored reports whether path is excluded by a file glob or the ignore list.
func (s *Scanner) Ignored(path string) bool {
	base := filepath.Base(path)
	for _, g := range s.fileGlobs {
		if g.Match(base) {
			return true
		}
	}
	return s.ignore.Match(path)
}

// Resources lists resource locations below roots. Asset catalogs are
// reported as single entries; source code and hidden files are skipped.
func (s *Scanner) Resources(roots []string) ([]string, error) {
	return s.walk(roots, nil, func(path string, d fs.DirEntry) (bool, error) {
		if d.IsDir() {
			if opaqueDirExts[filepath.Ext(path)] {
				return true, filepath.SkipDir
			}
			return false, nil
		}
		return !IsSourcePath(path), nil
	})
}

// Unreadable is a path the source listing could not enter.
type Unreadable struct {
	Path string
	Err  error
}

// Sources lists files below roots whose extension is in exts. Missing roots
// and unreadable directories are skipped and returned alongside the listing.
func (s *Scanner) Sources(roots []string, exts []string) ([]string, []Unreadable) {
	want := make(map[string]bool, len(exts))
	for _, e := range exts {
		want[strings.ToLower(e)] = true
	}
	var unreadable []Unreadable
	files, _ := s.walk(roots, func(path string, err error) {
		unreadable = append(unreadable, Unreadable{Path: path, Err: err})
	}, func(path string, d fs.DirEntry) (bool, error) {
		if d.IsDir() {
			return false, nil
		}
		return want[strings.ToLower(filepath.Ext(path))], nil
	})
	return files, unreadable
}

// walk visits every root; keep decides whether an entry is reported and may
// return filepath.SkipDir for directories. With a nil onErr the first walk
// error aborts the listing, otherwise failing entries are passed to onErr
// and left out.
func (s *Scanner) walk(roots []string, onErr func(string, error), keep func(string, fs.DirEntry) (bool, error)) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if onErr == nil {
					return err
				}
				onErr(path, err)
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			base := d.Name()
			if path != root && strings.HasPrefix(base, ".") {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() && path != root {
				if skippedDirs[base] || skippedDirExts[filepath.Ext(base)] {
					return filepath.SkipDir
				}
				for _, g := range s.dirGlobs {
					if g.Match(base) {
						return filepath.SkipDir
					}
				}
				if s.ignore.Match(path) {
					return filepath.SkipDir
				}
			}

			ok, walkErr := keep(path, d)
			if ok && !s.Ignored(path) && !seen[path] {
				seen[path] = true
				out = append(out, path)
			}
			return walkErr
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(out)
	return out, nil
}
