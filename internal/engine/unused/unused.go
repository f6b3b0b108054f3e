// Package unused cross-references declared images against the project's
// source files and reports the images no source file refers to.
package unused

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"resgen/internal/core/errors"
	"resgen/internal/engine/identifier"

	"golang.org/x/sync/errgroup"
)

// Convention is one way generated accessors are spelled in source code.
type Convention struct {
	Name       string
	Extensions []string
	// Marker must be present in a file before any accessor is searched for.
	Marker    string
	Prefix    string
	Separator string
	Suffix    string
}

// Accessor renders the accessor text for a raw image name.
func (c Convention) Accessor(name string) string {
	return c.Prefix + identifier.Join(identifier.Path(name), c.Separator) + c.Suffix
}

func (c Convention) matchesPath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range c.Extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

const DefaultGeneratedName = "R.generated"

// DefaultConventions returns the dotted Swift form and the bracketed
// Objective-C form addressed through objcClass.
func DefaultConventions(objcClass string) []Convention {
	return []Convention{
		{
			Name:       "swift",
			Extensions: []string{".swift"},
			Marker:     "R.image.",
			Prefix:     "R.image.",
			Separator:  ".",
		},
		{
			Name:       "objc",
			Extensions: []string{".m", ".mm"},
			Marker:     "[" + objcClass + " image_",
			Prefix:     "[" + objcClass + " image_",
			Separator:  "_",
			Suffix:     "]",
		},
	}
}

// Candidate is a declared image not referenced by any layout file, with its
// accessor text per convention name.
type Candidate struct {
	Name      string
	Accessors map[string]string
}

// SkippedFile is a source file that could not be read.
type SkippedFile struct {
	Path string
	Err  error
}

type Report struct {
	Unused  []string
	Skipped []SkippedFile
}

type Analyzer struct {
	conventions   []Convention
	workers       int
	generatedName string
	readFile      func(string) ([]byte, error)
}

type Option func(*Analyzer)

// WithWorkers sets the number of scan chunks. Values below one use one
// chunk per CPU.
func WithWorkers(n int) Option {
	return func(a *Analyzer) { a.workers = n }
}

func WithConventions(cs ...Convention) Option {
	return func(a *Analyzer) { a.conventions = append([]Convention(nil), cs...) }
}

// WithGeneratedName excludes files with this base name, with or without
// extension, from the scan.
func WithGeneratedName(name string) Option {
	return func(a *Analyzer) { a.generatedName = name }
}

func WithReadFile(fn func(string) ([]byte, error)) Option {
	return func(a *Analyzer) { a.readFile = fn }
}

func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		conventions:   DefaultConventions("RObjc"),
		generatedName: DefaultGeneratedName,
		readFile:      os.ReadFile,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.workers < 1 {
		a.workers = runtime.NumCPU()
	}
	return a
}

// Candidates returns declared minus used, deduplicated, with accessor texts.
func (a *Analyzer) Candidates(declared, used []string) []Candidate {
	usedSet := make(map[string]bool, len(used))
	for _, u := range used {
		usedSet[u] = true
	}
	seen := make(map[string]bool, len(declared))
	var out []Candidate
	for _, name := range declared {
		if usedSet[name] || seen[name] {
			continue
		}
		seen[name] = true
		c := Candidate{Name: name, Accessors: make(map[string]string, len(a.conventions))}
		for _, conv := range a.conventions {
			c.Accessors[conv.Name] = conv.Accessor(name)
		}
		out = append(out, c)
	}
	return out
}

// FindUnused scans files in parallel chunks and returns the candidates that
// no file refers to, sorted by name. Unreadable files are skipped and listed
// in the report; they never fail the scan.
func (a *Analyzer) FindUnused(ctx context.Context, declared, used, files []string) (Report, error) {
	set := newCandidateSet(a.Candidates(declared, used))
	scannable := a.filterFiles(files)

	chunks := chunk(scannable, len(scannable)/a.workers+1)
	skipped := make([][]SkippedFile, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	for i, part := range chunks {
		g.Go(func() error {
			for _, path := range part {
				if err := gctx.Err(); err != nil {
					return err
				}
				if set.empty() {
					return nil
				}
				content, err := a.readFile(path)
				if err != nil {
					slog.Debug("skipping unreadable source file", "path", path, "error", err)
					skipped[i] = append(skipped[i], SkippedFile{
						Path: path,
						Err:  errors.AddContext(errors.Wrap(err, errors.CodeUnreadableFile, "unable to read source file"), errors.CtxPath, path),
					})
					continue
				}
				a.scan(set, path, content)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	report := Report{Unused: set.names()}
	for _, s := range skipped {
		report.Skipped = append(report.Skipped, s...)
	}
	sort.Slice(report.Skipped, func(i, j int) bool { return report.Skipped[i].Path < report.Skipped[j].Path })
	return report, nil
}

func (a *Analyzer) filterFiles(files []string) []string {
	out := make([]string, 0, len(files))
	for _, path := range files {
		base := filepath.Base(path)
		if base == a.generatedName || strings.TrimSuffix(base, filepath.Ext(base)) == a.generatedName {
			continue
		}
		for _, conv := range a.conventions {
			if conv.matchesPath(path) {
				out = append(out, path)
				break
			}
		}
	}
	return out
}

func (a *Analyzer) scan(set *candidateSet, path string, content []byte) {
	for _, conv := range a.conventions {
		if !conv.matchesPath(path) || !bytes.Contains(content, []byte(conv.Marker)) {
			continue
		}
		var found []string
		for _, c := range set.snapshot() {
			if containsAccessor(content, c.Accessors[conv.Name]) {
				found = append(found, c.Name)
			}
		}
		if len(found) > 0 {
			set.subtract(found)
		}
	}
}

// containsAccessor reports whether text occurs in content and is not merely
// the prefix of a longer identifier.
func containsAccessor(content []byte, text string) bool {
	needle := []byte(text)
	for offset := 0; offset < len(content); {
		i := bytes.Index(content[offset:], needle)
		if i < 0 {
			return false
		}
		end := offset + i + len(needle)
		if end >= len(content) || !isIdentByte(content[end]) || !isIdentByte(needle[len(needle)-1]) {
			return true
		}
		offset += i + 1
	}
	return false
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func chunk(files []string, size int) [][]string {
	var out [][]string
	for start := 0; start < len(files); start += size {
		end := start + size
		if end > len(files) {
			end = len(files)
		}
		out = append(out, files[start:end])
	}
	return out
}
