// Package app wires the resource pipeline: scan, collect, generate,
// validate, analyse, render and write.
package app

import (
	"path/filepath"
	"strings"
	"sync"

	"resgen/internal/core/config"
	"resgen/internal/core/ports"
	"resgen/internal/data/history"
	"resgen/internal/engine/generator"
	"resgen/internal/engine/project"
	"resgen/internal/engine/resource"
	"resgen/internal/engine/symbols"
	"resgen/internal/engine/unused"
	"resgen/internal/render/swift"
)

// rootName is the reference prefix of every generated accessor.
const rootName = "R"

type App struct {
	Config *config.Config
	Paths  config.ResolvedPaths

	configFile string
	scanner    ports.ResourceScanner
	collector  ports.ResourceCollector
	finder     ports.UnusedFinder
	history    ports.RunHistory
	generators []generator.StructGenerator
	own        map[string]bool

	// runMu serializes pipeline runs; watch mode and reloads share it.
	runMu sync.Mutex
	// stateMu guards the configuration against watcher goroutines.
	stateMu sync.RWMutex

	lastMu  sync.RWMutex
	lastRun *history.Run
}

type Option func(*App)

// WithHistory records every run in h.
func WithHistory(h ports.RunHistory) Option {
	return func(a *App) { a.history = h }
}

// WithConfigFile keeps the config file out of the resource catalogue.
func WithConfigFile(path string) Option {
	return func(a *App) { a.configFile = path }
}

func WithScanner(s ports.ResourceScanner) Option {
	return func(a *App) { a.scanner = s }
}

func WithCollector(c ports.ResourceCollector) Option {
	return func(a *App) { a.collector = c }
}

func WithUnusedFinder(f ports.UnusedFinder) Option {
	return func(a *App) { a.finder = f }
}

func New(cfg *config.Config, paths config.ResolvedPaths, opts ...Option) (*App, error) {
	a := &App{}
	for _, opt := range opts {
		opt(a)
	}
	if err := a.configure(cfg, paths); err != nil {
		return nil, err
	}
	return a, nil
}

// Reload swaps in a new configuration between runs. Components injected
// through options are rebuilt from the new configuration.
func (a *App) Reload(cfg *config.Config, paths config.ResolvedPaths) error {
	a.runMu.Lock()
	defer a.runMu.Unlock()

	next := &App{configFile: a.configFile, history: a.history}
	if err := next.configure(cfg, paths); err != nil {
		return err
	}
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	a.Config = next.Config
	a.Paths = next.Paths
	a.scanner = next.scanner
	a.collector = next.collector
	a.finder = next.finder
	a.generators = next.generators
	a.own = next.own
	return nil
}

func (a *App) configure(cfg *config.Config, paths config.ResolvedPaths) error {
	a.Config = cfg
	a.Paths = paths
	a.own = a.ownFiles()

	if a.scanner == nil {
		ignore, err := project.LoadIgnore(paths.IgnoreFile)
		if err != nil {
			return err
		}
		scanner, err := project.NewScanner(cfg.Exclude.Dirs, cfg.Exclude.Files, ignore)
		if err != nil {
			return err
		}
		a.scanner = scanner
	}
	if a.collector == nil {
		a.collector = resource.NewCollector(a.excluded)
	}
	if a.finder == nil {
		a.finder = unused.NewAnalyzer(
			unused.WithWorkers(cfg.Unused.Workers),
			unused.WithGeneratedName(cfg.Unused.GeneratedName),
			unused.WithConventions(conventions(cfg)...),
		)
	}
	a.generators = generator.Default(generator.Options{DevelopmentRegion: cfg.Project.DevelopmentRegion})
	return nil
}

// conventions maps configured accessor spellings; with none configured the
// Swift and Objective-C defaults apply.
func conventions(cfg *config.Config) []unused.Convention {
	if len(cfg.Unused.Conventions) == 0 {
		return unused.DefaultConventions(swift.ObjCClassName(cfg.Project.ProductModule))
	}
	out := make([]unused.Convention, 0, len(cfg.Unused.Conventions))
	for _, c := range cfg.Unused.Conventions {
		out = append(out, unused.Convention{
			Name:       c.Name,
			Extensions: append([]string(nil), c.Extensions...),
			Marker:     c.Marker,
			Prefix:     c.Prefix,
			Separator:  c.Separator,
			Suffix:     c.Suffix,
		})
	}
	return out
}

// ownFiles are the files this tool writes or reads itself; they are never
// resources.
func (a *App) ownFiles() map[string]bool {
	own := make(map[string]bool, 5)
	for _, p := range []string{a.Paths.OutputFile, a.Paths.MarkdownReport, a.Paths.SARIFReport, a.Paths.DBPath, a.configFile} {
		if strings.TrimSpace(p) == "" {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			own[filepath.Clean(abs)] = true
		}
	}
	return own
}

func (a *App) isOwnFile(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	abs = filepath.Clean(abs)
	// sqlite keeps -wal and -shm files next to the database.
	return a.own[abs] || a.own[strings.TrimSuffix(strings.TrimSuffix(abs, "-wal"), "-shm")]
}

func (a *App) excluded(path string) bool {
	return a.isOwnFile(path) || a.scanner.Ignored(path)
}

// Relevant reports whether a change to path can affect the generated output.
func (a *App) Relevant(path string) bool {
	a.stateMu.RLock()
	defer a.stateMu.RUnlock()
	if a.isOwnFile(path) || a.scanner.Ignored(path) {
		return false
	}
	if !project.IsSourcePath(path) {
		return true
	}
	if !a.Config.Unused.Enabled {
		return false
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range a.Config.Sources.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

func (a *App) accessLevel() symbols.AccessLevel {
	if a.Config.Project.AccessLevel == string(symbols.AccessPublic) {
		return symbols.AccessPublic
	}
	return symbols.AccessInternal
}

// projectKey identifies the project in the run history.
func (a *App) projectKey() string {
	if key := strings.TrimSpace(a.Config.Project.ProductModule); key != "" {
		return key
	}
	return filepath.Base(a.Paths.ProjectRoot)
}

// LastRun returns a copy of the most recent run, or nil before the first.
func (a *App) LastRun() *history.Run {
	a.lastMu.RLock()
	defer a.lastMu.RUnlock()
	if a.lastRun == nil {
		return nil
	}
	run := *a.lastRun
	return &run
}

func (a *App) setLastRun(run history.Run) {
	a.lastMu.Lock()
	defer a.lastMu.Unlock()
	a.lastRun = &run
}
