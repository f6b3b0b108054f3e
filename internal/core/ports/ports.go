package ports

import (
	"context"
	"time"

	"resgen/internal/data/history"
	"resgen/internal/engine/project"
	"resgen/internal/engine/resource"
	"resgen/internal/engine/unused"
)

// ResourceScanner lists resource and source files below project roots.
// Source listing never fails; entries it cannot read are returned instead.
type ResourceScanner interface {
	Resources(roots []string) ([]string, error)
	Sources(roots, extensions []string) ([]string, []project.Unreadable)
	Ignored(path string) bool
}

// ResourceCollector parses resource locations into a catalogue.
type ResourceCollector interface {
	Collect(paths []string) (*resource.Resources, error)
}

// UnusedFinder cross-references declared images against source files.
type UnusedFinder interface {
	Candidates(declared, used []string) []unused.Candidate
	FindUnused(ctx context.Context, declared, used, files []string) (unused.Report, error)
}

// RunHistory abstracts run persistence for the history command and watch mode.
type RunHistory interface {
	Record(run history.Run) error
	Runs(projectKey string, since time.Time, limit int) ([]history.Run, error)
	LastDigest(projectKey string) (string, error)
}

// GenerateRequest defines one generation pass for driving adapters.
type GenerateRequest struct {
	// Trigger names what started the run, e.g. "generate" or "watch".
	Trigger string
	// DryRun renders and reports without touching the output file.
	DryRun bool
}

// GenerateResult summarizes a completed generation pass.
type GenerateResult struct {
	RunID      string
	OutputFile string
	Digest     string
	Changed    bool
	Resources  map[string]int
	Leaves     int
	Unused     []string
	Skipped    []unused.SkippedFile
	Reports    []string
	Duration   time.Duration
}

// UnusedResult lists the potentially unused images of a project.
type UnusedResult struct {
	Candidates []unused.Candidate
	Unused     []string
	Skipped    []unused.SkippedFile
	Sources    int
}

// GeneratorService is the driving port used by the CLI.
type GeneratorService interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error)
	FindUnused(ctx context.Context) (UnusedResult, error)
	History(ctx context.Context, since time.Time, limit int) ([]history.Run, error)
}

// WatchService regenerates on file changes until ctx is done.
type WatchService interface {
	Watch(ctx context.Context, onResult func(GenerateResult, error)) error
}
