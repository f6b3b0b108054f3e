package app

import (
	"context"
	"time"

	"resgen/internal/core/errors"
	"resgen/internal/core/ports"
	"resgen/internal/data/history"
	"resgen/internal/engine/generator"
	"resgen/internal/shared/observability"
)

// FindUnused lists the images no source file refers to, whether or not the
// unused report is enabled for generation.
func (a *App) FindUnused(ctx context.Context) (ports.UnusedResult, error) {
	a.runMu.Lock()
	defer a.runMu.Unlock()

	ctx, span := observability.Tracer.Start(ctx, "app.FindUnused")
	defer span.End()

	paths, err := a.scanner.Resources(a.Paths.ResourceRoots)
	if err != nil {
		return ports.UnusedResult{}, errors.Wrap(err, errors.CodeNotFound, "unable to list resources")
	}
	res, err := a.collector.Collect(paths)
	if err != nil {
		return ports.UnusedResult{}, err
	}
	files, skipped := a.sourceFiles()

	declared := res.DeclaredImageNames()
	used := generator.UsedImages(a.generators, res)
	var out ports.UnusedResult
	err = stage(ctx, "unused", func(ctx context.Context) error {
		report, err := a.finder.FindUnused(ctx, declared, used, files)
		if err != nil {
			return err
		}
		out.Unused = report.Unused
		out.Skipped = mergeSkipped(skipped, report.Skipped)
		return nil
	})
	if err != nil {
		return ports.UnusedResult{}, err
	}

	keep := make(map[string]bool, len(out.Unused))
	for _, name := range out.Unused {
		keep[name] = true
	}
	for _, c := range a.finder.Candidates(declared, used) {
		if keep[c.Name] {
			out.Candidates = append(out.Candidates, c)
		}
	}
	out.Sources = len(files)
	observability.UnusedImages.Set(float64(len(out.Unused)))
	return out, nil
}

// History lists recorded runs of this project, newest first.
func (a *App) History(ctx context.Context, since time.Time, limit int) ([]history.Run, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if a.history == nil {
		return nil, errors.New(errors.CodeNotFound, "run history is disabled; set db.enabled = true")
	}
	return a.history.Runs(a.projectKey(), since, limit)
}
