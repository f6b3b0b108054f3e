package app

import (
	"context"
	"log/slog"
	"os"

	"resgen/internal/core/ports"
	"resgen/internal/core/watcher"
	"resgen/internal/shared/util"
)

// Watch generates once, then regenerates whenever a relevant file under the
// resource or source roots changes, until ctx is done. Every run result is
// passed to onResult; failed runs do not stop watching.
func (a *App) Watch(ctx context.Context, onResult func(ports.GenerateResult, error)) error {
	if onResult == nil {
		onResult = func(ports.GenerateResult, error) {}
	}
	onResult(a.Generate(ctx, ports.GenerateRequest{Trigger: "watch"}))

	a.stateMu.RLock()
	cfg := a.Config
	roots := a.watchRoots()
	a.stateMu.RUnlock()

	w, err := watcher.NewWatcher(cfg.Watch.Debounce, cfg.Exclude.Dirs, cfg.Exclude.Files, func(paths []string) {
		if ctx.Err() != nil {
			return
		}
		slog.Info("changes detected, regenerating", "files", len(paths))
		onResult(a.Generate(ctx, ports.GenerateRequest{Trigger: "watch"}))
	})
	if err != nil {
		return err
	}
	defer w.Close()

	w.SetFilter(a.Relevant)
	w.SetLimiter(util.NewIntervalLimiter(cfg.Watch.MinInterval))
	if err := w.Watch(roots); err != nil {
		return err
	}
	slog.Info("watching for changes", "roots", roots)

	<-ctx.Done()
	return nil
}

// watchRoots lists the resource roots, plus the readable source roots when
// unused image analysis takes part in generation.
func (a *App) watchRoots() []string {
	seen := make(map[string]bool)
	var roots []string
	add := func(paths []string) {
		for _, p := range paths {
			if !seen[p] {
				seen[p] = true
				roots = append(roots, p)
			}
		}
	}
	add(a.Paths.ResourceRoots)
	if a.Config.Unused.Enabled {
		for _, root := range a.Paths.SourceRoots {
			if _, err := os.Stat(root); err != nil {
				slog.Warn("not watching unreadable source root", "path", root, "error", err)
				continue
			}
			add([]string{root})
		}
	}
	return roots
}
