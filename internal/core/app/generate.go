package app

import (
	"context"
	"log/slog"
	"os"
	"sort"
	"time"

	"resgen/internal/core/errors"
	"resgen/internal/core/ports"
	"resgen/internal/data/history"
	"resgen/internal/engine/aggregate"
	"resgen/internal/engine/generator"
	"resgen/internal/engine/resource"
	"resgen/internal/engine/symbols"
	"resgen/internal/engine/unused"
	"resgen/internal/engine/validate"
	"resgen/internal/render/swift"
	"resgen/internal/shared/observability"
	"resgen/internal/shared/util"
	"resgen/internal/ui/report"
	"resgen/internal/ui/report/formats"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Generate runs the whole pipeline once. The output file is written only
// when the rendered bytes differ from what is on disk. Fatal diagnostics
// abort before anything is written; reports and history are still recorded.
func (a *App) Generate(ctx context.Context, req ports.GenerateRequest) (ports.GenerateResult, error) {
	a.runMu.Lock()
	defer a.runMu.Unlock()

	if req.Trigger == "" {
		req.Trigger = "generate"
	}
	ctx, span := observability.Tracer.Start(ctx, "app.Generate", trace.WithAttributes(
		attribute.String("resgen.trigger", req.Trigger),
		attribute.Bool("resgen.dry_run", req.DryRun),
	))
	defer span.End()

	start := time.Now()
	run := history.NewRun(a.projectKey(), req.Trigger)
	result := ports.GenerateResult{RunID: run.ID, OutputFile: a.Paths.OutputFile}

	p := &pipeline{app: a, result: &result}
	err := p.run(ctx, req)

	result.Duration = time.Since(start)
	run.Duration = result.Duration
	run.Digest = result.Digest
	run.Changed = result.Changed
	run.Leaves = result.Leaves
	run.Unused = len(result.Unused)
	for _, n := range result.Resources {
		run.Resources += n
	}
	run.Diagnostics = len(p.findings)

	if reports, reportErr := a.writeReports(p); reportErr != nil {
		slog.Warn("failed to write reports", "error", reportErr)
	} else {
		result.Reports = reports
	}

	if err != nil {
		run.Fail(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		observability.RunsTotal.WithLabelValues("failed").Inc()
	} else {
		observability.RunsTotal.WithLabelValues(outcome(result.Changed)).Inc()
	}
	a.record(run)
	return result, err
}

func outcome(changed bool) string {
	if changed {
		return "written"
	}
	return "unchanged"
}

// pipeline carries the state of one run between stages.
type pipeline struct {
	app      *App
	result   *ports.GenerateResult
	res      *resource.Resources
	tree     validate.Tree
	findings []formats.Finding
}

func (p *pipeline) run(ctx context.Context, req ports.GenerateRequest) error {
	a := p.app

	var paths []string
	if err := stage(ctx, "scan", func(context.Context) error {
		var err error
		paths, err = a.scanner.Resources(a.Paths.ResourceRoots)
		return err
	}); err != nil {
		return errors.Wrap(err, errors.CodeNotFound, "unable to list resources")
	}

	if err := stage(ctx, "collect", func(context.Context) error {
		var err error
		p.res, err = a.collector.Collect(paths)
		return err
	}); err != nil {
		return p.fail(err)
	}
	p.result.Resources = resourceCounts(p.res)

	var root *symbols.Node
	if err := stage(ctx, "generate", func(context.Context) error {
		var err error
		root, err = aggregate.Run(a.generators, p.res, a.accessLevel(), rootName)
		return err
	}); err != nil {
		return p.fail(err)
	}

	if err := stage(ctx, "validate", func(context.Context) error {
		var err error
		p.tree, err = validate.Validate(root)
		return err
	}); err != nil {
		return p.fail(err)
	}
	p.result.Leaves = root.LeafCount()
	observability.GeneratedLeaves.Set(float64(p.result.Leaves))

	if a.Config.Unused.Enabled {
		if err := stage(ctx, "unused", func(ctx context.Context) error {
			found, err := a.findUnused(ctx, p.res)
			if err != nil {
				return err
			}
			p.result.Unused = found.Unused
			p.result.Skipped = found.Skipped
			return nil
		}); err != nil {
			if ctx.Err() != nil {
				return err
			}
			slog.Warn("unused image analysis failed, continuing without it", "error", err)
			p.findings = append(p.findings, formats.FindingsFromError(
				errors.Wrap(err, errors.CodeUnreadableFile, "unused image analysis skipped"))...)
			p.result.Unused, p.result.Skipped = nil, nil
		}
		for _, s := range p.result.Skipped {
			slog.Warn("skipping unreadable source file", "path", s.Path, "error", s.Err)
			p.findings = append(p.findings, formats.FindingsFromError(s.Err)...)
		}
		p.findings = append(p.findings, formats.UnusedFindings(p.result.Unused, imagePaths(p.res))...)
		observability.UnusedImages.Set(float64(len(p.result.Unused)))
	}

	var rendered string
	if err := stage(ctx, "render", func(context.Context) error {
		var err error
		rendered, err = swift.NewPrinter(p.tree, a.printerOptions(p.result.Unused)).Generate()
		return err
	}); err != nil {
		return p.fail(err)
	}
	data := []byte(rendered)
	p.result.Digest = util.Digest(data)

	if req.DryRun {
		current, err := readIfExists(a.Paths.OutputFile)
		if err != nil {
			return errors.AddContext(errors.Wrap(err, errors.CodeInternal, "unable to read output file"), errors.CtxPath, a.Paths.OutputFile)
		}
		p.result.Changed = util.Digest(current) != p.result.Digest
		return nil
	}

	return stage(ctx, "write", func(context.Context) error {
		changed, err := util.WriteIfChanged(a.Paths.OutputFile, data, 0o644)
		if err != nil {
			return errors.AddContext(errors.Wrap(err, errors.CodeInternal, "unable to write output file"), errors.CtxPath, a.Paths.OutputFile)
		}
		p.result.Changed = changed
		return nil
	})
}

// fail keeps the diagnostics of err for the reports and passes it on.
func (p *pipeline) fail(err error) error {
	p.findings = append(p.findings, formats.FindingsFromError(err)...)
	return err
}

// stage times fn under a child span and the stage histogram.
func stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := observability.Tracer.Start(ctx, "stage."+name)
	defer span.End()
	defer observability.ObserveStage(name, time.Now())

	if err := ctx.Err(); err != nil {
		return err
	}
	err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, name+" failed")
	}
	return err
}

func (a *App) printerOptions(unusedImages []string) swift.Options {
	return swift.Options{
		ProductModule:    a.Config.Project.ProductModule,
		BundleIdentifier: a.Config.Project.BundleIdentifier,
		Imports:          a.Config.Project.Imports,
		Access:           a.accessLevel(),
		ObjC:             a.Config.Output.ObjC,
		ReportUnused:     a.Config.Unused.Enabled,
		UnusedImages:     unusedImages,
	}
}

func (a *App) findUnused(ctx context.Context, res *resource.Resources) (unused.Report, error) {
	files, skipped := a.sourceFiles()
	used := generator.UsedImages(a.generators, res)
	report, err := a.finder.FindUnused(ctx, res.DeclaredImageNames(), used, files)
	if err != nil {
		return unused.Report{}, err
	}
	report.Skipped = mergeSkipped(skipped, report.Skipped)
	return report, nil
}

// sourceFiles lists the files scanned for image references. Entries the
// listing could not read are returned as skipped files.
func (a *App) sourceFiles() ([]string, []unused.SkippedFile) {
	files, unreadable := a.scanner.Sources(a.Paths.SourceRoots, a.Config.Sources.Extensions)
	skipped := make([]unused.SkippedFile, 0, len(unreadable))
	for _, u := range unreadable {
		err := errors.Wrap(u.Err, errors.CodeUnreadableFile, "unable to list source files")
		skipped = append(skipped, unused.SkippedFile{Path: u.Path, Err: errors.AddContext(err, errors.CtxPath, u.Path)})
	}
	return files, skipped
}

func mergeSkipped(listing, scan []unused.SkippedFile) []unused.SkippedFile {
	out := append(listing, scan...)
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func (a *App) writeReports(p *pipeline) ([]string, error) {
	targets := report.Targets{Markdown: a.Paths.MarkdownReport, SARIF: a.Paths.SARIFReport}
	if !targets.Enabled() {
		return nil, nil
	}
	return report.Write(targets, report.Input{
		ProjectName: a.projectKey(),
		ProjectRoot: a.Paths.ProjectRoot,
		Data: formats.MarkdownReportData{
			Resources:  p.result.Resources,
			Leaves:     p.result.Leaves,
			OutputFile: p.result.OutputFile,
			Changed:    p.result.Changed,
			Findings:   p.findings,
			Unused:     p.result.Unused,
		},
	})
}

func (a *App) record(run history.Run) {
	a.setLastRun(run)
	if a.history == nil {
		return
	}
	if err := a.history.Record(run); err != nil {
		slog.Warn("failed to record run history", "error", err)
	}
}

func readIfExists(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	return data, err
}

func resourceCounts(res *resource.Resources) map[string]int {
	counts := make(map[string]int)
	for kind, n := range res.Counts() {
		counts[kind.String()] = n
		observability.ResourcesTotal.WithLabelValues(kind.String()).Set(float64(n))
	}
	return counts
}

// imagePaths maps every declared image name to the file declaring it.
func imagePaths(res *resource.Resources) map[string]string {
	out := make(map[string]string)
	for _, img := range res.Images {
		if _, ok := out[img.Name]; !ok {
			out[img.Name] = img.Path
		}
	}
	for _, folder := range res.AssetFolders {
		for _, name := range folder.Images {
			if _, ok := out[name]; !ok {
				out[name] = folder.Path
			}
		}
	}
	return out
}
