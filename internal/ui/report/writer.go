// Package report writes the optional markdown and SARIF reports of a run.
package report

import (
	"fmt"
	"time"

	"resgen/internal/shared/util"
	"resgen/internal/shared/version"
	"resgen/internal/ui/report/formats"
)

// Targets holds resolved report paths; an empty path disables that report.
type Targets struct {
	Markdown string
	SARIF    string
}

func (t Targets) Enabled() bool {
	return t.Markdown != "" || t.SARIF != ""
}

type Input struct {
	ProjectName string
	ProjectRoot string
	GeneratedAt time.Time
	Data        formats.MarkdownReportData
}

// Write renders every enabled report and returns the paths written.
func Write(targets Targets, in Input) ([]string, error) {
	formats.SortFindings(in.Data.Findings)

	var written []string
	if targets.Markdown != "" {
		md, err := formats.NewMarkdownGenerator().Generate(in.Data, formats.MarkdownReportOptions{
			ProjectName:         in.ProjectName,
			ProjectRoot:         in.ProjectRoot,
			Version:             version.Version,
			GeneratedAt:         in.GeneratedAt,
			CollapsibleSections: true,
		})
		if err != nil {
			return written, fmt.Errorf("render markdown report: %w", err)
		}
		if err := util.WriteFileAtomic(targets.Markdown, []byte(md), 0o644); err != nil {
			return written, fmt.Errorf("write markdown report: %w", err)
		}
		written = append(written, targets.Markdown)
	}

	if targets.SARIF != "" {
		data, err := formats.GenerateSARIF(in.ProjectRoot, in.Data.Findings)
		if err != nil {
			return written, fmt.Errorf("render sarif report: %w", err)
		}
		if err := util.WriteFileAtomic(targets.SARIF, data, 0o644); err != nil {
			return written, fmt.Errorf("write sarif report: %w", err)
		}
		written = append(written, targets.SARIF)
	}
	return written, nil
}
