package formats

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/maruel/natural"
)

type MarkdownReportData struct {
	// Resources maps a resource kind to its count.
	Resources  map[string]int
	Leaves     int
	OutputFile string
	Changed    bool
	Findings   []Finding
	Unused     []string
}

type MarkdownReportOptions struct {
	ProjectName         string
	ProjectRoot         string
	Version             string
	GeneratedAt         time.Time
	CollapsibleSections bool
}

type MarkdownGenerator struct{}

func NewMarkdownGenerator() *MarkdownGenerator {
	return &MarkdownGenerator{}
}

func (m *MarkdownGenerator) Generate(data MarkdownReportData, opts MarkdownReportOptions) (string, error) {
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now().UTC()
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("title: Resource Report\n")
	b.WriteString("project: " + nonEmpty(opts.ProjectName, "unknown") + "\n")
	b.WriteString("generated_at: " + opts.GeneratedAt.UTC().Format(time.RFC3339) + "\n")
	b.WriteString("version: " + nonEmpty(opts.Version, "unknown") + "\n")
	b.WriteString("---\n\n")

	b.WriteString("# Resource Report\n\n")

	total := 0
	for _, n := range data.Resources {
		total += n
	}
	status := "unchanged"
	if data.Changed {
		status = "written"
	}
	b.WriteString("## Executive Summary\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("| --- | --- |\n")
	b.WriteString(fmt.Sprintf("| Resources | %d |\n", total))
	b.WriteString(fmt.Sprintf("| Generated Members | %d |\n", data.Leaves))
	b.WriteString(fmt.Sprintf("| Output | `%s` (%s) |\n", relPath(opts.ProjectRoot, nonEmpty(data.OutputFile, "-")), status))
	b.WriteString(fmt.Sprintf("| Diagnostics | %d |\n", len(data.Findings)))
	b.WriteString(fmt.Sprintf("| Potentially Unused Images | %d |\n\n", len(data.Unused)))

	m.writeResources(&b, data.Resources)
	m.writeFindings(&b, data.Findings, opts.ProjectRoot, opts.CollapsibleSections)
	m.writeUnused(&b, data.Unused, opts.CollapsibleSections)
	return b.String(), nil
}

func (m *MarkdownGenerator) writeResources(b *strings.Builder, counts map[string]int) {
	b.WriteString("## Resources\n")
	kinds := make([]string, 0, len(counts))
	for kind, n := range counts {
		if n > 0 {
			kinds = append(kinds, kind)
		}
	}
	if len(kinds) == 0 {
		b.WriteString("No resources found.\n\n")
		return
	}
	sort.Slice(kinds, func(i, j int) bool { return natural.Less(kinds[i], kinds[j]) })
	b.WriteString("| Kind | Count |\n| --- | --- |\n")
	for _, kind := range kinds {
		b.WriteString(fmt.Sprintf("| %s | %d |\n", kind, counts[kind]))
	}
	b.WriteString("\n")
}

func (m *MarkdownGenerator) writeFindings(b *strings.Builder, findings []Finding, projectRoot string, collapsible bool) {
	b.WriteString("## Diagnostics\n")
	if len(findings) == 0 {
		b.WriteString("No diagnostics.\n\n")
		return
	}
	rows := make([]string, 0, len(findings))
	for _, f := range findings {
		rows = append(rows, fmt.Sprintf("| `%s` | %s | %s | `%s` | %s |\n",
			f.Rule, f.Level, escapeCell(f.Subject), relPath(projectRoot, f.Path), escapeCell(f.Message)))
	}
	m.writeTableWithCollapse(
		b,
		"Diagnostic details",
		collapsible,
		len(rows) > 10,
		[]string{"| Rule | Level | Subject | File | Message |\n", "| --- | --- | --- | --- | --- |\n"},
		rows,
	)
}

func (m *MarkdownGenerator) writeUnused(b *strings.Builder, unused []string, collapsible bool) {
	b.WriteString("## Potentially Unused Images\n")
	if len(unused) == 0 {
		b.WriteString("Every image is referenced.\n\n")
		return
	}
	rows := make([]string, 0, len(unused))
	for _, name := range unused {
		rows = append(rows, fmt.Sprintf("| `%s` |\n", name))
	}
	m.writeTableWithCollapse(
		b,
		"Unused image details",
		collapsible,
		len(rows) > 15,
		[]string{"| Image |\n", "| --- |\n"},
		rows,
	)
}

func (m *MarkdownGenerator) writeTableWithCollapse(
	b *strings.Builder,
	summary string,
	collapsible bool,
	collapse bool,
	header []string,
	rows []string,
) {
	if collapsible && collapse {
		b.WriteString("<details>\n")
		b.WriteString("<summary>")
		b.WriteString(summary)
		b.WriteString("</summary>\n\n")
	}
	for _, line := range header {
		b.WriteString(line)
	}
	for _, line := range rows {
		b.WriteString(line)
	}
	b.WriteString("\n")
	if collapsible && collapse {
		b.WriteString("</details>\n\n")
	}
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}

func relPath(root, path string) string {
	root = strings.TrimSpace(root)
	path = strings.TrimSpace(path)
	if root == "" || path == "" || !filepath.IsAbs(path) {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func nonEmpty(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
