package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"resgen/internal/core/ports"
	"resgen/internal/data/history"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/maruel/natural"
	"go.uber.org/multierr"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

func printGenerate(w io.Writer, res ports.GenerateResult, err error, dryRun bool) {
	if err != nil {
		fmt.Fprintln(w, errorStyle.Render("✗ generation failed")+" "+statusStyle.Render(plural(len(errorLines(err)), "diagnostic")))
		return
	}

	var headline string
	switch {
	case dryRun && res.Changed:
		headline = warnStyle.Render("! " + filepath.Base(res.OutputFile) + " is out of date")
	case dryRun:
		headline = successStyle.Render("✓ " + filepath.Base(res.OutputFile) + " is up to date")
	case res.Changed:
		headline = successStyle.Render("✓ wrote " + filepath.Base(res.OutputFile))
	default:
		headline = successStyle.Render("✓ " + filepath.Base(res.OutputFile) + " unchanged")
	}
	fmt.Fprintln(w, headline+" "+statusStyle.Render(fmt.Sprintf("(%s)", res.Duration.Round(time.Millisecond))))

	kinds := make([]string, 0, len(res.Resources))
	for kind, n := range res.Resources {
		if n > 0 {
			kinds = append(kinds, kind)
		}
	}
	sort.Slice(kinds, func(i, j int) bool { return natural.Less(kinds[i], kinds[j]) })
	parts := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		parts = append(parts, fmt.Sprintf("%d %s", res.Resources[kind], kind))
	}
	if len(parts) == 0 {
		parts = append(parts, "no resources")
	}
	fmt.Fprintf(w, "  %s %s, %s\n", titleStyle.Render("resources:"), strings.Join(parts, ", "), plural(res.Leaves, "accessor"))

	if len(res.Unused) > 0 {
		fmt.Fprintf(w, "  %s %s\n", warnStyle.Render("unused:"), strings.Join(res.Unused, ", "))
	}
	if len(res.Skipped) > 0 {
		fmt.Fprintf(w, "  %s %s\n", warnStyle.Render("skipped:"), plural(len(res.Skipped), "unreadable source file"))
	}
	for _, report := range res.Reports {
		fmt.Fprintf(w, "  %s %s\n", titleStyle.Render("report:"), report)
	}
}

func printUnused(w io.Writer, res ports.UnusedResult) {
	if len(res.Unused) == 0 {
		fmt.Fprintln(w, successStyle.Render("✓ every image is referenced")+" "+statusStyle.Render(fmt.Sprintf("(%s scanned)", plural(res.Sources, "source file"))))
		return
	}
	fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("! %s potentially unused", plural(len(res.Unused), "image")))+" "+
		statusStyle.Render(fmt.Sprintf("(%s scanned)", plural(res.Sources, "source file"))))
	for _, c := range res.Candidates {
		fmt.Fprintf(w, "  %s", c.Name)
		if accessor := c.Accessors["swift"]; accessor != "" {
			fmt.Fprintf(w, " %s", statusStyle.Render(accessor))
		}
		fmt.Fprintln(w)
	}
}

func printHistory(w io.Writer, runs []history.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, statusStyle.Render("no runs recorded"))
		return
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		status := run.Status
		if run.Changed {
			status += " (written)"
		}
		rows = append(rows, []string{
			run.Timestamp.Local().Format("2006-01-02 15:04:05"),
			run.Trigger,
			status,
			fmt.Sprintf("%d", run.Resources),
			fmt.Sprintf("%d", run.Leaves),
			fmt.Sprintf("%d", run.Unused),
			run.Duration.Round(time.Millisecond).String(),
		})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("TIME", "TRIGGER", "STATUS", "RESOURCES", "ACCESSORS", "UNUSED", "DURATION").
		Rows(rows...)
	fmt.Fprintln(w, t.String())

	sum := history.Summarize(runs)
	line := fmt.Sprintf("%s, %d written, %d failed, mean %s",
		plural(sum.Runs, "run"), sum.Changed, sum.Failed, sum.MeanDuration.Round(time.Millisecond))
	if sum.Failed > 0 {
		fmt.Fprintln(w, warnStyle.Render(line))
	} else {
		fmt.Fprintln(w, titleStyle.Render(line))
	}
	if sum.Last != nil && sum.Last.Error != "" {
		fmt.Fprintln(w, errorStyle.Render("last error:")+" "+sum.Last.Error)
	}
}

func errorLines(err error) []string {
	errs := multierr.Errors(err)
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Error())
	}
	return out
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
