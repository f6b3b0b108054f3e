package formats

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"resgen/internal/core/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestFindingsFromError(t *testing.T) {
	collision := errors.AddContext(errors.New(errors.CodeNamingCollision, "naming collision"), errors.CtxIdentifier, "R.image.logo")
	parse := errors.ParsingFailed("/p/App/broken.storyboard", assert.AnError)
	arity := errors.AddContext(errors.New(errors.CodePlaceholderArityMismatch, "arity"), errors.CtxKey, "greeting")
	unreadable := errors.AddContext(errors.New(errors.CodeUnreadableFile, "unable to read source file"), errors.CtxPath, "/p/a.swift")

	got := FindingsFromError(multierr.Combine(collision, parse, arity, unreadable, assert.AnError))
	require.Len(t, got, 5)

	assert.Equal(t, RuleNamingCollision, got[0].Rule)
	assert.Equal(t, "R.image.logo", got[0].Subject)
	assert.Equal(t, RuleParsingFailed, got[1].Rule)
	assert.Equal(t, "/p/App/broken.storyboard", got[1].Path)
	assert.Contains(t, got[1].Message, assert.AnError.Error())
	assert.Equal(t, RuleArityMismatch, got[2].Rule)
	assert.Equal(t, "greeting", got[2].Subject)
	assert.Equal(t, "warning", got[3].Level)
	assert.Equal(t, RuleInternal, got[4].Rule)

	assert.Nil(t, FindingsFromError(nil))
}

func TestSortFindings(t *testing.T) {
	findings := UnusedFindings([]string{"icon10", "icon2"}, map[string]string{"icon10": "a/icon10.png", "icon2": "a/icon2.png"})
	findings = append(findings, Finding{Rule: RuleParsingFailed, Path: "z"})
	SortFindings(findings)
	assert.Equal(t, RuleParsingFailed, findings[0].Rule)
	assert.Equal(t, "icon2", findings[1].Subject)
	assert.Equal(t, "icon10", findings[2].Subject)
}

func TestGenerateSARIF_EmptyResults(t *testing.T) {
	data, err := GenerateSARIF("", nil)
	require.NoError(t, err)

	var report sarifReport
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, sarifSchema, report.Schema)
	assert.Equal(t, sarifVersion, report.Version)
	require.Len(t, report.Runs, 1)
	assert.Empty(t, report.Runs[0].Results)
	assert.Empty(t, report.Runs[0].Tool.Driver.Rules)
}

func TestGenerateSARIF_RelativeLocations(t *testing.T) {
	findings := append(
		UnusedFindings([]string{"logo"}, map[string]string{"logo": "/project/App/logo.png"}),
		Finding{Rule: RuleNamingCollision, Level: "error", Message: "collision", Subject: "R.file.a"},
	)
	data, err := GenerateSARIF("/project", findings)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "/project/")

	var report sarifReport
	require.NoError(t, json.Unmarshal(data, &report))
	results := report.Runs[0].Results
	require.Len(t, results, 2)
	assert.Equal(t, RuleUnusedImage, results[0].RuleID)
	assert.Equal(t, "note", results[0].Level)
	require.Len(t, results[0].Locations, 1)
	assert.Equal(t, "App/logo.png", results[0].Locations[0].PhysicalLocation.ArtifactLocation.URI)
	assert.Empty(t, results[1].Locations)

	rules := report.Runs[0].Tool.Driver.Rules
	require.Len(t, rules, 2)
	assert.Equal(t, RuleNamingCollision, rules[0].ID)
	assert.Equal(t, RuleUnusedImage, rules[1].ID)
}

func TestMarkdownGenerator(t *testing.T) {
	data := MarkdownReportData{
		Resources:  map[string]int{"image": 3, "font": 1, "nib": 0},
		Leaves:     12,
		OutputFile: "/p/R.generated.swift",
		Changed:    true,
		Findings:   []Finding{{Rule: RuleArityMismatch, Level: "error", Message: "a | b", Subject: "greeting"}},
		Unused:     []string{"logo"},
	}
	out, err := NewMarkdownGenerator().Generate(data, MarkdownReportOptions{
		ProjectName: "App",
		ProjectRoot: "/p",
		Version:     "1.0.0",
		GeneratedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "---\ntitle: Resource Report\nproject: App\ngenerated_at: 2026-01-02T03:04:05Z\n"))
	assert.Contains(t, out, "| Resources | 4 |\n")
	assert.Contains(t, out, "| Output | `R.generated.swift` (written) |\n")
	assert.Contains(t, out, "| font | 1 |\n| image | 3 |\n\n")
	assert.NotContains(t, out, "| nib |")
	assert.Contains(t, out, "a \\| b")
	assert.Contains(t, out, "| `logo` |\n")
}

func TestMarkdownGenerator_Empty(t *testing.T) {
	out, err := NewMarkdownGenerator().Generate(MarkdownReportData{}, MarkdownReportOptions{})
	require.NoError(t, err)
	assert.Contains(t, out, "No resources found.")
	assert.Contains(t, out, "No diagnostics.")
	assert.Contains(t, out, "Every image is referenced.")
	assert.Contains(t, out, "project: unknown")
}
