package formats

import (
	"encoding/json"
	"path/filepath"

	"resgen/internal/shared/version"
)

// SARIF v2.1.0 schema – see https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json

const (
	sarifSchema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
	sarifVersion = "2.1.0"
)

// sarifReport is the top-level SARIF document.
type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	ShortDescription sarifMessage           `json:"shortDescription"`
	DefaultConfig    sarifRuleDefaultConfig `json:"defaultConfiguration"`
}

type sarifRuleDefaultConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
}

type sarifArtifactLocation struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId"`
}

var sarifRules = []sarifRule{
	{RuleParsingFailed, "ParsingFailed", sarifMessage{"A resource file could not be parsed."}, sarifRuleDefaultConfig{"error"}},
	{RuleNamingCollision, "NamingCollision", sarifMessage{"Several resources map to the same generated identifier."}, sarifRuleDefaultConfig{"error"}},
	{RuleArityMismatch, "PlaceholderArityMismatch", sarifMessage{"A localized string takes different numbers of arguments across locales."}, sarifRuleDefaultConfig{"error"}},
	{RuleUnusedImage, "PotentiallyUnusedImage", sarifMessage{"An image is not referenced by any source file."}, sarifRuleDefaultConfig{"note"}},
	{RuleUnreadableFile, "UnreadableSourceFile", sarifMessage{"A source file could not be read during the unused image scan."}, sarifRuleDefaultConfig{"warning"}},
	{RuleUnsupportedExtension, "UnsupportedExtension", sarifMessage{"A resource parser was given a file type it does not support."}, sarifRuleDefaultConfig{"error"}},
	{RuleInternal, "InternalError", sarifMessage{"An unexpected error occurred."}, sarifRuleDefaultConfig{"error"}},
}

// GenerateSARIF builds a SARIF v2.1.0 document from findings.
// All file URIs are made relative to projectRoot; absolute paths are never
// included so that reports are safe to share.
func GenerateSARIF(projectRoot string, findings []Finding) ([]byte, error) {
	results := make([]sarifResult, 0, len(findings))
	used := make(map[string]bool)
	for _, f := range findings {
		used[f.Rule] = true
		result := sarifResult{
			RuleID:  f.Rule,
			Level:   f.Level,
			Message: sarifMessage{Text: f.Message},
		}
		if f.Path != "" {
			result.Locations = []sarifLocation{{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{
						URI:       relativeURI(projectRoot, f.Path),
						URIBaseID: "%SRCROOT%",
					},
				},
			}}
		}
		results = append(results, result)
	}

	// Only the rules that are relevant for the given findings.
	rules := make([]sarifRule, 0, len(used))
	for _, rule := range sarifRules {
		if used[rule.ID] {
			rules = append(rules, rule)
		}
	}

	report := sarifReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:    "resgen",
						Version: version.Version,
						Rules:   rules,
					},
				},
				Results: results,
			},
		},
	}
	return json.MarshalIndent(report, "", "  ")
}

// relativeURI converts an absolute file path to a forward-slash relative URI
// anchored at projectRoot. If the path is already relative or projectRoot is
// empty, the original path (with forward slashes) is returned.
func relativeURI(projectRoot, filePath string) string {
	if projectRoot != "" && filepath.IsAbs(filePath) {
		rel, err := filepath.Rel(projectRoot, filePath)
		if err == nil {
			filePath = rel
		}
	}
	return filepath.ToSlash(filePath)
}
