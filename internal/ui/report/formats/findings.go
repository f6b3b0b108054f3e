package formats

import (
	stderrors "errors"
	"fmt"
	"sort"

	"resgen/internal/core/errors"

	"github.com/maruel/natural"
	"go.uber.org/multierr"
)

const (
	RuleParsingFailed        = "RES001"
	RuleNamingCollision      = "RES002"
	RuleArityMismatch        = "RES003"
	RuleUnusedImage          = "RES004"
	RuleUnreadableFile       = "RES005"
	RuleUnsupportedExtension = "RES006"
	RuleInternal             = "RES999"
)

// Finding is one diagnostic destined for a report.
type Finding struct {
	Rule    string
	Level   string
	Message string
	// Path is the file the finding is attached to, if any.
	Path string
	// Subject is the identifier, string key or image name involved.
	Subject string
}

var ruleByCode = map[errors.ErrorCode]string{
	errors.CodeParsingFailed:            RuleParsingFailed,
	errors.CodeNamingCollision:          RuleNamingCollision,
	errors.CodePlaceholderArityMismatch: RuleArityMismatch,
	errors.CodeUnreadableFile:           RuleUnreadableFile,
	errors.CodeUnsupportedExtension:     RuleUnsupportedExtension,
}

// FindingsFromError flattens a combined error into one finding per
// diagnostic. Non-domain errors become internal findings.
func FindingsFromError(err error) []Finding {
	if err == nil {
		return nil
	}
	var out []Finding
	for _, e := range multierr.Errors(err) {
		out = append(out, findingOf(e))
	}
	return out
}

func findingOf(err error) Finding {
	f := Finding{Rule: RuleInternal, Level: "error", Message: err.Error()}
	var de *errors.DomainError
	if !stderrors.As(err, &de) {
		return f
	}
	if rule, ok := ruleByCode[de.Code]; ok {
		f.Rule = rule
	}
	if !errors.IsFatal(de.Code) {
		f.Level = "warning"
	}
	f.Message = de.Message
	if de.Err != nil {
		f.Message = fmt.Sprintf("%s: %v", de.Message, de.Err)
	}
	if path, ok := de.Context[errors.CtxPath].(string); ok {
		f.Path = path
	}
	for _, key := range []string{errors.CtxIdentifier, errors.CtxKey} {
		if subject, ok := de.Context[key].(string); ok {
			f.Subject = subject
			break
		}
	}
	return f
}

// UnusedFindings turns unused image names into notes. paths maps an image
// name to the file that declares it.
func UnusedFindings(names []string, paths map[string]string) []Finding {
	out := make([]Finding, 0, len(names))
	for _, name := range names {
		out = append(out, Finding{
			Rule:    RuleUnusedImage,
			Level:   "note",
			Message: fmt.Sprintf("image %q is not referenced by any source file", name),
			Path:    paths[name],
			Subject: name,
		})
	}
	return out
}

// SortFindings orders by rule, then path, then subject, naturally.
func SortFindings(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.Rule != b.Rule {
			return a.Rule < b.Rule
		}
		if a.Path != b.Path {
			return natural.Less(a.Path, b.Path)
		}
		return natural.Less(a.Subject, b.Subject)
	})
}
