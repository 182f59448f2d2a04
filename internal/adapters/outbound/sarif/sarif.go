package sarif

import (
	"fmt"
	"io"
	"strings"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/openkraft/docsync/internal/domain"
)

const (
	toolName = "docsync"
	toolURI  = "https://github.com/openkraft/docsync"
)

// Build converts a report into a SARIF 2.1.0 log with one run. rules
// supplies descriptions for the rule ids that fired; unknown ids fall back
// to the issue message.
func Build(r *domain.ValidationReport, rules []domain.ValidationRule) (*sarif.Report, error) {
	out, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, fmt.Errorf("creating SARIF report: %w", err)
	}

	byID := make(map[string]domain.ValidationRule, len(rules))
	for _, rl := range rules {
		byID[rl.ID] = rl
	}

	run := sarif.NewRunWithInformationURI(toolName, toolURI)
	seen := make(map[string]bool)
	for _, is := range r.Issues {
		if !seen[is.RuleID] {
			seen[is.RuleID] = true
			desc := is.Message
			if rl, ok := byID[is.RuleID]; ok {
				desc = ruleDescription(rl)
			}
			run.AddRule(is.RuleID).
				WithDescription(desc).
				WithDefaultConfiguration(&sarif.ReportingConfiguration{
					Level: level(is.Severity),
				})
		}

		result := sarif.NewRuleResult(is.RuleID).
			WithMessage(sarif.NewTextMessage(is.Message)).
			WithLevel(level(is.Severity))
		if loc := location(is); loc != nil {
			result.WithLocations([]*sarif.Location{loc})
		}
		run.AddResult(result)
	}
	out.AddRun(run)
	return out, nil
}

// Write renders the report as indented SARIF JSON.
func Write(w io.Writer, r *domain.ValidationReport, rules []domain.ValidationRule) error {
	out, err := Build(r, rules)
	if err != nil {
		return err
	}
	return out.PrettyWrite(w)
}

func ruleDescription(rl domain.ValidationRule) string {
	switch {
	case rl.Description != "":
		return rl.Description
	case rl.Name != "":
		return rl.Name
	default:
		return rl.ID
	}
}

func level(s domain.Severity) string {
	if s == domain.SeverityError {
		return "error"
	}
	return "warning"
}

// location points at the documentation file when known, otherwise at the
// first file of the grouping key.
func location(is domain.ValidationIssue) *sarif.Location {
	uri := is.Location.File
	if uri == "" {
		uri, _, _ = strings.Cut(is.File, " | ")
		uri = strings.TrimSpace(uri)
	}
	if uri == "" {
		return nil
	}
	pl := sarif.NewPhysicalLocation().
		WithArtifactLocation(sarif.NewArtifactLocation().WithUri(uri))
	if is.Location.Line > 0 {
		pl.WithRegion(sarif.NewRegion().WithStartLine(is.Location.Line))
	}
	return sarif.NewLocation().WithPhysicalLocation(pl)
}
