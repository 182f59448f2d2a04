package domain

import (
	"fmt"
	"strings"
)

// Category is the evaluation concern of a rule.
type Category string

const (
	CategorySyntax       Category = "SYNTAX"
	CategorySemantic     Category = "SEMANTIC"
	CategoryCompleteness Category = "COMPLETENESS"
	CategoryQuality      Category = "QUALITY"
)

// ValidCategories enumerates rule categories in report order.
var ValidCategories = []Category{CategorySyntax, CategorySemantic, CategoryCompleteness, CategoryQuality}

// Severity decides whether an issue makes a report INVALID.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
)

// IssueLocation is a best-effort pointer into the validated file.
type IssueLocation struct {
	File    string `json:"file,omitempty"`
	Section string `json:"section,omitempty"`
	Line    int    `json:"line,omitempty"`
}

func (l IssueLocation) String() string {
	var parts []string
	if l.File != "" {
		parts = append(parts, l.File)
	}
	if l.Section != "" {
		parts = append(parts, fmt.Sprintf("section %q", l.Section))
	}
	if l.Line > 0 {
		parts = append(parts, fmt.Sprintf("line %d", l.Line))
	}
	return strings.Join(parts, ", ")
}

// ValidationIssue is a single finding. File is the grouping key used by
// project reports ("{code} | {doc}" or a bare file name).
type ValidationIssue struct {
	ID               string        `json:"id"`
	Category         Category      `json:"type"`
	Severity         Severity      `json:"severity"`
	Location         IssueLocation `json:"location"`
	Message          string        `json:"issue"`
	OriginalContent  string        `json:"original_content,omitempty"`
	CorrectedContent string        `json:"corrected_content,omitempty"`
	RuleID           string        `json:"rule_applied"`
	File             string        `json:"-"`
}

// Sequencer hands out "{RULE_ID}-{n}" ids. One sequencer per report keeps ids
// unique even when the same rule fires in several passes.
type Sequencer struct {
	next map[string]int
}

// NewSequencer creates an empty Sequencer.
func NewSequencer() *Sequencer {
	return &Sequencer{next: make(map[string]int)}
}

// Next returns the next id for ruleID.
func (s *Sequencer) Next(ruleID string) string {
	s.next[ruleID]++
	return fmt.Sprintf("%s-%d", ruleID, s.next[ruleID])
}
