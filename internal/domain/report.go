package domain

import (
	"encoding/json"
	"time"
)

// RuleDocumentSyntax is the rule id used when a document in a project run
// cannot be parsed at all.
const RuleDocumentSyntax = "SYNTAX-DOC-001"

// Status is the overall verdict of a report.
type Status string

const (
	StatusValid   Status = "VALID"
	StatusInvalid Status = "INVALID"
)

// ValidationReport is the result of one validation request. Status and
// Summary are derived from Issues and never stored.
type ValidationReport struct {
	ID         string
	Source     string
	Timestamp  time.Time
	CommitHash string
	Issues     []ValidationIssue
	Files      []FileReport
	Mappings   []FileMapping
	Warnings   []string
}

// FileReport groups the issues of one file or file pair.
type FileReport struct {
	FilePath string            `json:"file_path"`
	Issues   []ValidationIssue `json:"issues"`
}

// Summary is the aggregate view of a report.
type Summary struct {
	TotalIssues int              `json:"total_issues"`
	Errors      int              `json:"errors"`
	Warnings    int              `json:"warnings"`
	ByCategory  map[Category]int `json:"by_category"`
	Status      Status           `json:"status"`
}

// Status is VALID when no ERROR-severity issue exists.
func (r *ValidationReport) Status() Status {
	for _, is := range r.Issues {
		if is.Severity == SeverityError {
			return StatusInvalid
		}
	}
	return StatusValid
}

// Summary counts issues by severity and category.
func (r *ValidationReport) Summary() Summary {
	s := Summary{
		TotalIssues: len(r.Issues),
		ByCategory:  make(map[Category]int, len(ValidCategories)),
		Status:      r.Status(),
	}
	for _, c := range ValidCategories {
		s.ByCategory[c] = 0
	}
	for _, is := range r.Issues {
		switch is.Severity {
		case SeverityError:
			s.Errors++
		case SeverityWarning:
			s.Warnings++
		}
		s.ByCategory[is.Category]++
	}
	return s
}

// IssuesByRule returns issues produced by ruleID.
func (r *ValidationReport) IssuesByRule(ruleID string) []ValidationIssue {
	var out []ValidationIssue
	for _, is := range r.Issues {
		if is.RuleID == ruleID {
			out = append(out, is)
		}
	}
	return out
}

type reportJSON struct {
	ID         string            `json:"validation_id"`
	Timestamp  time.Time         `json:"timestamp"`
	Source     string            `json:"source,omitempty"`
	CommitHash string            `json:"commit_hash,omitempty"`
	Status     Status            `json:"status"`
	Issues     []ValidationIssue `json:"issues"`
	Summary    Summary           `json:"summary"`
	Files      []FileReport      `json:"files,omitempty"`
	Mappings   []FileMapping     `json:"mappings,omitempty"`
	Warnings   []string          `json:"warnings,omitempty"`
}

// MarshalJSON emits the wire shape consumed by report collaborators.
func (r *ValidationReport) MarshalJSON() ([]byte, error) {
	issues := r.Issues
	if issues == nil {
		issues = []ValidationIssue{}
	}
	return json.Marshal(reportJSON{
		ID:         r.ID,
		Timestamp:  r.Timestamp,
		Source:     r.Source,
		CommitHash: r.CommitHash,
		Status:     r.Status(),
		Issues:     issues,
		Summary:    r.Summary(),
		Files:      r.Files,
		Mappings:   r.Mappings,
		Warnings:   r.Warnings,
	})
}

// HistoryEntry is the persisted digest of a project report.
type HistoryEntry struct {
	ValidationID string    `json:"validation_id"`
	Timestamp    time.Time `json:"timestamp"`
	Status       Status    `json:"status"`
	TotalIssues  int       `json:"total_issues"`
	Errors       int       `json:"errors"`
	Warnings     int       `json:"warnings"`
	CommitHash   string    `json:"commit_hash,omitempty"`
}

// NewHistoryEntry digests a report.
func NewHistoryEntry(r *ValidationReport) HistoryEntry {
	s := r.Summary()
	return HistoryEntry{
		ValidationID: r.ID,
		Timestamp:    r.Timestamp,
		Status:       s.Status,
		TotalIssues:  s.TotalIssues,
		Errors:       s.Errors,
		Warnings:     s.Warnings,
		CommitHash:   r.CommitHash,
	}
}
