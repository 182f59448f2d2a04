// Package report reduces validation issues into a ValidationReport.
package report

import (
	"time"

	"github.com/openkraft/docsync/internal/domain"
)

// Input is what a validation run hands to the aggregator. Issues carry
// their grouping key in File; Groups lists keys that must appear in the
// report even when they have no issues.
type Input struct {
	ID         string
	Source     string
	Timestamp  time.Time
	CommitHash string
	Issues     []domain.ValidationIssue
	Groups     []string
	Mappings   []domain.FileMapping
	Warnings   []string
	// Grouped enables files[] output for project runs.
	Grouped bool
}

// Aggregate numbers issues "{RULE_ID}-{n}" in order, groups them by file
// key in first-appearance order and copies mappings and warnings. No issue
// is dropped or merged.
func Aggregate(in Input) *domain.ValidationReport {
	seq := domain.NewSequencer()
	r := &domain.ValidationReport{
		ID:         in.ID,
		Source:     in.Source,
		Timestamp:  in.Timestamp,
		CommitHash: in.CommitHash,
		Issues:     make([]domain.ValidationIssue, 0, len(in.Issues)),
		Mappings:   in.Mappings,
		Warnings:   in.Warnings,
	}
	for _, is := range in.Issues {
		is.ID = seq.Next(is.RuleID)
		r.Issues = append(r.Issues, is)
	}
	if !in.Grouped {
		return r
	}

	index := make(map[string]int)
	group := func(key string) int {
		if i, ok := index[key]; ok {
			return i
		}
		index[key] = len(r.Files)
		r.Files = append(r.Files, domain.FileReport{FilePath: key, Issues: []domain.ValidationIssue{}})
		return index[key]
	}
	for _, key := range in.Groups {
		group(key)
	}
	for _, is := range r.Issues {
		i := group(is.File)
		r.Files[i].Issues = append(r.Files[i].Issues, is)
	}
	return r
}
