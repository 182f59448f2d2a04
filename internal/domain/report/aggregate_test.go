package report_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkraft/docsync/internal/domain"
	"github.com/openkraft/docsync/internal/domain/report"
)

func issue(rule string, cat domain.Category, sev domain.Severity, file string) domain.ValidationIssue {
	return domain.ValidationIssue{RuleID: rule, Category: cat, Severity: sev, File: file, Message: rule}
}

func TestAggregate_SequencesRepeatedRules(t *testing.T) {
	r := report.Aggregate(report.Input{
		ID: "v1",
		Issues: []domain.ValidationIssue{
			issue("COMPLETENESS-METHOD-001", domain.CategoryCompleteness, domain.SeverityError, ""),
			issue("SEMANTIC-PARAM-003", domain.CategorySemantic, domain.SeverityError, ""),
			issue("COMPLETENESS-METHOD-001", domain.CategoryCompleteness, domain.SeverityError, ""),
		},
	})

	require.Len(t, r.Issues, 3)
	assert.Equal(t, "COMPLETENESS-METHOD-001-1", r.Issues[0].ID)
	assert.Equal(t, "SEMANTIC-PARAM-003-1", r.Issues[1].ID)
	assert.Equal(t, "COMPLETENESS-METHOD-001-2", r.Issues[2].ID)
	assert.Nil(t, r.Files)
}

func TestAggregate_GroupsByFileKey(t *testing.T) {
	r := report.Aggregate(report.Input{
		Grouped: true,
		Groups:  []string{"a.py | a.adoc", "b.py | b.adoc"},
		Issues: []domain.ValidationIssue{
			issue("SEMANTIC-FILE-001", domain.CategorySemantic, domain.SeverityWarning, "orphan.adoc"),
			issue("COMPLETENESS-METHOD-001", domain.CategoryCompleteness, domain.SeverityError, "b.py | b.adoc"),
			issue("COMPLETENESS-METHOD-001", domain.CategoryCompleteness, domain.SeverityError, "b.py | b.adoc"),
		},
	})

	require.Len(t, r.Files, 3)
	assert.Equal(t, "a.py | a.adoc", r.Files[0].FilePath)
	assert.Empty(t, r.Files[0].Issues)
	assert.Equal(t, "b.py | b.adoc", r.Files[1].FilePath)
	require.Len(t, r.Files[1].Issues, 2)
	assert.Equal(t, "COMPLETENESS-METHOD-001-2", r.Files[1].Issues[1].ID)
	assert.Equal(t, "orphan.adoc", r.Files[2].FilePath)
}

func TestAggregate_SummaryAndStatus(t *testing.T) {
	warnOnly := report.Aggregate(report.Input{Issues: []domain.ValidationIssue{
		issue("QUALITY-DESCRIPTION-001", domain.CategoryQuality, domain.SeverityWarning, ""),
	}})
	assert.Equal(t, domain.StatusValid, warnOnly.Status())

	mixed := report.Aggregate(report.Input{Issues: []domain.ValidationIssue{
		issue("QUALITY-DESCRIPTION-001", domain.CategoryQuality, domain.SeverityWarning, ""),
		issue("SYNTAX-LINK-001", domain.CategorySyntax, domain.SeverityError, ""),
	}})
	s := mixed.Summary()
	assert.Equal(t, domain.StatusInvalid, s.Status)
	assert.Equal(t, 2, s.TotalIssues)
	assert.Equal(t, 1, s.Errors)
	assert.Equal(t, 1, s.Warnings)
	assert.Equal(t, 1, s.ByCategory[domain.CategorySyntax])
	assert.Equal(t, 0, s.ByCategory[domain.CategorySemantic])
}

func TestAggregate_WireShape(t *testing.T) {
	r := report.Aggregate(report.Input{
		ID:        "3f0c",
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Grouped:   true,
		Issues: []domain.ValidationIssue{{
			RuleID:   "COMPLETENESS-FILE-001",
			Category: domain.CategoryCompleteness,
			Severity: domain.SeverityWarning,
			Location: domain.IssueLocation{File: "src/Billing.java"},
			Message:  "no documentation found for Billing",
			File:     "Billing.java",
		}},
	})

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var wire struct {
		ValidationID string `json:"validation_id"`
		Timestamp    string `json:"timestamp"`
		Issues       []struct {
			ID       string                 `json:"id"`
			Type     string                 `json:"type"`
			Location map[string]interface{} `json:"location"`
			Issue    string                 `json:"issue"`
		} `json:"issues"`
		Summary struct {
			TotalIssues int    `json:"total_issues"`
			Status      string `json:"status"`
		} `json:"summary"`
		Files []struct {
			FilePath string `json:"file_path"`
		} `json:"files"`
	}
	require.NoError(t, json.Unmarshal(data, &wire))

	assert.Equal(t, "3f0c", wire.ValidationID)
	assert.Equal(t, "2026-01-02T03:04:05Z", wire.Timestamp)
	require.Len(t, wire.Issues, 1)
	assert.Equal(t, "COMPLETENESS-FILE-001-1", wire.Issues[0].ID)
	assert.Equal(t, "COMPLETENESS", wire.Issues[0].Type)
	assert.Equal(t, "src/Billing.java", wire.Issues[0].Location["file"])
	assert.Equal(t, "no documentation found for Billing", wire.Issues[0].Issue)
	assert.Equal(t, 1, wire.Summary.TotalIssues)
	assert.Equal(t, "VALID", wire.Summary.Status)
	require.Len(t, wire.Files, 1)
	assert.Equal(t, "Billing.java", wire.Files[0].FilePath)
}

func TestAggregate_EmptyIssuesSerializeAsArray(t *testing.T) {
	data, err := json.Marshal(report.Aggregate(report.Input{ID: "x"}))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"issues":[]`)
}
