package sarif_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkraft/docsync/internal/adapters/outbound/sarif"
	"github.com/openkraft/docsync/internal/domain"
)

type sarifLog struct {
	Version string `json:"version"`
	Runs    []struct {
		Tool struct {
			Driver struct {
				Name  string `json:"name"`
				Rules []struct {
					ID            string                 `json:"id"`
					DefaultConfig struct{ Level string } `json:"defaultConfiguration"`
				} `json:"rules"`
			} `json:"driver"`
		} `json:"tool"`
		Results []struct {
			RuleID    string                `json:"ruleId"`
			Level     string                `json:"level"`
			Message   struct{ Text string } `json:"message"`
			Locations []struct {
				PhysicalLocation struct {
					ArtifactLocation struct{ URI string }     `json:"artifactLocation"`
					Region           *struct{ StartLine int } `json:"region"`
				} `json:"physicalLocation"`
			} `json:"locations"`
		} `json:"results"`
	} `json:"runs"`
}

func TestWrite(t *testing.T) {
	report := &domain.ValidationReport{
		Issues: []domain.ValidationIssue{
			{
				RuleID:   "SEMANTIC-METHOD-001",
				Severity: domain.SeverityError,
				Message:  "Method 'refund' is documented but does not exist in PaymentService",
				Location: domain.IssueLocation{File: "payment_service.adoc", Line: 12},
				File:     "payment_service.py | payment_service.adoc",
			},
			{
				RuleID:   "SEMANTIC-METHOD-001",
				Severity: domain.SeverityError,
				Message:  "Method 'charge' is documented but does not exist in PaymentService",
				File:     "payment_service.py | payment_service.adoc",
			},
			{
				RuleID:   "QUALITY-EXAMPLES-001",
				Severity: domain.SeverityWarning,
				Message:  "Document has 0 examples, expected at least 1",
			},
		},
	}
	rules := []domain.ValidationRule{{ID: "SEMANTIC-METHOD-001", Name: "Documented methods exist"}}

	var buf bytes.Buffer
	require.NoError(t, sarif.Write(&buf, report, rules))

	var log sarifLog
	require.NoError(t, json.Unmarshal(buf.Bytes(), &log))
	assert.Equal(t, "2.1.0", log.Version)
	require.Len(t, log.Runs, 1)
	run := log.Runs[0]
	assert.Equal(t, "docsync", run.Tool.Driver.Name)

	require.Len(t, run.Tool.Driver.Rules, 2)
	assert.Equal(t, "SEMANTIC-METHOD-001", run.Tool.Driver.Rules[0].ID)
	assert.Contains(t, buf.String(), "Documented methods exist")
	assert.Equal(t, "warning", run.Tool.Driver.Rules[1].DefaultConfig.Level)

	require.Len(t, run.Results, 3)
	first := run.Results[0]
	assert.Equal(t, "error", first.Level)
	require.Len(t, first.Locations, 1)
	assert.Equal(t, "payment_service.adoc", first.Locations[0].PhysicalLocation.ArtifactLocation.URI)
	require.NotNil(t, first.Locations[0].PhysicalLocation.Region)
	assert.Equal(t, 12, first.Locations[0].PhysicalLocation.Region.StartLine)

	second := run.Results[1]
	require.Len(t, second.Locations, 1)
	assert.Equal(t, "payment_service.py", second.Locations[0].PhysicalLocation.ArtifactLocation.URI)
	assert.Nil(t, second.Locations[0].PhysicalLocation.Region)

	assert.Empty(t, run.Results[2].Locations)
}

func TestBuild_EmptyReport(t *testing.T) {
	out, err := sarif.Build(&domain.ValidationReport{}, nil)
	require.NoError(t, err)
	require.Len(t, out.Runs, 1)
	assert.Empty(t, out.Runs[0].Results)
}
