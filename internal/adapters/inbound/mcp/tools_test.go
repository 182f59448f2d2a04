package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkraft/docsync/internal/adapters/outbound/analyzer"
	"github.com/openkraft/docsync/internal/adapters/outbound/history"
	"github.com/openkraft/docsync/internal/adapters/outbound/scanner"
	"github.com/openkraft/docsync/internal/application"
	"github.com/openkraft/docsync/internal/domain"
)

const calculatorDoc = `= Class calculator

== Methods

=== add

Adds two numbers.

Parameters:

* a - first operand
* b - second operand
`

func testDeps(t *testing.T) Deps {
	t.Helper()
	cfg := domain.DefaultConfig()
	reg := analyzer.NewDefaultRegistry()
	svc, err := application.NewValidationService(cfg, reg, scanner.New(reg.Extensions(), cfg.Analysis))
	require.NoError(t, err)

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "docs"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "calculator.py"),
		[]byte("def add(a: int, b: int) -> int:\n    return a + b\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "docs", "calculator.adoc"), []byte(calculatorDoc), 0644))

	return Deps{Service: svc, History: history.New(), ProjectPath: root}
}

func call(t *testing.T, h func(context.Context, mcplib.CallToolRequest) (*mcplib.CallToolResult, error), args map[string]any) (*mcplib.CallToolResult, string) {
	t.Helper()
	var req mcplib.CallToolRequest
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcplib.TextContent)
	require.True(t, ok)
	return res, text.Text
}

func decode(t *testing.T, text string) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	return out
}

func TestValidateDocumentTool(t *testing.T) {
	d := testDeps(t)
	res, text := call(t, handleValidateDocument(d), map[string]any{"markup": calculatorDoc, "source": "calculator.adoc"})
	require.False(t, res.IsError, text)

	out := decode(t, text)
	assert.Equal(t, "calculator.adoc", out["source"])
	assert.Contains(t, out, "validation_id")
	assert.Contains(t, out, "summary")
}

func TestValidateDocumentTool_MissingMarkup(t *testing.T) {
	res, _ := call(t, handleValidateDocument(testDeps(t)), map[string]any{})
	assert.True(t, res.IsError)
}

func TestValidatePairTool(t *testing.T) {
	d := testDeps(t)
	res, text := call(t, handleValidatePair(d), map[string]any{
		"markup":      calculatorDoc,
		"source_path": "calculator.py",
		"doc_name":    "calculator.adoc",
	})
	require.False(t, res.IsError, text)

	out := decode(t, text)
	assert.Equal(t, "calculator.py | calculator.adoc", out["source"])
	mappings, ok := out["mappings"].([]any)
	require.True(t, ok)
	assert.Len(t, mappings, 1)
}

func TestValidatePairTool_MissingSource(t *testing.T) {
	res, text := call(t, handleValidatePair(testDeps(t)), map[string]any{
		"markup":      calculatorDoc,
		"source_path": "nope.py",
	})
	assert.True(t, res.IsError)
	assert.Contains(t, text, "validate failed")
}

func TestValidateProjectTool_Save(t *testing.T) {
	d := testDeps(t)
	res, text := call(t, handleValidateProject(d), map[string]any{"save": true})
	require.False(t, res.IsError, text)

	entries, err := d.History.Load(d.ProjectPath)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, decode(t, text)["validation_id"], entries[0].ValidationID)

	contents, err := handleHistoryResource(d)(context.Background(), mcplib.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)
	assert.Contains(t, contents[0].(mcplib.TextResourceContents).Text, entries[0].ValidationID)
}

func TestListRulesToolAndResource(t *testing.T) {
	d := testDeps(t)
	_, text := call(t, handleListRules(d), nil)
	var rules []domain.ValidationRule
	require.NoError(t, json.Unmarshal([]byte(text), &rules))
	assert.Len(t, rules, len(domain.DefaultRules()))

	contents, err := handleRulesResource(d)(context.Background(), mcplib.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)
	assert.Equal(t, rulesURI, contents[0].(mcplib.TextResourceContents).URI)
}
