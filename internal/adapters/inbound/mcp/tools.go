package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/openkraft/docsync/internal/domain"
)

// registerTools registers all docsync MCP tools on the given server.
func registerTools(s *server.MCPServer, d Deps) {
	// 1. docsync_validate_document
	s.AddTool(
		mcplib.NewTool("docsync_validate_document",
			mcplib.WithDescription("Checks an AsciiDoc document's structure, links and quality; returns the validation report as JSON"),
			mcplib.WithString("markup",
				mcplib.Required(),
				mcplib.Description("Document text"),
			),
			mcplib.WithString("source",
				mcplib.Description("Name reported as the document source"),
			),
		),
		handleValidateDocument(d),
	)

	// 2. docsync_validate_pair
	s.AddTool(
		mcplib.NewTool("docsync_validate_pair",
			mcplib.WithDescription("Compares a document with one source file and reports where they disagree"),
			mcplib.WithString("markup",
				mcplib.Required(),
				mcplib.Description("Document text"),
			),
			mcplib.WithString("source_path",
				mcplib.Required(),
				mcplib.Description("Source file, relative to the project path"),
			),
			mcplib.WithString("doc_name",
				mcplib.Description("Document file name used in the report"),
			),
			mcplib.WithString("language",
				mcplib.Description("Source language overriding the file extension (java, python, go)"),
			),
		),
		handleValidatePair(d),
	)

	// 3. docsync_validate_project
	s.AddTool(
		mcplib.NewTool("docsync_validate_project",
			mcplib.WithDescription("Maps every code file to its documentation and validates each pair"),
			mcplib.WithString("code_dir",
				mcplib.Description("Code root relative to the project path (default \".\")"),
			),
			mcplib.WithString("docs_dir",
				mcplib.Description("Documentation root relative to the project path (default \"docs\")"),
			),
			mcplib.WithBoolean("save",
				mcplib.Description("Append a digest of the report to the project history"),
			),
		),
		handleValidateProject(d),
	)

	// 4. docsync_list_rules
	s.AddTool(
		mcplib.NewTool("docsync_list_rules",
			mcplib.WithDescription("Returns the active validation rules as JSON"),
		),
		handleListRules(d),
	)
}

func handleValidateDocument(d Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		markup, err := request.RequireString("markup")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		source := request.GetString("source", "document.adoc")

		report, err := d.Service.ValidateDocument(ctx, markup, source, nil)
		if err != nil {
			return errorResult(fmt.Sprintf("validate failed: %v", err)), nil
		}
		return jsonResult(report)
	}
}

func handleValidatePair(d Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		markup, err := request.RequireString("markup")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		sourcePath, err := request.RequireString("source_path")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		docName := request.GetString("doc_name", "document.adoc")
		lang := domain.ParseLanguage(request.GetString("language", ""))

		report, err := d.Service.ValidatePair(ctx, markup, docName, resolve(d.ProjectPath, sourcePath), lang)
		if err != nil {
			return errorResult(fmt.Sprintf("validate failed: %v", err)), nil
		}
		return jsonResult(report)
	}
}

func handleValidateProject(d Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		codeDir := resolve(d.ProjectPath, request.GetString("code_dir", "."))
		docsDir := resolve(d.ProjectPath, request.GetString("docs_dir", "docs"))

		report, err := d.Service.ValidateProject(ctx, codeDir, docsDir, nil)
		if err != nil {
			return errorResult(fmt.Sprintf("validate failed: %v", err)), nil
		}
		if request.GetBool("save", false) && d.History != nil {
			if err := d.History.Save(codeDir, domain.NewHistoryEntry(report)); err != nil {
				return errorResult(fmt.Sprintf("saving history: %v", err)), nil
			}
		}
		return jsonResult(report)
	}
}

func handleListRules(d Deps) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		return jsonResult(d.Service.Rules())
	}
}

// resolve anchors relative client paths at the project path.
func resolve(projectPath, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(projectPath, p)
}

func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
