package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	rulesURI   = "docsync://rules"
	historyURI = "docsync://history"
)

// registerResources registers all docsync MCP resources on the given server.
func registerResources(s *server.MCPServer, d Deps) {
	// 1. docsync://rules - active rule set
	s.AddResource(
		mcplib.NewResource(
			rulesURI,
			"Validation Rules",
			mcplib.WithResourceDescription("Rules applied by every validation"),
			mcplib.WithMIMEType("application/json"),
		),
		handleRulesResource(d),
	)

	// 2. docsync://history - saved project report digests
	if d.History != nil {
		s.AddResource(
			mcplib.NewResource(
				historyURI,
				"Validation History",
				mcplib.WithResourceDescription("Digests of saved project validations, oldest first"),
				mcplib.WithMIMEType("application/json"),
			),
			handleHistoryResource(d),
		)
	}
}

func handleRulesResource(d Deps) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		return jsonResource(rulesURI, d.Service.Rules())
	}
}

func handleHistoryResource(d Deps) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		entries, err := d.History.Load(d.ProjectPath)
		if err != nil {
			return nil, fmt.Errorf("loading history: %w", err)
		}
		return jsonResource(historyURI, entries)
	}
}

func jsonResource(uri string, v any) ([]mcplib.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
