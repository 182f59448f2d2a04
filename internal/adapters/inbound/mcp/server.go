package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/openkraft/docsync/internal/application"
	"github.com/openkraft/docsync/internal/domain"
)

// Deps are the collaborators shared by all tools and resources.
type Deps struct {
	Service *application.ValidationService
	// History is optional; without it project saves and the history
	// resource are unavailable.
	History domain.ReportHistory
	// ProjectPath anchors relative paths passed by clients.
	ProjectPath string
}

// NewDocsyncMCPServer creates an MCP server with all docsync tools and
// resources registered.
func NewDocsyncMCPServer(d Deps) *server.MCPServer {
	if d.ProjectPath == "" {
		d.ProjectPath = "."
	}
	s := server.NewMCPServer(
		"docsync",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, d)
	registerResources(s, d)

	return s
}
