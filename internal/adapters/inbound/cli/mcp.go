package cli

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	mcpadapter "github.com/openkraft/docsync/internal/adapters/inbound/mcp"
	"github.com/openkraft/docsync/internal/adapters/outbound/history"
)

func newMCPCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the docsync MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd(g))
	return cmd
}

func newMCPServeCmd(g *globalFlags) *cobra.Command {
	var projectPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start docsync MCP server (stdio)",
		Long:  "Start the docsync MCP server using stdio transport. Assistants can validate documents, pairs and whole projects and read the active rules.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if projectPath == "" {
				projectPath = "."
			}
			// stdout carries the protocol; logs stay on stderr.
			s, err := newSession(g, "", cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			srv := mcpadapter.NewDocsyncMCPServer(mcpadapter.Deps{
				Service:     s.svc,
				History:     history.New(),
				ProjectPath: projectPath,
			})
			return server.ServeStdio(srv)
		},
	}

	cmd.Flags().StringVar(&projectPath, "path", "", "Project path (defaults to current working directory)")
	return cmd
}
