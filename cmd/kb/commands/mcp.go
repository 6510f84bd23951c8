// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents to use the knowledge base via stdio
package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harper/kb-standalone/internal/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs the knowledge base as an MCP (Model Context Protocol) server,
exposing ingest, answer, search, list, and remove as tools over stdio.

Configure in Claude Desktop's config file to enable the tools.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by the agent host)
  kb mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "kb": {
  #       "command": "kb",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	p, store, err := newPipeline()
	if err != nil {
		return err
	}

	server := mcpserver.NewMCPServer(
		"Knowledge Base",
		versionInfo.Version,
	)

	mcp.RegisterTools(server, p)

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !quiet {
		log.Println("Knowledge-base MCP server starting on stdio...")
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received, gracefully shutting down...")
		}
		if err := store.Close(); err != nil {
			log.Printf("Warning: Error closing index: %v", err)
		}
		if !quiet {
			log.Println("Shutdown complete")
		}

	case err := <-serverErr:
		store.Close()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
