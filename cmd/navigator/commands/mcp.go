// ABOUTME: MCP command starts the Model Context Protocol server
// ABOUTME: Lets LLM agents route hospital requests via stdio
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/harper/hospital-navigator/internal/mcp"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs the navigator as an MCP (Model Context Protocol) server so LLM
agents can route requests and drive the conversation over stdio.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by an MCP client)
  navigator mcp

  # Configure in an MCP client config file:
  # {
  #   "mcpServers": {
  #     "navigator": {
  #       "command": "navigator",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

func runMCP(cmd *cobra.Command, args []string) error {
	// stdout carries the protocol; logs go to stderr
	a, err := newApp(os.Stderr, !noStore)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if a.cfg.APIKey() == "" {
		a.logger.Warn("OPENAI_API_KEY not set; every routing call will fail until it is")
	}

	server := mcp.NewServer(versionInfo.Version, a.gateway, a.navigator)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.logger.Info("MCP server starting on stdio", "session", a.sessionID())

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
