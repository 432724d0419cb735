package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lexra-labs/lexra-cli/internal/adapters/driving/mcp"
	"github.com/lexra-labs/lexra-cli/internal/core/services"
	"github.com/lexra-labs/lexra-cli/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

By default, the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop and other MCP-compatible AI assistants.

Use --port to start an HTTP server instead, which enables:
  - Testing with MCP Inspector web UI
  - Remote access via HTTP

The server watches the bundle directory and hot-swaps the index when a
new bundle is published, so a long-running server always answers from
the latest corpus.

Examples:
  # Stdio mode (default, for Claude Desktop)
  lexra mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  lexra mcp serve --port 8080

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "lexra": {
        "command": "/path/to/lexra",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	embedder, err := newEmbedder()
	if err != nil {
		return err
	}
	defer embedder.Close()

	lifecycle, err := newLifecycle(cmd.Context(), embedder)
	if err != nil {
		return err
	}

	go func() {
		if err := lifecycle.Watch(cmd.Context()); err != nil {
			logger.Warn("Bundle watch stopped: %v", err)
		}
	}()

	retriever := services.NewRetrieveService(settings.Engine, lifecycle, embedder)
	grounder := services.NewGroundService(settings.Engine, retriever, lifecycle)

	ports := &mcp.Ports{
		Ground:    grounder,
		Retrieve:  retriever,
		Lifecycle: lifecycle,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
