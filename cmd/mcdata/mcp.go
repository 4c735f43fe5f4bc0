package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/aretw0/mcdata/internal/cli"
	"github.com/aretw0/mcdata/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp [root...]",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts mcdata as an MCP Server, letting AI agents resolve tags and read
diagnostics as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		// Logs already go to stderr; keep the standard logger off stdout too
		// so that nothing corrupts JSON-RPC.
		log.SetOutput(cmd.ErrOrStderr())

		ws, _, logger, err := openWorkspace(sigCtx, args)
		if err != nil {
			return err
		}
		srv := mcp.NewServer(ws, logger)

		switch transport {
		case "stdio":
			logger.Info("Starting mcdata MCP Server (Stdio)")
			return srv.ServeStdio()
		case "sse":
			logger.Info("Starting mcdata MCP Server (SSE)", "port", port)
			if err := srv.ServeSSE(sigCtx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("MCP server failed: %w", err)
			}
			logger.Info("MCP Server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
