package main

import (
	"context"

	"github.com/aretw0/watercap/internal/cli"
	mcpAdapter "github.com/aretw0/watercap/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the solver as an MCP Server, exposing solve_puzzle, move_table and
verify_solution as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")
		solveTimeout, _ := cmd.Flags().GetDuration("solve-timeout")
		maxSteps, _ := cmd.Flags().GetInt("max-steps-limit")

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		return cli.ServeMCP(ctx, cli.MCPOptions{
			Transport:     transport,
			Port:          port,
			SolveTimeout:  solveTimeout,
			MaxStepsLimit: maxSteps,
			Store:         storeOptions(cmd),
			Log:           logOptions(cmd),
		})
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
	mcpCmd.Flags().Duration("solve-timeout", mcpAdapter.DefaultSolveTimeout, "Abort searches that run longer (0 disables)")
	mcpCmd.Flags().Int("max-steps-limit", mcpAdapter.DefaultMaxStepsLimit, "Largest step budget a client may request (0 disables)")
}
