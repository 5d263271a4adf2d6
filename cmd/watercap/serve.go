package main

import (
	"context"
	"os"

	"github.com/aretw0/watercap"
	"github.com/aretw0/watercap/internal/cli"
	"github.com/aretw0/watercap/internal/presentation/tui"
	httpAdapter "github.com/aretw0/watercap/pkg/adapters/http"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Exposes the solver as a JSON API (POST/GET /solve, /moves, /health, /info,
/openapi.yaml) with Prometheus metrics on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		solveTimeout, _ := cmd.Flags().GetDuration("solve-timeout")
		maxSteps, _ := cmd.Flags().GetInt("max-steps-limit")

		if tui.IsTerminal(os.Stdout) {
			tui.PrintBanner(cmd.OutOrStdout(), watercap.Version)
		}

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		return cli.Serve(ctx, cmd.OutOrStdout(), cli.ServeOptions{
			Addr:          ":" + port,
			SolveTimeout:  solveTimeout,
			MaxStepsLimit: maxSteps,
			Store:         storeOptions(cmd),
			Log:           logOptions(cmd),
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().Duration("solve-timeout", httpAdapter.DefaultSolveTimeout, "Abort searches that run longer (0 disables)")
	serveCmd.Flags().Int("max-steps-limit", httpAdapter.DefaultMaxStepsLimit, "Largest step budget a client may request (0 disables)")
}
