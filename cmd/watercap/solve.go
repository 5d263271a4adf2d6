package main

import (
	"context"

	"github.com/aretw0/watercap/internal/cli"
	"github.com/spf13/cobra"
)

var solveCmd = &cobra.Command{
	Use:   "solve [puzzle.yaml|-]",
	Short: "Solve a puzzle from a file or flags",
	Long: `Runs the depth-first search and prints one instruction per move.

Examples:
  watercap solve -b 0:10 -b 0:9 -b 5:7 --steps 5 --target-bucket 1 --target 4
  watercap solve puzzle.yaml --output pretty

Exit status is 2 when the puzzle has no solution within the step budget.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		verify, _ := cmd.Flags().GetBool("verify")
		stats, _ := cmd.Flags().GetBool("stats")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		return cli.Solve(ctx, cmd.OutOrStdout(), cli.SolveOptions{
			Puzzle:  puzzleOptions(cmd, args),
			Output:  output,
			Verify:  verify,
			Stats:   stats,
			Timeout: timeout,
			Store:   storeOptions(cmd),
			Log:     logOptions(cmd),
		})
	},
}

func init() {
	rootCmd.AddCommand(solveCmd)

	addPuzzleFlags(solveCmd)
	solveCmd.Flags().StringP("output", "o", cli.OutputText, "Output format: text, json, markdown, pretty or mermaid")
	solveCmd.Flags().Bool("verify", false, "Replay the solution before printing it")
	solveCmd.Flags().Bool("stats", false, "Print search statistics after the solution (text output)")
	solveCmd.Flags().Duration("timeout", 0, "Abort the search after this long (0 disables)")
}
