package main

import (
	"github.com/aretw0/watercap/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [puzzle.yaml|-]",
	Short: "Check a puzzle definition without solving it",
	Long:  `Loads the puzzle and reports invalid buckets, budgets or targets.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.Validate(cmd.OutOrStdout(), puzzleOptions(cmd, args))
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	addPuzzleFlags(validateCmd)
}
