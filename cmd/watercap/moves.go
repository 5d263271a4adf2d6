package main

import (
	"fmt"

	"github.com/aretw0/watercap/internal/search"
	"github.com/spf13/cobra"
)

var movesCmd = &cobra.Command{
	Use:   "moves",
	Short: "Print the move table in search order",
	Long:  `Lists the moves the search tries at every step, in the order it tries them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, _ := cmd.Flags().GetInt("buckets")
		halving, _ := cmd.Flags().GetBool("halving")
		if n < 1 {
			return fmt.Errorf("--buckets must be at least 1")
		}

		for i, m := range search.BuildMoveTable(n, halving) {
			fmt.Fprintf(cmd.OutOrStdout(), "%3d  %s\n", i, m)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(movesCmd)
	movesCmd.Flags().IntP("buckets", "n", 3, "Number of buckets")
	movesCmd.Flags().Bool("halving", false, "Include halving moves")
}
