package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/watercap"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of watercap",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "watercap version %s\n", strings.TrimSpace(watercap.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
