package main

import (
	"fmt"
	"os"

	"github.com/aretw0/watercap/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "watercap",
	Short: "watercap solves water jug puzzles",
	Long: `watercap finds a sequence of fill, empty and pour moves that leaves one bucket
holding a target quantity, within a maximum number of steps.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if code := cli.ExitCode(err); code != 2 {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging to stderr")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")
	rootCmd.PersistentFlags().String("redis-url", "", "Cache solutions in Redis (redis://host:port/db)")
	rootCmd.PersistentFlags().Duration("cache-ttl", 0, "Expiration of cached solutions (0 keeps them)")
	rootCmd.PersistentFlags().String("cache-dir", "", "Cache solutions as JSON files in this directory")
}

func logOptions(cmd *cobra.Command) cli.LogOptions {
	debug, _ := cmd.Flags().GetBool("debug")
	level, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("log-json")
	return cli.LogOptions{Debug: debug, Level: level, JSON: jsonLogs}
}

func storeOptions(cmd *cobra.Command) cli.StoreOptions {
	url, _ := cmd.Flags().GetString("redis-url")
	ttl, _ := cmd.Flags().GetDuration("cache-ttl")
	dir, _ := cmd.Flags().GetString("cache-dir")
	return cli.StoreOptions{RedisURL: url, TTL: ttl, Dir: dir}
}

// addPuzzleFlags registers the flags that describe a puzzle without a file.
func addPuzzleFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayP("bucket", "b", nil, "Bucket as quantity:capacity, or capacity alone (repeatable)")
	cmd.Flags().IntP("steps", "s", 0, "Maximum number of moves")
	cmd.Flags().IntP("target-bucket", "t", 0, "Index of the target bucket")
	cmd.Flags().Float64P("target", "q", 0, "Quantity the target bucket must hold")
	cmd.Flags().Bool("strict", false, "Reject zero capacities and targets the bucket cannot hold")
	cmd.Flags().Bool("halving", false, "Allow halving a bucket as an extra move")
	cmd.Flags().Bool("memo", false, "Skip states that already failed with at least as many steps left")
}

func puzzleOptions(cmd *cobra.Command, args []string) cli.PuzzleOptions {
	opts := cli.PuzzleOptions{Set: map[string]bool{}}
	if len(args) > 0 {
		opts.File = args[0]
	}
	opts.Buckets, _ = cmd.Flags().GetStringArray("bucket")
	opts.MaxSteps, _ = cmd.Flags().GetInt("steps")
	opts.TargetBucket, _ = cmd.Flags().GetInt("target-bucket")
	opts.TargetQuantity, _ = cmd.Flags().GetFloat64("target")
	opts.Strict, _ = cmd.Flags().GetBool("strict")
	opts.Halving, _ = cmd.Flags().GetBool("halving")
	opts.Memo, _ = cmd.Flags().GetBool("memo")
	for _, name := range []string{"steps", "target-bucket", "target"} {
		opts.Set[name] = cmd.Flags().Changed(name)
	}
	return opts
}
