package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/watercap/internal/cli"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// resetFlags restores defaults, since commands are package globals shared by every test.
func resetFlags() {
	for _, cmd := range rootCmd.Commands() {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			if sv, ok := f.Value.(interface{ Replace([]string) error }); ok {
				_ = sv.Replace(nil)
			} else {
				_ = f.Value.Set(f.DefValue)
			}
			f.Changed = false
		})
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "watercap version "))
}

func TestMovesCommand(t *testing.T) {
	out, err := run(t, "moves", "--buckets", "2")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[0], "pour(1->0)")
	assert.Contains(t, lines[5], "empty(1)")
}

func TestSolveCommand(t *testing.T) {
	out, err := run(t, "solve", "-b", "0:10", "-b", "0:9", "-b", "5:7", "--steps", "5", "--target-bucket", "1", "--target", "4")
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(strings.TrimSpace(out), "\n"))
}

func TestSolveCommand_NoSolution(t *testing.T) {
	_, err := run(t, "solve", "-b", "5", "-b", "3", "--steps", "1", "--target-bucket", "0", "--target", "4")
	assert.Equal(t, 2, cli.ExitCode(err))
}
