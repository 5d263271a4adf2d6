package tui_test

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/aretw0/watercap/internal/presentation/tui"
	"github.com/aretw0/watercap/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf, "0.1.0\n")

	out := buf.String()
	assert.Contains(t, out, "v0.1.0")
	assert.NotContains(t, out, "\x1b[", "no escape codes when writing to a buffer")
	assert.GreaterOrEqual(t, strings.Count(out, "\n"), 8)
}

func TestRenderSolution(t *testing.T) {
	sol := &domain.Solution{
		Puzzle: domain.Puzzle{
			MaxSteps: 6,
			Buckets:  []domain.Bucket{{Capacity: 5}, {Capacity: 3}},
			Target:   domain.Target{Bucket: 0, Quantity: 4},
		},
		Outcome: domain.OutcomeSolved,
		Moves:   []domain.Move{domain.Fill(0), domain.Pour(0, 1)},
	}

	out, err := tui.RenderSolution(sol, tui.WithStyle("notty"), tui.WithWidth(120))
	require.NoError(t, err)
	assert.Contains(t, out, "Fill the 5 litre bucket.")
	assert.Contains(t, out, "Add content of the 5 litre bucket to the 3 litre bucket.")
}

func TestNewRenderer_UnknownStyle(t *testing.T) {
	_, err := tui.NewRenderer(tui.WithStyle("no-such-style"))
	assert.Error(t, err)
}

func TestTerminalWidth_NotATerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, tui.IsTerminal(f))
	assert.Equal(t, 80, tui.TerminalWidth(f))
}
