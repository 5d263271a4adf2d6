package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/watercap/internal/presentation/graph"
	"github.com/aretw0/watercap/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jugs() domain.Puzzle {
	return domain.Puzzle{
		MaxSteps: 2,
		Buckets:  []domain.Bucket{{Capacity: 5}, {Capacity: 3}},
		Target:   domain.Target{Bucket: 0, Quantity: 2},
	}
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		sol      *domain.Solution
		contains []string
		excludes []string
	}{
		{
			name: "Solved Path",
			sol: &domain.Solution{
				Puzzle:  jugs(),
				Outcome: domain.OutcomeSolved,
				Moves:   []domain.Move{domain.Fill(0), domain.Pour(0, 1)},
			},
			contains: []string{
				"graph TD",
				`s0(("[0, 0]"))`,
				`s1["[5, 0]"]`,
				`s2(["[2, 3]"])`,
				`s0 -->|"fill(0)"| s1`,
				`s1 -->|"pour(0->1)"| s2`,
				"class s0 start;",
				"class s2 goal;",
			},
		},
		{
			name: "Already Solved",
			sol: &domain.Solution{
				Puzzle:  domain.Puzzle{MaxSteps: 1, Buckets: []domain.Bucket{{Capacity: 5, Quantity: 2}}, Target: domain.Target{Quantity: 2}},
				Outcome: domain.OutcomeSolved,
				Moves:   []domain.Move{},
			},
			contains: []string{`s0(("[2]"))`, "class s0 goal;"},
			excludes: []string{"-->"},
		},
		{
			name: "No Solution",
			sol: &domain.Solution{
				Puzzle:  jugs(),
				Outcome: domain.OutcomeNoSolution,
				Moves:   []domain.Move{},
			},
			contains: []string{`s0(("[0, 0]"))`, "class s0 start;"},
			excludes: []string{"-->", "goal"},
		},
		{
			name: "Fractional Quantities",
			sol: &domain.Solution{
				Puzzle: domain.Puzzle{
					MaxSteps: 1,
					Buckets:  []domain.Bucket{{Capacity: 5, Quantity: 2.5}},
					Target:   domain.Target{Quantity: 1.25},
				},
				Outcome: domain.OutcomeSolved,
				Moves:   []domain.Move{domain.Halve(0)},
			},
			contains: []string{`s0(("[2.5]"))`, `s1(["[1.25]"])`, `-->|"halve(0)"|`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := graph.GenerateMermaid(tt.sol)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, got, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, got, s)
			}
		})
	}
}

func TestGenerateMermaid_IllegalMoves(t *testing.T) {
	_, err := graph.GenerateMermaid(&domain.Solution{
		Puzzle:  jugs(),
		Outcome: domain.OutcomeSolved,
		Moves:   []domain.Move{domain.Empty(0)},
	})
	assert.Error(t, err)
}

func TestGenerateMermaid_OneNodePerState(t *testing.T) {
	got, err := graph.GenerateMermaid(&domain.Solution{
		Puzzle:  jugs(),
		Outcome: domain.OutcomeSolved,
		Moves:   []domain.Move{domain.Fill(0), domain.Pour(0, 1)},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(got, "-->"))
}
