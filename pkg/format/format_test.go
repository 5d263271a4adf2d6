package format_test

import (
	"testing"

	"github.com/aretw0/watercap/pkg/domain"
	"github.com/aretw0/watercap/pkg/format"
	"github.com/stretchr/testify/assert"
)

var puzzle = domain.Puzzle{
	MaxSteps: 5,
	Buckets:  []domain.Bucket{{Capacity: 10}, {Capacity: 9}, {Capacity: 7.5, Quantity: 5}},
	Target:   domain.Target{Bucket: 1, Quantity: 4},
}

func TestInstruction(t *testing.T) {
	assert.Equal(t, "Add content of the 7.5 litre bucket to the 10 litre bucket.", format.Instruction(puzzle, domain.Pour(2, 0)))
	assert.Equal(t, "Empty the 9 litre bucket.", format.Instruction(puzzle, domain.Empty(1)))
	assert.Equal(t, "Fill the 10 litre bucket.", format.Instruction(puzzle, domain.Fill(0)))
	assert.Equal(t, "Halve the 7.5 litre bucket.", format.Instruction(puzzle, domain.Halve(2)))
	assert.Equal(t, "Fill the ? litre bucket.", format.Instruction(puzzle, domain.Fill(9)))
	assert.Equal(t, "Unknown move spill(0).", format.Instruction(puzzle, domain.Move{Kind: "spill"}))
}

func TestText(t *testing.T) {
	assert.Equal(t, "", format.Text(puzzle, nil))
	assert.Equal(t,
		"Fill the 9 litre bucket.\nAdd content of the 9 litre bucket to the 10 litre bucket.",
		format.Text(puzzle, []domain.Move{domain.Fill(1), domain.Pour(1, 0)}),
	)
}

func TestMarkdown(t *testing.T) {
	solved := &domain.Solution{
		Puzzle:  puzzle,
		Outcome: domain.OutcomeSolved,
		Moves:   []domain.Move{domain.Fill(1), domain.Pour(1, 0)},
	}
	md := format.Markdown(solved)
	assert.Contains(t, md, "| 2 | 7.5 | 5 |")
	assert.Contains(t, md, "Target: **4** litres in the 9 litre bucket, at most 5 steps.")
	assert.Contains(t, md, "1. Fill the 9 litre bucket.\n2. Add content of the 9 litre bucket to the 10 litre bucket.\n")

	md = format.Markdown(&domain.Solution{Puzzle: puzzle, Outcome: domain.OutcomeNoSolution})
	assert.Contains(t, md, "_No solution within the step budget._")

	md = format.Markdown(&domain.Solution{Puzzle: puzzle, Outcome: domain.OutcomeSolved})
	assert.Contains(t, md, "_The target is already reached._")
}
