// Package format renders solver moves as human-readable instructions.
package format

import (
	"fmt"
	"strings"

	"github.com/aretw0/watercap/pkg/domain"
)

// Instruction renders one move using the capacities of the puzzle buckets.
func Instruction(p domain.Puzzle, m domain.Move) string {
	switch m.Kind {
	case domain.MovePour:
		return fmt.Sprintf("Add content of the %s litre bucket to the %s litre bucket.",
			capacity(p, m.From), capacity(p, m.To))
	case domain.MoveEmpty:
		return fmt.Sprintf("Empty the %s litre bucket.", capacity(p, m.To))
	case domain.MoveFill:
		return fmt.Sprintf("Fill the %s litre bucket.", capacity(p, m.To))
	case domain.MoveHalve:
		return fmt.Sprintf("Halve the %s litre bucket.", capacity(p, m.To))
	default:
		return fmt.Sprintf("Unknown move %s.", m)
	}
}

func capacity(p domain.Puzzle, i int) string {
	if i < 0 || i >= len(p.Buckets) {
		return "?"
	}
	return domain.FormatQuantity(p.Buckets[i].Capacity)
}

// Lines renders every move, in order.
func Lines(p domain.Puzzle, moves []domain.Move) []string {
	lines := make([]string, len(moves))
	for i, m := range moves {
		lines[i] = Instruction(p, m)
	}
	return lines
}

// Text joins the instructions with newlines, without a trailing one.
func Text(p domain.Puzzle, moves []domain.Move) string {
	return strings.Join(Lines(p, moves), "\n")
}

// Markdown renders a full solution report: the puzzle, the outcome and a numbered list of steps.
func Markdown(sol *domain.Solution) string {
	var sb strings.Builder
	p := sol.Puzzle

	sb.WriteString("# Water capacity puzzle\n\n")
	sb.WriteString("| Bucket | Capacity | Initial |\n|---|---|---|\n")
	for i, b := range p.Buckets {
		fmt.Fprintf(&sb, "| %d | %s | %s |\n", i, domain.FormatQuantity(b.Capacity), domain.FormatQuantity(b.Quantity))
	}
	fmt.Fprintf(&sb, "\nTarget: **%s** litres in the %s litre bucket, at most %d steps.\n\n",
		domain.FormatQuantity(p.Target.Quantity), capacity(p, p.Target.Bucket), p.MaxSteps)

	if !sol.Found() {
		sb.WriteString("_No solution within the step budget._\n")
		return sb.String()
	}
	if len(sol.Moves) == 0 {
		sb.WriteString("_The target is already reached._\n")
		return sb.String()
	}

	sb.WriteString("## Steps\n\n")
	for i, line := range Lines(p, sol.Moves) {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, line)
	}
	return sb.String()
}
