package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/watercap/internal/search"
	"github.com/aretw0/watercap/pkg/domain"
)

// GenerateMermaid produces a Mermaid flowchart of the states a solution walks through.
// It applies semantic styling:
// - Initial configuration: ((Circle))
// - Goal configuration: ([Stadium])
// - Default: [Rectangle]
// Edges are labelled with the move that links two states.
// A solution without moves still renders its initial state.
func GenerateMermaid(sol *domain.Solution) (string, error) {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	moves := sol.Moves
	if !sol.Found() {
		moves = nil
	}
	states, err := search.Trajectory(sol.Puzzle, moves)
	if err != nil {
		return "", err
	}

	last := len(states) - 1
	for i, q := range states {
		opener, closer := "[", "]"
		switch {
		case i == 0:
			opener, closer = "((", "))"
		case i == last && sol.Found():
			opener, closer = "([", "])"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", stateID(i), opener, label(q), closer)
	}

	for i, m := range moves {
		fmt.Fprintf(&sb, "    %s -->|\"%s\"| %s\n", stateID(i), m, stateID(i+1))
	}

	sb.WriteString("\n    %% Overlay Styles\n")
	// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
	sb.WriteString("    classDef start fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
	sb.WriteString("    class s0 start;\n")
	if sol.Found() {
		sb.WriteString("    classDef goal fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		fmt.Fprintf(&sb, "    class %s goal;\n", stateID(last))
	}

	return sb.String(), nil
}

func stateID(i int) string {
	return fmt.Sprintf("s%d", i)
}

func label(q []float64) string {
	parts := make([]string, len(q))
	for i, v := range q {
		parts[i] = domain.FormatQuantity(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
