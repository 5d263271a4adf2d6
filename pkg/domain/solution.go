package domain

import "time"

// Outcome is the result category of a search.
type Outcome string

const (
	OutcomeSolved     Outcome = "solved"
	OutcomeNoSolution Outcome = "no_solution"
)

// Stats reports how much work a search did.
type Stats struct {
	Applied    int           `json:"applied"`    // Moves successfully applied (nodes expanded)
	Backtracks int           `json:"backtracks"` // Moves undone
	Pruned     int           `json:"pruned"`     // Subtrees skipped through memoization
	MaxDepth   int           `json:"max_depth"`  // Deepest stack height reached, in moves
	Duration   time.Duration `json:"duration"`
}

// Solution is what a search returns.
// Moves is empty unless Outcome is OutcomeSolved, and in execution order.
type Solution struct {
	Puzzle  Puzzle  `json:"puzzle"`
	Outcome Outcome `json:"outcome"`
	Moves   []Move  `json:"moves"`
	Stats   Stats   `json:"stats"`
}

// Found reports whether the search reached the target.
func (s *Solution) Found() bool {
	return s != nil && s.Outcome == OutcomeSolved
}
