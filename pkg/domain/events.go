package domain

import "context"

// MoveEvent describes a move applied or undone by the engine.
type MoveEvent struct {
	Move       Move      `json:"move"`
	Depth      int       `json:"depth"`
	Quantities []float64 `json:"quantities"` // Snapshot after the move (before the undo for backtracks)
}

// SolveEvent describes the end of a search.
type SolveEvent struct {
	PuzzleKey string  `json:"puzzle_key"`
	Outcome   Outcome `json:"outcome"`
	Steps     int     `json:"steps"`
	Stats     Stats   `json:"stats"`
}

// SearchHooks defines callbacks for engine observability.
// Every field is optional. Hooks run synchronously on the search goroutine.
type SearchHooks struct {
	OnMoveApplied func(context.Context, *MoveEvent)
	OnBacktrack   func(context.Context, *MoveEvent)
	OnSolveEnd    func(context.Context, *SolveEvent)
}
