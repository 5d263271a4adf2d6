package search

import (
	"errors"
	"fmt"

	"github.com/aretw0/watercap/pkg/domain"
)

// ErrIllegalMove is returned by Replay when a move cannot be applied.
var ErrIllegalMove = errors.New("search: illegal move")

// Replay applies moves to the initial configuration of p and returns the final
// quantities. The step budget of p is ignored; every move must be legal.
func Replay(p domain.Puzzle, moves []domain.Move) ([]float64, error) {
	states, err := Trajectory(p, moves)
	if err != nil {
		return nil, err
	}
	return states[len(states)-1], nil
}

// Trajectory is like Replay but returns every configuration visited,
// starting with the initial one, so it always holds len(moves)+1 entries.
func Trajectory(p domain.Puzzle, moves []domain.Move) ([][]float64, error) {
	p.MaxSteps = len(moves)
	state := NewState(p)
	n := len(p.Buckets)

	states := make([][]float64, 0, len(moves)+1)
	states = append(states, state.Current())
	for i, m := range moves {
		if m.To < 0 || m.To >= n || (m.Kind == domain.MovePour && (m.From < 0 || m.From >= n || m.From == m.To)) {
			return nil, fmt.Errorf("move %d %s: bucket out of range: %w", i, m, ErrIllegalMove)
		}
		if !state.Apply(m) {
			return nil, fmt.Errorf("move %d %s: %w", i, m, ErrIllegalMove)
		}
		states = append(states, state.Current())
	}
	return states, nil
}
