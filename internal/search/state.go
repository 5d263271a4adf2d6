package search

import (
	"strconv"
	"strings"

	"github.com/aretw0/watercap/pkg/domain"
)

// State is the snapshot stack of a search.
// Index 0 holds the initial quantities, the last element the current ones.
// It never grows beyond maxSteps+1 snapshots.
type State struct {
	capacities []float64
	maxSteps   int
	stack      [][]float64
}

// NewState creates the stack for a puzzle, holding only its initial configuration.
func NewState(p domain.Puzzle) *State {
	return &State{
		capacities: p.Capacities(),
		maxSteps:   p.MaxSteps,
		stack:      [][]float64{p.Quantities()},
	}
}

// Height returns the number of snapshots, i.e. applied moves + 1.
func (s *State) Height() int {
	return len(s.stack)
}

// Current returns a copy of the top snapshot.
func (s *State) Current() []float64 {
	return append([]float64(nil), s.top()...)
}

func (s *State) top() []float64 {
	return s.stack[len(s.stack)-1]
}

// CanMove reports whether one more move fits in the step budget.
func (s *State) CanMove() bool {
	return len(s.stack) <= s.maxSteps
}

// IsFull reports whether bucket i holds exactly its capacity.
func (s *State) IsFull(i int) bool {
	return s.top()[i] == s.capacities[i]
}

// IsEmpty reports whether bucket i holds nothing.
func (s *State) IsEmpty(i int) bool {
	return s.top()[i] == 0.0
}

// IsGoal reports whether the target bucket holds exactly the target quantity.
func (s *State) IsGoal(t domain.Target) bool {
	return s.top()[t.Bucket] == t.Quantity
}

// Apply pushes the snapshot produced by m. It returns false, leaving the
// stack untouched, when the budget is spent or the move is pointless.
func (s *State) Apply(m domain.Move) bool {
	if !s.CanMove() {
		return false
	}

	switch m.Kind {
	case domain.MoveFill:
		return s.fill(m.To)
	case domain.MoveEmpty:
		return s.empty(m.To)
	case domain.MovePour:
		return s.pour(m.From, m.To)
	case domain.MoveHalve:
		return s.halve(m.To)
	default:
		return false
	}
}

func (s *State) fill(i int) bool {
	if s.IsFull(i) {
		return false
	}
	next := s.Current()
	next[i] = s.capacities[i]
	s.push(next)
	return true
}

func (s *State) empty(i int) bool {
	if s.IsEmpty(i) {
		return false
	}
	next := s.Current()
	next[i] = 0.0
	s.push(next)
	return true
}

func (s *State) halve(i int) bool {
	if s.IsEmpty(i) {
		return false
	}
	next := s.Current()
	next[i] /= 2.0
	s.push(next)
	return true
}

// pour moves liquid from src into dst until dst is full or src is empty.
func (s *State) pour(src, dst int) bool {
	if s.IsEmpty(src) {
		return false
	}
	next := s.Current()
	total := next[dst] + next[src]
	if total <= s.capacities[dst] {
		next[dst] = total
		next[src] = 0.0
	} else {
		next[dst] = s.capacities[dst]
		next[src] = total - s.capacities[dst]
	}
	s.push(next)
	return true
}

func (s *State) push(next []float64) {
	s.stack = append(s.stack, next)
}

// Undo pops the last applied move. The initial snapshot is never removed.
func (s *State) Undo() {
	if len(s.stack) > 1 {
		s.stack = s.stack[:len(s.stack)-1]
	}
}

// key identifies the top snapshot for memoization.
func (s *State) key() string {
	var sb strings.Builder
	for i, q := range s.top() {
		if i > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(strconv.FormatFloat(q, 'g', -1, 64))
	}
	return sb.String()
}
