package watercap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/watercap/internal/logging"
	"github.com/aretw0/watercap/internal/search"
	"github.com/aretw0/watercap/pkg/domain"
)

// Solver is the high-level entry point for the watercap library.
// It validates a puzzle once and runs the search engine on demand.
// A Solver is safe for concurrent use: every Solve call owns a fresh engine.
type Solver struct {
	puzzle  domain.Puzzle
	strict  bool
	halving bool
	memo    bool
	hooks   domain.SearchHooks
	logger  *slog.Logger
}

// Option defines a functional option for configuring the Solver.
type Option func(*Solver)

// WithLogger sets a custom structured logger for the solver.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Solver) {
		s.logger = logger
	}
}

// WithSearchHooks registers observability hooks.
func WithSearchHooks(hooks domain.SearchHooks) Option {
	return func(s *Solver) {
		s.hooks = hooks
	}
}

// WithStrictCapacityCheck enables the strict validation mode
// (positive finite capacities, target quantity within the target bucket).
func WithStrictCapacityCheck(strict bool) Option {
	return func(s *Solver) {
		s.strict = strict
	}
}

// WithHalving adds the Halve move to the action table.
func WithHalving() Option {
	return func(s *Solver) {
		s.halving = true
	}
}

// WithMemo enables memoization of failed states. The solution found is unchanged.
func WithMemo() Option {
	return func(s *Solver) {
		s.memo = true
	}
}

// New validates the puzzle and prepares a Solver.
// It returns a *domain.BucketError when a bucket holds more than its capacity
// and a *domain.SolverError for any other invalid definition. No search runs here.
func New(puzzle domain.Puzzle, opts ...Option) (*Solver, error) {
	s := &Solver{}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logging.NewNop()
	}

	if err := puzzle.Validate(s.strict); err != nil {
		return nil, err
	}

	// Own the bucket slice so later caller mutations cannot leak into searches.
	puzzle.Buckets = append([]domain.Bucket(nil), puzzle.Buckets...)
	s.puzzle = puzzle
	return s, nil
}

// Puzzle returns the validated puzzle.
func (s *Solver) Puzzle() domain.Puzzle {
	p := s.puzzle
	p.Buckets = append([]domain.Bucket(nil), s.puzzle.Buckets...)
	return p
}

// Key identifies the search this solver performs, including options that change its result.
func (s *Solver) Key() string {
	if s.halving {
		return s.puzzle.Key() + ":halving"
	}
	return s.puzzle.Key()
}

// Moves returns the ordered action table used by the search.
func (s *Solver) Moves() []domain.Move {
	return search.BuildMoveTable(len(s.puzzle.Buckets), s.halving)
}

// Solve runs the depth-first search.
// A search that exhausts the budget returns a Solution with OutcomeNoSolution and a nil error.
// Errors are only returned when ctx is cancelled or its deadline passes.
func (s *Solver) Solve(ctx context.Context) (*domain.Solution, error) {
	engine := search.NewEngine(s.Puzzle(), search.Config{
		Halving: s.halving,
		Memo:    s.memo,
		Hooks:   s.hooks,
		Logger:  s.logger,
	})

	sol, err := engine.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("search interrupted: %w", err)
	}
	return sol, nil
}

// Solve is a shortcut for New followed by Solver.Solve.
func Solve(ctx context.Context, puzzle domain.Puzzle, opts ...Option) (*domain.Solution, error) {
	s, err := New(puzzle, opts...)
	if err != nil {
		return nil, err
	}
	return s.Solve(ctx)
}

// Verify replays a solution against its puzzle and reports whether it reaches the target
// within the step budget.
func Verify(sol *domain.Solution) error {
	if sol == nil || !sol.Found() {
		return domain.ErrNoSolution
	}
	if err := sol.Puzzle.Validate(false); err != nil {
		return err
	}
	if len(sol.Moves) > sol.Puzzle.MaxSteps {
		return fmt.Errorf("solution uses %d moves, budget is %d", len(sol.Moves), sol.Puzzle.MaxSteps)
	}
	final, err := search.Replay(sol.Puzzle, sol.Moves)
	if err != nil {
		return err
	}
	t := sol.Puzzle.Target
	if final[t.Bucket] != t.Quantity {
		return fmt.Errorf("bucket %d ends with %v, want %v", t.Bucket, final[t.Bucket], t.Quantity)
	}
	return nil
}
