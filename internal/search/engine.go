package search

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/aretw0/watercap/internal/logging"
	"github.com/aretw0/watercap/pkg/domain"
)

// Config holds the optional behavior of an Engine.
type Config struct {
	// Halving adds the Halve move to the table.
	Halving bool

	// Memo skips snapshots whose subtree already failed with at least as much budget left.
	// It never changes the solution found, only the work done to find it.
	Memo bool

	Hooks  domain.SearchHooks
	Logger *slog.Logger
}

// Engine runs the depth-first search for one puzzle.
// It is not safe for concurrent use; build one engine per goroutine.
type Engine struct {
	puzzle domain.Puzzle
	moves  []domain.Move
	cfg    Config

	state *State
	memo  map[string]int // snapshot key -> largest remaining budget known to fail
	stats domain.Stats
}

// NewEngine builds the move table once. The puzzle must already be validated.
func NewEngine(p domain.Puzzle, cfg Config) *Engine {
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}
	return &Engine{
		puzzle: p,
		moves:  BuildMoveTable(len(p.Buckets), cfg.Halving),
		cfg:    cfg,
	}
}

// Moves returns a copy of the action table, in priority order.
func (e *Engine) Moves() []domain.Move {
	return slices.Clone(e.moves)
}

// Run searches for the first solution under the move table order.
// Exhausting the budget is reported as OutcomeNoSolution with a nil error;
// the only errors are context cancellation and deadline.
func (e *Engine) Run(ctx context.Context) (*domain.Solution, error) {
	start := time.Now()

	e.state = NewState(e.puzzle)
	e.stats = domain.Stats{}
	e.memo = nil
	if e.cfg.Memo {
		e.memo = make(map[string]int)
	}

	e.cfg.Logger.Debug("search started",
		"puzzle", e.puzzle.Key(),
		"moves", len(e.moves),
		"memo", e.cfg.Memo,
	)

	log := []domain.Move{}
	found := e.state.IsGoal(e.puzzle.Target)
	if !found {
		var err error
		found, err = e.search(ctx, 1, &log)
		if err != nil {
			e.cfg.Logger.Debug("search aborted", "puzzle", e.puzzle.Key(), "err", err)
			return nil, err
		}
	}

	// Moves were appended while unwinding, deepest first.
	slices.Reverse(log)

	e.stats.Duration = time.Since(start)
	sol := &domain.Solution{
		Puzzle:  e.puzzle,
		Outcome: domain.OutcomeNoSolution,
		Moves:   []domain.Move{},
		Stats:   e.stats,
	}
	if found {
		sol.Outcome = domain.OutcomeSolved
		sol.Moves = log
	}

	e.cfg.Logger.Debug("search finished",
		"puzzle", e.puzzle.Key(),
		"outcome", sol.Outcome,
		"steps", len(sol.Moves),
		"applied", e.stats.Applied,
		"backtracks", e.stats.Backtracks,
		"duration", e.stats.Duration,
	)

	if e.cfg.Hooks.OnSolveEnd != nil {
		e.cfg.Hooks.OnSolveEnd(ctx, &domain.SolveEvent{
			PuzzleKey: e.puzzle.Key(),
			Outcome:   sol.Outcome,
			Steps:     len(sol.Moves),
			Stats:     sol.Stats,
		})
	}

	return sol, nil
}

// search explores every move at the given depth. On entry the stack holds depth snapshots.
func (e *Engine) search(ctx context.Context, depth int, log *[]domain.Move) (bool, error) {
	// 1. Cancellation check
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	default:
	}

	// 2. Budget
	if depth > e.puzzle.MaxSteps {
		return false, nil
	}

	// 3. Try each move in table order
	for _, m := range e.moves {
		if !e.state.Apply(m) {
			continue
		}
		e.applied(ctx, m, depth)

		if e.state.IsGoal(e.puzzle.Target) {
			*log = append(*log, m)
			return true, nil
		}

		remaining := e.puzzle.MaxSteps - depth
		if e.memo != nil {
			if budget, ok := e.memo[e.state.key()]; ok && budget >= remaining {
				e.stats.Pruned++
				e.undo(ctx, m, depth)
				continue
			}
		}

		ok, err := e.search(ctx, depth+1, log)
		if err != nil {
			return false, err
		}
		if ok {
			*log = append(*log, m)
			return true, nil
		}

		if e.memo != nil {
			key := e.state.key()
			if budget, seen := e.memo[key]; !seen || budget < remaining {
				e.memo[key] = remaining
			}
		}
		e.undo(ctx, m, depth)
	}

	return false, nil
}

func (e *Engine) applied(ctx context.Context, m domain.Move, depth int) {
	e.stats.Applied++
	if depth > e.stats.MaxDepth {
		e.stats.MaxDepth = depth
	}
	if e.cfg.Hooks.OnMoveApplied != nil {
		e.cfg.Hooks.OnMoveApplied(ctx, &domain.MoveEvent{Move: m, Depth: depth, Quantities: e.state.Current()})
	}
}

func (e *Engine) undo(ctx context.Context, m domain.Move, depth int) {
	if e.cfg.Hooks.OnBacktrack != nil {
		e.cfg.Hooks.OnBacktrack(ctx, &domain.MoveEvent{Move: m, Depth: depth, Quantities: e.state.Current()})
	}
	e.stats.Backtracks++
	e.state.Undo()
}
