package watercap_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/watercap"
	"github.com/aretw0/watercap/pkg/domain"
	"github.com/aretw0/watercap/pkg/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func referencePuzzle() domain.Puzzle {
	return domain.Puzzle{
		MaxSteps: 5,
		Buckets: []domain.Bucket{
			{Quantity: 0.0, Capacity: 10.0},
			{Quantity: 0.0, Capacity: 9.0},
			{Quantity: 5.0, Capacity: 7.0},
		},
		Target: domain.Target{Bucket: 1, Quantity: 4.0},
	}
}

func TestSolve_ReferenceResult(t *testing.T) {
	puzzle := referencePuzzle()
	sol, err := watercap.Solve(context.Background(), puzzle)
	require.NoError(t, err)
	require.True(t, sol.Found())

	text := format.Text(puzzle, sol.Moves)
	assert.Equal(t, 4, strings.Count(text, "\n"))
	assert.Len(t, sol.Moves, 5)
	assert.NoError(t, watercap.Verify(sol))
}

func TestNew_BucketError(t *testing.T) {
	puzzle := domain.Puzzle{
		MaxSteps: 5,
		Buckets:  []domain.Bucket{{Quantity: 4.0, Capacity: 3.0}},
		Target:   domain.Target{Bucket: 0, Quantity: 1},
	}

	var hookCalled bool
	solver, err := watercap.New(puzzle, watercap.WithSearchHooks(domain.SearchHooks{
		OnMoveApplied: func(context.Context, *domain.MoveEvent) { hookCalled = true },
	}))

	assert.Nil(t, solver)
	var bucketErr *domain.BucketError
	require.ErrorAs(t, err, &bucketErr)
	assert.Equal(t, 0, bucketErr.Index)
	assert.False(t, hookCalled, "no search step may run")
}

func TestNew_SolverError(t *testing.T) {
	puzzle := referencePuzzle()
	puzzle.Target.Bucket = 7

	_, err := watercap.New(puzzle)
	assert.ErrorIs(t, err, domain.ErrInvalidPuzzle)
	assert.NotErrorIs(t, err, domain.ErrInvalidBucket)
}

func TestNew_StrictCapacityCheck(t *testing.T) {
	puzzle := referencePuzzle()
	puzzle.Target.Quantity = 12

	_, err := watercap.New(puzzle)
	require.NoError(t, err, "lenient mode accepts an unreachable target")

	_, err = watercap.New(puzzle, watercap.WithStrictCapacityCheck(true))
	assert.ErrorIs(t, err, domain.ErrInvalidPuzzle)
}

func TestSolve_NoSolutionIsNotAnError(t *testing.T) {
	sol, err := watercap.Solve(context.Background(), domain.Puzzle{
		MaxSteps: 1,
		Buckets:  []domain.Bucket{{Capacity: 5}, {Capacity: 3}},
		Target:   domain.Target{Bucket: 0, Quantity: 4},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeNoSolution, sol.Outcome)
	assert.Empty(t, sol.Moves)
	assert.ErrorIs(t, watercap.Verify(sol), domain.ErrNoSolution)
}

func TestSolver_Deterministic(t *testing.T) {
	solver, err := watercap.New(referencePuzzle())
	require.NoError(t, err)

	first, err := solver.Solve(context.Background())
	require.NoError(t, err)
	second, err := solver.Solve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.Moves, second.Moves)
}

func TestSolver_ConcurrentSolves(t *testing.T) {
	solver, err := watercap.New(referencePuzzle(), watercap.WithMemo())
	require.NoError(t, err)

	want, err := solver.Solve(context.Background())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sol, err := solver.Solve(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, want.Moves, sol.Moves)
		}()
	}
	wg.Wait()
}

func TestSolver_OwnsPuzzle(t *testing.T) {
	puzzle := referencePuzzle()
	solver, err := watercap.New(puzzle)
	require.NoError(t, err)

	puzzle.Buckets[2].Quantity = 0
	assert.Equal(t, 5.0, solver.Puzzle().Buckets[2].Quantity)
}

func TestSolver_KeyAndMoves(t *testing.T) {
	plain, err := watercap.New(referencePuzzle())
	require.NoError(t, err)
	halving, err := watercap.New(referencePuzzle(), watercap.WithHalving())
	require.NoError(t, err)

	assert.NotEqual(t, plain.Key(), halving.Key())
	assert.Len(t, plain.Moves(), 12)
	assert.Len(t, halving.Moves(), 15)
}

func TestSolve_DeadlineExceeded(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	_, err := watercap.Solve(ctx, referencePuzzle())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestVerify_RejectsTamperedSolution(t *testing.T) {
	sol, err := watercap.Solve(context.Background(), referencePuzzle())
	require.NoError(t, err)

	tampered := *sol
	tampered.Moves = append([]domain.Move(nil), sol.Moves[:4]...)
	assert.Error(t, watercap.Verify(&tampered))

	tampered.Moves = append(tampered.Moves, domain.Empty(0), domain.Pour(2, 0))
	assert.Error(t, watercap.Verify(&tampered), "over budget")
}
