package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/watercap/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ContractSolution returns a small solved solution used by RunSolutionStoreContract.
func ContractSolution() *domain.Solution {
	return &domain.Solution{
		Puzzle: domain.Puzzle{
			MaxSteps: 6,
			Buckets:  []domain.Bucket{{Capacity: 5}, {Capacity: 3}},
			Target:   domain.Target{Bucket: 0, Quantity: 4},
		},
		Outcome: domain.OutcomeSolved,
		Moves: []domain.Move{
			domain.Fill(0), domain.Pour(0, 1), domain.Empty(1),
			domain.Pour(0, 1), domain.Fill(0), domain.Pour(0, 1),
		},
		Stats: domain.Stats{Applied: 401, Backtracks: 395, MaxDepth: 6, Duration: time.Millisecond},
	}
}

// RunSolutionStoreContract runs a suite of tests to verify that a SolutionStore implementation
// adheres to the defined interface contract.
func RunSolutionStoreContract(t *testing.T, store SolutionStore) {
	ctx := context.Background()
	key := "contract-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		sol := ContractSolution()

		err := store.Save(ctx, key, sol)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, sol.Outcome, loaded.Outcome)
		assert.Equal(t, sol.Moves, loaded.Moves)
		assert.Equal(t, sol.Puzzle, loaded.Puzzle)
		assert.Equal(t, sol.Stats.Applied, loaded.Stats.Applied)
	})

	t.Run("Load is isolated from caller", func(t *testing.T) {
		sol := ContractSolution()
		require.NoError(t, store.Save(ctx, key, sol))

		sol.Moves[0] = domain.Empty(0)
		loaded, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, domain.Fill(0), loaded.Moves[0])

		loaded.Moves[0] = domain.Empty(1)
		again, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, domain.Fill(0), again.Moves[0])
	})

	t.Run("No solution outcome", func(t *testing.T) {
		sol := &domain.Solution{
			Puzzle:  ContractSolution().Puzzle,
			Outcome: domain.OutcomeNoSolution,
			Moves:   []domain.Move{},
		}
		require.NoError(t, store.Save(ctx, key+"-none", sol))
		defer func() { _ = store.Delete(ctx, key+"-none") }()

		loaded, err := store.Load(ctx, key+"-none")
		require.NoError(t, err)
		assert.False(t, loaded.Found())
		assert.Empty(t, loaded.Moves)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+key)
		assert.ErrorIs(t, err, domain.ErrSolutionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, key, ContractSolution()))

		err := store.Delete(ctx, key)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, key)
		assert.ErrorIs(t, err, domain.ErrSolutionNotFound, "Load after Delete should return ErrSolutionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := key + "-1"
		id2 := key + "-2"
		_ = store.Save(ctx, id1, ContractSolution())
		_ = store.Save(ctx, id2, ContractSolution())

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		keys, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, keys, id1)
		assert.Contains(t, keys, id2)
	})
}
