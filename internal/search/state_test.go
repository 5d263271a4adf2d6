package search

import (
	"testing"

	"github.com/aretw0/watercap/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoBuckets(steps int) domain.Puzzle {
	return domain.Puzzle{
		MaxSteps: steps,
		Buckets:  []domain.Bucket{{Capacity: 5}, {Capacity: 3}},
		Target:   domain.Target{Bucket: 0, Quantity: 4},
	}
}

func TestState_Predicates(t *testing.T) {
	s := NewState(domain.Puzzle{
		MaxSteps: 2,
		Buckets:  []domain.Bucket{{Capacity: 5, Quantity: 5}, {Capacity: 3}},
		Target:   domain.Target{Bucket: 0, Quantity: 5},
	})

	assert.True(t, s.IsFull(0))
	assert.False(t, s.IsEmpty(0))
	assert.True(t, s.IsEmpty(1))
	assert.False(t, s.IsFull(1))
	assert.True(t, s.IsGoal(domain.Target{Bucket: 0, Quantity: 5}))
	assert.False(t, s.IsGoal(domain.Target{Bucket: 1, Quantity: 5}))
}

func TestState_ApplyPushesCopies(t *testing.T) {
	s := NewState(twoBuckets(3))

	require.True(t, s.Apply(domain.Fill(0)))
	require.True(t, s.Apply(domain.Pour(0, 1)))

	assert.Equal(t, 3, s.Height())
	assert.Equal(t, []float64{0, 0}, s.stack[0], "initial snapshot must not be mutated")
	assert.Equal(t, []float64{5, 0}, s.stack[1])
	assert.Equal(t, []float64{2, 3}, s.Current())

	s.Undo()
	assert.Equal(t, []float64{5, 0}, s.Current())
	s.Undo()
	s.Undo()
	assert.Equal(t, 1, s.Height(), "initial snapshot is never popped")
}

func TestState_IllegalMovesPushNothing(t *testing.T) {
	s := NewState(domain.Puzzle{
		MaxSteps: 5,
		Buckets:  []domain.Bucket{{Capacity: 5, Quantity: 5}, {Capacity: 3}},
	})

	assert.False(t, s.Apply(domain.Fill(0)), "already full")
	assert.False(t, s.Apply(domain.Empty(1)), "already empty")
	assert.False(t, s.Apply(domain.Pour(1, 0)), "source empty")
	assert.False(t, s.Apply(domain.Halve(1)), "nothing to halve")
	assert.False(t, s.Apply(domain.Move{Kind: "spill", To: 0}), "unknown kind")
	assert.Equal(t, 1, s.Height())
}

func TestState_Pour(t *testing.T) {
	tests := []struct {
		name       string
		quantities []float64
		move       domain.Move
		want       []float64
	}{
		{name: "fits", quantities: []float64{2, 1}, move: domain.Pour(1, 0), want: []float64{3, 0}},
		{name: "exactly fills", quantities: []float64{2, 3}, move: domain.Pour(1, 0), want: []float64{5, 0}},
		{name: "overflows", quantities: []float64{4, 3}, move: domain.Pour(1, 0), want: []float64{5, 2}},
		{name: "into smaller", quantities: []float64{5, 0}, move: domain.Pour(0, 1), want: []float64{2, 3}},
		{name: "into full keeps source", quantities: []float64{5, 2}, move: domain.Pour(1, 0), want: []float64{5, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := twoBuckets(1)
			p.Buckets[0].Quantity = tt.quantities[0]
			p.Buckets[1].Quantity = tt.quantities[1]
			s := NewState(p)

			require.True(t, s.Apply(tt.move))
			assert.Equal(t, tt.want, s.Current())
		})
	}
}

func TestState_BudgetBoundsStack(t *testing.T) {
	s := NewState(twoBuckets(2))

	require.True(t, s.Apply(domain.Fill(0)))
	require.True(t, s.Apply(domain.Fill(1)))
	assert.False(t, s.CanMove())
	assert.False(t, s.Apply(domain.Empty(0)), "budget spent")
	assert.Equal(t, 3, s.Height())
}

func TestState_Halve(t *testing.T) {
	p := twoBuckets(2)
	p.Buckets[0].Quantity = 5
	s := NewState(p)

	require.True(t, s.Apply(domain.Halve(0)))
	assert.Equal(t, []float64{2.5, 0}, s.Current())
}

func TestBuildMoveTable(t *testing.T) {
	assert.Equal(t, []domain.Move{
		domain.Pour(1, 0), domain.Pour(2, 0), domain.Fill(0), domain.Empty(0),
		domain.Pour(2, 1), domain.Pour(0, 1), domain.Fill(1), domain.Empty(1),
		domain.Pour(0, 2), domain.Pour(1, 2), domain.Fill(2), domain.Empty(2),
	}, BuildMoveTable(3, false))

	assert.Equal(t, []domain.Move{domain.Fill(0), domain.Empty(0)}, BuildMoveTable(1, false))

	assert.Equal(t, []domain.Move{
		domain.Pour(1, 0), domain.Halve(0), domain.Fill(0), domain.Empty(0),
		domain.Pour(0, 1), domain.Halve(1), domain.Fill(1), domain.Empty(1),
	}, BuildMoveTable(2, true))
}

func TestBuildMoveTable_Size(t *testing.T) {
	for n := 1; n <= 6; n++ {
		moves := BuildMoveTable(n, false)
		assert.Len(t, moves, n*(n-1)+2*n)

		seen := make(map[domain.Move]bool)
		for _, m := range moves {
			assert.False(t, seen[m], "duplicate move %s", m)
			seen[m] = true
			if m.Kind == domain.MovePour {
				assert.NotEqual(t, m.From, m.To)
			}
		}
	}
}
