package search

import "github.com/aretw0/watercap/pkg/domain"

// BuildMoveTable returns the ordered action table for n buckets.
//
// For every destination i it emits the pours into i from (i+1)%n, (i+2)%n, ...,
// then Halve(i) when halving is enabled, then Fill(i) and Empty(i).
// The order decides which solution is found first.
func BuildMoveTable(n int, halving bool) []domain.Move {
	size := n * (n + 1)
	if halving {
		size += n
	}
	moves := make([]domain.Move, 0, size)

	for i := 0; i < n; i++ {
		for j := 1; j < n; j++ {
			moves = append(moves, domain.Pour((i+j)%n, i))
		}
		if halving {
			moves = append(moves, domain.Halve(i))
		}
		moves = append(moves, domain.Fill(i), domain.Empty(i))
	}
	return moves
}
