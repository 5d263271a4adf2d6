package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/aretw0/watercap/pkg/domain"
)

// Store implements ports.SolutionStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Solution
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Solution),
	}
}

// Save persists the solution in memory.
func (s *Store) Save(ctx context.Context, key string, sol *domain.Solution) error {
	copied := clone(sol)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = copied
	return nil
}

// Load retrieves the solution from memory.
func (s *Store) Load(ctx context.Context, key string) (*domain.Solution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sol, ok := s.data[key]
	if !ok {
		return nil, domain.ErrSolutionNotFound
	}

	// Copy on read so callers can't mutate store state through the pointer
	return clone(sol), nil
}

// Delete removes the solution.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// List returns the stored keys.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys, nil
}

func clone(sol *domain.Solution) *domain.Solution {
	c := *sol
	c.Puzzle.Buckets = slices.Clone(sol.Puzzle.Buckets)
	c.Moves = slices.Clone(sol.Moves)
	if c.Moves == nil {
		c.Moves = []domain.Move{}
	}
	return &c
}
