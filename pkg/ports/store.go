package ports

import (
	"context"

	"github.com/aretw0/watercap/pkg/domain"
)

// SolutionStore defines the interface for persisting search results.
// Searches are deterministic, so a stored solution stays valid for its key forever.
type SolutionStore interface {
	// Save persists the solution for a given puzzle key.
	Save(ctx context.Context, key string, sol *domain.Solution) error

	// Load retrieves the solution for a given puzzle key.
	// Returns domain.ErrSolutionNotFound if nothing is stored under key.
	Load(ctx context.Context, key string) (*domain.Solution, error)

	// Delete removes the solution for a given puzzle key.
	Delete(ctx context.Context, key string) error

	// List returns the keys currently stored.
	List(ctx context.Context) ([]string, error)
}
