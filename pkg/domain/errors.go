package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidBucket is matched by every *BucketError.
var ErrInvalidBucket = errors.New("invalid bucket")

// ErrInvalidPuzzle is matched by every *SolverError.
var ErrInvalidPuzzle = errors.New("invalid puzzle")

// ErrNoSolution is returned by surfaces that must report an exhausted search as an error.
// The engine itself reports it as OutcomeNoSolution.
var ErrNoSolution = errors.New("no solution within step budget")

// ErrSolutionNotFound is returned when a solution cannot be found in a store.
var ErrSolutionNotFound = errors.New("solution not found")

// BucketError is raised when a bucket would hold more than its capacity
// (or a negative or NaN quantity).
type BucketError struct {
	Index    int // Position in the puzzle, -1 for a standalone bucket
	Quantity float64
	Capacity float64
}

func (e *BucketError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("bucket cannot hold %v with capacity %v", e.Quantity, e.Capacity)
	}
	return fmt.Sprintf("bucket %d cannot hold %v with capacity %v", e.Index, e.Quantity, e.Capacity)
}

// Is makes errors.Is(err, ErrInvalidBucket) work.
func (e *BucketError) Is(target error) bool {
	return target == ErrInvalidBucket
}

// SolverError reports an invalid puzzle definition detected before the search starts.
type SolverError struct {
	Reason string
}

func (e *SolverError) Error() string {
	return "solver: " + e.Reason
}

// Is makes errors.Is(err, ErrInvalidPuzzle) work.
func (e *SolverError) Is(target error) bool {
	return target == ErrInvalidPuzzle
}
