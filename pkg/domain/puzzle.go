package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Target designates the bucket that must end up holding Quantity.
type Target struct {
	Bucket   int     `json:"bucket" yaml:"bucket"`
	Quantity float64 `json:"quantity" yaml:"quantity"`
}

// Puzzle is the full definition of a game: step budget, buckets and target.
// The index of a bucket in Buckets is its id.
type Puzzle struct {
	MaxSteps int      `json:"max_steps" yaml:"max_steps"`
	Buckets  []Bucket `json:"buckets" yaml:"buckets"`
	Target   Target   `json:"target" yaml:"target"`
}

// Validate checks the puzzle before any search runs.
// Bucket violations are reported first as *BucketError, the rest as *SolverError.
// Strict mode additionally requires positive, finite capacities and a target
// quantity the target bucket can actually hold.
func (p Puzzle) Validate(strict bool) error {
	for i, b := range p.Buckets {
		if err := b.validate(i); err != nil {
			return err
		}
	}

	if len(p.Buckets) == 0 {
		return &SolverError{Reason: "puzzle has no buckets"}
	}
	if p.MaxSteps < 0 {
		return &SolverError{Reason: fmt.Sprintf("max steps must not be negative, got %d", p.MaxSteps)}
	}
	if p.Target.Bucket < 0 || p.Target.Bucket >= len(p.Buckets) {
		return &SolverError{Reason: fmt.Sprintf("target bucket %d out of range [0, %d)", p.Target.Bucket, len(p.Buckets))}
	}
	if math.IsNaN(p.Target.Quantity) {
		return &SolverError{Reason: "target quantity is NaN"}
	}

	if !strict {
		return nil
	}

	for i, b := range p.Buckets {
		if b.Capacity <= 0 || math.IsInf(b.Capacity, 0) {
			return &SolverError{Reason: fmt.Sprintf("bucket %d must have a positive finite capacity, got %v", i, b.Capacity)}
		}
	}
	capacity := p.Buckets[p.Target.Bucket].Capacity
	if p.Target.Quantity < 0 || p.Target.Quantity > capacity {
		return &SolverError{Reason: fmt.Sprintf("target quantity %v does not fit bucket %d with capacity %v", p.Target.Quantity, p.Target.Bucket, capacity)}
	}
	return nil
}

// Quantities returns the initial quantity of every bucket.
func (p Puzzle) Quantities() []float64 {
	q := make([]float64, len(p.Buckets))
	for i, b := range p.Buckets {
		q[i] = b.Quantity
	}
	return q
}

// Capacities returns the capacity of every bucket.
func (p Puzzle) Capacities() []float64 {
	c := make([]float64, len(p.Buckets))
	for i, b := range p.Buckets {
		c[i] = b.Capacity
	}
	return c
}

// Key returns a deterministic identifier of the puzzle, suitable as a cache key.
// Two puzzles with the same key always produce the same search result.
func (p Puzzle) Key() string {
	var sb strings.Builder
	sb.WriteString("s")
	sb.WriteString(strconv.Itoa(p.MaxSteps))
	sb.WriteString(":b")
	for i, b := range p.Buckets {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(FormatQuantity(b.Quantity))
		sb.WriteByte('/')
		sb.WriteString(FormatQuantity(b.Capacity))
	}
	sb.WriteString(":t")
	sb.WriteString(strconv.Itoa(p.Target.Bucket))
	sb.WriteByte('=')
	sb.WriteString(FormatQuantity(p.Target.Quantity))
	return sb.String()
}

// FormatQuantity prints a quantity with the shortest representation ("10", "7.5").
func FormatQuantity(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
