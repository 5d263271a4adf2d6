package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Bucket is a container with a fixed capacity and a current quantity of liquid.
type Bucket struct {
	Capacity float64 `json:"capacity" yaml:"capacity"`
	Quantity float64 `json:"quantity" yaml:"quantity"`
}

// NewBucket creates a bucket, rejecting quantities outside [0, capacity].
func NewBucket(capacity, quantity float64) (Bucket, error) {
	b := Bucket{Capacity: capacity, Quantity: quantity}
	if err := b.validate(-1); err != nil {
		return Bucket{}, err
	}
	return b, nil
}

func (b Bucket) validate(index int) error {
	if math.IsNaN(b.Quantity) || math.IsNaN(b.Capacity) || b.Quantity < 0 || b.Quantity > b.Capacity {
		return &BucketError{Index: index, Quantity: b.Quantity, Capacity: b.Capacity}
	}
	return nil
}

// IsFull reports whether the bucket holds exactly its capacity.
func (b Bucket) IsFull() bool {
	return b.Quantity == b.Capacity
}

// IsEmpty reports whether the bucket holds nothing.
func (b Bucket) IsEmpty() bool {
	return b.Quantity == 0
}

// ParseBucket reads the "quantity:capacity" notation used on the command line and in
// query strings. A bare number is an empty bucket of that capacity.
// The result is not validated; use NewBucket or Puzzle.Validate for that.
func ParseBucket(s string) (Bucket, error) {
	qs, cs, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found {
		qs, cs = "0", qs
	}
	quantity, err := strconv.ParseFloat(strings.TrimSpace(qs), 64)
	if err != nil {
		return Bucket{}, fmt.Errorf("invalid bucket %q: quantity: %w", s, err)
	}
	capacity, err := strconv.ParseFloat(strings.TrimSpace(cs), 64)
	if err != nil {
		return Bucket{}, fmt.Errorf("invalid bucket %q: capacity: %w", s, err)
	}
	return Bucket{Capacity: capacity, Quantity: quantity}, nil
}

// String renders the bucket in the ParseBucket notation.
func (b Bucket) String() string {
	return FormatQuantity(b.Quantity) + ":" + FormatQuantity(b.Capacity)
}
