package domain_test

import (
	"errors"
	"math"
	"testing"

	"github.com/aretw0/watercap/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBucket(t *testing.T) {
	b, err := domain.NewBucket(10, 4)
	require.NoError(t, err)
	assert.Equal(t, 10.0, b.Capacity)
	assert.Equal(t, 4.0, b.Quantity)
	assert.False(t, b.IsFull())
	assert.False(t, b.IsEmpty())

	_, err = domain.NewBucket(3, 4)
	var bucketErr *domain.BucketError
	require.ErrorAs(t, err, &bucketErr)
	assert.Equal(t, -1, bucketErr.Index)
	assert.ErrorIs(t, err, domain.ErrInvalidBucket)

	_, err = domain.NewBucket(3, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidBucket)

	_, err = domain.NewBucket(3, math.NaN())
	assert.ErrorIs(t, err, domain.ErrInvalidBucket)
}

func TestPuzzle_Validate(t *testing.T) {
	valid := domain.Puzzle{
		MaxSteps: 5,
		Buckets:  []domain.Bucket{{Capacity: 10}, {Capacity: 9}, {Capacity: 7, Quantity: 5}},
		Target:   domain.Target{Bucket: 1, Quantity: 4},
	}

	tests := []struct {
		name    string
		mutate  func(p *domain.Puzzle)
		strict  bool
		wantErr error
	}{
		{name: "valid", mutate: func(p *domain.Puzzle) {}},
		{name: "valid strict", mutate: func(p *domain.Puzzle) {}, strict: true},
		{name: "zero budget", mutate: func(p *domain.Puzzle) { p.MaxSteps = 0 }},
		{name: "overfull bucket", mutate: func(p *domain.Puzzle) { p.Buckets[2].Quantity = 8 }, wantErr: domain.ErrInvalidBucket},
		{name: "negative budget", mutate: func(p *domain.Puzzle) { p.MaxSteps = -1 }, wantErr: domain.ErrInvalidPuzzle},
		{name: "no buckets", mutate: func(p *domain.Puzzle) { p.Buckets = nil; p.Target.Bucket = 0 }, wantErr: domain.ErrInvalidPuzzle},
		{name: "target out of range", mutate: func(p *domain.Puzzle) { p.Target.Bucket = 3 }, wantErr: domain.ErrInvalidPuzzle},
		{name: "negative target", mutate: func(p *domain.Puzzle) { p.Target.Bucket = -1 }, wantErr: domain.ErrInvalidPuzzle},
		{name: "unreachable target lenient", mutate: func(p *domain.Puzzle) { p.Target.Quantity = 40 }},
		{name: "unreachable target strict", mutate: func(p *domain.Puzzle) { p.Target.Quantity = 40 }, strict: true, wantErr: domain.ErrInvalidPuzzle},
		{name: "zero capacity strict", mutate: func(p *domain.Puzzle) { p.Buckets[0].Capacity = 0 }, strict: true, wantErr: domain.ErrInvalidPuzzle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			p.Buckets = append([]domain.Bucket(nil), valid.Buckets...)
			tt.mutate(&p)

			err := p.Validate(tt.strict)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPuzzle_Validate_ReportsBucketIndex(t *testing.T) {
	p := domain.Puzzle{
		MaxSteps: 3,
		Buckets:  []domain.Bucket{{Capacity: 5}, {Capacity: 3, Quantity: 4}},
	}
	err := p.Validate(false)

	var bucketErr *domain.BucketError
	require.True(t, errors.As(err, &bucketErr))
	assert.Equal(t, 1, bucketErr.Index)
	assert.Equal(t, "bucket 1 cannot hold 4 with capacity 3", bucketErr.Error())
}

func TestPuzzle_Key(t *testing.T) {
	p := domain.Puzzle{
		MaxSteps: 5,
		Buckets:  []domain.Bucket{{Capacity: 10}, {Capacity: 9}, {Capacity: 7, Quantity: 5}},
		Target:   domain.Target{Bucket: 1, Quantity: 4},
	}
	assert.Equal(t, "s5:b0/10,0/9,5/7:t1=4", p.Key())

	p.Buckets[0].Capacity = 7.5
	assert.Equal(t, "s5:b0/7.5,0/9,5/7:t1=4", p.Key())
}

func TestMove_String(t *testing.T) {
	assert.Equal(t, "pour(2->0)", domain.Pour(2, 0).String())
	assert.Equal(t, "fill(1)", domain.Fill(1).String())
	assert.Equal(t, "empty(0)", domain.Empty(0).String())
	assert.Equal(t, "halve(3)", domain.Halve(3).String())
	assert.Equal(t, 3, domain.Halve(3).Bucket())
}

func TestSolution_Found(t *testing.T) {
	var nilSolution *domain.Solution
	assert.False(t, nilSolution.Found())
	assert.False(t, (&domain.Solution{Outcome: domain.OutcomeNoSolution}).Found())
	assert.True(t, (&domain.Solution{Outcome: domain.OutcomeSolved}).Found())
}

func TestParseBucket(t *testing.T) {
	tests := []struct {
		in      string
		want    domain.Bucket
		wantErr bool
	}{
		{in: "5:7", want: domain.Bucket{Quantity: 5, Capacity: 7}},
		{in: " 0 : 10 ", want: domain.Bucket{Quantity: 0, Capacity: 10}},
		{in: "7.5", want: domain.Bucket{Quantity: 0, Capacity: 7.5}},
		{in: "4:3", want: domain.Bucket{Quantity: 4, Capacity: 3}}, // parsed, not validated
		{in: "x:3", wantErr: true},
		{in: "1:", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := domain.ParseBucket(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, "5:7", domain.Bucket{Quantity: 5, Capacity: 7}.String())
	assert.Equal(t, "0:7.5", domain.Bucket{Capacity: 7.5}.String())
}
