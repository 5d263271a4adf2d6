package http

import (
	"github.com/aretw0/watercap/pkg/domain"
	"github.com/aretw0/watercap/pkg/format"
	"github.com/go-playground/validator/v10"
)

// maxBuckets caps request size; the move table grows with the square of it.
const maxBuckets = 32

var requestValidate = validator.New(validator.WithRequiredStructEnabled())

// BucketRequest is a bucket in a solve request.
type BucketRequest struct {
	Capacity float64 `json:"capacity"`
	Quantity float64 `json:"quantity"`
}

// TargetRequest is the target in a solve request.
type TargetRequest struct {
	Bucket   int     `json:"bucket" validate:"gte=0"`
	Quantity float64 `json:"quantity"`
}

// SolveRequest is the body of POST /solve, and the decoded query of GET /solve.
type SolveRequest struct {
	MaxSteps *int            `json:"max_steps" validate:"required,gte=0"`
	Strict   bool            `json:"strict"`
	Halving  bool            `json:"halving"`
	Memo     bool            `json:"memo"`
	Buckets  []BucketRequest `json:"buckets" validate:"required,min=1,max=32,dive"`
	Target   *TargetRequest  `json:"target" validate:"required"`
}

// Validate checks structural constraints. Bucket invariants are left to the domain.
func (r *SolveRequest) Validate() error {
	return requestValidate.Struct(r)
}

// Puzzle converts the request into the domain model.
func (r *SolveRequest) Puzzle() domain.Puzzle {
	p := domain.Puzzle{
		Buckets: make([]domain.Bucket, len(r.Buckets)),
	}
	if r.MaxSteps != nil {
		p.MaxSteps = *r.MaxSteps
	}
	for i, b := range r.Buckets {
		p.Buckets[i] = domain.Bucket{Capacity: b.Capacity, Quantity: b.Quantity}
	}
	if r.Target != nil {
		p.Target = domain.Target{Bucket: r.Target.Bucket, Quantity: r.Target.Quantity}
	}
	return p
}

// MoveResponse is a move with its rendered instruction.
type MoveResponse struct {
	Kind        domain.MoveKind `json:"kind"`
	From        *int            `json:"from,omitempty"`
	To          int             `json:"to"`
	Instruction string          `json:"instruction,omitempty"`
}

// SolveResponse is returned by both solve endpoints.
type SolveResponse struct {
	RequestID string         `json:"request_id"`
	Key       string         `json:"key"`
	Outcome   domain.Outcome `json:"outcome"`
	Cached    bool           `json:"cached"`
	Moves     []MoveResponse `json:"moves"`
	Text      string         `json:"text"`
	Stats     domain.Stats   `json:"stats"`
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func mapMoves(p *domain.Puzzle, moves []domain.Move) []MoveResponse {
	res := make([]MoveResponse, len(moves))
	for i, m := range moves {
		res[i] = MoveResponse{Kind: m.Kind, To: m.To}
		if m.Kind == domain.MovePour {
			res[i].From = ptr(m.From)
		}
		if p != nil {
			res[i].Instruction = format.Instruction(*p, m)
		}
	}
	return res
}

func ptr[T any](v T) *T {
	return &v
}
