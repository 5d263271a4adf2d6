package domain

import "fmt"

// MoveKind tags the operation a Move performs.
type MoveKind string

const (
	MoveFill  MoveKind = "fill"
	MoveEmpty MoveKind = "empty"
	MovePour  MoveKind = "pour"
	MoveHalve MoveKind = "halve" // Extension, disabled unless requested
)

// Move is one entry of the action table.
// For Pour, liquid flows From into To. For the single-bucket kinds the bucket is To.
type Move struct {
	Kind MoveKind `json:"kind"`
	From int      `json:"from,omitempty"`
	To   int      `json:"to"`
}

// Fill returns the move that fills bucket i to its capacity.
func Fill(i int) Move { return Move{Kind: MoveFill, To: i} }

// Empty returns the move that empties bucket i.
func Empty(i int) Move { return Move{Kind: MoveEmpty, To: i} }

// Halve returns the move that halves the content of bucket i.
func Halve(i int) Move { return Move{Kind: MoveHalve, To: i} }

// Pour returns the move that pours bucket from into bucket to
// until to is full or from is empty.
func Pour(from, to int) Move { return Move{Kind: MovePour, From: from, To: to} }

// Bucket returns the bucket a single-bucket move acts on.
func (m Move) Bucket() int {
	return m.To
}

func (m Move) String() string {
	switch m.Kind {
	case MovePour:
		return fmt.Sprintf("pour(%d->%d)", m.From, m.To)
	default:
		return fmt.Sprintf("%s(%d)", m.Kind, m.To)
	}
}
