/*
Package watercap solves the water jug ("water capacity") puzzle.

Given buckets with known capacities and starting quantities, it finds a sequence of
fill, empty and pour moves that leaves a designated bucket holding a target
quantity, within a maximum number of steps.

# Concept

The solver is a depth-bounded backtracking search over a fixed, ordered action
table. It returns the first solution found under that order, not necessarily the
shortest one, and it is deterministic: the same puzzle always yields the same
moves. Exhausting the step budget is a normal outcome (domain.OutcomeNoSolution),
never an error.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/watercap"
		"github.com/aretw0/watercap/pkg/domain"
		"github.com/aretw0/watercap/pkg/format"
	)

	func main() {
		puzzle := domain.Puzzle{
			MaxSteps: 6,
			Buckets:  []domain.Bucket{{Capacity: 5}, {Capacity: 3}},
			Target:   domain.Target{Bucket: 0, Quantity: 4},
		}

		solver, err := watercap.New(puzzle)
		if err != nil {
			log.Fatal(err) // *domain.BucketError or *domain.SolverError
		}

		sol, err := solver.Solve(context.Background())
		if err != nil {
			log.Fatal(err)
		}
		if !sol.Found() {
			fmt.Println("no solution within budget")
			return
		}
		fmt.Println(format.Text(puzzle, sol.Moves))
	}

The cmd/watercap binary wraps the same API with a CLI, an HTTP server and an MCP server.
*/
package watercap
