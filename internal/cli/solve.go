package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aretw0/watercap"
	"github.com/aretw0/watercap/internal/config"
	"github.com/aretw0/watercap/internal/presentation/graph"
	"github.com/aretw0/watercap/internal/presentation/tui"
	"github.com/aretw0/watercap/pkg/domain"
	"github.com/aretw0/watercap/pkg/format"
)

// Output formats accepted by Solve.
const (
	OutputText     = "text"
	OutputJSON     = "json"
	OutputMarkdown = "markdown"
	OutputPretty   = "pretty" // glamour rendered markdown
	OutputMermaid  = "mermaid"
)

// PuzzleOptions describes a puzzle either through a file or through flags.
// Flags marked as set override the values read from the file.
type PuzzleOptions struct {
	File           string
	Buckets        []string // quantity:capacity
	MaxSteps       int
	TargetBucket   int
	TargetQuantity float64
	Strict         bool
	Halving        bool
	Memo           bool

	// Set records which flags the user passed explicitly.
	Set map[string]bool
}

// SolveOptions contains all the configuration for the solve command.
type SolveOptions struct {
	Puzzle  PuzzleOptions
	Output  string
	Verify  bool
	Stats   bool
	Timeout time.Duration
	Store   StoreOptions // Only used when Persistent
	Log     LogOptions
}

// LoadPuzzle resolves the puzzle and solver options from a file and/or flags.
func LoadPuzzle(opts PuzzleOptions) (domain.Puzzle, []watercap.Option, error) {
	pf := &config.PuzzleFile{}
	if opts.File != "" {
		var err error
		if opts.File == "-" {
			pf, err = config.Read(os.Stdin, "yaml")
		} else {
			pf, err = config.Load(opts.File)
		}
		if err != nil {
			return domain.Puzzle{}, nil, err
		}
	} else if len(opts.Buckets) == 0 {
		return domain.Puzzle{}, nil, errors.New("either a puzzle file or --bucket flags are required")
	}

	set := func(name string) bool { return opts.File == "" || opts.Set[name] }

	if len(opts.Buckets) > 0 {
		pf.Buckets = pf.Buckets[:0]
		for _, raw := range opts.Buckets {
			b, err := domain.ParseBucket(raw)
			if err != nil {
				return domain.Puzzle{}, nil, err
			}
			pf.Buckets = append(pf.Buckets, config.BucketFile{Capacity: b.Capacity, Quantity: b.Quantity})
		}
	}
	if set("steps") {
		pf.MaxSteps = opts.MaxSteps
	}
	if set("target-bucket") {
		pf.Target.Bucket = opts.TargetBucket
	}
	if set("target") {
		pf.Target.Quantity = opts.TargetQuantity
	}
	if opts.Strict {
		pf.Strict = true
	}
	if opts.Halving {
		pf.Halving = true
	}
	if opts.Memo {
		pf.Memo = true
	}

	return pf.Puzzle(), pf.Options(), nil
}

// Solve runs a search and prints the result to w.
// It returns domain.ErrNoSolution when the search finds nothing, after printing.
func Solve(ctx context.Context, w io.Writer, opts SolveOptions) error {
	logger, err := createLogger(os.Stderr, opts.Log)
	if err != nil {
		return err
	}

	puzzle, solverOpts, err := LoadPuzzle(opts.Puzzle)
	if err != nil {
		return err
	}
	solverOpts = append(solverOpts,
		watercap.WithLogger(logger),
		watercap.WithSearchHooks(createDebugHooks(logger)),
	)

	solver, err := watercap.New(puzzle, solverOpts...)
	if err != nil {
		return err
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	var sol *domain.Solution
	if opts.Store.Persistent() {
		mgr, closeStore, err := newCache(opts.Store, logger, nil)
		if err != nil {
			return err
		}
		defer closeStore()
		sol, _, err = mgr.Resolve(ctx, solver.Key(), solver.Solve)
		if err != nil {
			return err
		}
	} else {
		sol, err = solver.Solve(ctx)
		if err != nil {
			return err
		}
	}

	if opts.Verify && sol.Found() {
		if err := watercap.Verify(sol); err != nil {
			return fmt.Errorf("solution failed verification: %w", err)
		}
	}

	if err := printSolution(w, sol, opts.Output, opts.Stats); err != nil {
		return err
	}

	if !sol.Found() {
		return domain.ErrNoSolution
	}
	return nil
}

func printSolution(w io.Writer, sol *domain.Solution, output string, stats bool) error {
	switch output {
	case "", OutputText:
		if sol.Found() {
			if len(sol.Moves) > 0 {
				fmt.Fprintln(w, format.Text(sol.Puzzle, sol.Moves))
			}
		} else {
			fmt.Fprintln(w, "No solution found.")
		}
		if stats {
			printSystemMessage(w, "applied=%d backtracks=%d pruned=%d max_depth=%d duration=%s",
				sol.Stats.Applied, sol.Stats.Backtracks, sol.Stats.Pruned, sol.Stats.MaxDepth, sol.Stats.Duration)
		}
		return nil
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(sol)
	case OutputMarkdown:
		_, err := io.WriteString(w, format.Markdown(sol))
		return err
	case OutputPretty:
		out, err := tui.RenderSolution(sol)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	case OutputMermaid:
		out, err := graph.GenerateMermaid(sol)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	default:
		return fmt.Errorf("unknown output format %q (want text, json, markdown, pretty or mermaid)", output)
	}
}

// Validate loads a puzzle and checks it without searching.
func Validate(w io.Writer, opts PuzzleOptions) error {
	puzzle, solverOpts, err := LoadPuzzle(opts)
	if err != nil {
		return err
	}
	solver, err := watercap.New(puzzle, solverOpts...)
	if err != nil {
		return err
	}
	printSystemMessage(w, "Puzzle is valid: %d buckets, %d moves per step, key %s",
		len(puzzle.Buckets), len(solver.Moves()), solver.Key())
	return nil
}
