package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/watercap"
	"github.com/aretw0/watercap/internal/logging"
	"github.com/aretw0/watercap/internal/search"
	"github.com/aretw0/watercap/pkg/cache"
	"github.com/aretw0/watercap/pkg/domain"
	"github.com/aretw0/watercap/pkg/format"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	// DefaultSolveTimeout bounds a single solve_puzzle call.
	DefaultSolveTimeout = 10 * time.Second
	// DefaultMaxStepsLimit bounds the budget a client may ask for.
	DefaultMaxStepsLimit = 24

	// maxBuckets caps tool input; the move table grows with the square of it.
	maxBuckets = 32
)

// SolveResult is the structured output of solve_puzzle.
type SolveResult struct {
	Key          string         `json:"key" jsonschema_description:"Cache key identifying the puzzle and options"`
	Outcome      domain.Outcome `json:"outcome" jsonschema_description:"solved or no_solution"`
	Moves        []domain.Move  `json:"moves" jsonschema_description:"Moves in execution order"`
	Instructions []string       `json:"instructions" jsonschema_description:"One human readable line per move"`
	Stats        domain.Stats   `json:"stats" jsonschema_description:"Search statistics"`
}

// MoveTableResult is the structured output of move_table.
type MoveTableResult struct {
	Moves []domain.Move `json:"moves" jsonschema_description:"Moves in the order the search tries them"`
}

// VerifyResult is the structured output of verify_solution.
type VerifyResult struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// Server exposes the solver as an MCP server.
type Server struct {
	mcpServer     *server.MCPServer
	cache         *cache.Manager
	hooks         domain.SearchHooks
	logger        *slog.Logger
	solveTimeout  time.Duration
	maxStepsLimit int
}

// Option configures the Server.
type Option func(*Server)

// WithCache serves repeated puzzles from a solution cache and exposes its keys as a resource.
func WithCache(m *cache.Manager) Option {
	return func(s *Server) {
		s.cache = m
	}
}

// WithSearchHooks attaches hooks to every search.
func WithSearchHooks(hooks domain.SearchHooks) Option {
	return func(s *Server) {
		s.hooks = hooks
	}
}

// WithLogger configures the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithSolveTimeout overrides DefaultSolveTimeout. Zero or less disables the deadline.
func WithSolveTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.solveTimeout = d
	}
}

// WithMaxStepsLimit overrides DefaultMaxStepsLimit. Zero disables the limit.
func WithMaxStepsLimit(n int) Option {
	return func(s *Server) {
		s.maxStepsLimit = n
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(opts ...Option) *Server {
	s := &Server{
		mcpServer:     server.NewMCPServer("watercap-mcp", strings.TrimSpace(watercap.Version)),
		logger:        logging.NewNop(),
		solveTimeout:  DefaultSolveTimeout,
		maxStepsLimit: DefaultMaxStepsLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: solve_puzzle
	solveTool := mcp.NewTool("solve_puzzle",
		mcp.WithDescription("Find a sequence of fill, empty and pour moves that leaves the target bucket holding the target quantity."),
		mcp.WithString("buckets", mcp.Required(),
			mcp.Description(`Comma separated buckets as quantity:capacity, e.g. "0:10,0:9,5:7". A bare number is an empty bucket.`)),
		mcp.WithNumber("max_steps", mcp.Required(), mcp.Description("Maximum number of moves")),
		mcp.WithNumber("target_bucket", mcp.Required(), mcp.Description("Zero based index of the target bucket")),
		mcp.WithNumber("target_quantity", mcp.Required(), mcp.Description("Quantity the target bucket must hold")),
		mcp.WithBoolean("strict", mcp.Description("Reject zero capacities and unreachable targets")),
		mcp.WithBoolean("halving", mcp.Description("Allow halving a bucket as an extra move")),
		mcp.WithOutputSchema[SolveResult](),
	)
	s.mcpServer.AddTool(solveTool, mcp.NewStructuredToolHandler(s.handleSolve))

	// TOOL: move_table
	movesTool := mcp.NewTool("move_table",
		mcp.WithDescription("List the moves the search tries at every step, in order."),
		mcp.WithNumber("buckets", mcp.Required(), mcp.Description("Number of buckets")),
		mcp.WithBoolean("halving", mcp.Description("Include halving moves")),
		mcp.WithOutputSchema[MoveTableResult](),
	)
	s.mcpServer.AddTool(movesTool, mcp.NewStructuredToolHandler(s.handleMoveTable))

	// TOOL: verify_solution
	verifyTool := mcp.NewTool("verify_solution",
		mcp.WithDescription("Replay a solution returned by solve_puzzle and check it reaches the target."),
		mcp.WithString("solution", mcp.Required(), mcp.Description("JSON solution object with puzzle, outcome and moves")),
		mcp.WithOutputSchema[VerifyResult](),
	)
	s.mcpServer.AddTool(verifyTool, mcp.NewStructuredToolHandler(s.handleVerify))
}

func (s *Server) handleSolve(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SolveResult, error) {
	puzzle, err := puzzleFromArgs(args)
	if err != nil {
		return SolveResult{}, err
	}
	if s.maxStepsLimit > 0 && puzzle.MaxSteps > s.maxStepsLimit {
		return SolveResult{}, fmt.Errorf("max_steps %d exceeds the server limit of %d", puzzle.MaxSteps, s.maxStepsLimit)
	}

	opts := []watercap.Option{
		watercap.WithLogger(s.logger),
		watercap.WithSearchHooks(s.hooks),
		watercap.WithMemo(),
	}
	if strict, _ := args["strict"].(bool); strict {
		opts = append(opts, watercap.WithStrictCapacityCheck(true))
	}
	if halving, _ := args["halving"].(bool); halving {
		opts = append(opts, watercap.WithHalving())
	}

	solver, err := watercap.New(puzzle, opts...)
	if err != nil {
		return SolveResult{}, fmt.Errorf("invalid puzzle: %w", err)
	}

	if s.solveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.solveTimeout)
		defer cancel()
	}

	var sol *domain.Solution
	if s.cache != nil {
		sol, _, err = s.cache.Resolve(ctx, solver.Key(), solver.Solve)
	} else {
		sol, err = solver.Solve(ctx)
	}
	if err != nil {
		return SolveResult{}, fmt.Errorf("solve failed: %w", err)
	}

	return SolveResult{
		Key:          solver.Key(),
		Outcome:      sol.Outcome,
		Moves:        sol.Moves,
		Instructions: format.Lines(sol.Puzzle, sol.Moves),
		Stats:        sol.Stats,
	}, nil
}

func (s *Server) handleMoveTable(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (MoveTableResult, error) {
	n, err := intArg(args, "buckets")
	if err != nil {
		return MoveTableResult{}, err
	}
	if n < 1 || n > maxBuckets {
		return MoveTableResult{}, fmt.Errorf("buckets must be between 1 and %d", maxBuckets)
	}
	halving, _ := args["halving"].(bool)
	return MoveTableResult{Moves: search.BuildMoveTable(n, halving)}, nil
}

func (s *Server) handleVerify(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (VerifyResult, error) {
	raw, _ := args["solution"].(string)

	var sol domain.Solution
	if err := json.Unmarshal([]byte(raw), &sol); err != nil {
		return VerifyResult{}, fmt.Errorf("invalid solution json: %w", err)
	}
	if err := watercap.Verify(&sol); err != nil {
		return VerifyResult{Valid: false, Reason: err.Error()}, nil
	}
	return VerifyResult{Valid: true}, nil
}

func puzzleFromArgs(args map[string]interface{}) (domain.Puzzle, error) {
	var p domain.Puzzle

	raw, _ := args["buckets"].(string)
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		b, err := domain.ParseBucket(part)
		if err != nil {
			return p, err
		}
		p.Buckets = append(p.Buckets, b)
		if len(p.Buckets) > maxBuckets {
			return p, fmt.Errorf("at most %d buckets are allowed", maxBuckets)
		}
	}

	var err error
	if p.MaxSteps, err = intArg(args, "max_steps"); err != nil {
		return p, err
	}
	if p.Target.Bucket, err = intArg(args, "target_bucket"); err != nil {
		return p, err
	}
	q, ok := args["target_quantity"].(float64)
	if !ok {
		return p, errors.New("target_quantity must be a number")
	}
	p.Target.Quantity = q
	return p, nil
}

func intArg(args map[string]interface{}, name string) (int, error) {
	v, ok := args[name].(float64)
	if !ok {
		return 0, fmt.Errorf("%s must be a number", name)
	}
	if v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return int(v), nil
}

func (s *Server) registerResources() {
	if s.cache == nil {
		return
	}

	// EXPOSE: watercap://solutions
	s.mcpServer.AddResource(mcp.NewResource("watercap://solutions", "Cached solution keys",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		keys, err := s.cache.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list solutions: %w", err)
		}
		if keys == nil {
			keys = []string{}
		}
		jsonBytes, _ := json.Marshal(keys)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "watercap://solutions",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
