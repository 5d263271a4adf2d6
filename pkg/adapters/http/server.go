package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/watercap"
	"github.com/aretw0/watercap/internal/logging"
	"github.com/aretw0/watercap/internal/search"
	"github.com/aretw0/watercap/pkg/cache"
	"github.com/aretw0/watercap/pkg/domain"
	"github.com/aretw0/watercap/pkg/format"
	"github.com/aretw0/watercap/pkg/observability"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
)

const (
	// DefaultSolveTimeout bounds a single search started over HTTP.
	DefaultSolveTimeout = 10 * time.Second
	// DefaultMaxStepsLimit bounds the budget a client may ask for.
	DefaultMaxStepsLimit = 24

	maxBodyBytes    = 1 << 20
	requestIDHeader = "X-Request-Id"
)

// Server answers solve requests.
type Server struct {
	cache         *cache.Manager
	metrics       *observability.Metrics
	logger        *slog.Logger
	solveTimeout  time.Duration
	maxStepsLimit int
}

// Option configures the Server.
type Option func(*Server)

// WithCache serves repeated puzzles from a solution cache.
func WithCache(m *cache.Manager) Option {
	return func(s *Server) {
		s.cache = m
	}
}

// WithMetrics instruments searches and mounts /metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithLogger configures the request logger.
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

// NewHandler creates the HTTP handler.
func NewHandler(opts ...Option) http.Handler {
	s := &Server{
		logger:        logging.NewNop(),
		solveTimeout:  DefaultSolveTimeout,
		maxStepsLimit: DefaultMaxStepsLimit,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec())
	})
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Post("/solve", s.PostSolve)
	r.Get("/solve", s.GetSolve)
	r.Get("/moves", s.GetMoves)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	return r
}

// requestID tags each request with a uuid unless the client already sent one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+requestIDHeader)
		w.Header().Set("Access-Control-Expose-Headers", requestIDHeader)
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// PostSolve handles POST /solve.
func (s *Server) PostSolve(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if err := validateAgainstSchema("SolveRequest", body); err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	var req SolveRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	s.solve(w, r, &req)
}

// GetSolve handles GET /solve.
func (s *Server) GetSolve(w http.ResponseWriter, r *http.Request) {
	req, err := bindSolveQuery(r)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	s.solve(w, r, req)
}

func bindSolveQuery(r *http.Request) (*SolveRequest, error) {
	query := r.URL.Query()

	var (
		buckets        []string
		maxSteps       int
		targetBucket   int
		targetQuantity float64
		strict         *bool
		halving        *bool
		memo           *bool
	)
	if err := runtime.BindQueryParameter("form", true, true, "bucket", query, &buckets); err != nil {
		return nil, fmt.Errorf("invalid format for parameter bucket: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, true, "max_steps", query, &maxSteps); err != nil {
		return nil, fmt.Errorf("invalid format for parameter max_steps: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, true, "target_bucket", query, &targetBucket); err != nil {
		return nil, fmt.Errorf("invalid format for parameter target_bucket: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, true, "target_quantity", query, &targetQuantity); err != nil {
		return nil, fmt.Errorf("invalid format for parameter target_quantity: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "strict", query, &strict); err != nil {
		return nil, fmt.Errorf("invalid format for parameter strict: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "halving", query, &halving); err != nil {
		return nil, fmt.Errorf("invalid format for parameter halving: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "memo", query, &memo); err != nil {
		return nil, fmt.Errorf("invalid format for parameter memo: %w", err)
	}

	req := &SolveRequest{
		MaxSteps: &maxSteps,
		Strict:   strict != nil && *strict,
		Halving:  halving != nil && *halving,
		Memo:     memo != nil && *memo,
		Target:   &TargetRequest{Bucket: targetBucket, Quantity: targetQuantity},
	}
	for _, raw := range buckets {
		b, err := domain.ParseBucket(raw)
		if err != nil {
			return nil, err
		}
		req.Buckets = append(req.Buckets, BucketRequest{Capacity: b.Capacity, Quantity: b.Quantity})
	}
	return req, nil
}

func (s *Server) solve(w http.ResponseWriter, r *http.Request, req *SolveRequest) {
	if err := req.Validate(); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if s.maxStepsLimit > 0 && *req.MaxSteps > s.maxStepsLimit {
		s.writeError(w, r, http.StatusUnprocessableEntity,
			fmt.Errorf("max_steps %d exceeds the server limit of %d", *req.MaxSteps, s.maxStepsLimit))
		return
	}

	opts := []watercap.Option{
		watercap.WithLogger(s.logger),
		watercap.WithStrictCapacityCheck(req.Strict),
	}
	if req.Halving {
		opts = append(opts, watercap.WithHalving())
	}
	if req.Memo {
		opts = append(opts, watercap.WithMemo())
	}
	if s.metrics != nil {
		opts = append(opts, watercap.WithSearchHooks(s.metrics.Hooks()))
	}

	solver, err := watercap.New(req.Puzzle(), opts...)
	if err != nil {
		s.writeError(w, r, http.StatusUnprocessableEntity, err)
		return
	}

	ctx := r.Context()
	if s.solveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.solveTimeout)
		defer cancel()
	}

	var (
		sol    *domain.Solution
		cached bool
	)
	if s.cache != nil {
		var res cache.Result
		sol, res, err = s.cache.Resolve(ctx, solver.Key(), solver.Solve)
		cached = res == cache.ResultHit
	} else {
		sol, err = solver.Solve(ctx)
	}
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		s.writeError(w, r, status, err)
		return
	}

	s.logger.Info("Solve finished",
		"request_id", middleware.GetReqID(r.Context()),
		"key", solver.Key(),
		"outcome", string(sol.Outcome),
		"steps", len(sol.Moves),
		"cached", cached,
	)

	s.writeJSON(w, http.StatusOK, SolveResponse{
		RequestID: middleware.GetReqID(r.Context()),
		Key:       solver.Key(),
		Outcome:   sol.Outcome,
		Cached:    cached,
		Moves:     mapMoves(&sol.Puzzle, sol.Moves),
		Text:      format.Text(sol.Puzzle, sol.Moves),
		Stats:     sol.Stats,
	})
}

// GetMoves handles GET /moves.
func (s *Server) GetMoves(w http.ResponseWriter, r *http.Request) {
	var (
		n       int
		halving *bool
	)
	query := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, true, "buckets", query, &n); err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid format for parameter buckets: %w", err))
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "halving", query, &halving); err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid format for parameter halving: %w", err))
		return
	}
	if n < 1 || n > maxBuckets {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("buckets must be between 1 and %d", maxBuckets))
		return
	}

	moves := search.BuildMoveTable(n, halving != nil && *halving)
	s.writeJSON(w, http.StatusOK, mapMoves(nil, moves))
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "watercap-http",
		"version":     strings.TrimSpace(watercap.Version),
		"api_version": apiVersion,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	id := middleware.GetReqID(r.Context())
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed", "request_id", id, "path", r.URL.Path, "err", err)
	} else {
		s.logger.Warn("Request rejected", "request_id", id, "path", r.URL.Path, "status", status, "err", err)
	}
	s.writeJSON(w, status, ErrorResponse{Error: err.Error(), RequestID: id})
}
