package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	httpAdapter "github.com/aretw0/watercap/pkg/adapters/http"
	"github.com/aretw0/watercap/pkg/adapters/mcp"
	"github.com/aretw0/watercap/pkg/observability"
)

const shutdownTimeout = 5 * time.Second

// ServeOptions contains the configuration for the HTTP server.
type ServeOptions struct {
	Addr          string
	SolveTimeout  time.Duration
	MaxStepsLimit int
	Store         StoreOptions
	Log           LogOptions
}

// NewServer assembles the HTTP server: metrics, cache and handler.
// The returned closer releases the cache backend.
func NewServer(opts ServeOptions) (*http.Server, func() error, error) {
	logger, err := createLogger(os.Stderr, opts.Log)
	if err != nil {
		return nil, nil, err
	}

	metrics := observability.NewMetrics()
	mgr, closeStore, err := newCache(opts.Store, logger, metrics)
	if err != nil {
		return nil, nil, err
	}

	handler := httpAdapter.NewHandler(
		httpAdapter.WithLogger(logger),
		httpAdapter.WithMetrics(metrics),
		httpAdapter.WithCache(mgr),
		httpAdapter.WithSolveTimeout(opts.SolveTimeout),
		httpAdapter.WithMaxStepsLimit(opts.MaxStepsLimit),
	)

	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv, closeStore, nil
}

// Serve runs the HTTP server until ctx is cancelled, then shuts it down gracefully.
func Serve(ctx context.Context, w io.Writer, opts ServeOptions) error {
	srv, closeStore, err := NewServer(opts)
	if err != nil {
		return err
	}
	defer closeStore()

	serverErrors := make(chan error, 1)
	go func() {
		printSystemMessage(w, "Starting watercap server on %s", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
			return fmt.Errorf("graceful shutdown did not complete in %v: %w", shutdownTimeout, err)
		}
		printSystemMessage(w, "Server stopped gracefully")
		return nil
	}
}

// MCPOptions contains the configuration for the MCP server.
type MCPOptions struct {
	Transport     string // stdio or sse
	Port          int
	SolveTimeout  time.Duration
	MaxStepsLimit int
	Store         StoreOptions
	Log           LogOptions
}

// ServeMCP runs the MCP server on the selected transport.
func ServeMCP(ctx context.Context, opts MCPOptions) error {
	// Stdout carries JSON-RPC on stdio, so logs must stay on Stderr.
	logger, err := createLogger(os.Stderr, opts.Log)
	if err != nil {
		return err
	}

	mgr, closeStore, err := newCache(opts.Store, logger, nil)
	if err != nil {
		return err
	}
	defer closeStore()

	srv := mcp.NewServer(
		mcp.WithLogger(logger),
		mcp.WithCache(mgr),
		mcp.WithSearchHooks(createDebugHooks(logger)),
		mcp.WithSolveTimeout(opts.SolveTimeout),
		mcp.WithMaxStepsLimit(opts.MaxStepsLimit),
	)

	switch opts.Transport {
	case "", "stdio":
		logger.Info("Starting watercap MCP Server (Stdio)")
		return srv.ServeStdio()
	case "sse":
		logger.Info("Starting watercap MCP Server (SSE)", "port", opts.Port)
		err := srv.ServeSSE(ctx, opts.Port)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	default:
		return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", opts.Transport)
	}
}
