package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/aretw0/watercap/internal/logging"
	"github.com/aretw0/watercap/pkg/adapters/file"
	"github.com/aretw0/watercap/pkg/adapters/memory"
	"github.com/aretw0/watercap/pkg/adapters/redis"
	"github.com/aretw0/watercap/pkg/cache"
	"github.com/aretw0/watercap/pkg/domain"
	"github.com/aretw0/watercap/pkg/observability"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// LogOptions selects the logger used by every command.
type LogOptions struct {
	Debug bool
	Level string // Overrides Debug when set
	JSON  bool
}

// createLogger configures the application logger.
// Logs always go to Stderr so they never mix with solutions on Stdout.
func createLogger(w io.Writer, opts LogOptions) (*slog.Logger, error) {
	if opts.Level == "" && !opts.Debug {
		return logging.NewNop(), nil
	}
	level := slog.LevelDebug
	if opts.Level != "" {
		var err error
		if level, err = logging.ParseLevel(opts.Level); err != nil {
			return nil, err
		}
	}
	return logging.NewWithWriter(w, level, opts.JSON), nil
}

// StoreOptions selects the solution cache backend.
type StoreOptions struct {
	RedisURL string
	TTL      time.Duration
	Dir      string // File backed cache, ignored when RedisURL is set
}

// Persistent reports whether solutions outlive the process.
func (o StoreOptions) Persistent() bool {
	return o.RedisURL != "" || o.Dir != ""
}

// newCache builds a cache backed by Redis when a URL is given, by a directory when
// Dir is set, or by memory otherwise. The returned closer releases the Redis connection.
func newCache(opts StoreOptions, logger *slog.Logger, metrics *observability.Metrics) (*cache.Manager, func() error, error) {
	cacheOpts := []cache.Option{cache.WithLogger(logger)}
	if metrics != nil {
		cacheOpts = append(cacheOpts, cache.WithObserver(func(r cache.Result) {
			metrics.ObserveCache(string(r))
		}))
	}

	noop := func() error { return nil }
	if opts.RedisURL == "" {
		if opts.Dir != "" {
			logger.Info("Using file solution cache", "dir", opts.Dir)
			return cache.NewManager(file.New(opts.Dir), cacheOpts...), noop, nil
		}
		return cache.NewManager(memory.NewStore(), cacheOpts...), noop, nil
	}

	store, err := redis.NewFromURL(opts.RedisURL, redis.WithTTL(opts.TTL))
	if err != nil {
		return nil, nil, err
	}
	locker := redis.NewLocker(store.Client(), redis.DefaultPrefix)
	cacheOpts = append(cacheOpts, cache.WithLocker(locker))

	logger.Info("Using Redis solution cache", "ttl", opts.TTL)
	return cache.NewManager(store, cacheOpts...), store.Close, nil
}

// ExitCode maps a command error to the process exit status.
// 2 means the search ran but found nothing, 1 is any other failure.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, domain.ErrNoSolution):
		return 2
	default:
		return 1
	}
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

func createDebugHooks(logger *slog.Logger) domain.SearchHooks {
	return domain.SearchHooks{
		OnSolveEnd: func(ctx context.Context, e *domain.SolveEvent) {
			logger.Debug("Search End",
				"puzzle", e.PuzzleKey,
				"outcome", string(e.Outcome),
				"steps", e.Steps,
				"applied", e.Stats.Applied,
				"backtracks", e.Stats.Backtracks,
				"pruned", e.Stats.Pruned,
			)
		},
	}
}
