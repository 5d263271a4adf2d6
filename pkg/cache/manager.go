package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/watercap/internal/logging"
	"github.com/aretw0/watercap/pkg/domain"
	"github.com/aretw0/watercap/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed lock is held when the process dies mid-search.
const DefaultLockTTL = 30 * time.Second

// ComputeFunc produces the solution for a key on a cache miss.
type ComputeFunc func(ctx context.Context) (*domain.Solution, error)

// Result tells whether Resolve served a stored solution.
type Result string

const (
	ResultHit  Result = "hit"
	ResultMiss Result = "miss"
)

// lockEntry holds a one-slot semaphore and the reference count.
type lockEntry struct {
	sem  chan struct{}
	refs int
}

// Manager serializes access to stored solutions per key.
// Unused lock entries are reference counted and removed.
type Manager struct {
	store ports.SolutionStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
	observe func(Result)
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithObserver registers a callback invoked once per Resolve with its result.
func WithObserver(fn func(Result)) Option {
	return func(m *Manager) {
		m.observe = fn
	}
}

// NewManager creates a Manager backed by store.
func NewManager(store ports.SolutionStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller must take entry.sem and call release(key) after giving it back.
func (m *Manager) acquire(key string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		entry = &lockEntry{sem: make(chan struct{}, 1)}
		m.locks[key] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, key)
	}
}

// activeLocks reports how many keys currently hold a lock entry.
func (m *Manager) activeLocks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}

// Resolve returns the stored solution for key, or runs compute and stores its result.
// Both outcomes are stored; compute errors are returned and never stored.
func (m *Manager) Resolve(ctx context.Context, key string, compute ComputeFunc) (*domain.Solution, Result, error) {
	var (
		sol    *domain.Solution
		result Result
	)
	err := m.WithLock(ctx, key, func(ctx context.Context) error {
		var err error
		sol, err = m.store.Load(ctx, key)
		if err == nil {
			result = ResultHit
			return nil
		}
		if !errors.Is(err, domain.ErrSolutionNotFound) {
			return fmt.Errorf("failed to check cached solution: %w", err)
		}

		result = ResultMiss
		sol, err = compute(ctx)
		if err != nil {
			return err
		}

		if err := m.store.Save(ctx, key, sol); err != nil {
			// The result is still valid; the next caller recomputes.
			m.logger.Warn("Failed to store solution", "key", key, "err", err)
		}
		return nil
	})
	if err != nil {
		return nil, result, err
	}

	m.logger.Debug("Solution resolved", "key", key, "result", string(result), "outcome", string(sol.Outcome))
	if m.observe != nil {
		m.observe(result)
	}
	return sol, result, nil
}

// Load retrieves a stored solution.
func (m *Manager) Load(ctx context.Context, key string) (*domain.Solution, error) {
	var sol *domain.Solution
	err := m.WithLock(ctx, key, func(ctx context.Context) error {
		var err error
		sol, err = m.store.Load(ctx, key)
		return err
	})
	return sol, err
}

// Delete removes a stored solution.
func (m *Manager) Delete(ctx context.Context, key string) error {
	return m.WithLock(ctx, key, func(ctx context.Context) error {
		return m.store.Delete(ctx, key)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying solution store.
func (m *Manager) Store() ports.SolutionStore {
	return m.store
}

// WithLock executes fn while holding the lock for key.
// Waiting for the lock stops with ctx.Err() once ctx is done.
func (m *Manager) WithLock(ctx context.Context, key string, fn func(context.Context) error) error {
	entry := m.acquire(key)
	select {
	case entry.sem <- struct{}{}:
	case <-ctx.Done():
		m.release(key)
		return ctx.Err()
	}
	defer func() {
		<-entry.sem
		m.release(key)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, key, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"key", key,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
