package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aretw0/watercap/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by the store and the locker.
const DefaultPrefix = "watercap:solution:"

// neverExpires scores index members of solutions stored without a TTL (2100-01-01).
const neverExpires = 4102444800

// Store implements ports.SolutionStore using Redis.
// Solutions are JSON strings; a sorted set scored by expiry lists the live keys.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL expires stored solutions. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix overrides DefaultPrefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

func New(address, password string, db int, opts ...Option) *Store {
	return NewFromClient(backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	}), opts...)
}

// NewFromURL creates a store from a redis:// URL.
func NewFromURL(url string, opts ...Option) (*Store, error) {
	options, err := backend.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return NewFromClient(backend.NewClient(options), opts...), nil
}

func NewFromClient(client *backend.Client, opts ...Option) *Store {
	s := &Store{client: client, prefix: DefaultPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Client exposes the connection so a Locker can share it.
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) key(key string) string {
	return s.prefix + key
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

func (s *Store) expiry(now time.Time) float64 {
	if s.ttl <= 0 {
		return neverExpires
	}
	return float64(now.Add(s.ttl).Unix())
}

// Save writes the solution and its index entry in one MULTI block.
func (s *Store) Save(ctx context.Context, key string, sol *domain.Solution) error {
	data, err := json.Marshal(sol)
	if err != nil {
		return fmt.Errorf("failed to marshal solution: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(tx backend.Pipeliner) error {
		tx.Set(ctx, s.key(key), data, s.ttl)
		tx.ZAdd(ctx, s.indexKey(), backend.Z{Score: s.expiry(time.Now()), Member: key})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save solution %q: %w", key, err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context, key string) (*domain.Solution, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, backend.Nil) {
		return nil, domain.ErrSolutionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load solution %q: %w", key, err)
	}

	var sol domain.Solution
	if err := json.Unmarshal(data, &sol); err != nil {
		return nil, fmt.Errorf("failed to unmarshal solution: %w", err)
	}
	if sol.Moves == nil {
		sol.Moves = []domain.Move{}
	}
	return &sol, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.TxPipelined(ctx, func(tx backend.Pipeliner) error {
		tx.Del(ctx, s.key(key))
		tx.ZRem(ctx, s.indexKey(), key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete solution %q: %w", key, err)
	}
	return nil
}

// List returns the live keys. Index entries whose solution expired are pruned on the way.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := strconv.FormatInt(time.Now().Unix(), 10)

	var live *backend.StringSliceCmd
	_, err := s.client.TxPipelined(ctx, func(tx backend.Pipeliner) error {
		tx.ZRemRangeByScore(ctx, s.indexKey(), "-inf", now)
		live = tx.ZRange(ctx, s.indexKey(), 0, -1)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list solutions: %w", err)
	}
	return live.Val(), nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
