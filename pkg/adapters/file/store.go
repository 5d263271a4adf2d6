package file

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/watercap/pkg/domain"
)

const ext = ".json"

var errEmptyKey = errors.New("key cannot be empty")

// Store implements ports.SolutionStore using the local filesystem.
// Each solution is a JSON file whose name is the base64url encoded key,
// since puzzle keys contain characters that are not portable in file names.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".watercap/solutions".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".watercap", "solutions")
	}
	return &Store{BasePath: basePath}
}

func fileName(key string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(key)) + ext
}

func (s *Store) path(key string) string {
	return filepath.Join(s.BasePath, fileName(key))
}

// Save writes the solution through a synced temp file renamed over the
// destination, so readers never see a partial file.
func (s *Store) Save(ctx context.Context, key string, sol *domain.Solution) error {
	if key == "" {
		return errEmptyKey
	}
	data, err := json.MarshalIndent(sol, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal solution: %w", err)
	}
	if err := os.MkdirAll(s.BasePath, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", s.BasePath, err)
	}

	tmp, err := os.CreateTemp(s.BasePath, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after the rename

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to write solution %q: %w", key, err)
	}

	dest := s.path(key)
	// Windows refuses to rename over an existing file.
	if err := os.Remove(dest); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to replace solution %q: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("failed to store solution %q: %w", key, err)
	}
	return nil
}

// Load retrieves the solution from its JSON file.
func (s *Store) Load(ctx context.Context, key string) (*domain.Solution, error) {
	if key == "" {
		return nil, errEmptyKey
	}

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrSolutionNotFound
		}
		return nil, fmt.Errorf("failed to read solution file: %w", err)
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

// Delete removes the solution file.
func (s *Store) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errEmptyKey
	}

	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete solution file: %w", err)
	}

	return nil
}

// List returns the keys of all stored solutions. Files not written by the store are ignored.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list solutions: %w", err)
	}

	keys := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ext) {
			continue
		}
		key, err := base64.RawURLEncoding.DecodeString(strings.TrimSuffix(name, ext))
		if err != nil {
			continue
		}
		keys = append(keys, string(key))
	}

	return keys, nil
}
