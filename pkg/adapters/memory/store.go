// Package memory implements core.KeyValueStore in process memory.
// Values are lost when the process exits; it backs tests and --memory runs.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/introspection"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/scribble/pkg/core"
)

// Store is a mutex-guarded map of keys to values.
type Store struct {
	mu       sync.RWMutex
	items    map[string]string
	readOnly bool
}

// Option configures a Store.
type Option func(*Store)

// WithReadOnly rejects every write with core.ErrReadOnly.
func WithReadOnly(enabled bool) Option {
	return func(s *Store) { s.readOnly = enabled }
}

// NewStore creates an empty store, optionally seeded with items.
func NewStore(seed map[string]string, opts ...Option) *Store {
	items := make(map[string]string, len(seed))
	for k, v := range seed {
		items[k] = v
	}
	s := &Store{items: items}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) GetItem(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok, nil
}

func (s *Store) SetItem(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	if s.readOnly {
		return core.ErrReadOnly
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	return nil
}

// Keys returns the sorted keys matching pattern.
func (s *Store) Keys(ctx context.Context, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "**"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid key pattern: %q", pattern)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	for k := range s.items {
		if match, _ := doublestar.Match(pattern, k); match {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys, nil
}

// StoreState exposes internal state for observability.
type StoreState struct {
	Keys     int  `json:"keys"`
	ReadOnly bool `json:"read_only"`
}

func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StoreState{Keys: len(s.items), ReadOnly: s.readOnly}
}

func (s *Store) ComponentType() string {
	return "memory"
}

var (
	_ core.KeyValueStore           = (*Store)(nil)
	_ core.KeyLister               = (*Store)(nil)
	_ introspection.Component      = (*Store)(nil)
	_ introspection.Introspectable = (*Store)(nil)
)
