// Package badger implements core.KeyValueStore on an embedded Badger database.
package badger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"sync"

	"github.com/aretw0/introspection"
	"github.com/bmatcuk/doublestar/v4"
	badgerdb "github.com/dgraph-io/badger/v4"

	"github.com/aretw0/scribble/pkg/core"
)

// Config holds the configuration for the Badger store.
type Config struct {
	// Path is the database directory. Empty means in-memory.
	Path string
	// MustExist fails Initialize when Path is missing instead of creating it.
	MustExist bool
	ReadOnly  bool
	Logger    *slog.Logger
}

// Store implements core.KeyValueStore using Badger transactions.
type Store struct {
	config Config
	logger *slog.Logger

	mu     sync.RWMutex
	db     *badgerdb.DB
	writes int
}

// NewStore creates a Badger-backed store. The database is opened by Initialize.
func NewStore(config Config) *Store {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{config: config, logger: logger}
}

// Initialize opens the database.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return nil
	}

	if s.config.Path != "" && (s.config.MustExist || s.config.ReadOnly) {
		if _, err := os.Stat(s.config.Path); err != nil {
			return fmt.Errorf("badger path %q: %w", s.config.Path, err)
		}
	}

	opts := badgerdb.DefaultOptions(s.config.Path).WithLogger(nil)
	if s.config.Path == "" {
		opts = opts.WithInMemory(true)
	}
	if s.config.ReadOnly {
		opts = opts.WithReadOnly(true)
	}

	db, err := badgerdb.Open(opts)
	if err != nil {
		return fmt.Errorf("failed to open badger at %q: %w", s.config.Path, err)
	}
	s.db = db
	s.logger.Debug("badger opened", "path", s.config.Path, "in_memory", s.config.Path == "")
	return nil
}

// Close releases the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) handle() (*badgerdb.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, fmt.Errorf("badger store is not initialized")
	}
	return s.db, nil
}

func (s *Store) GetItem(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	db, err := s.handle()
	if err != nil {
		return "", false, err
	}

	var value []byte
	err = db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return string(value), true, nil
}

func (s *Store) SetItem(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	db, err := s.handle()
	if err != nil {
		return err
	}

	err = db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}

	s.mu.Lock()
	s.writes++
	s.mu.Unlock()
	return nil
}

// Keys iterates the keyspace without fetching values.
func (s *Store) Keys(ctx context.Context, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "**"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid key pattern: %q", pattern)
	}
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	var keys []string
	err = db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			key := string(it.Item().KeyCopy(nil))
			if match, _ := doublestar.Match(pattern, key); match {
				keys = append(keys, key)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	slices.Sort(keys)
	return keys, nil
}

// StoreState exposes internal state for observability.
type StoreState struct {
	Path     string `json:"path"`
	InMemory bool   `json:"in_memory"`
	Open     bool   `json:"open"`
	Writes   int    `json:"writes"`
}

func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StoreState{
		Path:     s.config.Path,
		InMemory: s.config.Path == "",
		Open:     s.db != nil,
		Writes:   s.writes,
	}
}

func (s *Store) ComponentType() string {
	return "badger"
}

var (
	_ core.KeyValueStore           = (*Store)(nil)
	_ core.KeyLister               = (*Store)(nil)
	_ introspection.Component      = (*Store)(nil)
	_ introspection.Introspectable = (*Store)(nil)
)
