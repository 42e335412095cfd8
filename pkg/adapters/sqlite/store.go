// Package sqlite implements core.KeyValueStore on a single SQLite table.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/aretw0/introspection"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/scribble/pkg/core"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Store keeps every key as one row of the kv table.
type Store struct {
	path     string
	readOnly bool
	db       *sql.DB
}

// Option configures Open.
type Option func(*openConfig)

type openConfig struct {
	readOnly  bool
	mustExist bool
}

// WithReadOnly opens an existing database without write access.
// Writes fail with core.ErrReadOnly.
func WithReadOnly(enabled bool) Option {
	return func(c *openConfig) { c.readOnly = enabled }
}

// WithMustExist fails Open when the database file is missing.
func WithMustExist(enabled bool) Option {
	return func(c *openConfig) { c.mustExist = enabled }
}

// Open opens (or creates) the database at path and ensures the schema.
// A read-only database must already exist and is never created or migrated.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	var cfg openConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	dsn := path
	if path != MemoryPath {
		if cfg.readOnly || cfg.mustExist {
			if _, err := os.Stat(path); err != nil {
				return nil, fmt.Errorf("sqlite database %q: %w", path, err)
			}
		} else if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
		if cfg.readOnly {
			dsn = "file:" + path + "?mode=ro"
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Every connection to :memory: gets its own database.
	db.SetMaxOpenConns(1)

	s := &Store{path: path, readOnly: cfg.readOnly, db: db}
	if cfg.readOnly {
		return s, nil
	}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS kv (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at INTEGER NOT NULL DEFAULT (strftime('%s','now'))
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create kv table: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) GetItem(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?;`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) SetItem(ctx context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	if s.readOnly {
		return core.ErrReadOnly
	}
	const stmt = `
INSERT INTO kv (key, value, updated_at)
VALUES (?, ?, strftime('%s','now'))
ON CONFLICT(key) DO UPDATE SET
  value = excluded.value,
  updated_at = excluded.updated_at;
`
	if _, err := s.db.ExecContext(ctx, stmt, key, value); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// Keys returns the sorted keys matching a doublestar pattern.
func (s *Store) Keys(ctx context.Context, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "**"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid key pattern: %q", pattern)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT key FROM kv;`)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		if match, _ := doublestar.Match(pattern, key); match {
			keys = append(keys, key)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate keys: %w", err)
	}
	slices.Sort(keys)
	return keys, nil
}

// StoreState exposes internal state for observability.
type StoreState struct {
	Path            string `json:"path"`
	ReadOnly        bool   `json:"read_only"`
	OpenConnections int    `json:"open_connections"`
}

func (s *Store) State() any {
	return StoreState{
		Path:            s.path,
		ReadOnly:        s.readOnly,
		OpenConnections: s.db.Stats().OpenConnections,
	}
}

func (s *Store) ComponentType() string {
	return "sqlite"
}

var (
	_ core.KeyValueStore           = (*Store)(nil)
	_ core.KeyLister               = (*Store)(nil)
	_ introspection.Component      = (*Store)(nil)
	_ introspection.Introspectable = (*Store)(nil)
)
