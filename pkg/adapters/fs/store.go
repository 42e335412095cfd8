// Package fs implements core.KeyValueStore on a directory: one JSON file per key.
package fs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/scribble/pkg/core"
)

// SlotExt is the extension of slot files.
const SlotExt = ".json"

// ErrReadOnly is returned by writes on a read-only store.
var ErrReadOnly = core.ErrReadOnly

// Config holds the configuration for the filesystem store.
type Config struct {
	Path         string
	MustExist    bool
	ReadOnly     bool
	Logger       *slog.Logger
	ErrorHandler func(error) // Receives watcher failures; they are logged otherwise.
}

// Store implements core.KeyValueStore using plain files.
type Store struct {
	Path   string
	config Config

	mu            sync.RWMutex
	lastWritten   map[string]string
	watcherActive bool
	lastChange    *time.Time
}

// NewStore creates a new filesystem-backed store. No I/O happens until Initialize.
func NewStore(config Config) *Store {
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{
		Path:        config.Path,
		config:      config,
		lastWritten: make(map[string]string),
	}
}

// Initialize makes sure the directory exists.
func (s *Store) Initialize(ctx context.Context) error {
	if s.config.MustExist || s.config.ReadOnly {
		info, err := os.Stat(s.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("store path does not exist: %s", s.Path)
		}
		if err != nil {
			return fmt.Errorf("failed to stat store path: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("store path is not a directory: %s", s.Path)
		}
		return nil
	}

	if err := os.MkdirAll(s.Path, 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	return nil
}

// GetItem reads the file holding key.
func (s *Store) GetItem(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(s.slotPath(key))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return string(data), true, nil
}

// SetItem rewrites the file holding key atomically.
func (s *Store) SetItem(ctx context.Context, key, value string) error {
	if s.config.ReadOnly {
		return ErrReadOnly
	}
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := replaceSlotFile(s.slotPath(key), []byte(value), 0644); err != nil {
		return err
	}

	s.mu.Lock()
	s.lastWritten[key] = value
	s.mu.Unlock()

	s.config.Logger.Debug("slot written", "key", key, "bytes", len(value))
	return nil
}

// Keys lists the keys stored in the directory matching a doublestar pattern.
func (s *Store) Keys(ctx context.Context, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "**"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid key pattern: %q", pattern)
	}

	entries, err := os.ReadDir(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to list store: %w", err)
	}

	var keys []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		key, ok := keyFromFile(e.Name())
		if !ok {
			continue
		}
		if match, _ := doublestar.Match(pattern, key); match {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	return keys, nil
}

// Watch reports changes made to keys matching pattern by other processes.
// Writes made through this Store are not reported back.
func (s *Store) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid key pattern: %q", pattern)
	}

	events := make(chan core.Event, 100)
	w := newWatchWorker(s, pattern, events)
	if err := w.Start(ctx); err != nil {
		return nil, err
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := w.Stop(stopCtx)
		close(events)
		return err
	}, lifecycle.WithErrorHandler(func(err error) {
		s.config.Logger.Error("failed to stop watcher", "error", err)
	}))

	return events, nil
}

// isOwnWrite reports whether the file under key still holds what this Store wrote last.
func (s *Store) isOwnWrite(key string) bool {
	s.mu.RLock()
	last, ok := s.lastWritten[key]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	data, err := os.ReadFile(s.slotPath(key))
	if err != nil {
		return false
	}
	return string(data) == last
}

func (s *Store) slotPath(key string) string {
	return filepath.Join(s.Path, fileForKey(key))
}

// fileForKey escapes a key into a single path segment.
func fileForKey(key string) string {
	return url.PathEscape(key) + SlotExt
}

func keyFromFile(name string) (string, bool) {
	if strings.HasPrefix(name, TempFilePrefix) || !strings.HasSuffix(name, SlotExt) {
		return "", false
	}
	key, err := url.PathUnescape(strings.TrimSuffix(name, SlotExt))
	if err != nil || key == "" {
		return "", false
	}
	return key, true
}

var (
	_ core.KeyValueStore = (*Store)(nil)
	_ core.KeyLister     = (*Store)(nil)
	_ core.Watchable     = (*Store)(nil)
)
