package core

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultSlot is the key the note list is persisted under.
const DefaultSlot = "note@array-notes"

// maxIDAttempts bounds the retries when the ID generator collides.
const maxIDAttempts = 8

// Store owns the ordered collection of notes and its durable encoding.
//
// Notes are kept newest first, in insertion order. Every mutation rewrites the
// whole slot; if that write fails the mutation is rolled back, so the in-memory
// list and the slot never disagree after a call returns.
type Store struct {
	mu     sync.RWMutex
	kv     KeyValueStore
	slot   string
	notes  []Note
	issued map[string]struct{}
	subs   map[chan Event]struct{}

	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithSlot sets the key of the durable slot.
func WithSlot(slot string) StoreOption {
	return func(s *Store) {
		if slot != "" {
			s.slot = slot
		}
	}
}

// WithStoreLogger sets the logger used to report discarded slots.
func WithStoreLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used to stamp new notes.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides the note ID generator.
func WithIDGenerator(gen func() string) StoreOption {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// NewStore creates a Store on top of a key-value store.
// The store starts empty; call Restore to load the slot.
func NewStore(kv KeyValueStore, opts ...StoreOption) *Store {
	s := &Store{
		kv:     kv,
		slot:   DefaultSlot,
		notes:  []Note{},
		issued: make(map[string]struct{}),
		subs:   make(map[chan Event]struct{}),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Slot returns the key of the durable slot.
func (s *Store) Slot() string {
	return s.slot
}

// Restore loads the durable slot into memory and returns the loaded list.
// A missing, unreadable or malformed slot yields an empty list: corruption
// costs the prior notes but never blocks the caller.
//
// The slot is read under the store lock, so a concurrent Create or Delete is
// either fully visible in the loaded list or applied after it.
func (s *Store) Restore(ctx context.Context) []Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes, err := s.load(ctx)
	if err != nil {
		s.logger.Warn("discarding persisted notes", "slot", s.slot, "error", err)
		notes = []Note{}
	}

	s.notes = notes
	for _, n := range notes {
		s.issued[n.ID] = struct{}{}
	}
	s.emit(Event{Type: EventRestore, Timestamp: s.now().Unix()})
	return slices.Clone(notes)
}

func (s *Store) load(ctx context.Context) ([]Note, error) {
	raw, ok, err := s.kv.GetItem(ctx, s.slot)
	if err != nil {
		return nil, fmt.Errorf("%w: read slot %q: %v", ErrPersistenceCorrupt, s.slot, err)
	}
	if !ok {
		return []Note{}, nil
	}

	var decoded []Note
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("%w: decode slot %q: %v", ErrPersistenceCorrupt, s.slot, err)
	}

	// Duplicate IDs can only come from outside edits; the first occurrence wins.
	seen := make(map[string]struct{}, len(decoded))
	notes := make([]Note, 0, len(decoded))
	for _, n := range decoded {
		if _, dup := seen[n.ID]; dup {
			s.logger.Debug("dropping duplicate note", "id", n.ID)
			continue
		}
		seen[n.ID] = struct{}{}
		notes = append(notes, n)
	}
	return notes, nil
}

// Create validates content, prepends a new note and persists the list.
// Content that is empty after trimming is rejected with ErrInvalidInput.
func (s *Store) Create(ctx context.Context, content string) (Note, error) {
	if strings.TrimSpace(content) == "" {
		return Note{}, ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.uniqueID()
	if err != nil {
		return Note{}, err
	}

	note := Note{
		ID:      id,
		Date:    s.now().UTC(),
		Content: content,
	}

	next := make([]Note, 0, len(s.notes)+1)
	next = append(next, note)
	next = append(next, s.notes...)

	if err := s.persist(ctx, next); err != nil {
		return Note{}, err
	}

	s.notes = next
	s.issued[id] = struct{}{}
	s.emit(Event{Type: EventCreate, ID: id, Timestamp: note.Date.Unix()})
	return note, nil
}

// Delete removes the note with the given ID and persists the result.
// Deleting an unknown ID is not an error.
func (s *Store) Delete(ctx context.Context, id string) ([]Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := slices.DeleteFunc(slices.Clone(s.notes), func(n Note) bool {
		return n.ID == id
	})
	removed := len(next) != len(s.notes)

	if err := s.persist(ctx, next); err != nil {
		return nil, err
	}

	s.notes = next
	if removed {
		s.emit(Event{Type: EventDelete, ID: id, Timestamp: s.now().Unix()})
	}
	return slices.Clone(next), nil
}

// List returns the notes in canonical order. It has no side effects.
func (s *Store) List() []Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.notes)
}

// Get returns the note with the given ID.
func (s *Store) Get(id string) (Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := slices.IndexFunc(s.notes, func(n Note) bool { return n.ID == id })
	if idx == -1 {
		return Note{}, false
	}
	return s.notes[idx], true
}

// Len returns the number of notes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes)
}

// Subscribe returns a channel receiving every change to the list.
// Events are dropped when the buffer is full. Call the returned func to unsubscribe.
func (s *Store) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Event, buffer)

	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, ch)
			s.mu.Unlock()
			close(ch)
		})
	}
}

// emit must be called with s.mu held.
func (s *Store) emit(e Event) {
	for ch := range s.subs {
		select {
		case ch <- e:
		default:
			s.logger.Warn("subscriber channel full, dropping event", "type", e.Type)
		}
	}
}

func (s *Store) persist(ctx context.Context, notes []Note) error {
	data, err := json.Marshal(notes)
	if err != nil {
		return fmt.Errorf("failed to encode notes: %w", err)
	}
	if err := s.kv.SetItem(ctx, s.slot, string(data)); err != nil {
		return fmt.Errorf("failed to persist notes: %w", err)
	}
	return nil
}

// uniqueID must be called with s.mu held.
func (s *Store) uniqueID() (string, error) {
	for range maxIDAttempts {
		id := s.newID()
		if id == "" {
			continue
		}
		if _, used := s.issued[id]; used {
			continue
		}
		return id, nil
	}
	return "", fmt.Errorf("failed to generate a unique note ID after %d attempts", maxIDAttempts)
}
