package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
)

// Service wires the note store, the search view and the capture session together.
type Service struct {
	mu       sync.RWMutex
	store    *Store
	capture  *CaptureSession
	kv       KeyValueStore
	notifier Notifier
	logger   *slog.Logger

	eventBufferSize int
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithNotifier sets the toast collaborator.
func WithNotifier(n Notifier) ServiceOption {
	return func(s *Service) {
		s.notifier = n
	}
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithEventBuffer sets the buffer size of Watch channels.
func WithEventBuffer(size int) ServiceOption {
	return func(s *Service) {
		if size > 0 {
			s.eventBufferSize = size
		}
	}
}

// NewService creates a new Service. kv is the store backing the note slot;
// it is only consulted for optional capabilities such as watching.
func NewService(store *Store, capture *CaptureSession, kv KeyValueStore, opts ...ServiceOption) *Service {
	s := &Service{
		store:           store,
		capture:         capture,
		kv:              kv,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		eventBufferSize: 100,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the underlying note store.
func (s *Service) Store() *Store { return s.store }

// KV returns the store backing the note slot.
func (s *Service) KV() KeyValueStore { return s.kv }

// Capture returns the capture session.
func (s *Service) Capture() *CaptureSession { return s.capture }

// Restore reloads the note list from the durable slot.
func (s *Service) Restore(ctx context.Context) []Note {
	return s.store.Restore(ctx)
}

// List returns all notes, newest first.
func (s *Service) List() []Note {
	return s.store.List()
}

// Search returns the notes matching query.
func (s *Service) Search(query string) []Note {
	return Filter(s.store.List(), query)
}

// CreateNote saves typed content directly, bypassing the draft.
func (s *Service) CreateNote(ctx context.Context, content string) (Note, error) {
	note, err := s.store.Create(ctx, content)
	if err != nil {
		return Note{}, err
	}
	s.notify(Notification{Level: LevelSuccess, Message: "note saved"})
	return note, nil
}

// DeleteNote removes a note. Unknown IDs are ignored.
func (s *Service) DeleteNote(ctx context.Context, id string) ([]Note, error) {
	return s.store.Delete(ctx, id)
}

// SaveDraft turns the current draft into a note.
//
// A live recording is stopped first. An empty draft is rejected with
// ErrInvalidInput and left in place; on success the session is reset.
func (s *Service) SaveDraft(ctx context.Context) (Note, error) {
	if s.capture.Status() == StatusRecording {
		s.capture.Stop()
	}
	if !s.capture.CanSave() {
		return Note{}, ErrInvalidInput
	}

	note, err := s.store.Create(ctx, s.capture.Draft())
	if err != nil {
		return Note{}, err
	}

	s.capture.Reset()
	s.notify(Notification{Level: LevelSuccess, Message: "note saved"})
	return note, nil
}

// StartDictation starts a recording into the draft.
func (s *Service) StartDictation() error {
	return s.capture.Start()
}

// StopDictation stops the recording and returns the draft.
func (s *Service) StopDictation() string {
	return s.capture.Stop()
}

// Watch reloads the store whenever the slot changes outside this process
// and emits the resulting events.
func (s *Service) Watch(ctx context.Context) (<-chan Event, error) {
	w, ok := s.kv.(Watchable)
	if !ok {
		return nil, fmt.Errorf("watch: %w", ErrUnsupported)
	}

	changes, err := w.Watch(ctx, s.store.Slot())
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	size := s.eventBufferSize
	s.mu.RUnlock()

	out := make(chan Event, size)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case _, ok := <-changes:
				if !ok {
					return nil
				}
				notes := s.store.Restore(ctx)
				s.logger.Debug("slot changed externally, reloaded", "notes", len(notes))
				select {
				case out <- Event{Type: EventRestore, Timestamp: time.Now().Unix()}:
				case <-ctx.Done():
					return nil
				}
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		s.logger.Error("slot watch failed", "error", err)
	}))
	return out, nil
}

// Slots lists the keys of the backing store matching pattern.
func (s *Service) Slots(ctx context.Context, pattern string) ([]string, error) {
	l, ok := s.kv.(KeyLister)
	if !ok {
		return nil, fmt.Errorf("list slots: %w", ErrUnsupported)
	}
	return l.Keys(ctx, pattern)
}

// Close stops any live recording and releases the backing store.
func (s *Service) Close() error {
	if s.capture.Status() == StatusRecording {
		s.capture.Stop()
	}
	if c, ok := s.kv.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *Service) notify(n Notification) {
	if s.notifier != nil {
		s.notifier.Notify(n)
		return
	}
	s.logger.Info(n.Message, "level", n.Level)
}
