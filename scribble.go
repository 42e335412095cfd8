package scribble

import (
	"log/slog"
	"time"

	"github.com/aretw0/scribble/internal/platform"
	"github.com/aretw0/scribble/pkg/core"
)

// --- Types ---

// Note is a public alias for a saved note.
type Note = core.Note

// Service is a public alias for the note service.
type Service = core.Service

// --- Configuration ---

// Option defines a functional option for configuring scribble.
type Option = platform.Option

// WithAdapter selects the storage adapter by name: "fs" (default), "badger", "sqlite" or "memory".
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithKeyValueStore injects a custom storage backend.
func WithKeyValueStore(kv core.KeyValueStore) Option {
	return platform.WithKeyValueStore(kv)
}

// WithSlot sets the key the note list is stored under.
func WithSlot(slot string) Option {
	return platform.WithSlot(slot)
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithLanguage sets the dictation locale.
func WithLanguage(tag string) Option {
	return platform.WithLanguage(tag)
}

// WithDictationEngine injects the speech-to-text engine.
func WithDictationEngine(engine core.DictationEngine) Option {
	return platform.WithDictationEngine(engine)
}

// WithDictationCommand configures an external recognizer command.
func WithDictationCommand(argv []string) Option {
	return platform.WithDictationCommand(argv)
}

// WithDraftObserver is called with the whole draft every time dictation changes it.
func WithDraftObserver(fn func(draft string)) Option {
	return platform.WithDraftObserver(fn)
}

// WithNotifier sets the toast collaborator.
func WithNotifier(n core.Notifier) Option {
	return platform.WithNotifier(n)
}

// WithClock overrides the time source stamping new notes.
func WithClock(now func() time.Time) Option {
	return platform.WithClock(now)
}

// WithIDGenerator overrides the note ID source.
func WithIDGenerator(gen func() string) Option {
	return platform.WithIDGenerator(gen)
}

// WithForceTemp forces storage into a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithMustExist requires the storage location to exist already.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithReadOnly opens the storage without writing to it.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithDevSafety controls the sandbox used under `go run` and `go test`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithEventBuffer sets the buffer size of watch channels.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithWatcherErrorHandler receives runtime watcher failures.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Factory ---

// New creates a Service and restores its notes.
func New(uri string, opts ...Option) (*core.Service, error) {
	return platform.New(uri, opts...)
}

// Init opens a storage backend explicitly.
func Init(uri string, opts ...Option) (core.KeyValueStore, error) {
	return platform.Init(uri, opts...)
}

// --- Safety & Utils ---

// ResolveStoragePath determines where a storage location really lives under the dev sandbox.
func ResolveStoragePath(userPath string, forceTemp bool) string {
	return platform.ResolveStoragePath(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindRoot looks upwards for a directory holding a .scribble folder.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
