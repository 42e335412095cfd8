package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/scribble/pkg/core"
)

// options holds the internal configuration for the scribble service.
type options struct {
	kv       core.KeyValueStore
	engine   core.DictationEngine
	notifier core.Notifier
	logger   *slog.Logger
	adapter  string
	slot     string
	language string
	now      func() time.Time
	newID    func() string
	onDraft  func(string)
	config   map[string]interface{}
}

// Option defines a functional option for configuring scribble.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		adapter: "fs",
		config:  make(map[string]interface{}),
	}
}

func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithAdapter selects the storage adapter by name: "fs" (default), "badger", "sqlite" or "memory".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithKeyValueStore injects a storage backend. The adapter setting is ignored.
func WithKeyValueStore(kv core.KeyValueStore) Option {
	return func(o *options) {
		o.kv = kv
	}
}

// WithSlot sets the key the note list is stored under.
func WithSlot(slot string) Option {
	return func(o *options) {
		o.slot = slot
	}
}

// WithLogger sets the logger for the service and its adapters.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLanguage sets the dictation locale (BCP-47, e.g. "pt-BR").
func WithLanguage(tag string) Option {
	return func(o *options) {
		o.language = tag
	}
}

// WithDictationEngine injects the speech-to-text engine.
func WithDictationEngine(engine core.DictationEngine) Option {
	return func(o *options) {
		o.engine = engine
	}
}

// WithDictationCommand configures an external recognizer command.
// It is used when no engine is injected.
func WithDictationCommand(argv []string) Option {
	return func(o *options) {
		o.config["dictation_command"] = argv
	}
}

// WithDraftObserver is called with the whole draft every time dictation changes it.
func WithDraftObserver(fn func(draft string)) Option {
	return func(o *options) {
		o.onDraft = fn
	}
}

// WithNotifier sets the toast collaborator.
func WithNotifier(n core.Notifier) Option {
	return func(o *options) {
		o.notifier = n
	}
}

// WithClock overrides the time source stamping new notes.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithIDGenerator overrides the note ID source.
func WithIDGenerator(gen func() string) Option {
	return func(o *options) {
		o.newID = gen
	}
}

// WithForceTemp forces storage into a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.config["temp_dir"] = force
	}
}

// WithMustExist requires the storage location to exist already.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithEventBuffer sets the buffer size of watch channels. Zero means default (100).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.config["event_buffer"] = size
	}
}

// WithWatcherErrorHandler receives runtime watcher failures (e.g. permission denied),
// which are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}

// WithReadOnly opens the storage without writing to it.
// Saving a note then fails, and the dev sandbox is bypassed.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}

// WithDevSafety controls the sandbox used when running via `go run` or `go test`.
// By default (true) storage is redirected to a temporary directory.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.config["dev_safety"] = enabled
	}
}
