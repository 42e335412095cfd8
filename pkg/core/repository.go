package core

import "context"

// KeyValueStore defines the contract for the persistent string store holding the durable slot.
// Adhering to this interface allows the core to be independent of the
// underlying storage mechanism (Filesystem, Badger, SQLite, memory).
type KeyValueStore interface {
	// GetItem returns the value stored under key. ok is false when the key is absent.
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)

	// SetItem overwrites the value stored under key.
	SetItem(ctx context.Context, key, value string) error
}

// KeyLister is implemented by stores that can enumerate their keys.
type KeyLister interface {
	// Keys returns the keys matching a glob pattern ("**" matches everything).
	Keys(ctx context.Context, pattern string) ([]string, error)
}

// Watchable is implemented by stores that can report changes made outside this process.
type Watchable interface {
	// Watch emits an event every time the value under key changes.
	// The channel is closed when ctx is cancelled.
	Watch(ctx context.Context, key string) (<-chan Event, error)
}

// RecognitionConfig configures a dictation engine run.
type RecognitionConfig struct {
	Language        string
	Continuous      bool
	InterimResults  bool
	MaxAlternatives int
}

// DefaultRecognitionConfig mirrors the settings notes are dictated with:
// one locale, continuous, interim results and a single alternative.
func DefaultRecognitionConfig(language string) RecognitionConfig {
	if language == "" {
		language = DefaultLanguage
	}
	return RecognitionConfig{
		Language:        language,
		Continuous:      true,
		InterimResults:  true,
		MaxAlternatives: 1,
	}
}

// DefaultLanguage is the dictation locale used when none is configured.
const DefaultLanguage = "pt-BR"

// RecognitionHandler receives the events of a running recognition.
// Both callbacks may fire repeatedly, from any goroutine, at times chosen by the engine.
type RecognitionHandler struct {
	// OnResult receives the full transcript so far, not a delta.
	OnResult func(transcript string)

	// OnError receives transient recognition errors.
	OnError func(err error)
}

// Recognition is a running dictation resource.
type Recognition interface {
	// Stop releases the resource. It must be safe to call exactly once per Recognition.
	Stop() error
}

// DictationEngine defines the contract for a host speech-to-text capability.
type DictationEngine interface {
	// Available reports whether dictation can be used at all.
	// It must not allocate any resource.
	Available() bool

	// Start begins a recognition. It must not block for the duration of the recording.
	Start(cfg RecognitionConfig, h RecognitionHandler) (Recognition, error)
}

// NotificationLevel classifies a user-facing signal.
type NotificationLevel string

const (
	LevelSuccess NotificationLevel = "success"
	LevelWarning NotificationLevel = "warning"
)

// Notification is a signal for the toast collaborator.
type Notification struct {
	Level   NotificationLevel
	Message string
}

// Notifier presents notifications to the user.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a plain function to a Notifier.
type NotifierFunc func(n Notification)

// Notify implements Notifier.
func (f NotifierFunc) Notify(n Notification) { f(n) }
