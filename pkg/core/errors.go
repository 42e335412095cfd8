package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	// ErrInvalidInput is returned when a note would be saved with empty content.
	ErrInvalidInput = errors.New("note content cannot be empty")

	// ErrCaptureUnavailable is returned when the host offers no dictation capability.
	ErrCaptureUnavailable = errors.New("dictation is not available")

	// ErrPersistenceCorrupt marks a durable slot that could not be decoded.
	// Restore recovers from it locally; it is only ever logged.
	ErrPersistenceCorrupt = errors.New("persisted notes are corrupt")

	// ErrUnsupported is returned when the storage backend lacks an optional capability.
	ErrUnsupported = errors.New("operation not supported by storage")

	// ErrReadOnly is returned by writes to storage opened read-only.
	ErrReadOnly = errors.New("store is in read-only mode")
)

// TranscriptionError is a transient error reported by the dictation engine.
// It never ends a recording on its own.
type TranscriptionError struct {
	Reason string
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("transcription error: %s", e.Reason)
}
