package core

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// SessionStatus is the lifecycle position of a CaptureSession.
type SessionStatus int

const (
	StatusIdle SessionStatus = iota
	StatusRecording
	StatusStopped
)

func (s SessionStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRecording:
		return "recording"
	case StatusStopped:
		return "stopped"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// CaptureSession owns the draft buffer and at most one live recognition.
//
// Engine callbacks may arrive from any goroutine. Each recognition is tagged
// with a generation; callbacks from a stopped or replaced recognition are dropped,
// so two recognitions never write the same draft.
type CaptureSession struct {
	mu         sync.Mutex
	engine     DictationEngine
	config     RecognitionConfig
	status     SessionStatus
	draft      string
	handle     Recognition
	generation uint64

	logger   *slog.Logger
	notifier Notifier
	onDraft  func(string)
	onError  func(error)
}

// CaptureOption configures a CaptureSession.
type CaptureOption func(*CaptureSession)

// WithRecognitionConfig overrides the engine configuration.
func WithRecognitionConfig(cfg RecognitionConfig) CaptureOption {
	return func(c *CaptureSession) {
		c.config = cfg
	}
}

// WithCaptureLogger sets the logger used for transcription errors.
func WithCaptureLogger(logger *slog.Logger) CaptureOption {
	return func(c *CaptureSession) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithCaptureNotifier sets the notifier warned when dictation is unavailable.
func WithCaptureNotifier(n Notifier) CaptureOption {
	return func(c *CaptureSession) {
		c.notifier = n
	}
}

// WithDraftObserver registers a callback invoked after every draft change made by the engine.
func WithDraftObserver(fn func(draft string)) CaptureOption {
	return func(c *CaptureSession) {
		c.onDraft = fn
	}
}

// WithErrorObserver registers a callback invoked for every transcription error.
func WithErrorObserver(fn func(err error)) CaptureOption {
	return func(c *CaptureSession) {
		c.onError = fn
	}
}

// NewCaptureSession creates an idle session bound to a dictation engine.
func NewCaptureSession(engine DictationEngine, opts ...CaptureOption) *CaptureSession {
	c := &CaptureSession{
		engine: engine,
		config: DefaultRecognitionConfig(""),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start begins a dictation run.
//
// The capability check runs first: without an engine the call fails with
// ErrCaptureUnavailable and leaves the draft as it was, as does an engine that
// fails to start. A recording already in progress is released before the new
// one starts. Start does not block for the
// recording; results arrive through the engine callbacks.
func (c *CaptureSession) Start() error {
	if c.engine == nil || !c.engine.Available() {
		c.notify(Notification{Level: LevelWarning, Message: "dictation is not supported on this host"})
		return ErrCaptureUnavailable
	}

	c.mu.Lock()
	previous := c.detach()
	c.generation++
	gen := c.generation
	priorStatus, priorDraft := c.status, c.draft
	c.status = StatusRecording
	c.draft = ""
	cfg := c.config
	c.mu.Unlock()

	c.release(previous)

	handle, err := c.engine.Start(cfg, RecognitionHandler{
		OnResult: func(transcript string) { c.handleResult(gen, transcript) },
		OnError:  func(err error) { c.handleError(gen, err) },
	})

	c.mu.Lock()
	if err != nil {
		// A failed start leaves the draft as it was.
		if c.generation == gen {
			c.status = priorStatus
			if priorStatus == StatusRecording {
				c.status = StatusIdle
			}
			c.draft = priorDraft
		}
		c.mu.Unlock()
		if errors.Is(err, ErrCaptureUnavailable) {
			c.notify(Notification{Level: LevelWarning, Message: "dictation is not supported on this host"})
			return err
		}
		return fmt.Errorf("failed to start dictation: %w", err)
	}
	if c.generation != gen {
		// Stopped or restarted while the engine was starting.
		c.mu.Unlock()
		c.release(handle)
		return nil
	}
	c.handle = handle
	c.mu.Unlock()

	c.logger.Debug("dictation started", "language", cfg.Language)
	return nil
}

// Stop ends the recording, releases the engine resource and returns the draft.
// Outside of a recording it only returns the last draft.
func (c *CaptureSession) Stop() string {
	c.mu.Lock()
	if c.status != StatusRecording {
		draft := c.draft
		c.mu.Unlock()
		return draft
	}
	handle := c.detach()
	c.generation++
	c.status = StatusStopped
	draft := c.draft
	c.mu.Unlock()

	c.release(handle)
	c.logger.Debug("dictation stopped", "chars", len(draft))
	return draft
}

// Reset clears the draft and returns to Idle, stopping a live recording first.
func (c *CaptureSession) Reset() {
	c.mu.Lock()
	handle := c.detach()
	c.generation++
	c.status = StatusIdle
	c.draft = ""
	c.mu.Unlock()

	c.release(handle)
}

// SetDraft replaces the draft with typed text.
func (c *CaptureSession) SetDraft(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = text
}

// Draft returns the current draft.
func (c *CaptureSession) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Status returns the lifecycle position of the session.
func (c *CaptureSession) Status() SessionStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// CanSave reports whether the draft holds something worth saving.
func (c *CaptureSession) CanSave() bool {
	return strings.TrimSpace(c.Draft()) != ""
}

// Language returns the configured dictation locale.
func (c *CaptureSession) Language() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.config.Language
}

func (c *CaptureSession) handleResult(gen uint64, transcript string) {
	c.mu.Lock()
	if gen != c.generation || c.status != StatusRecording {
		c.mu.Unlock()
		return
	}
	// The engine re-sends the whole transcript on every update.
	c.draft = transcript
	observer := c.onDraft
	c.mu.Unlock()

	if observer != nil {
		observer(transcript)
	}
}

func (c *CaptureSession) handleError(gen uint64, err error) {
	c.mu.Lock()
	current := gen == c.generation
	observer := c.onError
	c.mu.Unlock()
	if !current {
		return
	}

	var terr *TranscriptionError
	if !errors.As(err, &terr) {
		terr = &TranscriptionError{Reason: err.Error()}
	}

	// Recognition errors are transient: the recording keeps going.
	c.logger.Warn("dictation error", "reason", terr.Reason)
	if observer != nil {
		observer(terr)
	}
}

// detach must be called with c.mu held.
func (c *CaptureSession) detach() Recognition {
	handle := c.handle
	c.handle = nil
	return handle
}

func (c *CaptureSession) release(handle Recognition) {
	if handle == nil {
		return
	}
	if err := handle.Stop(); err != nil {
		c.logger.Warn("failed to release dictation", "error", err)
	}
}

func (c *CaptureSession) notify(n Notification) {
	if c.notifier != nil {
		c.notifier.Notify(n)
	}
}
