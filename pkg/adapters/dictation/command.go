// Package dictation provides core.DictationEngine implementations.
package dictation

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/scribble/pkg/core"
)

// LangPlaceholder is replaced in argv by the configured language tag.
const LangPlaceholder = "{lang}"

// ErrAlreadyStopped is returned by a second Stop on the same recognition.
var ErrAlreadyStopped = errors.New("recognition already stopped")

// Command runs an external streaming recognizer and reads transcripts from its stdout.
//
// Each stdout line is one of:
//
//	{"results":[{"transcript":"hello "},{"transcript":"world"}]}
//	{"transcript":"hello world"}
//	{"error":"no-speech"}
//	hello world
//
// Every line carries the whole transcript so far, not a delta.
type Command struct {
	argv        []string
	logger      *slog.Logger
	lookPath    func(string) (string, error)
	stopTimeout time.Duration
}

// Option configures a Command engine.
type Option func(*Command)

// WithLogger sets the logger for process lifecycle messages.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Command) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithLookPath replaces exec.LookPath when resolving argv[0].
func WithLookPath(fn func(string) (string, error)) Option {
	return func(c *Command) {
		c.lookPath = fn
	}
}

// WithStopTimeout bounds how long Stop waits for the process to exit.
func WithStopTimeout(d time.Duration) Option {
	return func(c *Command) {
		c.stopTimeout = d
	}
}

// NewCommand creates an engine for argv. An empty argv is never available.
func NewCommand(argv []string, opts ...Option) *Command {
	c := &Command{
		argv:        append([]string(nil), argv...),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		lookPath:    exec.LookPath,
		stopTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ParseCommandLine splits a configured command on whitespace.
func ParseCommandLine(line string) []string {
	return strings.Fields(line)
}

// Available reports whether argv[0] can be found.
func (c *Command) Available() bool {
	_, err := c.resolve()
	return err == nil
}

func (c *Command) resolve() (string, error) {
	if len(c.argv) == 0 {
		return "", fmt.Errorf("%w: no recognizer command configured", core.ErrCaptureUnavailable)
	}
	path, err := c.lookPath(c.argv[0])
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrCaptureUnavailable, err)
	}
	return path, nil
}

// Start launches the recognizer. Output is consumed on a background goroutine
// until the process exits or the recognition is stopped.
//
// A recognizer that exits by itself does not end the recording. A non-zero
// exit is reported through OnError, which the capture session treats as a
// transient transcription error; a clean exit is only logged. Either way the
// session stays in Recording with the last transcript as its draft until the
// caller stops it, and Stop then returns at once because the reader has
// already finished.
func (c *Command) Start(cfg core.RecognitionConfig, h core.RecognitionHandler) (core.Recognition, error) {
	path, err := c.resolve()
	if err != nil {
		return nil, err
	}

	args := make([]string, 0, len(c.argv)-1)
	for _, a := range c.argv[1:] {
		args = append(args, strings.ReplaceAll(a, LangPlaceholder, cfg.Language))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(ctx, path, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to attach to recognizer: %w", err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start recognizer: %w", err)
	}
	c.logger.Debug("recognizer started", "path", path, "pid", cmd.Process.Pid, "lang", cfg.Language)

	rec := &commandRecognition{
		cancel:  cancel,
		done:    make(chan struct{}),
		timeout: c.stopTimeout,
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(rec.done)
		readTranscripts(stdout, h)
		err := cmd.Wait()
		if err != nil && ctx.Err() == nil {
			if h.OnError != nil {
				h.OnError(fmt.Errorf("recognizer exited: %w", err))
			}
			return err
		}
		c.logger.Debug("recognizer exited", "pid", cmd.Process.Pid)
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		c.logger.Warn("recognizer failed", "error", err)
	}))

	return rec, nil
}

type commandRecognition struct {
	once    sync.Once
	cancel  context.CancelFunc
	done    chan struct{}
	timeout time.Duration
}

// Stop kills the process and waits for the reader to drain.
func (r *commandRecognition) Stop() error {
	err := ErrAlreadyStopped
	r.once.Do(func() {
		err = nil
		r.cancel()
		select {
		case <-r.done:
		case <-time.After(r.timeout):
			err = fmt.Errorf("recognizer did not exit within %s", r.timeout)
		}
	})
	return err
}

type recognizerLine struct {
	Results []struct {
		Transcript string `json:"transcript"`
		Final      bool   `json:"final"`
	} `json:"results"`
	Transcript *string `json:"transcript"`
	Error      string  `json:"error"`
}

func readTranscripts(r io.Reader, h core.RecognitionHandler) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		dispatchLine(scanner.Text(), h)
	}
	if err := scanner.Err(); err != nil && h.OnError != nil {
		h.OnError(err)
	}
}

func dispatchLine(line string, h core.RecognitionHandler) {
	line = strings.TrimRight(line, "\r")
	if strings.TrimSpace(line) == "" {
		return
	}

	var msg recognizerLine
	if !strings.HasPrefix(strings.TrimSpace(line), "{") || json.Unmarshal([]byte(line), &msg) != nil {
		emitResult(h, strings.TrimSpace(line))
		return
	}

	switch {
	case msg.Error != "":
		if h.OnError != nil {
			h.OnError(errors.New(msg.Error))
		}
	case msg.Results != nil:
		var b strings.Builder
		for _, r := range msg.Results {
			b.WriteString(r.Transcript)
		}
		emitResult(h, b.String())
	case msg.Transcript != nil:
		emitResult(h, *msg.Transcript)
	}
}

func emitResult(h core.RecognitionHandler, transcript string) {
	if h.OnResult != nil {
		h.OnResult(transcript)
	}
}

var _ core.DictationEngine = (*Command)(nil)
