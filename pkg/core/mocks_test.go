package core_test

import (
	"context"
	"errors"
	"sync"

	"github.com/aretw0/scribble/pkg/core"
)

// MockKV implements core.KeyValueStore in memory.
// It deliberately does NOT implement core.Watchable to test fallback/errors.
type MockKV struct {
	mu       sync.Mutex
	items    map[string]string
	failSet  error
	failGet  error
	setCalls int
}

func NewMockKV() *MockKV {
	return &MockKV{items: make(map[string]string)}
}

func (m *MockKV) GetItem(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet != nil {
		return "", false, m.failGet
	}
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *MockKV) SetItem(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalls++
	if m.failSet != nil {
		return m.failSet
	}
	m.items[key] = value
	return nil
}

func (m *MockKV) raw(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[key]
}

// fakeRecognition records whether it was released.
type fakeRecognition struct {
	mu      sync.Mutex
	stopped bool
	handler core.RecognitionHandler
	cfg     core.RecognitionConfig
}

func (r *fakeRecognition) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return errors.New("recognition already stopped")
	}
	r.stopped = true
	return nil
}

func (r *fakeRecognition) isStopped() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopped
}

func (r *fakeRecognition) result(transcript string) { r.handler.OnResult(transcript) }
func (r *fakeRecognition) fail(err error)           { r.handler.OnError(err) }

// fakeEngine hands out fakeRecognitions and keeps them for inspection.
type fakeEngine struct {
	mu        sync.Mutex
	available bool
	startErr  error
	started   []*fakeRecognition
	// liveAtStart records, for each Start, how many earlier recognitions were still running.
	liveAtStart []int
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{available: true}
}

func (e *fakeEngine) Available() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.available
}

func (e *fakeEngine) Start(cfg core.RecognitionConfig, h core.RecognitionHandler) (core.Recognition, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.startErr != nil {
		return nil, e.startErr
	}
	live := 0
	for _, r := range e.started {
		if !r.isStopped() {
			live++
		}
	}
	e.liveAtStart = append(e.liveAtStart, live)
	r := &fakeRecognition{handler: h, cfg: cfg}
	e.started = append(e.started, r)
	return r, nil
}

func (e *fakeEngine) last() *fakeRecognition {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.started[len(e.started)-1]
}

// recordingNotifier keeps every notification.
type recordingNotifier struct {
	mu    sync.Mutex
	items []core.Notification
}

func (n *recordingNotifier) Notify(item core.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, item)
}

func (n *recordingNotifier) all() []core.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]core.Notification(nil), n.items...)
}
