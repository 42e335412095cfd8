package board

import (
	"context"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/scribble/internal/platform"
	"github.com/aretw0/scribble/pkg/core"
)

type stubRecognition struct{}

func (stubRecognition) Stop() error { return nil }

type stubEngine struct {
	mu      sync.Mutex
	handler core.RecognitionHandler
}

func (e *stubEngine) Available() bool { return true }

func (e *stubEngine) Start(_ core.RecognitionConfig, h core.RecognitionHandler) (core.Recognition, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handler = h
	return stubRecognition{}, nil
}

func (e *stubEngine) say(text string) {
	e.mu.Lock()
	h := e.handler
	e.mu.Unlock()
	h.OnResult(text)
}

func newBoard(t *testing.T, engine core.DictationEngine, notes ...string) (Model, *core.Service) {
	t.Helper()
	opts := []platform.Option{platform.WithAdapter("memory")}
	if engine != nil {
		opts = append(opts, platform.WithDictationEngine(engine))
	}
	svc, err := platform.New("", opts...)
	require.NoError(t, err)
	for _, n := range notes {
		_, err := svc.CreateNote(context.Background(), n)
		require.NoError(t, err)
	}
	return New(context.Background(), svc, nil), svc
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBoard_SearchFiltersWhileTyping(t *testing.T) {
	m, _ := newBoard(t, nil, "Buy Milk", "Walk the dog", "milkshake")
	require.Len(t, m.visible, 3)

	m = press(t, m, runes("/"), runes("m"), runes("i"), runes("l"), runes("k"))
	assert.Equal(t, focusSearch, m.focus)
	require.Len(t, m.visible, 2)
	assert.Equal(t, "milkshake", m.visible[0].Content)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, focusList, m.focus)
	assert.Len(t, m.visible, 2, "filter stays after leaving the box")
}

func TestBoard_DeleteSelected(t *testing.T) {
	m, svc := newBoard(t, nil, "older", "newer")

	m = press(t, m, runes("j"), runes("d"))
	require.Len(t, svc.List(), 1)
	assert.Equal(t, "newer", svc.List()[0].Content)
	assert.Len(t, m.visible, 1)
	assert.Equal(t, 0, m.cursor)
}

func TestBoard_SaveTypedDraft(t *testing.T) {
	m, svc := newBoard(t, nil)

	m = press(t, m, runes("n"), runes("hello"), tea.KeyMsg{Type: tea.KeyCtrlS})
	require.Len(t, svc.List(), 1)
	assert.Equal(t, "hello", svc.List()[0].Content)
	assert.Empty(t, m.draft.Value())
	assert.Len(t, m.visible, 1)
}

func TestBoard_SaveEmptyDraftWarns(t *testing.T) {
	m, svc := newBoard(t, nil)

	m = press(t, m, runes("n"), tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Empty(t, svc.List())
	assert.Contains(t, m.toast, "nothing to save")
}

func TestBoard_Dictation(t *testing.T) {
	engine := &stubEngine{}
	m, svc := newBoard(t, engine)

	m = press(t, m, runes("r"))
	require.Equal(t, core.StatusRecording, svc.Capture().Status())
	assert.Contains(t, m.View(), "recording")

	engine.say("comprar pão")
	next, cmd := m.Update(draftTickMsg{})
	m = next.(Model)
	assert.Equal(t, "comprar pão", m.draft.Value())
	assert.NotNil(t, cmd, "keeps polling while recording")

	m = press(t, m, runes("r"))
	assert.Equal(t, core.StatusStopped, svc.Capture().Status())
	assert.Equal(t, "comprar pão", m.draft.Value())

	m = press(t, m, runes("n"), tea.KeyMsg{Type: tea.KeyCtrlS})
	require.Len(t, svc.List(), 1)
	assert.Equal(t, "comprar pão", svc.List()[0].Content)
}

func TestBoard_DictationUnavailableShowsWarning(t *testing.T) {
	m, svc := newBoard(t, nil)

	m = press(t, m, runes("r"))
	assert.Equal(t, core.StatusIdle, svc.Capture().Status())
	assert.NotEmpty(t, m.toast)
}

func TestBoard_ToastLifecycle(t *testing.T) {
	m, _ := newBoard(t, nil)

	next, _ := m.Update(toastMsg{Level: core.LevelSuccess, Message: "note saved"})
	m = next.(Model)
	assert.Contains(t, m.View(), "note saved")

	// A stale clear does not hide a newer toast.
	next, _ = m.Update(toastClearMsg{seq: m.toastSeq - 1})
	m = next.(Model)
	assert.NotEmpty(t, m.toast)

	next, _ = m.Update(toastClearMsg{seq: m.toastSeq})
	m = next.(Model)
	assert.Empty(t, m.toast)
}

func TestNotifier_DropsWhenFull(t *testing.T) {
	n := NewNotifier()
	for i := 0; i < 20; i++ {
		n.Notify(core.Notification{Level: core.LevelSuccess, Message: "x"})
	}
	assert.Len(t, n.ch, cap(n.ch))
}

func TestRenderToast(t *testing.T) {
	assert.True(t, strings.Contains(RenderToast("warning", "careful"), "careful"))
	assert.True(t, strings.Contains(RenderToast("success", "done"), "done"))
}
