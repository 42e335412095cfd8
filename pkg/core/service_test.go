package core_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/scribble/pkg/core"
)

func newTestService(t *testing.T) (*core.Service, *fakeEngine, *recordingNotifier, *MockKV) {
	t.Helper()
	kv := NewMockKV()
	engine := newFakeEngine()
	notifier := &recordingNotifier{}
	store := newTestStore(kv)
	capture := core.NewCaptureSession(engine, core.WithCaptureNotifier(notifier))
	return core.NewService(store, capture, kv, core.WithNotifier(notifier)), engine, notifier, kv
}

func TestService_SaveDictatedDraft(t *testing.T) {
	svc, engine, notifier, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.StartDictation())
	engine.last().result("remember the milk")

	// Saving while recording stops the recording first.
	note, err := svc.SaveDraft(ctx)
	require.NoError(t, err)

	assert.Equal(t, "remember the milk", note.Content)
	assert.True(t, engine.last().isStopped())
	assert.Equal(t, core.StatusIdle, svc.Capture().Status())
	assert.Empty(t, svc.Capture().Draft())
	assert.Equal(t, []core.Note{note}, svc.List())

	items := notifier.all()
	require.Len(t, items, 1)
	assert.Equal(t, core.LevelSuccess, items[0].Level)
}

func TestService_SaveTypedDraft(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	svc.Capture().SetDraft("typed")

	note, err := svc.SaveDraft(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "typed", note.Content)
}

func TestService_SaveEmptyDraft(t *testing.T) {
	svc, _, notifier, kv := newTestService(t)

	_, err := svc.SaveDraft(context.Background())
	assert.ErrorIs(t, err, core.ErrInvalidInput)
	assert.Empty(t, svc.List())
	assert.Zero(t, kv.setCalls)
	assert.Empty(t, notifier.all())
}

func TestService_Search(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	_, _ = svc.CreateNote(ctx, "Buy Milk")
	_, _ = svc.CreateNote(ctx, "Walk the dog")

	assert.Len(t, svc.Search(""), 2)
	got := svc.Search("milk")
	require.Len(t, got, 1)
	assert.Equal(t, "Buy Milk", got[0].Content)
	assert.Empty(t, svc.Search("eggs"))
}

func TestService_DeleteAndRestore(t *testing.T) {
	svc, _, _, kv := newTestService(t)
	ctx := context.Background()

	a, _ := svc.CreateNote(ctx, "a")
	b, _ := svc.CreateNote(ctx, "b")
	remaining, err := svc.DeleteNote(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []core.Note{b}, remaining)

	other := core.NewService(core.NewStore(kv), core.NewCaptureSession(nil), kv)
	assert.Equal(t, []core.Note{b}, other.Restore(ctx))
}

func TestService_WatchUnsupported(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	_, err := svc.Watch(context.Background())
	assert.ErrorIs(t, err, core.ErrUnsupported)

	_, err = svc.Slots(context.Background(), "**")
	assert.ErrorIs(t, err, core.ErrUnsupported)
}

// watchableKV lets tests push external slot changes.
type watchableKV struct {
	*MockKV
	changes chan core.Event
}

func (w *watchableKV) Watch(ctx context.Context, key string) (<-chan core.Event, error) {
	return w.changes, nil
}

func TestService_WatchReloadsOnExternalChange(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	kv := &watchableKV{MockKV: NewMockKV(), changes: make(chan core.Event, 1)}
	svc := core.NewService(core.NewStore(kv), core.NewCaptureSession(nil), kv)
	svc.Restore(ctx)

	events, err := svc.Watch(ctx)
	require.NoError(t, err)

	// Another writer replaces the slot.
	writer := core.NewStore(kv)
	writer.Restore(ctx)
	_, err = writer.Create(ctx, "from elsewhere")
	require.NoError(t, err)
	kv.changes <- core.Event{Type: core.EventChange, ID: core.DefaultSlot}

	select {
	case e := <-events:
		assert.Equal(t, core.EventRestore, e.Type)
	case <-time.After(time.Second):
		t.Fatal("no restore event")
	}
	require.Len(t, svc.List(), 1)
	assert.Equal(t, "from elsewhere", svc.List()[0].Content)

	close(kv.changes)
	select {
	case _, ok := <-events:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("events not closed")
	}
}

func TestService_CloseStopsRecording(t *testing.T) {
	svc, engine, _, _ := newTestService(t)
	require.NoError(t, svc.StartDictation())

	require.NoError(t, svc.Close())
	assert.True(t, engine.last().isStopped())
	assert.Equal(t, core.StatusStopped, svc.Capture().Status())
}

func TestService_State(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	_, _ = svc.CreateNote(context.Background(), "x")

	state, ok := svc.State().(core.ServiceState)
	require.True(t, ok)
	assert.Equal(t, 1, state.Notes)
	assert.Equal(t, "idle", state.Capture)
	assert.Equal(t, "kv", state.StorageType)
	assert.Equal(t, "service", svc.ComponentType())
}
