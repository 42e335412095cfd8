package fs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/aretw0/scribble/pkg/core"
)

// setupTestStore creates a store in a temp dir for concurrency tests.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := NewStore(Config{Path: t.TempDir(), Logger: logger})
	if err := store.Initialize(context.Background()); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	return store
}

// TestConcurrentWritesSameSlot checks that readers never see a torn value
// while many writers replace the same slot.
func TestConcurrentWritesSameSlot(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	const writers = 20
	values := make(map[string]bool, writers)
	for i := 0; i < writers; i++ {
		values[strings.Repeat(fmt.Sprint(i%10), 4096)] = true
	}

	var wg sync.WaitGroup
	for v := range values {
		wg.Add(1)
		go func(v string) {
			defer wg.Done()
			if err := store.SetItem(ctx, core.DefaultSlot, v); err != nil {
				t.Errorf("SetItem failed: %v", err)
			}
		}(v)
	}

	stop := make(chan struct{})
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			select {
			case <-stop:
				return
			default:
			}
			got, ok, err := store.GetItem(ctx, core.DefaultSlot)
			if err != nil {
				t.Errorf("GetItem failed: %v", err)
				return
			}
			if ok && !values[got] {
				t.Errorf("read a torn value of %d bytes", len(got))
				return
			}
		}
	}()

	wg.Wait()
	close(stop)
	<-readerDone

	entries, err := os.ReadDir(store.Path)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), TempFilePrefix) {
			t.Errorf("staged file left behind: %s", e.Name())
		}
	}
}

// TestConcurrentNoteCreation drives the note store from many goroutines.
func TestConcurrentNoteCreation(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	notes := core.NewStore(store)
	notes.Restore(ctx)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := notes.Create(ctx, fmt.Sprintf("note %d", i)); err != nil {
				t.Errorf("Create failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	restored := core.NewStore(NewStore(Config{Path: store.Path})).Restore(ctx)
	if len(restored) != n {
		t.Fatalf("expected %d notes on disk, got %d", n, len(restored))
	}
	seen := make(map[string]bool, n)
	for _, note := range restored {
		if seen[note.ID] {
			t.Errorf("duplicate id %s", note.ID)
		}
		seen[note.ID] = true
	}
}
