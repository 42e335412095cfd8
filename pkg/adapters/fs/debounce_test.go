package fs

import (
	"sync"
	"testing"
	"time"

	"github.com/aretw0/scribble/pkg/core"
)

func TestDebouncer_CoalescesPerKey(t *testing.T) {
	d := newDebouncer(30 * time.Millisecond)

	var mu sync.Mutex
	fired := map[string]int{}
	record := func(e core.Event) {
		mu.Lock()
		fired[e.ID]++
		mu.Unlock()
	}

	for i := 0; i < 5; i++ {
		d.add(core.Event{ID: "a"}, record)
	}
	d.add(core.Event{ID: "b"}, record)

	time.Sleep(150 * time.Millisecond)
	d.stopAndWait(time.Second)

	mu.Lock()
	defer mu.Unlock()
	if fired["a"] != 1 || fired["b"] != 1 {
		t.Errorf("expected one event per key, got %v", fired)
	}
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	d := newDebouncer(time.Hour)
	called := false
	d.add(core.Event{ID: "a"}, func(core.Event) { called = true })

	d.stopAndWait(time.Second)
	d.add(core.Event{ID: "b"}, func(core.Event) { called = true })

	if called {
		t.Error("pending event fired after stop")
	}
}
