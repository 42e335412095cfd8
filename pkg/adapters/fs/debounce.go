package fs

import (
	"sync"
	"time"

	"github.com/aretw0/scribble/pkg/core"
)

// debouncer coalesces bursts of events per key. An atomic slot write produces
// several fsnotify events (create temp, write, rename); only the last one fires.
type debouncer struct {
	mu       sync.Mutex
	delay    time.Duration
	timers   map[string]*time.Timer
	inflight sync.WaitGroup
	stopped  bool
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:  delay,
		timers: make(map[string]*time.Timer),
	}
}

func (d *debouncer) add(e core.Event, fire func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	if t, ok := d.timers[e.ID]; ok {
		if t.Stop() {
			d.inflight.Done()
		}
	}

	d.inflight.Add(1)
	var t *time.Timer
	t = time.AfterFunc(d.delay, func() {
		defer d.inflight.Done()
		d.mu.Lock()
		if d.timers[e.ID] == t {
			delete(d.timers, e.ID)
		}
		d.mu.Unlock()
		fire(e)
	})
	d.timers[e.ID] = t
}

// stopAndWait rejects new events, cancels pending ones and waits for running callbacks.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	for id, t := range d.timers {
		if t.Stop() {
			d.inflight.Done()
		}
		delete(d.timers, id)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
}
