// Package registry provides the process-local per-show mutex the
// reservation engine and reaper serialize on. Cross-process coordination is
// left to the seat store's conditional updates, not to this registry.
package registry

import (
	"context"
	"sync"
)

// entry's ch is a 1-buffered channel used as a cancellable mutex: a filled
// channel means unlocked, an empty one means held. sync.Mutex has no
// context-aware Lock, so a channel is the idiomatic way to select between
// "acquired" and "ctx.Done()".
type entry struct {
	ch       chan struct{}
	refCount int
}

func newEntry() *entry {
	e := &entry{ch: make(chan struct{}, 1)}
	e.ch <- struct{}{}
	return e
}

// ShowLockRegistry is a lazily-populated map from show id to a mutex,
// protected by a single guard mutex used only to look up or insert an
// entry. It never blocks a caller on a different show id, and it shrinks
// via reference counting: an entry is dropped once its last holder
// releases it, never based on time.
type ShowLockRegistry struct {
	guard   sync.Mutex
	entries map[uint64]*entry
}

// New returns an empty registry.
func New() *ShowLockRegistry {
	return &ShowLockRegistry{entries: make(map[uint64]*entry)}
}

// Acquire blocks until the caller holds the mutex for showID, then returns a
// release function that must be called exactly once to release it. Multi-show
// operations must call Acquire in ascending showID order to avoid deadlock;
// the core never needs more than one show mutex at a time.
//
// Acquire cannot be cancelled; callers on a request deadline should use
// AcquireCtx instead. It is kept for background work (the reaper's sweeps)
// that runs to completion regardless of any single caller's context.
func (r *ShowLockRegistry) Acquire(showID uint64) (release func()) {
	release, _ = r.AcquireCtx(context.Background(), showID)
	return release
}

// AcquireCtx is Acquire, but aborts with ctx.Err() if ctx is done before the
// mutex for showID becomes available. On timeout it leaves no trace in the
// registry: the entry's reference count is unwound as if Acquire had never
// been called, so a caller that gives up mid-wait never holds a partial
// acquisition. release is nil when err is non-nil.
func (r *ShowLockRegistry) AcquireCtx(ctx context.Context, showID uint64) (release func(), err error) {
	r.guard.Lock()
	e, ok := r.entries[showID]
	if !ok {
		e = newEntry()
		r.entries[showID] = e
	}
	e.refCount++
	r.guard.Unlock()

	select {
	case <-e.ch:
	case <-ctx.Done():
		r.guard.Lock()
		e.refCount--
		if e.refCount == 0 {
			delete(r.entries, showID)
		}
		r.guard.Unlock()
		return nil, ctx.Err()
	}

	released := false
	return func() {
		if released {
			return
		}
		released = true
		e.ch <- struct{}{}

		r.guard.Lock()
		e.refCount--
		if e.refCount == 0 {
			delete(r.entries, showID)
		}
		r.guard.Unlock()
	}, nil
}

// Len reports the number of shows currently tracked (held or contended).
// Exposed for tests asserting the registry shrinks.
func (r *ShowLockRegistry) Len() int {
	r.guard.Lock()
	defer r.guard.Unlock()
	return len(r.entries)
}
