// Package cache holds client-side copies of server collections and tracks the
// reads in flight for them, so that optimistic local edits are never
// overwritten by a response that was issued before the edit.
package cache

import (
	"context"
	"errors"
	"sync"
)

// ErrDiscarded is returned by Fetch when the result arrived after the entry
// was cancelled or modified locally. The cached value is left untouched.
var ErrDiscarded = errors.New("cache: fetch result discarded")

// Key identifies a cached query, e.g. {Entity: "grocery"} or
// {Entity: "recipes", Params: "query=eggs"}.
type Key struct {
	Entity string
	Params string
}

func (k Key) String() string {
	if k.Params == "" {
		return k.Entity
	}
	return k.Entity + "?" + k.Params
}

// Snapshot is an opaque copy of an entry returned by Patch and consumed by
// Restore.
type Snapshot[V any] struct {
	value   V
	present bool
	stale   bool
}

type flight struct {
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

type entry[V any] struct {
	value   V
	present bool
	stale   bool
	gen     uint64
	flight  *flight
}

// Store is safe for concurrent use.
type Store[V any] struct {
	mu      sync.Mutex
	entries map[Key]*entry[V]
}

func New[V any]() *Store[V] {
	return &Store[V]{entries: make(map[Key]*entry[V])}
}

func (s *Store[V]) lookup(key Key) *entry[V] {
	e, ok := s.entries[key]
	if !ok {
		e = &entry[V]{}
		s.entries[key] = e
	}
	return e
}

// Get returns the cached value and whether one is present.
func (s *Store[V]) Get(key Key) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok || !e.present {
		var zero V
		return zero, false
	}
	return e.value, true
}

func (s *Store[V]) Set(key Key, v V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.lookup(key)
	e.value, e.present, e.stale = v, true, false
	e.gen++
}

// Patch applies fn to the current value and stores the result. The returned
// snapshot restores the pre-patch state. Patching an entry that was never
// loaded leaves it stale, so the next Fetch still reads from the server.
func (s *Store[V]) Patch(key Key, fn func(current V, present bool) V) Snapshot[V] {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.lookup(key)
	snap := Snapshot[V]{value: e.value, present: e.present, stale: e.stale}
	e.value = fn(e.value, e.present)
	if !e.present {
		e.stale = true
	}
	e.present = true
	e.gen++
	return snap
}

func (s *Store[V]) Restore(key Key, snap Snapshot[V]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.lookup(key)
	e.value, e.present, e.stale = snap.value, snap.present, snap.stale
	e.gen++
}

// Invalidate marks the entry stale so the next Fetch reloads it. Reads that
// are already in flight are discarded.
func (s *Store[V]) Invalidate(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key]; ok {
		e.stale = true
		e.gen++
	}
}

// Cancel aborts the read in flight for key, if any. Its result is discarded
// even if it has already been received.
func (s *Store[V]) Cancel(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok || e.flight == nil {
		return
	}
	e.flight.cancel()
	e.flight = nil
	e.gen++
}

// Fetching reports whether a read is in flight for key.
func (s *Store[V]) Fetching(key Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	return ok && e.flight != nil
}

// Fetch returns the cached value when it is present and fresh. Otherwise it
// calls fetcher and stores the result, unless the entry was cancelled,
// patched or invalidated while the read was in flight, in which case
// ErrDiscarded is returned. Concurrent Fetch calls for one key share a read.
func (s *Store[V]) Fetch(ctx context.Context, key Key, fetcher func(ctx context.Context) (V, error)) (V, error) {
	s.mu.Lock()
	e := s.lookup(key)
	if e.present && !e.stale && e.flight == nil {
		v := e.value
		s.mu.Unlock()
		return v, nil
	}
	if f := e.flight; f != nil {
		s.mu.Unlock()
		select {
		case <-f.done:
		case <-ctx.Done():
			var zero V
			return zero, ctx.Err()
		}
		if f.err != nil {
			var zero V
			return zero, f.err
		}
		v, _ := s.Get(key)
		return v, nil
	}

	fctx, cancel := context.WithCancel(ctx)
	f := &flight{cancel: cancel, done: make(chan struct{})}
	e.flight = f
	startGen := e.gen
	s.mu.Unlock()

	v, err := fetcher(fctx)

	s.mu.Lock()
	defer func() {
		close(f.done)
		cancel()
		s.mu.Unlock()
	}()

	var zero V
	if e.flight != f || e.gen != startGen {
		if e.flight == f {
			e.flight = nil
		}
		f.err = ErrDiscarded
		return zero, ErrDiscarded
	}
	e.flight = nil
	if err != nil {
		f.err = err
		return zero, err
	}
	e.value, e.present, e.stale = v, true, false
	e.gen++
	return v, nil
}
