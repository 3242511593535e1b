// Package watch provides a single-writer-friendly observable value: the
// current value is replaced atomically as a whole snapshot and every
// subscriber sees the latest value. Readers never observe a torn update.
package watch

import (
	"sync"
	"sync/atomic"
)

// Value holds a T that is replaced atomically and broadcast to subscribers.
// Update applies a copy-and-replace function in a compare-and-swap loop, so
// concurrent updaters serialize without a lock around the value itself.
type Value[T any] struct {
	cur atomic.Pointer[T]

	mu   sync.Mutex
	subs map[int]chan T
	next int
}

// NewValue creates a Value holding initial.
func NewValue[T any](initial T) *Value[T] {
	v := &Value[T]{subs: make(map[int]chan T)}
	v.cur.Store(&initial)
	return v
}

// Load returns the current snapshot.
func (v *Value[T]) Load() T {
	return *v.cur.Load()
}

// Store replaces the current snapshot and notifies subscribers.
func (v *Value[T]) Store(t T) {
	v.cur.Store(&t)
	v.notify(t)
}

// Update applies f to the current snapshot and swaps in the result,
// retrying if another updater won the race. f must be pure: it may run more
// than once. Returns the snapshot that was stored.
func (v *Value[T]) Update(f func(T) T) T {
	for {
		old := v.cur.Load()
		next := f(*old)
		if v.cur.CompareAndSwap(old, &next) {
			v.notify(next)
			return next
		}
	}
}

// Subscribe returns a channel that receives the latest value after every
// store, plus a cancel function. The channel holds only the most recent
// value: a slow consumer sees the newest snapshot, not every intermediate
// one. The current value is delivered immediately.
func (v *Value[T]) Subscribe() (<-chan T, func()) {
	ch := make(chan T, 1)
	v.mu.Lock()
	id := v.next
	v.next++
	v.subs[id] = ch
	v.mu.Unlock()

	ch <- v.Load()

	cancel := func() {
		v.mu.Lock()
		delete(v.subs, id)
		v.mu.Unlock()
	}
	return ch, cancel
}

func (v *Value[T]) notify(t T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, ch := range v.subs {
		// Drop the stale value if the subscriber hasn't drained it yet.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- t:
		default:
		}
	}
}
