// Package signal provides mutable state cells with change notification, the
// building block for the store's UI-observable fields.
package signal

import "sync"

// Source is the read side of a cell. View consumers get Sources so they can
// read and subscribe but not write.
type Source[T any] interface {
	Get() T
	Subscribe(fn func(T)) (cancel func())
}

type Value[T any] struct {
	mu   sync.RWMutex
	v    T
	subs map[int]func(T)
	next int
}

func New[T any](initial T) *Value[T] {
	return &Value[T]{v: initial, subs: make(map[int]func(T))}
}

func (c *Value[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.v
}

func (c *Value[T]) Set(v T) {
	c.mu.Lock()
	c.v = v
	fns := c.snapshotLocked()
	c.mu.Unlock()
	for _, fn := range fns {
		fn(v)
	}
}

// Update applies fn to the current value atomically and notifies subscribers
// with the result.
func (c *Value[T]) Update(fn func(T) T) T {
	c.mu.Lock()
	c.v = fn(c.v)
	v := c.v
	fns := c.snapshotLocked()
	c.mu.Unlock()
	for _, f := range fns {
		f(v)
	}
	return v
}

// Subscribe registers fn to run on every change. Subscribers run outside the
// cell's lock, after the value has been stored.
func (c *Value[T]) Subscribe(fn func(T)) (cancel func()) {
	c.mu.Lock()
	id := c.next
	c.next++
	c.subs[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *Value[T]) snapshotLocked() []func(T) {
	fns := make([]func(T), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	return fns
}

// Map derives a cell whose value recomputes from src on every change. The
// derived cell should be treated as read-only by callers.
func Map[T, U any](src *Value[T], fn func(T) U) *Value[U] {
	out := New(fn(src.Get()))
	src.Subscribe(func(v T) {
		out.Set(fn(v))
	})
	return out
}
