// Package store holds the latest value of the home page and notifies subscribers
// whenever it changes.
package store

import "sync"

// Observable owns one value and a registry of listeners. Every change is delivered
// synchronously to all listeners, in subscription order, before the next change starts.
// Listeners may call Get and Subscribe but must not call Set or Update.
type Observable[T any] struct {
	writeMu   sync.Mutex // serializes change + notification
	mu        sync.RWMutex
	value     T
	listeners []*listener[T]
}

type listener[T any] struct {
	fn func(T)
}

// NewObservable creates an Observable holding initial.
func NewObservable[T any](initial T) *Observable[T] {
	return &Observable[T]{value: initial}
}

// Get returns the latest value.
func (o *Observable[T]) Get() T {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.value
}

// Set replaces the value and notifies listeners.
func (o *Observable[T]) Set(v T) {
	o.Update(func(T) T { return v })
}

// Update derives the next value from the current one and notifies listeners.
func (o *Observable[T]) Update(fn func(current T) T) T {
	o.writeMu.Lock()
	defer o.writeMu.Unlock()

	o.mu.Lock()
	next := fn(o.value)
	o.value = next
	ls := make([]*listener[T], len(o.listeners))
	copy(ls, o.listeners)
	o.mu.Unlock()

	for _, l := range ls {
		l.fn(next)
	}
	return next
}

// Subscribe registers fn and returns its disposer. The disposer is safe to call more
// than once.
func (o *Observable[T]) Subscribe(fn func(T)) (dispose func()) {
	l := &listener[T]{fn: fn}

	o.mu.Lock()
	o.listeners = append(o.listeners, l)
	o.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			defer o.mu.Unlock()
			for i, cur := range o.listeners {
				if cur == l {
					o.listeners = append(o.listeners[:i:i], o.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// Listeners returns the number of registered listeners.
func (o *Observable[T]) Listeners() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.listeners)
}
