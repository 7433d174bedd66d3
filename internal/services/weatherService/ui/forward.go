package ui

import (
	"context"
	"sync"
)

// forwarder hands values from publishers to a single consumer without ever
// blocking the publisher. Only the newest pending value is kept; newer
// decides which of two values wins (nil means the latest put wins).
type forwarder[T any] struct {
	newer func(old, next T) bool

	mu      sync.Mutex
	pending T
	has     bool
	wake    chan struct{}
}

func newForwarder[T any](newer func(old, next T) bool) *forwarder[T] {
	return &forwarder[T]{newer: newer, wake: make(chan struct{}, 1)}
}

// put stores v for the consumer and returns immediately.
func (f *forwarder[T]) put(v T) {
	f.mu.Lock()
	if !f.has || f.newer == nil || f.newer(f.pending, v) {
		f.pending = v
		f.has = true
	}
	f.mu.Unlock()

	select {
	case f.wake <- struct{}{}:
	default:
	}
}

func (f *forwarder[T]) take() (T, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.pending, f.has
	var zero T
	f.pending, f.has = zero, false
	return v, ok
}

// run calls send with pending values until ctx is done.
func (f *forwarder[T]) run(ctx context.Context, send func(T)) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-f.wake:
			if v, ok := f.take(); ok {
				send(v)
			}
		}
	}
}
