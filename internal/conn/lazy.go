// Package conn provides a lazily-established, shared connection handle.
//
// A Lazy value dials its resource on first use and hands the same instance to
// every later caller. One dial runs at a time and no lock is held while it
// runs; callers that arrive meanwhile wait on it only as long as their own
// context allows. A failed dial is not cached: the next caller tries again.
// Once established the handle is never re-dialed.
package conn

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Get after Close.
var ErrClosed = errors.New("connection handle closed")

// DialFunc establishes the underlying resource. It must honour ctx.
type DialFunc[T any] func(ctx context.Context) (T, error)

// Lazy is safe for concurrent use.
type Lazy[T any] struct {
	dial  DialFunc[T]
	close func(T) error

	mu      sync.Mutex
	value   T
	ready   bool
	closed  bool
	dialing chan struct{} // non-nil while a dial is in flight; closed when it ends
}

// NewLazy returns a handle that calls dial on first Get. closeFn, when
// non-nil, releases the resource on Close.
func NewLazy[T any](dial DialFunc[T], closeFn func(T) error) *Lazy[T] {
	return &Lazy[T]{dial: dial, close: closeFn}
}

// Get returns the shared resource, dialing it if needed. It returns
// ctx.Err() when ctx ends before the resource is available, whether this
// caller is dialing or waiting on another caller's dial.
func (l *Lazy[T]) Get(ctx context.Context) (T, error) {
	var zero T
	if ctx == nil {
		ctx = context.Background()
	}

	for {
		l.mu.Lock()
		switch {
		case l.closed:
			l.mu.Unlock()
			return zero, ErrClosed
		case l.ready:
			v := l.value
			l.mu.Unlock()
			return v, nil
		case l.dial == nil:
			l.mu.Unlock()
			return zero, errors.New("conn: no dial function")
		}

		if wait := l.dialing; wait != nil {
			l.mu.Unlock()
			select {
			case <-wait:
				continue
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}

		done := make(chan struct{})
		l.dialing = done
		l.mu.Unlock()

		return l.dialAndPublish(ctx, done)
	}
}

func (l *Lazy[T]) dialAndPublish(ctx context.Context, done chan struct{}) (T, error) {
	var zero T
	v, err := l.dial(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.dialing = nil
	close(done)

	if err != nil {
		return zero, err
	}
	if l.closed {
		if l.close != nil {
			_ = l.close(v)
		}
		return zero, ErrClosed
	}
	l.value = v
	l.ready = true
	return v, nil
}

// Established reports whether a resource has been dialed.
func (l *Lazy[T]) Established() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ready
}

// Close releases the resource if one was established. Later Gets fail with
// ErrClosed; a dial still in flight releases its result when it finishes.
func (l *Lazy[T]) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true
	if !l.ready || l.close == nil {
		return nil
	}
	return l.close(l.value)
}
