package repository

import (
	"context"
	"sync"
)

// Subscription is a cancellable stream of full snapshots. The channel holds at
// most one pending snapshot: a newer snapshot replaces an unread older one, so
// a slow consumer always catches up to the latest state.
type Subscription[T any] struct {
	C <-chan T

	cancel context.CancelFunc
	done   chan struct{}

	mu  sync.Mutex
	err error
}

// Pump produces snapshots until ctx is cancelled or the source fails. emit
// returns false once the subscription has been closed.
type Pump[T any] func(ctx context.Context, emit func(T) bool) error

func NewSubscription[T any](parent context.Context, pump Pump[T]) *Subscription[T] {
	ctx, cancel := context.WithCancel(parent)
	ch := make(chan T, 1)
	sub := &Subscription[T]{
		C:      ch,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	emit := func(v T) bool {
		if ctx.Err() != nil {
			return false
		}
		select {
		case ch <- v:
			return true
		default:
		}
		// Drop the stale snapshot; only this goroutine sends.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- v:
			return true
		case <-ctx.Done():
			return false
		}
	}

	go func() {
		defer close(sub.done)
		defer close(ch)
		err := pump(ctx, emit)
		if err != nil && ctx.Err() == nil {
			sub.mu.Lock()
			sub.err = err
			sub.mu.Unlock()
		}
	}()

	return sub
}

// Close releases the underlying listener and waits for it to stop.
func (s *Subscription[T]) Close() {
	s.cancel()
	<-s.done
}

// Done is closed once the pump has exited.
func (s *Subscription[T]) Done() <-chan struct{} {
	return s.done
}

// Err reports why the stream ended. It is nil after Close.
func (s *Subscription[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
