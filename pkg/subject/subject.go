// Package subject implements the observer registry used to deliver
// property, state, download and frame events to subscribers.
//
// Subscribers are called in registration order. A Subject may be called
// from any goroutine, including backend callback goroutines; subscribers
// may add or remove subscriptions from inside their own callback.
package subject

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Subject is an insertion-ordered set of callbacks receiving values of type T.
// The zero value is ready to use.
type Subject[T any] struct {
	mu     sync.Mutex
	nextID int
	subs   []*subscription[T]
	logger *slog.Logger
}

type subscription[T any] struct {
	id      int
	fn      func(T)
	removed atomic.Bool
}

// New creates a Subject that logs recovered subscriber panics to logger.
// A nil logger disables logging.
func New[T any](logger *slog.Logger) *Subject[T] {
	return &Subject[T]{logger: logger}
}

// Add registers fn and returns its subscription id.
// Ids start at 1 and are never reused by the same Subject.
func (s *Subject[T]) Add(fn func(T)) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	s.subs = append(s.subs, &subscription[T]{id: s.nextID, fn: fn})
	return s.nextID
}

// Remove unregisters the subscription with the given id.
// Unknown ids are ignored. A removed subscriber is not called by any
// Call that has not yet reached it.
func (s *Subject[T]) Remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sub := range s.subs {
		if sub.id == id {
			sub.removed.Store(true)
			s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
			return
		}
	}
}

// Clear removes all subscriptions.
func (s *Subject[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sub := range s.subs {
		sub.removed.Store(true)
	}
	s.subs = nil
}

// Len returns the number of subscriptions.
func (s *Subject[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Call invokes every subscriber with v in registration order.
// A panicking subscriber is logged and skipped; the remaining subscribers
// are still called.
func (s *Subject[T]) Call(v T) {
	s.mu.Lock()
	subs := make([]*subscription[T], len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		if sub.removed.Load() {
			continue
		}
		s.invoke(sub, v)
	}
}

func (s *Subject[T]) invoke(sub *subscription[T], v T) {
	defer func() {
		if r := recover(); r != nil && s.logger != nil {
			s.logger.Warn("subscriber panicked",
				slog.Int("subscription", sub.id),
				slog.String("panic", fmt.Sprint(r)))
		}
	}()
	sub.fn(v)
}
