package executor

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Event is a manual-reset event. The zero value is not usable; use NewEvent.
type Event struct {
	mu  sync.Mutex
	ch  chan struct{}
	set bool
}

// NewEvent creates an event in the given initial state.
func NewEvent(set bool) *Event {
	e := &Event{ch: make(chan struct{})}
	if set {
		close(e.ch)
		e.set = true
	}
	return e
}

// Set signals the event, releasing all current and future waiters until Reset.
func (e *Event) Set() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.set {
		close(e.ch)
		e.set = true
	}
}

// Reset returns the event to the unsignaled state.
func (e *Event) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.set {
		e.ch = make(chan struct{})
		e.set = false
	}
}

// IsSet reports whether the event is signaled.
func (e *Event) IsSet() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.set
}

// Done returns a channel closed when the event is signaled.
func (e *Event) Done() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ch
}

// Wait blocks until the event is signaled or ctx ends.
func (e *Event) Wait(ctx context.Context) error {
	select {
	case <-e.Done():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrTimeout, ctx.Err())
	}
}

// WaitPumping waits for ev like Event.Wait and calls pump every interval
// while waiting. A nil pump or non-positive interval waits without pumping.
func WaitPumping(ctx context.Context, ev *Event, interval time.Duration, pump func()) error {
	if pump == nil || interval <= 0 {
		return ev.Wait(ctx)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	done := ev.Done()
	for {
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", ErrTimeout, ctx.Err())
		case <-ticker.C:
			pump()
		}
	}
}
