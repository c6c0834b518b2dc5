package executor

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Timer is a periodic or one-shot timer whose callback runs on an Executor.
type Timer struct {
	exec   *Executor
	fn     func()
	cancel func()
	wg     sync.WaitGroup

	// pending is set while a tick is queued; further ticks are coalesced.
	pending atomic.Bool
	stopped atomic.Bool

	stopOnce sync.Once
	stopErr  error
}

// Every arms a periodic timer that posts fn to the executor each interval.
// A tick is skipped while the previous one is still queued.
func (e *Executor) Every(interval time.Duration, fn func()) *Timer {
	ctx, cancel := context.WithCancel(context.Background())
	t := &Timer{exec: e, fn: fn, cancel: cancel}

	t.wg.Add(1)
	go t.tickLoop(ctx, interval)

	return t
}

// After arms a one-shot timer that posts fn to the executor after d.
func (e *Executor) After(d time.Duration, fn func()) *Timer {
	t := &Timer{exec: e, fn: fn}
	at := time.AfterFunc(d, t.fire)
	t.cancel = func() { at.Stop() }
	return t
}

func (t *Timer) tickLoop(ctx context.Context, interval time.Duration) {
	defer t.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.fire()
		}
	}
}

func (t *Timer) fire() {
	if t.stopped.Load() || !t.pending.CompareAndSwap(false, true) {
		return
	}
	if err := t.exec.Post(t.run); err != nil {
		t.pending.Store(false)
	}
}

func (t *Timer) run() {
	t.pending.Store(false)
	if t.stopped.Load() {
		return
	}
	t.fn()
}

// Cancel stops the timer without waiting. A tick already running on the
// executor completes; queued ticks are skipped.
func (t *Timer) Cancel() {
	t.stopped.Store(true)
	t.cancel()
}

// Stopped reports whether Cancel or Stop has been called.
func (t *Timer) Stopped() bool {
	return t.stopped.Load()
}

// Stop cancels the timer and waits until the executor has passed a stop
// marker posted behind any queued tick, calling pump every pumpInterval
// while waiting. After Stop returns nil the callback will not run again.
// Must not be called from a task running on the timer's executor.
func (t *Timer) Stop(ctx context.Context, pumpInterval time.Duration, pump func()) error {
	t.stopOnce.Do(func() {
		t.Cancel()
		t.wg.Wait()

		marker := NewEvent(false)
		if err := t.exec.Post(marker.Set); err != nil {
			// nothing runs on a stopped executor
			return
		}
		t.stopErr = WaitPumping(ctx, marker, pumpInterval, pump)
	})
	return t.stopErr
}
