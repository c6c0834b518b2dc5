package executor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRunsInOrder(t *testing.T) {
	e := New(Config{Name: "test"})
	defer e.Shutdown()

	var mu sync.Mutex
	var got []int
	for i := 0; i < 20; i++ {
		require.NoError(t, e.Post(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		}))
	}

	require.NoError(t, e.Do(context.Background(), func() error { return nil }))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 20)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestTasksRunOnOneGoroutine(t *testing.T) {
	e := New(Config{})
	defer e.Shutdown()

	var running atomic.Int32
	var overlap atomic.Bool
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = e.Do(context.Background(), func() error {
				if running.Add(1) > 1 {
					overlap.Store(true)
				}
				time.Sleep(time.Millisecond)
				running.Add(-1)
				return nil
			})
		}()
	}
	wg.Wait()

	assert.False(t, overlap.Load())
}

func TestDoReturnsTaskError(t *testing.T) {
	e := New(Config{})
	defer e.Shutdown()

	errBusy := errors.New("device busy")
	err := e.Do(context.Background(), func() error { return errBusy })
	assert.ErrorIs(t, err, errBusy)
}

func TestDoTimeout(t *testing.T) {
	e := New(Config{})
	defer e.Shutdown()

	block := make(chan struct{})
	require.NoError(t, e.Post(func() { <-block }))
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := e.Do(ctx, func() error { return nil })
	assert.ErrorIs(t, err, ErrTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPostAfterShutdown(t *testing.T) {
	e := New(Config{})
	e.Shutdown()

	assert.ErrorIs(t, e.Post(func() {}), ErrStopped)
	assert.ErrorIs(t, e.Do(context.Background(), func() error { return nil }), ErrStopped)
	assert.True(t, e.Stopped())
}

func TestShutdownIdempotent(t *testing.T) {
	e := New(Config{})
	e.Shutdown()
	assert.NotPanics(t, e.Shutdown)

	select {
	case <-e.Done():
	default:
		t.Fatal("executor goroutine still running")
	}
}

func TestShutdownDropsQueuedTasks(t *testing.T) {
	e := New(Config{})

	started := make(chan struct{})
	release := make(chan struct{})
	require.NoError(t, e.Post(func() {
		close(started)
		<-release
	}))
	<-started

	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		require.NoError(t, e.Post(func() { ran.Add(1) }))
	}
	assert.Equal(t, 5, e.Pending())

	go func() {
		time.Sleep(10 * time.Millisecond)
		close(release)
	}()
	e.Shutdown()

	assert.Equal(t, int32(0), ran.Load())
	assert.Equal(t, 0, e.Pending())
}

func TestPanickingTaskDoesNotStopExecutor(t *testing.T) {
	e := New(Config{})
	defer e.Shutdown()

	require.NoError(t, e.Post(func() { panic("boom") }))

	called := false
	require.NoError(t, e.Do(context.Background(), func() error {
		called = true
		return nil
	}))
	assert.True(t, called)
}

func TestDoReturnsPanicAsError(t *testing.T) {
	e := New(Config{})
	defer e.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	start := time.Now()
	err := e.Do(ctx, func() error { panic("boom") })
	require.ErrorIs(t, err, ErrPanic)
	assert.NotErrorIs(t, err, ErrTimeout)
	assert.Contains(t, err.Error(), "boom")
	assert.Less(t, time.Since(start), time.Second)

	// the executor keeps running tasks
	require.NoError(t, e.Do(ctx, func() error { return nil }))
}

func TestEvent(t *testing.T) {
	ev := NewEvent(false)
	assert.False(t, ev.IsSet())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, ev.Wait(ctx), ErrTimeout)

	ev.Set()
	ev.Set()
	assert.True(t, ev.IsSet())
	assert.NoError(t, ev.Wait(context.Background()))
	assert.NoError(t, ev.Wait(context.Background()))

	ev.Reset()
	assert.False(t, ev.IsSet())
	ev.Reset()

	go func() {
		time.Sleep(5 * time.Millisecond)
		ev.Set()
	}()
	assert.NoError(t, ev.Wait(context.Background()))
}

func TestNewEventSignaled(t *testing.T) {
	ev := NewEvent(true)
	assert.True(t, ev.IsSet())
	assert.NoError(t, ev.Wait(context.Background()))
}

func TestWaitPumping(t *testing.T) {
	ev := NewEvent(false)
	var pumps atomic.Int32

	go func() {
		time.Sleep(30 * time.Millisecond)
		ev.Set()
	}()

	err := WaitPumping(context.Background(), ev, 2*time.Millisecond, func() { pumps.Add(1) })
	require.NoError(t, err)
	assert.Greater(t, pumps.Load(), int32(0))
}

func TestWaitPumpingTimeout(t *testing.T) {
	ev := NewEvent(false)
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Millisecond)
	defer cancel()

	err := WaitPumping(ctx, ev, time.Millisecond, func() {})
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestEveryTicksOnExecutor(t *testing.T) {
	e := New(Config{})
	defer e.Shutdown()

	ticks := make(chan struct{}, 100)
	timer := e.Every(2*time.Millisecond, func() { ticks <- struct{}{} })

	for i := 0; i < 3; i++ {
		select {
		case <-ticks:
		case <-time.After(time.Second):
			t.Fatal("timer did not tick")
		}
	}

	require.NoError(t, timer.Stop(context.Background(), time.Millisecond, func() {}))
	assert.True(t, timer.Stopped())
}

func TestTimerStopGuaranteesNoFurtherTicks(t *testing.T) {
	e := New(Config{})
	defer e.Shutdown()

	var ticks atomic.Int32
	timer := e.Every(time.Millisecond, func() {
		ticks.Add(1)
		time.Sleep(2 * time.Millisecond)
	})

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, timer.Stop(context.Background(), 0, nil))

	after := ticks.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, ticks.Load())

	// Stop is idempotent
	assert.NoError(t, timer.Stop(context.Background(), 0, nil))
}

func TestEveryCoalescesTicks(t *testing.T) {
	e := New(Config{})
	defer e.Shutdown()

	block := make(chan struct{})
	require.NoError(t, e.Post(func() { <-block }))

	var ticks atomic.Int32
	timer := e.Every(time.Millisecond, func() { ticks.Add(1) })

	time.Sleep(20 * time.Millisecond)
	assert.LessOrEqual(t, e.Pending(), 1)

	close(block)
	require.NoError(t, e.Do(context.Background(), func() error { return nil }))
	require.NoError(t, timer.Stop(context.Background(), 0, nil))
	assert.GreaterOrEqual(t, ticks.Load(), int32(1))
}

func TestAfterFiresOnce(t *testing.T) {
	e := New(Config{})
	defer e.Shutdown()

	fired := make(chan struct{}, 2)
	e.After(5*time.Millisecond, func() { fired <- struct{}{} })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("one-shot timer did not fire")
	}

	time.Sleep(20 * time.Millisecond)
	assert.Len(t, fired, 0)
}

func TestAfterCancel(t *testing.T) {
	e := New(Config{})
	defer e.Shutdown()

	var fired atomic.Bool
	timer := e.After(20*time.Millisecond, func() { fired.Store(true) })
	timer.Cancel()

	time.Sleep(40 * time.Millisecond)
	assert.False(t, fired.Load())
}

func TestTimerStopOnStoppedExecutor(t *testing.T) {
	e := New(Config{})
	timer := e.Every(time.Millisecond, func() {})
	e.Shutdown()

	assert.NoError(t, timer.Stop(context.Background(), 0, nil))
}
