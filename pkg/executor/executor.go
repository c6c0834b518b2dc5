package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Executor errors.
var (
	// ErrStopped indicates the executor no longer accepts tasks.
	ErrStopped = errors.New("executor stopped")

	// ErrTimeout indicates a wait ended before its completion signal fired.
	ErrTimeout = errors.New("timeout")

	// ErrPanic indicates a task passed to Do panicked.
	ErrPanic = errors.New("task panicked")
)

// Config configures an Executor.
type Config struct {
	// Name identifies the executor in log output.
	Name string

	// Logger receives recovered task panics and shutdown diagnostics.
	// If nil, logging is disabled.
	Logger *slog.Logger
}

// Executor runs posted tasks one at a time on a dedicated goroutine.
type Executor struct {
	name   string
	logger *slog.Logger

	mu      sync.Mutex
	cond    *sync.Cond
	queue   []func()
	stopped bool

	done chan struct{}
}

// New creates an executor and starts its goroutine.
func New(config Config) *Executor {
	e := &Executor{
		name:   config.Name,
		logger: config.Logger,
		done:   make(chan struct{}),
	}
	e.cond = sync.NewCond(&e.mu)

	go e.run()

	return e
}

// Post enqueues task and returns immediately.
// Returns ErrStopped after Shutdown.
func (e *Executor) Post(task func()) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stopped {
		return ErrStopped
	}
	e.queue = append(e.queue, task)
	e.cond.Signal()
	return nil
}

// Do posts fn and waits until it has run, returning its error.
// If ctx ends first, Do returns an error wrapping ErrTimeout; fn may
// still run later. A panic in fn is returned wrapping ErrPanic.
func (e *Executor) Do(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	task := func() {
		defer func() {
			if r := recover(); r != nil {
				result <- fmt.Errorf("%w: %v", ErrPanic, r)
				panic(r)
			}
		}()
		result <- fn()
	}
	if err := e.Post(task); err != nil {
		return err
	}

	select {
	case err := <-result:
		return err
	case <-e.done:
		select {
		case err := <-result:
			return err
		default:
			return ErrStopped
		}
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrTimeout, ctx.Err())
	}
}

// Pending returns the number of queued tasks that have not started.
func (e *Executor) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

// Stopped reports whether Shutdown has been called.
func (e *Executor) Stopped() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stopped
}

// Done is closed when the executor goroutine has exited.
func (e *Executor) Done() <-chan struct{} {
	return e.done
}

// Shutdown stops the executor and waits for its goroutine to exit.
// Queued tasks that have not started are dropped. Safe to call more than
// once, but not from a task running on this executor.
func (e *Executor) Shutdown() {
	e.mu.Lock()
	if !e.stopped {
		e.stopped = true
		if dropped := len(e.queue); dropped > 0 && e.logger != nil {
			e.logger.Debug("executor dropping queued tasks",
				slog.String("executor", e.name),
				slog.Int("dropped", dropped))
		}
		e.queue = nil
		e.cond.Broadcast()
	}
	e.mu.Unlock()

	<-e.done
}

func (e *Executor) run() {
	defer close(e.done)

	for {
		e.mu.Lock()
		for len(e.queue) == 0 && !e.stopped {
			e.cond.Wait()
		}
		if e.stopped {
			e.mu.Unlock()
			return
		}
		task := e.queue[0]
		e.queue[0] = nil
		e.queue = e.queue[1:]
		e.mu.Unlock()

		e.runTask(task)
	}
}

func (e *Executor) runTask(task func()) {
	defer func() {
		if r := recover(); r != nil && e.logger != nil {
			e.logger.Error("executor task panicked",
				slog.String("executor", e.name),
				slog.String("panic", fmt.Sprint(r)))
		}
	}()
	task()
}
