// Package executor serializes all calls into one camera backend.
//
// Most vendor SDKs forbid concurrent or cross-thread calls, so every open
// device owns one Executor: a dedicated goroutine draining a FIFO task
// queue. Callers post work and either forget about it or wait for it.
//
// # Posting
//
// Post enqueues a task and returns immediately. It never delivers a
// result; callers that need one use Do, which posts the task and waits
// for its completion signal on the calling goroutine:
//
//	err := exec.Do(ctx, func() error {
//		return driver.SetProperty(id, data)
//	})
//
// # Shutdown
//
// Shutdown stops the loop, drops tasks that have not started and waits
// for the running task to finish. It is idempotent. It must not be called
// from a task running on the same executor. After Shutdown returns no
// posted task will run.
//
// # Timers
//
// Every and After arm timers whose callbacks run on the executor. Stopping
// a timer posts a stop marker and waits for it, because a tick may already
// be queued behind other work. While waiting, an optional pump function is
// called periodically for backends that need the waiting goroutine to keep
// servicing their event loop.
//
// # Events
//
// Event is a manual-reset event: once Set, every Wait returns until Reset.
package executor
