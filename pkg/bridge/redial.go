package bridge

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// ErrRedialBackoff is returned while a Module waits before dialing a
// bridge that could not be reached.
var ErrRedialBackoff = errors.New("bridge: waiting to redial")

// Redial defaults.
const (
	// InitialRedialDelay is the wait after the first failed dial.
	InitialRedialDelay = 500 * time.Millisecond

	// MaxRedialDelay caps the wait between dials.
	MaxRedialDelay = 30 * time.Second

	redialMultiplier = 2.0
	redialJitter     = 0.25
)

// redialGate spaces out dials to an unreachable bridge with exponential
// backoff. A successful dial resets it.
type redialGate struct {
	mu sync.Mutex

	initial time.Duration
	max     time.Duration
	jitter  float64
	rng     *rand.Rand

	current   time.Duration
	attempts  int
	notBefore time.Time
	lastErr   error
}

func newRedialGate(initial, max time.Duration) *redialGate {
	if initial <= 0 {
		initial = InitialRedialDelay
	}
	if max <= 0 {
		max = MaxRedialDelay
	}
	if max < initial {
		max = initial
	}
	return &redialGate{
		initial: initial,
		max:     max,
		jitter:  redialJitter,
		current: initial,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// allow returns ErrRedialBackoff, wrapping the last dial error, until
// the current delay has passed.
func (g *redialGate) allow(now time.Time) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if now.Before(g.notBefore) {
		return fmt.Errorf("%w (retry in %s): %w", ErrRedialBackoff, g.notBefore.Sub(now).Round(time.Millisecond), g.lastErr)
	}
	return nil
}

// failed records a failed dial and schedules the next allowed one.
func (g *redialGate) failed(err error, now time.Time) time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()

	delay := g.current
	if g.jitter > 0 {
		delay += time.Duration(float64(delay) * g.jitter * g.rng.Float64())
	}

	g.attempts++
	next := time.Duration(float64(g.current) * redialMultiplier)
	if next > g.max {
		next = g.max
	}
	g.current = next
	g.notBefore = now.Add(delay)
	g.lastErr = err
	return delay
}

// succeeded resets the backoff.
func (g *redialGate) succeeded() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.current = g.initial
	g.attempts = 0
	g.notBefore = time.Time{}
	g.lastErr = nil
}

// failures returns the failed dials since the last success.
func (g *redialGate) failures() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.attempts
}
