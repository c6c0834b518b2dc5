package transport

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Keep-alive constants.
const (
	// DefaultPingInterval is the default interval between pings.
	DefaultPingInterval = 10 * time.Second

	// DefaultPongTimeout is the default timeout waiting for a pong response.
	DefaultPongTimeout = 3 * time.Second

	// DefaultMaxMissedPongs is the default number of missed pongs before disconnect.
	DefaultMaxMissedPongs = 3
)

// KeepAliveConfig configures keep-alive behavior.
type KeepAliveConfig struct {
	// PingInterval is the interval between pings.
	PingInterval time.Duration

	// PongTimeout is the timeout waiting for a pong response.
	PongTimeout time.Duration

	// MaxMissedPongs is the number of missed pongs before disconnect.
	MaxMissedPongs int
}

// DefaultKeepAliveConfig returns the default keep-alive configuration.
func DefaultKeepAliveConfig() KeepAliveConfig {
	return KeepAliveConfig{
		PingInterval:   DefaultPingInterval,
		PongTimeout:    DefaultPongTimeout,
		MaxMissedPongs: DefaultMaxMissedPongs,
	}
}

// DetectionDelay returns the longest time a dead peer goes unnoticed.
func (c KeepAliveConfig) DetectionDelay() time.Duration {
	return c.PingInterval*time.Duration(c.MaxMissedPongs) + c.PongTimeout
}

func (c KeepAliveConfig) withDefaults() KeepAliveConfig {
	if c.PingInterval == 0 {
		c.PingInterval = DefaultPingInterval
	}
	if c.PongTimeout == 0 {
		c.PongTimeout = DefaultPongTimeout
	}
	if c.MaxMissedPongs == 0 {
		c.MaxMissedPongs = DefaultMaxMissedPongs
	}
	return c
}

// KeepAlive sends periodic pings and reports a dead peer after
// MaxMissedPongs unanswered pings.
type KeepAlive struct {
	config    KeepAliveConfig
	sendPing  func(seq uint32) error
	onTimeout func()

	sequence atomic.Uint32
	pongCh   chan uint32

	mu          sync.Mutex
	running     bool
	stopCh      chan struct{}
	missedPongs int
	pending     uint32
	pingTime    time.Time
	latency     time.Duration
}

// NewKeepAlive creates a keep-alive monitor. sendPing transmits a ping with
// the given sequence number; onTimeout is called once the peer is
// considered dead.
func NewKeepAlive(config KeepAliveConfig, sendPing func(seq uint32) error, onTimeout func()) *KeepAlive {
	return &KeepAlive{
		config:    config.withDefaults(),
		sendPing:  sendPing,
		onTimeout: onTimeout,
		pongCh:    make(chan uint32, 1),
	}
}

// Start begins the monitoring loop.
func (ka *KeepAlive) Start(ctx context.Context) {
	ka.mu.Lock()
	defer ka.mu.Unlock()
	if ka.running {
		return
	}
	ka.running = true
	ka.stopCh = make(chan struct{})
	go ka.loop(ctx, ka.stopCh)
}

// Stop ends the monitoring loop.
func (ka *KeepAlive) Stop() {
	ka.mu.Lock()
	defer ka.mu.Unlock()
	if !ka.running {
		return
	}
	ka.running = false
	close(ka.stopCh)
}

// IsRunning returns true if monitoring is active.
func (ka *KeepAlive) IsRunning() bool {
	ka.mu.Lock()
	defer ka.mu.Unlock()
	return ka.running
}

// PongReceived should be called when a pong message is received.
func (ka *KeepAlive) PongReceived(seq uint32) {
	select {
	case ka.pongCh <- seq:
	default:
	}
}

// MissedPongs returns the number of consecutive unanswered pings.
func (ka *KeepAlive) MissedPongs() int {
	ka.mu.Lock()
	defer ka.mu.Unlock()
	return ka.missedPongs
}

// Latency returns the round trip time of the last answered ping.
func (ka *KeepAlive) Latency() time.Duration {
	ka.mu.Lock()
	defer ka.mu.Unlock()
	return ka.latency
}

func (ka *KeepAlive) loop(ctx context.Context, stop <-chan struct{}) {
	ticker := time.NewTicker(ka.config.PingInterval)
	defer ticker.Stop()

	ka.ping()
	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			if ka.expired() {
				if ka.onTimeout != nil {
					ka.onTimeout()
				}
				return
			}
			ka.ping()
		case seq := <-ka.pongCh:
			ka.pong(seq)
		}
	}
}

func (ka *KeepAlive) ping() {
	seq := ka.sequence.Add(1)

	ka.mu.Lock()
	ka.pending = seq
	ka.pingTime = time.Now()
	ka.mu.Unlock()

	// A failed send counts as a missed pong on the next tick.
	_ = ka.sendPing(seq)
}

// expired records an unanswered ping and reports whether the peer is dead.
func (ka *KeepAlive) expired() bool {
	ka.mu.Lock()
	defer ka.mu.Unlock()
	if ka.pending == 0 || time.Since(ka.pingTime) < ka.config.PongTimeout {
		return false
	}
	ka.pending = 0
	ka.missedPongs++
	return ka.missedPongs >= ka.config.MaxMissedPongs
}

func (ka *KeepAlive) pong(seq uint32) {
	ka.mu.Lock()
	defer ka.mu.Unlock()
	// Late pongs of earlier pings are ignored.
	if ka.pending == 0 || seq != ka.pending {
		return
	}
	ka.pending = 0
	ka.missedPongs = 0
	ka.latency = time.Since(ka.pingTime)
}
