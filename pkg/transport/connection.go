package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/log"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/wire"
)

// Connection states.
type ConnectionState int

const (
	// StateDisconnected indicates no connection.
	StateDisconnected ConnectionState = iota

	// StateConnecting indicates connection in progress.
	StateConnecting

	// StateConnected indicates an active connection.
	StateConnected

	// StateClosing indicates graceful close in progress.
	StateClosing
)

// String returns the connection state name.
func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "DISCONNECTED"
	case StateConnecting:
		return "CONNECTING"
	case StateConnected:
		return "CONNECTED"
	case StateClosing:
		return "CLOSING"
	default:
		return "UNKNOWN"
	}
}

// Connection errors.
var (
	ErrNotConnected     = errors.New("not connected")
	ErrAlreadyConnected = errors.New("already connected")
	ErrConnectionClosed = errors.New("connection closed")
	ErrCloseTimeout     = errors.New("close timeout")
)

// ConnectionConfig configures a client connection to a bridge.
type ConnectionConfig struct {
	// MaxMessageSize is the maximum message size (default: 32 MiB).
	MaxMessageSize uint32

	// KeepAlive configuration.
	KeepAlive KeepAliveConfig

	// CloseTimeout is the timeout for graceful close (default: 2s).
	CloseTimeout time.Duration

	// WriteTimeout is the timeout for write operations (0 = no timeout).
	WriteTimeout time.Duration

	// Logger captures frames (optional).
	Logger log.Logger
}

// DefaultConnectionConfig returns the default connection configuration.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		MaxMessageSize: DefaultMaxMessageSize,
		KeepAlive:      DefaultKeepAliveConfig(),
		CloseTimeout:   2 * time.Second,
	}
}

// ConnectionHandler handles connection events.
type ConnectionHandler interface {
	// OnMessage is called from the read loop for every non-control message.
	OnMessage(msg []byte)

	// OnStateChange is called when the connection state changes.
	OnStateChange(oldState, newState ConnectionState)

	// OnError is called when an error occurs.
	OnError(err error)
}

// Connection is a client connection with a background read loop and
// keep-alive.
type Connection struct {
	config  ConnectionConfig
	handler ConnectionHandler
	connID  string

	conn   net.Conn
	framer *Framer

	keepAlive *KeepAlive

	state     atomic.Int32
	closeOnce sync.Once
	closeDone chan struct{}

	mu      sync.RWMutex
	writeMu sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewConnection creates a new connection (not yet connected).
func NewConnection(config ConnectionConfig, handler ConnectionHandler) *Connection {
	if config.MaxMessageSize == 0 {
		config.MaxMessageSize = DefaultMaxMessageSize
	}
	if config.CloseTimeout == 0 {
		config.CloseTimeout = 2 * time.Second
	}

	c := &Connection{
		config:    config,
		handler:   handler,
		connID:    uuid.New().String(),
		closeDone: make(chan struct{}),
	}
	c.state.Store(int32(StateDisconnected))
	return c
}

// ConnID returns the unique connection identifier.
func (c *Connection) ConnID() string {
	return c.connID
}

// State returns the current connection state.
func (c *Connection) State() ConnectionState {
	return ConnectionState(c.state.Load())
}

// Connect dials address and starts the read loop and keep-alive.
func (c *Connection) Connect(ctx context.Context, address string) error {
	if !c.state.CompareAndSwap(int32(StateDisconnected), int32(StateConnecting)) {
		return ErrAlreadyConnected
	}
	c.notifyStateChange(StateDisconnected, StateConnecting)

	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		c.state.Store(int32(StateDisconnected))
		c.notifyStateChange(StateConnecting, StateDisconnected)
		return fmt.Errorf("dial failed: %w", err)
	}

	framer := NewFramerWithMaxSize(conn, c.config.MaxMessageSize)
	if c.config.Logger != nil {
		framer.SetLogger(c.config.Logger, c.connID)
	}

	c.mu.Lock()
	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.conn = conn
	c.framer = framer
	c.mu.Unlock()

	c.state.Store(int32(StateConnected))
	c.notifyStateChange(StateConnecting, StateConnected)

	c.startKeepAlive()
	go c.readLoop()
	return nil
}

// Send sends a message over the connection.
func (c *Connection) Send(data []byte) error {
	if c.State() != StateConnected {
		return ErrNotConnected
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.mu.RLock()
	framer := c.framer
	conn := c.conn
	c.mu.RUnlock()
	if framer == nil {
		return ErrNotConnected
	}

	if c.config.WriteTimeout > 0 {
		conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
		defer conn.SetWriteDeadline(time.Time{})
	}
	return framer.WriteFrame(data)
}

// SendControlMessage sends a control message (ping/pong/close).
func (c *Connection) SendControlMessage(msgType wire.ControlMessageType, seq uint32) error {
	data, err := wire.EncodeControlMessage(&wire.ControlMessage{Type: msgType, Sequence: seq})
	if err != nil {
		return fmt.Errorf("failed to encode control message: %w", err)
	}
	return c.Send(data)
}

// Latency returns the last measured keep-alive round trip time.
func (c *Connection) Latency() time.Duration {
	c.mu.RLock()
	ka := c.keepAlive
	c.mu.RUnlock()
	if ka == nil {
		return 0
	}
	return ka.Latency()
}

// Close gracefully closes the connection.
func (c *Connection) Close() error {
	return c.CloseWithTimeout(c.config.CloseTimeout)
}

// CloseWithTimeout sends a close message and waits up to timeout for the
// peer to acknowledge it.
func (c *Connection) CloseWithTimeout(timeout time.Duration) error {
	var closeErr error
	c.closeOnce.Do(func() {
		current := c.State()
		if current != StateConnected {
			c.state.Store(int32(StateDisconnected))
			return
		}

		if err := c.SendControlMessage(wire.ControlClose, 0); err == nil {
			c.state.Store(int32(StateClosing))
			c.notifyStateChange(current, StateClosing)
			current = StateClosing
			select {
			case <-c.closeDone:
			case <-time.After(timeout):
				closeErr = ErrCloseTimeout
			}
		}
		c.teardown(current)
	})
	return closeErr
}

// ForceClose immediately closes the connection without graceful handshake.
func (c *Connection) ForceClose() {
	c.closeOnce.Do(func() {
		c.teardown(c.State())
	})
}

func (c *Connection) teardown(from ConnectionState) {
	c.mu.Lock()
	if c.keepAlive != nil {
		c.keepAlive.Stop()
	}
	if c.cancel != nil {
		c.cancel()
	}
	if c.conn != nil {
		c.conn.Close()
	}
	c.framer = nil
	c.mu.Unlock()

	c.state.Store(int32(StateDisconnected))
	if from != StateDisconnected {
		c.notifyStateChange(from, StateDisconnected)
	}
}

// LocalAddr returns the local network address.
func (c *Connection) LocalAddr() net.Addr {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.conn != nil {
		return c.conn.LocalAddr()
	}
	return nil
}

// RemoteAddr returns the remote network address.
func (c *Connection) RemoteAddr() net.Addr {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.conn != nil {
		return c.conn.RemoteAddr()
	}
	return nil
}

func (c *Connection) startKeepAlive() {
	ka := NewKeepAlive(
		c.config.KeepAlive,
		func(seq uint32) error {
			return c.SendControlMessage(wire.ControlPing, seq)
		},
		func() {
			c.handler.OnError(fmt.Errorf("keep-alive timeout"))
			c.ForceClose()
		},
	)
	c.mu.Lock()
	c.keepAlive = ka
	ctx := c.ctx
	c.mu.Unlock()
	ka.Start(ctx)
}

func (c *Connection) readLoop() {
	defer close(c.closeDone)

	c.mu.RLock()
	framer := c.framer
	ctx := c.ctx
	c.mu.RUnlock()

	for {
		data, err := framer.ReadFrame()
		if err != nil {
			if c.State() == StateClosing || ctx.Err() != nil {
				return
			}
			c.handler.OnError(fmt.Errorf("read error: %w", err))
			c.ForceClose()
			return
		}

		if typ, err := wire.PeekMessageType(data); err == nil && typ == wire.MessageTypeControl {
			if msg, err := wire.DecodeControlMessage(data); err == nil {
				if c.handleControlMessage(msg) {
					return
				}
				continue
			}
		}

		c.handler.OnMessage(data)
	}
}

// handleControlMessage reports whether the read loop should end.
func (c *Connection) handleControlMessage(msg *wire.ControlMessage) bool {
	switch msg.Type {
	case wire.ControlPing:
		c.SendControlMessage(wire.ControlPong, msg.Sequence)
	case wire.ControlPong:
		c.mu.RLock()
		ka := c.keepAlive
		c.mu.RUnlock()
		if ka != nil {
			ka.PongReceived(msg.Sequence)
		}
	case wire.ControlClose:
		if c.State() == StateClosing {
			// Acknowledgment of our own close.
			return true
		}
		c.SendControlMessage(wire.ControlClose, 0)
		go c.ForceClose()
		return true
	}
	return false
}

func (c *Connection) notifyStateChange(oldState, newState ConnectionState) {
	if c.handler != nil {
		c.handler.OnStateChange(oldState, newState)
	}
}
