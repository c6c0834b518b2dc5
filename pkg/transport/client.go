package transport

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"
)

// ClientConfig configures a synchronous bridge client.
type ClientConfig struct {
	// MaxMessageSize is the maximum message size (default: 32 MiB).
	MaxMessageSize uint32

	// ConnectTimeout is the connection timeout (default: 5s).
	ConnectTimeout time.Duration
}

// Client dials bridges for one-shot exchanges such as a liveness probe.
// Long-lived sessions use Connection.
type Client struct {
	config ClientConfig
}

// NewClient creates a new client.
func NewClient(config ClientConfig) *Client {
	if config.MaxMessageSize == 0 {
		config.MaxMessageSize = DefaultMaxMessageSize
	}
	if config.ConnectTimeout == 0 {
		config.ConnectTimeout = 5 * time.Second
	}
	return &Client{config: config}
}

// Connect establishes a connection to the specified address.
func (c *Client) Connect(ctx context.Context, address string) (*ClientConn, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.ConnectTimeout)
		defer cancel()
	}

	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("dial failed: %w", err)
	}

	return &ClientConn{
		conn:    conn,
		framer:  NewFramerWithMaxSize(conn, c.config.MaxMessageSize),
		closeCh: make(chan struct{}),
	}, nil
}

// ClientConn is a connection without a background reader; the caller
// receives messages explicitly.
type ClientConn struct {
	conn    net.Conn
	framer  *Framer
	closeCh chan struct{}

	closeOnce sync.Once
	readMu    sync.Mutex
}

// LocalAddr returns the local network address.
func (c *ClientConn) LocalAddr() net.Addr {
	return c.conn.LocalAddr()
}

// RemoteAddr returns the remote network address.
func (c *ClientConn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// Send sends a message to the server.
func (c *ClientConn) Send(data []byte) error {
	select {
	case <-c.closeCh:
		return ErrConnectionClosed
	default:
	}
	return c.framer.WriteFrame(data)
}

// Receive receives a message from the server with timeout.
func (c *ClientConn) Receive(timeout time.Duration) ([]byte, error) {
	c.readMu.Lock()
	defer c.readMu.Unlock()

	select {
	case <-c.closeCh:
		return nil, ErrConnectionClosed
	default:
	}

	if timeout > 0 {
		c.conn.SetReadDeadline(time.Now().Add(timeout))
		defer c.conn.SetReadDeadline(time.Time{})
	}
	return c.framer.ReadFrame()
}

// Close closes the connection.
func (c *ClientConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closeCh)
		err = c.conn.Close()
	})
	return err
}

// SendPing sends a ping control message.
func (c *ClientConn) SendPing(seq uint32) error {
	msg, err := EncodePing(seq)
	if err != nil {
		return err
	}
	return c.Send(msg)
}

// SendClose sends a close control message.
func (c *ClientConn) SendClose() error {
	msg, err := EncodeClose()
	if err != nil {
		return err
	}
	return c.Send(msg)
}

// Ping dials address, exchanges one ping and returns the round trip time.
func (c *Client) Ping(ctx context.Context, address string) (time.Duration, error) {
	conn, err := c.Connect(ctx, address)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	start := time.Now()
	if err := conn.SendPing(1); err != nil {
		return 0, err
	}

	timeout := c.config.ConnectTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	for {
		data, err := conn.Receive(timeout)
		if err != nil {
			return 0, fmt.Errorf("waiting for pong: %w", err)
		}
		typ, seq, err := DecodeControlMessage(data)
		if err == nil && typ == ControlPong && seq == 1 {
			rtt := time.Since(start)
			conn.SendClose()
			return rtt, nil
		}
	}
}
