package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/log"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/wire"
)

// DefaultPort is the default bridge TCP port.
const DefaultPort = 15741

// ServerConfig configures a bridge server.
type ServerConfig struct {
	// Address to listen on (e.g., ":15741" or "127.0.0.1:0").
	Address string

	// MaxMessageSize is the maximum message size (default: 32 MiB).
	MaxMessageSize uint32

	// Logger captures frames and connection state (optional).
	Logger log.Logger

	// OnConnect is called when a new connection is established.
	OnConnect func(conn *ServerConn)

	// OnDisconnect is called when a connection is closed.
	OnDisconnect func(conn *ServerConn)

	// OnMessage is called from the connection's read loop for every
	// non-control message.
	OnMessage func(conn *ServerConn, msg []byte)

	// OnError is called when an error occurs.
	OnError func(conn *ServerConn, err error)
}

// DefaultServerConfig returns a config listening on DefaultPort.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Address:        fmt.Sprintf(":%d", DefaultPort),
		MaxMessageSize: DefaultMaxMessageSize,
	}
}

// Server accepts bridge client connections.
type Server struct {
	config   ServerConfig
	listener net.Listener

	conns   map[*ServerConn]struct{}
	connsMu sync.RWMutex

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewServer creates a new bridge server.
func NewServer(config ServerConfig) *Server {
	if config.Address == "" {
		config.Address = fmt.Sprintf(":%d", DefaultPort)
	}
	if config.MaxMessageSize == 0 {
		config.MaxMessageSize = DefaultMaxMessageSize
	}
	return &Server{
		config: config,
		conns:  make(map[*ServerConn]struct{}),
	}
}

// Start starts the server and begins accepting connections.
func (s *Server) Start(ctx context.Context) error {
	if s.running.Load() {
		return fmt.Errorf("server already running")
	}

	listener, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	s.listener = listener
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.running.Store(true)

	s.wg.Add(1)
	go s.acceptLoop()
	go func() {
		<-s.ctx.Done()
		s.Stop()
	}()
	return nil
}

// Stop stops the server and closes all connections.
func (s *Server) Stop() error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}
	s.cancel()
	s.listener.Close()

	s.connsMu.Lock()
	for conn := range s.conns {
		conn.Close()
	}
	s.connsMu.Unlock()

	s.wg.Wait()
	return nil
}

// Addr returns the server's listen address.
func (s *Server) Addr() net.Addr {
	if s.listener != nil {
		return s.listener.Addr()
	}
	return nil
}

// Port returns the TCP port the server listens on, or 0.
func (s *Server) Port() int {
	if addr, ok := s.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	return 0
}

// ConnectionCount returns the number of active connections.
func (s *Server) ConnectionCount() int {
	s.connsMu.RLock()
	defer s.connsMu.RUnlock()
	return len(s.conns)
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()

	for s.running.Load() {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.running.Load() && s.config.OnError != nil {
				s.config.OnError(nil, fmt.Errorf("accept error: %w", err))
			}
			continue
		}

		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()

	connID := uuid.New().String()
	framer := NewFramerWithMaxSize(conn, s.config.MaxMessageSize)
	if s.config.Logger != nil {
		framer.SetLogger(s.config.Logger, connID)
	}

	sconn := &ServerConn{
		conn:       conn,
		framer:     framer,
		server:     s,
		closeCh:    make(chan struct{}),
		remoteAddr: conn.RemoteAddr(),
		connID:     connID,
	}

	s.connsMu.Lock()
	if !s.running.Load() {
		s.connsMu.Unlock()
		conn.Close()
		return
	}
	s.conns[sconn] = struct{}{}
	s.connsMu.Unlock()

	s.logState(sconn, "Connected")
	if s.config.OnConnect != nil {
		s.config.OnConnect(sconn)
	}

	sconn.readLoop()
	sconn.Close()

	s.connsMu.Lock()
	delete(s.conns, sconn)
	s.connsMu.Unlock()

	s.logState(sconn, "Disconnected")
	if s.config.OnDisconnect != nil {
		s.config.OnDisconnect(sconn)
	}
}

func (s *Server) logState(c *ServerConn, kind string) {
	if s.config.Logger == nil {
		return
	}
	s.config.Logger.Log(log.Event{
		Timestamp:  time.Now(),
		SessionID:  c.connID,
		Layer:      log.LayerBridge,
		Category:   log.CategoryState,
		RemoteAddr: c.remoteAddr.String(),
		State:      &log.StateEvent{Kind: kind},
	})
}

// ServerConn represents a client connection to the server.
type ServerConn struct {
	conn       net.Conn
	framer     *Framer
	server     *Server
	closeCh    chan struct{}
	closeOnce  sync.Once
	remoteAddr net.Addr
	connID     string
}

// RemoteAddr returns the remote address of the client.
func (c *ServerConn) RemoteAddr() net.Addr {
	return c.remoteAddr
}

// ConnID returns the unique connection identifier.
func (c *ServerConn) ConnID() string {
	return c.connID
}

// Send sends a message to the client.
func (c *ServerConn) Send(data []byte) error {
	select {
	case <-c.closeCh:
		return ErrConnectionClosed
	default:
	}
	return c.framer.WriteFrame(data)
}

// Close closes the connection.
func (c *ServerConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closeCh)
		err = c.conn.Close()
	})
	return err
}

// Done is closed when the connection is closed.
func (c *ServerConn) Done() <-chan struct{} {
	return c.closeCh
}

func (c *ServerConn) readLoop() {
	for {
		data, err := c.framer.ReadFrame()
		if err != nil {
			select {
			case <-c.closeCh:
			default:
				if c.server.running.Load() && c.server.config.OnError != nil && !errors.Is(err, io.EOF) {
					c.server.config.OnError(c, err)
				}
			}
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

		if c.server.config.OnMessage != nil {
			c.server.config.OnMessage(c, data)
		}
	}
}

// handleControlMessage reports whether the connection should close.
func (c *ServerConn) handleControlMessage(msg *wire.ControlMessage) bool {
	switch msg.Type {
	case wire.ControlPing:
		if pong, err := EncodePong(msg.Sequence); err == nil {
			c.Send(pong)
		}
	case wire.ControlClose:
		if ack, err := EncodeClose(); err == nil {
			c.Send(ack)
		}
		return true
	}
	return false
}

// EncodePing encodes a ping control message.
func EncodePing(seq uint32) ([]byte, error) {
	return wire.EncodeControlMessage(&wire.ControlMessage{Type: wire.ControlPing, Sequence: seq})
}

// EncodePong encodes a pong control message.
func EncodePong(seq uint32) ([]byte, error) {
	return wire.EncodeControlMessage(&wire.ControlMessage{Type: wire.ControlPong, Sequence: seq})
}

// EncodeClose encodes a close control message.
func EncodeClose() ([]byte, error) {
	return wire.EncodeControlMessage(&wire.ControlMessage{Type: wire.ControlClose})
}

// DecodeControlMessage decodes a control message and returns its type and sequence.
func DecodeControlMessage(data []byte) (wire.ControlMessageType, uint32, error) {
	msg, err := wire.DecodeControlMessage(data)
	if err != nil {
		return 0, 0, err
	}
	return msg.Type, msg.Sequence, nil
}

// Control message types.
const (
	ControlPing  = wire.ControlPing
	ControlPong  = wire.ControlPong
	ControlClose = wire.ControlClose
)
