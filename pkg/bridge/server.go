package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/backend"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/log"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/transport"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/wire"
)

// Server errors.
var (
	ErrNoModule      = errors.New("bridge: no backend module")
	ErrServerRunning = errors.New("bridge: server already running")

	errSessionGone = errors.New("client disconnected")
)

// maxEnumValues caps the values sent for one enumeration.
const maxEnumValues = 4096

// ServerConfig configures a bridge server.
type ServerConfig struct {
	// Address to listen on (e.g., ":15741").
	Address string

	// Module provides the devices served by the bridge.
	Module backend.Module

	// MaxMessageSize is the maximum frame size (default: 32 MiB).
	MaxMessageSize uint32

	// IdleInterval is the interval of driver Idle calls for open devices.
	IdleInterval time.Duration

	// EnumerateTimeout bounds one module enumeration.
	EnumerateTimeout time.Duration

	// Logger receives operational logs. If nil, logging is disabled.
	Logger *slog.Logger

	// EventLogger captures bridge frames. If nil, capture is disabled.
	EventLogger log.Logger
}

// DefaultServerConfig returns a config listening on transport.DefaultPort.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Address:          fmt.Sprintf(":%d", transport.DefaultPort),
		MaxMessageSize:   transport.DefaultMaxMessageSize,
		IdleInterval:     20 * time.Millisecond,
		EnumerateTimeout: 10 * time.Second,
	}
}

// Server serves the devices of a backend.Module to bridge clients.
type Server struct {
	config    ServerConfig
	transport *transport.Server

	mu       sync.Mutex
	devices  map[string]*device
	sessions map[*transport.ServerConn]*session
	running  bool

	wg sync.WaitGroup
}

// device is an opened driver and its owning session.
type device struct {
	desc   backend.Descriptor
	owner  *session
	driver backend.Driver

	// mu serializes driver calls.
	mu     sync.Mutex
	closed bool

	stopIdle chan struct{}
	idleDone chan struct{}
}

// NewServer creates a bridge server.
func NewServer(config ServerConfig) (*Server, error) {
	if config.Module == nil {
		return nil, ErrNoModule
	}
	defaults := DefaultServerConfig()
	if config.Address == "" {
		config.Address = defaults.Address
	}
	if config.IdleInterval <= 0 {
		config.IdleInterval = defaults.IdleInterval
	}
	if config.EnumerateTimeout <= 0 {
		config.EnumerateTimeout = defaults.EnumerateTimeout
	}

	s := &Server{
		config:   config,
		devices:  make(map[string]*device),
		sessions: make(map[*transport.ServerConn]*session),
	}
	s.transport = transport.NewServer(transport.ServerConfig{
		Address:        config.Address,
		MaxMessageSize: config.MaxMessageSize,
		Logger:         config.EventLogger,
		OnConnect:      s.onConnect,
		OnDisconnect:   s.onDisconnect,
		OnMessage:      s.onMessage,
		OnError:        s.onError,
	})
	return s, nil
}

// Start starts accepting clients. The server stops when ctx is done.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrServerRunning
	}
	s.running = true
	s.mu.Unlock()

	if err := s.transport.Start(ctx); err != nil {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		return err
	}
	s.debug("bridge listening",
		slog.String("addr", s.transport.Addr().String()),
		slog.String("module", s.config.Module.Name()))
	return nil
}

// Stop disconnects all clients and closes every open device.
func (s *Server) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	err := s.transport.Stop()
	s.wg.Wait()

	s.mu.Lock()
	var left []*device
	for _, dev := range s.devices {
		left = append(left, dev)
	}
	s.mu.Unlock()
	for _, dev := range left {
		s.closeDevice(dev)
	}
	return err
}

// Addr returns the listen address.
func (s *Server) Addr() net.Addr {
	return s.transport.Addr()
}

// Port returns the TCP port the server listens on.
func (s *Server) Port() int {
	return s.transport.Port()
}

// ClientCount returns the number of connected clients.
func (s *Server) ClientCount() int {
	return s.transport.ConnectionCount()
}

// OpenDevices returns the ids of the currently opened devices.
func (s *Server) OpenDevices() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.devices))
	for id := range s.devices {
		ids = append(ids, id)
	}
	return ids
}

func (s *Server) onConnect(conn *transport.ServerConn) {
	sess := &session{server: s, conn: conn}
	s.mu.Lock()
	s.sessions[conn] = sess
	s.mu.Unlock()
	s.debug("client connected",
		slog.String("conn", conn.ConnID()),
		slog.String("remote", conn.RemoteAddr().String()))
}

func (s *Server) onDisconnect(conn *transport.ServerConn) {
	s.mu.Lock()
	sess := s.sessions[conn]
	delete(s.sessions, conn)
	var owned []*device
	for _, dev := range s.devices {
		if dev.owner == sess {
			owned = append(owned, dev)
		}
	}
	s.mu.Unlock()

	for _, dev := range owned {
		s.closeDevice(dev)
	}
	s.debug("client disconnected",
		slog.String("conn", conn.ConnID()),
		slog.Int("closedDevices", len(owned)))
}

func (s *Server) onMessage(conn *transport.ServerConn, data []byte) {
	s.mu.Lock()
	sess := s.sessions[conn]
	s.mu.Unlock()
	if sess == nil {
		return
	}

	// Requests run concurrently; calls on one device serialize on its lock.
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		sess.handle(data)
	}()
}

func (s *Server) onError(conn *transport.ServerConn, err error) {
	if s.config.Logger == nil {
		return
	}
	attrs := []any{slog.String("error", err.Error())}
	if conn != nil {
		attrs = append(attrs, slog.String("conn", conn.ConnID()))
	}
	s.config.Logger.Warn("bridge connection error", attrs...)
}

// lookup returns the descriptor of device id from a fresh enumeration.
func (s *Server) lookup(id string) (backend.Descriptor, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.EnumerateTimeout)
	defer cancel()

	descs, err := s.config.Module.Enumerate(ctx)
	if err != nil {
		return backend.Descriptor{}, false, err
	}
	for _, desc := range descs {
		if desc.ID == id {
			return desc, true, nil
		}
	}
	return backend.Descriptor{}, false, nil
}

// open opens device id for sess.
func (s *Server) open(sess *session, id string) (backend.DeviceInfo, wire.Status, error) {
	desc, found, err := s.lookup(id)
	if err != nil {
		return backend.DeviceInfo{}, wire.StatusBackendError, err
	}
	if !found {
		return backend.DeviceInfo{}, wire.StatusInvalidDevice, fmt.Errorf("unknown device %q", id)
	}

	// Reserve the id before the driver call so concurrent opens fail fast.
	dev := &device{desc: desc, owner: sess}
	s.mu.Lock()
	if _, taken := s.devices[id]; taken {
		s.mu.Unlock()
		return backend.DeviceInfo{}, wire.StatusAlreadyOpen, fmt.Errorf("device %q is already open", id)
	}
	s.devices[id] = dev
	s.mu.Unlock()

	release := func() {
		s.mu.Lock()
		delete(s.devices, id)
		s.mu.Unlock()
	}

	driver, err := s.config.Module.NewDriver(desc)
	if err != nil {
		release()
		return backend.DeviceInfo{}, wire.StatusBackendError, err
	}
	if err := driver.Open(); err != nil {
		release()
		return backend.DeviceInfo{}, wire.StatusBackendError, err
	}
	driver.RegisterEventCallback(func(ev backend.Event) {
		sess.notify(&wire.Notification{Device: id, Event: &ev})
	})

	dev.mu.Lock()
	if dev.closed {
		// The owner disconnected while the driver was opening.
		dev.mu.Unlock()
		driver.RegisterEventCallback(nil)
		driver.Close()
		return backend.DeviceInfo{}, wire.StatusNotOpen, errSessionGone
	}
	dev.driver = driver
	dev.stopIdle = make(chan struct{})
	dev.idleDone = make(chan struct{})
	dev.mu.Unlock()
	go dev.idleLoop(s.config.IdleInterval)

	s.debug("device opened",
		slog.String("device", id),
		slog.String("conn", sess.conn.ConnID()))
	return driver.Info(), wire.StatusSuccess, nil
}

// owned returns device id if sess owns it.
func (s *Server) owned(sess *session, id string) (*device, wire.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dev, ok := s.devices[id]
	if !ok || dev.owner != sess {
		return nil, wire.StatusNotOpen
	}
	return dev, wire.StatusSuccess
}

// closeDevice stops the idle loop and closes the driver.
func (s *Server) closeDevice(dev *device) error {
	s.mu.Lock()
	if s.devices[dev.desc.ID] == dev {
		delete(s.devices, dev.desc.ID)
	}
	s.mu.Unlock()

	dev.mu.Lock()
	if dev.closed || dev.driver == nil {
		dev.closed = true
		dev.mu.Unlock()
		return nil
	}
	dev.closed = true
	stop, done := dev.stopIdle, dev.idleDone
	dev.mu.Unlock()

	close(stop)
	<-done

	dev.mu.Lock()
	defer dev.mu.Unlock()
	dev.driver.RegisterEventCallback(nil)
	err := dev.driver.Close()
	if err != nil && s.config.Logger != nil {
		s.config.Logger.Warn("closing device failed",
			slog.String("device", dev.desc.ID), slog.String("error", err.Error()))
	}
	s.debug("device closed", slog.String("device", dev.desc.ID))
	return err
}

func (d *device) idleLoop(interval time.Duration) {
	defer close(d.idleDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-d.stopIdle:
			return
		case <-ticker.C:
			d.mu.Lock()
			if !d.closed {
				d.driver.Idle()
			}
			d.mu.Unlock()
		}
	}
}

func (s *Server) debug(msg string, attrs ...any) {
	if s.config.Logger != nil {
		s.config.Logger.Debug(msg, attrs...)
	}
}
