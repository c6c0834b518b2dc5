package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/backend"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/log"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/transport"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/wire"
)

// Client errors.
var (
	ErrRequestTimeout = errors.New("bridge: request timed out")
	ErrClientClosed   = errors.New("bridge: client is closed")
)

// ClientConfig configures a bridge client.
type ClientConfig struct {
	// Address is the bridge address ("host:port").
	Address string

	// Connection configures the transport connection.
	Connection transport.ConnectionConfig

	// ConnectTimeout bounds dialing the bridge.
	ConnectTimeout time.Duration

	// RequestTimeout bounds one request.
	RequestTimeout time.Duration

	// DownloadTimeout bounds one image download.
	DownloadTimeout time.Duration

	// RedialInitial and RedialMax bound the backoff of a Module between
	// failed dials.
	RedialInitial time.Duration
	RedialMax     time.Duration

	// Logger receives operational logs. If nil, logging is disabled.
	Logger *slog.Logger

	// EventLogger captures bridge frames. If nil, capture is disabled.
	EventLogger log.Logger
}

// DefaultClientConfig returns the default configuration for address.
func DefaultClientConfig(address string) ClientConfig {
	return ClientConfig{
		Address:         address,
		Connection:      transport.DefaultConnectionConfig(),
		ConnectTimeout:  5 * time.Second,
		RequestTimeout:  10 * time.Second,
		DownloadTimeout: 2 * time.Minute,
		RedialInitial:   InitialRedialDelay,
		RedialMax:       MaxRedialDelay,
	}
}

func (c ClientConfig) withDefaults() ClientConfig {
	d := DefaultClientConfig(c.Address)
	if c.Connection.MaxMessageSize == 0 && c.Connection.CloseTimeout == 0 {
		c.Connection = d.Connection
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = d.ConnectTimeout
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = d.RequestTimeout
	}
	if c.DownloadTimeout <= 0 {
		c.DownloadTimeout = d.DownloadTimeout
	}
	if c.EventLogger != nil {
		c.Connection.Logger = c.EventLogger
	}
	return c
}

// Client is a connection to a bridge. It correlates responses with
// requests by message id and routes notifications to the remote drivers.
type Client struct {
	config ClientConfig
	conn   *transport.Connection

	nextMsgID atomic.Uint32

	pendingMu sync.Mutex
	pending   map[uint32]chan *wire.Response

	driversMu sync.RWMutex
	drivers   map[string]*Driver

	closeOnce sync.Once
	done      chan struct{}
}

// Dial connects to the bridge at config.Address.
func Dial(ctx context.Context, config ClientConfig) (*Client, error) {
	config = config.withDefaults()
	c := &Client{
		config:  config,
		pending: make(map[uint32]chan *wire.Response),
		drivers: make(map[string]*Driver),
		done:    make(chan struct{}),
	}
	c.conn = transport.NewConnection(config.Connection, c)

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.ConnectTimeout)
		defer cancel()
	}
	if err := c.conn.Connect(ctx, config.Address); err != nil {
		return nil, fmt.Errorf("bridge %s: %w", config.Address, err)
	}
	return c, nil
}

// Address returns the bridge address.
func (c *Client) Address() string {
	return c.config.Address
}

// Done is closed when the connection to the bridge is lost or closed.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Closed reports whether the client can no longer send requests.
func (c *Client) Closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Close closes the connection. Pending requests fail with ErrClientClosed.
func (c *Client) Close() error {
	err := c.conn.Close()
	c.shutdown()
	return err
}

func (c *Client) shutdown() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// Enumerate lists the devices of the bridge.
func (c *Client) Enumerate(ctx context.Context) ([]backend.Descriptor, error) {
	var descs []backend.Descriptor
	if err := c.Call(ctx, wire.OpEnumerate, "", nil, &descs); err != nil {
		return nil, err
	}
	return descs, nil
}

// Call sends a request and decodes the response payload into result.
// A nil result discards the payload. Failed responses are returned as
// errors; backend failures keep their *backend.Error code.
func (c *Client) Call(ctx context.Context, op wire.Operation, device string, payload, result any) error {
	resp, err := c.roundTrip(ctx, op, device, payload)
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return resp.Err()
	}
	if result == nil {
		return nil
	}
	if err := resp.DecodePayload(result); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, op wire.Operation, device string, payload any) (*wire.Response, error) {
	if c.Closed() {
		return nil, ErrClientClosed
	}

	raw, err := wire.EncodePayload(payload)
	if err != nil {
		return nil, err
	}
	req := &wire.Request{
		MessageID: c.nextMessageID(),
		Operation: op,
		Device:    device,
		Payload:   raw,
	}
	data, err := wire.EncodeRequest(req)
	if err != nil {
		return nil, err
	}

	respCh := make(chan *wire.Response, 1)
	c.pendingMu.Lock()
	c.pending[req.MessageID] = respCh
	c.pendingMu.Unlock()
	defer func() {
		c.pendingMu.Lock()
		delete(c.pending, req.MessageID)
		c.pendingMu.Unlock()
	}()

	if err := c.conn.Send(data); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	timeout := c.config.RequestTimeout
	if op == wire.OpDownload {
		timeout = c.config.DownloadTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case resp := <-respCh:
		return resp, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, fmt.Errorf("%s: %w", op, ErrRequestTimeout)
	case <-c.done:
		return nil, ErrClientClosed
	}
}

// nextMessageID skips the id reserved for notifications.
func (c *Client) nextMessageID() uint32 {
	for {
		if id := c.nextMsgID.Add(1); id != wire.NotificationMessageID {
			return id
		}
	}
}

func (c *Client) attach(d *Driver) {
	c.driversMu.Lock()
	defer c.driversMu.Unlock()
	c.drivers[d.device] = d
}

func (c *Client) detach(d *Driver) {
	c.driversMu.Lock()
	defer c.driversMu.Unlock()
	if c.drivers[d.device] == d {
		delete(c.drivers, d.device)
	}
}

// OnMessage implements transport.ConnectionHandler.
func (c *Client) OnMessage(data []byte) {
	typ, err := wire.PeekMessageType(data)
	if err != nil {
		c.debug("dropping invalid message", slog.String("error", err.Error()))
		return
	}

	switch typ {
	case wire.MessageTypeResponse:
		resp, err := wire.DecodeResponse(data)
		if err != nil {
			c.debug("dropping invalid response", slog.String("error", err.Error()))
			return
		}
		c.pendingMu.Lock()
		ch, ok := c.pending[resp.MessageID]
		c.pendingMu.Unlock()
		if !ok {
			c.debug("dropping unexpected response", slog.Any("messageID", resp.MessageID))
			return
		}
		select {
		case ch <- resp:
		default:
		}

	case wire.MessageTypeNotification:
		notif, err := wire.DecodeNotification(data)
		if err != nil {
			c.debug("dropping invalid notification", slog.String("error", err.Error()))
			return
		}
		c.driversMu.RLock()
		d := c.drivers[notif.Device]
		c.driversMu.RUnlock()
		if d != nil {
			d.notify(notif)
		}
	}
}

// OnStateChange implements transport.ConnectionHandler.
func (c *Client) OnStateChange(oldState, newState transport.ConnectionState) {
	c.debug("bridge connection state",
		slog.String("from", oldState.String()),
		slog.String("to", newState.String()))
	if newState == transport.StateDisconnected && oldState != transport.StateConnecting {
		c.shutdown()
	}
}

// OnError implements transport.ConnectionHandler.
func (c *Client) OnError(err error) {
	if c.config.Logger != nil {
		c.config.Logger.Warn("bridge connection error",
			slog.String("addr", c.config.Address),
			slog.String("error", err.Error()))
	}
}

func (c *Client) debug(msg string, attrs ...any) {
	if c.config.Logger != nil {
		c.config.Logger.Debug(msg, attrs...)
	}
}

var _ transport.ConnectionHandler = (*Client)(nil)

// Ping measures the round trip time to the bridge at address without
// opening a session.
func Ping(ctx context.Context, address string) (time.Duration, error) {
	return transport.NewClient(transport.ClientConfig{}).Ping(ctx, address)
}
