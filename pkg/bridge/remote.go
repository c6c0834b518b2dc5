package bridge

import (
	"context"
	"fmt"
	"io"
	"maps"
	"sync"
	"time"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/backend"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/wire"
)

// ModuleName is the default name of bridge modules.
const ModuleName = "bridge"

// Descriptor attributes set by Module.Enumerate.
const (
	AttrAddress = "bridge.address"
	AttrModule  = "bridge.module"
)

// Module is a backend.Module listing the devices of one remote bridge.
// The connection is dialed on first use and redialed after it is lost;
// dials to an unreachable bridge back off exponentially.
type Module struct {
	name   string
	config ClientConfig
	redial *redialGate

	mu     sync.Mutex
	client *Client
}

// NewModule creates a module for the bridge at config.Address. An empty
// name selects ModuleName.
func NewModule(name string, config ClientConfig) *Module {
	if name == "" {
		name = ModuleName
	}
	return &Module{
		name:   name,
		config: config,
		redial: newRedialGate(config.RedialInitial, config.RedialMax),
	}
}

// Name implements backend.Module.
func (m *Module) Name() string {
	return m.name
}

// Enumerate implements backend.Module. Descriptors keep the remote id and
// profile; the remote module name moves to AttrModule.
func (m *Module) Enumerate(ctx context.Context) ([]backend.Descriptor, error) {
	client, err := m.connect(ctx)
	if err != nil {
		return nil, err
	}
	descs, err := client.Enumerate(ctx)
	if err != nil {
		return nil, err
	}

	for i := range descs {
		attrs := maps.Clone(descs[i].Attrs)
		if attrs == nil {
			attrs = make(map[string]string)
		}
		attrs[AttrModule] = descs[i].Module
		attrs[AttrAddress] = client.Address()
		descs[i].Attrs = attrs
		descs[i].Module = m.name
	}
	return descs, nil
}

// NewDriver implements backend.Module.
func (m *Module) NewDriver(desc backend.Descriptor) (backend.Driver, error) {
	client, err := m.connect(context.Background())
	if err != nil {
		return nil, err
	}
	return NewDriver(client, desc.ID), nil
}

// Close closes the bridge connection.
func (m *Module) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.client == nil {
		return nil
	}
	err := m.client.Close()
	m.client = nil
	return err
}

func (m *Module) connect(ctx context.Context) (*Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client != nil && !m.client.Closed() {
		return m.client, nil
	}
	if err := m.redial.allow(time.Now()); err != nil {
		return nil, err
	}
	client, err := Dial(ctx, m.config)
	if err != nil {
		m.redial.failed(err, time.Now())
		return nil, err
	}
	m.redial.succeeded()
	m.client = client
	return client, nil
}

var _ backend.Module = (*Module)(nil)

// Driver is a backend.Driver for one device behind a bridge.
type Driver struct {
	client *Client
	device string

	mu       sync.Mutex
	info     backend.DeviceInfo
	callback func(backend.Event)
	progress func(uint)
	handle   uint32
}

// NewDriver returns an unopened driver for device id on client.
func NewDriver(client *Client, id string) *Driver {
	return &Driver{client: client, device: id}
}

func (d *Driver) call(op wire.Operation, payload, result any) error {
	return d.client.Call(context.Background(), op, d.device, payload, result)
}

// Open implements backend.Driver.
func (d *Driver) Open() error {
	d.client.attach(d)
	var info backend.DeviceInfo
	if err := d.call(wire.OpOpen, nil, &info); err != nil {
		d.client.detach(d)
		return fmt.Errorf("open %s: %w", d.device, err)
	}
	d.mu.Lock()
	d.info = info
	d.mu.Unlock()
	return nil
}

// Close implements backend.Driver.
func (d *Driver) Close() error {
	defer d.client.detach(d)
	return d.call(wire.OpClose, nil, nil)
}

// Info implements backend.Driver. It returns the identification received
// when the device was opened.
func (d *Driver) Info() backend.DeviceInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.info
}

// PropertyIDs implements backend.Driver.
func (d *Driver) PropertyIDs() ([]uint32, error) {
	var ids []uint32
	if err := d.call(wire.OpPropertyIDs, nil, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// PropertyInfos implements backend.Driver.
func (d *Driver) PropertyInfos() ([]backend.PropertyInfo, error) {
	var infos []backend.PropertyInfo
	if err := d.call(wire.OpPropertyInfos, nil, &infos); err != nil {
		return nil, err
	}
	return infos, nil
}

// GetProperty implements backend.Driver.
func (d *Driver) GetProperty(id uint32) ([]byte, error) {
	var out wire.DataPayload
	if err := d.call(wire.OpGetProperty, wire.PropertyPayload{ID: id}, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// SetProperty implements backend.Driver.
func (d *Driver) SetProperty(id uint32, data []byte) error {
	return d.call(wire.OpSetProperty, wire.PropertyPayload{ID: id, Data: data}, nil)
}

// EnumerateProperty implements backend.Driver. The bridge drains the
// remote cursor in one round trip.
func (d *Driver) EnumerateProperty(id uint32) (backend.Cursor, error) {
	var out wire.EnumeratePayload
	if err := d.call(wire.OpEnumerateProperty, wire.PropertyPayload{ID: id}, &out); err != nil {
		return nil, err
	}
	return backend.NewSliceCursor(out.Values, out.Count), nil
}

// RegisterEventCallback implements backend.Driver.
func (d *Driver) RegisterEventCallback(fn func(backend.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.callback = fn
}

// TriggerRelease implements backend.Driver.
func (d *Driver) TriggerRelease() error {
	return d.call(wire.OpTriggerRelease, nil, nil)
}

// SendCommand implements backend.Driver.
func (d *Driver) SendCommand(cmd backend.Command, param int32) error {
	return d.call(wire.OpSendCommand, wire.CommandPayload{Command: cmd, Param: param}, nil)
}

// Download implements backend.Driver. Progress arrives as notifications
// while the bridge reads the object; the data follows in the response.
func (d *Driver) Download(obj backend.ObjectInfo, w io.Writer, progress func(percent uint)) error {
	d.mu.Lock()
	d.progress, d.handle = progress, obj.Handle
	d.mu.Unlock()
	defer func() {
		d.mu.Lock()
		d.progress = nil
		d.mu.Unlock()
	}()

	var out wire.DataPayload
	if err := d.call(wire.OpDownload, obj, &out); err != nil {
		return err
	}
	if _, err := w.Write(out.Data); err != nil {
		return fmt.Errorf("download %s: %w", obj.Name, err)
	}
	return nil
}

// CancelDownload implements backend.Driver.
func (d *Driver) CancelDownload(obj backend.ObjectInfo) error {
	return d.call(wire.OpCancelDownload, obj, nil)
}

// PollLiveViewFrame implements backend.Driver.
func (d *Driver) PollLiveViewFrame() ([]byte, error) {
	var out wire.DataPayload
	if err := d.call(wire.OpPollLiveView, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// ReadHistogram implements backend.Driver.
func (d *Driver) ReadHistogram(ch backend.HistogramChannel) ([]byte, error) {
	var out wire.DataPayload
	if err := d.call(wire.OpReadHistogram, wire.HistogramPayload{Channel: ch}, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Idle implements backend.Driver. The bridge services the device's event
// loop itself, so there is nothing to pump.
func (d *Driver) Idle() {}

// notify delivers a notification from the read loop.
func (d *Driver) notify(notif *wire.Notification) {
	d.mu.Lock()
	callback := d.callback
	progress := d.progress
	handle := d.handle
	d.mu.Unlock()

	if notif.Event != nil && callback != nil {
		callback(*notif.Event)
	}
	if p := notif.Progress; p != nil && progress != nil && p.Handle == handle {
		progress(p.Percent)
	}
}

var _ backend.Driver = (*Driver)(nil)
