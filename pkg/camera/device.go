package camera

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/backend"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/executor"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/log"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/property"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/variant"
)

// Device is an open camera session. All driver calls run on the device
// executor; driver events are delivered through the device mailbox.
type Device struct {
	id      string
	desc    backend.Descriptor
	profile *Profile
	driver  backend.Driver
	info    backend.DeviceInfo
	config  Config
	logger  *slog.Logger

	exec    *executor.Executor
	lock    sync.Mutex
	access  *property.Access
	mailbox *mailbox

	mu      sync.Mutex
	release *RemoteReleaseControl
	closed  bool
}

func openDevice(ctx context.Context, config Config, desc backend.Descriptor, profile *Profile, driver backend.Driver) (*Device, error) {
	d := &Device{
		id:      uuid.New().String(),
		desc:    desc,
		profile: profile,
		driver:  driver,
		config:  config,
		logger:  config.Logger,
	}
	d.exec = executor.New(executor.Config{Name: desc.String(), Logger: config.Logger})
	d.mailbox = newMailbox(d.handleEvent)

	err := d.exec.Do(ctx, func() error {
		if err := driver.Open(); err != nil {
			return err
		}
		driver.RegisterEventCallback(d.mailbox.push)
		d.info = driver.Info()
		return nil
	})
	if err != nil {
		d.mailbox.close()
		d.exec.Shutdown()
		return nil, fmt.Errorf("open %s: %w", desc, err)
	}

	model := d.info.Model
	if model == "" {
		model = desc.Model
	}
	d.access = property.NewAccess(property.AccessConfig{
		Driver:    driver,
		Table:     profile.Table,
		Quirks:    config.Quirks,
		Model:     model,
		Lock:      &d.lock,
		EnumLimit: config.EnumLimit,
		Logger:    config.Logger,
	})

	if d.logger != nil {
		d.logger.Info("device opened",
			slog.String("session", d.id),
			slog.String("device", desc.String()),
			slog.String("model", model),
			slog.String("profile", profile.Name))
	}
	return d, nil
}

// ID returns the session id.
func (d *Device) ID() string {
	return d.id
}

// Descriptor returns the descriptor the device was opened with.
func (d *Device) Descriptor() backend.Descriptor {
	return d.desc
}

// Profile returns the device profile.
func (d *Device) Profile() *Profile {
	return d.profile
}

// ModelName returns the camera model name.
func (d *Device) ModelName() string {
	if d.info.Model != "" {
		return d.info.Model
	}
	return d.desc.Model
}

// SerialNumber returns the camera serial number.
func (d *Device) SerialNumber() string {
	if d.info.Serial != "" {
		return d.info.Serial
	}
	return d.desc.Serial
}

// Capability reports whether the device supports c.
func (d *Device) Capability(c SourceCapability) bool {
	return d.profile.sourceCapability(c)
}

// EnumDeviceProperties lists the device property ids.
func (d *Device) EnumDeviceProperties() ([]uint32, error) {
	var ids []uint32
	err := d.callOpen(func() (err error) {
		ids, err = d.access.IDs(property.GroupDevice)
		return err
	})
	return ids, err
}

// GetDeviceProperty reads a device property.
func (d *Device) GetDeviceProperty(id uint32) (property.Value, error) {
	var v property.Value
	err := d.callOpen(func() (err error) {
		v, err = d.access.Value(id)
		return err
	})
	return v, err
}

// PropertyName returns the display name of a property.
func (d *Device) PropertyName(id uint32) string {
	return d.access.Name(id)
}

// DisplayText renders a property value as text.
func (d *Device) DisplayText(id uint32, v variant.Variant) string {
	return d.access.DisplayText(id, v)
}

// EnterReleaseControl starts a remote release control session. Only one
// session can be active per device.
func (d *Device) EnterReleaseControl() (ReleaseControl, error) {
	if !d.Capability(CapRemoteReleaseControl) {
		return nil, fmt.Errorf("%w: %s", backend.ErrUnsupportedCapability, CapRemoteReleaseControl)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, ErrClosed
	}
	if d.release != nil {
		return nil, fmt.Errorf("%w: release control", ErrAlreadyActive)
	}
	d.release = newReleaseControl(d)
	return d.release, nil
}

// Close ends the release control session, closes the driver on the
// executor and stops the executor. Failures are logged, not returned.
func (d *Device) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	rc := d.release
	d.mu.Unlock()

	if rc != nil {
		rc.Close()
	}

	err := d.call(func() error {
		d.driver.RegisterEventCallback(nil)
		return d.driver.Close()
	})
	if err != nil {
		d.debug("closing driver failed", err)
	}

	d.mailbox.close()
	d.exec.Shutdown()

	if d.logger != nil {
		d.logger.Info("device closed", slog.String("session", d.id))
	}
}

func (d *Device) isClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

func (d *Device) detachRelease(rc *RemoteReleaseControl) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.release == rc {
		d.release = nil
	}
}

func (d *Device) currentRelease() *RemoteReleaseControl {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.release
}

// callOpen is call for public entry points.
func (d *Device) callOpen(fn func() error) error {
	if d.isClosed() {
		return ErrClosed
	}
	return d.call(fn)
}

// call runs fn on the device executor, bounded by CommandTimeout. Failed
// calls are captured in the event log.
func (d *Device) call(fn func() error) error {
	ctx, cancel := context.WithTimeout(context.Background(), d.config.CommandTimeout)
	defer cancel()

	err := d.exec.Do(ctx, fn)
	if errors.Is(err, executor.ErrStopped) {
		return ErrClosed
	}
	if err != nil {
		d.captureError(layerOf(err), "call", err)
	}
	return err
}

// handleEvent runs on the mailbox goroutine.
func (d *Device) handleEvent(ev backend.Event) {
	d.captureDriverEvent(ev)

	if rc := d.currentRelease(); rc != nil {
		rc.handleEvent(ev)
		return
	}

	if ev.Kind == backend.EventObjectReady {
		// nobody will download it
		obj := ev.Object
		err := d.exec.Post(func() {
			err := d.locked(func() error { return d.driver.CancelDownload(obj) })
			if err != nil {
				d.debug("cancel unclaimed object failed", err)
			}
		})
		if err != nil {
			d.debug("cancel unclaimed object failed", err)
		}
	}
}

// locked runs one driver call under the device lock.
func (d *Device) locked(fn func() error) error {
	d.lock.Lock()
	defer d.lock.Unlock()
	return fn()
}

func (d *Device) debug(msg string, err error) {
	if d.logger != nil {
		d.logger.Debug(msg, slog.String("session", d.id), slog.String("error", err.Error()))
	}
}

func (d *Device) capture(e log.Event) {
	e.Timestamp = time.Now()
	e.SessionID = d.id
	e.Model = d.ModelName()
	e.Serial = d.SerialNumber()
	d.config.EventLogger.Log(e)
}

func (d *Device) captureError(layer log.Layer, op string, err error) {
	var code *uint32
	var be *backend.Error
	if errors.As(err, &be) {
		c := be.Code
		code = &c
		op = be.Op
	}
	d.capture(log.Event{
		Direction: log.DirectionOut,
		Layer:     layer,
		Category:  log.CategoryError,
		Error:     &log.ErrorEventData{Layer: layer, Message: err.Error(), Code: code, Op: op},
	})
}

func (d *Device) captureDriverEvent(ev backend.Event) {
	e := log.Event{Direction: log.DirectionIn, Layer: log.LayerDriver}
	switch ev.Kind {
	case backend.EventPropertyChanged, backend.EventPropertyDescChanged:
		e.Category = log.CategoryProperty
		e.Property = &log.PropertyEvent{
			ID:   ev.PropertyID,
			Desc: ev.Kind == backend.EventPropertyDescChanged,
		}
	case backend.EventObjectReady:
		e.Category = log.CategoryDownload
		e.Download = &log.DownloadEvent{Kind: ev.Kind.String(), Object: ev.Object.Name}
	default:
		e.Category = log.CategoryState
		e.State = &log.StateEvent{Kind: ev.Kind.String(), Value: ev.Value}
	}
	d.capture(e)
}

// layerOf classifies where err originated: backend errors come from the
// driver, everything else from the camera layer.
func layerOf(err error) log.Layer {
	var be *backend.Error
	if errors.As(err, &be) {
		return log.LayerDriver
	}
	return log.LayerCamera
}
