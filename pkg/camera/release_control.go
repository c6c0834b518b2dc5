package camera

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/backend"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/executor"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/log"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/property"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/subject"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/variant"
)

// RemoteReleaseControl is a remote release session on an open device.
//
// Release requests are queued on a release worker. Each request waits
// until the previous image transfer is done, then triggers the shutter on
// the device executor. The captured image is transferred when the driver
// reports it ready, so transfers of back-to-back releases never overlap.
//
// State and download events are delivered on an event goroutine of their
// own, so handlers may call back into the session.
type RemoteReleaseControl struct {
	dev    *Device
	logger *slog.Logger

	worker       *executor.Executor
	events       *executor.Executor
	transferDone *executor.Event

	propertyEvents *subject.Subject[PropertyEvent]
	stateEvents    *subject.Subject[StateEvent]
	downloadEvents *subject.Subject[DownloadEvent]

	mu         sync.Mutex
	settings   ShutterReleaseSettings
	state      ReleaseState
	bulb       *BulbRelease
	viewfinder *RemoteViewfinder
	closed     bool
}

func newReleaseControl(d *Device) *RemoteReleaseControl {
	rc := &RemoteReleaseControl{
		dev:            d,
		logger:         d.logger,
		worker:         executor.New(executor.Config{Name: d.desc.String() + "/release", Logger: d.logger}),
		events:         executor.New(executor.Config{Name: d.desc.String() + "/events", Logger: d.logger}),
		transferDone:   executor.NewEvent(true),
		propertyEvents: subject.New[PropertyEvent](d.logger),
		stateEvents:    subject.New[StateEvent](d.logger),
		downloadEvents: subject.New[DownloadEvent](d.logger),
		settings:       ShutterReleaseSettings{SaveTarget: SaveToHost},
	}
	return rc
}

// GetCapability reports whether the session supports c.
func (rc *RemoteReleaseControl) GetCapability(c ReleaseCapability) bool {
	return rc.dev.profile.releaseCapability(c)
}

// SetReleaseSettings stores the settings for the following releases and
// writes the save target to the camera.
func (rc *RemoteReleaseControl) SetReleaseSettings(s ShutterReleaseSettings) error {
	if rc.isClosed() {
		return ErrClosed
	}

	rc.mu.Lock()
	rc.settings = s
	rc.mu.Unlock()

	if _, ok := rc.saveToDescriptor(); !ok {
		return nil
	}
	return rc.dev.call(func() error {
		return rc.writeSaveTo(s.SaveTarget)
	})
}

// ReleaseSettings returns the current settings.
func (rc *RemoteReleaseControl) ReleaseSettings() ShutterReleaseSettings {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.settings
}

// EnumImageProperties lists the image property ids of the device.
func (rc *RemoteReleaseControl) EnumImageProperties() ([]uint32, error) {
	var ids []uint32
	err := rc.call(func() (err error) {
		ids, err = rc.dev.access.IDs(property.GroupImage)
		return err
	})
	return ids, err
}

// MapImagePropertyTypeToID maps a neutral property type to the backend id.
func (rc *RemoteReleaseControl) MapImagePropertyTypeToID(t property.Type) (uint32, error) {
	id, ok := rc.dev.access.ID(t)
	if !ok {
		return 0, fmt.Errorf("%w: property %s", backend.ErrUnsupportedCapability, t)
	}
	return id, nil
}

// MapShootingModeToImagePropertyValue returns the shooting mode property
// value selecting mode m.
func (rc *RemoteReleaseControl) MapShootingModeToImagePropertyValue(m ShootingMode) (variant.Variant, error) {
	desc, ok := rc.dev.profile.Table.ByType(property.TypeShootingMode)
	if !ok {
		return variant.Invalid(), fmt.Errorf("%w: property %s", backend.ErrUnsupportedCapability, property.TypeShootingMode)
	}
	raw, ok := rc.dev.profile.ShootingModes[m]
	if !ok {
		return variant.Invalid(), fmt.Errorf("%w: shooting mode %s", backend.ErrUnsupportedCapability, m)
	}
	return variant.FromUint(desc.Default.Kind(), uint64(raw))
}

// GetImageProperty reads an image property.
func (rc *RemoteReleaseControl) GetImageProperty(id uint32) (property.Value, error) {
	var v property.Value
	err := rc.call(func() (err error) {
		v, err = rc.dev.access.Value(id)
		return err
	})
	return v, err
}

// SetImageProperty writes an image property.
func (rc *RemoteReleaseControl) SetImageProperty(id uint32, v variant.Variant) error {
	err := rc.call(func() error {
		return rc.dev.access.Set(id, v)
	})
	if err == nil {
		rc.dev.capture(log.Event{
			Direction: log.DirectionOut,
			Layer:     log.LayerCamera,
			Category:  log.CategoryProperty,
			Property:  &log.PropertyEvent{ID: id, Value: &v},
		})
	}
	return err
}

// EnumImagePropertyValues lists the valid values of an image property.
func (rc *RemoteReleaseControl) EnumImagePropertyValues(id uint32) ([]variant.Variant, error) {
	var values []variant.Variant
	err := rc.call(func() (err error) {
		values, err = rc.dev.access.Enum(id)
		return err
	})
	return values, err
}

// NumAvailableShots returns the number of shots left on the card, or 0
// when the device does not report it.
func (rc *RemoteReleaseControl) NumAvailableShots() (uint32, error) {
	id, ok := rc.dev.access.ID(property.TypeAvailableShots)
	if !ok {
		return 0, nil
	}
	var shots uint32
	err := rc.call(func() error {
		v, err := rc.dev.access.Get(id)
		if err != nil {
			return err
		}
		shots, err = v.Uint32()
		return err
	})
	return shots, err
}

// SendCommand sends a generic camera command.
func (rc *RemoteReleaseControl) SendCommand(cmd CameraCommand) error {
	seq, ok := rc.dev.profile.Commands[cmd]
	if !ok || len(seq) == 0 {
		return fmt.Errorf("%w: command %s", backend.ErrUnsupportedCapability, cmd)
	}
	return rc.call(func() error {
		for _, c := range seq {
			if err := rc.dev.sendCommand(c); err != nil {
				return err
			}
		}
		return nil
	})
}

// StartViewfinder starts live view. Only one viewfinder can be active.
func (rc *RemoteReleaseControl) StartViewfinder() (Viewfinder, error) {
	if !rc.GetCapability(CapViewfinder) {
		return nil, fmt.Errorf("%w: %s", backend.ErrUnsupportedCapability, CapViewfinder)
	}

	rc.mu.Lock()
	if rc.closed {
		rc.mu.Unlock()
		return nil, ErrClosed
	}
	if rc.viewfinder != nil {
		rc.mu.Unlock()
		return nil, fmt.Errorf("%w: viewfinder", ErrAlreadyActive)
	}
	vf := newViewfinder(rc)
	rc.viewfinder = vf
	rc.mu.Unlock()

	if err := vf.open(); err != nil {
		rc.detachViewfinder(vf)
		return nil, err
	}
	return vf, nil
}

// StartBulb opens the shutter in bulb mode. Stop the returned control to
// close it again.
func (rc *RemoteReleaseControl) StartBulb() (BulbReleaseControl, error) {
	if !rc.GetCapability(CapBulbMode) {
		return nil, fmt.Errorf("%w: %s", backend.ErrUnsupportedCapability, CapBulbMode)
	}

	rc.mu.Lock()
	if rc.closed {
		rc.mu.Unlock()
		return nil, ErrClosed
	}
	if rc.bulb != nil && rc.bulb.Active() {
		rc.mu.Unlock()
		return nil, fmt.Errorf("%w: bulb release", ErrAlreadyActive)
	}
	b := newBulbRelease(rc)
	rc.bulb = b
	rc.mu.Unlock()

	if err := rc.dev.call(b.begin); err != nil {
		rc.mu.Lock()
		if rc.bulb == b {
			rc.bulb = nil
		}
		rc.mu.Unlock()
		if errors.Is(err, executor.ErrTimeout) {
			// begin is still queued; end the exposure right after it.
			if postErr := rc.dev.exec.Post(b.expire); postErr != nil {
				rc.dev.debug("ending abandoned bulb exposure failed", postErr)
			}
		}
		return nil, err
	}
	return b, nil
}

// Release triggers the shutter. It returns once the request is queued;
// progress is reported through state and download events.
func (rc *RemoteReleaseControl) Release() error {
	if rc.isClosed() {
		return ErrClosed
	}
	if err := rc.worker.Post(rc.release); err != nil {
		return ErrClosed
	}
	return nil
}

// State returns the release state. Error is kept until the next release starts.
func (rc *RemoteReleaseControl) State() ReleaseState {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.state
}

// AddPropertyEventHandler registers fn and returns its handler id.
func (rc *RemoteReleaseControl) AddPropertyEventHandler(fn func(PropertyEvent)) int {
	return rc.propertyEvents.Add(fn)
}

// RemovePropertyEventHandler unregisters a handler.
func (rc *RemoteReleaseControl) RemovePropertyEventHandler(id int) {
	rc.propertyEvents.Remove(id)
}

// AddStateEventHandler registers fn and returns its handler id.
func (rc *RemoteReleaseControl) AddStateEventHandler(fn func(StateEvent)) int {
	return rc.stateEvents.Add(fn)
}

// RemoveStateEventHandler unregisters a handler.
func (rc *RemoteReleaseControl) RemoveStateEventHandler(id int) {
	rc.stateEvents.Remove(id)
}

// AddDownloadEventHandler registers fn and returns its handler id.
func (rc *RemoteReleaseControl) AddDownloadEventHandler(fn func(DownloadEvent)) int {
	return rc.downloadEvents.Add(fn)
}

// RemoveDownloadEventHandler unregisters a handler.
func (rc *RemoteReleaseControl) RemoveDownloadEventHandler(id int) {
	rc.downloadEvents.Remove(id)
}

// Close ends the session. An active bulb exposure is stopped and the
// viewfinder is closed; queued releases and undelivered events are
// dropped. Must not be called from an event handler.
func (rc *RemoteReleaseControl) Close() {
	rc.mu.Lock()
	if rc.closed {
		rc.mu.Unlock()
		return
	}
	rc.closed = true
	bulb, vf := rc.bulb, rc.viewfinder
	rc.mu.Unlock()

	if bulb != nil {
		if err := bulb.Stop(); err != nil {
			rc.dev.debug("stopping bulb release failed", err)
		}
	}
	if vf != nil {
		vf.Close()
	}

	// release a worker waiting for a transfer
	rc.transferDone.Set()
	rc.worker.Shutdown()
	rc.events.Shutdown()

	rc.dev.detachRelease(rc)
	rc.propertyEvents.Clear()
	rc.stateEvents.Clear()
	rc.downloadEvents.Clear()
}

func (rc *RemoteReleaseControl) isClosed() bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.closed
}

func (rc *RemoteReleaseControl) call(fn func() error) error {
	if rc.isClosed() {
		return ErrClosed
	}
	return rc.dev.callOpen(fn)
}

func (rc *RemoteReleaseControl) detachViewfinder(vf *RemoteViewfinder) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.viewfinder == vf {
		rc.viewfinder = nil
	}
}

// release runs on the release worker.
func (rc *RemoteReleaseControl) release() {
	ctx, cancel := context.WithTimeout(context.Background(), rc.dev.config.TransferTimeout)
	err := rc.transferDone.Wait(ctx)
	cancel()
	if err != nil && rc.logger != nil {
		rc.logger.Warn("previous image transfer did not finish", slog.String("session", rc.dev.id))
	}
	if rc.isClosed() {
		return
	}

	rc.transferDone.Reset()
	rc.setState(ReleaseReleasing, "")

	settings := rc.ReleaseSettings()
	err = rc.dev.call(func() error {
		if _, ok := rc.saveToDescriptor(); ok {
			if err := rc.writeSaveTo(settings.SaveTarget); err != nil {
				return err
			}
		}
		return rc.dev.locked(rc.dev.driver.TriggerRelease)
	})
	if err != nil {
		rc.fail(StateReleaseError, backend.CodeOf(err), err)
	}
}

// handleEvent runs on the mailbox goroutine.
func (rc *RemoteReleaseControl) handleEvent(ev backend.Event) {
	switch ev.Kind {
	case backend.EventPropertyChanged, backend.EventPropertyDescChanged:
		pe := PropertyEvent{Kind: PropertyChanged, ID: ev.PropertyID}
		if ev.Kind == backend.EventPropertyDescChanged {
			pe.Kind = PropertyDescChanged
		}
		if pe.ID == backend.PropertyIDUnknown {
			pe.ID = 0
		}
		rc.propertyEvents.Call(pe)

	case backend.EventObjectReady:
		rc.setState(ReleaseTransferring, "")
		obj := ev.Object
		if err := rc.dev.exec.Post(func() { rc.transfer(obj) }); err != nil {
			rc.transferDone.Set()
		}

	case backend.EventReleaseFailed:
		rc.fail(StateReleaseError, ev.Value, fmt.Errorf("release failed: code 0x%08x", ev.Value))

	case backend.EventShutdown:
		rc.notifyState(StateEvent{Kind: StateCameraShutdown})
	case backend.EventRotation:
		rc.notifyState(StateEvent{Kind: StateRotationAngle, Value: ev.Value})
	case backend.EventCardSlotOpen:
		rc.notifyState(StateEvent{Kind: StateMemoryCardSlotOpen})
	case backend.EventBulbExposureTime:
		rc.notifyState(StateEvent{Kind: StateBulbExposureTime, Value: ev.Value})
	case backend.EventInternalError:
		rc.notifyState(StateEvent{Kind: StateInternalError, Value: ev.Value})
	}
}

// transfer runs on the device executor.
func (rc *RemoteReleaseControl) transfer(obj backend.ObjectInfo) {
	defer rc.transferDone.Set()

	d := rc.dev
	settings := rc.ReleaseSettings()

	if settings.SaveTarget == SaveToCamera {
		err := d.locked(func() error { return d.driver.CancelDownload(obj) })
		if err != nil {
			d.debug("cancel download failed", err)
		}
		rc.setState(ReleaseIdle, "stored on camera")
		return
	}

	path := rc.targetPath(settings.Filename, obj.Name)
	f, err := os.Create(path)
	if err != nil {
		_ = d.locked(func() error { return d.driver.CancelDownload(obj) })
		rc.fail(StateInternalError, backend.CodeInternalError, err)
		return
	}

	rc.download(DownloadEvent{Kind: DownloadStarted, Object: obj, Filename: path})

	err = d.locked(func() error {
		return d.driver.Download(obj, f, func(percent uint) {
			rc.download(DownloadEvent{Kind: DownloadInProgress, Object: obj, Percent: percent, Filename: path})
		})
	})
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		rc.fail(StateInternalError, backend.CodeOf(err), fmt.Errorf("download %s: %w", obj.Name, err))
		return
	}

	rc.download(DownloadEvent{Kind: DownloadFinished, Object: obj, Percent: 100, Filename: path})

	if settings.OnFinishedTransfer != nil {
		settings.Filename = path
		rc.notify(func() { settings.OnFinishedTransfer(settings) })
	}
	rc.setState(ReleaseIdle, "")
}

func (rc *RemoteReleaseControl) targetPath(name, object string) string {
	if name == "" {
		return filepath.Join(rc.dev.config.DownloadDir, object)
	}
	if strings.HasSuffix(name, string(os.PathSeparator)) {
		return filepath.Join(name, object)
	}
	if fi, err := os.Stat(name); err == nil && fi.IsDir() {
		return filepath.Join(name, object)
	}
	return name
}

func (rc *RemoteReleaseControl) download(ev DownloadEvent) {
	rc.dev.capture(log.Event{
		Direction: log.DirectionIn,
		Layer:     log.LayerCamera,
		Category:  log.CategoryDownload,
		Download: &log.DownloadEvent{
			Kind:     ev.Kind.String(),
			Object:   ev.Object.Name,
			Percent:  ev.Percent,
			Filename: ev.Filename,
		},
	})
	rc.notify(func() { rc.downloadEvents.Call(ev) })
}

// notify queues fn on the event goroutine. Events posted after Close are
// dropped.
func (rc *RemoteReleaseControl) notify(fn func()) {
	if err := rc.events.Post(fn); err != nil && rc.logger != nil {
		rc.logger.Debug("dropping event of closed release control", slog.String("session", rc.dev.id))
	}
}

func (rc *RemoteReleaseControl) notifyState(ev StateEvent) {
	rc.notify(func() { rc.stateEvents.Call(ev) })
}

// fail enters the Error state, reports the state event and unblocks the
// next release.
func (rc *RemoteReleaseControl) fail(kind StateEventKind, code uint32, err error) {
	rc.setState(ReleaseError, err.Error())
	rc.notifyState(StateEvent{Kind: kind, Value: code})
	rc.transferDone.Set()

	if rc.logger != nil {
		rc.logger.Warn("release failed",
			slog.String("session", rc.dev.id),
			slog.String("event", kind.String()),
			slog.String("error", err.Error()))
	}
}

func (rc *RemoteReleaseControl) setState(s ReleaseState, reason string) {
	rc.mu.Lock()
	old := rc.state
	rc.state = s
	rc.mu.Unlock()

	if old == s {
		return
	}
	rc.dev.capture(log.Event{
		Layer:    log.LayerCamera,
		Category: log.CategoryRelease,
		Release:  &log.ReleaseStateEvent{OldState: old.String(), NewState: s.String(), Reason: reason},
	})
}

func (rc *RemoteReleaseControl) saveToDescriptor() (property.Descriptor, bool) {
	desc, ok := rc.dev.profile.Table.ByType(property.TypeSaveTo)
	if !ok || !desc.Access.Has(backend.AccessWrite) {
		return property.Descriptor{}, false
	}
	return desc, true
}

// writeSaveTo runs on the device executor.
func (rc *RemoteReleaseControl) writeSaveTo(t SaveTarget) error {
	desc, ok := rc.saveToDescriptor()
	if !ok {
		return nil
	}
	v, err := variant.FromUint(desc.Default.Kind(), uint64(rc.dev.profile.saveToValue(t)))
	if err != nil {
		return fmt.Errorf("save target %s: %w", t, err)
	}
	if err := rc.dev.access.Set(desc.ID, v); err != nil {
		return fmt.Errorf("save target %s: %w", t, err)
	}
	return nil
}

// sendCommand runs on the device executor.
func (d *Device) sendCommand(cmd backend.Command) error {
	err := d.locked(func() error { return d.driver.SendCommand(cmd, 0) })
	if err != nil {
		return fmt.Errorf("command %s: %w", cmd, err)
	}
	return nil
}
