// Package sim provides a simulated camera driver.
//
// The simulator echoes property writes, reports events from its own
// goroutine like a vendor SDK thread, produces a captured object a short
// time after each shutter release and renders JPEG live-view frames with
// matching histograms. Failures can be injected per operation.
package sim

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/backend"
)

// Component is the component name reported in backend errors.
const Component = "sim"

// Property describes one simulated device property.
type Property struct {
	ID     uint32
	Access backend.Access

	// Value is the initial raw value.
	Value []byte

	// Values are the raw values returned by enumeration.
	Values [][]byte

	// EnumCount overrides the advertised cursor count when non-zero.
	EnumCount int

	// EnumErr is returned by EnumerateProperty when set.
	EnumErr error
}

// Config configures a simulated camera.
type Config struct {
	Info       backend.DeviceInfo
	Properties []Property

	// LiveViewProperty is the id of the live-view output property. When
	// non-zero, frames are only produced while LiveViewPCBit is set in it.
	LiveViewProperty uint32
	LiveViewPCBit    uint32

	// ReleaseDelay is the time between TriggerRelease and object ready.
	ReleaseDelay time.Duration

	// TransferStep is the pause between download progress steps.
	TransferStep time.Duration

	// FrameWidth and FrameHeight size the live-view frames.
	FrameWidth  int
	FrameHeight int

	// Logger receives driver call traces. If nil, logging is disabled.
	Logger *slog.Logger
}

// DefaultConfig returns a camera with no properties and short delays.
func DefaultConfig() Config {
	return Config{
		Info:         backend.DeviceInfo{Vendor: "Simulated", Model: "Sim Camera", Serial: "0000001"},
		ReleaseDelay: 10 * time.Millisecond,
		TransferStep: time.Millisecond,
		FrameWidth:   160,
		FrameHeight:  120,
	}
}

// CommandCall records one SendCommand invocation.
type CommandCall struct {
	Cmd   backend.Command
	Param int32
}

type propState struct {
	Property
	value []byte
}

// Driver is a simulated camera implementing backend.Driver.
type Driver struct {
	config Config
	logger *slog.Logger

	mu       sync.Mutex
	props    map[uint32]*propState
	order    []uint32
	callback func(backend.Event)
	failures map[string]error
	commands []CommandCall
	objects  map[uint32][]byte

	open        bool
	nextHandle  uint32
	captureFail uint32
	downloaded  []backend.ObjectInfo
	cancelled   []backend.ObjectInfo
	frameNo     int
	histograms  [4][]byte
	bulbStarted time.Time
	uiLocked    bool

	events chan []backend.Event
	quit   chan struct{}
	wg     sync.WaitGroup

	idleCalls atomic.Int64
}

// New creates a simulated driver.
func New(config Config) *Driver {
	d := &Driver{
		config:   config,
		logger:   config.Logger,
		props:    make(map[uint32]*propState),
		failures: make(map[string]error),
		objects:  make(map[uint32][]byte),
	}
	if d.config.FrameWidth <= 0 {
		d.config.FrameWidth = 160
	}
	if d.config.FrameHeight <= 0 {
		d.config.FrameHeight = 120
	}
	for _, p := range config.Properties {
		d.props[p.ID] = &propState{Property: p, value: slices.Clone(p.Value)}
		d.order = append(d.order, p.ID)
	}
	return d
}

// SetFailure makes every call of op (a Driver method name) fail with err
// until cleared with a nil err.
func (d *Driver) SetFailure(op string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err == nil {
		delete(d.failures, op)
		return
	}
	d.failures[op] = err
}

// FailNextCapture makes the next shutter release report a release failure
// with the given code instead of an object.
func (d *Driver) FailNextCapture(code uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.captureFail = code
}

// Emit delivers events to the registered callback from the driver's event
// goroutine, in one burst.
func (d *Driver) Emit(events ...backend.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.emitLocked(events...)
}

// Commands returns the commands sent so far.
func (d *Driver) Commands() []CommandCall {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.commands)
}

// Downloaded returns the objects transferred so far.
func (d *Driver) Downloaded() []backend.ObjectInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.downloaded)
}

// Cancelled returns the objects discarded with CancelDownload.
func (d *Driver) Cancelled() []backend.ObjectInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.cancelled)
}

// UILocked reports whether the camera UI is locked.
func (d *Driver) UILocked() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.uiLocked
}

// IsOpen reports whether the session is open.
func (d *Driver) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}

// IdleCalls returns the number of Idle calls.
func (d *Driver) IdleCalls() int {
	return int(d.idleCalls.Load())
}

// RawValue returns the stored bytes of a property.
func (d *Driver) RawValue(id uint32) ([]byte, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.props[id]
	if !ok {
		return nil, false
	}
	return slices.Clone(p.value), true
}

// Open implements backend.Driver.
func (d *Driver) Open() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.failures["Open"]; err != nil {
		return err
	}
	if d.open {
		return nil
	}
	d.open = true
	d.events = make(chan []backend.Event, 64)
	d.quit = make(chan struct{})

	d.wg.Add(1)
	go d.eventLoop(d.events, d.quit)

	d.trace("Open")
	return nil
}

// Close implements backend.Driver.
func (d *Driver) Close() error {
	d.mu.Lock()
	if !d.open {
		d.mu.Unlock()
		return nil
	}
	d.open = false
	close(d.quit)
	err := d.failures["Close"]
	d.mu.Unlock()

	d.wg.Wait()
	d.trace("Close")
	return err
}

// Info implements backend.Driver.
func (d *Driver) Info() backend.DeviceInfo {
	return d.config.Info
}

// PropertyIDs implements backend.Driver.
func (d *Driver) PropertyIDs() ([]uint32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.failures["PropertyIDs"]; err != nil {
		return nil, err
	}
	return slices.Clone(d.order), nil
}

// PropertyInfos implements backend.Driver.
func (d *Driver) PropertyInfos() ([]backend.PropertyInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.failures["PropertyInfos"]; err != nil {
		return nil, err
	}
	infos := make([]backend.PropertyInfo, 0, len(d.order))
	for _, id := range d.order {
		p := d.props[id]
		infos = append(infos, backend.PropertyInfo{ID: id, Access: p.Access, Size: len(p.value)})
	}
	return infos, nil
}

// GetProperty implements backend.Driver.
func (d *Driver) GetProperty(id uint32) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.failures["GetProperty"]; err != nil {
		return nil, err
	}
	p, ok := d.props[id]
	if !ok {
		return nil, backend.NewError(Component, "GetProperty", backend.CodeInvalidParameter)
	}
	if !p.Access.Has(backend.AccessRead) {
		return nil, backend.NewError(Component, "GetProperty", backend.CodeNotSupported)
	}
	return slices.Clone(p.value), nil
}

// SetProperty implements backend.Driver. Writes are echoed back by later
// reads and reported with a property-changed event.
func (d *Driver) SetProperty(id uint32, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.failures["SetProperty"]; err != nil {
		return err
	}
	p, ok := d.props[id]
	if !ok {
		return backend.NewError(Component, "SetProperty", backend.CodeInvalidParameter)
	}
	if !p.Access.Has(backend.AccessWrite) {
		return backend.NewError(Component, "SetProperty", backend.CodeNotSupported)
	}
	p.value = slices.Clone(data)
	d.trace("SetProperty", slog.Any("id", id), slog.Int("len", len(data)))

	d.emitLocked(backend.Event{Kind: backend.EventPropertyChanged, PropertyID: id})
	return nil
}

// EnumerateProperty implements backend.Driver.
func (d *Driver) EnumerateProperty(id uint32) (backend.Cursor, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.failures["EnumerateProperty"]; err != nil {
		return nil, err
	}
	p, ok := d.props[id]
	if !ok {
		return nil, backend.NewError(Component, "EnumerateProperty", backend.CodeInvalidParameter)
	}
	if p.EnumErr != nil {
		return nil, p.EnumErr
	}
	if !p.Access.Has(backend.AccessEnum) {
		return nil, backend.NewError(Component, "EnumerateProperty", backend.CodeNotSupported)
	}

	values := make([][]byte, len(p.Values))
	for i, v := range p.Values {
		values[i] = slices.Clone(v)
	}
	count := len(values)
	if p.EnumCount != 0 {
		count = p.EnumCount
	}
	return backend.NewSliceCursor(values, count), nil
}

// RegisterEventCallback implements backend.Driver.
func (d *Driver) RegisterEventCallback(fn func(backend.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.callback = fn
}

// TriggerRelease implements backend.Driver.
func (d *Driver) TriggerRelease() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.failures["TriggerRelease"]; err != nil {
		return err
	}

	if code := d.captureFail; code != 0 {
		d.captureFail = 0
		time.AfterFunc(d.config.ReleaseDelay, func() {
			d.Emit(backend.Event{Kind: backend.EventReleaseFailed, Value: code})
		})
		return nil
	}

	d.nextHandle++
	handle := d.nextHandle
	data, err := renderJPEG(d.config.FrameWidth*2, d.config.FrameHeight*2, int(handle))
	if err != nil {
		return backend.NewError(Component, "TriggerRelease", backend.CodeInternalError)
	}
	d.objects[handle] = data
	obj := backend.ObjectInfo{
		Handle: handle,
		Name:   fmt.Sprintf("IMG_%04d.JPG", handle),
		Size:   int64(len(data)),
	}
	d.trace("TriggerRelease", slog.Any("handle", handle))

	time.AfterFunc(d.config.ReleaseDelay, func() {
		d.Emit(backend.Event{Kind: backend.EventObjectReady, Object: obj})
	})
	return nil
}

// SendCommand implements backend.Driver.
func (d *Driver) SendCommand(cmd backend.Command, param int32) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.failures["SendCommand"]; err != nil {
		return err
	}
	if err := d.failures["SendCommand:"+cmd.String()]; err != nil {
		return err
	}
	d.commands = append(d.commands, CommandCall{Cmd: cmd, Param: param})
	d.trace("SendCommand", slog.String("cmd", cmd.String()), slog.Any("param", param))

	switch cmd {
	case backend.CommandUILock:
		d.uiLocked = true
	case backend.CommandUIUnlock:
		d.uiLocked = false
	case backend.CommandBulbStart:
		d.bulbStarted = time.Now()
	case backend.CommandBulbEnd:
		if !d.bulbStarted.IsZero() {
			secs := uint32(time.Since(d.bulbStarted) / time.Second)
			d.bulbStarted = time.Time{}
			d.emitLocked(backend.Event{Kind: backend.EventBulbExposureTime, Value: secs})
		}
	}
	return nil
}

// Download implements backend.Driver.
func (d *Driver) Download(obj backend.ObjectInfo, w io.Writer, progress func(uint)) error {
	d.mu.Lock()
	if err := d.failures["Download"]; err != nil {
		d.mu.Unlock()
		return err
	}
	data, ok := d.objects[obj.Handle]
	delete(d.objects, obj.Handle)
	step := d.config.TransferStep
	d.mu.Unlock()

	if !ok {
		return backend.NewError(Component, "Download", backend.CodeInvalidParameter)
	}

	const chunks = 10
	r := bytes.NewReader(data)
	chunk := (len(data) + chunks - 1) / chunks
	for i := 1; i <= chunks; i++ {
		if _, err := io.CopyN(w, r, int64(chunk)); err != nil && err != io.EOF {
			return fmt.Errorf("download %s: %w", obj.Name, err)
		}
		if progress != nil {
			progress(uint(i * 100 / chunks))
		}
		if step > 0 {
			time.Sleep(step)
		}
	}

	d.mu.Lock()
	d.downloaded = append(d.downloaded, obj)
	d.mu.Unlock()
	return nil
}

// CancelDownload implements backend.Driver.
func (d *Driver) CancelDownload(obj backend.ObjectInfo) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.failures["CancelDownload"]; err != nil {
		return err
	}
	delete(d.objects, obj.Handle)
	d.cancelled = append(d.cancelled, obj)
	return nil
}

// PollLiveViewFrame implements backend.Driver.
func (d *Driver) PollLiveViewFrame() ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.failures["PollLiveViewFrame"]; err != nil {
		return nil, err
	}
	if !d.liveViewEnabledLocked() {
		return nil, backend.ErrNotAvailable
	}

	d.frameNo++
	img := renderFrame(d.config.FrameWidth, d.config.FrameHeight, d.frameNo)
	data, err := encodeJPEG(img)
	if err != nil {
		return nil, backend.NewError(Component, "PollLiveViewFrame", backend.CodeInternalError)
	}
	d.histograms = computeHistograms(img)
	return data, nil
}

// ReadHistogram implements backend.Driver.
func (d *Driver) ReadHistogram(ch backend.HistogramChannel) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.failures["ReadHistogram"]; err != nil {
		return nil, err
	}
	if int(ch) >= len(d.histograms) || d.histograms[ch] == nil {
		return nil, backend.ErrNotAvailable
	}
	return slices.Clone(d.histograms[ch]), nil
}

// Idle implements backend.Driver.
func (d *Driver) Idle() {
	d.idleCalls.Add(1)
}

func (d *Driver) liveViewEnabledLocked() bool {
	if d.config.LiveViewProperty == 0 {
		return true
	}
	p, ok := d.props[d.config.LiveViewProperty]
	if !ok {
		return false
	}
	return decodeUint(p.value)&d.config.LiveViewPCBit != 0
}

func (d *Driver) emitLocked(events ...backend.Event) {
	if !d.open || len(events) == 0 {
		return
	}
	select {
	case d.events <- slices.Clone(events):
	default:
		if d.logger != nil {
			d.logger.Warn("sim: event queue full, dropping events", slog.Int("count", len(events)))
		}
	}
}

func (d *Driver) eventLoop(events <-chan []backend.Event, quit <-chan struct{}) {
	defer d.wg.Done()

	for {
		select {
		case <-quit:
			return
		case batch := <-events:
			d.mu.Lock()
			fn := d.callback
			d.mu.Unlock()
			if fn == nil {
				continue
			}
			for _, ev := range batch {
				fn(ev)
			}
		}
	}
}

func (d *Driver) trace(op string, attrs ...slog.Attr) {
	if d.logger == nil {
		return
	}
	args := make([]any, 0, len(attrs)+1)
	args = append(args, slog.String("op", op))
	for _, a := range attrs {
		args = append(args, a)
	}
	d.logger.Debug("sim driver call", args...)
}

func decodeUint(b []byte) uint32 {
	var v uint32
	for i := min(len(b), 4) - 1; i >= 0; i-- {
		v = v<<8 | uint32(b[i])
	}
	return v
}

var _ backend.Driver = (*Driver)(nil)
