package sim

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"image/jpeg"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/backend"
)

const (
	propISO      = 0x0505
	propReadOnly = 0x0510
	propLiveView = 0x0520
)

func testConfig() Config {
	c := DefaultConfig()
	c.Properties = []Property{
		{
			ID:     propISO,
			Access: backend.AccessRead | backend.AccessWrite | backend.AccessEnum,
			Value:  []byte{0x48, 0x00},
			Values: [][]byte{{0x48, 0x00}, {0x50, 0x00}, {0x58, 0x00}},
		},
		{ID: propReadOnly, Access: backend.AccessRead, Value: []byte{7}},
		{ID: propLiveView, Access: backend.AccessRead | backend.AccessWrite, Value: []byte{0, 0, 0, 0}},
	}
	c.LiveViewProperty = propLiveView
	c.LiveViewPCBit = 2
	return c
}

type eventRecorder struct {
	mu     sync.Mutex
	events []backend.Event
	ch     chan backend.Event
}

func newRecorder() *eventRecorder {
	return &eventRecorder{ch: make(chan backend.Event, 32)}
}

func (r *eventRecorder) record(ev backend.Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
	r.ch <- ev
}

func (r *eventRecorder) next(t *testing.T) backend.Event {
	t.Helper()
	select {
	case ev := <-r.ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
		return backend.Event{}
	}
}

func TestSetPropertyEchoes(t *testing.T) {
	d := New(testConfig())
	require.NoError(t, d.Open())
	defer d.Close()

	rec := newRecorder()
	d.RegisterEventCallback(rec.record)

	require.NoError(t, d.SetProperty(propISO, []byte{0x90, 0x01}))

	got, err := d.GetProperty(propISO)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x90, 0x01}, got)

	ev := rec.next(t)
	assert.Equal(t, backend.EventPropertyChanged, ev.Kind)
	assert.Equal(t, uint32(propISO), ev.PropertyID)
}

func TestSetReadOnlyProperty(t *testing.T) {
	d := New(testConfig())

	err := d.SetProperty(propReadOnly, []byte{1})
	assert.True(t, backend.IsNotSupported(err))

	raw, ok := d.RawValue(propReadOnly)
	require.True(t, ok)
	assert.Equal(t, []byte{7}, raw)
}

func TestUnknownProperty(t *testing.T) {
	d := New(testConfig())

	_, err := d.GetProperty(0x9999)
	var be *backend.Error
	require.ErrorAs(t, err, &be)
	assert.Equal(t, backend.CodeInvalidParameter, be.Code)
}

func TestEnumerateProperty(t *testing.T) {
	d := New(testConfig())

	c, err := d.EnumerateProperty(propISO)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Count())

	var values [][]byte
	for {
		v, err := c.Next()
		if errors.Is(err, backend.ErrNotAvailable) {
			break
		}
		require.NoError(t, err)
		values = append(values, v)
	}
	assert.Len(t, values, 3)

	_, err = d.EnumerateProperty(propReadOnly)
	assert.True(t, backend.IsNotSupported(err))
}

func TestPropertyInfos(t *testing.T) {
	d := New(testConfig())

	infos, err := d.PropertyInfos()
	require.NoError(t, err)
	require.Len(t, infos, 3)
	assert.Equal(t, uint32(propISO), infos[0].ID)
	assert.True(t, infos[0].Access.Has(backend.AccessWrite))
	assert.False(t, infos[1].Access.Has(backend.AccessWrite))

	ids, err := d.PropertyIDs()
	require.NoError(t, err)
	assert.Equal(t, []uint32{propISO, propReadOnly, propLiveView}, ids)
}

func TestReleaseProducesObject(t *testing.T) {
	d := New(testConfig())
	require.NoError(t, d.Open())
	defer d.Close()

	rec := newRecorder()
	d.RegisterEventCallback(rec.record)

	require.NoError(t, d.TriggerRelease())
	ev := rec.next(t)
	require.Equal(t, backend.EventObjectReady, ev.Kind)
	assert.Equal(t, "IMG_0001.JPG", ev.Object.Name)

	var buf bytes.Buffer
	var progress []uint
	require.NoError(t, d.Download(ev.Object, &buf, func(p uint) { progress = append(progress, p) }))

	assert.Equal(t, ev.Object.Size, int64(buf.Len()))
	assert.Equal(t, uint(100), progress[len(progress)-1])
	_, err := jpeg.Decode(&buf)
	assert.NoError(t, err)
	assert.Equal(t, []backend.ObjectInfo{ev.Object}, d.Downloaded())
}

func TestFailNextCapture(t *testing.T) {
	d := New(testConfig())
	require.NoError(t, d.Open())
	defer d.Close()

	rec := newRecorder()
	d.RegisterEventCallback(rec.record)

	d.FailNextCapture(backend.CodeTakePictureFail)
	require.NoError(t, d.TriggerRelease())

	ev := rec.next(t)
	assert.Equal(t, backend.EventReleaseFailed, ev.Kind)
	assert.Equal(t, backend.CodeTakePictureFail, ev.Value)
}

func TestCancelDownload(t *testing.T) {
	d := New(testConfig())
	require.NoError(t, d.Open())
	defer d.Close()

	rec := newRecorder()
	d.RegisterEventCallback(rec.record)
	require.NoError(t, d.TriggerRelease())
	ev := rec.next(t)

	require.NoError(t, d.CancelDownload(ev.Object))
	assert.Error(t, d.Download(ev.Object, &bytes.Buffer{}, nil))
	assert.Len(t, d.Cancelled(), 1)
}

func TestLiveViewRequiresPCBit(t *testing.T) {
	d := New(testConfig())

	_, err := d.PollLiveViewFrame()
	assert.ErrorIs(t, err, backend.ErrNotAvailable)
	_, err = d.ReadHistogram(backend.HistogramLuminance)
	assert.ErrorIs(t, err, backend.ErrNotAvailable)

	require.NoError(t, d.SetProperty(propLiveView, []byte{2, 0, 0, 0}))

	frame, err := d.PollLiveViewFrame()
	require.NoError(t, err)
	img, err := jpeg.Decode(bytes.NewReader(frame))
	require.NoError(t, err)
	assert.Equal(t, 160, img.Bounds().Dx())

	hist, err := d.ReadHistogram(backend.HistogramRed)
	require.NoError(t, err)
	require.Len(t, hist, 4*backend.HistogramBuckets)

	var total uint32
	for i := 0; i < backend.HistogramBuckets; i++ {
		total += binary.LittleEndian.Uint32(hist[4*i:])
	}
	assert.Equal(t, uint32(160*120), total)
}

func TestCommandsAndUILock(t *testing.T) {
	d := New(testConfig())

	require.NoError(t, d.SendCommand(backend.CommandUILock, 0))
	assert.True(t, d.UILocked())
	require.NoError(t, d.SendCommand(backend.CommandUIUnlock, 0))
	assert.False(t, d.UILocked())

	d.SetFailure("SendCommand:"+backend.CommandBulbStart.String(), errors.New("busy"))
	assert.Error(t, d.SendCommand(backend.CommandBulbStart, 0))

	assert.Equal(t, []CommandCall{
		{Cmd: backend.CommandUILock},
		{Cmd: backend.CommandUIUnlock},
	}, d.Commands())
}

func TestSetFailure(t *testing.T) {
	d := New(testConfig())
	errBoom := errors.New("boom")

	d.SetFailure("GetProperty", errBoom)
	_, err := d.GetProperty(propISO)
	assert.ErrorIs(t, err, errBoom)

	d.SetFailure("GetProperty", nil)
	_, err = d.GetProperty(propISO)
	assert.NoError(t, err)
}

func TestEventsDroppedWhenClosed(t *testing.T) {
	d := New(testConfig())
	rec := newRecorder()
	d.RegisterEventCallback(rec.record)

	d.Emit(backend.Event{Kind: backend.EventShutdown})
	assert.NoError(t, d.Close())
	assert.Len(t, rec.ch, 0)
}

func TestModule(t *testing.T) {
	m := NewModule("")
	m.Add(backend.Descriptor{ID: "cam0", Profile: "ptp"}, testConfig())

	descs, err := m.Enumerate(context.Background())
	require.NoError(t, err)
	require.Len(t, descs, 1)
	assert.Equal(t, ModuleName, descs[0].Module)
	assert.Equal(t, "Sim Camera", descs[0].Model)

	drv, err := m.NewDriver(descs[0])
	require.NoError(t, err)
	assert.Same(t, drv, m.Driver("cam0"))

	_, err = m.NewDriver(backend.Descriptor{ID: "nope"})
	assert.Error(t, err)
}
