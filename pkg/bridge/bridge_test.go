package bridge

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/backend"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/backend/sim"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/camera"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/profile"
)

const (
	waitFor   = 2 * time.Second
	pollEvery = 5 * time.Millisecond
)

type fixture struct {
	server *Server
	local  *sim.Module
	addr   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	local := profile.NewSimModule("")
	config := DefaultServerConfig()
	config.Address = "127.0.0.1:0"
	config.Module = local
	server, err := NewServer(config)
	require.NoError(t, err)
	require.NoError(t, server.Start(context.Background()))
	t.Cleanup(func() { server.Stop() })

	return &fixture{server: server, local: local, addr: server.Addr().String()}
}

func (f *fixture) dial(t *testing.T) *Client {
	t.Helper()
	client, err := Dial(context.Background(), DefaultClientConfig(f.addr))
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func (f *fixture) open(t *testing.T, client *Client, id string) *Driver {
	t.Helper()
	d := NewDriver(client, id)
	require.NoError(t, d.Open())
	t.Cleanup(func() { d.Close() })
	return d
}

type eventLog struct {
	mu     sync.Mutex
	events []backend.Event
}

func (l *eventLog) add(ev backend.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

func (l *eventLog) snapshot() []backend.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]backend.Event(nil), l.events...)
}

func TestNewServerRequiresModule(t *testing.T) {
	_, err := NewServer(DefaultServerConfig())
	assert.ErrorIs(t, err, ErrNoModule)
}

func TestModuleEnumerate(t *testing.T) {
	f := newFixture(t)

	module := NewModule("", DefaultClientConfig(f.addr))
	t.Cleanup(func() { module.Close() })

	descs, err := module.Enumerate(context.Background())
	require.NoError(t, err)
	require.Len(t, descs, 2)

	ptp := descs[0]
	assert.Equal(t, ModuleName, ptp.Module)
	assert.Equal(t, profile.SimPTPID, ptp.ID)
	assert.Equal(t, profile.PTPName, ptp.Profile)
	assert.Equal(t, "PowerShot S45", ptp.Model)
	assert.Equal(t, sim.ModuleName, ptp.Attrs[AttrModule])
	assert.Equal(t, f.addr, ptp.Attrs[AttrAddress])
}

func TestDriverCalls(t *testing.T) {
	f := newFixture(t)
	d := f.open(t, f.dial(t), profile.SimPTPID)
	local := f.local.Driver(profile.SimPTPID)
	require.NotNil(t, local)

	assert.Equal(t, "PowerShot S45", d.Info().Model)

	ids, err := d.PropertyIDs()
	require.NoError(t, err)
	assert.Contains(t, ids, profile.PTPISOSpeed)

	infos, err := d.PropertyInfos()
	require.NoError(t, err)
	assert.Len(t, infos, len(ids))

	var events eventLog
	d.RegisterEventCallback(events.add)

	require.NoError(t, d.SetProperty(profile.PTPISOSpeed, []byte{0x50, 0x00}))
	got, err := d.GetProperty(profile.PTPISOSpeed)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x50, 0x00}, got)

	require.Eventually(t, func() bool {
		for _, ev := range events.snapshot() {
			if ev.Kind == backend.EventPropertyChanged && ev.PropertyID == profile.PTPISOSpeed {
				return true
			}
		}
		return false
	}, waitFor, pollEvery)

	cursor, err := d.EnumerateProperty(profile.PTPISOSpeed)
	require.NoError(t, err)
	assert.Equal(t, 5, cursor.Count())
	first, err := cursor.Next()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x00}, first)
	require.NoError(t, cursor.Close())

	require.NoError(t, d.SendCommand(backend.CommandZoomStep, 3))
	assert.Equal(t, []sim.CommandCall{{Cmd: backend.CommandZoomStep, Param: 3}}, local.Commands())

	_, err = d.PollLiveViewFrame()
	assert.ErrorIs(t, err, backend.ErrNotAvailable)

	require.NoError(t, d.SetProperty(profile.PTPCameraOutput, []byte{byte(profile.PTPOutputPC)}))
	frame, err := d.PollLiveViewFrame()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xd8}, frame[:2])

	hist, err := d.ReadHistogram(backend.HistogramLuminance)
	require.NoError(t, err)
	assert.Len(t, hist, 4*backend.HistogramBuckets)
}

func TestBackendErrorsKeepTheirCode(t *testing.T) {
	f := newFixture(t)
	d := f.open(t, f.dial(t), profile.SimPTPID)

	f.local.Driver(profile.SimPTPID).SetFailure("TriggerRelease",
		backend.NewError(sim.Component, "TriggerRelease", backend.CodeNotSupported))

	err := d.TriggerRelease()
	require.Error(t, err)
	assert.True(t, backend.IsNotSupported(err))

	var be *backend.Error
	require.ErrorAs(t, err, &be)
	assert.Equal(t, sim.Component, be.Component)
	assert.Equal(t, "TriggerRelease", be.Op)

	_, err = d.GetProperty(0x1234)
	assert.Equal(t, backend.CodeInvalidParameter, backend.CodeOf(err))

	_, err = d.EnumerateProperty(profile.PTPFocalLength)
	assert.True(t, backend.IsNotSupported(err))
}

func TestDownloadProgress(t *testing.T) {
	f := newFixture(t)
	d := f.open(t, f.dial(t), profile.SimPTPID)

	var events eventLog
	d.RegisterEventCallback(events.add)
	require.NoError(t, d.TriggerRelease())

	var obj backend.ObjectInfo
	require.Eventually(t, func() bool {
		for _, ev := range events.snapshot() {
			if ev.Kind == backend.EventObjectReady {
				obj = ev.Object
				return true
			}
		}
		return false
	}, waitFor, pollEvery)

	var (
		mu       sync.Mutex
		progress []uint
	)
	path := filepath.Join(t.TempDir(), obj.Name)
	out, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, d.Download(obj, out, func(p uint) {
		mu.Lock()
		progress = append(progress, p)
		mu.Unlock()
	}))
	require.NoError(t, out.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.EqualValues(t, obj.Size, len(data))

	// Progress notifications are sent before the response.
	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, progress)
	assert.Equal(t, uint(100), progress[len(progress)-1])
}

func TestDeviceOwnership(t *testing.T) {
	f := newFixture(t)
	owner := f.dial(t)
	other := f.dial(t)

	f.open(t, owner, profile.SimPTPID)
	assert.Equal(t, []string{profile.SimPTPID}, f.server.OpenDevices())

	err := NewDriver(other, profile.SimPTPID).Open()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ALREADY_OPEN")

	_, err = NewDriver(other, profile.SimPTPID).GetProperty(profile.PTPISOSpeed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOT_OPEN")

	err = NewDriver(other, "no-such-camera").Open()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVALID_DEVICE")

	// Disconnecting the owner releases its devices.
	require.NoError(t, owner.Close())
	require.Eventually(t, func() bool { return len(f.server.OpenDevices()) == 0 }, waitFor, pollEvery)
	assert.False(t, f.local.Driver(profile.SimPTPID).IsOpen())

	f.open(t, other, profile.SimPTPID)
}

func TestCloseReleasesDevice(t *testing.T) {
	f := newFixture(t)
	client := f.dial(t)

	d := NewDriver(client, profile.SimLegacyID)
	require.NoError(t, d.Open())
	local := f.local.Driver(profile.SimLegacyID)
	require.Eventually(t, func() bool { return local.IdleCalls() > 0 }, waitFor, pollEvery)

	require.NoError(t, d.Close())
	assert.Empty(t, f.server.OpenDevices())
	assert.False(t, local.IsOpen())

	_, err := d.GetProperty(profile.LegacyID(0))
	require.Error(t, err)
}

func TestClientClosedWhenServerStops(t *testing.T) {
	f := newFixture(t)
	client := f.dial(t)

	require.NoError(t, f.server.Stop())

	select {
	case <-client.Done():
	case <-time.After(waitFor):
		t.Fatal("client not closed after the bridge stopped")
	}
	_, err := client.Enumerate(context.Background())
	assert.ErrorIs(t, err, ErrClientClosed)
}

func TestModuleRedials(t *testing.T) {
	f := newFixture(t)

	module := NewModule("studio", DefaultClientConfig(f.addr))
	t.Cleanup(func() { module.Close() })

	_, err := module.Enumerate(context.Background())
	require.NoError(t, err)
	require.NoError(t, module.Close())

	descs, err := module.Enumerate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "studio", descs[0].Module)
}

func TestPing(t *testing.T) {
	f := newFixture(t)
	rtt, err := Ping(context.Background(), f.addr)
	require.NoError(t, err)
	assert.Positive(t, rtt)
}

func TestReleaseThroughBridge(t *testing.T) {
	f := newFixture(t)

	config := camera.DefaultConfig()
	config.DownloadDir = t.TempDir()
	inst := camera.New(config)
	module := NewModule("", DefaultClientConfig(f.addr))
	t.Cleanup(func() { module.Close() })
	inst.RegisterModule(module)
	require.NoError(t, profile.Register(inst))

	sources, err := inst.EnumerateDevices(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, sources)

	dev, err := inst.Open(context.Background(), sources[0].Descriptor)
	require.NoError(t, err)
	t.Cleanup(dev.Close)
	assert.Equal(t, "PowerShot S45", dev.ModelName())

	rc, err := dev.EnterReleaseControl()
	require.NoError(t, err)
	t.Cleanup(rc.Close)

	var (
		mu        sync.Mutex
		downloads []camera.DownloadEvent
	)
	rc.AddDownloadEventHandler(func(ev camera.DownloadEvent) {
		mu.Lock()
		defer mu.Unlock()
		downloads = append(downloads, ev)
	})
	require.NoError(t, rc.SetReleaseSettings(camera.ShutterReleaseSettings{SaveTarget: camera.SaveToHost}))
	require.NoError(t, rc.Release())

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, ev := range downloads {
			if ev.Kind == camera.DownloadFinished {
				return true
			}
		}
		return false
	}, 5*time.Second, pollEvery)

	data, err := os.ReadFile(filepath.Join(config.DownloadDir, "IMG_0001.JPG"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xd8}, data[:2])
	assert.Len(t, f.local.Driver(profile.SimPTPID).Downloaded(), 1)
}
