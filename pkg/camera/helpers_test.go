package camera

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/backend"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/backend/sim"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/log"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/property"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/variant"
)

const (
	idShootingMode = 0x0500
	idISO          = 0x0505
	idShots        = 0x050b
	idSaveTo       = 0x0520
	idLiveView     = 0x0530
	idOwner        = 0x0540

	bitTFT   = 1
	bitPC    = 2
	bitVideo = 4
)

const rwe = backend.AccessRead | backend.AccessWrite | backend.AccessEnum

var testTable = property.MustTable("test",
	property.Descriptor{Type: property.TypeShootingMode, ID: idShootingMode, Name: "Shooting mode",
		Access: rwe, Codec: property.UInt16Codec, Default: variant.Of(uint16(0)),
		Format: property.ShootingModeText.Formatter(), Group: property.GroupImage},
	property.Descriptor{Type: property.TypeISOSpeed, ID: idISO, Name: "ISO speed",
		Access: rwe, Codec: property.UInt16Codec, Default: variant.Of(uint16(0)),
		Format: property.FormatISO, Group: property.GroupImage},
	property.Descriptor{Type: property.TypeAvailableShots, ID: idShots, Name: "Available shots",
		Access: backend.AccessRead, Codec: property.UInt32Codec, Default: variant.Of(uint32(0)),
		Group: property.GroupImage},
	property.Descriptor{Type: property.TypeSaveTo, ID: idSaveTo, Name: "Save to",
		Access: backend.AccessRead | backend.AccessWrite, Codec: property.UInt32Codec,
		Default: variant.Of(uint32(0)), Format: property.SaveToText.Formatter(), Local: true,
		Group: property.GroupImage},
	property.Descriptor{Type: property.TypeLiveViewOutput, ID: idLiveView, Name: "Live view output",
		Access: backend.AccessRead | backend.AccessWrite, Codec: property.UInt32Codec,
		Default: variant.Of(uint32(0)), Group: property.GroupDevice},
	property.Descriptor{Type: property.TypeOwner, ID: idOwner, Name: "Owner",
		Access: backend.AccessRead, Codec: property.StringCodec, Default: variant.Of(""),
		Group: property.GroupDevice},
)

func testProfile() *Profile {
	return &Profile{
		Name:  "test",
		Table: testTable,
		ShootingModes: map[ShootingMode]uint32{
			ShootingModeP: 0, ShootingModeTv: 1, ShootingModeAv: 2, ShootingModeM: 3,
		},
		Commands: map[CameraCommand][]backend.Command{
			CommandAdjustFocus: {backend.CommandShutterHalfway, backend.CommandShutterOff},
		},
		LiveView: LiveViewOutput{Type: property.TypeLiveViewOutput, TFT: bitTFT, PC: bitPC, Video: bitVideo},
		Release:  true,
		Bulb:     true,
		UILock:   true,
	}
}

func testSimConfig() sim.Config {
	c := sim.DefaultConfig()
	c.Info.Model = "Test Camera"
	c.Info.Serial = "42"
	c.ReleaseDelay = 5 * time.Millisecond
	c.TransferStep = 0
	c.FrameWidth = 32
	c.FrameHeight = 24
	c.LiveViewProperty = idLiveView
	c.LiveViewPCBit = bitPC
	c.Properties = []sim.Property{
		{ID: idShootingMode, Access: rwe, Value: []byte{0, 0},
			Values: [][]byte{{0, 0}, {1, 0}, {2, 0}, {3, 0}}},
		{ID: idISO, Access: rwe, Value: []byte{0x48, 0},
			Values: [][]byte{{0x48, 0}, {0x50, 0}}},
		{ID: idShots, Access: backend.AccessRead, Value: []byte{42, 0, 0, 0}},
		{ID: idSaveTo, Access: backend.AccessWrite, Value: []byte{1, 0, 0, 0}},
		{ID: idLiveView, Access: backend.AccessRead | backend.AccessWrite, Value: []byte{bitTFT, 0, 0, 0}},
		{ID: idOwner, Access: backend.AccessRead, Value: []byte("owner\x00")},
		{ID: 0x9000, Access: backend.AccessRead, Value: []byte{1}},
	}
	return c
}

type captureLogger struct {
	mu     sync.Mutex
	events []log.Event
}

func (c *captureLogger) Log(e log.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *captureLogger) count(cat log.Category) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.events {
		if e.Category == cat {
			n++
		}
	}
	return n
}

type fixture struct {
	inst   *Instance
	module *sim.Module
	dev    *Device
	driver *sim.Driver
	events *captureLogger
	dir    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWith(t, testSimConfig())
}

func newFixtureWith(t *testing.T, simConfig sim.Config) *fixture {
	t.Helper()
	return newFixtureConfig(t, simConfig, nil)
}

// newFixtureConfig lets configure adjust the instance configuration.
func newFixtureConfig(t *testing.T, simConfig sim.Config, configure func(*Config)) *fixture {
	t.Helper()

	f := &fixture{events: &captureLogger{}, dir: t.TempDir()}

	config := DefaultConfig()
	config.EventLogger = f.events
	config.DownloadDir = f.dir
	config.TransferTimeout = 2 * time.Second
	config.StopTimeout = 2 * time.Second
	config.ViewfinderInterval = 10 * time.Millisecond
	if configure != nil {
		configure(&config)
	}
	f.inst = New(config)

	f.module = sim.NewModule("")
	f.module.Add(backend.Descriptor{ID: "cam1", Profile: "test"}, simConfig)
	f.inst.RegisterModule(f.module)
	require.NoError(t, f.inst.RegisterProfile(testProfile()))

	dev, err := f.inst.Open(context.Background(), backend.Descriptor{Module: sim.ModuleName, ID: "cam1", Profile: "test"})
	require.NoError(t, err)
	t.Cleanup(dev.Close)

	f.dev = dev
	f.driver = f.module.Driver("cam1")
	require.NotNil(t, f.driver)
	return f
}

func (f *fixture) releaseControl(t *testing.T) *RemoteReleaseControl {
	t.Helper()
	rc, err := f.dev.EnterReleaseControl()
	require.NoError(t, err)
	t.Cleanup(rc.Close)
	return rc.(*RemoteReleaseControl)
}

// recorder collects events delivered to a handler.
type recorder[T any] struct {
	mu     sync.Mutex
	events []T
}

func (r *recorder[T]) add(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, v)
}

func (r *recorder[T]) snapshot() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]T(nil), r.events...)
}

func (r *recorder[T]) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}
