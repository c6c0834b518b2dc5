package interactive

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/camera"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/discovery"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/persistence"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/profile"
)

// lockedBuffer is written by the shell and its event handlers.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *lockedBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

type fixture struct {
	shell *Shell
	out   *lockedBuffer
	dir   string
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()

	dir := t.TempDir()
	config := camera.DefaultConfig()
	config.DownloadDir = dir
	inst := camera.New(config)
	require.NoError(t, profile.Register(inst))
	inst.RegisterModule(profile.NewSimModule(""))

	out := &lockedBuffer{}
	sh := New(inst, opts)
	sh.SetOutput(out)
	t.Cleanup(sh.Close)
	return &fixture{shell: sh, out: out, dir: dir}
}

// run executes line and returns its output.
func (f *fixture) run(t *testing.T, line string) string {
	t.Helper()
	f.out.Reset()
	assert.False(t, f.shell.Execute(context.Background(), line))
	return f.out.String()
}

func (f *fixture) openPTP(t *testing.T) {
	t.Helper()
	out := f.run(t, "open sim:"+profile.SimPTPID)
	require.Contains(t, out, "Opened PowerShot S45")
}

func TestListAndOpen(t *testing.T) {
	f := newFixture(t, Options{})

	out := f.run(t, "list")
	assert.Contains(t, out, "PowerShot S45")
	assert.Contains(t, out, "PowerShot G2")
	assert.Contains(t, out, "sim:"+profile.SimLegacyID)

	out = f.run(t, "open 7")
	assert.Contains(t, out, "no camera number 7")

	f.openPTP(t)

	out = f.run(t, "info")
	assert.Contains(t, out, "Serial:   5120300042")
	assert.Contains(t, out, "Profile:  ptp")
	assert.Contains(t, out, "RemoteReleaseControl")

	out = f.run(t, "close")
	assert.Contains(t, out, "Closed PowerShot S45")

	out = f.run(t, "info")
	assert.Contains(t, out, ErrNoDevice.Error())
}

func TestCommandsNeedDevice(t *testing.T) {
	f := newFixture(t, Options{})

	for _, line := range []string{"props", "iprops", "get ISO", "set ISO 200", "release", "shots", "save"} {
		out := f.run(t, line)
		if line == "save" {
			assert.Contains(t, out, ErrNoSettingsStore.Error(), line)
			continue
		}
		assert.Contains(t, out, ErrNoDevice.Error(), line)
	}
}

func TestUsageAndUnknownCommands(t *testing.T) {
	f := newFixture(t, Options{})

	assert.Contains(t, f.run(t, "frobnicate"), "Unknown command: frobnicate")
	assert.Contains(t, f.run(t, "get"), "usage: get <prop>")
	assert.Contains(t, f.run(t, "mode X"), `unknown shooting mode "X"`)
	assert.Contains(t, f.run(t, "savetarget cloud"), `unknown save target "cloud"`)
	assert.Contains(t, f.run(t, "help"), "Camera Shell Commands")
	assert.Empty(t, f.run(t, "   "))

	assert.True(t, f.shell.Execute(context.Background(), "quit"))
}

func TestImageProperties(t *testing.T) {
	f := newFixture(t, Options{})
	f.openPTP(t)

	out := f.run(t, "get ISO")
	assert.Contains(t, out, "ISO speed = 100")

	out = f.run(t, "values iso")
	assert.Contains(t, out, "ISO speed values:")
	assert.Contains(t, out, "Auto")
	assert.Contains(t, out, "200")

	out = f.run(t, "set ISO 200")
	assert.Contains(t, out, "ISO speed set to 200")
	assert.Contains(t, f.run(t, "get 0xd01c"), "ISO speed = 200")

	out = f.run(t, "set ISO 0x58")
	assert.Contains(t, out, "ISO speed set to 400")

	out = f.run(t, "set 0xd025 5")
	assert.Contains(t, out, "Error:")

	out = f.run(t, "get Bogus")
	assert.Contains(t, out, `unknown property "Bogus"`)

	out = f.run(t, "iprops")
	assert.Contains(t, out, "0xd01c")
	assert.Contains(t, out, "(read-only)")
}

func TestShootingModeAndCommands(t *testing.T) {
	f := newFixture(t, Options{})
	f.openPTP(t)

	assert.Contains(t, f.run(t, "mode av"), "Shooting mode set to Av")
	assert.Contains(t, f.run(t, "command focus"), "AdjustFocus sent")
	assert.Contains(t, f.run(t, "command zoom"), `unknown command "zoom"`)
	assert.Contains(t, f.run(t, "shots"), "Available shots:")
	assert.Contains(t, f.run(t, "props"), "Camera model")
}

func TestReleaseDownloadsImage(t *testing.T) {
	f := newFixture(t, Options{})
	f.openPTP(t)

	out := f.run(t, "savetarget host "+f.dir)
	require.Contains(t, out, "Images are stored on host")

	f.out.Reset()
	require.False(t, f.shell.Execute(context.Background(), "release"))
	require.Eventually(t, func() bool {
		return strings.Contains(f.out.String(), "[download] Finished")
	}, 5*time.Second, 10*time.Millisecond)
	assert.Contains(t, f.out.String(), "Shutter released")

	files, err := filepath.Glob(filepath.Join(f.dir, "*"))
	require.NoError(t, err)
	assert.NotEmpty(t, files)
}

func TestViewfinderAndHistogram(t *testing.T) {
	f := newFixture(t, Options{})
	f.openPTP(t)

	assert.Contains(t, f.run(t, "histogram"), ErrNoViewfinder.Error())

	require.Contains(t, f.run(t, "viewfinder start"), "Viewfinder started")
	require.Eventually(t, func() bool { return f.shell.frames.Load() > 0 }, 5*time.Second, 10*time.Millisecond)

	assert.Contains(t, f.run(t, "viewfinder status"), "Viewfinder: running")
	assert.Contains(t, f.run(t, "histogram purple"), `unknown histogram channel "purple"`)

	out := f.run(t, "viewfinder stop")
	assert.Contains(t, out, "Viewfinder stopped")
	assert.Contains(t, f.run(t, "viewfinder status"), "Viewfinder: stopped")
}

func TestLiveViewServer(t *testing.T) {
	f := newFixture(t, Options{})
	f.openPTP(t)

	assert.Contains(t, f.run(t, "liveview start"), ErrNoViewfinder.Error())
	require.Contains(t, f.run(t, "viewfinder start"), "Viewfinder started")

	out := f.run(t, "liveview start 127.0.0.1:0")
	require.Contains(t, out, "Live view serving on http://127.0.0.1:")
	require.NotNil(t, f.shell.live)

	assert.Contains(t, f.run(t, "liveview stop"), "Live view stopped")
	assert.Nil(t, f.shell.live)
	assert.Contains(t, f.run(t, "liveview stop"), ErrLiveViewInactive.Error())
}

func TestSaveAndRestore(t *testing.T) {
	store := persistence.NewSettingsStore(filepath.Join(t.TempDir(), "settings.json"))
	f := newFixture(t, Options{Settings: store})
	f.openPTP(t)

	assert.Contains(t, f.run(t, "restore"), "No saved settings for PowerShot S45#5120300042")

	f.run(t, "set ISO 200")
	out := f.run(t, "save")
	require.Contains(t, out, "Saved")

	saved, ok, err := store.Get("PowerShot S45", "5120300042")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint32(0x50), saved.Properties["ISO"])

	f.run(t, "set ISO 100")
	assert.Contains(t, f.run(t, "restore"), "Restored")
	assert.Contains(t, f.run(t, "get ISO"), "ISO speed = 200")

	f.run(t, "close")
	assert.Contains(t, f.run(t, "open sim:"+profile.SimPTPID), "Saved release settings found")
}

// staticBrowser reports a fixed set of bridges.
type staticBrowser struct {
	services []*discovery.BridgeService
}

func (b *staticBrowser) BrowseBridges(ctx context.Context) (<-chan *discovery.BridgeService, <-chan *discovery.BridgeService, error) {
	added := make(chan *discovery.BridgeService, len(b.services))
	removed := make(chan *discovery.BridgeService)
	for _, svc := range b.services {
		added <- svc
	}
	close(added)
	close(removed)
	return added, removed, nil
}

func (b *staticBrowser) FindBridge(ctx context.Context, idOrName string) (*discovery.BridgeService, error) {
	for _, svc := range b.services {
		if svc.Matches(idOrName) {
			return svc, nil
		}
	}
	return nil, discovery.ErrNotFound
}

func TestDiscover(t *testing.T) {
	assert.Contains(t, newFixture(t, Options{}).run(t, "discover"), ErrNoBrowser.Error())

	browser := &staticBrowser{services: []*discovery.BridgeService{{
		InstanceName: "RPT-0123456789abcdef",
		Port:         15741,
		Addresses:    []string{"192.168.1.20"},
		BridgeID:     "0123456789abcdef",
		Name:         "Studio",
		Models:       []string{"PowerShot S45"},
		DeviceCount:  1,
	}}}
	f := newFixture(t, Options{Browser: browser, DiscoverTimeout: 50 * time.Millisecond})

	out := f.run(t, "discover")
	assert.Contains(t, out, "1. Studio")
	assert.Contains(t, out, "192.168.1.20:15741")
	assert.Contains(t, out, "1 camera(s): PowerShot S45")

	assert.Contains(t, f.run(t, "bridge 3"), "no bridge number 3")
}
