package camera

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/backend"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/backend/sim"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/log"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/property"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/variant"
)

const (
	waitFor   = 2 * time.Second
	pollEvery = 5 * time.Millisecond
)

func finished(events []DownloadEvent) int {
	n := 0
	for _, ev := range events {
		if ev.Kind == DownloadFinished {
			n++
		}
	}
	return n
}

func TestReleaseTransfersImage(t *testing.T) {
	f := newFixture(t)
	rc := f.releaseControl(t)

	var downloads recorder[DownloadEvent]
	rc.AddDownloadEventHandler(downloads.add)

	require.NoError(t, rc.Release())
	require.Eventually(t, func() bool { return finished(downloads.snapshot()) == 1 }, waitFor, pollEvery)
	require.Eventually(t, func() bool { return rc.State() == ReleaseIdle }, waitFor, pollEvery)

	events := downloads.snapshot()
	require.GreaterOrEqual(t, len(events), 3)
	assert.Equal(t, DownloadStarted, events[0].Kind)
	assert.Equal(t, DownloadFinished, events[len(events)-1].Kind)
	assert.Equal(t, uint(100), events[len(events)-1].Percent)

	path := filepath.Join(f.dir, "IMG_0001.JPG")
	assert.Equal(t, path, events[0].Filename)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xd8}, data[:2])

	require.Len(t, f.driver.Downloaded(), 1)
	assert.Positive(t, f.events.count(log.CategoryRelease))
}

func TestReleaseBackToBackNeverInterleaves(t *testing.T) {
	f := newFixture(t)
	rc := f.releaseControl(t)

	var downloads recorder[DownloadEvent]
	rc.AddDownloadEventHandler(downloads.add)

	require.NoError(t, rc.Release())
	require.NoError(t, rc.Release())
	require.Eventually(t, func() bool { return finished(downloads.snapshot()) == 2 }, waitFor, pollEvery)

	events := downloads.snapshot()
	split := -1
	for i, ev := range events {
		if ev.Kind == DownloadFinished {
			split = i + 1
			break
		}
	}
	require.Positive(t, split)

	first, second := events[:split], events[split:]
	require.NotEmpty(t, second)
	assert.Equal(t, DownloadStarted, first[0].Kind)
	assert.Equal(t, DownloadStarted, second[0].Kind)
	assert.Equal(t, DownloadFinished, second[len(second)-1].Kind)
	for _, ev := range first {
		assert.Equal(t, "IMG_0001.JPG", ev.Object.Name)
	}
	for _, ev := range second {
		assert.Equal(t, "IMG_0002.JPG", ev.Object.Name)
	}
}

func TestReleaseSaveToCamera(t *testing.T) {
	f := newFixture(t)
	rc := f.releaseControl(t)

	var downloads recorder[DownloadEvent]
	rc.AddDownloadEventHandler(downloads.add)

	require.NoError(t, rc.SetReleaseSettings(ShutterReleaseSettings{SaveTarget: SaveToCamera}))
	raw, ok := f.driver.RawValue(idSaveTo)
	require.True(t, ok)
	assert.Equal(t, []byte{1, 0, 0, 0}, raw)

	v, err := rc.GetImageProperty(idSaveTo)
	require.NoError(t, err)
	x, err := v.Value.Uint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(SaveToCamera), x)

	require.NoError(t, rc.Release())
	require.Eventually(t, func() bool { return len(f.driver.Cancelled()) == 1 }, waitFor, pollEvery)
	require.Eventually(t, func() bool { return rc.State() == ReleaseIdle }, waitFor, pollEvery)

	assert.Zero(t, downloads.len())
	assert.Empty(t, f.driver.Downloaded())
}

func TestReleaseSaveToBothWritesTarget(t *testing.T) {
	f := newFixture(t)
	rc := f.releaseControl(t)

	require.NoError(t, rc.SetReleaseSettings(ShutterReleaseSettings{SaveTarget: SaveToBoth}))
	assert.Equal(t, SaveToBoth, rc.ReleaseSettings().SaveTarget)

	raw, ok := f.driver.RawValue(idSaveTo)
	require.True(t, ok)
	assert.Equal(t, []byte{3, 0, 0, 0}, raw)
}

func TestReleaseOnFinishedTransfer(t *testing.T) {
	f := newFixture(t)
	rc := f.releaseControl(t)

	target := filepath.Join(f.dir, "shot.jpg")
	done := make(chan ShutterReleaseSettings, 1)
	require.NoError(t, rc.SetReleaseSettings(ShutterReleaseSettings{
		SaveTarget:         SaveToHost,
		Filename:           target,
		OnFinishedTransfer: func(s ShutterReleaseSettings) { done <- s },
	}))

	require.NoError(t, rc.Release())

	select {
	case s := <-done:
		assert.Equal(t, target, s.Filename)
		assert.Equal(t, SaveToHost, s.SaveTarget)
	case <-time.After(waitFor):
		t.Fatal("transfer did not finish")
	}
	assert.FileExists(t, target)
}

func TestReleaseHandlersMayCallBack(t *testing.T) {
	f := newFixtureConfig(t, testSimConfig(), func(c *Config) {
		c.CommandTimeout = time.Second
	})
	rc := f.releaseControl(t)

	type result struct {
		shots   uint32
		err     error
		elapsed time.Duration
	}
	fromFinished := make(chan result, 1)
	fromDownload := make(chan result, 1)

	rc.AddDownloadEventHandler(func(ev DownloadEvent) {
		if ev.Kind != DownloadFinished {
			return
		}
		start := time.Now()
		shots, err := rc.NumAvailableShots()
		fromDownload <- result{shots, err, time.Since(start)}
	})
	require.NoError(t, rc.SetReleaseSettings(ShutterReleaseSettings{
		SaveTarget: SaveToHost,
		OnFinishedTransfer: func(ShutterReleaseSettings) {
			start := time.Now()
			shots, err := rc.NumAvailableShots()
			fromFinished <- result{shots, err, time.Since(start)}
		},
	}))

	require.NoError(t, rc.Release())

	for _, ch := range []chan result{fromDownload, fromFinished} {
		select {
		case r := <-ch:
			require.NoError(t, r.err)
			assert.Equal(t, uint32(42), r.shots)
			assert.Less(t, r.elapsed, 500*time.Millisecond)
		case <-time.After(waitFor):
			t.Fatal("handler did not run")
		}
	}
}

func TestReleaseIntoDirectory(t *testing.T) {
	f := newFixture(t)
	rc := f.releaseControl(t)

	dir := filepath.Join(f.dir, "shots")
	require.NoError(t, os.Mkdir(dir, 0o755))

	var downloads recorder[DownloadEvent]
	rc.AddDownloadEventHandler(downloads.add)
	require.NoError(t, rc.SetReleaseSettings(ShutterReleaseSettings{SaveTarget: SaveToHost, Filename: dir}))

	require.NoError(t, rc.Release())
	require.Eventually(t, func() bool { return finished(downloads.snapshot()) == 1 }, waitFor, pollEvery)
	assert.FileExists(t, filepath.Join(dir, "IMG_0001.JPG"))
}

func TestReleaseFailureIsSticky(t *testing.T) {
	f := newFixture(t)
	rc := f.releaseControl(t)

	var states recorder[StateEvent]
	rc.AddStateEventHandler(states.add)
	var downloads recorder[DownloadEvent]
	rc.AddDownloadEventHandler(downloads.add)

	f.driver.FailNextCapture(backend.CodeTakePictureFail)
	require.NoError(t, rc.Release())

	require.Eventually(t, func() bool { return states.len() == 1 }, waitFor, pollEvery)
	assert.Equal(t, StateEvent{Kind: StateReleaseError, Value: backend.CodeTakePictureFail}, states.snapshot()[0])
	assert.Equal(t, ReleaseError, rc.State())

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, ReleaseError, rc.State())

	require.NoError(t, rc.Release())
	require.Eventually(t, func() bool { return finished(downloads.snapshot()) == 1 }, waitFor, pollEvery)
	require.Eventually(t, func() bool { return rc.State() == ReleaseIdle }, waitFor, pollEvery)
}

func TestReleaseTriggerError(t *testing.T) {
	f := newFixture(t)
	rc := f.releaseControl(t)

	var states recorder[StateEvent]
	rc.AddStateEventHandler(states.add)

	f.driver.SetFailure("TriggerRelease", backend.NewError(sim.Component, "TriggerRelease", backend.CodeDeviceBusy))
	require.NoError(t, rc.Release())

	require.Eventually(t, func() bool { return states.len() == 1 }, waitFor, pollEvery)
	assert.Equal(t, StateEvent{Kind: StateReleaseError, Value: backend.CodeDeviceBusy}, states.snapshot()[0])
	assert.Equal(t, ReleaseError, rc.State())
	assert.Positive(t, f.events.count(log.CategoryError))
}

func TestReleaseDownloadError(t *testing.T) {
	f := newFixture(t)
	rc := f.releaseControl(t)

	var states recorder[StateEvent]
	rc.AddStateEventHandler(states.add)

	f.driver.SetFailure("Download", backend.NewError(sim.Component, "Download", backend.CodeCommFailure))
	require.NoError(t, rc.Release())

	require.Eventually(t, func() bool { return states.len() == 1 }, waitFor, pollEvery)
	assert.Equal(t, StateEvent{Kind: StateInternalError, Value: backend.CodeCommFailure}, states.snapshot()[0])
	assert.NoFileExists(t, filepath.Join(f.dir, "IMG_0001.JPG"))

	// the failed transfer does not block the next release
	f.driver.SetFailure("Download", nil)
	var downloads recorder[DownloadEvent]
	rc.AddDownloadEventHandler(downloads.add)
	require.NoError(t, rc.Release())
	require.Eventually(t, func() bool { return finished(downloads.snapshot()) == 1 }, waitFor, pollEvery)
}

func TestReleasePropertyEvents(t *testing.T) {
	f := newFixture(t)
	rc := f.releaseControl(t)

	var props recorder[PropertyEvent]
	rc.AddPropertyEventHandler(props.add)

	f.driver.Emit(
		backend.Event{Kind: backend.EventPropertyChanged, PropertyID: idISO},
		backend.Event{Kind: backend.EventPropertyDescChanged, PropertyID: idISO},
		backend.Event{Kind: backend.EventPropertyChanged, PropertyID: backend.PropertyIDUnknown},
	)

	require.Eventually(t, func() bool { return props.len() == 3 }, waitFor, pollEvery)
	events := props.snapshot()
	assert.Contains(t, events, PropertyEvent{Kind: PropertyChanged, ID: idISO})
	assert.Contains(t, events, PropertyEvent{Kind: PropertyDescChanged, ID: idISO})
	assert.Equal(t, PropertyEvent{Kind: PropertyChanged, ID: 0}, events[2])
}

func TestReleaseStateEvents(t *testing.T) {
	f := newFixture(t)
	rc := f.releaseControl(t)

	var states recorder[StateEvent]
	id := rc.AddStateEventHandler(states.add)

	f.driver.Emit(
		backend.Event{Kind: backend.EventRotation, Value: 90},
		backend.Event{Kind: backend.EventCardSlotOpen},
		backend.Event{Kind: backend.EventShutdown},
	)
	require.Eventually(t, func() bool { return states.len() == 3 }, waitFor, pollEvery)
	assert.Equal(t, []StateEvent{
		{Kind: StateRotationAngle, Value: 90},
		{Kind: StateMemoryCardSlotOpen},
		{Kind: StateCameraShutdown},
	}, states.snapshot())

	rc.RemoveStateEventHandler(id)
	f.driver.Emit(backend.Event{Kind: backend.EventInternalError, Value: 1})
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 3, states.len())
}

func TestReleaseImageProperties(t *testing.T) {
	f := newFixture(t)
	rc := f.releaseControl(t)

	ids, err := rc.EnumImageProperties()
	require.NoError(t, err)
	assert.Equal(t, []uint32{idShootingMode, idISO, idShots, idSaveTo}, ids)

	id, err := rc.MapImagePropertyTypeToID(property.TypeISOSpeed)
	require.NoError(t, err)
	assert.Equal(t, uint32(idISO), id)

	_, err = rc.MapImagePropertyTypeToID(property.TypeAv)
	assert.ErrorIs(t, err, backend.ErrUnsupportedCapability)

	values, err := rc.EnumImagePropertyValues(idISO)
	require.NoError(t, err)
	assert.Equal(t, []variant.Variant{variant.Of(uint16(0x48)), variant.Of(uint16(0x50))}, values)

	require.NoError(t, rc.SetImageProperty(idISO, variant.Of(uint16(0x50))))
	v, err := rc.GetImageProperty(idISO)
	require.NoError(t, err)
	assert.Equal(t, variant.Of(uint16(0x50)), v.Value)
	assert.False(t, v.ReadOnly)

	err = rc.SetImageProperty(idShots, variant.Of(uint32(1)))
	assert.ErrorIs(t, err, property.ErrReadOnlyProperty)

	shots, err := rc.NumAvailableShots()
	require.NoError(t, err)
	assert.Equal(t, uint32(42), shots)
}

func TestReleaseShootingModeMapping(t *testing.T) {
	f := newFixture(t)
	rc := f.releaseControl(t)

	v, err := rc.MapShootingModeToImagePropertyValue(ShootingModeAv)
	require.NoError(t, err)
	assert.Equal(t, variant.KindUInt16, v.Kind())
	x, err := v.Uint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(2), x)
}

func TestReleaseCapabilities(t *testing.T) {
	f := newFixture(t)
	rc := f.releaseControl(t)

	assert.True(t, rc.GetCapability(CapChangeShootingParameter))
	assert.True(t, rc.GetCapability(CapChangeShootingMode))
	assert.False(t, rc.GetCapability(CapZoomControl))
	assert.True(t, rc.GetCapability(CapViewfinder))
	assert.False(t, rc.GetCapability(CapReleaseWhileViewfinder))
	assert.False(t, rc.GetCapability(CapAFLock))
	assert.True(t, rc.GetCapability(CapBulbMode))
	assert.True(t, rc.GetCapability(CapUILock))
}

func TestReleaseSendCommand(t *testing.T) {
	f := newFixture(t)
	rc := f.releaseControl(t)

	require.NoError(t, rc.SendCommand(CommandAdjustFocus))
	assert.Equal(t, []sim.CommandCall{
		{Cmd: backend.CommandShutterHalfway},
		{Cmd: backend.CommandShutterOff},
	}, f.driver.Commands())

	assert.ErrorIs(t, rc.SendCommand(CommandAdjustWhiteBalance), backend.ErrUnsupportedCapability)
}

func TestReleaseCloseIsIdempotent(t *testing.T) {
	f := newFixture(t)
	rc := f.releaseControl(t)

	rc.Close()
	rc.Close()

	assert.ErrorIs(t, rc.Release(), ErrClosed)
	assert.ErrorIs(t, rc.SetReleaseSettings(ShutterReleaseSettings{SaveTarget: SaveToHost}), ErrClosed)
	_, err := rc.StartViewfinder()
	assert.ErrorIs(t, err, ErrClosed)
	_, err = rc.StartBulb()
	assert.ErrorIs(t, err, ErrClosed)
}
