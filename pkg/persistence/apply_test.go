package persistence

import (
	"context"
	"testing"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/camera"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/profile"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/property"
)

func openPTP(t *testing.T) (*camera.Device, camera.ReleaseControl) {
	t.Helper()

	inst := camera.New(camera.DefaultConfig())
	inst.RegisterModule(profile.NewSimModule(""))
	if err := profile.Register(inst); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	sources, err := inst.EnumerateDevices(context.Background())
	if err != nil {
		t.Fatalf("EnumerateDevices() error = %v", err)
	}
	for _, src := range sources {
		if src.Descriptor.ID != profile.SimPTPID {
			continue
		}
		dev, err := inst.Open(context.Background(), src.Descriptor)
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		t.Cleanup(dev.Close)

		rc, err := dev.EnterReleaseControl()
		if err != nil {
			t.Fatalf("EnterReleaseControl() error = %v", err)
		}
		t.Cleanup(rc.Close)
		return dev, rc
	}
	t.Fatal("simulated PTP camera not found")
	return nil, nil
}

func imageValue(t *testing.T, rc camera.ReleaseControl, pt property.Type) uint32 {
	t.Helper()
	id, err := rc.MapImagePropertyTypeToID(pt)
	if err != nil {
		t.Fatalf("MapImagePropertyTypeToID(%s) error = %v", pt, err)
	}
	v, err := rc.GetImageProperty(id)
	if err != nil {
		t.Fatalf("GetImageProperty(%s) error = %v", pt, err)
	}
	raw, err := v.Value.Uint32()
	if err != nil {
		t.Fatalf("Uint32(%s) error = %v", pt, err)
	}
	return raw
}

func TestCapture(t *testing.T) {
	dev, rc := openPTP(t)
	if err := rc.SetReleaseSettings(camera.ShutterReleaseSettings{SaveTarget: camera.SaveToHost, Filename: "/tmp/shots"}); err != nil {
		t.Fatalf("SetReleaseSettings() error = %v", err)
	}

	settings := Capture(dev, rc, []property.Type{property.TypeISOSpeed, property.TypeFocalLength})
	if settings.Model != "PowerShot S45" {
		t.Errorf("Model = %q", settings.Model)
	}
	if settings.Serial != dev.SerialNumber() {
		t.Errorf("Serial = %q, want %q", settings.Serial, dev.SerialNumber())
	}
	if settings.SaveTarget != camera.SaveToHost.String() {
		t.Errorf("SaveTarget = %q", settings.SaveTarget)
	}
	if settings.DownloadDir != "/tmp/shots" {
		t.Errorf("DownloadDir = %q", settings.DownloadDir)
	}
	if settings.Properties["ISO"] != 0x48 {
		t.Errorf("ISO = %#x, want 0x48", settings.Properties["ISO"])
	}
	// Focal length is read-only.
	if _, ok := settings.Properties["FocalLength"]; ok {
		t.Error("read-only FocalLength captured")
	}
}

func TestApply(t *testing.T) {
	_, rc := openPTP(t)

	err := Apply(rc, CameraSettings{
		SaveTarget:  "host",
		DownloadDir: "/tmp/shots",
		Properties:  map[string]uint32{"ISO": 0x50, "Av": 0x28},
	})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if got := imageValue(t, rc, property.TypeISOSpeed); got != 0x50 {
		t.Errorf("ISO = %#x, want 0x50", got)
	}
	if got := imageValue(t, rc, property.TypeAv); got != 0x28 {
		t.Errorf("Av = %#x, want 0x28", got)
	}
	rs := rc.ReleaseSettings()
	if rs.SaveTarget != camera.SaveToHost || rs.Filename != "/tmp/shots" {
		t.Errorf("ReleaseSettings = %+v", rs)
	}
}

func TestApplyReportsFailures(t *testing.T) {
	_, rc := openPTP(t)

	err := Apply(rc, CameraSettings{
		SaveTarget: "cloud",
		Properties: map[string]uint32{"Bogus": 1, "FocalLength": 9, "ISO": 0x58},
	})
	if err == nil {
		t.Fatal("Apply() error = nil")
	}
	// Valid entries are still applied.
	if got := imageValue(t, rc, property.TypeISOSpeed); got != 0x58 {
		t.Errorf("ISO = %#x, want 0x58", got)
	}
}
