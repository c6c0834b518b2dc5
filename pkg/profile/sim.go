package profile

import (
	"encoding/binary"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/backend"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/backend/sim"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/property"
)

// Device ids of the simulated cameras added by NewSimModule.
const (
	SimPTPID    = "ptp-1"
	SimLegacyID = "legacy-1"
)

func le8(x uint8) []byte   { return []byte{x} }
func le16(x uint16) []byte { return binary.LittleEndian.AppendUint16(nil, x) }
func le32(x uint32) []byte { return binary.LittleEndian.AppendUint32(nil, x) }

func le16s(xs ...uint16) [][]byte {
	out := make([][]byte, len(xs))
	for i, x := range xs {
		out[i] = le16(x)
	}
	return out
}

func le8s(xs ...uint8) [][]byte {
	out := make([][]byte, len(xs))
	for i, x := range xs {
		out[i] = le8(x)
	}
	return out
}

func cstring(s string) []byte {
	return append([]byte(s), 0)
}

// PTPSimConfig returns a simulated camera for the PTP profile.
func PTPSimConfig(model string) sim.Config {
	c := sim.DefaultConfig()
	c.Info = backend.DeviceInfo{Vendor: "Simulated", Model: model, Serial: "5120300042", Firmware: "1.0.1.0"}
	c.LiveViewProperty = PTPCameraOutput
	c.LiveViewPCBit = PTPOutputPC
	c.Properties = []sim.Property{
		{ID: PTPShootingMode, Access: rwe, Value: le8(0x01), Values: le8s(0x00, 0x01, 0x02, 0x03, 0x04, 0x66, 0x69)},
		{ID: PTPDriveMode, Access: rwe, Value: le8(0x00), Values: le8s(0x00, 0x01, 0x10)},
		{ID: PTPISOSpeed, Access: rwe, Value: le16(0x48), Values: le16s(0x00, 0x40, 0x48, 0x50, 0x58)},
		{ID: PTPMeteringMode, Access: rwe, Value: le8(3), Values: le8s(1, 3, 5)},
		{ID: PTPAFMode, Access: rwe, Value: le8(0), Values: le8s(0, 1, 2)},
		{ID: PTPAperture, Access: rwe, Value: le16(0x20), Values: le16s(0x18, 0x1b, 0x1d, 0x20, 0x23, 0x25, 0x28, 0x2b, 0x2d, 0x30)},
		{ID: PTPShutterSpeed, Access: rwe, Value: le16(0x68), Values: le16s(0x04, 0x38, 0x48, 0x58, 0x60, 0x68, 0x70, 0x78, 0x80, 0x88)},
		{ID: PTPExpCompensation, Access: rwe, Value: le8(0x18), Values: le8s(0x08, 0x10, 0x15, 0x18, 0x1b, 0x20, 0x28)},
		{ID: PTPFlashComp, Access: rwe, Value: le8(0x18), Values: le8s(0x10, 0x18, 0x20)},
		{ID: PTPFlashMode, Access: rwe, Value: le8(0), Values: le8s(0, 1)},
		{ID: PTPWhiteBalance, Access: rwe, Value: le8(0), Values: le8s(0, 1, 2, 3, 4, 5, 8)},
		{ID: PTPFocalLength, Access: backend.AccessRead, Value: le32(7)},
		{ID: PTPCaptureTransfer, Access: rw, Value: le16(0x0008)},
		{ID: PTPZoom, Access: rwe, Value: le16(0), Values: le16s(0, 1, 2, 3, 4, 5, 6, 7, 8, 9)},
		{ID: PTPImageSize, Access: rwe, Value: le8(0), Values: le8s(0, 1, 2)},
		{ID: PTPImageQuality, Access: rwe, Value: le8(3), Values: le8s(2, 3, 5)},
		{ID: PTPBatteryStatus, Access: backend.AccessRead, Value: le8(3)},
		{ID: PTPBatteryKind, Access: backend.AccessRead, Value: le8(1)},
		{ID: PTPCameraModel, Access: backend.AccessRead, Value: cstring(model)},
		{ID: PTPCameraOwner, Access: rw, Value: cstring("")},
		{ID: PTPFirmwareVersion, Access: backend.AccessRead, Value: le32(0x01000100)},
		{ID: PTPCameraOutput, Access: rw, Value: le8(uint8(PTPOutputLCD))},
		{ID: PTPRotationAngle, Access: backend.AccessRead, Value: le16(0)},
	}
	return c
}

// LegacySimConfig returns a simulated camera for the legacy profile.
// Shooting mode, aperture and shutter speed refuse enumeration like the
// real SDK does for these models.
func LegacySimConfig(model string) sim.Config {
	notSupported := backend.NewError(sim.Component, "EnumerateProperty", backend.CodeNotSupported)

	c := sim.DefaultConfig()
	c.Info = backend.DeviceInfo{Vendor: "Simulated", Model: model, Serial: "1234567890", Firmware: "1.1.0.0"}
	c.LiveViewProperty = LegacyID(property.TypeLiveViewOutput)
	c.LiveViewPCBit = LegacyOutputPC
	c.Properties = []sim.Property{
		{ID: LegacyID(property.TypeShootingMode), Access: rwe, Value: le16(0x0001), EnumErr: notSupported},
		{ID: LegacyID(property.TypeAv), Access: rwe, Value: le16(0x20), EnumErr: notSupported},
		{ID: LegacyID(property.TypeTv), Access: rwe, Value: le16(0x68), EnumErr: notSupported},
		{ID: LegacyID(property.TypeExposureCompensation), Access: rwe, Value: le8(0x18), Values: le8s(0x08, 0x10, 0x18, 0x20, 0x28)},
		{ID: LegacyID(property.TypeWhiteBalance), Access: rwe, Value: le16(0), Values: le16s(0, 1, 2, 3, 4, 5, 6)},
		{ID: LegacyID(property.TypeDriveMode), Access: rwe, Value: le16(0), Values: le16s(0, 1, 2)},
		{ID: LegacyID(property.TypeFlashMode), Access: rwe, Value: le16(1), Values: le16s(0, 1, 2, 3)},
		{ID: LegacyISOSpeed, Access: rwe, Value: le16(0x48), Values: le16s(0x40, 0x48, 0x50, 0x58)},
		{ID: LegacyMeteringMode, Access: rwe, Value: le16(3), Values: le16s(1, 3, 5)},
		{ID: LegacyAFMode, Access: rwe, Value: le16(0), Values: le16s(0, 1)},
		{ID: LegacyFlashComp, Access: rwe, Value: le16(0x18), Values: le16s(0x10, 0x18, 0x20)},
		{ID: LegacyID(property.TypeCurrentZoomPos), Access: backend.AccessWrite, Value: le32(0)},
		{ID: LegacyID(property.TypeSaveTo), Access: backend.AccessWrite, Value: le32(2)},
		{ID: LegacyID(property.TypeAvailableShots), Access: backend.AccessRead, Value: le32(187)},
		{ID: LegacyID(property.TypeBatteryLevel), Access: backend.AccessRead, Value: le32(0xffffffff)},
		{ID: LegacySelfTimer, Access: rw, Value: le16(0)},
		{ID: LegacyID(property.TypeModelName), Access: backend.AccessRead, Value: cstring(model)},
		{ID: LegacyID(property.TypeOwner), Access: rw, Value: cstring("")},
		{ID: LegacyID(property.TypeLiveViewOutput), Access: backend.AccessWrite, Value: le32(0)},
		{ID: LegacyRotation, Access: backend.AccessRead, Value: le16(0)},
	}
	return c
}

// NewSimModule returns a module with one simulated camera per built-in
// profile. An empty name selects sim.ModuleName.
func NewSimModule(name string) *sim.Module {
	m := sim.NewModule(name)
	m.Add(backend.Descriptor{ID: SimPTPID, Profile: PTPName}, PTPSimConfig("PowerShot S45"))
	m.Add(backend.Descriptor{ID: SimLegacyID, Profile: LegacyName}, LegacySimConfig("PowerShot G2"))
	return m
}
