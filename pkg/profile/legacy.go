package profile

import (
	"github.com/vividos/RemotePhotoTool-sub000/pkg/backend"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/camera"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/property"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/variant"
)

// LegacyName is the name of the release-control profile of older cameras.
const LegacyName = "legacy"

// LegacyID returns the backend id of a property the legacy SDK exposes
// through a dedicated call instead of a release setting.
func LegacyID(t property.Type) uint32 {
	return 0x00010000 + uint32(t)
}

// Release setting ids of the legacy SDK.
const (
	LegacySelfTimer    uint32 = 0x00000001
	LegacyMeteringMode uint32 = 0x08000004
	LegacyAFMode       uint32 = 0x00000007
	LegacyISOSpeed     uint32 = 0x0800000c
	LegacyFlashComp    uint32 = 0x0800000d
	LegacyRotation     uint32 = 0x00000f00
)

// Viewfinder output bits of the legacy live-view switch.
const (
	LegacyOutputLCD   uint32 = 0x01
	LegacyOutputPC    uint32 = 0x02
	LegacyOutputVideo uint32 = 0x04
)

var legacyDriveModeText = property.LookupTable{
	0: "Single frame", 1: "Continuous", 2: "Self timer",
}

var legacyWhiteBalanceText = property.LookupTable{
	0: "Auto", 1: "Daylight", 2: "Cloudy", 3: "Tungsten", 4: "Fluorescent",
	5: "Flash", 6: "Custom", 7: "Black and white", 8: "Shade",
	0xffff: "Invalid",
}

var legacyFlashModeText = property.LookupTable{
	0: "Off", 1: "Auto", 2: "On", 3: "Red-eye suppression",
	4: "Low-speed synchronization", 5: "Auto with red-eye", 6: "On with red-eye",
}

// LegacyTable is the property table of the legacy release-control family.
// The SDK cannot read back the save target, the zoom position or the
// viewfinder switch, so those are kept locally.
var LegacyTable = property.MustTable(LegacyName,
	property.Descriptor{Type: property.TypeShootingMode, ID: LegacyID(property.TypeShootingMode), Name: "Shooting mode",
		Access: rwe, Codec: property.UInt16Codec, Default: u16,
		Format: property.LegacyShootingModeText.Formatter(), Group: property.GroupImage},
	property.Descriptor{Type: property.TypeAv, ID: LegacyID(property.TypeAv), Name: "Aperture",
		Access: rwe, Codec: property.UInt16Codec, Default: u16,
		Format: property.FormatAperture, Group: property.GroupImage},
	property.Descriptor{Type: property.TypeTv, ID: LegacyID(property.TypeTv), Name: "Shutter speed",
		Access: rwe, Codec: property.UInt16Codec, Default: u16,
		Format: property.FormatShutterSpeed, Group: property.GroupImage},
	property.Descriptor{Type: property.TypeExposureCompensation, ID: LegacyID(property.TypeExposureCompensation), Name: "Exposure compensation",
		Access: rwe, Codec: property.UInt8Codec, Default: u8,
		Format: property.FormatLegacyCompensation, Group: property.GroupImage},
	property.Descriptor{Type: property.TypeWhiteBalance, ID: LegacyID(property.TypeWhiteBalance), Name: "White balance",
		Access: rwe, Codec: property.UInt16Codec, Default: u16,
		Format: legacyWhiteBalanceText.Formatter(), Group: property.GroupImage},
	property.Descriptor{Type: property.TypeDriveMode, ID: LegacyID(property.TypeDriveMode), Name: "Drive mode",
		Access: rwe, Codec: property.UInt16Codec, Default: u16,
		Format: legacyDriveModeText.Formatter(), Group: property.GroupImage},
	property.Descriptor{Type: property.TypeFlashMode, ID: LegacyID(property.TypeFlashMode), Name: "Flash mode",
		Access: rwe, Codec: property.UInt16Codec, Default: u16,
		Format: legacyFlashModeText.Formatter(), Group: property.GroupImage},
	property.Descriptor{Type: property.TypeISOSpeed, ID: LegacyISOSpeed, Name: "ISO speed",
		Access: rwe, Codec: property.UInt16Codec, Default: u16,
		Format: property.FormatISO, Group: property.GroupImage},
	property.Descriptor{Type: property.TypeMeteringMode, ID: LegacyMeteringMode, Name: "Metering mode",
		Access: rwe, Codec: property.UInt16Codec, Default: u16,
		Format: property.MeteringModeText.Formatter(), Group: property.GroupImage},
	property.Descriptor{Type: property.TypeAFMode, ID: LegacyAFMode, Name: "AF mode",
		Access: rwe, Codec: property.UInt16Codec, Default: u16,
		Format: property.AFModeText.Formatter(), Group: property.GroupImage},
	property.Descriptor{Type: property.TypeFlashCompensation, ID: LegacyFlashComp, Name: "Flash exposure compensation",
		Access: rwe, Codec: property.UInt16Codec, Default: u16,
		Format: property.FormatLegacyCompensation, Group: property.GroupImage},
	property.Descriptor{Type: property.TypeCurrentZoomPos, ID: LegacyID(property.TypeCurrentZoomPos), Name: "Current zoom pos",
		Access: rw, Codec: property.UInt32Codec, Default: u32, Local: true,
		Format: property.FormatDecimal, Group: property.GroupImage},
	property.Descriptor{Type: property.TypeSaveTo, ID: LegacyID(property.TypeSaveTo), Name: "Save to",
		Access: rw, Codec: property.UInt32Codec, Default: variant.Of(uint32(camera.SaveToHost)), Local: true,
		Format: property.SaveToText.Formatter(), Group: property.GroupImage},
	property.Descriptor{Type: property.TypeAvailableShots, ID: LegacyID(property.TypeAvailableShots), Name: "Available shots",
		Access: ro, Codec: property.UInt32Codec, Default: u32,
		Format: property.FormatDecimal, Group: property.GroupImage},
	property.Descriptor{Type: property.TypeBatteryLevel, ID: LegacyID(property.TypeBatteryLevel), Name: "Battery level",
		Access: ro, Codec: property.Int32Codec, Default: variant.Of(int32(0)),
		Format: property.FormatBatteryLevel, Group: property.GroupImage},
	property.Descriptor{ID: LegacySelfTimer, Name: "Self timer",
		Access: rw, Codec: property.UInt16Codec, Default: u16,
		Format: property.FormatDecimal, Group: property.GroupImage},
	property.Descriptor{Type: property.TypeModelName, ID: LegacyID(property.TypeModelName), Name: "Model name",
		Access: ro, Codec: property.StringCodec, Default: variant.Of(""), Group: property.GroupDevice},
	property.Descriptor{Type: property.TypeOwner, ID: LegacyID(property.TypeOwner), Name: "Owner",
		Access: rw, Codec: property.StringCodec, Default: variant.Of(""), Group: property.GroupDevice},
	property.Descriptor{Type: property.TypeLiveViewOutput, ID: LegacyID(property.TypeLiveViewOutput), Name: "Viewfinder output",
		Access: rw, Codec: property.UInt32Codec, Default: u32, Local: true,
		Format: property.LiveViewOutputText.Formatter(), Group: property.GroupDevice},
	property.Descriptor{ID: LegacyRotation, Name: "Rotation angle",
		Access: ro, Codec: property.UInt16Codec, Default: u16,
		Format: property.FormatDecimal, Group: property.GroupDevice},
)

// Legacy returns the profile of the legacy release-control family.
func Legacy() *camera.Profile {
	return &camera.Profile{
		Name:  LegacyName,
		Table: LegacyTable,
		ShootingModes: map[camera.ShootingMode]uint32{
			camera.ShootingModeP:  0x0001,
			camera.ShootingModeTv: 0x0002,
			camera.ShootingModeAv: 0x0003,
			camera.ShootingModeM:  0x0004,
		},
		Commands: map[camera.CameraCommand][]backend.Command{
			camera.CommandAdjustFocus: {backend.CommandShutterHalfway, backend.CommandShutterOff},
		},
		LiveView: camera.LiveViewOutput{
			Type:  property.TypeLiveViewOutput,
			TFT:   LegacyOutputLCD,
			PC:    LegacyOutputPC,
			Video: LegacyOutputVideo,
		},
		Release: true,
		UILock:  true,
		AFLock:  true,
	}
}
