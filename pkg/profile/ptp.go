package profile

import (
	"github.com/vividos/RemotePhotoTool-sub000/pkg/backend"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/camera"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/property"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/variant"
)

// PTPName is the name of the PTP property-table profile.
const PTPName = "ptp"

// Device property codes of the PTP family.
const (
	PTPBatteryKind     uint32 = 0xD002
	PTPBatteryStatus   uint32 = 0xD003
	PTPImageQuality    uint32 = 0xD006
	PTPImageSize       uint32 = 0xD008
	PTPFlashMode       uint32 = 0xD00A
	PTPShootingMode    uint32 = 0xD00C
	PTPDriveMode       uint32 = 0xD00E
	PTPMeteringMode    uint32 = 0xD010
	PTPWhiteBalance    uint32 = 0xD013
	PTPAFMode          uint32 = 0xD015
	PTPISOSpeed        uint32 = 0xD01C
	PTPAperture        uint32 = 0xD01D
	PTPShutterSpeed    uint32 = 0xD01E
	PTPExpCompensation uint32 = 0xD01F
	PTPFlashComp       uint32 = 0xD020
	PTPFocalLength     uint32 = 0xD025
	PTPCaptureTransfer uint32 = 0xD029
	PTPZoom            uint32 = 0xD02A
	PTPFirmwareVersion uint32 = 0xD031
	PTPCameraModel     uint32 = 0xD032
	PTPCameraOwner     uint32 = 0xD033
	PTPCameraOutput    uint32 = 0xD036
	PTPRotationAngle   uint32 = 0xD043
)

// Camera output bits of PTPCameraOutput.
const (
	PTPOutputLCD   uint32 = 0x01
	PTPOutputPC    uint32 = 0x02
	PTPOutputVideo uint32 = 0x04
)

// ptpSaveTargets are the capture transfer modes. Storing on both sides has
// its own mode.
var ptpSaveTargets = map[camera.SaveTarget]uint32{
	camera.SaveToHost:   0x0002,
	camera.SaveToCamera: 0x0008,
	camera.SaveToBoth:   0x000a,
}

var ptpSaveToText = property.LookupTable{
	0x0002: "Host", 0x0008: "Camera", 0x000a: "Camera and Host",
}

var ptpImageSizeText = property.LookupTable{
	0: "Large", 1: "Medium 1", 2: "Small", 5: "Medium 2", 7: "Medium 3",
}

var ptpImageQualityText = property.LookupTable{
	2: "Normal", 3: "Fine", 4: "Lossless", 5: "Superfine",
}

const (
	rw  = backend.AccessRead | backend.AccessWrite
	rwe = backend.AccessRead | backend.AccessWrite | backend.AccessEnum
	ro  = backend.AccessRead
)

var u8, u16, u32 = variant.Of(uint8(0)), variant.Of(uint16(0)), variant.Of(uint32(0))

// PTPTable is the property table of the PTP family.
var PTPTable = property.MustTable(PTPName,
	property.Descriptor{Type: property.TypeShootingMode, ID: PTPShootingMode, Name: "Shooting mode",
		Access: rwe, Codec: property.UInt8Codec, Default: u8,
		Format: property.LegacyShootingModeText.Formatter(), Group: property.GroupImage},
	property.Descriptor{Type: property.TypeDriveMode, ID: PTPDriveMode, Name: "Drive mode",
		Access: rwe, Codec: property.UInt8Codec, Default: u8,
		Format: property.DriveModeText.Formatter(), Group: property.GroupImage},
	property.Descriptor{Type: property.TypeISOSpeed, ID: PTPISOSpeed, Name: "ISO speed",
		Access: rwe, Codec: property.UInt16Codec, Default: u16,
		Format: property.FormatISO, Group: property.GroupImage},
	property.Descriptor{Type: property.TypeMeteringMode, ID: PTPMeteringMode, Name: "Metering mode",
		Access: rwe, Codec: property.UInt8Codec, Default: u8,
		Format: property.MeteringModeText.Formatter(), Group: property.GroupImage},
	property.Descriptor{Type: property.TypeAFMode, ID: PTPAFMode, Name: "AF mode",
		Access: rwe, Codec: property.UInt8Codec, Default: u8,
		Format: property.AFModeText.Formatter(), Group: property.GroupImage},
	property.Descriptor{Type: property.TypeAv, ID: PTPAperture, Name: "Aperture",
		Access: rwe, Codec: property.UInt16Codec, Default: u16,
		Format: property.FormatAperture, Group: property.GroupImage},
	property.Descriptor{Type: property.TypeTv, ID: PTPShutterSpeed, Name: "Shutter speed",
		Access: rwe, Codec: property.UInt16Codec, Default: u16,
		Format: property.FormatShutterSpeed, Group: property.GroupImage},
	property.Descriptor{Type: property.TypeExposureCompensation, ID: PTPExpCompensation, Name: "Exposure compensation",
		Access: rwe, Codec: property.UInt8Codec, Default: u8,
		Format: property.FormatLegacyCompensation, Group: property.GroupImage},
	property.Descriptor{Type: property.TypeFlashCompensation, ID: PTPFlashComp, Name: "Flash exposure compensation",
		Access: rwe, Codec: property.UInt8Codec, Default: u8,
		Format: property.FormatLegacyCompensation, Group: property.GroupImage},
	property.Descriptor{Type: property.TypeFlashMode, ID: PTPFlashMode, Name: "Flash mode",
		Access: rwe, Codec: property.UInt8Codec, Default: u8,
		Format: property.FlashModeText.Formatter(), Group: property.GroupImage},
	property.Descriptor{Type: property.TypeWhiteBalance, ID: PTPWhiteBalance, Name: "White balance",
		Access: rwe, Codec: property.UInt8Codec, Default: u8,
		Format: property.WhiteBalanceText.Formatter(), Group: property.GroupImage},
	property.Descriptor{Type: property.TypeFocalLength, ID: PTPFocalLength, Name: "Focal length",
		Access: ro, Codec: property.UInt32Codec, Default: u32,
		Format: property.FormatFocalLength, Group: property.GroupImage},
	property.Descriptor{Type: property.TypeSaveTo, ID: PTPCaptureTransfer, Name: "Save to",
		Access: rw, Codec: property.UInt16Codec, Default: u16,
		Format: ptpSaveToText.Formatter(), Group: property.GroupImage},
	property.Descriptor{Type: property.TypeCurrentZoomPos, ID: PTPZoom, Name: "Current zoom pos",
		Access: rwe, Codec: property.UInt16Codec, Default: u16,
		Format: property.FormatDecimal, Group: property.GroupImage},
	property.Descriptor{Type: property.TypeImageFormat, ID: PTPImageSize, Name: "Image size",
		Access: rwe, Codec: property.UInt8Codec, Default: u8,
		Format: ptpImageSizeText.Formatter(), Group: property.GroupImage},
	property.Descriptor{ID: PTPImageQuality, Name: "Image quality",
		Access: rwe, Codec: property.UInt8Codec, Default: u8,
		Format: ptpImageQualityText.Formatter(), Group: property.GroupImage},
	property.Descriptor{Type: property.TypeBatteryQuality, ID: PTPBatteryStatus, Name: "Battery status",
		Access: ro, Codec: property.UInt8Codec, Default: u8,
		Format: property.BatteryQualityText.Formatter(), Group: property.GroupDevice},
	property.Descriptor{ID: PTPBatteryKind, Name: "Battery kind",
		Access: ro, Codec: property.UInt8Codec, Default: u8, Group: property.GroupDevice},
	property.Descriptor{Type: property.TypeModelName, ID: PTPCameraModel, Name: "Camera model",
		Access: ro, Codec: property.StringCodec, Default: variant.Of(""), Group: property.GroupDevice},
	property.Descriptor{Type: property.TypeOwner, ID: PTPCameraOwner, Name: "Camera owner",
		Access: rw, Codec: property.StringCodec, Default: variant.Of(""), Group: property.GroupDevice},
	property.Descriptor{Type: property.TypeFirmwareVersion, ID: PTPFirmwareVersion, Name: "Firmware version",
		Access: ro, Codec: property.UInt32Codec, Default: u32, Group: property.GroupDevice},
	property.Descriptor{Type: property.TypeLiveViewOutput, ID: PTPCameraOutput, Name: "Camera output",
		Access: rw, Codec: property.UInt8Codec, Default: u8,
		Format: property.LiveViewOutputText.Formatter(), Group: property.GroupDevice},
	property.Descriptor{ID: PTPRotationAngle, Name: "Rotation angle",
		Access: ro, Codec: property.UInt16Codec, Default: u16,
		Format: property.FormatDecimal, Group: property.GroupDevice},
)

// PTP returns the profile of the PTP property-table family.
func PTP() *camera.Profile {
	return &camera.Profile{
		Name:  PTPName,
		Table: PTPTable,
		ShootingModes: map[camera.ShootingMode]uint32{
			camera.ShootingModeP:  0x01,
			camera.ShootingModeTv: 0x02,
			camera.ShootingModeAv: 0x03,
			camera.ShootingModeM:  0x04,
		},
		SaveTargets: ptpSaveTargets,
		Commands: map[camera.CameraCommand][]backend.Command{
			camera.CommandAdjustFocus:        {backend.CommandShutterHalfway, backend.CommandShutterOff},
			camera.CommandAdjustWhiteBalance: {backend.CommandWhiteBalance},
		},
		LiveView: camera.LiveViewOutput{
			Type:  property.TypeLiveViewOutput,
			TFT:   PTPOutputLCD,
			PC:    PTPOutputPC,
			Video: PTPOutputVideo,
		},
		Release:                true,
		Bulb:                   true,
		UILock:                 true,
		ReleaseWhileViewfinder: true,
	}
}
