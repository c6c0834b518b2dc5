package property

import (
	"log/slog"
	"strings"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/backend"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/variant"
)

// Type is a backend neutral property identifier.
type Type uint16

const (
	TypeUnknown Type = iota
	TypeShootingMode
	TypeDriveMode
	TypeISOSpeed
	TypeMeteringMode
	TypeAFMode
	TypeAv
	TypeTv
	TypeExposureCompensation
	TypeFlashCompensation
	TypeFlashMode
	TypeWhiteBalance
	TypeFocalLength
	TypeAvailableShots
	TypeSaveTo
	TypeBatteryLevel
	TypeBatteryQuality
	TypeImageFormat
	TypeCurrentZoomPos
	TypeLiveViewOutput
	TypeModelName
	TypeSerialNumber
	TypeFirmwareVersion
	TypeOwner
	TypeDateTime
)

var typeNames = map[Type]string{
	TypeShootingMode:         "ShootingMode",
	TypeDriveMode:            "DriveMode",
	TypeISOSpeed:             "ISO",
	TypeMeteringMode:         "MeteringMode",
	TypeAFMode:               "AFMode",
	TypeAv:                   "Av",
	TypeTv:                   "Tv",
	TypeExposureCompensation: "ExposureCompensation",
	TypeFlashCompensation:    "FlashCompensation",
	TypeFlashMode:            "FlashMode",
	TypeWhiteBalance:         "WhiteBalance",
	TypeFocalLength:          "FocalLength",
	TypeAvailableShots:       "AvailableShots",
	TypeSaveTo:               "SaveTo",
	TypeBatteryLevel:         "BatteryLevel",
	TypeBatteryQuality:       "BatteryQuality",
	TypeImageFormat:          "ImageFormat",
	TypeCurrentZoomPos:       "CurrentZoomPos",
	TypeLiveViewOutput:       "LiveViewOutput",
	TypeModelName:            "ModelName",
	TypeSerialNumber:         "SerialNumber",
	TypeFirmwareVersion:      "FirmwareVersion",
	TypeOwner:                "Owner",
	TypeDateTime:             "DateTime",
}

// String returns the neutral property name.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// ParseType returns the type with the given neutral name, ignoring case.
func ParseType(name string) (Type, bool) {
	for t, n := range typeNames {
		if strings.EqualFold(n, name) {
			return t, true
		}
	}
	return TypeUnknown, false
}

// Group separates device properties from image (shooting) properties.
type Group uint8

const (
	GroupDevice Group = iota
	GroupImage
)

// String returns the group name.
func (g Group) String() string {
	switch g {
	case GroupDevice:
		return "device"
	case GroupImage:
		return "image"
	default:
		return "unknown"
	}
}

// Codec converts between raw backend bytes and values.
type Codec struct {
	Decode func(raw []byte) (variant.Variant, error)
	Encode func(v variant.Variant) ([]byte, error)
}

// Formatter renders a value as display text.
type Formatter func(v variant.Variant) string

// Descriptor is one row of a property table.
type Descriptor struct {
	// Type is the neutral id. TypeUnknown rows are only reachable by backend id.
	Type Type

	// ID is the backend property id.
	ID uint32

	// Name is the human readable property name.
	Name string

	// Access holds the static read, write and enumerate flags.
	Access backend.Access

	Codec Codec

	// Default is returned for Local properties that were never written and
	// fixes the kind of fallback enumeration values.
	Default variant.Variant

	// Format renders display text. Nil uses the value's own formatting.
	Format Formatter

	// Local marks properties whose current value is kept as a side value
	// because the backend cannot read it back.
	Local bool

	Group Group
}

// Value is the result of a property query.
type Value struct {
	Backend  string          `json:"backend"`
	ID       uint32          `json:"id"`
	Value    variant.Variant `json:"-"`
	ReadOnly bool            `json:"readOnly"`
}

// LogValue implements slog.LogValuer.
func (v Value) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", v.Backend),
		slog.Any("id", v.ID),
		slog.String("value", v.Value.String()),
		slog.Bool("readOnly", v.ReadOnly),
	)
}
