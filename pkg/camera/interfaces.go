package camera

import (
	"time"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/property"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/variant"
)

// SourceDevice is an open camera.
type SourceDevice interface {
	ModelName() string
	SerialNumber() string
	Capability(c SourceCapability) bool
	EnumDeviceProperties() ([]uint32, error)
	GetDeviceProperty(id uint32) (property.Value, error)
	EnterReleaseControl() (ReleaseControl, error)
	Close()
}

// ReleaseControl is a remote release session.
type ReleaseControl interface {
	GetCapability(c ReleaseCapability) bool
	SetReleaseSettings(s ShutterReleaseSettings) error
	ReleaseSettings() ShutterReleaseSettings

	EnumImageProperties() ([]uint32, error)
	MapImagePropertyTypeToID(t property.Type) (uint32, error)
	MapShootingModeToImagePropertyValue(m ShootingMode) (variant.Variant, error)
	GetImageProperty(id uint32) (property.Value, error)
	SetImageProperty(id uint32, v variant.Variant) error
	EnumImagePropertyValues(id uint32) ([]variant.Variant, error)

	StartViewfinder() (Viewfinder, error)
	NumAvailableShots() (uint32, error)
	SendCommand(cmd CameraCommand) error
	Release() error
	StartBulb() (BulbReleaseControl, error)

	AddPropertyEventHandler(fn func(PropertyEvent)) int
	RemovePropertyEventHandler(id int)
	AddStateEventHandler(fn func(StateEvent)) int
	RemoveStateEventHandler(id int)
	AddDownloadEventHandler(fn func(DownloadEvent)) int
	RemoveDownloadEventHandler(id int)

	State() ReleaseState
	Close()
}

// Viewfinder is a live-view stream.
type Viewfinder interface {
	GetCapability(c ViewfinderCapability) bool
	SetOutputType(t OutputType) error
	SetAvailImageHandler(fn func(frame []byte)) error
	GetHistogram(t HistogramType) []uint32
	Close()
}

// BulbReleaseControl is an open bulb exposure.
type BulbReleaseControl interface {
	Elapsed() time.Duration
	Stop() error
	StopAfter(d time.Duration)
	Active() bool
}

var (
	_ SourceDevice       = (*Device)(nil)
	_ ReleaseControl     = (*RemoteReleaseControl)(nil)
	_ Viewfinder         = (*RemoteViewfinder)(nil)
	_ BulbReleaseControl = (*BulbRelease)(nil)
)
