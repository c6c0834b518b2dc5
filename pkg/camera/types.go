package camera

import (
	"github.com/vividos/RemotePhotoTool-sub000/pkg/backend"
)

// SourceCapability is a capability of an opened device.
type SourceCapability uint8

const (
	CapRemoteReleaseControl SourceCapability = iota
	CapRemoteViewfinder
	CapCameraFileSystem
)

// String returns the capability name.
func (c SourceCapability) String() string {
	switch c {
	case CapRemoteReleaseControl:
		return "RemoteReleaseControl"
	case CapRemoteViewfinder:
		return "RemoteViewfinder"
	case CapCameraFileSystem:
		return "CameraFileSystem"
	default:
		return "Unknown"
	}
}

// ReleaseCapability is a capability of a release control session.
type ReleaseCapability uint8

const (
	CapChangeShootingParameter ReleaseCapability = iota
	CapChangeShootingMode
	CapZoomControl
	CapViewfinder
	CapReleaseWhileViewfinder
	CapAFLock
	CapBulbMode
	CapUILock
)

var releaseCapabilityNames = [...]string{
	CapChangeShootingParameter: "ChangeShootingParameter",
	CapChangeShootingMode:      "ChangeShootingMode",
	CapZoomControl:             "ZoomControl",
	CapViewfinder:              "Viewfinder",
	CapReleaseWhileViewfinder:  "ReleaseWhileViewfinder",
	CapAFLock:                  "AFLock",
	CapBulbMode:                "BulbMode",
	CapUILock:                  "UILock",
}

// String returns the capability name.
func (c ReleaseCapability) String() string {
	if int(c) < len(releaseCapabilityNames) {
		return releaseCapabilityNames[c]
	}
	return "Unknown"
}

// ViewfinderCapability is a capability of a viewfinder stream.
type ViewfinderCapability uint8

const (
	CapOutputTypeVideoOut ViewfinderCapability = iota
	CapGetHistogram
)

// PropertyEventKind distinguishes value changes from description changes.
type PropertyEventKind uint8

const (
	PropertyChanged PropertyEventKind = iota
	PropertyDescChanged
)

// String returns the event kind name.
func (k PropertyEventKind) String() string {
	if k == PropertyDescChanged {
		return "PropertyDescChanged"
	}
	return "PropertyChanged"
}

// PropertyEvent notifies a property change. ID 0 means all properties
// should be refreshed.
type PropertyEvent struct {
	Kind PropertyEventKind
	ID   uint32
}

// StateEventKind identifies a camera state notification.
type StateEventKind uint8

const (
	StateCameraShutdown StateEventKind = iota
	StateRotationAngle
	StateMemoryCardSlotOpen
	StateReleaseError
	StateBulbExposureTime
	StateInternalError
)

var stateEventNames = [...]string{
	StateCameraShutdown:     "CameraShutdown",
	StateRotationAngle:      "RotationAngle",
	StateMemoryCardSlotOpen: "MemoryCardSlotOpen",
	StateReleaseError:       "ReleaseError",
	StateBulbExposureTime:   "BulbExposureTime",
	StateInternalError:      "InternalError",
}

// String returns the event kind name.
func (k StateEventKind) String() string {
	if int(k) < len(stateEventNames) {
		return stateEventNames[k]
	}
	return "Unknown"
}

// StateEvent notifies a camera state change. Value carries the status
// code, rotation angle or bulb exposure seconds.
type StateEvent struct {
	Kind  StateEventKind
	Value uint32
}

// DownloadEventKind is the phase of an image transfer.
type DownloadEventKind uint8

const (
	DownloadStarted DownloadEventKind = iota
	DownloadInProgress
	DownloadFinished
)

// String returns the event kind name.
func (k DownloadEventKind) String() string {
	switch k {
	case DownloadStarted:
		return "Started"
	case DownloadInProgress:
		return "InProgress"
	case DownloadFinished:
		return "Finished"
	default:
		return "Unknown"
	}
}

// DownloadEvent notifies transfer progress of a captured image.
type DownloadEvent struct {
	Kind     DownloadEventKind
	Object   backend.ObjectInfo
	Percent  uint
	Filename string
}

// CameraCommand is a generic camera command.
type CameraCommand uint8

const (
	CommandAdjustFocus CameraCommand = iota
	CommandAdjustWhiteBalance
)

// String returns the command name.
func (c CameraCommand) String() string {
	switch c {
	case CommandAdjustFocus:
		return "AdjustFocus"
	case CommandAdjustWhiteBalance:
		return "AdjustWhiteBalance"
	default:
		return "Unknown"
	}
}

// ShootingMode is a generic shooting mode mapped per profile onto the
// backend value of the shooting mode property.
type ShootingMode uint8

const (
	ShootingModeP ShootingMode = iota
	ShootingModeTv
	ShootingModeAv
	ShootingModeM
)

// String returns the mode name.
func (m ShootingMode) String() string {
	switch m {
	case ShootingModeP:
		return "P"
	case ShootingModeTv:
		return "Tv"
	case ShootingModeAv:
		return "Av"
	case ShootingModeM:
		return "M"
	default:
		return "Unknown"
	}
}

// OutputType selects where live-view frames are shown besides the host.
type OutputType uint8

const (
	OutputUndefined OutputType = iota
	OutputLCD
	OutputVideoOut
	OutputOff
)

// String returns the output name.
func (t OutputType) String() string {
	switch t {
	case OutputLCD:
		return "LCD"
	case OutputVideoOut:
		return "VideoOut"
	case OutputOff:
		return "Off"
	default:
		return "Undefined"
	}
}

// HistogramType selects a histogram channel.
type HistogramType uint8

const (
	HistogramLuminance HistogramType = iota
	HistogramRed
	HistogramGreen
	HistogramBlue
)

// String returns the channel name.
func (t HistogramType) String() string {
	switch t {
	case HistogramLuminance:
		return "Luminance"
	case HistogramRed:
		return "Red"
	case HistogramGreen:
		return "Green"
	case HistogramBlue:
		return "Blue"
	default:
		return "Unknown"
	}
}

// SaveTarget selects where captured images are stored.
type SaveTarget uint8

const (
	SaveToCamera SaveTarget = 1
	SaveToHost   SaveTarget = 2
	SaveToBoth   SaveTarget = 3
)

// String returns the target name.
func (t SaveTarget) String() string {
	switch t {
	case SaveToCamera:
		return "camera"
	case SaveToHost:
		return "host"
	case SaveToBoth:
		return "both"
	default:
		return "unknown"
	}
}

// ParseSaveTarget parses "camera", "host" or "both".
func ParseSaveTarget(s string) (SaveTarget, bool) {
	for _, t := range []SaveTarget{SaveToCamera, SaveToHost, SaveToBoth} {
		if t.String() == s {
			return t, true
		}
	}
	return 0, false
}

// ShutterReleaseSettings control where a released image ends up.
type ShutterReleaseSettings struct {
	SaveTarget SaveTarget

	// Filename is the host side path of the next image. A directory or an
	// empty name stores the image under its camera side name.
	Filename string

	// OnFinishedTransfer runs on the event goroutine after the Finished
	// download event. Filename holds the written path.
	OnFinishedTransfer func(ShutterReleaseSettings)
}

// ReleaseState is the state of the release state machine.
type ReleaseState uint8

const (
	ReleaseIdle ReleaseState = iota
	ReleaseReleasing
	ReleaseTransferring
	ReleaseError
)

// String returns the state name.
func (s ReleaseState) String() string {
	switch s {
	case ReleaseIdle:
		return "Idle"
	case ReleaseReleasing:
		return "Releasing"
	case ReleaseTransferring:
		return "Transferring"
	case ReleaseError:
		return "Error"
	default:
		return "Unknown"
	}
}

// SourceInfo describes an enumerated device.
type SourceInfo struct {
	Name       string
	Descriptor backend.Descriptor
}
