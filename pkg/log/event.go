package log

import (
	"time"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/variant"
)

// Event is one captured camera event.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the open device session (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Direction indicates whether the event came from the camera or went to it.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// Model and Serial identify the camera.
	Model  string `cbor:"6,keyasint,omitempty"`
	Serial string `cbor:"7,keyasint,omitempty"`

	// RemoteAddr is the bridge peer address (IP:port), if any.
	RemoteAddr string `cbor:"8,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Property *PropertyEvent     `cbor:"10,keyasint,omitempty"`
	State    *StateEvent        `cbor:"11,keyasint,omitempty"`
	Download *DownloadEvent     `cbor:"12,keyasint,omitempty"`
	Release  *ReleaseStateEvent `cbor:"13,keyasint,omitempty"`
	Error    *ErrorEventData    `cbor:"14,keyasint,omitempty"`
	Frame    *FrameEvent        `cbor:"15,keyasint,omitempty"`
}

// Direction indicates the direction of event flow.
type Direction uint8

const (
	// DirectionIn indicates an event reported by the camera.
	DirectionIn Direction = 0
	// DirectionOut indicates a request sent to the camera.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates where the event was captured.
type Layer uint8

const (
	// LayerDriver is the backend driver boundary.
	LayerDriver Layer = 0
	// LayerCamera is the device control layer (release control, viewfinder).
	LayerCamera Layer = 1
	// LayerBridge is the network bridge framing layer.
	LayerBridge Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerDriver:
		return "DRIVER"
	case LayerCamera:
		return "CAMERA"
	case LayerBridge:
		return "BRIDGE"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	CategoryProperty Category = 0
	CategoryState    Category = 1
	CategoryDownload Category = 2
	CategoryRelease  Category = 3
	CategoryError    Category = 4
	CategoryFrame    Category = 5
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryProperty:
		return "PROPERTY"
	case CategoryState:
		return "STATE"
	case CategoryDownload:
		return "DOWNLOAD"
	case CategoryRelease:
		return "RELEASE"
	case CategoryError:
		return "ERROR"
	case CategoryFrame:
		return "FRAME"
	default:
		return "UNKNOWN"
	}
}

// ParseCategory returns the category with the given name.
func ParseCategory(name string) (Category, bool) {
	for c := CategoryProperty; c <= CategoryFrame; c++ {
		if c.String() == name {
			return c, true
		}
	}
	return 0, false
}

// PropertyEvent captures a property change notification or a property write.
type PropertyEvent struct {
	// ID is the backend property id (0 means "refresh all").
	ID uint32 `cbor:"1,keyasint"`

	// Desc is set when the property description changed.
	Desc bool `cbor:"2,keyasint,omitempty"`

	// Value is the written value, for outgoing writes.
	Value *variant.Variant `cbor:"3,keyasint,omitempty"`
}

// StateEvent captures a camera state notification.
type StateEvent struct {
	// Kind is the state event name (ReleaseError, CameraShutdown, ...).
	Kind string `cbor:"1,keyasint"`

	// Value is the numeric payload (status code, angle, seconds).
	Value uint32 `cbor:"2,keyasint,omitempty"`
}

// DownloadEvent captures image transfer progress.
type DownloadEvent struct {
	// Kind is Started, InProgress or Finished.
	Kind string `cbor:"1,keyasint"`

	// Object is the camera side object name.
	Object string `cbor:"2,keyasint,omitempty"`

	// Percent is the transfer progress.
	Percent uint `cbor:"3,keyasint,omitempty"`

	// Filename is the host side file the object was written to.
	Filename string `cbor:"4,keyasint,omitempty"`
}

// ReleaseStateEvent captures release state machine transitions.
type ReleaseStateEvent struct {
	OldState string `cbor:"1,keyasint,omitempty"`
	NewState string `cbor:"2,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"3,keyasint,omitempty"`
}

// ErrorEventData captures failed backend calls and callback failures.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Code is the vendor status code (if applicable).
	Code *uint32 `cbor:"3,keyasint,omitempty"`

	// Op is the operation that failed.
	Op string `cbor:"4,keyasint,omitempty"`
}

// FrameEvent captures raw bridge frame data.
type FrameEvent struct {
	// Size is the frame size in bytes (including length prefix).
	Size int `cbor:"1,keyasint"`

	// Data is the raw frame bytes (may be truncated for large frames).
	Data []byte `cbor:"2,keyasint,omitempty"`

	// Truncated indicates if Data was truncated.
	Truncated bool `cbor:"3,keyasint,omitempty"`
}
