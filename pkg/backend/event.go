package backend

// EventKind identifies a driver event.
type EventKind uint8

const (
	EventPropertyChanged EventKind = iota + 1
	EventPropertyDescChanged
	EventObjectReady
	EventReleaseFailed
	EventShutdown
	EventRotation
	EventCardSlotOpen
	EventBulbExposureTime
	EventInternalError
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventPropertyChanged:
		return "PROPERTY_CHANGED"
	case EventPropertyDescChanged:
		return "PROPERTY_DESC_CHANGED"
	case EventObjectReady:
		return "OBJECT_READY"
	case EventReleaseFailed:
		return "RELEASE_FAILED"
	case EventShutdown:
		return "SHUTDOWN"
	case EventRotation:
		return "ROTATION"
	case EventCardSlotOpen:
		return "CARD_SLOT_OPEN"
	case EventBulbExposureTime:
		return "BULB_EXPOSURE_TIME"
	case EventInternalError:
		return "INTERNAL_ERROR"
	default:
		return "UNKNOWN"
	}
}

// Event is an asynchronous notification from a driver.
type Event struct {
	Kind EventKind `cbor:"1,keyasint"`

	// PropertyID is set for property events.
	PropertyID uint32 `cbor:"2,keyasint,omitempty"`

	// Object is set for EventObjectReady.
	Object ObjectInfo `cbor:"3,keyasint,omitempty"`

	// Value carries the numeric payload of state events (rotation angle,
	// bulb seconds, status code).
	Value uint32 `cbor:"4,keyasint,omitempty"`
}

// IsProperty reports whether the event is a property event.
func (e Event) IsProperty() bool {
	return e.Kind == EventPropertyChanged || e.Kind == EventPropertyDescChanged
}
