package backend

import "io"

// PropertyIDUnknown is reported in property events that refer to all properties.
const PropertyIDUnknown uint32 = 0xFFFF

// DeviceInfo describes an opened device.
type DeviceInfo struct {
	Vendor   string `cbor:"1,keyasint,omitempty" json:"vendor,omitempty"`
	Model    string `cbor:"2,keyasint,omitempty" json:"model"`
	Serial   string `cbor:"3,keyasint,omitempty" json:"serial,omitempty"`
	Firmware string `cbor:"4,keyasint,omitempty" json:"firmware,omitempty"`
}

// Access flags of a property as reported by the device.
type Access uint8

const (
	AccessRead Access = 1 << iota
	AccessWrite
	AccessEnum
)

// Has reports whether all flags in f are set.
func (a Access) Has(f Access) bool {
	return a&f == f
}

// String returns the flags as "rwe" with dashes for unset flags.
func (a Access) String() string {
	b := []byte("---")
	if a.Has(AccessRead) {
		b[0] = 'r'
	}
	if a.Has(AccessWrite) {
		b[1] = 'w'
	}
	if a.Has(AccessEnum) {
		b[2] = 'e'
	}
	return string(b)
}

// PropertyInfo is runtime property metadata reported by a driver.
type PropertyInfo struct {
	ID     uint32 `cbor:"1,keyasint"`
	Access Access `cbor:"2,keyasint"`
	Size   int    `cbor:"3,keyasint,omitempty"`
}

// Command is a device command sent with SendCommand.
type Command uint8

const (
	CommandUILock Command = iota + 1
	CommandUIUnlock
	CommandBulbStart
	CommandBulbEnd
	CommandShutterHalfway
	CommandShutterOff
	CommandWhiteBalance
	CommandZoomStep
)

// String returns the command name.
func (c Command) String() string {
	switch c {
	case CommandUILock:
		return "UI_LOCK"
	case CommandUIUnlock:
		return "UI_UNLOCK"
	case CommandBulbStart:
		return "BULB_START"
	case CommandBulbEnd:
		return "BULB_END"
	case CommandShutterHalfway:
		return "SHUTTER_HALFWAY"
	case CommandShutterOff:
		return "SHUTTER_OFF"
	case CommandWhiteBalance:
		return "WHITE_BALANCE"
	case CommandZoomStep:
		return "ZOOM_STEP"
	default:
		return "UNKNOWN"
	}
}

// HistogramChannel selects a live-view histogram.
type HistogramChannel uint8

const (
	HistogramLuminance HistogramChannel = iota
	HistogramRed
	HistogramGreen
	HistogramBlue
)

// HistogramBuckets is the number of buckets in a histogram channel.
// ReadHistogram returns 4 bytes per bucket, little-endian.
const HistogramBuckets = 256

// ObjectInfo identifies a captured object ready for transfer.
type ObjectInfo struct {
	Handle uint32 `cbor:"1,keyasint"`
	Name   string `cbor:"2,keyasint,omitempty"`
	Size   int64  `cbor:"3,keyasint,omitempty"`
}

// Cursor iterates enumerated property values.
type Cursor interface {
	// Count returns the number of values the device advertises.
	Count() int

	// Next returns the next raw value, or ErrNotAvailable at the end.
	Next() ([]byte, error)

	// Close releases the cursor.
	Close() error
}

// Driver is the raw I/O capability of one opened camera.
// Implementations need not be safe for concurrent use.
type Driver interface {
	// Open starts the session with the device.
	Open() error

	// Close ends the session.
	Close() error

	// Info returns device identification.
	Info() DeviceInfo

	// PropertyIDs lists the backend ids of all device properties.
	PropertyIDs() ([]uint32, error)

	// PropertyInfos lists runtime metadata for all properties.
	PropertyInfos() ([]PropertyInfo, error)

	// GetProperty reads the raw bytes of a property.
	GetProperty(id uint32) ([]byte, error)

	// SetProperty writes the raw bytes of a property.
	SetProperty(id uint32, data []byte) error

	// EnumerateProperty returns a cursor over the valid values of a property.
	EnumerateProperty(id uint32) (Cursor, error)

	// RegisterEventCallback installs the event callback. A nil fn removes it.
	// fn may be called from any goroutine.
	RegisterEventCallback(fn func(Event))

	// TriggerRelease fires the shutter.
	TriggerRelease() error

	// SendCommand sends a device command.
	SendCommand(cmd Command, param int32) error

	// Download transfers obj into w, reporting progress in percent.
	Download(obj ObjectInfo, w io.Writer, progress func(percent uint)) error

	// CancelDownload discards obj without transferring it.
	CancelDownload(obj ObjectInfo) error

	// PollLiveViewFrame returns the current live-view frame, or
	// ErrNotAvailable if no frame is ready.
	PollLiveViewFrame() ([]byte, error)

	// ReadHistogram returns HistogramBuckets little-endian uint32 values.
	ReadHistogram(ch HistogramChannel) ([]byte, error)

	// Idle services the driver's internal event loop while the caller waits.
	Idle()
}

// SliceCursor is a Cursor over values held in memory.
type SliceCursor struct {
	values [][]byte
	count  int
	pos    int
}

// NewSliceCursor returns a cursor over values. Count reports count, which
// may differ from len(values) to model devices that misreport it.
func NewSliceCursor(values [][]byte, count int) *SliceCursor {
	return &SliceCursor{values: values, count: count}
}

// Count implements Cursor.
func (c *SliceCursor) Count() int {
	return c.count
}

// Next implements Cursor.
func (c *SliceCursor) Next() ([]byte, error) {
	if c.pos >= len(c.values) {
		return nil, ErrNotAvailable
	}
	v := c.values[c.pos]
	c.pos++
	return v, nil
}

// Close implements Cursor.
func (c *SliceCursor) Close() error {
	return nil
}

var _ Cursor = (*SliceCursor)(nil)
