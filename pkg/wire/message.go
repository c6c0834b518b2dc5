package wire

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/backend"
)

// CBOR map keys shared by all messages.
const (
	KeyMessageType = 0
	KeyMessageID   = 1
)

// MessageID 0 is reserved for notifications and control messages.
const NotificationMessageID uint32 = 0

// ErrNoPayload is returned when decoding the payload of a message that has none.
var ErrNoPayload = errors.New("message has no payload")

// Request is a backend call from a client to the bridge.
//
// CBOR encoding:
//
//	{
//	  0: 1,            // MessageTypeRequest
//	  1: messageId,    // uint32, never 0
//	  2: operation,    // uint8
//	  3: device,       // string, device id (absent for Enumerate)
//	  4: payload       // operation-specific data
//	}
type Request struct {
	MessageID uint32
	Operation Operation
	Device    string
	Payload   cbor.RawMessage
}

// Validate checks if the request is valid.
func (r *Request) Validate() error {
	if r.MessageID == NotificationMessageID {
		return fmt.Errorf("messageId 0 is reserved for notifications")
	}
	if !r.Operation.IsValid() {
		return fmt.Errorf("invalid operation: %d", r.Operation)
	}
	if r.Operation.NeedsDevice() && r.Device == "" {
		return fmt.Errorf("%s: missing device id", r.Operation)
	}
	return nil
}

// DecodePayload decodes the request payload into v.
func (r *Request) DecodePayload(v any) error {
	return decodePayload(r.Payload, v)
}

// Response is the bridge's answer to a request.
//
// CBOR encoding:
//
//	{
//	  0: 2,            // MessageTypeResponse
//	  1: messageId,    // uint32, matches the request
//	  2: status,       // uint8
//	  3: payload,      // operation-specific result (if success)
//	  4: error         // ErrorPayload (if failed)
//	}
type Response struct {
	MessageID uint32
	Status    Status
	Payload   cbor.RawMessage
	Error     *ErrorPayload
}

// IsSuccess returns true if the response indicates success.
func (r *Response) IsSuccess() bool {
	return r.Status.IsSuccess()
}

// DecodePayload decodes the response payload into v.
func (r *Response) DecodePayload(v any) error {
	return decodePayload(r.Payload, v)
}

// Err converts a failed response into an error. Backend failures are
// returned as *backend.Error, NotAvailable as backend.ErrNotAvailable.
func (r *Response) Err() error {
	switch r.Status {
	case StatusSuccess:
		return nil
	case StatusNotAvailable:
		return backend.ErrNotAvailable
	case StatusBackendError:
		if r.Error != nil {
			return r.Error.Err()
		}
	}
	if r.Error != nil && r.Error.Message != "" {
		return fmt.Errorf("bridge: %s: %s", r.Status, r.Error.Message)
	}
	return fmt.Errorf("bridge: %s", r.Status)
}

// Notification carries asynchronous driver output for one device.
//
// CBOR encoding:
//
//	{
//	  0: 3,            // MessageTypeNotification
//	  1: 0,            // messageId 0 = notification
//	  2: device,       // string
//	  3: event,        // backend event (optional)
//	  4: progress      // download progress (optional)
//	}
type Notification struct {
	Device   string
	Event    *backend.Event
	Progress *Progress
}

// Progress reports the transfer progress of a running download.
type Progress struct {
	Handle  uint32 `cbor:"1,keyasint"`
	Percent uint   `cbor:"2,keyasint"`
}

// PropertyPayload addresses one property; Data is set for writes and
// get results.
type PropertyPayload struct {
	ID   uint32 `cbor:"1,keyasint"`
	Data []byte `cbor:"2,keyasint,omitempty"`
}

// EnumeratePayload is the result of EnumerateProperty. Count is the
// number of values the device advertises, which may differ from
// len(Values).
type EnumeratePayload struct {
	Count  int      `cbor:"1,keyasint"`
	Values [][]byte `cbor:"2,keyasint,omitempty"`
}

// CommandPayload is the argument of SendCommand.
type CommandPayload struct {
	Command backend.Command `cbor:"1,keyasint"`
	Param   int32           `cbor:"2,keyasint,omitempty"`
}

// HistogramPayload is the argument of ReadHistogram.
type HistogramPayload struct {
	Channel backend.HistogramChannel `cbor:"1,keyasint"`
}

// DataPayload carries raw bytes: property values, frames, histograms and
// downloaded objects.
type DataPayload struct {
	Data []byte `cbor:"1,keyasint"`
}

// ErrorPayload describes a failed call.
//
// CBOR encoding:
//
//	{
//	  1: message,        // string
//	  2: component,      // string, reporting layer of a backend error
//	  3: code,           // uint32, status code
//	  4: vendorSpecific, // bool
//	  5: op              // string, driver operation
//	}
type ErrorPayload struct {
	Message        string `cbor:"1,keyasint,omitempty"`
	Component      string `cbor:"2,keyasint,omitempty"`
	Code           uint32 `cbor:"3,keyasint,omitempty"`
	VendorSpecific bool   `cbor:"4,keyasint,omitempty"`
	Op             string `cbor:"5,keyasint,omitempty"`
}

// ErrorPayloadOf describes err. Backend errors keep their code.
func ErrorPayloadOf(err error) *ErrorPayload {
	if err == nil {
		return nil
	}
	p := &ErrorPayload{Message: err.Error()}
	var be *backend.Error
	if errors.As(err, &be) {
		p.Component = be.Component
		p.Code = be.Code
		p.VendorSpecific = be.VendorSpecific
		p.Op = be.Op
	}
	return p
}

// Err rebuilds the error. Payloads with a component become *backend.Error.
func (p *ErrorPayload) Err() error {
	if p.Component != "" {
		return &backend.Error{
			Component:      p.Component,
			Code:           p.Code,
			VendorSpecific: p.VendorSpecific,
			Op:             p.Op,
		}
	}
	return errors.New(p.Message)
}

// ControlMessage is a transport-level control message.
//
// CBOR encoding:
//
//	{
//	  0: 4,            // MessageTypeControl
//	  1: 0,
//	  2: type,         // uint8
//	  3: sequence      // uint32
//	}
type ControlMessage struct {
	Type     ControlMessageType
	Sequence uint32
}

// ControlMessageType represents the type of control message.
type ControlMessageType uint8

const (
	// ControlPing is sent to check connection liveness.
	ControlPing ControlMessageType = 1

	// ControlPong is the response to a ping.
	ControlPong ControlMessageType = 2

	// ControlClose initiates graceful connection close.
	ControlClose ControlMessageType = 3
)

// String returns the control message type name.
func (t ControlMessageType) String() string {
	switch t {
	case ControlPing:
		return "ping"
	case ControlPong:
		return "pong"
	case ControlClose:
		return "close"
	default:
		return "unknown"
	}
}

// EncodePayload encodes v for use as a request or response payload.
func EncodePayload(v any) (cbor.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	data, err := Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	return data, nil
}

func decodePayload(raw cbor.RawMessage, v any) error {
	if len(raw) == 0 {
		return ErrNoPayload
	}
	if err := Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}
	return nil
}
