package wire

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/backend"
)

// encMode is the CBOR encoder mode for bridge messages.
// Configured for deterministic encoding with integer keys.
var encMode cbor.EncMode

// decMode is the CBOR decoder mode for bridge messages.
var decMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeUnix,
	}
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR encoder mode: %v", err))
	}

	// Lenient for forward compatibility: unknown keys are skipped.
	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}
	decMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR decoder mode: %v", err))
	}
}

// Marshal encodes a value to CBOR bytes.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR bytes into a value.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// MessageType represents the type of a decoded message.
type MessageType uint8

const (
	MessageTypeUnknown MessageType = iota
	MessageTypeRequest
	MessageTypeResponse
	MessageTypeNotification
	MessageTypeControl
)

// String returns the message type name.
func (t MessageType) String() string {
	switch t {
	case MessageTypeRequest:
		return "request"
	case MessageTypeResponse:
		return "response"
	case MessageTypeNotification:
		return "notification"
	case MessageTypeControl:
		return "control"
	default:
		return "unknown"
	}
}

type wireRequest struct {
	Type      MessageType     `cbor:"0,keyasint"`
	MessageID uint32          `cbor:"1,keyasint"`
	Operation Operation       `cbor:"2,keyasint"`
	Device    string          `cbor:"3,keyasint,omitempty"`
	Payload   cbor.RawMessage `cbor:"4,keyasint,omitempty"`
}

type wireResponse struct {
	Type      MessageType     `cbor:"0,keyasint"`
	MessageID uint32          `cbor:"1,keyasint"`
	Status    Status          `cbor:"2,keyasint"`
	Payload   cbor.RawMessage `cbor:"3,keyasint,omitempty"`
	Error     *ErrorPayload   `cbor:"4,keyasint,omitempty"`
}

type wireNotification struct {
	Type      MessageType    `cbor:"0,keyasint"`
	MessageID uint32         `cbor:"1,keyasint"`
	Device    string         `cbor:"2,keyasint"`
	Event     *backend.Event `cbor:"3,keyasint,omitempty"`
	Progress  *Progress      `cbor:"4,keyasint,omitempty"`
}

type wireControl struct {
	Type      MessageType        `cbor:"0,keyasint"`
	MessageID uint32             `cbor:"1,keyasint"`
	Control   ControlMessageType `cbor:"2,keyasint"`
	Sequence  uint32             `cbor:"3,keyasint,omitempty"`
}

// EncodeRequest encodes a request message to CBOR bytes.
func EncodeRequest(req *Request) ([]byte, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	return Marshal(wireRequest{
		Type:      MessageTypeRequest,
		MessageID: req.MessageID,
		Operation: req.Operation,
		Device:    req.Device,
		Payload:   req.Payload,
	})
}

// DecodeRequest decodes CBOR bytes into a request message.
func DecodeRequest(data []byte) (*Request, error) {
	var msg wireRequest
	if err := Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to decode request: %w", err)
	}
	if msg.Type != MessageTypeRequest {
		return nil, fmt.Errorf("not a request: %s", msg.Type)
	}
	req := &Request{
		MessageID: msg.MessageID,
		Operation: msg.Operation,
		Device:    msg.Device,
		Payload:   msg.Payload,
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	return req, nil
}

// EncodeResponse encodes a response message to CBOR bytes.
func EncodeResponse(resp *Response) ([]byte, error) {
	return Marshal(wireResponse{
		Type:      MessageTypeResponse,
		MessageID: resp.MessageID,
		Status:    resp.Status,
		Payload:   resp.Payload,
		Error:     resp.Error,
	})
}

// DecodeResponse decodes CBOR bytes into a response message.
func DecodeResponse(data []byte) (*Response, error) {
	var msg wireResponse
	if err := Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if msg.Type != MessageTypeResponse {
		return nil, fmt.Errorf("not a response: %s", msg.Type)
	}
	return &Response{
		MessageID: msg.MessageID,
		Status:    msg.Status,
		Payload:   msg.Payload,
		Error:     msg.Error,
	}, nil
}

// EncodeNotification encodes a notification message to CBOR bytes.
// Notifications have messageId=0 which is handled automatically.
func EncodeNotification(notif *Notification) ([]byte, error) {
	return Marshal(wireNotification{
		Type:      MessageTypeNotification,
		MessageID: NotificationMessageID,
		Device:    notif.Device,
		Event:     notif.Event,
		Progress:  notif.Progress,
	})
}

// DecodeNotification decodes CBOR bytes into a notification message.
func DecodeNotification(data []byte) (*Notification, error) {
	var msg wireNotification
	if err := Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to decode notification: %w", err)
	}
	if msg.Type != MessageTypeNotification || msg.MessageID != NotificationMessageID {
		return nil, fmt.Errorf("not a notification message: type=%s messageId=%d", msg.Type, msg.MessageID)
	}
	return &Notification{
		Device:   msg.Device,
		Event:    msg.Event,
		Progress: msg.Progress,
	}, nil
}

// EncodeControlMessage encodes a control message (ping/pong/close) to CBOR bytes.
func EncodeControlMessage(msg *ControlMessage) ([]byte, error) {
	return Marshal(wireControl{
		Type:     MessageTypeControl,
		Control:  msg.Type,
		Sequence: msg.Sequence,
	})
}

// DecodeControlMessage decodes CBOR bytes into a control message.
func DecodeControlMessage(data []byte) (*ControlMessage, error) {
	var msg wireControl
	if err := Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to decode control message: %w", err)
	}
	if msg.Type != MessageTypeControl {
		return nil, fmt.Errorf("not a control message: %s", msg.Type)
	}
	return &ControlMessage{Type: msg.Control, Sequence: msg.Sequence}, nil
}

// PeekMessageType reads key 0 of a message without decoding the rest.
func PeekMessageType(data []byte) (MessageType, error) {
	var peek struct {
		Type MessageType `cbor:"0,keyasint"`
	}
	if err := Unmarshal(data, &peek); err != nil {
		return MessageTypeUnknown, fmt.Errorf("failed to peek message: %w", err)
	}
	if peek.Type > MessageTypeControl {
		return MessageTypeUnknown, nil
	}
	return peek.Type, nil
}
