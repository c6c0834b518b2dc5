package wire

// Status represents a response status code.
type Status uint8

const (
	// StatusSuccess indicates the call completed successfully.
	StatusSuccess Status = 0

	// StatusInvalidDevice indicates the device id is unknown to the bridge.
	StatusInvalidDevice Status = 1

	// StatusInvalidOperation indicates an unknown operation.
	StatusInvalidOperation Status = 2

	// StatusInvalidParameter indicates a missing or malformed payload.
	StatusInvalidParameter Status = 3

	// StatusNotOpen indicates the device was not opened by this client.
	StatusNotOpen Status = 4

	// StatusAlreadyOpen indicates another client holds the device.
	StatusAlreadyOpen Status = 5

	// StatusBackendError indicates the driver call failed. The response
	// carries an ErrorPayload.
	StatusBackendError Status = 6

	// StatusNotAvailable indicates the end of a cursor or a missing
	// live-view frame.
	StatusNotAvailable Status = 7
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "SUCCESS"
	case StatusInvalidDevice:
		return "INVALID_DEVICE"
	case StatusInvalidOperation:
		return "INVALID_OPERATION"
	case StatusInvalidParameter:
		return "INVALID_PARAMETER"
	case StatusNotOpen:
		return "NOT_OPEN"
	case StatusAlreadyOpen:
		return "ALREADY_OPEN"
	case StatusBackendError:
		return "BACKEND_ERROR"
	case StatusNotAvailable:
		return "NOT_AVAILABLE"
	default:
		return "UNKNOWN"
	}
}

// IsSuccess returns true if the status indicates success.
func (s Status) IsSuccess() bool {
	return s == StatusSuccess
}

// IsError returns true if the status indicates an error.
func (s Status) IsError() bool {
	return s != StatusSuccess
}
