package backend

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrNotSupported is matched by any *Error carrying CodeNotSupported.
	ErrNotSupported = errors.New("not supported")

	// ErrUnsupportedCapability indicates the device or profile lacks a capability.
	ErrUnsupportedCapability = errors.New("unsupported capability")

	// ErrNotAvailable ends an enumeration cursor and marks a live-view
	// frame that is not ready yet.
	ErrNotAvailable = errors.New("not available")
)

// Neutral status codes. Drivers map vendor codes onto these where a
// neutral meaning exists and set VendorSpecific otherwise.
const (
	CodeOK               uint32 = 0x0000
	CodeInternalError    uint32 = 0x0002
	CodeNotSupported     uint32 = 0x0007
	CodeInvalidParameter uint32 = 0x0060
	CodeDeviceBusy       uint32 = 0x0081
	CodeCommFailure      uint32 = 0x00C0
	CodeTakePictureFail  uint32 = 0x8D01
)

// Error is a failed backend call. The vendor status is kept verbatim.
type Error struct {
	// Component names the reporting layer (SDK name, "bridge", ...).
	Component string

	// Code is the status code.
	Code uint32

	// VendorSpecific is true when Code is a vendor code with no neutral meaning.
	VendorSpecific bool

	// Op is the driver operation that failed.
	Op string
}

// NewError creates a neutral backend error.
func NewError(component, op string, code uint32) *Error {
	return &Error{Component: component, Code: code, Op: op}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.VendorSpecific {
		return fmt.Sprintf("%s: %s failed: vendor code 0x%08x", e.Component, e.Op, e.Code)
	}
	return fmt.Sprintf("%s: %s failed: %s (0x%08x)", e.Component, e.Op, codeName(e.Code), e.Code)
}

// Is reports whether the error matches a sentinel.
func (e *Error) Is(target error) bool {
	return target == ErrNotSupported && !e.VendorSpecific && e.Code == CodeNotSupported
}

// IsNotSupported reports whether err is a not-supported backend error.
func IsNotSupported(err error) bool {
	return errors.Is(err, ErrNotSupported)
}

// CodeOf returns the status code carried by err, CodeOK for nil and
// CodeInternalError for errors that are not backend errors.
func CodeOf(err error) uint32 {
	if err == nil {
		return CodeOK
	}
	var be *Error
	if errors.As(err, &be) {
		return be.Code
	}
	return CodeInternalError
}

func codeName(code uint32) string {
	switch code {
	case CodeOK:
		return "ok"
	case CodeInternalError:
		return "internal error"
	case CodeNotSupported:
		return "not supported"
	case CodeInvalidParameter:
		return "invalid parameter"
	case CodeDeviceBusy:
		return "device busy"
	case CodeCommFailure:
		return "communication failure"
	case CodeTakePictureFail:
		return "take picture failed"
	default:
		return "error"
	}
}
