package property

import "errors"

// Property errors.
var (
	// ErrReadOnlyProperty is returned when writing a property that is not writable.
	ErrReadOnlyProperty = errors.New("property is read-only")

	// ErrWriteOnlyProperty is returned when reading a property that is not readable.
	ErrWriteOnlyProperty = errors.New("property is write-only")

	// ErrUnknownProperty is returned when a value has no raw encoding for a
	// property absent from the table.
	ErrUnknownProperty = errors.New("unknown property")

	// ErrDuplicateProperty is returned when a table registers an id twice.
	ErrDuplicateProperty = errors.New("duplicate property")

	// ErrInvalidData is returned when raw bytes are too short for the codec.
	ErrInvalidData = errors.New("invalid property data")

	// ErrInvalidQuirk is returned for malformed quirk rules.
	ErrInvalidQuirk = errors.New("invalid quirk rule")
)
