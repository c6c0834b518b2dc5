package camera

import "errors"

// Camera errors.
var (
	// ErrClosed is returned by operations on a closed device or session.
	ErrClosed = errors.New("camera: closed")

	// ErrUnknownModule is returned when a descriptor names an unregistered module.
	ErrUnknownModule = errors.New("camera: unknown module")

	// ErrUnknownProfile is returned when a descriptor names an unregistered profile.
	ErrUnknownProfile = errors.New("camera: unknown profile")

	// ErrDuplicateProfile is returned when a profile name is registered twice.
	ErrDuplicateProfile = errors.New("camera: duplicate profile")

	// ErrAlreadyActive is returned when a session of the same kind is already open.
	ErrAlreadyActive = errors.New("camera: already active")
)
