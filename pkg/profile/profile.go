// Package profile provides the built-in camera profiles and simulated
// cameras matching them.
//
// The "ptp" profile covers cameras driven through a PTP property table:
// every setting is a device property with a 16-bit code that can be read,
// written and enumerated. The "legacy" profile covers older cameras with a
// release-control SDK where some values can only be written and shooting
// parameters often refuse enumeration, so the model quirk data supplies
// the valid values.
package profile

import (
	"errors"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/camera"
)

// All returns fresh copies of the built-in profiles.
func All() []*camera.Profile {
	return []*camera.Profile{PTP(), Legacy()}
}

// Register adds the built-in profiles to inst.
func Register(inst *camera.Instance) error {
	var errs []error
	for _, p := range All() {
		if err := inst.RegisterProfile(p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
