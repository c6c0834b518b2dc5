package backend

import "context"

// Descriptor identifies a device reachable through a Module.
type Descriptor struct {
	// Module is the name of the module that enumerated the device.
	Module string `cbor:"1,keyasint" json:"module" yaml:"module"`

	// ID is the module specific device address.
	ID string `cbor:"2,keyasint" json:"id" yaml:"id"`

	Model  string `cbor:"3,keyasint,omitempty" json:"model,omitempty" yaml:"model,omitempty"`
	Serial string `cbor:"4,keyasint,omitempty" json:"serial,omitempty" yaml:"serial,omitempty"`

	// Profile names the camera profile used to open the device.
	Profile string `cbor:"5,keyasint" json:"profile" yaml:"profile"`

	// Attrs carries module specific attributes (bridge address, ...).
	Attrs map[string]string `cbor:"6,keyasint,omitempty" json:"attrs,omitempty" yaml:"attrs,omitempty"`
}

// String returns "module:id".
func (d Descriptor) String() string {
	return d.Module + ":" + d.ID
}

// Module lists devices of one SDK and creates drivers for them.
type Module interface {
	// Name returns the module name used in descriptors.
	Name() string

	// Enumerate lists the currently reachable devices.
	Enumerate(ctx context.Context) ([]Descriptor, error)

	// NewDriver creates an unopened driver for desc.
	NewDriver(desc Descriptor) (Driver, error)
}
