package camera

import (
	"fmt"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/backend"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/property"
)

// LiveViewOutput describes the live-view output property of a profile.
// The property holds a bit set of output targets.
type LiveViewOutput struct {
	// Type is the neutral type of the output property; TypeUnknown
	// disables the viewfinder.
	Type property.Type

	TFT   uint32
	PC    uint32
	Video uint32
}

// Profile binds a backend family to its property table and feature set.
// It is selected by the descriptor's profile name when a device is opened.
type Profile struct {
	Name  string
	Table *property.Table

	// ShootingModes maps generic modes onto raw shooting mode values.
	ShootingModes map[ShootingMode]uint32

	// SaveTargets maps save targets onto raw SaveTo values. Missing
	// entries use the numeric SaveTarget.
	SaveTargets map[SaveTarget]uint32

	// Commands maps generic commands onto driver command sequences.
	Commands map[CameraCommand][]backend.Command

	LiveView LiveViewOutput

	// Feature flags that cannot be derived from the table.
	Release                bool
	FileSystem             bool
	Bulb                   bool
	UILock                 bool
	AFLock                 bool
	ReleaseWhileViewfinder bool
}

// Validate checks that the profile is usable.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile: missing name")
	}
	if p.Table == nil {
		return fmt.Errorf("profile %s: missing property table", p.Name)
	}
	if p.LiveView.Type != property.TypeUnknown {
		if _, ok := p.Table.ByType(p.LiveView.Type); !ok {
			return fmt.Errorf("profile %s: live-view property %s not in table", p.Name, p.LiveView.Type)
		}
		if p.LiveView.PC == 0 {
			return fmt.Errorf("profile %s: live-view PC bit missing", p.Name)
		}
	}
	return nil
}

func (p *Profile) writable(t property.Type) bool {
	desc, ok := p.Table.ByType(t)
	return ok && desc.Access.Has(backend.AccessWrite)
}

func (p *Profile) hasViewfinder() bool {
	return p.LiveView.Type != property.TypeUnknown && p.LiveView.PC != 0
}

func (p *Profile) saveToValue(t SaveTarget) uint32 {
	if v, ok := p.SaveTargets[t]; ok {
		return v
	}
	return uint32(t)
}

func (p *Profile) sourceCapability(c SourceCapability) bool {
	switch c {
	case CapRemoteReleaseControl:
		return p.Release
	case CapRemoteViewfinder:
		return p.Release && p.hasViewfinder()
	case CapCameraFileSystem:
		return p.FileSystem
	default:
		return false
	}
}

func (p *Profile) releaseCapability(c ReleaseCapability) bool {
	switch c {
	case CapChangeShootingParameter:
		for _, row := range p.Table.Rows() {
			if row.Group == property.GroupImage && row.Access.Has(backend.AccessWrite) {
				return true
			}
		}
		return false
	case CapChangeShootingMode:
		return p.writable(property.TypeShootingMode)
	case CapZoomControl:
		return p.writable(property.TypeCurrentZoomPos)
	case CapViewfinder:
		return p.hasViewfinder()
	case CapReleaseWhileViewfinder:
		return p.hasViewfinder() && p.ReleaseWhileViewfinder
	case CapAFLock:
		return p.AFLock
	case CapBulbMode:
		return p.Bulb
	case CapUILock:
		return p.UILock
	default:
		return false
	}
}
