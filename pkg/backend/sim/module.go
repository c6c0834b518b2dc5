package sim

import (
	"context"
	"fmt"
	"sync"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/backend"
)

// ModuleName is the default module name of simulated cameras.
const ModuleName = "sim"

type camera struct {
	desc   backend.Descriptor
	config Config
}

// Module is a backend.Module listing a fixed set of simulated cameras.
type Module struct {
	name string

	mu      sync.Mutex
	cameras []camera
	drivers map[string]*Driver
}

// NewModule creates an empty module. An empty name selects ModuleName.
func NewModule(name string) *Module {
	if name == "" {
		name = ModuleName
	}
	return &Module{name: name, drivers: make(map[string]*Driver)}
}

// Add registers a simulated camera. The descriptor's Module field is set
// to the module name.
func (m *Module) Add(desc backend.Descriptor, config Config) {
	m.mu.Lock()
	defer m.mu.Unlock()

	desc.Module = m.name
	if desc.Model == "" {
		desc.Model = config.Info.Model
	}
	if desc.Serial == "" {
		desc.Serial = config.Info.Serial
	}
	m.cameras = append(m.cameras, camera{desc: desc, config: config})
}

// Driver returns the driver most recently created for device id.
func (m *Module) Driver(id string) *Driver {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.drivers[id]
}

// Name implements backend.Module.
func (m *Module) Name() string {
	return m.name
}

// Enumerate implements backend.Module.
func (m *Module) Enumerate(ctx context.Context) ([]backend.Descriptor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	descs := make([]backend.Descriptor, 0, len(m.cameras))
	for _, c := range m.cameras {
		descs = append(descs, c.desc)
	}
	return descs, nil
}

// NewDriver implements backend.Module.
func (m *Module) NewDriver(desc backend.Descriptor) (backend.Driver, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.cameras {
		if c.desc.ID == desc.ID {
			d := New(c.config)
			m.drivers[desc.ID] = d
			return d, nil
		}
	}
	return nil, fmt.Errorf("sim: no camera with id %q", desc.ID)
}

var _ backend.Module = (*Module)(nil)
