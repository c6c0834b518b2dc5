package camera

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/backend"
)

// Instance is the entry point: it holds the registered backend modules
// and profiles and opens devices.
type Instance struct {
	config Config

	mu       sync.RWMutex
	modules  []backend.Module
	profiles map[string]*Profile
}

// New creates an Instance. Zero durations in config are taken from
// DefaultConfig.
func New(config Config) *Instance {
	return &Instance{
		config:   config.withDefaults(),
		profiles: make(map[string]*Profile),
	}
}

// RegisterModule adds a backend module. A module with the same name
// replaces the earlier one.
func (in *Instance) RegisterModule(m backend.Module) {
	in.mu.Lock()
	defer in.mu.Unlock()

	in.modules = slices.DeleteFunc(in.modules, func(old backend.Module) bool {
		return old.Name() == m.Name()
	})
	in.modules = append(in.modules, m)
}

// RegisterProfile adds a profile.
func (in *Instance) RegisterProfile(p *Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	in.mu.Lock()
	defer in.mu.Unlock()

	if _, dup := in.profiles[p.Name]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateProfile, p.Name)
	}
	in.profiles[p.Name] = p
	return nil
}

// Profile returns a registered profile.
func (in *Instance) Profile(name string) (*Profile, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	p, ok := in.profiles[name]
	return p, ok
}

// EnumerateDevices lists the devices of all modules. A failing module is
// logged and skipped.
func (in *Instance) EnumerateDevices(ctx context.Context) ([]SourceInfo, error) {
	in.mu.RLock()
	modules := slices.Clone(in.modules)
	in.mu.RUnlock()

	var sources []SourceInfo
	for _, m := range modules {
		descs, err := m.Enumerate(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if in.config.Logger != nil {
				in.config.Logger.Warn("enumerating devices failed",
					slog.String("module", m.Name()), slog.String("error", err.Error()))
			}
			continue
		}
		for _, desc := range descs {
			name := desc.Model
			if name == "" {
				name = desc.String()
			}
			sources = append(sources, SourceInfo{Name: name, Descriptor: desc})
		}
	}
	return sources, nil
}

// Open opens the device described by desc with the profile it names.
func (in *Instance) Open(ctx context.Context, desc backend.Descriptor) (*Device, error) {
	in.mu.RLock()
	var module backend.Module
	for _, m := range in.modules {
		if m.Name() == desc.Module {
			module = m
			break
		}
	}
	profile, hasProfile := in.profiles[desc.Profile]
	in.mu.RUnlock()

	if module == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModule, desc.Module)
	}
	if !hasProfile {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProfile, desc.Profile)
	}

	driver, err := module.NewDriver(desc)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", desc, err)
	}
	return openDevice(ctx, in.config, desc, profile, driver)
}
