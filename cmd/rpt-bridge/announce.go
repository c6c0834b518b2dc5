package main

import (
	"context"
	"log"
	"slices"
	"time"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/backend"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/discovery"
)

// hiddenModule serves every device of Module except the one claimed by
// the local live view.
type hiddenModule struct {
	backend.Module
	hide string
}

func (m *hiddenModule) Enumerate(ctx context.Context) ([]backend.Descriptor, error) {
	descs, err := m.Module.Enumerate(ctx)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(descs, func(d backend.Descriptor) bool {
		return d.ID == m.hide
	}), nil
}

func (m *hiddenModule) NewDriver(desc backend.Descriptor) (backend.Driver, error) {
	if desc.ID == m.hide {
		return nil, backend.ErrNotAvailable
	}
	return m.Module.NewDriver(desc)
}

// bridgeInfo builds the announcement from the devices the module lists.
func bridgeInfo(ctx context.Context, m backend.Module, id, name string, port uint16) (*discovery.BridgeInfo, error) {
	descs, err := m.Enumerate(ctx)
	if err != nil {
		return nil, err
	}
	info := &discovery.BridgeInfo{
		BridgeID:    id,
		Name:        name,
		Port:        port,
		DeviceCount: len(descs),
	}
	for _, d := range descs {
		if d.Model != "" && !slices.Contains(info.Models, d.Model) {
			info.Models = append(info.Models, d.Model)
		}
		if d.Profile != "" && !slices.Contains(info.Profiles, d.Profile) {
			info.Profiles = append(info.Profiles, d.Profile)
		}
	}
	return info, nil
}

// sameDevices reports whether two announcements list the same cameras.
func sameDevices(a, b *discovery.BridgeInfo) bool {
	return a.DeviceCount == b.DeviceCount &&
		slices.Equal(a.Models, b.Models) &&
		slices.Equal(a.Profiles, b.Profiles)
}

// refreshLoop re-enumerates the module every interval and updates the
// TXT records when the attached cameras change.
func refreshLoop(ctx context.Context, adv discovery.Advertiser, m backend.Module, current *discovery.BridgeInfo, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		info, err := bridgeInfo(ctx, m, current.BridgeID, current.Name, current.Port)
		if err != nil {
			log.Printf("Warning: enumerating cameras failed: %v", err)
			continue
		}
		if sameDevices(info, current) {
			continue
		}
		if err := adv.UpdateBridge(info); err != nil {
			log.Printf("Warning: updating advertisement failed: %v", err)
			continue
		}
		log.Printf("Advertisement updated: %d camera(s)", info.DeviceCount)
		current = info
	}
}
