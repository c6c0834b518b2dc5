package discovery

import (
	"context"
	"time"
)

// Advertiser provides mDNS service advertising capabilities.
type Advertiser interface {
	// AdvertiseBridge starts advertising a bridge. A running advertisement
	// is replaced.
	AdvertiseBridge(ctx context.Context, info *BridgeInfo) error

	// UpdateBridge updates the TXT records of the running advertisement.
	UpdateBridge(info *BridgeInfo) error

	// StopBridge stops advertising the bridge.
	StopBridge() error
}

// AdvertiserConfig configures advertiser behavior.
type AdvertiserConfig struct {
	// Interface specifies which network interface to use.
	// Empty string means all interfaces.
	Interface string

	// TTL is the DNS record TTL.
	// Default: 120 seconds.
	TTL time.Duration
}

// DefaultAdvertiserConfig returns the default advertiser configuration.
func DefaultAdvertiserConfig() AdvertiserConfig {
	return AdvertiserConfig{
		Interface: "",
		TTL:       DefaultTTL,
	}
}

// Browser provides mDNS service browsing capabilities.
type Browser interface {
	// BrowseBridges searches for bridges. Returns two channels: added
	// (new bridges) and removed (bridges that disappeared). Both channels
	// are closed when the context is cancelled.
	BrowseBridges(ctx context.Context) (added, removed <-chan *BridgeService, err error)

	// FindBridge returns the first bridge whose id or name matches.
	FindBridge(ctx context.Context, idOrName string) (*BridgeService, error)
}

// BrowserConfig configures browser behavior.
type BrowserConfig struct {
	// BrowseTimeout is the default timeout for browse operations.
	// Default: 10 seconds.
	BrowseTimeout time.Duration

	// Interface specifies which network interface to use.
	// Empty string means all interfaces.
	Interface string
}

// DefaultBrowserConfig returns the default browser configuration.
func DefaultBrowserConfig() BrowserConfig {
	return BrowserConfig{
		BrowseTimeout: BrowseTimeout,
		Interface:     "",
	}
}

// Collect browses for timeout and returns every bridge found. It returns
// when ctx ends or the browser closes both channels, whichever is first.
func Collect(ctx context.Context, b Browser, timeout time.Duration) ([]*BridgeService, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	added, removed, err := b.BrowseBridges(ctx)
	if err != nil {
		return nil, err
	}

	var found []*BridgeService
	for added != nil || removed != nil {
		select {
		case svc, ok := <-added:
			if !ok {
				added = nil
				continue
			}
			found = append(found, svc)
		case svc, ok := <-removed:
			if !ok {
				removed = nil
				continue
			}
			found = dropService(found, svc.InstanceName)
		case <-ctx.Done():
			return drainAdded(found, added), nil
		}
	}
	return found, nil
}

// drainAdded appends services already buffered in added.
func drainAdded(found []*BridgeService, added <-chan *BridgeService) []*BridgeService {
	for added != nil {
		select {
		case svc, ok := <-added:
			if !ok {
				return found
			}
			found = append(found, svc)
		default:
			return found
		}
	}
	return found
}

func dropService(list []*BridgeService, instance string) []*BridgeService {
	out := list[:0]
	for _, svc := range list {
		if svc.InstanceName != instance {
			out = append(out, svc)
		}
	}
	return out
}
