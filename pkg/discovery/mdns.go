package discovery

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/enbility/zeroconf/v3"
)

// MDNSAdvertiser implements the Advertiser interface using zeroconf.
type MDNSAdvertiser struct {
	config AdvertiserConfig

	mu     sync.Mutex
	server *zeroconf.Server
	info   BridgeInfo
}

// NewMDNSAdvertiser creates a new mDNS advertiser.
func NewMDNSAdvertiser(config AdvertiserConfig) (*MDNSAdvertiser, error) {
	return &MDNSAdvertiser{
		config: config,
	}, nil
}

// getInterfaces returns the network interfaces to use for advertising.
// Returns nil to use all interfaces.
func (a *MDNSAdvertiser) getInterfaces() []net.Interface {
	if a.config.Interface == "" {
		return nil
	}

	iface, err := net.InterfaceByName(a.config.Interface)
	if err != nil {
		return nil
	}
	return []net.Interface{*iface}
}

// AdvertiseBridge starts advertising a bridge.
func (a *MDNSAdvertiser) AdvertiseBridge(ctx context.Context, info *BridgeInfo) error {
	txtRecords, err := EncodeBridgeTXT(info)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}

	port := int(info.Port)
	if port == 0 {
		port = DefaultPort
	}

	var opts []zeroconf.ServerOption
	if a.config.TTL > 0 {
		opts = append(opts, zeroconf.TTL(uint32(a.config.TTL.Seconds())))
	}

	server, err := zeroconf.Register(
		info.InstanceName(),
		ServiceTypeBridge,
		Domain,
		port,
		TXTRecordsToStrings(txtRecords),
		a.getInterfaces(),
		opts...,
	)
	if err != nil {
		return fmt.Errorf("failed to register bridge service: %w", err)
	}

	a.server = server
	a.info = *info
	return nil
}

// UpdateBridge replaces the TXT records of the running advertisement.
// The instance name and port stay unchanged.
func (a *MDNSAdvertiser) UpdateBridge(info *BridgeInfo) error {
	txtRecords, err := EncodeBridgeTXT(info)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server == nil {
		return ErrNotAdvertising
	}
	a.server.SetText(TXTRecordsToStrings(txtRecords))
	a.info.Name = info.Name
	a.info.Models = info.Models
	a.info.Profiles = info.Profiles
	a.info.DeviceCount = info.DeviceCount
	return nil
}

// StopBridge stops advertising the bridge.
func (a *MDNSAdvertiser) StopBridge() error {
	a.StopAll()
	return nil
}

// Advertising reports whether a bridge is currently advertised.
func (a *MDNSAdvertiser) Advertising() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.server != nil
}

// StopAll stops all advertisements.
func (a *MDNSAdvertiser) StopAll() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}
}

// MDNSBrowser implements the Browser interface using zeroconf.
type MDNSBrowser struct {
	config BrowserConfig

	mu      sync.Mutex
	stopped bool
	cancels []context.CancelFunc
}

// NewMDNSBrowser creates a new mDNS browser.
func NewMDNSBrowser(config BrowserConfig) (*MDNSBrowser, error) {
	return &MDNSBrowser{
		config: config,
	}, nil
}

// BrowseBridges searches for bridges.
// Services are aggregated by instance name; addresses from multiple
// interfaces are combined into a single entry. A bridge is reported as
// removed when its last address is withdrawn.
func (b *MDNSBrowser) BrowseBridges(ctx context.Context) (<-chan *BridgeService, <-chan *BridgeService, error) {
	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		return nil, nil, ErrBrowserStopped
	}
	ctx, cancel := context.WithCancel(ctx)
	b.cancels = append(b.cancels, cancel)
	b.mu.Unlock()

	added := make(chan *BridgeService)
	gone := make(chan *BridgeService)

	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)

	go func() {
		defer close(added)
		defer close(gone)

		services := newServiceSet()
		emit := func(out chan<- *BridgeService, svc *BridgeService) bool {
			select {
			case out <- svc:
				return true
			case <-ctx.Done():
				return false
			}
		}

		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					entries = nil
					continue
				}
				svc := entryToBridge(entry)
				if svc == nil {
					continue
				}
				if first := services.add(svc); first != nil && !emit(added, first) {
					return
				}

			case entry, ok := <-removed:
				if !ok {
					removed = nil
					continue
				}
				if last := services.remove(entry.Instance, entryAddresses(entry)); last != nil && !emit(gone, last) {
					return
				}

			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		_ = zeroconf.Browse(ctx, ServiceTypeBridge, Domain, entries, removed, b.browserOptions()...)
	}()

	return added, gone, nil
}

// FindBridge searches for a bridge by id, instance name or display name.
// Name matches ignore case.
func (b *MDNSBrowser) FindBridge(ctx context.Context, idOrName string) (*BridgeService, error) {
	if _, ok := ctx.Deadline(); !ok && b.config.BrowseTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.config.BrowseTimeout)
		defer cancel()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	added, _, err := b.BrowseBridges(ctx)
	if err != nil {
		return nil, err
	}

	for {
		select {
		case svc, ok := <-added:
			if !ok {
				return nil, ErrNotFound
			}
			if svc.Matches(idOrName) {
				return svc, nil
			}
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s", ErrNotFound, idOrName)
		}
	}
}

// Stop stops all active browsing operations.
func (b *MDNSBrowser) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stopped = true
	for _, cancel := range b.cancels {
		cancel()
	}
	b.cancels = nil
}

// browserOptions returns zeroconf client options based on config.
func (b *MDNSBrowser) browserOptions() []zeroconf.ClientOption {
	var opts []zeroconf.ClientOption

	if b.config.Interface != "" {
		iface, err := net.InterfaceByName(b.config.Interface)
		if err == nil {
			opts = append(opts, zeroconf.SelectIfaces([]net.Interface{*iface}))
		}
	}

	return opts
}

// Matches reports whether the service has the given bridge id, instance
// name or display name.
func (s *BridgeService) Matches(idOrName string) bool {
	return strings.EqualFold(s.BridgeID, idOrName) ||
		strings.EqualFold(s.InstanceName, idOrName) ||
		(s.Name != "" && strings.EqualFold(s.Name, idOrName))
}

// entryToBridge converts a zeroconf entry to a BridgeService.
func entryToBridge(entry *zeroconf.ServiceEntry) *BridgeService {
	return newBridgeService(entry.Instance, entry.HostName, entry.Port, entryAddresses(entry), entry.Text)
}

func entryAddresses(entry *zeroconf.ServiceEntry) []string {
	addrs := make([]string, 0, len(entry.AddrIPv4)+len(entry.AddrIPv6))
	for _, ip := range entry.AddrIPv4 {
		addrs = append(addrs, ip.String())
	}
	for _, ip := range entry.AddrIPv6 {
		addrs = append(addrs, ip.String())
	}
	return addrs
}

// newBridgeService builds a service from resolved record data. Entries
// whose TXT records do not describe a bridge yield nil.
func newBridgeService(instance, host string, port int, addrs []string, text []string) *BridgeService {
	svc, err := DecodeBridgeTXT(StringsToTXTRecords(text))
	if err != nil {
		return nil
	}
	svc.InstanceName = instance
	svc.Host = host
	svc.Port = uint16(port)
	svc.Addresses = addrs
	return svc
}

// serviceSet aggregates browse results by instance name.
type serviceSet struct {
	services map[string]*BridgeService
}

func newServiceSet() *serviceSet {
	return &serviceSet{services: make(map[string]*BridgeService)}
}

// add records svc and returns a copy of it when the instance is new.
// Known instances only gain addresses.
func (s *serviceSet) add(svc *BridgeService) *BridgeService {
	if existing, found := s.services[svc.InstanceName]; found {
		existing.Addresses = mergeAddresses(existing.Addresses, svc.Addresses)
		return nil
	}
	s.services[svc.InstanceName] = svc
	return svc.clone()
}

// remove withdraws addresses of an instance and returns a copy of the
// service once no address remains.
func (s *serviceSet) remove(instance string, addrs []string) *BridgeService {
	existing, found := s.services[instance]
	if !found {
		return nil
	}
	existing.Addresses = removeAddresses(existing.Addresses, addrs)
	if len(existing.Addresses) > 0 {
		return nil
	}
	delete(s.services, instance)
	return existing.clone()
}

func (s *BridgeService) clone() *BridgeService {
	c := *s
	c.Addresses = append([]string(nil), s.Addresses...)
	c.Models = append([]string(nil), s.Models...)
	c.Profiles = append([]string(nil), s.Profiles...)
	return &c
}

// mergeAddresses adds new addresses to existing list, avoiding duplicates.
func mergeAddresses(existing, new []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, addr := range existing {
		seen[addr] = true
	}

	for _, addr := range new {
		if !seen[addr] {
			existing = append(existing, addr)
			seen[addr] = true
		}
	}
	return existing
}

// removeAddresses drops the given addresses from the list.
func removeAddresses(addresses, drop []string) []string {
	toRemove := make(map[string]bool, len(drop))
	for _, addr := range drop {
		toRemove[addr] = true
	}

	result := make([]string, 0, len(addresses))
	for _, addr := range addresses {
		if !toRemove[addr] {
			result = append(result, addr)
		}
	}
	return result
}

// Ensure MDNSAdvertiser implements Advertiser interface.
var _ Advertiser = (*MDNSAdvertiser)(nil)

// Ensure MDNSBrowser implements Browser interface.
var _ Browser = (*MDNSBrowser)(nil)
