package discovery

import (
	"errors"
	"net"
	"strconv"
	"time"
)

// Service type constants for mDNS.
const (
	// ServiceTypeBridge is the service type of camera bridges.
	ServiceTypeBridge = "_rptbridge._tcp"

	// Domain is the mDNS domain.
	Domain = "local"

	// DefaultPort is the default bridge port.
	DefaultPort = 15741

	// ProtocolVersion is the bridge protocol version announced in PV.
	ProtocolVersion = 1

	// InstancePrefix starts every bridge instance name.
	InstancePrefix = "RPT-"
)

// TXT record key constants.
const (
	TXTKeyBridgeID    = "BI" // Bridge ID (first 64 bits of SHA-256)
	TXTKeyVersion     = "PV" // Protocol version
	TXTKeyName        = "DN" // Bridge name (optional)
	TXTKeyModels      = "MD" // Camera models (optional, comma-separated)
	TXTKeyProfiles    = "PR" // Camera profiles (optional, comma-separated)
	TXTKeyDeviceCount = "DC" // Device count (optional)
)

// Timing constants.
const (
	// BrowseTimeout is the default timeout for mDNS browsing.
	BrowseTimeout = 10 * time.Second

	// DefaultTTL is the default DNS record TTL.
	DefaultTTL = 120 * time.Second
)

// Limits.
const (
	// MaxInstanceNameLen is the DNS label limit.
	MaxInstanceNameLen = 63

	// MaxTXTRecordSize is the maximum total TXT record size.
	MaxTXTRecordSize = 400

	// IDLength is the length of a bridge ID (16 hex chars = 64 bits).
	IDLength = 16
)

// Discovery errors.
var (
	ErrInvalidTXTRecord = errors.New("invalid TXT record format")
	ErrMissingRequired  = errors.New("missing required field")
	ErrInvalidBridgeID  = errors.New("invalid bridge id")
	ErrTXTTooLarge      = errors.New("TXT records exceed size limit")
	ErrNotFound         = errors.New("service not found")
	ErrNotAdvertising   = errors.New("bridge is not advertised")
	ErrBrowserStopped   = errors.New("browser stopped")
)

// BridgeInfo is what a bridge announces about itself.
type BridgeInfo struct {
	// BridgeID identifies the bridge; see BridgeID.
	BridgeID string

	// Name is the user-facing bridge name (optional).
	Name string

	// Port is the bridge TCP port (0 selects DefaultPort).
	Port uint16

	// Models lists the camera models currently attached.
	Models []string

	// Profiles lists the camera profiles of the attached cameras.
	Profiles []string

	// DeviceCount is the number of attached cameras.
	DeviceCount int
}

// InstanceName returns the mDNS instance name of the bridge.
func (i *BridgeInfo) InstanceName() string {
	name := InstancePrefix + i.BridgeID
	if len(name) > MaxInstanceNameLen {
		name = name[:MaxInstanceNameLen]
	}
	return name
}

// BridgeService is a bridge found by browsing.
type BridgeService struct {
	// InstanceName is the mDNS instance name.
	InstanceName string

	// Host is the advertised host name.
	Host string

	// Port is the bridge TCP port.
	Port uint16

	// Addresses are the IP addresses of the bridge, IPv4 first.
	Addresses []string

	BridgeID    string
	Version     int
	Name        string
	Models      []string
	Profiles    []string
	DeviceCount int
}

// Address returns a "host:port" dial address, preferring the first IP
// address over the host name.
func (s *BridgeService) Address() string {
	host := s.Host
	if len(s.Addresses) > 0 {
		host = s.Addresses[0]
	}
	return net.JoinHostPort(host, strconv.Itoa(int(s.Port)))
}

// DisplayName returns the bridge name, or its instance name if unnamed.
func (s *BridgeService) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.InstanceName
}
