// Package discovery implements mDNS/DNS-SD discovery of camera bridges.
//
// A bridge advertises one service instance of type _rptbridge._tcp.
// Instance name format: RPT-<bridge-id>, where the bridge id is the first
// 64 bits of SHA-256 over the host name and port.
//
// # TXT Records
//
//   - BI: bridge id (16 hex chars)
//   - PV: protocol version
//   - DN: bridge name (optional, user-configurable)
//   - MD: camera models, comma-separated (optional)
//   - PR: camera profiles, comma-separated (optional)
//   - DC: device count (optional)
//
// Browsers aggregate the addresses a bridge announces on several
// interfaces into one BridgeService and report a bridge as removed once
// its last address is withdrawn.
package discovery
