// Package transport carries bridge messages between hosts.
//
// The transport layer handles:
//   - Length-prefixed message framing
//   - Keep-alive ping/pong for connection liveness
//   - Connection state management
//
// # Protocol Stack
//
//	┌────────────────────────────────┐
//	│      CBOR Messages (wire)      │
//	├────────────────────────────────┤
//	│   Length-Prefix Framing (4B)   │
//	├────────────────────────────────┤
//	│           TCP                  │
//	└────────────────────────────────┘
//
// Bridges run on a trusted local network next to the camera; the stream is
// not encrypted.
//
// # Keep-Alive
//
// Connection liveness is monitored using ping/pong messages:
//   - Ping interval: 10 seconds
//   - Pong timeout: 3 seconds
//   - Max missed pongs: 3
//   - Maximum detection delay: 33 seconds
package transport
