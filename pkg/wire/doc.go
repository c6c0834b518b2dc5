// Package wire defines the CBOR messages of the camera bridge protocol.
//
// A bridge exposes the backend drivers of one host to remote clients. All
// messages are CBOR (RFC 8949) maps with integer keys, sent as
// length-prefixed frames by package transport.
//
// # Message Types
//
//   - Request: client to bridge, one backend driver call
//   - Response: bridge to client, the result of a request
//   - Notification: bridge to client, driver events and download progress
//   - Control: either direction, ping/pong/close
//
// Key 0 of every message carries its MessageType, so a receiver can route
// a frame without decoding it fully.
//
// # Errors
//
// Failed driver calls travel as an ErrorPayload that keeps the vendor
// status code, so a remote caller sees the same *backend.Error values a
// local caller would.
package wire
